package middleware

import (
	"net/http"

	"attendance.service/internal/api/handler"
	"attendance.service/internal/core/model"
	"github.com/go-chi/jwtauth/v5"
)

// NewJWTAuth builds the HS256 verifier for access tokens issued by the
// login service.
func NewJWTAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// Authenticate turns a verified access token into a model.Principal on the
// request context. It must run after jwtauth.Verifier.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			handler.WriteError(w, http.StatusUnauthorized, "Invalid or missing token")
			return
		}

		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" {
			handler.WriteError(w, http.StatusUnauthorized, "Token has no user")
			return
		}

		p := model.Principal{UserID: userID, Role: model.RoleEmployee}
		if model.Role(role) == model.RoleAdmin {
			p.Role = model.RoleAdmin
		}

		next.ServeHTTP(w, r.WithContext(model.WithPrincipal(r.Context(), p)))
	})
}

// AdminOnly rejects principals without the admin role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := model.PrincipalFromContext(r.Context())
		if !ok {
			handler.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !p.IsAdmin() {
			handler.WriteError(w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
