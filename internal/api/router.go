package api

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/gorilla/mux"

	"attendance.service/internal/api/handler"
	"attendance.service/internal/api/middleware"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service handler.AttendanceService, ja *jwtauth.JWTAuth, loc *time.Location) *mux.Router {
	h := handler.AttendanceHandler{
		Service: service,
		Loc:     loc,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(jwtauth.Verifier(ja), middleware.Authenticate)

	authed.HandleFunc("/punches", h.Punch).Methods(http.MethodPost)
	authed.HandleFunc("/status/today", h.TodayStatus).Methods(http.MethodGet)
	authed.HandleFunc("/attendance/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.MyMonth).Methods(http.MethodGet)

	admin := authed.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly)

	admin.HandleFunc("/users/{userId}/attendance/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.UserMonth).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}/attendance/{year:[0-9]{4}}/{month:[0-9]{1,2}}/export", h.ExportMonth).Methods(http.MethodGet)
	admin.HandleFunc("/punches/{id}", h.EditPunch).Methods(http.MethodPut)
	admin.HandleFunc("/punches/{id}", h.DeletePunch).Methods(http.MethodDelete)

	return r
}
