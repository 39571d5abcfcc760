package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"attendance.service/internal/core/model"
	"github.com/rs/zerolog/log"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError sends a JSON error message.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// HandleError maps domain errors to HTTP statuses; anything unknown is a 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidKind),
		errors.Is(err, model.ErrInvalidLocation),
		errors.Is(err, model.ErrInvalidMonth):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrAlreadyRecorded):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrPunchNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, "Service error processing request")
	}
}
