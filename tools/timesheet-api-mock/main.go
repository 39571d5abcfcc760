package main

import (
	"encoding/json"
	"net/http"
	"os"

	"attendance.service/internal/ports/messaging"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func recordHandler(w http.ResponseWriter, r *http.Request) {
	var event messaging.DayClosedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	log.Info().
		Str("user_id", event.UserID).
		Str("date", event.Date).
		Str("check_in", event.CheckIn).
		Str("check_out", event.CheckOut).
		Stringer("actual", event.WorkTime.Actual).
		Stringer("overtime", event.WorkTime.NormalOvertime).
		Stringer("night_overtime", event.WorkTime.NightOvertime).
		Msg("Received closed day")
	w.WriteHeader(http.StatusOK)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	r := mux.NewRouter()
	r.HandleFunc("/", recordHandler).Methods(http.MethodPost)

	log.Info().Msg("Timesheet API mock server starting on port 8081...")
	if err := http.ListenAndServe(":8081", r); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
