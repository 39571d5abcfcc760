package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/core/report"
	"github.com/gorilla/mux"
)

// AttendanceService is what the HTTP layer needs from the core.
type AttendanceService interface {
	Punch(ctx context.Context, p model.Principal, kind model.PunchKind, loc model.Location) (model.PunchEvent, error)
	TodayStatus(ctx context.Context, p model.Principal) (model.AttendanceStatus, error)
	MonthlyReport(ctx context.Context, p model.Principal, userID string, year int, month time.Month) (report.MonthlyReport, error)
	EditPunch(ctx context.Context, p model.Principal, id string, edit core.PunchEdit) (model.PunchEvent, error)
	DeletePunch(ctx context.Context, p model.Principal, id string) error
}

type AttendanceHandler struct {
	Service AttendanceService
	// Loc interprets admin-supplied timestamps that carry no offset.
	Loc *time.Location
}

type PunchRequest struct {
	Kind      string  `json:"kind"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type EditPunchRequest struct {
	Timestamp *string  `json:"timestamp"`
	Kind      *string  `json:"kind"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type StatusResponse struct {
	Status   model.AttendanceStatus `json:"status"`
	Disabled model.DisabledActions  `json:"disabled"`
}

// Punch records one of the four punch actions for the caller.
func (h *AttendanceHandler) Punch(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	kind, ok := model.ParseKind(req.Kind)
	if !ok {
		HandleError(w, r, model.ErrInvalidKind)
		return
	}

	ev, err := h.Service.Punch(r.Context(), p, kind, model.Location{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		HandleError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ev)
}

// TodayStatus returns the punch actions still open today.
func (h *AttendanceHandler) TodayStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	st, err := h.Service.TodayStatus(r.Context(), p)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, StatusResponse{Status: st, Disabled: st.Disabled()})
}

// MyMonth returns the caller's own monthly attendance.
func (h *AttendanceHandler) MyMonth(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	h.month(w, r, p, p.UserID)
}

// UserMonth returns the monthly attendance of any user.
func (h *AttendanceHandler) UserMonth(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	h.month(w, r, p, mux.Vars(r)["userId"])
}

func (h *AttendanceHandler) month(w http.ResponseWriter, r *http.Request, p model.Principal, userID string) {
	year, month, err := yearMonth(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	rep, err := h.Service.MonthlyReport(r.Context(), p, userID, year, month)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}

// ExportMonth streams the monthly attendance of a user as an xlsx workbook.
func (h *AttendanceHandler) ExportMonth(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	userID := mux.Vars(r)["userId"]
	year, month, err := yearMonth(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	rep, err := h.Service.MonthlyReport(r.Context(), p, userID, year, month)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance_%s_%d%02d.xlsx"`, userID, year, int(month)))
	if err := report.WriteXLSX(w, report.Header{UserName: r.URL.Query().Get("name")}, rep); err != nil {
		HandleError(w, r, err)
	}
}

// EditPunch corrects a recorded punch.
func (h *AttendanceHandler) EditPunch(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req EditPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	edit, err := h.toEdit(req)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := h.Service.EditPunch(r.Context(), p, mux.Vars(r)["id"], edit)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}

// DeletePunch removes a punch.
func (h *AttendanceHandler) DeletePunch(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeletePunch(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const localTimestamp = "2006-01-02T15:04:05"

func (h *AttendanceHandler) toEdit(req EditPunchRequest) (core.PunchEdit, error) {
	var edit core.PunchEdit

	if req.Timestamp != nil {
		ts, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			ts, err = time.ParseInLocation(localTimestamp, *req.Timestamp, h.Loc)
		}
		if err != nil {
			return edit, fmt.Errorf("timestamp must be RFC3339 or %s", localTimestamp)
		}
		edit.Timestamp = &ts
	}
	if req.Kind != nil {
		kind, ok := model.ParseKind(*req.Kind)
		if !ok {
			return edit, model.ErrInvalidKind
		}
		edit.Kind = &kind
	}
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return edit, fmt.Errorf("latitude and longitude must be given together")
		}
		edit.Location = &model.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}
	return edit, nil
}

func yearMonth(r *http.Request) (int, time.Month, error) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		return 0, 0, model.ErrInvalidMonth
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, model.ErrInvalidMonth
	}
	return year, time.Month(month), nil
}

func principal(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	p, ok := model.PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
	}
	return p, ok
}
