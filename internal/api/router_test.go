package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendance.service/internal/api/middleware"
	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/core/monthly"
	"attendance.service/internal/core/report"
	"attendance.service/internal/core/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeService struct {
	punched   []model.PunchKind
	punchErr  error
	status    model.AttendanceStatus
	reportFor string
	edit      core.PunchEdit
	deleted   string
}

func (f *fakeService) Punch(_ context.Context, p model.Principal, kind model.PunchKind, loc model.Location) (model.PunchEvent, error) {
	if f.punchErr != nil {
		return model.PunchEvent{}, f.punchErr
	}
	f.punched = append(f.punched, kind)
	return model.PunchEvent{ID: "p-1", UserID: p.UserID, Kind: kind, Location: loc}, nil
}

func (f *fakeService) TodayStatus(context.Context, model.Principal) (model.AttendanceStatus, error) {
	return f.status, nil
}

func (f *fakeService) MonthlyReport(_ context.Context, p model.Principal, userID string, year int, month time.Month) (report.MonthlyReport, error) {
	if !p.CanRead(userID) {
		return report.MonthlyReport{}, model.ErrForbidden
	}
	f.reportFor = userID
	slots := monthly.GroupMonth(nil, year, month)
	return report.Build(userID, year, month, slots, worktime.DefaultPolicy), nil
}

func (f *fakeService) EditPunch(_ context.Context, _ model.Principal, id string, edit core.PunchEdit) (model.PunchEvent, error) {
	if id == "missing" {
		return model.PunchEvent{}, model.ErrPunchNotFound
	}
	f.edit = edit
	return model.PunchEvent{ID: id}, nil
}

func (f *fakeService) DeletePunch(_ context.Context, _ model.Principal, id string) error {
	f.deleted = id
	return nil
}

const testSecret = "test-secret-key-for-jwt"

func token(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	ja := middleware.NewJWTAuth(testSecret)
	_, s, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return s
}

func setup() (*fakeService, http.Handler) {
	svc := &fakeService{}
	return svc, NewRouter(svc, middleware.NewJWTAuth(testSecret), time.UTC)
}

func do(t *testing.T, h http.Handler, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	_, h := setup()
	rec := do(t, h, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPunch_RequiresToken(t *testing.T) {
	_, h := setup()
	rec := do(t, h, http.MethodPost, "/api/v1/punches", "", map[string]any{"kind": "checkin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/punches", "not-a-jwt", map[string]any{"kind": "checkin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPunch(t *testing.T) {
	svc, h := setup()
	tok := token(t, "emp-1", model.RoleEmployee)

	rec := do(t, h, http.MethodPost, "/api/v1/punches", tok, map[string]any{
		"kind": "lunchout", "latitude": 35.6, "longitude": 139.7,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []model.PunchKind{model.KindLunchOut}, svc.punched)

	var ev model.PunchEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	assert.Equal(t, "emp-1", ev.UserID)

	rec = do(t, h, http.MethodPost, "/api/v1/punches", tok, map[string]any{"kind": "nap"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.punchErr = model.ErrAlreadyRecorded
	rec = do(t, h, http.MethodPost, "/api/v1/punches", tok, map[string]any{"kind": "checkin"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTodayStatus(t *testing.T) {
	svc, h := setup()
	svc.status = model.AttendanceStatus{CanCheckOut: true, CanLunchOut: true}

	rec := do(t, h, http.MethodGet, "/api/v1/status/today", token(t, "emp-1", model.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": {"canCheckIn": false, "canCheckOut": true, "canLunchIn": false, "canLunchOut": true},
		"disabled": {"checkin": true, "checkout": false, "lunchin": true, "lunchout": false}
	}`, rec.Body.String())
}

func TestMyMonth(t *testing.T) {
	svc, h := setup()
	rec := do(t, h, http.MethodGet, "/api/v1/attendance/2024/2", token(t, "emp-1", model.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-1", svc.reportFor)

	var rep report.MonthlyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Len(t, rep.Days, 29)

	rec = do(t, h, http.MethodGet, "/api/v1/attendance/2024/13", token(t, "emp-1", model.RoleEmployee), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_RejectEmployees(t *testing.T) {
	_, h := setup()
	tok := token(t, "emp-1", model.RoleEmployee)

	rec := do(t, h, http.MethodGet, "/api/v1/admin/users/emp-2/attendance/2024/5", tok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/admin/punches/p-1", tok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminUserMonthAndExport(t *testing.T) {
	svc, h := setup()
	tok := token(t, "adm-1", model.RoleAdmin)

	rec := do(t, h, http.MethodGet, "/api/v1/admin/users/emp-2/attendance/2024/5", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-2", svc.reportFor)

	rec = do(t, h, http.MethodGet, "/api/v1/admin/users/emp-2/attendance/2024/5/export?name=Taro", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_emp-2_202405.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue("Attendance", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Taro", name)
}

func TestAdminEditAndDelete(t *testing.T) {
	svc, h := setup()
	tok := token(t, "adm-1", model.RoleAdmin)

	rec := do(t, h, http.MethodPut, "/api/v1/admin/punches/p-1", tok, map[string]any{
		"timestamp": "2024-05-13T09:00:00",
		"kind":      "checkin",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.edit.Timestamp)
	assert.True(t, svc.edit.Timestamp.Equal(time.Date(2024, time.May, 13, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.KindCheckIn, *svc.edit.Kind)
	assert.Nil(t, svc.edit.Location)

	rec = do(t, h, http.MethodPut, "/api/v1/admin/punches/p-1", tok, map[string]any{"latitude": 1.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/admin/punches/missing", tok, map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/admin/punches/p-9", tok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p-9", svc.deleted)
}
