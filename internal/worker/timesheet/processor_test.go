package timesheet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/core/worktime"
	"attendance.service/internal/ports/messaging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncUpdate struct {
	status model.SyncStatus
	count  int
}

type stubRepo struct {
	punches map[string]model.PunchEvent
	updates []syncUpdate
}

func (r *stubRepo) CreatePunch(context.Context, model.PunchEvent) error { return nil }

func (r *stubRepo) GetPunch(_ context.Context, id string) (*model.PunchEvent, error) {
	p, ok := r.punches[id]
	if !ok {
		return nil, model.ErrPunchNotFound
	}
	return &p, nil
}

func (r *stubRepo) ListPunches(context.Context, string, time.Time, time.Time) ([]model.PunchEvent, error) {
	return nil, nil
}

func (r *stubRepo) UpdatePunch(context.Context, model.PunchEvent) error { return nil }

func (r *stubRepo) DeletePunch(context.Context, string) error { return nil }

func (r *stubRepo) UpdateSyncStatus(_ context.Context, id string, status model.SyncStatus, retryCount int) error {
	r.updates = append(r.updates, syncUpdate{status, retryCount})
	p := r.punches[id]
	p.SyncStatus = status
	p.SyncRetryCount = retryCount
	r.punches[id] = p
	return nil
}

func (r *stubRepo) UpdateEmailStatus(context.Context, string, model.SyncStatus, int) error {
	return nil
}

type stubClient struct {
	err   error
	calls int
}

func (c *stubClient) RecordDay(context.Context, messaging.DayClosedEvent) error {
	c.calls++
	return c.err
}

func closedDay(t *testing.T) types.Message {
	t.Helper()
	body, err := json.Marshal(messaging.DayClosedEvent{
		PunchID:  "out-1",
		UserID:   "emp-1",
		Date:     "2024-05-13",
		Weekday:  "月",
		CheckIn:  "09:00",
		CheckOut: "20:00",
		WorkTime: worktime.Compute("09:00", "20:00", time.Monday),
	})
	require.NoError(t, err)
	return types.Message{MessageId: aws.String("m-1"), Body: aws.String(string(body))}
}

func newRepo(status model.SyncStatus, retries int) *stubRepo {
	return &stubRepo{punches: map[string]model.PunchEvent{
		"out-1": {ID: "out-1", UserID: "emp-1", Kind: model.KindCheckOut, SyncStatus: status, SyncRetryCount: retries},
	}}
}

func TestProcess_Success(t *testing.T) {
	repo := newRepo(model.StatusPending, 0)
	client := &stubClient{}

	retry, _, err := NewProcessor(repo, client).Process(context.Background(), closedDay(t))
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, []syncUpdate{{model.StatusCompleted, 0}}, repo.updates)
}

func TestProcess_AlreadyCompleted(t *testing.T) {
	repo := newRepo(model.StatusCompleted, 0)
	client := &stubClient{}

	retry, _, err := NewProcessor(repo, client).Process(context.Background(), closedDay(t))
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Zero(t, client.calls)
	assert.Empty(t, repo.updates)
}

func TestProcess_DownstreamFailureBacksOff(t *testing.T) {
	repo := newRepo(model.StatusPending, 2)
	client := &stubClient{err: errors.New("503")}

	retry, delay, err := NewProcessor(repo, client).Process(context.Background(), closedDay(t))
	require.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(80), delay)
	assert.Equal(t, []syncUpdate{{model.StatusFailed, 3}}, repo.updates)
}

func TestProcess_MalformedMessage(t *testing.T) {
	p := NewProcessor(newRepo(model.StatusPending, 0), &stubClient{})
	retry, _, err := p.Process(context.Background(), types.Message{Body: aws.String("{")})
	require.Error(t, err)
	assert.False(t, retry)
}

func TestProcess_DeletedPunchIsDropped(t *testing.T) {
	repo := &stubRepo{punches: map[string]model.PunchEvent{}}
	client := &stubClient{}

	retry, _, err := NewProcessor(repo, client).Process(context.Background(), closedDay(t))
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Zero(t, client.calls)
}

func TestProcess_OpenBreakerSkipsCall(t *testing.T) {
	settings := BreakerSettings()
	settings.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 }
	settings.Timeout = time.Hour

	repo := newRepo(model.StatusPending, 0)
	client := &stubClient{err: errors.New("down")}
	p := NewProcessorWithBreaker(repo, client, settings)

	_, _, err := p.Process(context.Background(), closedDay(t))
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)

	retry, _, err := p.Process(context.Background(), closedDay(t))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, retry)
	assert.Equal(t, 1, client.calls)
}

func TestHTTPClient_RecordDay(t *testing.T) {
	var got messaging.DayClosedEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ev := messaging.DayClosedEvent{
		PunchID:  "out-1",
		UserID:   "emp-1",
		Date:     "2024-05-14",
		CheckIn:  "22:00",
		CheckOut: "02:00",
		WorkTime: worktime.Compute("22:00", "02:00", time.Tuesday),
	}
	require.NoError(t, NewHTTPClient(srv.URL).RecordDay(context.Background(), ev))
	assert.Equal(t, "emp-1", got.UserID)
	assert.Equal(t, "4", got.WorkTime.Actual.String())
	assert.Equal(t, "1.5", got.WorkTime.NightOvertime.String())
	assert.True(t, got.WorkTime.NormalOvertime.IsEmpty())
}

func TestHTTPClient_RejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).RecordDay(context.Background(), messaging.DayClosedEvent{UserID: "emp-1"})
	assert.ErrorContains(t, err, "503")
}
