package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/core/monthly"
	"attendance.service/internal/core/report"
	"attendance.service/internal/core/status"
	"attendance.service/internal/core/worktime"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

type AttendanceService struct {
	repo      repository.Repository
	publisher messaging.Publisher
	loc       *time.Location
	policy    worktime.Policy
	now       func() time.Time
}

// NewAttendanceService creates the main application service, wiring up the
// punch repository and the queue publisher. All dates are taken in loc.
func NewAttendanceService(repo repository.Repository, p messaging.Publisher, loc *time.Location) *AttendanceService {
	return &AttendanceService{
		repo:      repo,
		publisher: p,
		loc:       loc,
		policy:    worktime.DefaultPolicy,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// PunchEdit carries the fields an administrator may change on a punch.
type PunchEdit struct {
	Timestamp *time.Time
	Kind      *model.PunchKind
	Location  *model.Location
}

// Punch records kind for the principal at the current time. Each kind can
// be recorded once per day; a check-out also hands the closed day to the
// timesheet and email workers.
func (s *AttendanceService) Punch(ctx context.Context, p model.Principal, kind model.PunchKind, loc model.Location) (model.PunchEvent, error) {
	if !kind.Valid() {
		return model.PunchEvent{}, model.ErrInvalidKind
	}
	if !loc.Valid() {
		return model.PunchEvent{}, model.ErrInvalidLocation
	}

	now := s.now().In(s.loc)
	today, err := s.punchesOn(ctx, p.UserID, now)
	if err != nil {
		return model.PunchEvent{}, err
	}

	if !status.Project(today).Allows(kind) {
		return model.PunchEvent{}, model.ErrAlreadyRecorded
	}

	ev := model.PunchEvent{
		ID:          uuid.NewString(),
		UserID:      p.UserID,
		Timestamp:   now,
		Kind:        kind,
		Location:    loc,
		SyncStatus:  model.StatusPending,
		EmailStatus: model.StatusPending,
	}
	// The read above is only a fast path; the store rejects a concurrent
	// duplicate with ErrAlreadyRecorded.
	if err := s.repo.CreatePunch(ctx, ev); err != nil {
		if errors.Is(err, model.ErrAlreadyRecorded) {
			return model.PunchEvent{}, err
		}
		return model.PunchEvent{}, fmt.Errorf("failed to record punch: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("user_id", p.UserID).
		Str("kind", string(kind)).
		Str("punch_id", ev.ID).
		Msg("Punch recorded")

	if kind == model.KindCheckOut {
		s.closeDay(ctx, ev, append(today, ev))
	}

	return ev, nil
}

// closeDay publishes the finished day. The punch is already stored, so
// publish failures are only logged.
func (s *AttendanceService) closeDay(ctx context.Context, checkOut model.PunchEvent, day []model.PunchEvent) {
	y, m, d := checkOut.Timestamp.Date()
	slot := monthly.GroupMonth(day, y, m)[d-1]
	wt := s.policy.Compute(slot.CheckInTime(), slot.CheckOutTime(), slot.Weekday)
	date := slot.Date.Format(dateLayout)

	emailEvent := messaging.EmailEvent{
		PunchID:    checkOut.ID,
		UserID:     checkOut.UserID,
		Date:       date,
		WorkTime:   wt,
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishEmail(ctx, emailEvent); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("punch_id", checkOut.ID).Msg("Failed to publish email event")
	}

	closed := messaging.DayClosedEvent{
		PunchID:  checkOut.ID,
		UserID:   checkOut.UserID,
		Date:     date,
		Weekday:  slot.WeekdayLabel,
		CheckIn:  slot.CheckInTime(),
		CheckOut: slot.CheckOutTime(),
		WorkTime: wt,
		ClosedAt: checkOut.Timestamp,
	}
	if err := s.publisher.PublishTimesheet(ctx, closed); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("punch_id", checkOut.ID).Msg("Failed to publish day closed event")
	}
}

// TodayStatus reports which punch actions the principal may still take today.
func (s *AttendanceService) TodayStatus(ctx context.Context, p model.Principal) (model.AttendanceStatus, error) {
	today, err := s.punchesOn(ctx, p.UserID, s.now().In(s.loc))
	if err != nil {
		return model.AttendanceStatus{}, err
	}
	return status.Project(today), nil
}

// MonthlyReport groups a user's punches for the month and computes each day's work times.
func (s *AttendanceService) MonthlyReport(ctx context.Context, p model.Principal, userID string, year int, month time.Month) (report.MonthlyReport, error) {
	if !p.CanRead(userID) {
		return report.MonthlyReport{}, model.ErrForbidden
	}
	if month < time.January || month > time.December {
		return report.MonthlyReport{}, model.ErrInvalidMonth
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	events, err := s.repo.ListPunches(ctx, userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to load punches: %w", err)
	}

	slots := monthly.GroupMonth(s.inZone(events), year, month)
	return report.Build(userID, year, month, slots, s.policy), nil
}

// EditPunch lets an administrator correct a recorded punch.
func (s *AttendanceService) EditPunch(ctx context.Context, p model.Principal, id string, edit PunchEdit) (model.PunchEvent, error) {
	if !p.IsAdmin() {
		return model.PunchEvent{}, model.ErrForbidden
	}

	ev, err := s.repo.GetPunch(ctx, id)
	if err != nil {
		return model.PunchEvent{}, err
	}

	ev.Timestamp = ev.Timestamp.In(s.loc)
	if edit.Timestamp != nil {
		ev.Timestamp = edit.Timestamp.In(s.loc)
	}
	if edit.Kind != nil {
		if !edit.Kind.Valid() {
			return model.PunchEvent{}, model.ErrInvalidKind
		}
		ev.Kind = *edit.Kind
	}
	if edit.Location != nil {
		if !edit.Location.Valid() {
			return model.PunchEvent{}, model.ErrInvalidLocation
		}
		ev.Location = *edit.Location
	}

	if err := s.repo.UpdatePunch(ctx, *ev); err != nil {
		return model.PunchEvent{}, err
	}

	log.Ctx(ctx).Info().Str("admin_id", p.UserID).Str("punch_id", id).Msg("Punch edited")
	return *ev, nil
}

// DeletePunch lets an administrator remove a punch.
func (s *AttendanceService) DeletePunch(ctx context.Context, p model.Principal, id string) error {
	if !p.IsAdmin() {
		return model.ErrForbidden
	}
	if err := s.repo.DeletePunch(ctx, id); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("admin_id", p.UserID).Str("punch_id", id).Msg("Punch deleted")
	return nil
}

// punchesOn loads the user's punches for the calendar day containing t.
func (s *AttendanceService) punchesOn(ctx context.Context, userID string, t time.Time) ([]model.PunchEvent, error) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	events, err := s.repo.ListPunches(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to query today's punches: %w", err)
	}
	return s.inZone(events), nil
}

func (s *AttendanceService) inZone(events []model.PunchEvent) []model.PunchEvent {
	out := make([]model.PunchEvent, len(events))
	for i, ev := range events {
		ev.Timestamp = ev.Timestamp.In(s.loc)
		out[i] = ev
	}
	return out
}
