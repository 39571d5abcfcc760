package timesheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/worker"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Processor handles jobs from the timesheet queue. Calls to the timesheet
// API go through a circuit breaker.
type Processor struct {
	repo   repository.Repository
	client Client
	cb     *gobreaker.CircuitBreaker
}

// BreakerSettings trips once half of at least 10 requests in a minute failed.
func BreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "Timesheet-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}
}

func NewProcessor(r repository.Repository, client Client) *Processor {
	return NewProcessorWithBreaker(r, client, BreakerSettings())
}

func NewProcessorWithBreaker(r repository.Repository, client Client, settings gobreaker.Settings) *Processor {
	return &Processor{
		repo:   r,
		client: client,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

// Process delivers one closed day and retries with exponential backoff.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.DayClosedEvent
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal day closed event")
		return false, 0, err
	}

	log.Ctx(ctx).Info().
		Str("user_id", event.UserID).
		Str("date", event.Date).
		Stringer("actual", event.WorkTime.Actual).
		Msg("Processing closed day")

	punch, err := p.repo.GetPunch(ctx, event.PunchID)
	if err != nil {
		if errors.Is(err, model.ErrPunchNotFound) {
			log.Ctx(ctx).Warn().Str("punch_id", event.PunchID).Msg("Check-out was deleted. Dropping event.")
			return false, 0, nil
		}
		return true, 10, fmt.Errorf("failed to get punch: %w", err)
	}

	if punch.SyncStatus == model.StatusCompleted {
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.RecordDay(ctx, event)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is open; skipping timesheet API call")
		}
		newCount := punch.SyncRetryCount + 1
		if uerr := p.repo.UpdateSyncStatus(ctx, event.PunchID, model.StatusFailed, newCount); uerr != nil {
			log.Ctx(ctx).Error().Err(uerr).Msg("Failed to record sync retry")
		}
		return true, worker.CalculateBackoff(newCount), err
	}

	return false, 0, p.repo.UpdateSyncStatus(ctx, event.PunchID, model.StatusCompleted, 0)
}
