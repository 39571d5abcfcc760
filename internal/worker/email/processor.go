package email

import (
	"context"
	"encoding/json"
	"fmt"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/worker"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

type Processor struct {
	emailService core.EmailService
	repo         repository.Repository
	domain       string
}

// NewProcessor sets up a processor for the email queue. Recipients are
// addressed as <userId>@domain.
func NewProcessor(emailService core.EmailService, repo repository.Repository, domain string) *Processor {
	return &Processor{
		emailService: emailService,
		repo:         repo,
		domain:       domain,
	}
}

// Process sends the shift summary for one closed day and tells the worker
// whether to retry.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.EmailEvent
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal email event")
		return false, 0, err
	}

	punch, err := p.repo.GetPunch(ctx, event.PunchID)
	if err != nil {
		return true, 10, fmt.Errorf("failed to get punch for email processing: %w", err)
	}

	if punch.EmailStatus == model.StatusCompleted {
		log.Ctx(ctx).Info().Str("punch_id", event.PunchID).Msg("Email already sent. Skipping.")
		return false, 0, nil
	}

	to := event.UserID + "@" + p.domain
	if err := p.emailService.SendShiftSummary(ctx, to, event.Date, event.WorkTime); err != nil {
		newCount := punch.EmailRetryCount + 1
		if uerr := p.repo.UpdateEmailStatus(ctx, event.PunchID, model.StatusFailed, newCount); uerr != nil {
			log.Ctx(ctx).Error().Err(uerr).Msg("Failed to record email retry")
		}
		return true, worker.CalculateBackoff(newCount), err
	}

	log.Ctx(ctx).Info().Str("punch_id", event.PunchID).Str("to", to).Msg("Shift summary sent")
	return false, 0, p.repo.UpdateEmailStatus(ctx, event.PunchID, model.StatusCompleted, 0)
}
