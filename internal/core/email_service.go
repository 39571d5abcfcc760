package core

import (
	"context"
	"fmt"
	"strings"

	"attendance.service/internal/core/worktime"
	"attendance.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type EmailService interface {
	SendShiftSummary(ctx context.Context, to, date string, wt worktime.Result) error
}

// SESClient is the subset of the SES client the email service calls.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESEmailService struct {
	client SESClient
	sender string
}

func NewSESEmailService(client SESClient, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

func (s *SESEmailService) SendShiftSummary(ctx context.Context, to, date string, wt worktime.Result) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if userID := telemetry.GetUserIDFromContext(ctx); userID != "" {
		span.SetAttributes(attribute.String("app.userId", userID))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Work Shift Summary " + date),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(ShiftSummaryText(date, wt)),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

// ShiftSummaryText is the plain-text body of the checkout email.
func ShiftSummaryText(date string, wt worktime.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nYou have successfully checked out for %s.\n\n", date)
	fmt.Fprintf(&b, "Hours worked: %s\n", orDash(wt.Actual))
	fmt.Fprintf(&b, "Overtime: %s\n", orDash(wt.NormalOvertime))
	fmt.Fprintf(&b, "Night overtime: %s\n", orDash(wt.NightOvertime))
	return b.String()
}

func orDash(h worktime.Hours) string {
	if h.IsEmpty() {
		return "-"
	}
	return h.String() + "h"
}
