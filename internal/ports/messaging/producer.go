package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Producer struct {
	sender            MessageSender
	timesheetQueueURL string
	emailQueueURL     string
}

func NewProducer(sender MessageSender, timesheetQueueURL, emailQueueURL string) *Producer {
	return &Producer{
		sender:            sender,
		timesheetQueueURL: timesheetQueueURL,
		emailQueueURL:     emailQueueURL,
	}
}

func NewSQSProducer(client SQSClient, timesheetQueueURL, emailQueueURL string) *Producer {
	return NewProducer(NewSQSSender(client), timesheetQueueURL, emailQueueURL)
}

func (p *Producer) PublishTimesheet(ctx context.Context, body any) error {
	return p.publish(ctx, p.timesheetQueueURL, body)
}

func (p *Producer) PublishEmail(ctx context.Context, body any) error {
	return p.publish(ctx, p.emailQueueURL, body)
}

func (p *Producer) publish(ctx context.Context, destination string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	// Enrich the current span with the user id if available
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		var payload struct {
			UserID string `json:"userId"`
		}
		if err := json.Unmarshal(b, &payload); err == nil && payload.UserID != "" {
			span.SetAttributes(attribute.String("app.userId", payload.UserID))
		}
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
