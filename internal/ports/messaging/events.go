package messaging

import (
	"time"

	"attendance.service/internal/core/worktime"
)

// DayClosedEvent is the JSON payload sent via SQS for the timesheet queue
// once an employee checks out.
type DayClosedEvent struct {
	PunchID  string          `json:"punchId"`
	UserID   string          `json:"userId"`
	Date     string          `json:"date"`
	Weekday  string          `json:"weekday"`
	CheckIn  string          `json:"checkIn"`
	CheckOut string          `json:"checkOut"`
	WorkTime worktime.Result `json:"workTime"`
	ClosedAt time.Time       `json:"closedAt"`
}

// EmailEvent is the JSON payload sent via SQS for email queue
type EmailEvent struct {
	PunchID    string          `json:"punchId"`
	UserID     string          `json:"userId"`
	Date       string          `json:"date"`
	WorkTime   worktime.Result `json:"workTime"`
	OccurredAt time.Time       `json:"occurredAt"`
}
