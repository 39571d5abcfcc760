package repository

import (
	"context"
	"time"

	"attendance.service/internal/core/model"
)

// Repository contract
type Repository interface {
	CreatePunch(ctx context.Context, punch model.PunchEvent) error
	GetPunch(ctx context.Context, id string) (*model.PunchEvent, error)
	// ListPunches returns the user's punches with from <= timestamp < to, oldest first.
	ListPunches(ctx context.Context, userID string, from, to time.Time) ([]model.PunchEvent, error)
	UpdatePunch(ctx context.Context, punch model.PunchEvent) error
	DeletePunch(ctx context.Context, id string) error
	UpdateSyncStatus(ctx context.Context, id string, status model.SyncStatus, retryCount int) error
	UpdateEmailStatus(ctx context.Context, id string, status model.SyncStatus, retryCount int) error
}
