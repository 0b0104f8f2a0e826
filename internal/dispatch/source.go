package dispatch

import (
	"context"

	"github.com/pathakanu/remindbot/internal/model"
)

//go:generate mockgen -source=source.go -destination=source_mock.go -package=dispatch

// ReminderSource is the slice of the reminder store the dispatch loop uses.
type ReminderSource interface {
	GetAllPendingReminders(ctx context.Context) ([]model.Reminder, error)
	MarkReminderCompleted(ctx context.Context, id uint) error
}
