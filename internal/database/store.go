package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pathakanu/remindbot/internal/model"
	"gorm.io/gorm"
)

// Store persists reminders. Every method is a single statement, so callers
// may share one Store across goroutines.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the connection for components sharing the same database.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// CreateTables migrates the schema. Safe to run on every start.
func (s *Store) CreateTables(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Reminder{}, &model.Conversation{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AddReminder inserts a pending reminder and returns its id.
func (s *Store) AddReminder(ctx context.Context, ownerID int64, text string, targetTime time.Time) (uint, error) {
	reminder := &model.Reminder{
		OwnerID:    ownerID,
		Text:       text,
		TargetTime: targetTime,
		CreatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return 0, fmt.Errorf("add reminder: %w", err)
	}
	return reminder.ID, nil
}

// GetUserReminders returns the owner's pending reminders, soonest first.
func (s *Store) GetUserReminders(ctx context.Context, ownerID int64) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND completed = ?", ownerID, false).
		Order("target_time ASC, id ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("user reminders: %w", err)
	}
	return reminders, nil
}

// GetAllPendingReminders returns every pending reminder, soonest first.
func (s *Store) GetAllPendingReminders(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.WithContext(ctx).
		Where("completed = ?", false).
		Order("target_time ASC, id ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("pending reminders: %w", err)
	}
	return reminders, nil
}

// MarkReminderCompleted sets completed for id. Unknown or already completed
// ids are not an error.
func (s *Store) MarkReminderCompleted(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", id).
		Update("completed", true).Error
	if err != nil {
		return fmt.Errorf("complete reminder %d: %w", id, err)
	}
	return nil
}

// DeleteReminder removes the reminder only when ownerID owns it.
func (s *Store) DeleteReminder(ctx context.Context, id uint, ownerID int64) error {
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Reminder{}).Error
	if err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return nil
}

// GetReminderByID looks up a reminder owned by ownerID. The bool is false
// when no such reminder exists for that owner.
func (s *Store) GetReminderByID(ctx context.Context, id uint, ownerID int64) (model.Reminder, bool, error) {
	var reminders []model.Reminder
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Limit(1).
		Find(&reminders).Error
	if err != nil {
		return model.Reminder{}, false, fmt.Errorf("reminder %d: %w", id, err)
	}
	if len(reminders) == 0 {
		return model.Reminder{}, false, nil
	}
	return reminders[0], true, nil
}
