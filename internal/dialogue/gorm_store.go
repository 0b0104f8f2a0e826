package dialogue

import (
	"context"
	"fmt"
	"time"

	"github.com/pathakanu/remindbot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps conversations in the reminders database. Conversations
// untouched for longer than ttl read as idle.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormStore returns a database backed Store. A zero ttl never expires.
func NewGormStore(db *gorm.DB, ttl time.Duration) *GormStore {
	return &GormStore{db: db, ttl: ttl, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, ownerID int64) (model.Conversation, error) {
	var convs []model.Conversation
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Limit(1).
		Find(&convs).Error
	if err != nil {
		return model.Conversation{}, fmt.Errorf("load conversation %d: %w", ownerID, err)
	}
	if len(convs) == 0 {
		return idle(ownerID), nil
	}
	conv := convs[0]
	if s.ttl > 0 && s.now().Sub(conv.UpdatedAt) > s.ttl {
		return idle(ownerID), nil
	}
	return conv, nil
}

func (s *GormStore) Save(ctx context.Context, conv model.Conversation) error {
	if StateOf(conv) == StateIdle {
		return s.Clear(ctx, conv.OwnerID)
	}
	conv.UpdatedAt = s.now()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&conv).Error
	if err != nil {
		return fmt.Errorf("save conversation %d: %w", conv.OwnerID, err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context, ownerID int64) error {
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Conversation{}).Error
	if err != nil {
		return fmt.Errorf("clear conversation %d: %w", ownerID, err)
	}
	return nil
}
