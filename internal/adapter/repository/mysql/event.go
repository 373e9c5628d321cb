package mysql

import (
	"context"

	"pcaf-attribution/internal/domain/lifecycle"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

var _ lifecycle.Repository = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Append(ctx context.Context, e *lifecycle.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) ListByLoanID(ctx context.Context, loanID string) ([]lifecycle.Event, error) {
	var out []lifecycle.Event
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("event_date ASC, created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *EventRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&lifecycle.Event{}).Error
}
