package mysql

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/attribution"

	"gorm.io/gorm"
)

type HistoryRepository struct{ db *gorm.DB }

var _ attribution.Repository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *gorm.DB) *HistoryRepository { return &HistoryRepository{db: db} }

func (r *HistoryRepository) Append(ctx context.Context, h *attribution.History) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HistoryRepository) ListByLoanID(ctx context.Context, loanID string, from, to time.Time) ([]attribution.History, error) {
	q := r.db.WithContext(ctx).Where("loan_id = ?", loanID)
	if !from.IsZero() {
		q = q.Where("reporting_date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("reporting_date <= ?", to.UTC())
	}
	var out []attribution.History
	err := q.Order("reporting_date ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *HistoryRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&attribution.History{}).Error
}
