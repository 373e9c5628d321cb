package mysql

import (
	"context"
	"fmt"

	"pcaf-attribution/internal/domain/emissionfactor"

	"gorm.io/gorm"
)

// EmissionFactorRepository serves the reference table from the database.
type EmissionFactorRepository struct{ db *gorm.DB }

var _ emissionfactor.Repository = (*EmissionFactorRepository)(nil)

func NewEmissionFactorRepository(db *gorm.DB) *EmissionFactorRepository {
	return &EmissionFactorRepository{db: db}
}

func (r *EmissionFactorRepository) Lookup(ctx context.Context, q emissionfactor.Query) (*emissionfactor.Factor, error) {
	var rows []emissionfactor.Factor
	err := r.db.WithContext(ctx).
		Where("LOWER(vehicle_category) = LOWER(?) AND LOWER(fuel_type) = LOWER(?)", q.VehicleCategory, q.FuelType).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	f, ok := emissionfactor.Best(rows, q)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", emissionfactor.ErrNoMatch, q.VehicleCategory, q.FuelType)
	}
	return f, nil
}

func (r *EmissionFactorRepository) All(ctx context.Context) ([]emissionfactor.Factor, error) {
	var out []emissionfactor.Factor
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// Seed loads rows into an empty table and reports how many were inserted.
// A table that already has rows is left alone.
func (r *EmissionFactorRepository) Seed(ctx context.Context, rows []emissionfactor.Factor) (int, error) {
	var inserted int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&emissionfactor.Factor{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 || len(rows) == 0 {
			return nil
		}
		cp := make([]emissionfactor.Factor, len(rows))
		copy(cp, rows)
		for i := range cp {
			cp[i].ID = 0
		}
		if err := tx.CreateInBatches(cp, 100).Error; err != nil {
			return err
		}
		inserted = len(cp)
		return nil
	})
	return inserted, err
}
