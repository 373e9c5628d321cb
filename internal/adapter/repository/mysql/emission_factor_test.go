package mysql

import (
	"context"
	"errors"
	"testing"

	"pcaf-attribution/internal/domain/emissionfactor"
)

func TestEmissionFactorRepository_SeedAndLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewEmissionFactorRepository(db)
	ctx := context.Background()

	tbl, err := emissionfactor.DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable: %v", err)
	}
	rows, _ := tbl.All(ctx)

	n, err := repo.Seed(ctx, rows)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != len(rows) {
		t.Fatalf("seeded %d rows, want %d", n, len(rows))
	}
	// second seed is a no-op
	if n, err = repo.Seed(ctx, rows); err != nil || n != 0 {
		t.Fatalf("reseed: n=%d err=%v", n, err)
	}

	f, err := repo.Lookup(ctx, emissionfactor.Query{VehicleCategory: "Passenger_Car", FuelType: "gasoline", EngineSize: "1.5-2.0L"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if f.KgCO2PerKm != 0.15 {
		t.Errorf("factor = %v, want 0.15", f.KgCO2PerKm)
	}

	_, err = repo.Lookup(ctx, emissionfactor.Query{VehicleCategory: "tractor", FuelType: "diesel"})
	if !errors.Is(err, emissionfactor.ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil || len(all) != len(rows) {
		t.Fatalf("All: %d rows, err %v", len(all), err)
	}
}
