package app

import (
	"context"
	"path/filepath"
	"testing"

	"pcaf-attribution/internal/config"
	"pcaf-attribution/internal/domain/emissionfactor"
)

func TestOpenStore_Memory(t *testing.T) {
	s, err := OpenStore(context.Background(), &config.Config{DBDriver: config.DriverMemory}, nil)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()
	if s.SQL != nil {
		t.Fatalf("memory store has no sql pool")
	}
	f, err := s.Factors.Lookup(context.Background(), emissionfactor.Query{VehicleCategory: "passenger_car", FuelType: "gasoline"})
	if err != nil || f.PerKm() <= 0 {
		t.Fatalf("lookup: %v %+v", err, f)
	}
}

func TestOpenStore_SQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "pcaf.db"), GormLogLevel: "silent"}

	s, err := OpenStore(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	first, err := s.Factors.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want, _ := emissionfactor.DefaultTable()
	rows, _ := want.All(ctx)
	if len(first) != len(rows) {
		t.Fatalf("seeded %d factors, want %d", len(first), len(rows))
	}
	_ = s.Close()

	// reopening must not duplicate the reference rows
	s, err = OpenStore(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	again, _ := s.Factors.All(ctx)
	if len(again) != len(rows) {
		t.Fatalf("reopen left %d factors, want %d", len(again), len(rows))
	}
	if ids, err := s.Repos.Loans.ListLoanIDs(ctx); err != nil || len(ids) != 0 {
		t.Fatalf("fresh database should have no loans: %v %v", ids, err)
	}
}

func TestOpenStore_BadFactorsFile(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverMemory, EmissionFactorsFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := OpenStore(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for a missing factors file")
	}
}
