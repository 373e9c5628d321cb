package mysql

import (
	"testing"
	"time"

	"pcaf-attribution/internal/domain/attribution"
	"pcaf-attribution/internal/domain/emissionfactor"
	"pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/domain/loan"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB. The domain models carry no
// engine-specific column types, so they migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&loan.Loan{}, &lifecycle.Event{}, &attribution.History{}, &emissionfactor.Factor{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func makeLoan(loanID, borrowerID string) *loan.Loan {
	orig := day(2024, 1, 1)
	return &loan.Loan{
		LoanID:             loanID,
		BorrowerID:         borrowerID,
		Principal:          30000,
		OutstandingBalance: 30000,
		AssetValue:         35000,
		InterestRate:       5,
		TermYears:          5,
		OriginationDate:    &orig,
		VehicleCategory:    "passenger_car",
		FuelType:           "gasoline",
		AnnualEmissions:    2.1,
		PCAFOption:         "3b",
		QualityScore:       4,
		QualityDrivers:     []string{"Limited vehicle data available"},
	}
}
