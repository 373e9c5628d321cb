// Package app assembles the persistence layer selected by configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"pcaf-attribution/internal/adapter/repository/memory"
	"pcaf-attribution/internal/adapter/repository/mysql"
	"pcaf-attribution/internal/config"
	"pcaf-attribution/internal/domain/emissionfactor"
	"pcaf-attribution/internal/domain/uow"
	"pcaf-attribution/internal/infrastructure/db"
	"pcaf-attribution/internal/infrastructure/logging"

	"github.com/phuslu/log"
)

// Store bundles the unit of work, plain repositories and the emission factor
// source. SQL is nil for the memory driver.
type Store struct {
	UoW     uow.UnitOfWork
	Repos   uow.Repos
	Factors emissionfactor.Repository
	SQL     *sql.DB
}

func (s *Store) Close() error {
	if s.SQL == nil {
		return nil
	}
	return s.SQL.Close()
}

// OpenStore opens the configured driver. SQL drivers are migrated and the
// emission factor table is seeded when empty.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Store, error) {
	logger = logging.OrNop(logger)

	table, err := emissionfactor.LoadTableFile(cfg.EmissionFactorsFile)
	if err != nil {
		return nil, fmt.Errorf("emission factors: %w", err)
	}

	if cfg.DBDriver == config.DriverMemory {
		mem := memory.NewStore()
		logger.Warn().Msg("using in-memory store, data is lost on exit")
		return &Store{UoW: mem, Repos: mem.Repos(), Factors: table}, nil
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	rows, _ := table.All(ctx)
	factors := mysql.NewEmissionFactorRepository(gdb)
	n, err := factors.Seed(ctx, rows)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("seed emission factors: %w", err)
	}
	logger.Info().Str("driver", cfg.DBDriver).Int("seeded_factors", n).Msg("database ready")

	guow := mysql.NewGormUoW(gdb)
	return &Store{UoW: guow, Repos: guow.Repos(), Factors: factors, SQL: sqlDB}, nil
}
