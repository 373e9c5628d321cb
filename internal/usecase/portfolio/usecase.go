package portfolio

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/loan"
	domainPortfolio "pcaf-attribution/internal/domain/portfolio"
	"pcaf-attribution/internal/infrastructure/logging"
	"pcaf-attribution/internal/infrastructure/metrics"

	"github.com/phuslu/log"
)

type Usecase struct {
	loans loan.Repository
	log   *log.Logger
}

func NewUsecase(loans loan.Repository, logger *log.Logger) *Usecase {
	return &Usecase{loans: loans, log: logging.OrNop(logger)}
}

// Summary aggregates the current state of every loan. It reads only.
func (u *Usecase) Summary(ctx context.Context) (*domainPortfolio.Summary, error) {
	start := time.Now()
	loans, err := u.loans.List(ctx)
	if err != nil {
		return nil, err
	}
	s := domainPortfolio.Summarize(loans)
	metrics.SetPortfolio(s.TotalLoans, s.WDQS, s.CompliancePercentage, s.TotalFinancedEmissions)

	u.log.Debug().
		Int("loans", s.TotalLoans).
		Float64("wdqs", s.WDQS).
		Dur("duration", time.Since(start)).
		Msg("portfolio summarized")
	return &s, nil
}
