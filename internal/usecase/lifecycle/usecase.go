package lifecycle

import (
	"context"
	"time"

	"pcaf-attribution/internal/domain/amortization"
	"pcaf-attribution/internal/domain/loan"
	"pcaf-attribution/internal/domain/uow"
	"pcaf-attribution/internal/infrastructure/logging"
	"pcaf-attribution/internal/infrastructure/metrics"

	"github.com/phuslu/log"
)

// ScheduleCache stores computed schedules by the terms that produced them.
type ScheduleCache interface {
	Get(ctx context.Context, t amortization.Terms) (amortization.Schedule, bool)
	Set(ctx context.Context, t amortization.Terms, s amortization.Schedule) error
	Purge(ctx context.Context) error
}

type Usecase struct {
	uow         uow.UnitOfWork
	repos       uow.Repos
	cache       ScheduleCache
	log         *log.Logger
	concurrency int
	now         func() time.Time
}

// NewUsecase wires the event processor. repos are used for reads outside a
// transaction; cache may be nil.
func NewUsecase(tx uow.UnitOfWork, repos uow.Repos, cache ScheduleCache, logger *log.Logger, concurrency int) *Usecase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Usecase{
		uow:         tx,
		repos:       repos,
		cache:       cache,
		log:         logging.OrNop(logger),
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) today() time.Time { return amortization.DateOnly(u.now()) }

// schedule validates the loan's terms and returns its schedule, from the
// cache when possible.
func (u *Usecase) schedule(ctx context.Context, l *loan.Loan) (amortization.Schedule, error) {
	terms := amortization.LoanTerms(l)
	if err := terms.Validate(); err != nil {
		return amortization.Schedule{}, loan.Validationf("loan %s: %v", l.LoanID, err)
	}
	if u.cache != nil {
		if s, ok := u.cache.Get(ctx, terms); ok {
			metrics.ObserveScheduleCache(true)
			return s, nil
		}
		metrics.ObserveScheduleCache(false)
	}
	s := amortization.Calculate(terms)
	if u.cache != nil {
		if err := u.cache.Set(ctx, terms, s); err != nil {
			u.log.Warn().Err(err).Str("loan_id", l.LoanID).Msg("schedule cache write failed")
		}
	}
	return s, nil
}
