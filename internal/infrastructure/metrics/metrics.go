package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	metricPrefix = "pcaf_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	intakeTotal *prometheus.CounterVec

	lifecycleEvents *prometheus.CounterVec

	recalcTotal   *prometheus.CounterVec
	recalcLatency *prometheus.HistogramVec

	batchLoans   *prometheus.CounterVec
	batchLatency prometheus.Histogram

	scheduleCache *prometheus.CounterVec

	portfolioWDQS       prometheus.Gauge
	portfolioCompliance prometheus.Gauge
	portfolioFinanced   prometheus.Gauge
	portfolioLoans      prometheus.Gauge

	idempotentReplays prometheus.Counter
)

// Init registers the engine collectors with the default registry. A non-nil
// db also exports connection pool stats.
func Init(db *sql.DB) {
	registerOnce.Do(func() {
		intakeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "loan_intake_total",
				Help: "Total loan intake requests by result",
			},
			[]string{"result"},
		)
		lifecycleEvents = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "lifecycle_events_total",
				Help: "Total recorded lifecycle events by type",
			},
			[]string{"event_type"},
		)
		recalcTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "recalculations_total",
				Help: "Total balance recalculations by reason and result",
			},
			[]string{"reason", "result"},
		)
		recalcLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "recalculation_latency_seconds",
				Help:    "Balance recalculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"reason"},
		)
		batchLoans = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "batch_loans_total",
				Help: "Loans processed by batch recalculation by result",
			},
			[]string{"result"},
		)
		batchLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "batch_latency_seconds",
				Help:    "Batch recalculation latency in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
		)
		scheduleCache = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_cache_total",
				Help: "Amortization schedule cache lookups by outcome",
			},
			[]string{"outcome"},
		)
		portfolioWDQS = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "portfolio_wdqs",
			Help: "Weighted data quality score at the last portfolio query",
		})
		portfolioCompliance = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "portfolio_compliance_percentage",
			Help: "Share of loans with quality score <= 3 at the last portfolio query",
		})
		portfolioFinanced = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "portfolio_financed_emissions_tonnes",
			Help: "Total financed emissions at the last portfolio query",
		})
		portfolioLoans = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "portfolio_loans",
			Help: "Number of loans at the last portfolio query",
		})
		idempotentReplays = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "idempotent_replays_total",
			Help: "Responses served from the idempotency store",
		})

		prometheus.MustRegister(
			intakeTotal,
			lifecycleEvents,
			recalcTotal,
			recalcLatency,
			batchLoans,
			batchLatency,
			scheduleCache,
			portfolioWDQS,
			portfolioCompliance,
			portfolioFinanced,
			portfolioLoans,
			idempotentReplays,
		)
		if db != nil {
			prometheus.MustRegister(collectors.NewDBStatsCollector(db, "pcaf"))
		}
	})
}

// IncIntake counts a loan intake attempt.
func IncIntake(result string) {
	if result == "" {
		result = resultSuccess
	}
	if intakeTotal != nil {
		intakeTotal.WithLabelValues(result).Inc()
	}
}

func IncLifecycleEvent(eventType string) {
	if eventType == "" {
		eventType = "unknown"
	}
	if lifecycleEvents != nil {
		lifecycleEvents.WithLabelValues(eventType).Inc()
	}
}

// ObserveRecalculation records one loan recalculation.
func ObserveRecalculation(reason, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if recalcTotal != nil {
		recalcTotal.WithLabelValues(reason, result).Inc()
	}
	if recalcLatency != nil {
		recalcLatency.WithLabelValues(reason).Observe(duration.Seconds())
	}
}

// ObserveBatch records a finished batch run.
func ObserveBatch(succeeded, failed int, duration time.Duration) {
	if batchLoans != nil {
		batchLoans.WithLabelValues(resultSuccess).Add(float64(succeeded))
		batchLoans.WithLabelValues(resultError).Add(float64(failed))
	}
	if batchLatency != nil {
		batchLatency.Observe(duration.Seconds())
	}
}

func ObserveScheduleCache(hit bool) {
	if scheduleCache == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	scheduleCache.WithLabelValues(outcome).Inc()
}

// SetPortfolio publishes the headline figures of the latest portfolio summary.
func SetPortfolio(loans int, wdqs, compliance, financedEmissions float64) {
	if portfolioLoans != nil {
		portfolioLoans.Set(float64(loans))
	}
	if portfolioWDQS != nil {
		portfolioWDQS.Set(wdqs)
	}
	if portfolioCompliance != nil {
		portfolioCompliance.Set(compliance)
	}
	if portfolioFinanced != nil {
		portfolioFinanced.Set(financedEmissions)
	}
}

func IncIdempotentReplay() {
	if idempotentReplays != nil {
		idempotentReplays.Inc()
	}
}
