package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct{ checks map[string]Check }

// NewHandler builds the health handler. Every named check must pass for the
// service to report ok.
func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	code, status := http.StatusOK, "ok"
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = err.Error()
			code, status = http.StatusServiceUnavailable, "degraded"
			continue
		}
		deps[name] = "ok"
	}
	return c.JSON(code, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
		"checks": deps,
	})
}

// Routes groups the handlers served by the API.
type Routes struct {
	Health    *Handler
	Loans     *LoanHandler
	Events    *EventHandler
	Portfolio *PortfolioHandler
}

// Register mounts every route on e. mutating wraps the POST and DELETE
// routes, typically with the idempotency middleware.
func (r Routes) Register(e *echo.Echo, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", r.Health.Health)
	e.GET("/pcaf/options", r.Portfolio.Options)

	e.POST("/loans", r.Loans.CreateLoan, mutating...)
	e.GET("/loans/:loan_id", r.Loans.GetLoan)
	e.GET("/loans/:loan_id/schedule", r.Loans.GetSchedule)
	e.GET("/loans/:loan_id/quality", r.Loans.GetQuality)
	e.GET("/loans/:loan_id/history", r.Loans.GetHistory)
	e.POST("/loans/:loan_id/recalculate", r.Loans.Recalculate, mutating...)
	e.GET("/loans/:loan_id/events", r.Events.ListEvents)
	e.POST("/loans/:loan_id/events", r.Events.RecordEvent, mutating...)

	e.GET("/portfolio", r.Portfolio.Summary)
	e.POST("/portfolio/recalculate", r.Portfolio.BatchRecalculate, mutating...)
	e.DELETE("/portfolio", r.Portfolio.Reset, mutating...)
}
