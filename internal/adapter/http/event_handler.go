package http

import (
	"net/http"

	domainLifecycle "pcaf-attribution/internal/domain/lifecycle"
	"pcaf-attribution/internal/usecase/lifecycle"

	"github.com/labstack/echo/v4"
)

type EventHandler struct{ uc *lifecycle.Usecase }

func NewEventHandler(uc *lifecycle.Usecase) *EventHandler { return &EventHandler{uc: uc} }

type recordEventReq struct {
	EventType string                 `json:"event_type" validate:"required,oneof=early_payoff refinance default partial_payment"`
	EventDate string                 `json:"event_date" validate:"required,datetime=2006-01-02"`
	Amount    *float64               `json:"amount"     validate:"omitempty,gte=0,dec2"`
	NewTerms  *domainLifecycle.Terms `json:"new_terms"`
	Note      string                 `json:"note"       validate:"max=1000"`
}

func (h *EventHandler) RecordEvent(c echo.Context) error {
	// Validate path param
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req recordEventReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RecordEvent(c.Request().Context(), lifecycle.RecordEventInput{
		LoanID:    loanID,
		Type:      domainLifecycle.EventType(req.EventType),
		EventDate: dateOrZero(req.EventDate),
		Amount:    req.Amount,
		NewTerms:  req.NewTerms,
		Note:      req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.uc.ListEvents(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loan_id": c.Param("loan_id"),
		"events":  events,
	})
}
