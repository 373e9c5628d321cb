package lifecycle

import (
	"errors"
	"sort"
	"time"

	"gorm.io/datatypes"
)

var ErrInvalidEvent = errors.New("invalid lifecycle event")

type EventType string

const (
	EarlyPayoff    EventType = "early_payoff"
	Refinance      EventType = "refinance"
	Default        EventType = "default"
	PartialPayment EventType = "partial_payment"
)

func (t EventType) Valid() bool {
	switch t {
	case EarlyPayoff, Refinance, Default, PartialPayment:
		return true
	}
	return false
}

// Terms carries the replacement terms attached to a refinance. They are kept
// for the record only; refinancing does not rebuild the schedule.
type Terms struct {
	InterestRate        *float64 `json:"interest_rate,omitempty"`
	RemainingTermMonths *int     `json:"remaining_term_months,omitempty"`
	NewPaymentAmount    *float64 `json:"new_payment_amount,omitempty"`
}

// Event is append-only; corrections are recorded as new events.
// Table: lifecycle_events
type Event struct {
	ID        uint64                    `gorm:"primaryKey;column:id" json:"-"`
	EventID   string                    `gorm:"size:36;uniqueIndex:ux_lifecycle_events_event_id" json:"event_id"`
	LoanID    string                    `gorm:"size:64;not null;index:idx_lifecycle_events_loan_date,priority:1" json:"loan_id"`
	Type      EventType                 `gorm:"size:32;not null" json:"event_type"`
	EventDate time.Time                 `gorm:"type:date;not null;index:idx_lifecycle_events_loan_date,priority:2" json:"event_date"`
	Amount    *float64                  `gorm:"type:decimal(18,2)" json:"amount,omitempty"`
	NewTerms  datatypes.JSONType[Terms] `json:"new_terms"`
	Note      string                    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time                 `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "lifecycle_events" }

// AmountOr returns the event amount, or fallback when none was given.
func (e Event) AmountOr(fallback float64) float64 {
	if e.Amount == nil {
		return fallback
	}
	return *e.Amount
}

// SortByDate orders events by event date, then by insertion order.
func SortByDate(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})
}
