package attribution

import (
	"sort"
	"time"
)

type Reason string

const (
	ReasonScheduled        Reason = "scheduled"
	ReasonEventTriggered   Reason = "event_triggered"
	ReasonManualAdjustment Reason = "manual_adjustment"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonScheduled, ReasonEventTriggered, ReasonManualAdjustment:
		return true
	}
	return false
}

// History is what was reported for a loan on a reporting date. Rows are
// never updated.
// Table: attribution_history
type History struct {
	ID                 uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID             string    `gorm:"size:64;not null;index:idx_attribution_history_loan_date,priority:1" json:"loan_id"`
	ReportingDate      time.Time `gorm:"type:date;not null;index:idx_attribution_history_loan_date,priority:2" json:"reporting_date"`
	OutstandingBalance float64   `gorm:"type:decimal(18,2)" json:"outstanding_balance"`
	AssetValue         float64   `gorm:"type:decimal(18,2)" json:"asset_value"`
	AttributionFactor  float64   `json:"attribution_factor"`
	FinancedEmissions  float64   `json:"financed_emissions"`
	AnnualEmissions    float64   `json:"annual_emissions"`
	Reason             Reason    `gorm:"column:calculation_reason;size:32;not null" json:"calculation_reason"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (History) TableName() string { return "attribution_history" }

// SortByDate orders entries by reporting date, then by insertion order.
func SortByDate(entries []History) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ReportingDate.Equal(entries[j].ReportingDate) {
			return entries[i].ReportingDate.Before(entries[j].ReportingDate)
		}
		return entries[i].ID < entries[j].ID
	})
}
