package activity

import (
	"fmt"
	"time"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportStatus represents the lifecycle status of an activity report
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "DRAFT"     // Entries may be created, updated, deleted
	ReportStatusSubmitted ReportStatus = "SUBMITTED" // Sent to the client, read-only
	ReportStatusLocked    ReportStatus = "LOCKED"    // Invoiced, terminal
)

// IsValid checks if the status is a valid ReportStatus
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusSubmitted, ReportStatusLocked:
		return true
	}
	return false
}

// String returns the string representation of ReportStatus
func (s ReportStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to the target status.
// Reports only move forward and never skip a state.
func (s ReportStatus) CanTransitionTo(target ReportStatus) bool {
	switch s {
	case ReportStatusDraft:
		return target == ReportStatusSubmitted
	case ReportStatusSubmitted:
		return target == ReportStatusLocked
	}
	return false
}

// Report represents the monthly activity report of a contractor.
// Totals are derived from the report's active entries and recomputed
// whenever an entry changes.
type Report struct {
	shared.OwnedAggregateRoot
	Month       int
	Year        int
	Status      ReportStatus
	Currency    valueobject.Currency
	TotalDays   decimal.Decimal
	TotalAmount int64
	SubmittedAt *time.Time
	LockedAt    *time.Time
}

// NewReport creates a new draft report for the given month
func NewReport(ownerID uuid.UUID, month, year int, currency valueobject.Currency) (*Report, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewValidationError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewValidationError("INVALID_YEAR", "Year must be between 2000 and 2100")
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("INVALID_CURRENCY", "Currency is not valid")
	}

	return &Report{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Month:              month,
		Year:               year,
		Status:             ReportStatusDraft,
		Currency:           currency,
		TotalDays:          decimal.Zero,
		TotalAmount:        0,
	}, nil
}

// IsEditable returns true while entries may be added, changed or removed
func (r *Report) IsEditable() bool {
	return r.Status == ReportStatusDraft
}

// Period returns the report period as the first day of its month in UTC
func (r *Report) Period() time.Time {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
}

// ContainsDate reports whether the date falls within the report's month
func (r *Report) ContainsDate(date time.Time) bool {
	return date.Year() == r.Year && int(date.Month()) == r.Month
}

// Submit moves the report from DRAFT to SUBMITTED
func (r *Report) Submit() error {
	if !r.Status.CanTransitionTo(ReportStatusSubmitted) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot submit report in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReportStatusSubmitted
	r.SubmittedAt = &now
	r.UpdatedAt = now

	return nil
}

// Lock moves the report from SUBMITTED to LOCKED
func (r *Report) Lock() error {
	if !r.Status.CanTransitionTo(ReportStatusLocked) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot lock report in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReportStatusLocked
	r.LockedAt = &now
	r.UpdatedAt = now

	return nil
}

// ApplyTotals replaces the derived totals after entries changed
func (r *Report) ApplyTotals(totalDays decimal.Decimal, totalAmount int64) {
	r.TotalDays = totalDays
	r.TotalAmount = totalAmount
	r.UpdatedAt = time.Now()
}

// TotalAmountMoney returns the total amount as a money value
func (r *Report) TotalAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(r.TotalAmount, r.Currency)
	return m
}
