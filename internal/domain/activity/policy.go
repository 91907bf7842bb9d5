package activity

import (
	"fmt"
	"time"

	"github.com/foresy/backend/internal/domain/mission"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyConfig holds the configurable bounds applied to entry fields
type PolicyConfig struct {
	MaxQuantity          decimal.Decimal
	MaxUnitPrice         int64 // minor units
	MaxLineTotal         int64 // minor units, quantity times unit price
	MaxDescriptionLength int
	DateWindow           time.Duration // how far back entries may be dated
}

// DefaultPolicyConfig returns the standard bounds
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MaxQuantity:          decimal.NewFromInt(365),
		MaxUnitPrice:         10_000_000,
		MaxLineTotal:         100_000_000,
		MaxDescriptionLength: 500,
		DateWindow:           2 * 365 * 24 * time.Hour,
	}
}

// Policy centralizes the ownership, lifecycle and field checks that
// every mutating entry operation runs before touching storage. All
// checks are pure and fail fast on the first violation.
type Policy struct {
	config PolicyConfig
	now    func() time.Time
}

// NewPolicy creates a policy with the given bounds
func NewPolicy(config PolicyConfig) *Policy {
	return &Policy{config: config, now: time.Now}
}

// AuthorizeReport verifies that the acting user owns the report
func (p *Policy) AuthorizeReport(report *Report, userID uuid.UUID) error {
	if report == nil {
		return shared.NewDomainError(shared.KindNotFound, "REPORT_NOT_FOUND", "Report not found")
	}
	if !report.IsOwnedBy(userID) {
		return shared.NewDomainError(shared.KindUnauthorized, "NOT_REPORT_OWNER", "User does not own this report")
	}
	return nil
}

// EnsureReportEditable verifies that the report still accepts entry mutations
func (p *Policy) EnsureReportEditable(report *Report) error {
	switch report.Status {
	case ReportStatusDraft:
		return nil
	case ReportStatusSubmitted:
		return shared.NewConflictError("REPORT_SUBMITTED", "Report has been submitted and is read-only")
	case ReportStatusLocked:
		return shared.NewConflictError("REPORT_LOCKED", "Report has been locked and is read-only")
	}
	return shared.NewConflictError("REPORT_NOT_EDITABLE", fmt.Sprintf("Report in %s status cannot be edited", report.Status))
}

// AuthorizeMission verifies that the mission exists and belongs to the user
func (p *Policy) AuthorizeMission(m *mission.Mission, userID uuid.UUID) error {
	if m == nil {
		return shared.NewDomainError(shared.KindNotFound, "MISSION_NOT_FOUND", "Mission not found")
	}
	if !m.IsOwnedBy(userID) {
		return shared.NewDomainError(shared.KindUnauthorized, "NOT_MISSION_OWNER", "User does not have access to this mission")
	}
	return nil
}

// ValidateEntryFields checks the field bounds for an entry write.
// onCreate tightens the unit price check: new entries must be priced,
// existing ones may later be zeroed out.
func (p *Policy) ValidateEntryFields(report *Report, entryDate time.Time, quantity decimal.Decimal, unitPrice int64, description string, onCreate bool) error {
	if entryDate.IsZero() {
		return shared.NewValidationError("MISSING_DATE", "Entry date is required")
	}
	if err := p.validateDate(report, entryDate); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(p.config.MaxQuantity) {
		return shared.NewValidationError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity cannot exceed %s", p.config.MaxQuantity))
	}
	if onCreate && unitPrice <= 0 {
		return shared.NewValidationError("INVALID_UNIT_PRICE", "Unit price must be positive")
	}
	if unitPrice < 0 {
		return shared.NewValidationError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}
	if unitPrice > p.config.MaxUnitPrice {
		return shared.NewValidationError("INVALID_UNIT_PRICE",
			fmt.Sprintf("Unit price cannot exceed %d", p.config.MaxUnitPrice))
	}
	if len(description) > p.config.MaxDescriptionLength {
		return shared.NewValidationError("DESCRIPTION_TOO_LONG",
			fmt.Sprintf("Description cannot exceed %d characters", p.config.MaxDescriptionLength))
	}
	if report != nil {
		unit, err := valueobject.NewMoney(unitPrice, report.Currency)
		if err == nil {
			limit, _ := valueobject.NewMoney(p.config.MaxLineTotal, report.Currency)
			if unit.MulQuantity(quantity).GreaterThan(limit) {
				return shared.NewValidationError("LINE_TOTAL_EXCEEDED",
					fmt.Sprintf("Entry total cannot exceed %s", limit))
			}
		}
	}
	return nil
}

func (p *Policy) validateDate(report *Report, entryDate time.Time) error {
	now := p.now()
	if entryDate.After(now) {
		return shared.NewValidationError("DATE_IN_FUTURE", "Entry date cannot be in the future")
	}
	if entryDate.Before(now.Add(-p.config.DateWindow)) {
		return shared.NewValidationError("DATE_TOO_OLD",
			fmt.Sprintf("Entry date cannot be more than %d days in the past", int(p.config.DateWindow.Hours()/24)))
	}
	if report != nil && !report.ContainsDate(entryDate) {
		return shared.NewValidationError("DATE_OUT_OF_PERIOD",
			fmt.Sprintf("Entry date must fall within %04d-%02d", report.Year, report.Month))
	}
	return nil
}
