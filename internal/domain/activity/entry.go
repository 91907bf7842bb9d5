package activity

import (
	"time"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry represents one line of activity within a report: some quantity
// of days worked on a mission at a unit price, on a given date.
type Entry struct {
	shared.BaseEntity
	ReportID    uuid.UUID
	MissionID   uuid.UUID
	EntryDate   time.Time
	Quantity    decimal.Decimal
	UnitPrice   int64 // minor units of the report currency
	Description string
	DeletedAt   *time.Time
}

// NormalizeEntryDate strips the time component so entries always key
// on a calendar day in UTC. Every date compared against stored entries
// must go through this first.
func NormalizeEntryDate(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// NewEntry creates a new entry for a report and mission
func NewEntry(reportID, missionID uuid.UUID, entryDate time.Time, quantity decimal.Decimal, unitPrice int64, description string) (*Entry, error) {
	if reportID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_REPORT", "Report ID cannot be empty")
	}
	if missionID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_MISSION", "Mission ID cannot be empty")
	}
	if entryDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "Entry date cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice <= 0 {
		return nil, shared.NewValidationError("INVALID_UNIT_PRICE", "Unit price must be positive")
	}

	return &Entry{
		BaseEntity:  shared.NewBaseEntity(),
		ReportID:    reportID,
		MissionID:   missionID,
		EntryDate:   NormalizeEntryDate(entryDate),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Description: description,
	}, nil
}

// Update changes the entry fields. A zero unit price is allowed here so
// that already billed work can be marked as non-chargeable afterwards.
func (e *Entry) Update(entryDate time.Time, quantity decimal.Decimal, unitPrice int64, description string) error {
	if e.IsDeleted() {
		return shared.NewConflictError("ENTRY_DELETED", "Cannot update a deleted entry")
	}
	if entryDate.IsZero() {
		return shared.NewValidationError("INVALID_DATE", "Entry date cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice < 0 {
		return shared.NewValidationError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}

	e.EntryDate = NormalizeEntryDate(entryDate)
	e.Quantity = quantity
	e.UnitPrice = unitPrice
	e.Description = description
	e.UpdatedAt = time.Now()

	return nil
}

// Reassign moves the entry to another mission
func (e *Entry) Reassign(missionID uuid.UUID) error {
	if e.IsDeleted() {
		return shared.NewConflictError("ENTRY_DELETED", "Cannot reassign a deleted entry")
	}
	if missionID == uuid.Nil {
		return shared.NewValidationError("INVALID_MISSION", "Mission ID cannot be empty")
	}

	e.MissionID = missionID
	e.UpdatedAt = time.Now()

	return nil
}

// SoftDelete marks the entry as deleted without removing the row
func (e *Entry) SoftDelete() error {
	if e.IsDeleted() {
		return shared.NewConflictError("ENTRY_DELETED", "Entry is already deleted")
	}

	now := time.Now()
	e.DeletedAt = &now
	e.UpdatedAt = now

	return nil
}

// IsDeleted returns true if the entry has been soft deleted
func (e *Entry) IsDeleted() bool {
	return e.DeletedAt != nil
}

// LineDays returns the quantity of the entry, zero when deleted
func (e *Entry) LineDays() decimal.Decimal {
	if e.IsDeleted() {
		return decimal.Zero
	}
	return e.Quantity
}

// LineTotal returns quantity times unit price, rounded half away from
// zero to whole minor units. Deleted entries contribute nothing.
func (e *Entry) LineTotal() int64 {
	if e.IsDeleted() {
		return 0
	}
	return decimal.NewFromInt(e.UnitPrice).Mul(e.Quantity).Round(0).IntPart()
}

// LineTotalMoney returns the line total in the given currency
func (e *Entry) LineTotalMoney(currency valueobject.Currency) valueobject.Money {
	if e.IsDeleted() {
		return valueobject.Zero(currency)
	}
	unit, _ := valueobject.NewMoney(e.UnitPrice, currency)
	return unit.MulQuantity(e.Quantity)
}
