package mission

import (
	"fmt"
	"time"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Status represents the lifecycle status of a mission
type Status string

const (
	StatusLead       Status = "LEAD"        // Initial prospect
	StatusPending    Status = "PENDING"     // Proposal sent, awaiting answer
	StatusWon        Status = "WON"         // Contract signed
	StatusInProgress Status = "IN_PROGRESS" // Work ongoing, entries billable
	StatusCompleted  Status = "COMPLETED"   // Terminal
)

// IsValid checks if the status is a valid mission Status
func (s Status) IsValid() bool {
	switch s {
	case StatusLead, StatusPending, StatusWon, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// next returns the status that directly follows s, or "" for terminal states.
func (s Status) next() Status {
	switch s {
	case StatusLead:
		return StatusPending
	case StatusPending:
		return StatusWon
	case StatusWon:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	}
	return ""
}

// CanTransitionTo checks if the status can move to the target status.
// Transitions are forward-only and never skip a state.
func (s Status) CanTransitionTo(target Status) bool {
	return target != "" && s.next() == target
}

// IsTerminal returns true if the mission is in a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// PricingMode determines how entries against the mission are billed
type PricingMode string

const (
	PricingTimeBased  PricingMode = "TIME_BASED"  // Daily rate, billed per day worked
	PricingFixedPrice PricingMode = "FIXED_PRICE" // Lump sum for the whole engagement
)

// IsValid checks if the pricing mode is supported
func (p PricingMode) IsValid() bool {
	return p == PricingTimeBased || p == PricingFixedPrice
}

// String returns the string representation of PricingMode
func (p PricingMode) String() string {
	return string(p)
}

// Mission represents a client engagement that activity entries bill against
type Mission struct {
	shared.OwnedAggregateRoot
	Name        string
	Status      Status
	PricingMode PricingMode
	// DailyRate applies to TIME_BASED missions, FixedPrice to FIXED_PRICE
	// ones. Both are integer minor currency units.
	DailyRate   *int64
	FixedPrice  *int64
	Currency    valueobject.Currency
	CompletedAt *time.Time
}

// NewMission creates a new mission in LEAD status
func NewMission(ownerID uuid.UUID, name string, pricingMode PricingMode, dailyRate, fixedPrice *int64, currency valueobject.Currency) (*Mission, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Mission name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("INVALID_NAME", "Mission name cannot exceed 200 characters")
	}
	if !pricingMode.IsValid() {
		return nil, shared.NewValidationError("INVALID_PRICING_MODE", "Pricing mode is not valid")
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("INVALID_CURRENCY", "Currency is not valid")
	}
	if pricingMode == PricingTimeBased {
		if dailyRate == nil || *dailyRate <= 0 {
			return nil, shared.NewValidationError("INVALID_DAILY_RATE", "Daily rate must be positive for time-based missions")
		}
	}
	if pricingMode == PricingFixedPrice {
		if fixedPrice == nil || *fixedPrice <= 0 {
			return nil, shared.NewValidationError("INVALID_FIXED_PRICE", "Fixed price must be positive for fixed-price missions")
		}
	}

	return &Mission{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Status:             StatusLead,
		PricingMode:        pricingMode,
		DailyRate:          dailyRate,
		FixedPrice:         fixedPrice,
		Currency:           currency,
	}, nil
}

// CanModify returns true while the mission details may still change.
// Once a mission is won, its commercial terms are frozen.
func (m *Mission) CanModify() bool {
	return m.Status == StatusLead || m.Status == StatusPending
}

// Update changes the mission details. Only allowed in LEAD or PENDING status.
func (m *Mission) Update(name string, pricingMode PricingMode, dailyRate, fixedPrice *int64) error {
	if !m.CanModify() {
		return shared.NewConflictError("MISSION_FROZEN", fmt.Sprintf("Cannot modify mission in %s status", m.Status))
	}
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Mission name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Mission name cannot exceed 200 characters")
	}
	if !pricingMode.IsValid() {
		return shared.NewValidationError("INVALID_PRICING_MODE", "Pricing mode is not valid")
	}
	if pricingMode == PricingTimeBased && (dailyRate == nil || *dailyRate <= 0) {
		return shared.NewValidationError("INVALID_DAILY_RATE", "Daily rate must be positive for time-based missions")
	}
	if pricingMode == PricingFixedPrice && (fixedPrice == nil || *fixedPrice <= 0) {
		return shared.NewValidationError("INVALID_FIXED_PRICE", "Fixed price must be positive for fixed-price missions")
	}

	m.Name = name
	m.PricingMode = pricingMode
	m.DailyRate = dailyRate
	m.FixedPrice = fixedPrice
	m.UpdatedAt = time.Now()

	return nil
}

// TransitionTo advances the mission to the target status
func (m *Mission) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Target status is not valid")
	}
	if !m.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition mission from %s to %s", m.Status, target))
	}

	now := time.Now()
	m.Status = target
	if target == StatusCompleted {
		m.CompletedAt = &now
	}
	m.UpdatedAt = now

	return nil
}

// IsBillable returns true if entries may reference this mission.
// Only missions that are at least won accrue billable activity.
func (m *Mission) IsBillable() bool {
	return m.Status == StatusWon || m.Status == StatusInProgress || m.Status == StatusCompleted
}
