package mission

import (
	"time"

	"github.com/foresy/backend/internal/domain/mission"
	"github.com/google/uuid"
)

// CreateMissionRequest represents a request to register a new mission
type CreateMissionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	PricingMode string `json:"pricing_mode" binding:"required"`
	DailyRate   *int64 `json:"daily_rate"`
	FixedPrice  *int64 `json:"fixed_price"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
}

// UpdateMissionRequest represents a request to change a mission's terms
type UpdateMissionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	PricingMode string `json:"pricing_mode" binding:"required"`
	DailyRate   *int64 `json:"daily_rate"`
	FixedPrice  *int64 `json:"fixed_price"`
}

// TransitionMissionRequest moves a mission to its next status
type TransitionMissionRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListMissionsRequest represents the filters for listing missions
type ListMissionsRequest struct {
	Status      *string `form:"status"`
	PricingMode *string `form:"pricing_mode"`
	Search      string  `form:"search"`
	OrderBy     string  `form:"order_by"`
	OrderDir    string  `form:"order_dir"`
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}

// MissionResponse represents a mission in API responses
type MissionResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	PricingMode string     `json:"pricing_mode"`
	DailyRate   *int64     `json:"daily_rate,omitempty"`
	FixedPrice  *int64     `json:"fixed_price,omitempty"`
	Currency    string     `json:"currency"`
	Billable    bool       `json:"billable"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToMissionResponse converts a mission aggregate to its response form
func ToMissionResponse(m *mission.Mission) MissionResponse {
	return MissionResponse{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Status:      m.Status.String(),
		PricingMode: m.PricingMode.String(),
		DailyRate:   m.DailyRate,
		FixedPrice:  m.FixedPrice,
		Currency:    string(m.Currency),
		Billable:    m.IsBillable(),
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Version:     m.Version,
	}
}
