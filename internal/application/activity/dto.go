package activity

import (
	"time"

	"github.com/foresy/backend/internal/domain/activity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Report DTOs ====================

// CreateReportRequest represents a request to open a monthly report
type CreateReportRequest struct {
	Month    int    `json:"month" binding:"required,min=1,max=12"`
	Year     int    `json:"year" binding:"required,min=2000,max=2100"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

// ListReportsRequest represents the filters for listing reports
type ListReportsRequest struct {
	Status   *string `form:"status"`
	Year     *int    `form:"year"`
	Month    *int    `form:"month"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// ReportResponse represents a report in API responses
type ReportResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	TotalDays   decimal.Decimal `json:"total_days"`
	TotalAmount int64           `json:"total_amount"`
	TotalLabel  string          `json:"total_label"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	LockedAt    *time.Time      `json:"locked_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToReportResponse converts a report aggregate to its response form
func ToReportResponse(r *activity.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Month:       r.Month,
		Year:        r.Year,
		Status:      r.Status.String(),
		Currency:    string(r.Currency),
		TotalDays:   r.TotalDays,
		TotalAmount: r.TotalAmount,
		TotalLabel:  r.TotalAmountMoney().String(),
		SubmittedAt: r.SubmittedAt,
		LockedAt:    r.LockedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ==================== Entry DTOs ====================

// CreateEntryRequest represents a request to add an entry to a report
type CreateEntryRequest struct {
	MissionID   uuid.UUID       `json:"mission_id" binding:"required"`
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   int64           `json:"unit_price" binding:"required"`
	Description string          `json:"description"`
}

// UpdateEntryRequest represents a partial update of an entry.
// At least one field must be set.
type UpdateEntryRequest struct {
	MissionID   *uuid.UUID       `json:"mission_id"`
	EntryDate   *time.Time       `json:"entry_date"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *int64           `json:"unit_price"`
	Description *string          `json:"description"`
}

// IsEmpty returns true when no field is being changed
func (r UpdateEntryRequest) IsEmpty() bool {
	return r.MissionID == nil && r.EntryDate == nil && r.Quantity == nil &&
		r.UnitPrice == nil && r.Description == nil
}

// ListEntriesRequest represents the filters for listing a report's entries
type ListEntriesRequest struct {
	MissionID    *uuid.UUID       `form:"mission_id"`
	DateFrom     *time.Time       `form:"date_from" time_format:"2006-01-02"`
	DateTo       *time.Time       `form:"date_to" time_format:"2006-01-02"`
	QuantityMin  *decimal.Decimal `form:"quantity_min"`
	QuantityMax  *decimal.Decimal `form:"quantity_max"`
	UnitPriceMin *int64           `form:"unit_price_min"`
	UnitPriceMax *int64           `form:"unit_price_max"`
	Search       string           `form:"search"`
	OrderBy      string           `form:"order_by"`
	OrderDir     string           `form:"order_dir"`
	Page         int              `form:"page"`
	PageSize     int              `form:"page_size"`
}

// EntryResponse represents an entry in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ReportID    uuid.UUID       `json:"report_id"`
	MissionID   uuid.UUID       `json:"mission_id"`
	EntryDate   time.Time       `json:"entry_date"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   int64           `json:"unit_price"`
	LineTotal   int64           `json:"line_total"`
	Description string          `json:"description"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToEntryResponse converts an entry to its response form
func ToEntryResponse(e *activity.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		ReportID:    e.ReportID,
		MissionID:   e.MissionID,
		EntryDate:   e.EntryDate,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		LineTotal:   e.LineTotal(),
		Description: e.Description,
		DeletedAt:   e.DeletedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EntryMutationResponse pairs the affected entry with the refreshed
// report snapshot so that callers see the new totals immediately
type EntryMutationResponse struct {
	Entry  EntryResponse  `json:"entry"`
	Report ReportResponse `json:"report"`
}

// ListEntriesResponse is a page of entries plus the report snapshot
type ListEntriesResponse struct {
	Entries  []EntryResponse `json:"entries"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Report   ReportResponse  `json:"report"`
}
