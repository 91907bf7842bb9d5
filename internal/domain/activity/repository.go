package activity

import (
	"context"
	"time"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportFilter defines query parameters for listing reports
type ReportFilter struct {
	shared.Filter
	Status *ReportStatus
	Year   *int
	Month  *int
}

// EntryFilter defines query parameters for listing a report's entries.
// Only active entries are ever returned.
type EntryFilter struct {
	shared.Filter
	MissionID    *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	QuantityMin  *decimal.Decimal
	QuantityMax  *decimal.Decimal
	UnitPriceMin *int64
	UnitPriceMax *int64
}

// ReportTotals holds the aggregation of a report's active entries
type ReportTotals struct {
	TotalDays   decimal.Decimal
	TotalAmount int64
}

// ReportRepository defines the persistence interface for reports
type ReportRepository interface {
	Save(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	// FindByIDForUpdate loads the report with a row lock so that
	// concurrent entry mutations against the same report serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Report, error)
	FindByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, month, year int) (*Report, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter ReportFilter) (*shared.Paginated[*Report], error)
	Update(ctx context.Context, report *Report) error
}

// EntryRepository defines the persistence interface for entries
type EntryRepository interface {
	Save(ctx context.Context, entry *Entry) error
	// FindByID returns the entry whether or not it is soft deleted
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindByReport(ctx context.Context, reportID uuid.UUID, filter EntryFilter) (*shared.Paginated[*Entry], error)
	Update(ctx context.Context, entry *Entry) error
	// ExistsActiveDuplicate checks for another active entry with the
	// same (report, mission, date). excludeID skips the entry being
	// updated and may be nil.
	ExistsActiveDuplicate(ctx context.Context, reportID, missionID uuid.UUID, entryDate time.Time, excludeID *uuid.UUID) (bool, error)
	// TotalsForReport aggregates quantity and quantity*unit_price over
	// the report's active entries.
	TotalsForReport(ctx context.Context, reportID uuid.UUID) (ReportTotals, error)
	CountActiveByReportAndMission(ctx context.Context, reportID, missionID uuid.UUID) (int64, error)
}

// ReportMissionLinkRepository maintains the denormalized set of
// missions referenced by a report's active entries
type ReportMissionLinkRepository interface {
	Ensure(ctx context.Context, reportID, missionID uuid.UUID) error
	Remove(ctx context.Context, reportID, missionID uuid.UUID) error
	MissionIDsForReport(ctx context.Context, reportID uuid.UUID) ([]uuid.UUID, error)
}
