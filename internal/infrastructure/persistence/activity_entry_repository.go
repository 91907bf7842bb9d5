package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormEntryRepository implements activity.EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new entry repository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Save persists a new entry. A unique violation on the active
// (report, mission, date) index means a concurrent writer won the
// slot between the duplicate check and this insert.
func (r *GormEntryRepository) Save(ctx context.Context, entry *activity.Entry) error {
	model := models.EntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewConflictError("DUPLICATE_ENTRY", "An active entry for this mission and date already exists")
		}
		return err
	}
	return nil
}

// FindByID finds an entry by ID, including soft deleted rows
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReport lists a report's active entries with filtering and pagination
func (r *GormEntryRepository) FindByReport(ctx context.Context, reportID uuid.UUID, filter activity.EntryFilter) (*shared.Paginated[*activity.Entry], error) {
	query := r.db.WithContext(ctx).Model(&models.EntryModel{}).
		Where("report_id = ? AND deleted_at IS NULL", reportID)
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, EntrySortFields, "entry_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Limit(filter.PageSize).
		Offset(filter.Offset())

	var modelList []models.EntryModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, err
	}

	entries := make([]*activity.Entry, len(modelList))
	for i := range modelList {
		entries[i] = modelList[i].ToDomain()
	}

	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// Update persists changes to an existing entry
func (r *GormEntryRepository) Update(ctx context.Context, entry *activity.Entry) error {
	model := models.EntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", entry.GetID()).Save(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.NewConflictError("DUPLICATE_ENTRY", "An active entry for this mission and date already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsActiveDuplicate reports whether another active entry occupies
// the same (report, mission, date) slot
func (r *GormEntryRepository) ExistsActiveDuplicate(ctx context.Context, reportID, missionID uuid.UUID, entryDate time.Time, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.EntryModel{}).
		Where("report_id = ? AND mission_id = ? AND entry_date = ? AND deleted_at IS NULL",
			reportID, missionID, entryDate)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type entryTotalsRow struct {
	TotalDays   decimal.Decimal
	TotalAmount decimal.Decimal
}

// TotalsForReport aggregates day count and billed amount over a
// report's active entries
func (r *GormEntryRepository) TotalsForReport(ctx context.Context, reportID uuid.UUID) (activity.ReportTotals, error) {
	var row entryTotalsRow
	err := r.db.WithContext(ctx).Model(&models.EntryModel{}).
		Select("COALESCE(SUM(quantity), 0) AS total_days, COALESCE(SUM(ROUND(quantity * unit_price)), 0) AS total_amount").
		Where("report_id = ? AND deleted_at IS NULL", reportID).
		Scan(&row).Error
	if err != nil {
		return activity.ReportTotals{}, err
	}
	return activity.ReportTotals{
		TotalDays:   row.TotalDays,
		TotalAmount: row.TotalAmount.IntPart(),
	}, nil
}

// CountActiveByReportAndMission counts a report's active entries for one mission
func (r *GormEntryRepository) CountActiveByReportAndMission(ctx context.Context, reportID, missionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EntryModel{}).
		Where("report_id = ? AND mission_id = ? AND deleted_at IS NULL", reportID, missionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter activity.EntryFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.MissionID != nil {
		query = query.Where("mission_id = ?", *filter.MissionID)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}
	if filter.QuantityMin != nil {
		query = query.Where("quantity >= ?", *filter.QuantityMin)
	}
	if filter.QuantityMax != nil {
		query = query.Where("quantity <= ?", *filter.QuantityMax)
	}
	if filter.UnitPriceMin != nil {
		query = query.Where("unit_price >= ?", *filter.UnitPriceMin)
	}
	if filter.UnitPriceMax != nil {
		query = query.Where("unit_price <= ?", *filter.UnitPriceMax)
	}
	return query
}
