package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportRepository implements activity.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new report repository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Save persists a new report. A unique violation on the owner/period
// index means another request created the same month concurrently.
func (r *GormReportRepository) Save(ctx context.Context, report *activity.Report) error {
	model := models.ReportModelFromDomain(report)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewConflictError("REPORT_EXISTS", "A report for this period already exists")
		}
		return err
	}
	return nil
}

// FindByID finds a report by ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a report by ID holding a row lock for the
// duration of the surrounding transaction.
func (r *GormReportRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*activity.Report, error) {
	var model models.ReportModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwnerAndPeriod finds the owner's report for a given month.
// Returns (nil, nil) when no report exists for the period.
func (r *GormReportRepository) FindByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, month, year int) (*activity.Report, error) {
	var model models.ReportModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND month = ? AND year = ?", ownerID, month, year).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner lists the owner's reports with filtering and pagination
func (r *GormReportRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter activity.ReportFilter) (*shared.Paginated[*activity.Report], error) {
	query := r.db.WithContext(ctx).Model(&models.ReportModel{}).
		Where("owner_id = ?", ownerID)
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, ReportSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Limit(filter.PageSize).
		Offset(filter.Offset())

	var modelList []models.ReportModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, err
	}

	reports := make([]*activity.Report, len(modelList))
	for i := range modelList {
		reports[i] = modelList[i].ToDomain()
	}

	return shared.NewPaginated(reports, total, filter.Page, filter.PageSize), nil
}

// Update persists changes to an existing report. The version predicate
// makes the write optimistic: a row changed by another transaction since
// this aggregate was loaded matches zero rows.
func (r *GormReportRepository) Update(ctx context.Context, report *activity.Report) error {
	model := models.ReportModelFromDomain(report)
	model.Version = report.GetVersion() + 1
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", report.GetID(), report.GetVersion()).
		Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrStaleVersion
	}
	report.IncrementVersion()
	return nil
}

func (r *GormReportRepository) applyFilterWithoutPagination(query *gorm.DB, filter activity.ReportFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	return query
}
