package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/foresy/backend/internal/domain/mission"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMissionRepository implements mission.Repository using GORM
type GormMissionRepository struct {
	db *gorm.DB
}

// NewGormMissionRepository creates a new mission repository
func NewGormMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

// Save persists a new mission
func (r *GormMissionRepository) Save(ctx context.Context, m *mission.Mission) error {
	model := models.MissionModelFromDomain(m)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a mission by ID
func (r *GormMissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*mission.Mission, error) {
	var model models.MissionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner lists the owner's missions with filtering and pagination
func (r *GormMissionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter mission.Filter) (*shared.Paginated[*mission.Mission], error) {
	query := r.db.WithContext(ctx).Model(&models.MissionModel{}).
		Where("owner_id = ?", ownerID)
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, MissionSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Limit(filter.PageSize).
		Offset(filter.Offset())

	var modelList []models.MissionModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, err
	}

	missions := make([]*mission.Mission, len(modelList))
	for i := range modelList {
		missions[i] = modelList[i].ToDomain()
	}

	return shared.NewPaginated(missions, total, filter.Page, filter.PageSize), nil
}

// Update persists changes to an existing mission
func (r *GormMissionRepository) Update(ctx context.Context, m *mission.Mission) error {
	model := models.MissionModelFromDomain(m)
	model.Version = m.GetVersion() + 1
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", m.GetID(), m.GetVersion()).
		Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrStaleVersion
	}
	m.IncrementVersion()
	return nil
}

// Delete removes a mission
func (r *GormMissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MissionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormMissionRepository) applyFilterWithoutPagination(query *gorm.DB, filter mission.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.PricingMode != nil {
		query = query.Where("pricing_mode = ?", filter.PricingMode.String())
	}
	return query
}
