package persistence

import (
	"context"

	"github.com/foresy/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportMissionLinkRepository implements activity.ReportMissionLinkRepository
// on top of the report_missions link table
type GormReportMissionLinkRepository struct {
	db *gorm.DB
}

// NewGormReportMissionLinkRepository creates a new link repository
func NewGormReportMissionLinkRepository(db *gorm.DB) *GormReportMissionLinkRepository {
	return &GormReportMissionLinkRepository{db: db}
}

// Ensure inserts the (report, mission) pair if it does not exist yet.
// Races with a concurrent insert resolve through the unique index.
func (r *GormReportMissionLinkRepository) Ensure(ctx context.Context, reportID, missionID uuid.UUID) error {
	model := &models.ReportMissionModel{
		ID:        uuid.New(),
		ReportID:  reportID,
		MissionID: missionID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "report_id"}, {Name: "mission_id"}},
			DoNothing: true,
		}).
		Create(model).Error
}

// Remove deletes the (report, mission) pair
func (r *GormReportMissionLinkRepository) Remove(ctx context.Context, reportID, missionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("report_id = ? AND mission_id = ?", reportID, missionID).
		Delete(&models.ReportMissionModel{}).Error
}

// MissionIDsForReport returns the missions currently linked to a report
func (r *GormReportMissionLinkRepository) MissionIDsForReport(ctx context.Context, reportID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.ReportMissionModel{}).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Pluck("mission_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
