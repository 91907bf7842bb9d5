package models

import (
	"time"

	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportModel is the persistence model for monthly activity reports.
// The unique constraint over (owner_id, month, year) is created in the
// migrations because owner_id lives on the embedded aggregate model.
type ReportModel struct {
	OwnedAggregateModel
	Month       int             `gorm:"not null"`
	Year        int             `gorm:"not null"`
	Status      string          `gorm:"size:20;not null;index"`
	Currency    string          `gorm:"size:3;not null"`
	TotalDays   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	TotalAmount int64           `gorm:"not null;default:0"`
	SubmittedAt *time.Time
	LockedAt    *time.Time
}

// TableName returns the table name for ReportModel
func (ReportModel) TableName() string {
	return "activity_reports"
}

// ToDomain converts ReportModel to a domain Report
func (m *ReportModel) ToDomain() *activity.Report {
	r := &activity.Report{
		Month:       m.Month,
		Year:        m.Year,
		Status:      activity.ReportStatus(m.Status),
		Currency:    valueobject.Currency(m.Currency),
		TotalDays:   m.TotalDays,
		TotalAmount: m.TotalAmount,
		SubmittedAt: m.SubmittedAt,
		LockedAt:    m.LockedAt,
	}
	m.PopulateOwnedAggregateRoot(&r.OwnedAggregateRoot)
	return r
}

// ReportModelFromDomain converts a domain Report to its persistence model
func ReportModelFromDomain(r *activity.Report) *ReportModel {
	m := &ReportModel{
		Month:       r.Month,
		Year:        r.Year,
		Status:      r.Status.String(),
		Currency:    string(r.Currency),
		TotalDays:   r.TotalDays,
		TotalAmount: r.TotalAmount,
		SubmittedAt: r.SubmittedAt,
		LockedAt:    r.LockedAt,
	}
	m.FromDomainOwnedAggregateRoot(r.OwnedAggregateRoot)
	return m
}

// EntryModel is the persistence model for activity entries. The unique
// constraint over (report_id, mission_id, entry_date) on active rows is
// a partial index created in the migrations; it cannot be expressed as
// a gorm tag.
type EntryModel struct {
	BaseModel
	ReportID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MissionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryDate   time.Time       `gorm:"type:date;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	UnitPrice   int64           `gorm:"not null"`
	Description string          `gorm:"size:500"`
	DeletedAt   *time.Time      `gorm:"index"`
}

// TableName returns the table name for EntryModel
func (EntryModel) TableName() string {
	return "activity_entries"
}

// ToDomain converts EntryModel to a domain Entry
func (m *EntryModel) ToDomain() *activity.Entry {
	return &activity.Entry{
		BaseEntity:  m.BaseModel.ToDomain(),
		ReportID:    m.ReportID,
		MissionID:   m.MissionID,
		EntryDate:   m.EntryDate,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Description: m.Description,
		DeletedAt:   m.DeletedAt,
	}
}

// EntryModelFromDomain converts a domain Entry to its persistence model
func EntryModelFromDomain(e *activity.Entry) *EntryModel {
	m := &EntryModel{
		ReportID:    e.ReportID,
		MissionID:   e.MissionID,
		EntryDate:   e.EntryDate,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		Description: e.Description,
		DeletedAt:   e.DeletedAt,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// ReportMissionModel is the denormalized link between a report and the
// missions its active entries reference
type ReportMissionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_missions_pair,priority:1"`
	MissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_missions_pair,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for ReportMissionModel
func (ReportMissionModel) TableName() string {
	return "report_missions"
}
