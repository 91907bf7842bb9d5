package models

import (
	"time"

	"github.com/foresy/backend/internal/domain/mission"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
)

// MissionModel is the persistence model for missions
type MissionModel struct {
	OwnedAggregateModel
	Name        string `gorm:"size:200;not null"`
	Status      string `gorm:"size:20;not null;index"`
	PricingMode string `gorm:"size:20;not null"`
	DailyRate   *int64
	FixedPrice  *int64
	Currency    string `gorm:"size:3;not null"`
	CompletedAt *time.Time
}

// TableName returns the table name for MissionModel
func (MissionModel) TableName() string {
	return "missions"
}

// ToDomain converts MissionModel to a domain Mission
func (m *MissionModel) ToDomain() *mission.Mission {
	ms := &mission.Mission{
		Name:        m.Name,
		Status:      mission.Status(m.Status),
		PricingMode: mission.PricingMode(m.PricingMode),
		DailyRate:   m.DailyRate,
		FixedPrice:  m.FixedPrice,
		Currency:    valueobject.Currency(m.Currency),
		CompletedAt: m.CompletedAt,
	}
	m.PopulateOwnedAggregateRoot(&ms.OwnedAggregateRoot)
	return ms
}

// MissionModelFromDomain converts a domain Mission to its persistence model
func MissionModelFromDomain(ms *mission.Mission) *MissionModel {
	m := &MissionModel{
		Name:        ms.Name,
		Status:      ms.Status.String(),
		PricingMode: ms.PricingMode.String(),
		DailyRate:   ms.DailyRate,
		FixedPrice:  ms.FixedPrice,
		Currency:    string(ms.Currency),
		CompletedAt: ms.CompletedAt,
	}
	m.FromDomainOwnedAggregateRoot(ms.OwnedAggregateRoot)
	return m
}
