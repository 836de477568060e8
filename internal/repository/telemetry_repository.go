package repository

import (
	"ai_readiness_backend/internal/model"

	"gorm.io/gorm"
)

type TelemetryRepository struct {
	DB *gorm.DB
}

func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{DB: db}
}

func (r *TelemetryRepository) Create(e *model.TelemetryEvent) error {
	return r.DB.Create(e).Error
}

func (r *TelemetryRepository) CountByType(eventType model.TelemetryEventType) (int64, error) {
	var total int64
	err := r.DB.Model(&model.TelemetryEvent{}).Where("event_type = ?", eventType).Count(&total).Error
	return total, err
}
