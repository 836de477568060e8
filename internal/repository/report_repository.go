package repository

import (
	"time"

	"ai_readiness_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(rep *model.Report) error {
	return r.DB.Create(rep).Error
}

func (r *ReportRepository) FindByID(id string) (*model.Report, error) {
	var rep model.Report
	err := r.DB.First(&rep, "id = ?", id).Error
	return &rep, err
}

func (r *ReportRepository) FindByAssessmentID(assessmentID string) (*model.Report, error) {
	var rep model.Report
	err := r.DB.First(&rep, "assessment_id = ? AND status = ?", assessmentID, model.ReportReady).Error
	return &rep, err
}

// ListExpired returns ready reports whose retention window has passed.
func (r *ReportRepository) ListExpired(now time.Time) ([]model.Report, error) {
	var reps []model.Report
	err := r.DB.Where("status = ? AND expires_at <= ?", model.ReportReady, now).Find(&reps).Error
	return reps, err
}

func (r *ReportRepository) Save(rep *model.Report) error {
	return r.DB.Save(rep).Error
}
