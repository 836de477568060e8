package repository

import (
	"ai_readiness_backend/internal/model"

	"gorm.io/gorm"
)

type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) Create(p *model.Plan) error {
	return r.DB.Create(p).Error
}

func (r *PlanRepository) FindByAssessmentID(assessmentID string) (*model.Plan, error) {
	var p model.Plan
	err := r.DB.First(&p, "assessment_id = ?", assessmentID).Error
	return &p, err
}
