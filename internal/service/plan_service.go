package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/internal/util"

	"gorm.io/gorm"
)

// PlanService generates and stores one plan per assessment. Generation
// is idempotent: a second request returns the stored plan unchanged.
type PlanService struct {
	Repo       *repository.PlanRepository
	Assessment *AssessmentService
	Telemetry  *TelemetryService

	mu        sync.RWMutex
	generator PlanGenerator
}

func NewPlanService(repo *repository.PlanRepository, assessment *AssessmentService, generator PlanGenerator, telemetry *TelemetryService) *PlanService {
	return &PlanService{
		Repo:       repo,
		Assessment: assessment,
		Telemetry:  telemetry,
		generator:  generator,
	}
}

// SetGenerator swaps the provider. Config hot-reload calls this while
// requests are in flight.
func (s *PlanService) SetGenerator(generator PlanGenerator) {
	s.mu.Lock()
	s.generator = generator
	s.mu.Unlock()
}

func (s *PlanService) currentGenerator() PlanGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator
}

// GeneratePlan builds the plan for an assessment, validating before
// anything persists. hoursPerWeek <= 0 falls back to the hours recorded
// on the assessment.
func (s *PlanService) GeneratePlan(assessmentID string, hoursPerWeek int) (*PlanDto, error) {
	if existing, err := s.Repo.FindByAssessmentID(assessmentID); err == nil {
		return deserializePlan(existing.PlanJSON)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assessment, err := s.Assessment.GetAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	scores, err := s.Assessment.ScoreAssessment(assessment)
	if err != nil {
		return nil, err
	}

	hours := hoursPerWeek
	if hours <= 0 {
		hours = assessment.HoursPerWeek
	}

	// One snapshot of the provider for the whole request, so a reload
	// cannot hand generation and validation to different providers.
	generator := s.currentGenerator()

	plan, err := generator.GeneratePlan(assessment.RoleID, scores.PillarScores, scores.Gaps, hours, assessment.Locale)
	if err != nil {
		return nil, err
	}

	// Fatal for this request; nothing persists for an invalid plan.
	if !generator.ValidatePlan(plan) {
		return nil, util.ErrInvalidPlan
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize plan: %w", err)
	}
	record := &model.Plan{
		AssessmentID: assessmentID,
		PlanJSON:     planJSON,
	}
	if err := s.Repo.Create(record); err != nil {
		return nil, err
	}

	s.Telemetry.TrackPlanGenerated(assessmentID, len(plan.Priorities))

	return plan, nil
}

// GetPlan returns the stored plan for an assessment, if any.
func (s *PlanService) GetPlan(assessmentID string) (*PlanDto, error) {
	record, err := s.Repo.FindByAssessmentID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}
	return deserializePlan(record.PlanJSON)
}

func deserializePlan(data []byte) (*PlanDto, error) {
	var plan PlanDto
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to deserialize plan: %w", err)
	}
	return &plan, nil
}
