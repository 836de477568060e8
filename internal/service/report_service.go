package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/internal/util"
	"ai_readiness_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService builds downloadable result artifacts. Records persist
// in the database with a fixed retention window; the artifact itself is
// the JSON result summary, written through the storage provider (PDF
// rendering is delegated to an external collaborator).
type ReportService struct {
	Repo       *repository.ReportRepository
	Assessment *AssessmentService
	Plan       *PlanService
	Storage    *StorageService
	Telemetry  *TelemetryService

	mu        sync.RWMutex
	retention time.Duration
}

func NewReportService(repo *repository.ReportRepository, assessment *AssessmentService, plan *PlanService, storage *StorageService, telemetry *TelemetryService, cfg *config.Config) *ReportService {
	return &ReportService{
		Repo:       repo,
		Assessment: assessment,
		Plan:       plan,
		Storage:    storage,
		Telemetry:  telemetry,
		retention:  time.Duration(cfg.Report.RetentionHours) * time.Hour,
	}
}

// SetRetention swaps the retention window. Config hot-reload calls this
// while requests are in flight.
func (s *ReportService) SetRetention(retention time.Duration) {
	s.mu.Lock()
	s.retention = retention
	s.mu.Unlock()
}

func (s *ReportService) Retention() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retention
}

type reportDocument struct {
	AssessmentID string             `json:"assessmentId"`
	RoleID       string             `json:"roleId"`
	Version      string             `json:"version"`
	Locale       string             `json:"locale"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Scores       map[string]float64 `json:"scores"`
	Gaps         []string           `json:"gaps"`
	Plan         *PlanDto           `json:"plan,omitempty"`
}

// GenerateReport renders the artifact for an assessment and records it.
// A still-valid existing report is returned as-is.
func (s *ReportService) GenerateReport(ctx context.Context, assessmentID string) (*model.Report, error) {
	if existing, err := s.Repo.FindByAssessmentID(assessmentID); err == nil {
		if existing.ExpiresAt.After(time.Now()) {
			return existing, nil
		}
		// Retire the stale row before creating the replacement; the
		// ready lookup must resolve to exactly one record.
		existing.Status = model.ReportExpired
		if err := s.Repo.Save(existing); err != nil {
			return nil, err
		}
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

	doc := reportDocument{
		AssessmentID: assessment.ID,
		RoleID:       assessment.RoleID,
		Version:      assessment.Version,
		Locale:       assessment.Locale,
		GeneratedAt:  time.Now().UTC(),
		Scores:       scores.ResponseMap(),
		Gaps:         scores.Gaps,
	}
	// A missing plan is fine; the report just omits that section.
	if plan, err := s.Plan.GetPlan(assessmentID); err == nil {
		doc.Plan = plan
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		AssessmentID: assessmentID,
		Status:       model.ReportReady,
		ExpiresAt:    time.Now().Add(s.Retention()),
	}
	report.ObjectKey = fmt.Sprintf("reports/%s.json", assessmentID)

	url, err := s.Storage.Upload(ctx, report.ObjectKey, bytes.NewReader(payload), int64(len(payload)), "application/json")
	if err != nil {
		return nil, err
	}
	report.URL = url

	if err := s.Repo.Create(report); err != nil {
		return nil, err
	}

	s.Telemetry.TrackReportGenerated(assessmentID, report.ID)

	return report, nil
}

// GetReport answers not-found for expired records, even before the
// cleanup sweep has removed them.
func (s *ReportService) GetReport(id string) (*model.Report, error) {
	report, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReportNotFound
		}
		return nil, err
	}
	if report.Status != model.ReportReady || !report.ExpiresAt.After(time.Now()) {
		return nil, util.ErrReportNotFound
	}
	return report, nil
}

// CleanupExpired sweeps reports past their retention window: artifact
// deleted, record marked expired. Runs from the app's background ticker.
func (s *ReportService) CleanupExpired(ctx context.Context) error {
	expired, err := s.Repo.ListExpired(time.Now())
	if err != nil {
		return err
	}
	for _, report := range expired {
		if err := s.Storage.Delete(ctx, report.ObjectKey); err != nil {
			logger.Log.Warn("failed to delete report artifact",
				zap.String("reportId", report.ID),
				zap.Error(err))
		}
		report.Status = model.ReportExpired
		if err := s.Repo.Save(&report); err != nil {
			return err
		}
	}
	return nil
}
