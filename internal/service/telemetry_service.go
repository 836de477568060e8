package service

import (
	"encoding/json"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/internal/util"
	"ai_readiness_backend/pkg/logger"
	"ai_readiness_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// TelemetryService records product metrics events. Every hook is
// fire-and-forget: failures are logged and swallowed, they must never
// abort scoring or persistence.
type TelemetryService struct {
	Repo *repository.TelemetryRepository
}

func NewTelemetryService(repo *repository.TelemetryRepository) *TelemetryService {
	return &TelemetryService{Repo: repo}
}

func (s *TelemetryService) TrackAssessmentStarted(assessmentID, roleID, version string) {
	s.track(assessmentID, model.EventAssessmentStarted, map[string]interface{}{
		"roleId":  roleID,
		"version": version,
	})
	logger.Log.Info("assessment started",
		zap.String("assessmentId", assessmentID),
		zap.String("roleId", roleID))
}

func (s *TelemetryService) TrackAssessmentCompleted(assessmentID, roleID string, answerCount int, globalScore float64) {
	s.track(assessmentID, model.EventAssessmentCompleted, map[string]interface{}{
		"roleId":      roleID,
		"answerCount": answerCount,
		"globalScore": globalScore,
	})
	monitoring.AssessmentsCompleted.Inc()
	logger.Log.Info("assessment completed",
		zap.String("assessmentId", assessmentID),
		zap.Float64("globalScore", globalScore))
}

func (s *TelemetryService) TrackPlanGenerated(assessmentID string, priorityCount int) {
	s.track(assessmentID, model.EventPlanGenerated, map[string]interface{}{
		"priorityCount": priorityCount,
	})
	monitoring.PlansGenerated.Inc()
	logger.Log.Info("plan generated",
		zap.String("assessmentId", assessmentID),
		zap.Int("priorities", priorityCount))
}

func (s *TelemetryService) TrackReportGenerated(assessmentID, reportID string) {
	s.track(assessmentID, model.EventReportGenerated, map[string]interface{}{
		"reportId": reportID,
	})
	monitoring.ReportsGenerated.Inc()
}

func (s *TelemetryService) TrackRoleSelected(roleID string) {
	s.track("", model.EventRoleSelected, map[string]interface{}{
		"roleId": roleID,
	})
}

func (s *TelemetryService) TrackAPIError(assessmentID, errMsg, endpoint string) {
	s.track(assessmentID, model.EventAPIError, map[string]interface{}{
		"error":    errMsg,
		"endpoint": endpoint,
	})
}

// TrackEvent is the ingest path for client-reported events.
func (s *TelemetryService) TrackEvent(assessmentID string, eventType model.TelemetryEventType, data map[string]interface{}) error {
	if !eventType.Valid() {
		return util.ErrValidation
	}
	s.track(assessmentID, eventType, data)
	return nil
}

// EventSummary reports stored counts per event type.
func (s *TelemetryService) EventSummary() (map[model.TelemetryEventType]int64, error) {
	summary := make(map[model.TelemetryEventType]int64)
	for _, eventType := range []model.TelemetryEventType{
		model.EventAssessmentStarted,
		model.EventAssessmentCompleted,
		model.EventPlanGenerated,
		model.EventReportGenerated,
		model.EventRoleSelected,
		model.EventAPIError,
	} {
		total, err := s.Repo.CountByType(eventType)
		if err != nil {
			return nil, err
		}
		summary[eventType] = total
	}
	return summary, nil
}

func (s *TelemetryService) track(assessmentID string, eventType model.TelemetryEventType, data map[string]interface{}) {
	var payload json.RawMessage
	if data != nil {
		if encoded, err := json.Marshal(data); err == nil {
			payload = encoded
		}
	}

	event := &model.TelemetryEvent{
		AssessmentID: assessmentID,
		EventType:    eventType,
		Data:         payload,
	}
	if err := s.Repo.Create(event); err != nil {
		logger.Log.Warn("telemetry event dropped",
			zap.String("eventType", string(eventType)),
			zap.Error(err))
	}
}
