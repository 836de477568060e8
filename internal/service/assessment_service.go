package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssessmentService creates assessment records and scores them. An
// assessment plus all of its answers persist in one transaction; the
// record is immutable afterwards, so re-scoring it against the
// referenced version always reproduces the same result.
type AssessmentService struct {
	Repo      *repository.AssessmentRepository
	Catalog   *CatalogService
	Scoring   *ScoringService
	Telemetry *TelemetryService
	DB        *gorm.DB
}

func NewAssessmentService(repo *repository.AssessmentRepository, catalog *CatalogService, scoring *ScoringService, telemetry *TelemetryService, db *gorm.DB) *AssessmentService {
	return &AssessmentService{
		Repo:      repo,
		Catalog:   catalog,
		Scoring:   scoring,
		Telemetry: telemetry,
		DB:        db,
	}
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Value      *int   `json:"value,omitempty"`
	Text       string `json:"text,omitempty"`
}

type CreateAssessmentRequest struct {
	RoleID           string          `json:"roleId" binding:"required"`
	Version          string          `json:"version"`
	Locale           string          `json:"locale"`
	HoursPerWeek     int             `json:"hoursPerWeek" binding:"required,min=1,max=80"`
	Consent          bool            `json:"consent"`
	Email            string          `json:"email,omitempty"`
	PrevAssessmentID string          `json:"prevAssessmentId,omitempty"`
	Answers          []AnswerRequest `json:"answers" binding:"required,dive"`
}

type AssessmentResponse struct {
	ID     string             `json:"id"`
	Scores map[string]float64 `json:"scores"`
	Gaps   []string           `json:"gaps"`
}

// CreateAssessment resolves the question set, persists the submission
// atomically and runs one scoring pass. Telemetry hooks fire around the
// scoring but never fail the request.
func (s *AssessmentService) CreateAssessment(req CreateAssessmentRequest) (*AssessmentResponse, error) {
	version, err := s.Catalog.ResolveVersion(req.RoleID, req.Version)
	if err != nil {
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = "en-US"
	}

	assessment := &model.Assessment{
		ID:               newAssessmentID(),
		RoleID:           req.RoleID,
		Version:          req.Version,
		Locale:           locale,
		HoursPerWeek:     req.HoursPerWeek,
		Consent:          req.Consent,
		PrevAssessmentID: req.PrevAssessmentID,
	}
	if assessment.Version == "" {
		assessment.Version = strconv.Itoa(version.VersionNumber)
	}
	if strings.TrimSpace(req.Email) != "" {
		assessment.EmailHash = hashEmail(req.Email)
	}

	answers := make([]model.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.Answer{
			AssessmentID: assessment.ID,
			QuestionID:   a.QuestionID,
			ValueNumeric: a.Value,
			ValueText:    a.Text,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assessment).Error; err != nil {
			return err
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Telemetry.TrackAssessmentStarted(assessment.ID, req.RoleID, assessment.Version)

	scores := s.Scoring.CalculateScores(answers, version.Questions)

	s.Telemetry.TrackAssessmentCompleted(assessment.ID, req.RoleID, len(answers), scores.GlobalScore)

	return &AssessmentResponse{
		ID:     assessment.ID,
		Scores: scores.ResponseMap(),
		Gaps:   scores.Gaps,
	}, nil
}

func (s *AssessmentService) GetAssessment(id string) (*model.Assessment, error) {
	assessment, err := s.Repo.FindByIDWithAnswers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return assessment, nil
}

// ScoreAssessment recomputes scores for a stored assessment against the
// version it was submitted on. Used by plan and report generation.
func (s *AssessmentService) ScoreAssessment(assessment *model.Assessment) (AssessmentScores, error) {
	version, err := s.Catalog.ResolveVersion(assessment.RoleID, assessment.Version)
	if err != nil {
		return AssessmentScores{}, err
	}
	return s.Scoring.CalculateScores(assessment.Answers, version.Questions), nil
}

// ListAssessments pages through stored submissions, newest first.
func (s *AssessmentService) ListAssessments(page, limit int) ([]model.Assessment, int64, error) {
	return s.Repo.List(page, limit)
}

// CountRecentByRole reports submissions for a role inside a trailing
// window of days, for the admin stats view.
func (s *AssessmentService) CountRecentByRole(roleID string, days int) (int64, error) {
	return s.Repo.CountByRoleSince(roleID, time.Now().AddDate(0, 0, -days))
}

// newAssessmentID builds the externally visible a_-prefixed token.
func newAssessmentID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "a_" + raw[:12]
}

// hashEmail keeps only a SHA-256 digest of the address.
func hashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
