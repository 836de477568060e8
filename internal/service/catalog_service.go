package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	activeVersionKeyPrefix = "catalog:active:"
	activeVersionCacheTTL  = 10 * time.Minute

	maxRoleNameLength = 255
)

// CatalogService maintains the append-only version history of question
// sets per role. Mutating a role's question set never edits an existing
// version: a new version is created with fresh links and the active flag
// switches atomically, so assessments that reference an old version keep
// scoring against the exact set they were answered on.
type CatalogService struct {
	RoleRepo     *repository.RoleRepository
	QuestionRepo *repository.QuestionRepository
	DB           *gorm.DB
	Redis        *redis.Client
}

func NewCatalogService(roleRepo *repository.RoleRepository, questionRepo *repository.QuestionRepository, db *gorm.DB, rdb *redis.Client) *CatalogService {
	return &CatalogService{
		RoleRepo:     roleRepo,
		QuestionRepo: questionRepo,
		DB:           db,
		Redis:        rdb,
	}
}

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CreateQuestionRequest struct {
	Text    string             `json:"text" binding:"required"`
	Type    model.QuestionType `json:"type" binding:"required"`
	Pillar  model.Pillar       `json:"pillar" binding:"required"`
	Options json.RawMessage    `json:"options,omitempty"`
	Context string             `json:"context,omitempty"`
}

// RoleDto is the public catalog listing entry: the role plus its
// currently published version number.
type RoleDto struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// QuestionDto is one question as served to assessment takers, carrying
// the link's weight and order from the resolved version.
type QuestionDto struct {
	ID      string             `json:"id"`
	Text    string             `json:"text"`
	Type    model.QuestionType `json:"type"`
	Pillar  model.Pillar       `json:"pillar"`
	Weight  float64            `json:"weight"`
	Help    string             `json:"help,omitempty"`
	Order   int                `json:"order"`
	Options json.RawMessage    `json:"options,omitempty"`
}

// === ROLE MANAGEMENT ===

func (s *CatalogService) CreateRole(req CreateRoleRequest) (*model.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name must not be blank", util.ErrValidation)
	}
	if len(name) > maxRoleNameLength {
		return nil, fmt.Errorf("%w: role name exceeds %d characters", util.ErrValidation, maxRoleNameLength)
	}

	role := &model.Role{
		Name:        name,
		Description: req.Description,
		Category:    req.Category,
		Active:      true,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		// Every role starts at version 1, active, empty question set.
		version := &model.RoleVersion{
			RoleID:        role.ID,
			VersionNumber: 1,
			Active:        true,
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (s *CatalogService) UpdateRole(id string, req UpdateRoleRequest) (*model.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name must not be blank", util.ErrValidation)
	}
	if len(name) > maxRoleNameLength {
		return nil, fmt.Errorf("%w: role name exceeds %d characters", util.ErrValidation, maxRoleNameLength)
	}

	role, err := s.RoleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoleNotFound
		}
		return nil, err
	}

	// Metadata only. Versions are untouched by role edits.
	role.Name = name
	role.Description = req.Description
	role.Category = req.Category
	if err := s.RoleRepo.Save(role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole soft-deletes: versions and their assessments stay queryable
// for historical scoring.
func (s *CatalogService) DeleteRole(id string) (bool, error) {
	role, err := s.RoleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	role.Active = false
	if err := s.RoleRepo.Save(role); err != nil {
		return false, err
	}
	s.invalidateActiveVersion(id)
	return true, nil
}

func (s *CatalogService) GetRole(id string) (*model.Role, error) {
	role, err := s.RoleRepo.FindActiveByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

// ListRoles returns active roles with their published version, for the
// public catalog. An empty category lists everything.
func (s *CatalogService) ListRoles(category string) ([]RoleDto, error) {
	var (
		roles []model.Role
		err   error
	)
	if category != "" {
		roles, err = s.RoleRepo.ListByCategory(category)
	} else {
		roles, err = s.RoleRepo.ListActive()
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]RoleDto, 0, len(roles))
	for _, role := range roles {
		version := "1"
		if len(role.Versions) > 0 {
			version = strconv.Itoa(role.Versions[0].VersionNumber)
		}
		dtos = append(dtos, RoleDto{
			ID:          role.ID,
			Name:        role.Name,
			Version:     version,
			Description: role.Description,
		})
	}
	return dtos, nil
}

// === QUESTION MANAGEMENT ===

func (s *CatalogService) CreateQuestion(req CreateQuestionRequest) (*model.Question, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: question text must not be blank", util.ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown question type %q", util.ErrValidation, req.Type)
	}
	if !req.Pillar.Valid() {
		return nil, fmt.Errorf("%w: unknown pillar %q", util.ErrValidation, req.Pillar)
	}

	question := &model.Question{
		Text:    req.Text,
		Type:    req.Type,
		Pillar:  req.Pillar,
		Options: req.Options,
		Context: req.Context,
		Active:  true,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *CatalogService) UpdateQuestion(id string, req CreateQuestionRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown question type %q", util.ErrValidation, req.Type)
	}
	if !req.Pillar.Valid() {
		return nil, fmt.Errorf("%w: unknown pillar %q", util.ErrValidation, req.Pillar)
	}

	question.Text = req.Text
	question.Type = req.Type
	question.Pillar = req.Pillar
	question.Options = req.Options
	question.Context = req.Context
	if err := s.QuestionRepo.Save(question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion soft-deletes so historical versions keep referential
// integrity.
func (s *CatalogService) DeleteQuestion(id string) (bool, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	question.Active = false
	if err := s.QuestionRepo.Save(question); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CatalogService) ListQuestions(page, limit int) ([]model.Question, int64, error) {
	return s.QuestionRepo.ListActive(page, limit)
}

// === VERSIONED QUESTION-SET MUTATIONS (copy-on-write) ===

// AssignQuestion adds a question to a role's question set by creating a
// new version: a deep copy of the current active version's links plus
// the new link (weight 1.0, appended last). Returns false when the
// question is already present or role/question cannot be found.
func (s *CatalogService) AssignQuestion(roleID, questionID string) (bool, error) {
	assigned := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.RoleRepo.LockForVersioning(tx, roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.First(&model.Question{}, "id = ? AND active = ?", questionID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		current, err := s.RoleRepo.FindActiveVersion(tx, roleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		maxOrder := 0
		for _, rq := range current.Questions {
			if rq.QuestionID == questionID {
				return nil // already present, no new version
			}
			if rq.Order > maxOrder {
				maxOrder = rq.Order
			}
		}

		if _, err := s.copyVersion(tx, current, func(links []model.RoleQuestion) []model.RoleQuestion {
			return append(links, model.RoleQuestion{
				QuestionID: questionID,
				Weight:     1.0,
				Order:      maxOrder + 1,
			})
		}); err != nil {
			return err
		}
		assigned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if assigned {
		s.invalidateActiveVersion(roleID)
	}
	return assigned, nil
}

// RemoveQuestion creates a new version without the given question.
// Deliberately succeeds and still bumps the version when the question
// was not present, producing a vacuous copy of the current version; see
// DESIGN.md before changing this.
func (s *CatalogService) RemoveQuestion(roleID, questionID string) (bool, error) {
	removed := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.RoleRepo.LockForVersioning(tx, roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		current, err := s.RoleRepo.FindActiveVersion(tx, roleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if _, err := s.copyVersion(tx, current, func(links []model.RoleQuestion) []model.RoleQuestion {
			kept := make([]model.RoleQuestion, 0, len(links))
			for _, link := range links {
				if link.QuestionID != questionID {
					kept = append(kept, link)
				}
			}
			return kept
		}); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.invalidateActiveVersion(roleID)
	}
	return removed, nil
}

// copyVersion deactivates the current version and creates its successor
// with the transformed link set. Links are fresh rows: the old version's
// rows are never reused or mutated.
func (s *CatalogService) copyVersion(tx *gorm.DB, current *model.RoleVersion, transform func([]model.RoleQuestion) []model.RoleQuestion) (*model.RoleVersion, error) {
	if err := tx.Model(&model.RoleVersion{}).
		Where("id = ?", current.ID).
		Update("active", false).Error; err != nil {
		return nil, err
	}

	// Number from the history's maximum, not from the active version:
	// after a rollback the active version is not the newest one.
	var maxNumber int
	if err := tx.Model(&model.RoleVersion{}).
		Where("role_id = ?", current.RoleID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return nil, err
	}

	newVersion := &model.RoleVersion{
		RoleID:        current.RoleID,
		VersionNumber: maxNumber + 1,
		Active:        true,
	}
	if err := tx.Create(newVersion).Error; err != nil {
		return nil, err
	}

	copies := make([]model.RoleQuestion, 0, len(current.Questions))
	for _, rq := range current.Questions {
		copies = append(copies, model.RoleQuestion{
			QuestionID: rq.QuestionID,
			Weight:     rq.Weight,
			Order:      rq.Order,
		})
	}
	links := transform(copies)
	for i := range links {
		links[i].RoleVersionID = newVersion.ID
	}
	if len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return nil, err
		}
	}
	return newVersion, nil
}

// === VERSION MANAGEMENT ===

// ActivateVersion is the explicit rollback/roll-forward: whatever is
// active gets deactivated and the requested version takes its place.
// Returns false when the version does not exist for the role.
func (s *CatalogService) ActivateVersion(roleID string, versionNumber int) (bool, error) {
	activated := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.RoleRepo.LockForVersioning(tx, roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var target model.RoleVersion
		if err := tx.First(&target, "role_id = ? AND version_number = ?", roleID, versionNumber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&model.RoleVersion{}).
			Where("role_id = ? AND active = ?", roleID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.RoleVersion{}).
			Where("id = ?", target.ID).
			Update("active", true).Error; err != nil {
			return err
		}
		activated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if activated {
		s.invalidateActiveVersion(roleID)
	}
	return activated, nil
}

func (s *CatalogService) GetActiveVersion(roleID string) (*model.RoleVersion, error) {
	version, err := s.RoleRepo.FindActiveVersion(s.DB, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return version, nil
}

func (s *CatalogService) GetVersionHistory(roleID string) ([]model.RoleVersion, error) {
	return s.RoleRepo.ListVersions(roleID)
}

// ResolveVersion maps an optional version identifier to a concrete
// version: empty resolves to the published/active one, anything else is
// an exact version-number match. No nearest-version fallback.
func (s *CatalogService) ResolveVersion(roleID, versionIdentifier string) (*model.RoleVersion, error) {
	if versionIdentifier == "" {
		if cached := s.cachedActiveVersion(roleID); cached != nil {
			return cached, nil
		}
		version, err := s.RoleRepo.FindActiveVersion(s.DB, roleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrVersionNotFound
			}
			return nil, err
		}
		s.cacheActiveVersion(roleID, version)
		return version, nil
	}

	number, err := strconv.Atoi(versionIdentifier)
	if err != nil {
		return nil, util.ErrVersionNotFound
	}
	version, err := s.RoleRepo.FindVersionByNumber(s.DB, roleID, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVersionNotFound
		}
		return nil, err
	}
	return version, nil
}

// GetQuestionsForRole serves the question list for assessment takers,
// ordered for display.
func (s *CatalogService) GetQuestionsForRole(roleID, versionIdentifier string) ([]QuestionDto, error) {
	version, err := s.ResolveVersion(roleID, versionIdentifier)
	if err != nil {
		return nil, err
	}

	dtos := make([]QuestionDto, 0, len(version.Questions))
	for _, rq := range version.Questions {
		if rq.Question == nil {
			continue
		}
		dtos = append(dtos, QuestionDto{
			ID:      rq.QuestionID,
			Text:    rq.Question.Text,
			Type:    rq.Question.Type,
			Pillar:  rq.Question.Pillar,
			Weight:  rq.Weight,
			Help:    rq.Question.Context,
			Order:   rq.Order,
			Options: rq.Question.Options,
		})
	}
	return dtos, nil
}

// === ACTIVE-VERSION CACHE ===

func (s *CatalogService) cachedActiveVersion(roleID string) *model.RoleVersion {
	if s.Redis == nil {
		return nil
	}
	val, err := s.Redis.Get(context.Background(), activeVersionKeyPrefix+roleID).Result()
	if err != nil {
		return nil
	}
	var version model.RoleVersion
	if err := json.Unmarshal([]byte(val), &version); err != nil {
		return nil
	}
	return &version
}

func (s *CatalogService) cacheActiveVersion(roleID string, version *model.RoleVersion) {
	if s.Redis == nil || version == nil {
		return
	}
	data, err := json.Marshal(version)
	if err != nil {
		return
	}
	s.Redis.Set(context.Background(), activeVersionKeyPrefix+roleID, data, activeVersionCacheTTL)
}

func (s *CatalogService) invalidateActiveVersion(roleID string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), activeVersionKeyPrefix+roleID)
}
