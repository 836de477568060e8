package repository

import (
	"ai_readiness_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	DB *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) Create(role *model.Role) error {
	return r.DB.Create(role).Error
}

func (r *RoleRepository) FindByID(id string) (*model.Role, error) {
	var role model.Role
	err := r.DB.First(&role, "id = ?", id).Error
	return &role, err
}

func (r *RoleRepository) FindActiveByID(id string) (*model.Role, error) {
	var role model.Role
	err := r.DB.First(&role, "id = ? AND active = ?", id, true).Error
	return &role, err
}

func (r *RoleRepository) Save(role *model.Role) error {
	return r.DB.Save(role).Error
}

// ListActive returns active roles with their active version preloaded,
// for the public catalog listing.
func (r *RoleRepository) ListActive() ([]model.Role, error) {
	var roles []model.Role
	err := r.DB.
		Preload("Versions", "active = ?", true).
		Where("active = ?", true).
		Order("name asc").
		Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) ListByCategory(category string) ([]model.Role, error) {
	var roles []model.Role
	err := r.DB.
		Preload("Versions", "active = ?", true).
		Where("active = ? AND category = ?", true, category).
		Order("name asc").
		Find(&roles).Error
	return roles, err
}

// LockForVersioning takes a row lock on the role so concurrent
// copy-on-write operations serialize. SQLite (tests) has no FOR UPDATE;
// its transactions are serialized by the driver anyway.
func (r *RoleRepository) LockForVersioning(tx *gorm.DB, roleID string) (*model.Role, error) {
	q := tx.Model(&model.Role{})
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var role model.Role
	err := q.First(&role, "id = ?", roleID).Error
	return &role, err
}

// FindActiveVersion resolves the single active version for a role, with
// its question links (and questions) ordered for display.
func (r *RoleRepository) FindActiveVersion(db *gorm.DB, roleID string) (*model.RoleVersion, error) {
	var version model.RoleVersion
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc")
		}).
		Preload("Questions.Question").
		First(&version, "role_id = ? AND active = ?", roleID, true).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *RoleRepository) FindVersionByNumber(db *gorm.DB, roleID string, versionNumber int) (*model.RoleVersion, error) {
	var version model.RoleVersion
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc")
		}).
		Preload("Questions.Question").
		First(&version, "role_id = ? AND version_number = ?", roleID, versionNumber).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *RoleRepository) ListVersions(roleID string) ([]model.RoleVersion, error) {
	var versions []model.RoleVersion
	err := r.DB.
		Where("role_id = ?", roleID).
		Order("version_number desc").
		Find(&versions).Error
	return versions, err
}
