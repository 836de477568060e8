package service

import (
	"fmt"
	"testing"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/pkg/database"
	"ai_readiness_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Shared-cache SQLite trips over table locks under concurrent
	// writers; a single connection serializes them.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestCatalog(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	catalog := NewCatalogService(repository.NewRoleRepository(db), repository.NewQuestionRepository(db), db, nil)
	return catalog, db
}

func newTestAssessment(t *testing.T, catalog *CatalogService, db *gorm.DB) *AssessmentService {
	t.Helper()
	telemetry := NewTelemetryService(repository.NewTelemetryRepository(db))
	return NewAssessmentService(repository.NewAssessmentRepository(db), catalog, NewScoringService(), telemetry, db)
}

func mustCreateQuestion(t *testing.T, catalog *CatalogService, text string, qtype model.QuestionType, pillar model.Pillar) *model.Question {
	t.Helper()
	q, err := catalog.CreateQuestion(CreateQuestionRequest{Text: text, Type: qtype, Pillar: pillar})
	require.NoError(t, err)
	return q
}

func mustAssign(t *testing.T, catalog *CatalogService, roleID, questionID string) {
	t.Helper()
	added, err := catalog.AssignQuestion(roleID, questionID)
	require.NoError(t, err)
	require.True(t, added)
}

func intPtr(v int) *int {
	return &v
}
