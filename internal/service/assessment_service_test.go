package service

import (
	"strings"
	"testing"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	roleID    string
	questions map[model.Pillar]string
}

// seedFourPillarRole builds a role with one likert question per pillar.
func seedFourPillarRole(t *testing.T, catalog *CatalogService) catalogFixture {
	t.Helper()
	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Java Developer"})
	require.NoError(t, err)

	questions := make(map[model.Pillar]string, 4)
	for _, pillar := range model.AllPillars() {
		q := mustCreateQuestion(t, catalog, "Question for "+string(pillar), model.QuestionLikert, pillar)
		mustAssign(t, catalog, role.ID, q.ID)
		questions[pillar] = q.ID
	}
	return catalogFixture{roleID: role.ID, questions: questions}
}

func TestCreateAssessmentScoresAndPersists(t *testing.T) {
	catalog, db := newTestCatalog(t)
	svc := newTestAssessment(t, catalog, db)
	fix := seedFourPillarRole(t, catalog)

	resp, err := svc.CreateAssessment(CreateAssessmentRequest{
		RoleID:       fix.roleID,
		HoursPerWeek: 10,
		Email:        "Dev@Example.com",
		Answers: []AnswerRequest{
			{QuestionID: fix.questions[model.PillarTech], Value: intPtr(4)},
			{QuestionID: fix.questions[model.PillarAI], Value: intPtr(3)},
			{QuestionID: fix.questions[model.PillarCommunication], Value: intPtr(5)},
			{QuestionID: fix.questions[model.PillarPortfolio], Value: intPtr(2)},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ID, "a_"))
	assert.Len(t, resp.ID, 14)
	assert.InDelta(t, 70.0, resp.Scores["GLOBAL"], 1e-9)
	assert.Equal(t, []string{
		fix.questions[model.PillarAI],
		fix.questions[model.PillarPortfolio],
	}, resp.Gaps)

	stored, err := svc.GetAssessment(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, fix.roleID, stored.RoleID)
	assert.Equal(t, "en-US", stored.Locale)
	assert.Len(t, stored.Answers, 4)

	// Only the digest of the address is kept.
	assert.NotEmpty(t, stored.EmailHash)
	assert.NotContains(t, strings.ToLower(stored.EmailHash), "example.com")
	assert.Equal(t, hashEmail("dev@example.com"), stored.EmailHash)
}

func TestCreateAssessmentPinsVersion(t *testing.T) {
	catalog, db := newTestCatalog(t)
	svc := newTestAssessment(t, catalog, db)
	fix := seedFourPillarRole(t, catalog)

	resp, err := svc.CreateAssessment(CreateAssessmentRequest{
		RoleID:       fix.roleID,
		HoursPerWeek: 10,
		Answers: []AnswerRequest{
			{QuestionID: fix.questions[model.PillarTech], Value: intPtr(4)},
		},
	})
	require.NoError(t, err)

	stored, err := svc.GetAssessment(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", stored.Version)

	before, err := svc.ScoreAssessment(stored)
	require.NoError(t, err)

	// Catalog moves on; the stored assessment still scores against the
	// version it was answered on.
	extra := mustCreateQuestion(t, catalog, "Late addition", model.QuestionLikert, model.PillarTech)
	mustAssign(t, catalog, fix.roleID, extra.ID)
	removed, err := catalog.RemoveQuestion(fix.roleID, fix.questions[model.PillarTech])
	require.NoError(t, err)
	require.True(t, removed)

	after, err := svc.ScoreAssessment(stored)
	require.NoError(t, err)
	assert.Equal(t, before.ResponseMap(), after.ResponseMap())
	assert.Equal(t, before.Gaps, after.Gaps)
}

func TestCreateAssessmentExplicitVersion(t *testing.T) {
	catalog, db := newTestCatalog(t)
	svc := newTestAssessment(t, catalog, db)
	fix := seedFourPillarRole(t, catalog)

	// Version 2 only has the TECH question.
	resp, err := svc.CreateAssessment(CreateAssessmentRequest{
		RoleID:       fix.roleID,
		Version:      "2",
		HoursPerWeek: 10,
		Answers: []AnswerRequest{
			{QuestionID: fix.questions[model.PillarTech], Value: intPtr(5)},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 35.0, resp.Scores["GLOBAL"], 1e-9)

	_, err = svc.CreateAssessment(CreateAssessmentRequest{
		RoleID:       fix.roleID,
		Version:      "99",
		HoursPerWeek: 10,
		Answers:      []AnswerRequest{},
	})
	assert.ErrorIs(t, err, util.ErrVersionNotFound)
}

func TestCreateAssessmentUnknownRole(t *testing.T) {
	catalog, db := newTestCatalog(t)
	svc := newTestAssessment(t, catalog, db)

	_, err := svc.CreateAssessment(CreateAssessmentRequest{
		RoleID:       "missing",
		HoursPerWeek: 10,
		Answers:      []AnswerRequest{},
	})
	assert.ErrorIs(t, err, util.ErrVersionNotFound)
}

func TestGetAssessmentNotFound(t *testing.T) {
	catalog, db := newTestCatalog(t)
	svc := newTestAssessment(t, catalog, db)

	_, err := svc.GetAssessment("a_000000000000")
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestHashEmailNormalizes(t *testing.T) {
	assert.Equal(t, hashEmail("dev@example.com"), hashEmail("  DEV@Example.COM "))
	assert.NotEqual(t, hashEmail("dev@example.com"), hashEmail("other@example.com"))
	assert.Len(t, hashEmail("dev@example.com"), 64)
}
