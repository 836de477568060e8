package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countActiveVersions(t *testing.T, catalog *CatalogService, roleID string) int {
	t.Helper()
	var count int64
	require.NoError(t, catalog.DB.Model(&model.RoleVersion{}).
		Where("role_id = ? AND active = ?", roleID, true).
		Count(&count).Error)
	return int(count)
}

func TestCreateRoleStartsAtVersionOne(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	require.NotEmpty(t, role.ID)

	version, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, 1, version.VersionNumber)
	assert.Empty(t, version.Questions)
	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))
}

func TestCreateRoleValidation(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	_, err := catalog.CreateRole(CreateRoleRequest{Name: "   "})
	assert.ErrorIs(t, err, util.ErrValidation)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	_, err = catalog.CreateRole(CreateRoleRequest{Name: string(long)})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestListRolesFilterByCategory(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	_, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer", Category: "engineering"})
	require.NoError(t, err)
	_, err = catalog.CreateRole(CreateRoleRequest{Name: "Product Designer", Category: "design"})
	require.NoError(t, err)

	all, err := catalog.ListRoles("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	engineering, err := catalog.ListRoles("engineering")
	require.NoError(t, err)
	require.Len(t, engineering, 1)
	assert.Equal(t, "Backend Developer", engineering[0].Name)
	assert.Equal(t, "1", engineering[0].Version)
}

func TestAssignQuestionCreatesNewVersion(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q := mustCreateQuestion(t, catalog, "How confident are you?", model.QuestionLikert, model.PillarTech)

	mustAssign(t, catalog, role.ID, q.ID)

	version, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, version.VersionNumber)
	require.Len(t, version.Questions, 1)
	assert.Equal(t, q.ID, version.Questions[0].QuestionID)
	assert.Equal(t, 1.0, version.Questions[0].Weight)
	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))
}

func TestAssignQuestionAlreadyPresentIsNoOp(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q := mustCreateQuestion(t, catalog, "How confident are you?", model.QuestionLikert, model.PillarTech)
	mustAssign(t, catalog, role.ID, q.ID)

	added, err := catalog.AssignQuestion(role.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, added)

	version, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, version.VersionNumber)
}

func TestAssignQuestionUnknownRoleOrQuestion(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)

	added, err := catalog.AssignQuestion("missing-role", "missing-question")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = catalog.AssignQuestion(role.ID, "missing-question")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestOldVersionsAreImmutable(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q1 := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	q2 := mustCreateQuestion(t, catalog, "Q2", model.QuestionLikert, model.PillarAI)

	mustAssign(t, catalog, role.ID, q1.ID) // v2: {q1}
	mustAssign(t, catalog, role.ID, q2.ID) // v3: {q1, q2}

	removed, err := catalog.RemoveQuestion(role.ID, q1.ID) // v4: {q2}
	require.NoError(t, err)
	assert.True(t, removed)

	// Earlier versions keep the exact sets they were created with.
	v2, err := catalog.ResolveVersion(role.ID, "2")
	require.NoError(t, err)
	require.Len(t, v2.Questions, 1)
	assert.Equal(t, q1.ID, v2.Questions[0].QuestionID)

	v3, err := catalog.ResolveVersion(role.ID, "3")
	require.NoError(t, err)
	require.Len(t, v3.Questions, 2)

	v4, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, v4.VersionNumber)
	require.Len(t, v4.Questions, 1)
	assert.Equal(t, q2.ID, v4.Questions[0].QuestionID)
}

func TestRemoveQuestionNotPresentStillBumpsVersion(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	mustAssign(t, catalog, role.ID, q.ID) // v2: {q}

	removed, err := catalog.RemoveQuestion(role.ID, "never-assigned")
	require.NoError(t, err)
	assert.True(t, removed)

	// The copy is vacuous: same question set, new version number.
	version, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, version.VersionNumber)
	require.Len(t, version.Questions, 1)
	assert.Equal(t, q.ID, version.Questions[0].QuestionID)
}

func TestExactlyOneActiveVersionAfterMutations(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q1 := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	q2 := mustCreateQuestion(t, catalog, "Q2", model.QuestionLikert, model.PillarAI)

	mustAssign(t, catalog, role.ID, q1.ID)
	mustAssign(t, catalog, role.ID, q2.ID)
	_, err = catalog.RemoveQuestion(role.ID, q1.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))

	activated, err := catalog.ActivateVersion(role.ID, 2)
	require.NoError(t, err)
	assert.True(t, activated)
	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))

	version, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, version.VersionNumber)
}

func TestConcurrentMutationsKeepInvariants(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)

	questions := make([]*model.Question, 6)
	for i := range questions {
		questions[i] = mustCreateQuestion(t, catalog, fmt.Sprintf("Q%d", i), model.QuestionLikert, model.PillarTech)
	}

	var wg sync.WaitGroup
	for _, q := range questions {
		wg.Add(1)
		go func(questionID string) {
			defer wg.Done()
			if _, err := catalog.AssignQuestion(role.ID, questionID); err != nil {
				t.Error(err)
				return
			}
			if _, err := catalog.RemoveQuestion(role.ID, questionID); err != nil {
				t.Error(err)
			}
		}(q.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := catalog.ActivateVersion(role.ID, 1); err != nil {
			t.Error(err)
		}
	}()
	wg.Wait()

	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))

	// 6 assigns and 6 removes each bumped once, on top of version 1;
	// numbers stay contiguous and gap-free.
	versions, err := catalog.GetVersionHistory(role.ID)
	require.NoError(t, err)
	require.Len(t, versions, 13)

	numbers := make([]int, 0, len(versions))
	for _, v := range versions {
		numbers = append(numbers, v.VersionNumber)
	}
	sort.Ints(numbers)
	for i, n := range numbers {
		assert.Equal(t, i+1, n)
	}
}

func TestMutationAfterRollbackContinuesNumbering(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q1 := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	q2 := mustCreateQuestion(t, catalog, "Q2", model.QuestionLikert, model.PillarAI)
	q3 := mustCreateQuestion(t, catalog, "Q3", model.QuestionLikert, model.PillarPortfolio)

	mustAssign(t, catalog, role.ID, q1.ID) // v2
	mustAssign(t, catalog, role.ID, q2.ID) // v3

	activated, err := catalog.ActivateVersion(role.ID, 2)
	require.NoError(t, err)
	require.True(t, activated)

	// Mutating the rolled-back catalog must not reuse version number 3.
	mustAssign(t, catalog, role.ID, q3.ID)

	version, err := catalog.GetActiveVersion(role.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, version.VersionNumber)
	require.Len(t, version.Questions, 2) // q1 from v2, plus q3

	seen := make(map[int]bool)
	versions, err := catalog.GetVersionHistory(role.ID)
	require.NoError(t, err)
	for _, v := range versions {
		assert.False(t, seen[v.VersionNumber], "duplicate version number %d", v.VersionNumber)
		seen[v.VersionNumber] = true
	}
	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))
}

func TestActivateVersionUnknownNumber(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)

	activated, err := catalog.ActivateVersion(role.ID, 42)
	require.NoError(t, err)
	assert.False(t, activated)
	assert.Equal(t, 1, countActiveVersions(t, catalog, role.ID))
}

func TestResolveVersion(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	mustAssign(t, catalog, role.ID, q.ID)

	// Empty identifier resolves to the active version.
	active, err := catalog.ResolveVersion(role.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, active.VersionNumber)

	// Explicit number is an exact match, no nearest fallback.
	v1, err := catalog.ResolveVersion(role.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, v1.VersionNumber)

	_, err = catalog.ResolveVersion(role.ID, "99")
	assert.True(t, errors.Is(err, util.ErrVersionNotFound))

	_, err = catalog.ResolveVersion(role.ID, "not-a-number")
	assert.True(t, errors.Is(err, util.ErrVersionNotFound))
}

func TestVersionHistoryDescending(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	mustAssign(t, catalog, role.ID, q.ID)

	history, err := catalog.GetVersionHistory(role.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].VersionNumber)
	assert.Equal(t, 1, history[1].VersionNumber)
	assert.True(t, history[0].Active)
	assert.False(t, history[1].Active)
}

func TestDeleteRoleIsSoft(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)

	deleted, err := catalog.DeleteRole(role.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = catalog.GetRole(role.ID)
	assert.ErrorIs(t, err, util.ErrRoleNotFound)

	// History survives for assessments pinned to old versions.
	v1, err := catalog.ResolveVersion(role.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, v1.VersionNumber)
}

func TestGetQuestionsForRoleOrdering(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	role, err := catalog.CreateRole(CreateRoleRequest{Name: "Backend Developer"})
	require.NoError(t, err)
	q1 := mustCreateQuestion(t, catalog, "Q1", model.QuestionLikert, model.PillarTech)
	q2 := mustCreateQuestion(t, catalog, "Q2", model.QuestionLikert, model.PillarAI)
	mustAssign(t, catalog, role.ID, q1.ID)
	mustAssign(t, catalog, role.ID, q2.ID)

	questions, err := catalog.GetQuestionsForRole(role.ID, "")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, q1.ID, questions[0].ID)
	assert.Equal(t, 1, questions[0].Order)
	assert.Equal(t, q2.ID, questions[1].ID)
	assert.Equal(t, 2, questions[1].Order)
}

func TestCreateQuestionValidation(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	_, err := catalog.CreateQuestion(CreateQuestionRequest{Text: "", Type: model.QuestionLikert, Pillar: model.PillarTech})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = catalog.CreateQuestion(CreateQuestionRequest{Text: "Q", Type: "ESSAY", Pillar: model.PillarTech})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = catalog.CreateQuestion(CreateQuestionRequest{Text: "Q", Type: model.QuestionLikert, Pillar: "SOFT_SKILLS"})
	assert.ErrorIs(t, err, util.ErrValidation)
}
