package service

import (
	"strings"
	"testing"

	"ai_readiness_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateGeneratorOnePriorityPerGapPillar(t *testing.T) {
	gen := NewTemplatePlanGenerator()

	scores := map[model.Pillar]float64{
		model.PillarTech:          80,
		model.PillarAI:            60,
		model.PillarCommunication: 100,
		model.PillarPortfolio:     40,
	}

	plan, err := gen.GeneratePlan("backend-java", scores, []string{"q-ai", "q-port"}, 10, "en-US")
	require.NoError(t, err)

	require.Len(t, plan.Priorities, 2)
	assert.Equal(t, 10, plan.HoursPerWeek)
	assert.True(t, gen.ValidatePlan(plan))

	// Priorities follow the canonical pillar order.
	assert.Contains(t, plan.Priorities[0].Name, "AI")
	assert.Contains(t, plan.Priorities[1].Name, "portfolio")
}

func TestTemplateGeneratorAllPillarsBelowThreshold(t *testing.T) {
	gen := NewTemplatePlanGenerator()

	scores := map[model.Pillar]float64{
		model.PillarTech:          10,
		model.PillarAI:            20,
		model.PillarCommunication: 30,
		model.PillarPortfolio:     40,
	}

	plan, err := gen.GeneratePlan("backend-java", scores, nil, 5, "en-US")
	require.NoError(t, err)
	require.Len(t, plan.Priorities, 4)
	assert.True(t, gen.ValidatePlan(plan))

	for _, p := range plan.Priorities {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Milestones.D30)
		assert.NotEmpty(t, p.Milestones.D60)
		assert.NotEmpty(t, p.Milestones.D90)
	}
}

func TestTemplateGeneratorNoGapsFallsBack(t *testing.T) {
	gen := NewTemplatePlanGenerator()

	scores := map[model.Pillar]float64{
		model.PillarTech:          90,
		model.PillarAI:            85,
		model.PillarCommunication: 95,
		model.PillarPortfolio:     80,
	}

	plan, err := gen.GeneratePlan("backend-java", scores, nil, 8, "en-US")
	require.NoError(t, err)
	require.Len(t, plan.Priorities, 1)
	assert.Contains(t, plan.Priorities[0].Name, "Continuous")
	assert.True(t, gen.ValidatePlan(plan))
}

func TestTemplateGeneratorBackendRoleDetection(t *testing.T) {
	gen := NewTemplatePlanGenerator()

	scores := map[model.Pillar]float64{model.PillarTech: 30}

	plan, err := gen.GeneratePlan("backend-java", scores, nil, 10, "en-US")
	require.NoError(t, err)
	require.Len(t, plan.Priorities, 1)
	assert.Contains(t, plan.Priorities[0].Name, "backend")

	plan, err = gen.GeneratePlan("designer", scores, nil, 10, "en-US")
	require.NoError(t, err)
	assert.NotContains(t, plan.Priorities[0].Name, "backend")
}

func TestTemplateGeneratorSpanishLocale(t *testing.T) {
	gen := NewTemplatePlanGenerator()

	scores := map[model.Pillar]float64{model.PillarAI: 50}

	plan, err := gen.GeneratePlan("backend-java", scores, nil, 10, "es-ES")
	require.NoError(t, err)
	assert.True(t, strings.Contains(plan.Summary, "Plan personalizado"))
	require.Len(t, plan.Priorities, 1)
	assert.Contains(t, plan.Priorities[0].Name, "IA")
}

func TestValidatePlan(t *testing.T) {
	valid := func() *PlanDto {
		return &PlanDto{
			Summary:      "ok",
			HoursPerWeek: 10,
			Priorities: []PlanPriority{{
				Name:       "P1",
				Milestones: PlanMilestones{D30: []PlanTask{{Title: "task"}}},
			}},
		}
	}

	cases := []struct {
		name   string
		mutate func(*PlanDto) *PlanDto
		want   bool
	}{
		{"valid single priority", func(p *PlanDto) *PlanDto { return p }, true},
		{"nil plan", func(p *PlanDto) *PlanDto { return nil }, false},
		{"no priorities", func(p *PlanDto) *PlanDto { p.Priorities = nil; return p }, false},
		{"too many priorities", func(p *PlanDto) *PlanDto {
			for len(p.Priorities) < 6 {
				p.Priorities = append(p.Priorities, p.Priorities[0])
			}
			return p
		}, false},
		{"five priorities is the cap", func(p *PlanDto) *PlanDto {
			for len(p.Priorities) < 5 {
				p.Priorities = append(p.Priorities, p.Priorities[0])
			}
			return p
		}, true},
		{"blank name", func(p *PlanDto) *PlanDto { p.Priorities[0].Name = "  "; return p }, false},
		{"empty d30", func(p *PlanDto) *PlanDto { p.Priorities[0].Milestones.D30 = nil; return p }, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, validatePlan(c.mutate(valid())))
		})
	}
}
