package service

import (
	"fmt"
	"strings"

	"ai_readiness_backend/internal/model"
)

const maxPlanPriorities = 5

// PlanTask is a single actionable item inside a milestone window.
type PlanTask struct {
	Title       string `json:"title"`
	Outcome     string `json:"outcome"`
	ResourceURL string `json:"resourceUrl,omitempty"`
}

// PlanMilestones splits a priority into 30/60/90-day windows.
type PlanMilestones struct {
	D30 []PlanTask `json:"d30"`
	D60 []PlanTask `json:"d60"`
	D90 []PlanTask `json:"d90"`
}

type PlanPriority struct {
	Name       string         `json:"name"`
	Reason     string         `json:"reason"`
	Milestones PlanMilestones `json:"milestones"`
	Evidence   []string       `json:"evidence,omitempty"`
}

// PlanDto is the generated improvement plan, serialized as-is for
// storage and API responses.
type PlanDto struct {
	Summary      string         `json:"summary"`
	HoursPerWeek int            `json:"hoursPerWeek"`
	Priorities   []PlanPriority `json:"priorities"`
}

// PlanGenerator is the pluggable plan provider. Implementations map
// scores and gaps to a prioritized 30/60/90-day plan; the selected
// implementation comes from configuration.
type PlanGenerator interface {
	GeneratePlan(roleID string, scores map[model.Pillar]float64, gaps []string, hoursPerWeek int, locale string) (*PlanDto, error)
	ValidatePlan(plan *PlanDto) bool
}

// TemplatePlanGenerator is the deterministic, rule-based provider: one
// priority per pillar scoring below the gap threshold, built from
// locale-appropriate static milestone templates.
type TemplatePlanGenerator struct{}

func NewTemplatePlanGenerator() *TemplatePlanGenerator {
	return &TemplatePlanGenerator{}
}

func (g *TemplatePlanGenerator) GeneratePlan(roleID string, scores map[model.Pillar]float64, gaps []string, hoursPerWeek int, locale string) (*PlanDto, error) {
	spanish := strings.HasPrefix(locale, "es")

	priorities := make([]PlanPriority, 0, maxPlanPriorities)
	for _, pillar := range model.AllPillars() {
		if score, ok := scores[pillar]; ok && score < gapThresholdPillar {
			priorities = append(priorities, pillarPriority(pillar, roleID, spanish))
		}
	}

	// Nothing below threshold: emit exactly one generic priority.
	if len(priorities) == 0 {
		priorities = append(priorities, continuousImprovementPriority(spanish))
	}

	// Hard cap; excess is truncated in emit order, not by severity.
	if len(priorities) > maxPlanPriorities {
		priorities = priorities[:maxPlanPriorities]
	}

	var summary string
	if spanish {
		summary = fmt.Sprintf("Plan personalizado para %s con %d prioridades principales, optimizado para %d horas/semana",
			roleID, len(priorities), hoursPerWeek)
	} else {
		summary = fmt.Sprintf("Personalized plan for %s with %d main priorities, optimized for %d hours/week",
			roleID, len(priorities), hoursPerWeek)
	}

	return &PlanDto{
		Summary:      summary,
		HoursPerWeek: hoursPerWeek,
		Priorities:   priorities,
	}, nil
}

// ValidatePlan rejects empty plans, oversized plans, and priorities
// missing a name or a first-milestone list.
func (g *TemplatePlanGenerator) ValidatePlan(plan *PlanDto) bool {
	return validatePlan(plan)
}

func validatePlan(plan *PlanDto) bool {
	if plan == nil {
		return false
	}
	if len(plan.Priorities) == 0 || len(plan.Priorities) > maxPlanPriorities {
		return false
	}
	for _, p := range plan.Priorities {
		if strings.TrimSpace(p.Name) == "" {
			return false
		}
		if len(p.Milestones.D30) == 0 {
			return false
		}
	}
	return true
}

type priorityTemplate struct {
	name     string
	reason   string
	d30      PlanTask
	d60      PlanTask
	d90      PlanTask
	evidence []string
}

func (t priorityTemplate) build() PlanPriority {
	return PlanPriority{
		Name:   t.name,
		Reason: t.reason,
		Milestones: PlanMilestones{
			D30: []PlanTask{t.d30},
			D60: []PlanTask{t.d60},
			D90: []PlanTask{t.d90},
		},
		Evidence: t.evidence,
	}
}

func pillarPriority(pillar model.Pillar, roleID string, spanish bool) PlanPriority {
	switch pillar {
	case model.PillarTech:
		return techPriority(roleID, spanish)
	case model.PillarAI:
		return aiPriority(spanish)
	case model.PillarCommunication:
		return communicationPriority(spanish)
	default:
		return portfolioPriority(spanish)
	}
}

func techPriority(roleID string, spanish bool) PlanPriority {
	backend := strings.Contains(roleID, "backend") || strings.Contains(roleID, "java")
	if spanish {
		t := priorityTemplate{
			name:   "Actualizar habilidades técnicas",
			reason: "Brechas técnicas generales identificadas",
			d30:    PlanTask{Title: "Repasar los fundamentos de tu stack principal", Outcome: "Proyecto personal actualizado"},
			d60:    PlanTask{Title: "Implementar autenticación y pruebas automatizadas", Outcome: "API REST completa con tests"},
			d90:    PlanTask{Title: "Diseñar un servicio con comunicación asíncrona", Outcome: "Arquitectura de servicios funcional", ResourceURL: "https://microservices.io/patterns/"},
			evidence: []string{"Repositorio GitHub actualizado", "Tests automatizados", "Documentación técnica"},
		}
		if backend {
			t.name = "Fortalecer habilidades técnicas backend"
			t.reason = "Brechas identificadas en frameworks backend y arquitecturas"
		}
		return t.build()
	}
	t := priorityTemplate{
		name:   "Update technical skills",
		reason: "General technical gaps identified",
		d30:    PlanTask{Title: "Review the fundamentals of your main stack", Outcome: "Updated personal project"},
		d60:    PlanTask{Title: "Implement authentication and automated tests", Outcome: "Complete REST API with tests"},
		d90:    PlanTask{Title: "Design a service with asynchronous communication", Outcome: "Working service architecture", ResourceURL: "https://microservices.io/patterns/"},
		evidence: []string{"Updated GitHub repository", "Automated tests", "Technical documentation"},
	}
	if backend {
		t.name = "Strengthen backend technical skills"
		t.reason = "Gaps identified in backend frameworks and architectures"
	}
	return t.build()
}

func aiPriority(spanish bool) PlanPriority {
	if spanish {
		return priorityTemplate{
			name:   "Integrar IA en el desarrollo diario",
			reason: "Bajo uso de herramientas de IA para programación",
			d30:    PlanTask{Title: "Dominar asistentes de código para el trabajo diario", Outcome: "Workflow optimizado con IA"},
			d60:    PlanTask{Title: "Integrar una API de modelos en un proyecto propio", Outcome: "Aplicación con capacidades de IA"},
			d90:    PlanTask{Title: "Implementar RAG sobre documentación propia", Outcome: "Sistema de Q&A inteligente"},
			evidence: []string{"Métricas de productividad mejoradas", "Proyecto con IA funcional"},
		}.build()
	}
	return priorityTemplate{
		name:   "Integrate AI in daily development",
		reason: "Low usage of AI tools for programming",
		d30:    PlanTask{Title: "Master code assistants for daily work", Outcome: "Optimized AI workflow"},
		d60:    PlanTask{Title: "Integrate a model API into a personal project", Outcome: "Application with AI capabilities"},
		d90:    PlanTask{Title: "Implement RAG over your own documentation", Outcome: "Intelligent Q&A system"},
		evidence: []string{"Improved productivity metrics", "Working AI project"},
	}.build()
}

func communicationPriority(spanish bool) PlanPriority {
	if spanish {
		return priorityTemplate{
			name:   "Mejorar comunicación técnica",
			reason: "Brechas en documentación y presentaciones",
			d30:    PlanTask{Title: "Documentar un proyecto existente de punta a punta", Outcome: "README y docs de arquitectura"},
			d60:    PlanTask{Title: "Presentar una decisión técnica al equipo", Outcome: "Presentación grabada o RFC"},
			d90:    PlanTask{Title: "Publicar un artículo técnico", Outcome: "Post publicado"},
		}.build()
	}
	return priorityTemplate{
		name:   "Improve technical communication",
		reason: "Gaps in documentation and presentations",
		d30:    PlanTask{Title: "Document an existing project end to end", Outcome: "README and architecture docs"},
		d60:    PlanTask{Title: "Present a technical decision to your team", Outcome: "Recorded talk or RFC"},
		d90:    PlanTask{Title: "Publish a technical article", Outcome: "Published post"},
	}.build()
}

func portfolioPriority(spanish bool) PlanPriority {
	if spanish {
		return priorityTemplate{
			name:   "Fortalecer portafolio profesional",
			reason: "Portafolio y proyectos necesitan mejoras",
			d30:    PlanTask{Title: "Auditar y limpiar tus repositorios públicos", Outcome: "Perfil de GitHub curado"},
			d60:    PlanTask{Title: "Terminar y desplegar un proyecto destacado", Outcome: "Demo en producción"},
			d90:    PlanTask{Title: "Añadir casos de estudio con resultados medibles", Outcome: "Portafolio con métricas"},
		}.build()
	}
	return priorityTemplate{
		name:   "Strengthen professional portfolio",
		reason: "Portfolio and projects need improvements",
		d30:    PlanTask{Title: "Audit and clean up your public repositories", Outcome: "Curated GitHub profile"},
		d60:    PlanTask{Title: "Finish and deploy a flagship project", Outcome: "Production demo"},
		d90:    PlanTask{Title: "Add case studies with measurable outcomes", Outcome: "Portfolio with metrics"},
	}.build()
}

func continuousImprovementPriority(spanish bool) PlanPriority {
	if spanish {
		return priorityTemplate{
			name:   "Optimización continua",
			reason: "Plan de mejora general para mantener competitividad",
			d30:    PlanTask{Title: "Elegir un área de profundización y fijar objetivos", Outcome: "Objetivos trimestrales definidos"},
			d60:    PlanTask{Title: "Completar un proyecto corto en esa área", Outcome: "Proyecto terminado"},
			d90:    PlanTask{Title: "Compartir lo aprendido con tu equipo", Outcome: "Charla o documento interno"},
		}.build()
	}
	return priorityTemplate{
		name:   "Continuous optimization",
		reason: "General improvement plan to stay competitive",
		d30:    PlanTask{Title: "Pick a deepening area and set goals", Outcome: "Quarterly goals defined"},
		d60:    PlanTask{Title: "Complete a short project in that area", Outcome: "Finished project"},
		d90:    PlanTask{Title: "Share what you learned with your team", Outcome: "Talk or internal doc"},
	}.build()
}
