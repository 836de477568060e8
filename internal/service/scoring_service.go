package service

import (
	"math"

	"ai_readiness_backend/internal/model"
)

const (
	gapThresholdPillar   = 70.0
	gapThresholdQuestion = 3
)

// ScoringService converts raw answers plus a weighted question set into
// pillar scores, a global score and a gap list. It is pure: no
// persistence, no side effects, total over well-formed input.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// AssessmentScores is the scoring result. PillarScores holds unrounded
// values on the 0-100 scale, keyed by the pillars present in the
// question set. Gaps lists question ids in question order.
type AssessmentScores struct {
	PillarScores map[model.Pillar]float64
	GlobalScore  float64
	Gaps         []string
}

// ResponseMap renders scores for the API: pillar keys plus a GLOBAL
// entry, rounded to 2 decimals. Gap thresholds always compare the
// unrounded values.
func (s AssessmentScores) ResponseMap() map[string]float64 {
	result := make(map[string]float64, len(s.PillarScores)+1)
	for pillar, score := range s.PillarScores {
		result[string(pillar)] = round2(score)
	}
	result["GLOBAL"] = round2(s.GlobalScore)
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateScores runs the full scoring pass.
//
// Per question type: LIKERT scores min(value,5)/5, MULTIPLE is binary on
// value > 0, TEXT never scores. Unanswered questions contribute no
// weight to their pillar. A pillar's score is the weighted average of
// its answered questions scaled to 0-100; the global score is the sum of
// pillar scores times the fixed default weights. Pillars missing from
// the question set contribute 0 and their weight is not redistributed,
// so such roles cannot reach a global 100.
func (s *ScoringService) CalculateScores(answers []model.Answer, roleQuestions []model.RoleQuestion) AssessmentScores {
	questionsByPillar := make(map[model.Pillar][]model.RoleQuestion)
	for _, rq := range roleQuestions {
		if rq.Question == nil {
			continue
		}
		pillar := rq.Question.Pillar
		questionsByPillar[pillar] = append(questionsByPillar[pillar], rq)
	}

	answerMap := make(map[string]model.Answer, len(answers))
	for _, a := range answers {
		answerMap[a.QuestionID] = a
	}

	pillarScores := make(map[model.Pillar]float64, len(questionsByPillar))
	for pillar, questions := range questionsByPillar {
		pillarScores[pillar] = calculatePillarScore(questions, answerMap)
	}

	globalScore := 0.0
	for _, pillar := range model.AllPillars() {
		if score, ok := pillarScores[pillar]; ok {
			globalScore += pillar.DefaultWeight() * score
		}
	}

	gaps := identifyGaps(roleQuestions, answerMap, pillarScores)

	return AssessmentScores{
		PillarScores: pillarScores,
		GlobalScore:  globalScore,
		Gaps:         gaps,
	}
}

func calculatePillarScore(questions []model.RoleQuestion, answerMap map[string]model.Answer) float64 {
	totalWeightedScore := 0.0
	totalWeight := 0.0

	for _, rq := range questions {
		answer, ok := answerMap[rq.QuestionID]
		if !ok {
			continue
		}
		totalWeightedScore += calculateQuestionScore(rq, answer) * rq.Weight
		totalWeight += rq.Weight
	}

	if totalWeight <= 0 {
		return 0.0
	}
	return (totalWeightedScore / totalWeight) * 100
}

func calculateQuestionScore(rq model.RoleQuestion, answer model.Answer) float64 {
	switch rq.Question.Type {
	case model.QuestionLikert:
		if answer.ValueNumeric != nil {
			return math.Min(float64(*answer.ValueNumeric), 5) / 5.0
		}
		return 0.0
	case model.QuestionMultiple:
		// Binary for now: any positive value counts as correct. A real
		// answer key comparison is a future catalog feature.
		if answer.ValueNumeric != nil && *answer.ValueNumeric > 0 {
			return 1.0
		}
		return 0.0
	case model.QuestionText:
		// Text enriches the plan but never scores.
		return 0.0
	default:
		return 0.0
	}
}

// identifyGaps flags a question when its pillar scored below the pillar
// threshold, or its own raw numeric value sits below the question
// threshold. Questions without a numeric answer can only gap through
// their pillar.
func identifyGaps(roleQuestions []model.RoleQuestion, answerMap map[string]model.Answer, pillarScores map[model.Pillar]float64) []string {
	gaps := make([]string, 0)
	for _, rq := range roleQuestions {
		if rq.Question == nil {
			continue
		}

		pillarHasGap := false
		if score, ok := pillarScores[rq.Question.Pillar]; ok {
			pillarHasGap = score < gapThresholdPillar
		}

		questionHasGap := false
		if answer, ok := answerMap[rq.QuestionID]; ok && answer.ValueNumeric != nil {
			questionHasGap = *answer.ValueNumeric < gapThresholdQuestion
		}

		if pillarHasGap || questionHasGap {
			gaps = append(gaps, rq.QuestionID)
		}
	}
	return gaps
}
