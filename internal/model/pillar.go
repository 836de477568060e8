package model

// Pillar is one of the four fixed evaluation categories. The default
// weights sum to 1.0 and are global constants, not per-role settings.
type Pillar string

const (
	PillarTech          Pillar = "TECH"
	PillarAI            Pillar = "AI"
	PillarCommunication Pillar = "COMMUNICATION"
	PillarPortfolio     Pillar = "PORTFOLIO"
)

var pillarWeights = map[Pillar]float64{
	PillarTech:          0.35,
	PillarAI:            0.35,
	PillarCommunication: 0.15,
	PillarPortfolio:     0.15,
}

var pillarNames = map[Pillar]string{
	PillarTech:          "Technical",
	PillarAI:            "Applied AI",
	PillarCommunication: "Communication",
	PillarPortfolio:     "Portfolio & Delivery",
}

// AllPillars returns the pillars in their canonical order.
func AllPillars() []Pillar {
	return []Pillar{PillarTech, PillarAI, PillarCommunication, PillarPortfolio}
}

func (p Pillar) DefaultWeight() float64 {
	return pillarWeights[p]
}

func (p Pillar) DisplayName() string {
	return pillarNames[p]
}

func (p Pillar) Valid() bool {
	_, ok := pillarWeights[p]
	return ok
}

// QuestionType determines how an answer is scored.
type QuestionType string

const (
	QuestionLikert   QuestionType = "LIKERT"   // 1-5 self-perception scale
	QuestionMultiple QuestionType = "MULTIPLE" // multiple choice, binary for MVP
	QuestionText     QuestionType = "TEXT"     // free text, never scores
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionLikert, QuestionMultiple, QuestionText:
		return true
	}
	return false
}
