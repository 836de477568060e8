package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/model"
)

// AIPlanGenerator asks an OpenAI-compatible endpoint for the plan. The
// model is instructed to answer with the PlanDto JSON shape; responses
// still go through the same validation as the template provider.
type AIPlanGenerator struct {
	config config.AIConfig
	client *http.Client
}

func NewAIPlanGenerator(cfg config.AIConfig) *AIPlanGenerator {
	return &AIPlanGenerator{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type aiChatResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *AIPlanGenerator) GeneratePlan(roleID string, scores map[model.Pillar]float64, gaps []string, hoursPerWeek int, locale string) (*PlanDto, error) {
	prompt := g.buildPrompt(roleID, scores, gaps, hoursPerWeek, locale)

	reqBody := map[string]interface{}{
		"model": g.config.Model,
		"messages": []aiChatMessage{
			{Role: "system", Content: "You are a career coach for software professionals. Respond with a single JSON object matching the requested schema, no prose."},
			{Role: "user", Content: prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", g.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp aiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, err
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("AI API returned no choices")
	}

	var plan PlanDto
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &plan); err != nil {
		return nil, fmt.Errorf("AI plan is not valid JSON: %w", err)
	}
	if plan.HoursPerWeek == 0 {
		plan.HoursPerWeek = hoursPerWeek
	}
	return &plan, nil
}

func (g *AIPlanGenerator) ValidatePlan(plan *PlanDto) bool {
	return validatePlan(plan)
}

func (g *AIPlanGenerator) buildPrompt(roleID string, scores map[model.Pillar]float64, gaps []string, hoursPerWeek int, locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build a 30/60/90-day improvement plan for the role %q, %d hours/week available, locale %s.\n", roleID, hoursPerWeek, locale)
	b.WriteString("Pillar scores (0-100):\n")
	for _, pillar := range model.AllPillars() {
		if score, ok := scores[pillar]; ok {
			fmt.Fprintf(&b, "- %s: %.2f\n", pillar.DisplayName(), score)
		}
	}
	if len(gaps) > 0 {
		fmt.Fprintf(&b, "Question ids flagged as gaps: %s\n", strings.Join(gaps, ", "))
	}
	fmt.Fprintf(&b, "Answer with JSON: {\"summary\":string,\"hoursPerWeek\":int,\"priorities\":[{\"name\":string,\"reason\":string,\"milestones\":{\"d30\":[{\"title\":string,\"outcome\":string}],\"d60\":[...],\"d90\":[...]},\"evidence\":[string]}]} with at most %d priorities, each with a non-empty d30 list.", maxPlanPriorities)
	return b.String()
}
