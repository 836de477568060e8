package model

import "encoding/json"

// Plan stores one generated 30/60/90-day plan per assessment, as the
// serialized generator output.
//
// swagger:model Plan
type Plan struct {
	BaseModel

	AssessmentID string          `gorm:"uniqueIndex;type:varchar(36);not null" json:"assessmentId"`
	PlanJSON     json.RawMessage `gorm:"type:json;not null" json:"plan"`
}

func (Plan) TableName() string {
	return "plans"
}
