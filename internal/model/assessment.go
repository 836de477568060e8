package model

import (
	"time"

	"gorm.io/gorm"
)

// Assessment is a completed submission. It is created atomically with
// its answers and never mutated afterwards; a retake creates a new
// record linking back through PrevAssessmentID.
//
// swagger:model Assessment
type Assessment struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"` // a_-prefixed public token
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoleID           string `gorm:"index;type:varchar(36);not null" json:"roleId"`
	Version          string `gorm:"size:20;not null" json:"version"`
	Locale           string `gorm:"size:10;default:'en-US'" json:"locale"`
	HoursPerWeek     int    `gorm:"not null" json:"hoursPerWeek"`
	Consent          bool   `gorm:"default:false" json:"consent"`
	EmailHash        string `gorm:"size:64" json:"-"` // SHA-256, kept for privacy
	PrevAssessmentID string `gorm:"size:36" json:"prevAssessmentId,omitempty"`

	Answers []Answer `gorm:"foreignKey:AssessmentID" json:"answers,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// swagger:model Answer
type Answer struct {
	BaseModel

	AssessmentID string `gorm:"index;type:varchar(36);not null" json:"assessmentId"`
	QuestionID   string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	ValueNumeric *int   `json:"valueNumeric,omitempty"`           // Likert 1-5 or multiple-choice indicator
	ValueText    string `gorm:"size:1000" json:"valueText,omitempty"` // free text answers
}

func (Answer) TableName() string {
	return "answers"
}
