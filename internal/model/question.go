package model

import "encoding/json"

// swagger:model Question
type Question struct {
	UUIDBase

	Text    string          `gorm:"type:text;not null" json:"text"`
	Type    QuestionType    `gorm:"size:20;not null" json:"type"`
	Pillar  Pillar          `gorm:"size:30;index;not null" json:"pillar"`
	Options json.RawMessage `gorm:"type:json" json:"options,omitempty"` // multiple-choice options
	Context string          `gorm:"type:text" json:"context,omitempty"` // help text shown with the question
	Active  bool            `gorm:"default:true;index" json:"active"`
}

func (Question) TableName() string {
	return "questions"
}
