package model

import "time"

type ReportStatus string

const (
	ReportReady   ReportStatus = "ready"
	ReportExpired ReportStatus = "expired"
)

// Report records a generated result artifact. Rows expire after the
// configured retention window and are swept by a background task.
//
// swagger:model Report
type Report struct {
	UUIDBase

	AssessmentID string       `gorm:"index;type:varchar(36);not null" json:"assessmentId"`
	Status       ReportStatus `gorm:"size:20;default:'ready'" json:"status"`
	ObjectKey    string       `gorm:"size:255" json:"-"`
	URL          string       `gorm:"size:512" json:"url"`
	ExpiresAt    time.Time    `gorm:"index" json:"expiresAt"`
}

func (Report) TableName() string {
	return "reports"
}
