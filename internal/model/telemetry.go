package model

import "encoding/json"

type TelemetryEventType string

const (
	EventAssessmentStarted   TelemetryEventType = "ASSESSMENT_STARTED"
	EventAssessmentCompleted TelemetryEventType = "ASSESSMENT_COMPLETED"
	EventPlanGenerated       TelemetryEventType = "PLAN_GENERATED"
	EventReportGenerated     TelemetryEventType = "REPORT_GENERATED"
	EventRoleSelected        TelemetryEventType = "ROLE_SELECTED"
	EventAPIError            TelemetryEventType = "API_ERROR"
)

func (t TelemetryEventType) Valid() bool {
	switch t {
	case EventAssessmentStarted, EventAssessmentCompleted, EventPlanGenerated,
		EventReportGenerated, EventRoleSelected, EventAPIError:
		return true
	}
	return false
}

// swagger:model TelemetryEvent
type TelemetryEvent struct {
	BaseModel

	AssessmentID string             `gorm:"index;size:36" json:"assessmentId,omitempty"`
	EventType    TelemetryEventType `gorm:"size:40;index;not null" json:"eventType"`
	Data         json.RawMessage    `gorm:"type:json" json:"data,omitempty"`
}

func (TelemetryEvent) TableName() string {
	return "telemetry_events"
}
