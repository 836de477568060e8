package util

import "errors"

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrVersionNotFound    = errors.New("role version not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidPlan        = errors.New("generated plan failed validation")
)
