package controller

import (
	"errors"

	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service   *service.AssessmentService
	Telemetry *service.TelemetryService
}

func NewAssessmentController(svc *service.AssessmentService, telemetry *service.TelemetryService) *AssessmentController {
	return &AssessmentController{Service: svc, Telemetry: telemetry}
}

// @Summary Submit an assessment
// @Description Persists the answers against the role's active catalog version and returns the scored result.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param body body service.CreateAssessmentRequest true "Answers"
// @Success 201 {object} util.Response
// @Router /assessments [post]
func (c *AssessmentController) CreateAssessment(ctx *gin.Context) {
	var req service.CreateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.CreateAssessment(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoleNotFound), errors.Is(err, util.ErrVersionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		default:
			c.Telemetry.TrackAPIError("", err.Error(), ctx.FullPath())
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

// @Summary Get an assessment result
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /assessments/{id} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	assessment, err := c.Service.GetAssessment(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	scores, err := c.Service.ScoreAssessment(assessment)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"id":           assessment.ID,
		"roleId":       assessment.RoleID,
		"version":      assessment.Version,
		"locale":       assessment.Locale,
		"hoursPerWeek": assessment.HoursPerWeek,
		"scores":       scores.ResponseMap(),
		"gaps":         scores.Gaps,
	})
}
