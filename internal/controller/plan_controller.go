package controller

import (
	"errors"

	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	Service   *service.PlanService
	Telemetry *service.TelemetryService
}

func NewPlanController(svc *service.PlanService, telemetry *service.TelemetryService) *PlanController {
	return &PlanController{Service: svc, Telemetry: telemetry}
}

type GeneratePlanRequest struct {
	AssessmentID string `json:"assessmentId" binding:"required"`
	HoursPerWeek int    `json:"hoursPerWeek" binding:"omitempty,min=1,max=80"`
}

// @Summary Generate the improvement plan for an assessment
// @Description Idempotent: repeated calls for the same assessment return the stored plan.
// @Tags Plans
// @Accept json
// @Produce json
// @Param body body GeneratePlanRequest true "Plan request"
// @Success 201 {object} util.Response
// @Router /plans [post]
func (c *PlanController) GeneratePlan(ctx *gin.Context) {
	var req GeneratePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.Service.GeneratePlan(req.AssessmentID, req.HoursPerWeek)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssessmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidPlan):
			util.Error(ctx, 422, "generated plan failed validation")
		default:
			c.Telemetry.TrackAPIError(req.AssessmentID, err.Error(), ctx.FullPath())
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, plan)
}

// @Summary Get the stored plan for an assessment
// @Tags Plans
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /plans/{assessmentId} [get]
func (c *PlanController) GetPlan(ctx *gin.Context) {
	plan, err := c.Service.GetPlan(ctx.Param("assessmentId"))
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}
