package controller

import (
	"errors"

	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Service *service.ReportService
}

func NewReportController(svc *service.ReportService) *ReportController {
	return &ReportController{Service: svc}
}

type GenerateReportRequest struct {
	AssessmentID string `json:"assessmentId" binding:"required"`
}

// @Summary Generate a downloadable report for an assessment
// @Tags Reports
// @Accept json
// @Produce json
// @Param body body GenerateReportRequest true "Report request"
// @Success 201 {object} util.Response
// @Router /reports [post]
func (c *ReportController) GenerateReport(ctx *gin.Context) {
	var req GenerateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.Service.GenerateReport(ctx.Request.Context(), req.AssessmentID)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, report)
}

// @Summary Get a report
// @Description Expired reports answer 404 regardless of whether the cleanup sweep has run.
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} util.Response
// @Router /reports/{id} [get]
func (c *ReportController) GetReport(ctx *gin.Context) {
	report, err := c.Service.GetReport(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrReportNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
