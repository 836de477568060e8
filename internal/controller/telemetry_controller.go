package controller

import (
	"errors"

	"ai_readiness_backend/internal/model"
	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TelemetryController struct {
	Service *service.TelemetryService
}

func NewTelemetryController(svc *service.TelemetryService) *TelemetryController {
	return &TelemetryController{Service: svc}
}

type TrackEventRequest struct {
	AssessmentID string                 `json:"assessmentId"`
	EventType    string                 `json:"eventType" binding:"required"`
	Data         map[string]interface{} `json:"data"`
}

// @Summary Record a client-side telemetry event
// @Tags Telemetry
// @Accept json
// @Produce json
// @Param body body TrackEventRequest true "Event"
// @Success 204 "No Content"
// @Router /telemetry [post]
func (c *TelemetryController) TrackEvent(ctx *gin.Context) {
	var req TrackEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.TrackEvent(req.AssessmentID, model.TelemetryEventType(req.EventType), req.Data); err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, "unknown event type")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.NoContent(ctx)
}

// @Summary Event counts per type
// @Tags Telemetry
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /admin/telemetry/summary [get]
func (c *TelemetryController) GetSummary(ctx *gin.Context) {
	summary, err := c.Service.EventSummary()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
