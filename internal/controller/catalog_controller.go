package controller

import (
	"errors"

	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController serves the public read side of the role catalog.
type CatalogController struct {
	Service   *service.CatalogService
	Telemetry *service.TelemetryService
}

func NewCatalogController(svc *service.CatalogService, telemetry *service.TelemetryService) *CatalogController {
	return &CatalogController{Service: svc, Telemetry: telemetry}
}

// @Summary List active roles
// @Tags Catalog
// @Produce json
// @Param category query string false "Filter by role category"
// @Success 200 {object} util.Response
// @Router /roles [get]
func (c *CatalogController) ListRoles(ctx *gin.Context) {
	roles, err := c.Service.ListRoles(ctx.Query("category"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, roles)
}

// @Summary Get a role with its active catalog version
// @Tags Catalog
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} util.Response
// @Router /roles/{id} [get]
func (c *CatalogController) GetRole(ctx *gin.Context) {
	role, err := c.Service.GetRole(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrRoleNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	c.Telemetry.TrackRoleSelected(role.ID)
	util.Success(ctx, role)
}

// @Summary Get the questionnaire for a role
// @Description Returns the question list for the role's active catalog version, or for an explicit version when the query parameter is set.
// @Tags Catalog
// @Produce json
// @Param id path string true "Role ID"
// @Param version query string false "Catalog version number"
// @Success 200 {object} util.Response
// @Router /roles/{id}/questions [get]
func (c *CatalogController) GetRoleQuestions(ctx *gin.Context) {
	questions, err := c.Service.GetQuestionsForRole(ctx.Param("id"), ctx.Query("version"))
	if err != nil {
		if errors.Is(err, util.ErrRoleNotFound) || errors.Is(err, util.ErrVersionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}
