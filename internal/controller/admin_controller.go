package controller

import (
	"errors"
	"strconv"

	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/internal/util"
	"ai_readiness_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController owns the write side of the catalog: role and question
// CRUD plus the copy-on-write versioning operations.
type AdminController struct {
	Service    *service.CatalogService
	Assessment *service.AssessmentService
}

func NewAdminController(svc *service.CatalogService, assessment *service.AssessmentService) *AdminController {
	return &AdminController{Service: svc, Assessment: assessment}
}

// @Summary Create a role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateRoleRequest true "Role data"
// @Success 201 {object} util.Response
// @Router /admin/roles [post]
func (c *AdminController) CreateRole(ctx *gin.Context) {
	var req service.CreateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.Service.CreateRole(req)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, role)
}

// @Summary Update role metadata
// @Description Changes name, description or category without touching the question catalog.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param body body service.UpdateRoleRequest true "Role data"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id} [put]
func (c *AdminController) UpdateRole(ctx *gin.Context) {
	var req service.UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.Service.UpdateRole(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, role)
}

// @Summary Deactivate a role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id} [delete]
func (c *AdminController) DeleteRole(ctx *gin.Context) {
	id := ctx.Param("id")
	deleted, err := c.Service.DeleteRole(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !deleted {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Create a question
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateQuestionRequest true "Question data"
// @Success 201 {object} util.Response
// @Router /admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.CreateQuestion(req)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary List questions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.PageResponse
// @Router /admin/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	questions, total, err := c.Service.ListQuestions(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: questions, Total: total, Page: page, Limit: limit})
}

// @Summary Update a question
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Param body body service.CreateQuestionRequest true "Question data"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.UpdateQuestion(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, question)
}

// @Summary Deactivate a question
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id := ctx.Param("id")
	deleted, err := c.Service.DeleteQuestion(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !deleted {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Assign a question to a role
// @Description Adds the question to the role's catalog by creating a new active version. Assigning an already-present question is a no-op.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param questionId path string true "Question ID"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id}/questions/{questionId} [post]
func (c *AdminController) AssignQuestion(ctx *gin.Context) {
	added, err := c.Service.AssignQuestion(ctx.Param("id"), ctx.Param("questionId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoleNotFound), errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrVersionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"added": added})
}

// @Summary Remove a question from a role
// @Description Creates a new active version without the question.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param questionId path string true "Question ID"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id}/questions/{questionId} [delete]
func (c *AdminController) RemoveQuestion(ctx *gin.Context) {
	removed, err := c.Service.RemoveQuestion(ctx.Param("id"), ctx.Param("questionId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoleNotFound), errors.Is(err, util.ErrVersionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"removed": removed})
}

// @Summary List a role's version history
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id}/versions [get]
func (c *AdminController) GetVersionHistory(ctx *gin.Context) {
	versions, err := c.Service.GetVersionHistory(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrRoleNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, versions)
}

// @Summary List submitted assessments
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Router /admin/assessments [get]
func (c *AdminController) ListAssessments(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	assessments, total, err := c.Assessment.ListAssessments(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

// @Summary Role usage stats
// @Description Version count plus assessments submitted in the last 30 days.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id}/stats [get]
func (c *AdminController) GetRoleStats(ctx *gin.Context) {
	roleID := ctx.Param("id")

	versions, err := c.Service.GetVersionHistory(roleID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	recent, err := c.Assessment.CountRecentByRole(roleID, 30)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"versionCount":      len(versions),
		"assessmentsLast30": recent,
	})
}

// @Summary Activate a historical version
// @Description Rolls the role's catalog back (or forward) to the given version number.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param versionNumber path int true "Version number"
// @Success 200 {object} util.Response
// @Router /admin/roles/{id}/versions/{versionNumber}/activate [post]
func (c *AdminController) ActivateVersion(ctx *gin.Context) {
	versionNumber, err := strconv.Atoi(ctx.Param("versionNumber"))
	if err != nil {
		util.BadRequest(ctx, "invalid version number")
		return
	}

	activated, err := c.Service.ActivateVersion(ctx.Param("id"), versionNumber)
	if err == nil && activated {
		if claims := util.GetClaimsFromContext(ctx); claims != nil {
			logger.Log.Info("catalog version activated",
				zap.String("roleId", ctx.Param("id")),
				zap.Int("versionNumber", versionNumber),
				zap.String("operator", claims.Subject))
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoleNotFound), errors.Is(err, util.ErrVersionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"activated": activated})
}
