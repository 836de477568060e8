package app

import (
	"ai_readiness_backend/docs"
	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/middleware"

	"ai_readiness_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.GET("/roles", c.catalog.ListRoles)
		public.GET("/roles/:id", c.catalog.GetRole)
		public.GET("/roles/:id/questions", c.catalog.GetRoleQuestions)

		public.POST("/assessments", c.assessment.CreateAssessment)
		public.GET("/assessments/:id", c.assessment.GetAssessment)

		public.POST("/plans", c.plan.GeneratePlan)
		public.GET("/plans/:assessmentId", c.plan.GetPlan)

		public.POST("/reports", c.report.GenerateReport)
		public.GET("/reports/:id", c.report.GetReport)

		public.POST("/telemetry", c.telemetry.TrackEvent)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(cfg))
	{
		admin.POST("/roles", c.admin.CreateRole)
		admin.PUT("/roles/:id", c.admin.UpdateRole)
		admin.DELETE("/roles/:id", c.admin.DeleteRole)

		admin.POST("/questions", c.admin.CreateQuestion)
		admin.GET("/questions", c.admin.ListQuestions)
		admin.PUT("/questions/:id", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:id", c.admin.DeleteQuestion)

		admin.POST("/roles/:id/questions/:questionId", c.admin.AssignQuestion)
		admin.DELETE("/roles/:id/questions/:questionId", c.admin.RemoveQuestion)
		admin.GET("/roles/:id/versions", c.admin.GetVersionHistory)
		admin.POST("/roles/:id/versions/:versionNumber/activate", c.admin.ActivateVersion)
		admin.GET("/roles/:id/stats", c.admin.GetRoleStats)

		admin.GET("/assessments", c.admin.ListAssessments)

		admin.GET("/telemetry/summary", c.telemetry.GetSummary)
	}
}
