package app

import (
	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/controller"
	"ai_readiness_backend/internal/repository"
	"ai_readiness_backend/internal/service"
	"ai_readiness_backend/pkg/configwatcher"
	"ai_readiness_backend/pkg/database"
	"ai_readiness_backend/pkg/logger"
	"ai_readiness_backend/pkg/monitoring"
	"ai_readiness_backend/pkg/security"
	"ai_readiness_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	role       *repository.RoleRepository
	question   *repository.QuestionRepository
	assessment *repository.AssessmentRepository
	plan       *repository.PlanRepository
	report     *repository.ReportRepository
	telemetry  *repository.TelemetryRepository
}

type services struct {
	catalog    *service.CatalogService
	scoring    *service.ScoringService
	telemetry  *service.TelemetryService
	assessment *service.AssessmentService
	plan       *service.PlanService
	storage    *service.StorageService
	report     *service.ReportService
}

type controllers struct {
	catalog    *controller.CatalogController
	admin      *controller.AdminController
	assessment *controller.AssessmentController
	plan       *controller.PlanController
	report     *controller.ReportController
	telemetry  *controller.TelemetryController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		role:       repository.NewRoleRepository(db),
		question:   repository.NewQuestionRepository(db),
		assessment: repository.NewAssessmentRepository(db),
		plan:       repository.NewPlanRepository(db),
		report:     repository.NewReportRepository(db),
		telemetry:  repository.NewTelemetryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.catalog = service.NewCatalogService(repos.role, repos.question, db, rdb)
	s.scoring = service.NewScoringService()
	s.telemetry = service.NewTelemetryService(repos.telemetry)
	s.assessment = service.NewAssessmentService(repos.assessment, s.catalog, s.scoring, s.telemetry, db)
	s.plan = service.NewPlanService(repos.plan, s.assessment, newPlanGenerator(cfg), s.telemetry)
	s.storage = service.NewStorageService(cfg)
	s.report = service.NewReportService(repos.report, s.assessment, s.plan, s.storage, s.telemetry, cfg)

	return s
}

// newPlanGenerator picks the provider from configuration; anything but
// "ai" falls back to the deterministic template generator.
func newPlanGenerator(cfg *config.Config) service.PlanGenerator {
	if cfg.Plan.Provider == "ai" && cfg.AI.BaseURL != "" {
		return service.NewAIPlanGenerator(cfg.AI)
	}
	return service.NewTemplatePlanGenerator()
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		catalog:    controller.NewCatalogController(s.catalog, s.telemetry),
		admin:      controller.NewAdminController(s.catalog, s.assessment),
		assessment: controller.NewAssessmentController(s.assessment, s.telemetry),
		plan:       controller.NewPlanController(s.plan, s.telemetry),
		report:     controller.NewReportController(s.report),
		telemetry:  controller.NewTelemetryController(s.telemetry),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if err := s.report.CleanupExpired(context.Background()); err != nil {
				logger.Log.Error("report cleanup error", zap.Error(err))
			}
		}
	}()

	// Hot-reload for the settings that are safe to swap at runtime.
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		s.report.SetRetention(time.Duration(newCfg.Report.RetentionHours) * time.Hour)
		s.plan.SetGenerator(newPlanGenerator(newCfg))
		logger.Log.Info("configuration reloaded",
			zap.String("planProvider", newCfg.Plan.Provider),
			zap.Int("reportRetentionHours", newCfg.Report.RetentionHours))
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ai-readiness", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/reports/files", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
