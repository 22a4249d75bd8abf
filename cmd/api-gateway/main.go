package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Brekey53/atec-admin-api/api/swagger"
	"github.com/Brekey53/atec-admin-api/internal/handler"
	"github.com/Brekey53/atec-admin-api/internal/middleware"
	"github.com/Brekey53/atec-admin-api/internal/models"
	"github.com/Brekey53/atec-admin-api/internal/repository"
	"github.com/Brekey53/atec-admin-api/internal/service"
	"github.com/Brekey53/atec-admin-api/pkg/cache"
	"github.com/Brekey53/atec-admin-api/pkg/config"
	"github.com/Brekey53/atec-admin-api/pkg/database"
	"github.com/Brekey53/atec-admin-api/pkg/logger"
	corsmiddleware "github.com/Brekey53/atec-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/Brekey53/atec-admin-api/pkg/middleware/requestid"
)

// @title ATEC Admin API
// @version 0.1.0
// @description Training-centre administration platform with automatic class-schedule generation
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, timetable cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	methodologyRepo := repository.NewMethodologyRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	traineeRepo := repository.NewTraineeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Timetable.CacheTTL, logr, cfg.Timetable.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "atec-admin-api",
	})

	userSvc := service.NewUserService(userRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, methodologyRepo, validate, logr)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, moduleRepo, validate, logr)
	trainerSvc := service.NewTrainerService(trainerRepo, availabilityRepo, assignmentRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	traineeSvc := service.NewTraineeService(traineeRepo, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, cacheSvc, cfg.Timetable.CacheTTL, validate, logr)
	exportSvc := service.NewExportService(sessionSvc, nil, nil, logr)

	generatorSvc := service.NewScheduleGeneratorService(
		classRepo,
		curriculumRepo,
		assignmentRepo,
		availabilityRepo,
		roomRepo,
		sessionRepo,
		db,
		cacheRepo,
		validate,
		logr,
		service.ScheduleGeneratorConfig{
			MaxBlockHours:    cfg.Scheduler.MaxBlockHours,
			MinBlockHours:    cfg.Scheduler.MinBlockHours,
			MaxActiveModules: cfg.Scheduler.MaxActiveModules,
			OverrunMonths:    cfg.Scheduler.OverrunMonths,
		},
	)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	classHandler := handler.NewClassHandler(classSvc)
	curriculumHandler := handler.NewCurriculumHandler(curriculumSvc)
	trainerHandler := handler.NewTrainerHandler(trainerSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	traineeHandler := handler.NewTraineeHandler(traineeSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, exportSvc)
	generatorHandler := handler.NewScheduleGeneratorHandler(generatorSvc, exportSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.POST("/auth/change-password", authHandler.ChangePassword)

	anyRole := middleware.RBAC(models.RoleAdmin, models.RoleTrainer, models.RoleTrainee)
	staff := middleware.RBAC(models.RoleAdmin, models.RoleTrainer)
	adminOnly := middleware.RBAC(models.RoleAdmin)

	secured.GET("/users", adminOnly, userHandler.List)
	secured.GET("/users/:id", adminOnly, userHandler.Get)
	secured.POST("/users", adminOnly, userHandler.Create)
	secured.PUT("/users/:id", adminOnly, userHandler.Update)
	secured.DELETE("/users/:id", adminOnly, userHandler.Delete)

	secured.GET("/classes", anyRole, classHandler.List)
	secured.GET("/classes/:id", anyRole, classHandler.Get)
	secured.POST("/classes", adminOnly, classHandler.Create)
	secured.PUT("/classes/:id", adminOnly, classHandler.Update)
	secured.DELETE("/classes/:id", adminOnly, classHandler.Delete)

	secured.GET("/methodologies", staff, classHandler.ListMethodologies)
	secured.POST("/methodologies", adminOnly, classHandler.CreateMethodology)
	secured.PUT("/methodologies/:id", adminOnly, classHandler.UpdateMethodology)

	secured.GET("/classes/:id/curriculum", anyRole, curriculumHandler.ListByClass)
	secured.POST("/curriculum", adminOnly, curriculumHandler.Attach)
	secured.PUT("/curriculum/:id/priority", adminOnly, curriculumHandler.Reprioritize)
	secured.DELETE("/curriculum/:id", adminOnly, curriculumHandler.Detach)

	secured.GET("/modules", staff, curriculumHandler.ListModules)
	secured.POST("/modules", adminOnly, curriculumHandler.CreateModule)
	secured.PUT("/modules/:id", adminOnly, curriculumHandler.UpdateModule)
	secured.GET("/subject-types", staff, curriculumHandler.ListSubjectTypes)
	secured.POST("/subject-types", adminOnly, curriculumHandler.CreateSubjectType)

	secured.GET("/trainers", staff, trainerHandler.List)
	secured.GET("/trainers/:id", staff, trainerHandler.Get)
	secured.POST("/trainers", adminOnly, trainerHandler.Create)
	secured.PUT("/trainers/:id", adminOnly, trainerHandler.Update)
	secured.DELETE("/trainers/:id", adminOnly, trainerHandler.Delete)
	secured.GET("/trainers/:id/availability", staff, trainerHandler.ListAvailability)
	secured.PUT("/trainers/:id/availability", staff, trainerHandler.ReplaceAvailability)
	secured.DELETE("/trainers/:id/availability/:windowId", staff, trainerHandler.DeleteAvailability)

	secured.GET("/classes/:id/assignments", staff, trainerHandler.ListAssignments)
	secured.POST("/assignments", adminOnly, trainerHandler.Assign)
	secured.DELETE("/assignments/:id", adminOnly, trainerHandler.Unassign)

	secured.GET("/rooms", staff, roomHandler.List)
	secured.GET("/rooms/:id", staff, roomHandler.Get)
	secured.POST("/rooms", adminOnly, roomHandler.Create)
	secured.PUT("/rooms/:id", adminOnly, roomHandler.Update)
	secured.DELETE("/rooms/:id", adminOnly, roomHandler.Delete)

	secured.GET("/trainees", staff, traineeHandler.List)
	secured.GET("/trainees/:id", staff, traineeHandler.Get)
	secured.POST("/trainees", adminOnly, traineeHandler.Create)
	secured.PUT("/trainees/:id", adminOnly, traineeHandler.Update)
	secured.DELETE("/trainees/:id", adminOnly, traineeHandler.Delete)

	secured.GET("/sessions", staff, sessionHandler.List)
	secured.GET("/classes/:id/timetable", anyRole, sessionHandler.Timetable)
	secured.DELETE("/sessions/:id", adminOnly, sessionHandler.Delete)
	secured.DELETE("/classes/:id/sessions", adminOnly, sessionHandler.ClearUpcoming)

	secured.POST("/schedule/generate", adminOnly, generatorHandler.Generate)
	if cfg.Exports.Enabled {
		secured.GET("/classes/:id/timetable/export", staff, sessionHandler.ExportTimetable)
		secured.POST("/schedule/generate/export", adminOnly, generatorHandler.ExportSummary)
	}

	secured.GET("/system/metrics", adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
