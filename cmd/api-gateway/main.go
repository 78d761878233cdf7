package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-adp-api/api/swagger"
	"github.com/noah-isme/sma-adp-api/internal/broker"
	internalhandler "github.com/noah-isme/sma-adp-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-adp-api/internal/middleware"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/orchestrator"
	"github.com/noah-isme/sma-adp-api/internal/repository"
	"github.com/noah-isme/sma-adp-api/internal/service"
	"github.com/noah-isme/sma-adp-api/pkg/cache"
	"github.com/noah-isme/sma-adp-api/pkg/config"
	"github.com/noah-isme/sma-adp-api/pkg/database"
	"github.com/noah-isme/sma-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-adp-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-adp-api/pkg/storage"
)

// @title SMA ADP API
// @version 1.0.0
// @description Genetic-algorithm timetable scheduler for a single school's academic year
// @BasePath /api/v1
// @schemes http

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

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, conflict checks will always hit the database", zap.Error(err))
		cacheSvc = service.NewCacheService(nil, metricsSvc, 0, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, 30*time.Second, logr, true)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// --- auth ---
	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "sma-adp-api",
		Audience:          []string{"sma-adp-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))
	secured.GET("/auth/me", authHandler.Me)

	staff := []string{string(models.RoleAdmin), string(models.RoleSuperAdmin)}
	readers := []string{string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)}

	// --- master data: departments, classes, subjects, rooms, time slots, curricula ---
	departmentRepo := repository.NewDepartmentRepository(db)
	departmentSvc := service.NewDepartmentService(departmentRepo, nil, logr)
	departmentHandler := internalhandler.NewDepartmentHandler(departmentSvc)

	departments := secured.Group("/departments")
	departments.GET("", internalmiddleware.RBAC(readers...), departmentHandler.List)
	departments.GET("/:id", internalmiddleware.RBAC(readers...), departmentHandler.Get)
	departments.POST("", internalmiddleware.RBAC(staff...), departmentHandler.Create)
	departments.PUT("/:id", internalmiddleware.RBAC(staff...), departmentHandler.Update)
	departments.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), departmentHandler.Delete)

	classRepo := repository.NewClassRepository(db)
	classSvc := service.NewClassService(classRepo, nil, logr)
	classHandler := internalhandler.NewClassHandler(classSvc)

	classes := secured.Group("/classes")
	classes.GET("", internalmiddleware.RBAC(readers...), classHandler.List)
	classes.GET("/:id", internalmiddleware.RBAC(readers...), classHandler.Get)
	classes.POST("", internalmiddleware.RBAC(staff...), classHandler.Create)
	classes.PUT("/:id", internalmiddleware.RBAC(staff...), classHandler.Update)
	classes.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), classHandler.Delete)

	subjectRepo := repository.NewSubjectRepository(db)
	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	subjectHandler := internalhandler.NewSubjectHandler(subjectSvc)

	subjects := secured.Group("/subjects")
	subjects.GET("", internalmiddleware.RBAC(readers...), subjectHandler.List)
	subjects.GET("/:id", internalmiddleware.RBAC(readers...), subjectHandler.Get)
	subjects.POST("", internalmiddleware.RBAC(staff...), subjectHandler.Create)
	subjects.PUT("/:id", internalmiddleware.RBAC(staff...), subjectHandler.Update)
	subjects.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), subjectHandler.Delete)

	roomRepo := repository.NewRoomRepository(db)
	roomSvc := service.NewRoomService(roomRepo, nil, logr)
	roomHandler := internalhandler.NewRoomHandler(roomSvc)

	rooms := secured.Group("/rooms")
	rooms.GET("", internalmiddleware.RBAC(readers...), roomHandler.List)
	rooms.GET("/:id", internalmiddleware.RBAC(readers...), roomHandler.Get)
	rooms.POST("", internalmiddleware.RBAC(staff...), roomHandler.Create)
	rooms.PUT("/:id", internalmiddleware.RBAC(staff...), roomHandler.Update)
	rooms.PUT("/:id/departments", internalmiddleware.RBAC(staff...), roomHandler.SetDepartments)
	rooms.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), roomHandler.Delete)

	timeSlotRepo := repository.NewTimeSlotRepository(db)
	timeSlotSvc := service.NewTimeSlotService(timeSlotRepo, nil, logr)
	timeSlotHandler := internalhandler.NewTimeSlotHandler(timeSlotSvc)

	timeSlots := secured.Group("/time-slots")
	timeSlots.GET("", internalmiddleware.RBAC(readers...), timeSlotHandler.List)
	timeSlots.GET("/:id", internalmiddleware.RBAC(readers...), timeSlotHandler.Get)
	timeSlots.POST("", internalmiddleware.RBAC(staff...), timeSlotHandler.Create)
	timeSlots.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), timeSlotHandler.Delete)

	curriculumRepo := repository.NewCurriculumRepository(db)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, nil, logr)
	curriculumHandler := internalhandler.NewCurriculumHandler(curriculumSvc)

	curricula := secured.Group("/curricula")
	curricula.GET("", internalmiddleware.RBAC(readers...), curriculumHandler.List)
	curricula.GET("/:id", internalmiddleware.RBAC(readers...), curriculumHandler.Get)
	curricula.POST("", internalmiddleware.RBAC(staff...), curriculumHandler.Create)
	curricula.PUT("/:id", internalmiddleware.RBAC(staff...), curriculumHandler.Update)
	curricula.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), curriculumHandler.Delete)

	teacherRepo := repository.NewTeacherRepository(db)
	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc)

	teachers := secured.Group("/teachers")
	teachers.GET("", internalmiddleware.RBAC(staff...), teacherHandler.List)
	teachers.GET("/:id", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Get)
	teachers.POST("", internalmiddleware.RBAC(staff...), teacherHandler.Create)
	teachers.PUT("/:id", internalmiddleware.RBAC(staff...), teacherHandler.Update)
	teachers.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), teacherHandler.Delete)
	teachers.PUT("/:id/subjects", internalmiddleware.RBAC(staff...), teacherHandler.SetSubjects)
	teachers.PUT("/:id/availability", internalmiddleware.RBAC(staff...), teacherHandler.SetUnavailability)

	// --- scheduling: GA orchestrator, progress broker, conflict resolver ---
	progressBroker := broker.New()

	scheduleRepo := repository.NewScheduleRepository(db)
	scheduleDetailRepo := repository.NewScheduleDetailRepository(db)
	scheduleConflictRepo := repository.NewScheduleConflictRepository(db)

	var historyArchiver *orchestrator.HistoryArchiver
	if cfg.History.Enabled {
		historyStore, err := storage.NewLocalStorage(cfg.History.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init history storage", "error", err)
		}
		historySigner := storage.NewSignedURLSigner(cfg.History.Secret, cfg.History.SignedTTL)
		historyArchiver = orchestrator.NewHistoryArchiver(historyStore, historySigner)
	}

	sched := orchestrator.New(
		classRepo, teacherRepo, subjectRepo, roomRepo, timeSlotRepo, curriculumRepo,
		scheduleRepo, scheduleDetailRepo, progressBroker, historyArchiver, logr,
	)

	gaDefaults := models.GAParams{
		PopulationSize:  cfg.GA.PopulationSize,
		GenerationCount: cfg.GA.GenerationCount,
		ElitismCount:    cfg.GA.ElitismCount,
		CrossoverRate:   cfg.GA.CrossoverRate,
		MutationRate:    cfg.GA.MutationRate,
		TournamentSize:  cfg.GA.TournamentSize,
		HardConstraints: models.HardConstraintFlags{TeacherConflict: true, ClassConflict: true, RoomTypeMatch: true},
		SoftConstraints: models.SoftConstraintFlags{TeacherPreference: true, WorkloadDistribution: true},
	}

	scheduleSvc := service.NewScheduleService(scheduleRepo, scheduleDetailRepo, sched, gaDefaults, nil, logr)
	scheduleHandler := internalhandler.NewScheduleHandler(scheduleSvc)

	conflictSvc := service.NewConflictService(
		scheduleRepo, scheduleDetailRepo, scheduleConflictRepo,
		classRepo, teacherRepo, subjectRepo, roomRepo, timeSlotRepo, curriculumRepo,
		cacheSvc, logr,
	)
	conflictHandler := internalhandler.NewConflictHandler(conflictSvc)
	wsHandler := internalhandler.NewWebSocketHandler(progressBroker, logr)

	auditRepo := repository.NewAuditRepository(db)
	auditDetailEdit := internalmiddleware.Audit(auditRepo, "manual_edit", "schedule_detail")
	auditConflictResolve := internalmiddleware.Audit(auditRepo, "resolve", "schedule_conflict")

	schedules := secured.Group("/schedules")
	schedules.GET("", internalmiddleware.RBAC(readers...), scheduleHandler.List)
	schedules.GET("/:id", internalmiddleware.RBAC(readers...), scheduleHandler.Get)
	schedules.POST("", internalmiddleware.RBAC(staff...), scheduleHandler.Create)
	schedules.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), scheduleHandler.Delete)
	schedules.POST("/:id/generate", internalmiddleware.RBAC(staff...), scheduleHandler.Generate)
	schedules.DELETE("/:id/generate", internalmiddleware.RBAC(staff...), scheduleHandler.CancelGeneration)
	schedules.GET("/:id/details", internalmiddleware.RBAC(readers...), scheduleHandler.ListDetails)
	schedules.GET("/:id/conflicts", internalmiddleware.RBAC(readers...), conflictHandler.List)
	schedules.POST("/:id/conflicts/detect", internalmiddleware.RBAC(staff...), conflictHandler.Detect)
	schedules.GET("/:id/conflicts/:conflictId/resolutions", internalmiddleware.RBAC(staff...), conflictHandler.Propose)
	schedules.POST("/:id/conflicts/:conflictId/resolutions", internalmiddleware.RBAC(staff...), auditConflictResolve, conflictHandler.Apply)
	schedules.GET("/:id/ws", wsHandler.Stream)

	scheduleDetails := secured.Group("/schedule-details")
	scheduleDetails.PUT("/:detailId", internalmiddleware.RBAC(staff...), auditDetailEdit, scheduleHandler.UpdateDetail)
	scheduleDetails.DELETE("/:detailId", internalmiddleware.RBAC(staff...), auditDetailEdit, scheduleHandler.DeleteDetail)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
