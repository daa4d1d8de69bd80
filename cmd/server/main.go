package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clinicalapp "github.com/clinic/backend/internal/application/clinical"
	feeapp "github.com/clinic/backend/internal/application/fee"
	financeapp "github.com/clinic/backend/internal/application/finance"
	identityapp "github.com/clinic/backend/internal/application/identity"
	notificationapp "github.com/clinic/backend/internal/application/notification"
	validationapp "github.com/clinic/backend/internal/application/validation"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/infrastructure/auth"
	"github.com/clinic/backend/internal/infrastructure/cache"
	"github.com/clinic/backend/internal/infrastructure/config"
	"github.com/clinic/backend/internal/infrastructure/event"
	"github.com/clinic/backend/internal/infrastructure/logger"
	"github.com/clinic/backend/internal/infrastructure/notification"
	"github.com/clinic/backend/internal/infrastructure/persistence"
	"github.com/clinic/backend/internal/infrastructure/scheduler"
	"github.com/clinic/backend/internal/infrastructure/storage"
	"github.com/clinic/backend/internal/infrastructure/telemetry"
	"github.com/clinic/backend/internal/interfaces/http/handler"
	"github.com/clinic/backend/internal/interfaces/http/middleware"
	"github.com/clinic/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting clinic backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Telemetry providers. When disabled they fall back to the global
	// no-op providers.
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs the token blacklist and the idempotency store. Without
	// it both fall back to in-memory implementations, which is fine for a
	// single instance.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, falling back to in-memory stores", zap.Error(err))
			redisClient = nil
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	entryRepo := persistence.NewGormFinancialEntryRepository(db.DB)
	procRepo := persistence.NewGormProcedureRecordRepository(db.DB)
	countRepo := persistence.NewGormDailyPatientCountRepository(db.DB)
	formulaRepo := persistence.NewGormFeeFormulaRepository(db.DB)
	feeRecordRepo := persistence.NewGormFeeRecordRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event plumbing. Services write events through the outbox when the
	// processor is enabled, so a crash between a state change and the
	// handler run loses nothing. With the processor off, events go
	// straight to the bus.
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	eventBus := event.NewInMemoryEventBus(log)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	var publisher shared.EventPublisher = eventBus
	if cfg.Event.ProcessorEnabled {
		publisher = event.NewDurablePublisher(db.DB, outboxPublisher)
	}

	clock := shared.SystemClock{}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, clock, log)
	userService := identityapp.NewUserService(userRepo, clock, log)

	// Record entry services
	entryService := financeapp.NewFinancialEntryService(entryRepo, publisher, clock, log)
	procedureService := clinicalapp.NewProcedureService(procRepo, publisher, clock, log)
	dailyCountService := clinicalapp.NewDailyCountService(countRepo, publisher, clock, log)

	// Receipt storage
	var receiptStore financeapp.ReceiptStorage
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ReceiptStore(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		receiptStore = s3Store
	} else {
		localStore, err := storage.NewLocalReceiptStore("data/receipts")
		if err != nil {
			log.Fatal("Failed to initialize local receipt storage", zap.Error(err))
		}
		receiptStore = localStore
	}
	receiptService := financeapp.NewReceiptService(entryRepo, receiptStore, log)

	// Fee pipeline
	formulaService := feeapp.NewFormulaService(formulaRepo, clock, log)
	generator := feeapp.NewGenerator(formulaRepo, feeRecordRepo, publisher, clock, log)
	if cfg.Telemetry.Enabled {
		feeMetrics, err := telemetry.NewFeeMetrics(meterProvider.Meter("fee"), log)
		if err != nil {
			log.Warn("Failed to initialize fee metrics", zap.Error(err))
		} else {
			generator.SetMetrics(feeMetrics)
		}
	}
	recordQueryService := feeapp.NewRecordQueryService(feeRecordRepo)
	sweepService := feeapp.NewSweepService(countRepo, generator, cfg.Scheduler.SweepBatch, log)

	// Validation workflow
	validationService := validationapp.NewService(
		entryRepo, procRepo, countRepo, feeRecordRepo, auditRepo, publisher, clock, log,
	)

	// Notification channel
	var notifier notificationapp.Notifier
	if cfg.Telegram.Enabled {
		notifier = notification.NewTelegramNotifier(cfg.Telegram, log)
	} else {
		notifier = notification.NewLogNotifier(log)
	}

	// Fee generation must not run twice for one event, so the approval
	// handlers are wrapped with the idempotency decorator.
	var idempotencyStore shared.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "")
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}

	procApprovedHandler := feeapp.NewProcedureApprovedHandler(generator, log)
	countApprovedHandler := feeapp.NewDailyCountApprovedHandler(generator, log)
	sourceRevertedHandler := feeapp.NewSourceRevertedHandler(feeRecordRepo, publisher, clock, log)
	feeNotificationHandler := notificationapp.NewFeeNotificationHandler(notifier, log)

	eventBus.Subscribe(event.NewIdempotentHandler(procApprovedHandler, idempotencyStore, log), procApprovedHandler.EventTypes()...)
	eventBus.Subscribe(event.NewIdempotentHandler(countApprovedHandler, idempotencyStore, log), countApprovedHandler.EventTypes()...)
	eventBus.Subscribe(event.NewIdempotentHandler(sourceRevertedHandler, idempotencyStore, log), sourceRevertedHandler.EventTypes()...)
	eventBus.Subscribe(feeNotificationHandler)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor drains pending entries onto the bus
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Fee sweep scheduler catches approved daily counts whose generation
	// event was lost
	if cfg.Scheduler.Enabled {
		sweepScheduler := scheduler.NewFeeSweepScheduler(cfg.Scheduler, sweepService, log)
		if err := sweepScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start fee sweep scheduler", zap.Error(err))
		}
		defer func() {
			if err := sweepScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping fee sweep scheduler", zap.Error(err))
			}
		}()
		log.Info("Fee sweep scheduler started",
			zap.Duration("interval", cfg.Scheduler.SweepInterval),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	entryHandler := handler.NewFinancialEntryHandler(entryService, receiptService)
	procedureHandler := handler.NewProcedureHandler(procedureService)
	dailyCountHandler := handler.NewDailyCountHandler(dailyCountService)
	formulaHandler := handler.NewFeeFormulaHandler(formulaService)
	feeRecordHandler := handler.NewFeeRecordHandler(recordQueryService)
	validationHandler := handler.NewValidationHandler(validationService)
	systemHandler := handler.NewSystemHandler(outboxRepo, sweepService, cfg.Scheduler.JobTimeout, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORS(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))

	engine.GET("/health", healthHandler(db))
	engine.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(authHandler).
		Register(userHandler).
		Register(entryHandler).
		Register(procedureHandler).
		Register(dailyCountHandler).
		Register(formulaHandler).
		Register(feeRecordHandler).
		Register(validationHandler).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
