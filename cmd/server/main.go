package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	billingapp "github.com/ndutagrace25/esperanza-internal/internal/application/billing"
	catalogapp "github.com/ndutagrace25/esperanza-internal/internal/application/catalog"
	financeapp "github.com/ndutagrace25/esperanza-internal/internal/application/finance"
	identityapp "github.com/ndutagrace25/esperanza-internal/internal/application/identity"
	jobcardapp "github.com/ndutagrace25/esperanza-internal/internal/application/jobcard"
	partnerapp "github.com/ndutagrace25/esperanza-internal/internal/application/partner"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/auth"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/cache"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/event"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/license"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/logger"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/scheduler"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/sms"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/storage"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/telemetry"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/handler"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/middleware"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting esperanza-internal",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled && tracerProvider.IsEnabled() {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	// Reminder run dedup store. Redis when configured, in-memory otherwise;
	// the in-memory store only deduplicates within a single instance.
	var runStore billingapp.ReminderRunStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisRunStore(cfg.Redis, cfg.Reminder.RunKeyRetention)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing redis connection", zap.Error(err))
			}
		}()
		runStore = redisStore
		log.Info("Using redis reminder run store")
	} else {
		runStore = cache.NewInMemoryRunStore(cfg.Reminder.RunKeyRetention)
		log.Warn("Redis not configured, using in-memory reminder run store")
	}

	// Receipt storage
	var receiptStorage financeapp.ReceiptStorage
	switch cfg.Storage.Driver {
	case "s3":
		s3Storage, err := storage.NewS3ReceiptStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 receipt storage", zap.Error(err))
		}
		receiptStorage = s3Storage
		log.Info("Using S3 receipt storage", zap.String("bucket", cfg.Storage.Bucket))
	default:
		localStorage, err := storage.NewLocalReceiptStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize local receipt storage", zap.Error(err))
		}
		receiptStorage = localStorage
		log.Info("Using local receipt storage", zap.String("path", cfg.Storage.LocalPath))
	}

	// Outbound gateways
	smsClient := sms.NewClient(cfg.SMS, log)
	licenseClient := license.NewClient(cfg.License, log)

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	jobCardRepo := persistence.NewGormJobCardRepository(db.DB)
	auditRecorder := persistence.NewGormAuditRecorder(db.DB, log)

	// Domain event bus. Every aggregate mutation lands in the activity log.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogger(log))

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(employeeRepo, jwtService, auditRecorder, log)
	employeeService := identityapp.NewEmployeeService(employeeRepo, auditRecorder, log)
	clientService := partnerapp.NewClientService(clientRepo, auditRecorder, log)
	productService := catalogapp.NewProductService(productRepo, auditRecorder, log)

	ledgerService := billingapp.NewInstallmentLedgerService(
		saleRepo, clientRepo, employeeRepo, smsClient, licenseClient, auditRecorder, log,
	)
	saleService := billingapp.NewSaleService(saleRepo, ledgerService, auditRecorder, log)

	statusBridge := jobcardapp.NewStatusBridge(jobCardRepo, expenseRepo, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, statusBridge, receiptStorage, auditRecorder, log)
	jobCardService := jobcardapp.NewJobCardService(jobCardRepo, expenseRepo, statusBridge, auditRecorder, log)

	clientService.SetEventPublisher(eventBus)
	ledgerService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)
	statusBridge.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)
	jobCardService.SetEventPublisher(eventBus)

	reminderService := billingapp.NewReminderService(
		saleRepo, clientRepo, employeeRepo, smsClient, runStore,
		billingapp.ReminderConfig{
			CompanyName: cfg.Reminder.CompanyName,
			BankDetails: cfg.Reminder.BankDetails,
		},
		log,
	)

	// Reminder scheduler
	reminderScheduler := scheduler.NewReminderScheduler(cfg.Reminder, reminderService, log)
	if cfg.Reminder.Enabled {
		if err := reminderScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reminderScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping reminder scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP engine
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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	// Probes live outside the versioned API group
	systemHandler := handler.NewSystemHandler(db, version)
	systemHandler.RegisterProbes(engine)

	// API routes
	r := router.NewRouter(engine)
	r.Register(
		handler.NewAuthHandler(authService),
		handler.NewEmployeeHandler(employeeService),
		handler.NewClientHandler(clientService),
		handler.NewProductHandler(productService),
		handler.NewSaleHandler(saleService, ledgerService),
		handler.NewExpenseHandler(expenseService),
		handler.NewJobCardHandler(jobCardService),
		handler.NewReminderHandler(reminderScheduler),
	)
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
