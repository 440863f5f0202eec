package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	appbanking "github.com/azalscore/backend/internal/application/banking"
	appbudget "github.com/azalscore/backend/internal/application/budget"
	appreport "github.com/azalscore/backend/internal/application/report"
	"github.com/azalscore/backend/internal/infrastructure/auth"
	"github.com/azalscore/backend/internal/infrastructure/bank"
	"github.com/azalscore/backend/internal/infrastructure/cache"
	"github.com/azalscore/backend/internal/infrastructure/config"
	"github.com/azalscore/backend/internal/infrastructure/crypto"
	"github.com/azalscore/backend/internal/infrastructure/logger"
	"github.com/azalscore/backend/internal/infrastructure/ocr"
	"github.com/azalscore/backend/internal/infrastructure/persistence"
	"github.com/azalscore/backend/internal/infrastructure/storage"
	"github.com/azalscore/backend/internal/infrastructure/telemetry"
	"github.com/azalscore/backend/internal/interfaces/http/handler"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/azalscore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AZALSCORE backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
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
	if err := telemetry.RegisterOtelGorm(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Dashboard cache: Redis when reachable, otherwise per-process memory
	var dashboardCache appreport.DashboardCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory dashboard cache", zap.Error(err))
		dashboardCache = cache.NewInMemoryDashboardCache()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		dashboardCache = cache.NewRedisDashboardCache(redisClient)
		log.Info("Redis connected")
	}

	// Credential sealer for bank connection secrets
	sealer, err := crypto.NewChaChaSealer(cfg.Vault.SealingKey)
	if err != nil {
		log.Fatal("Failed to initialize credential sealer", zap.Error(err))
	}

	// Document blob storage
	objectStorage, err := storage.NewObjectStorage(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// OCR engine
	ocrEngine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		log.Fatal("Failed to initialize OCR engine", zap.Error(err))
	}

	// Bank provider
	bankProvider, err := bank.NewProvider(cfg.Bank)
	if err != nil {
		log.Fatal("Failed to initialize bank provider", zap.Error(err))
	}

	// Repositories
	docRepo := persistence.NewGormDocumentRepository(db.DB)
	ocrRepo := persistence.NewGormOCRResultRepository(db.DB)
	classRepo := persistence.NewGormClassificationRepository(db.DB)
	entryRepo := persistence.NewGormAutoEntryRepository(db.DB)
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	connRepo := persistence.NewGormBankConnectionRepository(db.DB)
	accountRepo := persistence.NewGormBankAccountRepository(db.DB)
	txRepo := persistence.NewGormBankTransactionRepository(db.DB)
	ruleRepo := persistence.NewGormReconciliationRuleRepository(db.DB)
	historyRepo := persistence.NewGormReconciliationHistoryRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetLineRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Application services
	entryService := appaccounting.NewEntryService(entryRepo, journalRepo, docRepo, log)
	documentService := appaccounting.NewDocumentService(docRepo, ocrRepo, classRepo, entryRepo, alertRepo, objectStorage, ocrEngine, entryService, log)
	classificationService := appaccounting.NewClassificationService(classRepo)
	alertService := appaccounting.NewAlertService(alertRepo)
	syncService := appbanking.NewSyncService(connRepo, accountRepo, txRepo, alertRepo, bankProvider, sealer, log)
	reconciliationService := appbanking.NewReconciliationService(txRepo, ruleRepo, historyRepo, docRepo, log)
	ruleService := appbanking.NewRuleService(ruleRepo)
	budgetService := appbudget.NewLineService(budgetRepo)
	dashboardService := appreport.NewDashboardService(dashboardRepo, dashboardCache, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxUploadSize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	entryHandler := handler.NewEntryHandler(entryService)
	classificationHandler := handler.NewClassificationHandler(classificationService)
	alertHandler := handler.NewAlertHandler(alertService)
	bankingHandler := handler.NewBankingHandler(syncService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	ruleHandler := handler.NewRuleHandler(ruleService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	systemHandler := handler.NewSystemHandler()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Accounting context: documents, entries, classifications, alerts
	accountingRoutes := router.NewDomainGroup("accounting", "/accounting")
	accountingRoutes.POST("/documents", documentHandler.Upload)
	accountingRoutes.GET("/documents", documentHandler.List)
	accountingRoutes.GET("/documents/:id", documentHandler.Get)
	accountingRoutes.POST("/documents/:id/process", documentHandler.Process)
	accountingRoutes.POST("/documents/:id/reprocess", documentHandler.Reprocess)
	accountingRoutes.POST("/documents/:id/reject", documentHandler.Reject)
	accountingRoutes.DELETE("/documents/:id", documentHandler.Delete)
	accountingRoutes.GET("/documents/:id/classification", classificationHandler.GetLatest)
	accountingRoutes.GET("/documents/:id/classification/history", classificationHandler.GetHistory)
	accountingRoutes.POST("/classifications/:id/correct", classificationHandler.Correct)
	accountingRoutes.GET("/entries/pending", entryHandler.ListPending)
	accountingRoutes.GET("/entries/:id", entryHandler.Get)
	accountingRoutes.POST("/entries/:id/validate", entryHandler.Validate)
	accountingRoutes.POST("/entries/bulk-validate", entryHandler.BulkValidate)
	accountingRoutes.POST("/entries/:id/reject", entryHandler.Reject)
	accountingRoutes.GET("/alerts", alertHandler.List)
	accountingRoutes.POST("/alerts/:id/resolve", alertHandler.Resolve)
	accountingRoutes.POST("/alerts/:id/dismiss", alertHandler.Dismiss)

	// Banking context: connections, accounts, transactions, reconciliation
	bankingRoutes := router.NewDomainGroup("banking", "/banking")
	bankingRoutes.POST("/connections", bankingHandler.CreateConnection)
	bankingRoutes.GET("/connections", bankingHandler.ListConnections)
	bankingRoutes.POST("/connections/:id/revoke", bankingHandler.RevokeConnection)
	bankingRoutes.POST("/connections/:id/sync", bankingHandler.Sync)
	bankingRoutes.GET("/accounts", bankingHandler.ListAccounts)
	bankingRoutes.GET("/transactions", reconciliationHandler.ListTransactions)
	bankingRoutes.GET("/transactions/:id/suggestions", reconciliationHandler.Suggestions)
	bankingRoutes.POST("/transactions/:id/match", reconciliationHandler.ManualMatch)
	bankingRoutes.POST("/transactions/:id/unmatch", reconciliationHandler.Unmatch)
	bankingRoutes.POST("/reconciliation/auto", reconciliationHandler.AutoReconcile)
	bankingRoutes.POST("/rules", ruleHandler.Create)
	bankingRoutes.GET("/rules", ruleHandler.List)
	bankingRoutes.GET("/rules/:id", ruleHandler.Get)
	bankingRoutes.PUT("/rules/:id", ruleHandler.Update)
	bankingRoutes.DELETE("/rules/:id", ruleHandler.Delete)

	// Dashboards
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/dirigeant", dashboardHandler.Dirigeant)
	dashboardRoutes.GET("/assistante", dashboardHandler.Assistante)
	dashboardRoutes.GET("/expert", dashboardHandler.Expert)

	// Budget
	budgetRoutes := router.NewDomainGroup("budget", "/budget")
	budgetRoutes.POST("/lines", budgetHandler.Create)
	budgetRoutes.GET("/lines", budgetHandler.List)
	budgetRoutes.GET("/lines/:id", budgetHandler.Get)
	budgetRoutes.PUT("/lines/:id", budgetHandler.Update)
	budgetRoutes.DELETE("/lines/:id", budgetHandler.Delete)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(accountingRoutes).
		Register(bankingRoutes).
		Register(dashboardRoutes).
		Register(budgetRoutes).
		Register(systemRoutes)
	r.Setup()

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

// healthHandler reports liveness, including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
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
