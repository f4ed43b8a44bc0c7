package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	communityapp "github.com/Robi000/CMS/internal/application/community"
	eventapp "github.com/Robi000/CMS/internal/application/event"
	financeapp "github.com/Robi000/CMS/internal/application/finance"
	identityapp "github.com/Robi000/CMS/internal/application/identity"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/auth"
	"github.com/Robi000/CMS/internal/infrastructure/config"
	"github.com/Robi000/CMS/internal/infrastructure/logger"
	"github.com/Robi000/CMS/internal/infrastructure/persistence"
	"github.com/Robi000/CMS/internal/interfaces/http/handler"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/Robi000/CMS/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database with SQL logging routed through zap
	gormLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Token revocation lives in Redis so logout survives restarts.
	// Fall back to the in-process blacklist when Redis is unreachable.
	var blacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, using in-memory token blacklist",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer func() {
			_ = redisClient.Close()
		}()
	}
	cancelPing()

	jwtService := auth.NewJWTService(cfg.JWT)
	clock := shared.SystemClock{}
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Repositories
	associationRepo := persistence.NewGormAssociationRepository(db.DB)
	householdRepo := persistence.NewGormHouseholdRepository(db.DB)
	memberRepo := persistence.NewGormHouseholdMemberRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerAccountRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	financialTxRepo := persistence.NewGormFinancialTransactionRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	attendanceRepo := persistence.NewGormEventAttendanceRepository(db.DB)

	// Application services
	ledgerService := financeapp.NewLedgerService(ledgerRepo, invoiceRepo, financialTxRepo, clock)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, ledgerRepo, householdRepo, txManager, clock, log)
	transactionService := financeapp.NewTransactionService(financialTxRepo, ledgerRepo, txManager, clock)
	associationService := communityapp.NewAssociationService(associationRepo, ledgerService, txManager, log)
	householdService := communityapp.NewHouseholdService(householdRepo, memberRepo, txManager)
	eventService := eventapp.NewEventService(eventRepo, attendanceRepo, householdRepo, invoiceService, txManager, clock, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)

	// HTTP layer
	handlers := router.Handlers{
		System:      handler.NewSystemHandler(db),
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Association: handler.NewAssociationHandler(associationService),
		Household:   handler.NewHouseholdHandler(householdService),
		Invoice:     handler.NewInvoiceHandler(invoiceService, clock),
		Finance:     handler.NewFinanceHandler(transactionService, ledgerService),
		Event:       handler.NewEventHandler(eventService),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.New(router.Config{
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		CORS:           corsCfg,
	}, handlers)

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
