package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/config"
	"github.com/shabeb-irshed/portal/internal/database"
	"github.com/shabeb-irshed/portal/internal/handlers"
	"github.com/shabeb-irshed/portal/internal/metrics"
	middlewareCustom "github.com/shabeb-irshed/portal/internal/middleware"
	"github.com/shabeb-irshed/portal/internal/repositories"
	"github.com/shabeb-irshed/portal/internal/routes"
	"github.com/shabeb-irshed/portal/internal/services"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	credentialRepo := repositories.NewCredentialRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	loginAttemptRepo := repositories.NewLoginAttemptRepository(db)
	rateLimitRepo := repositories.NewRateLimitRepository(db)
	idempotencyRepo := repositories.NewIdempotencyRepository(db)
	registrationRepo := repositories.NewRegistrationRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	newsRepo := repositories.NewNewsRepository(db)
	workshopRepo := repositories.NewWorkshopRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)
	metrics.RegisterPoolGauges(registry, func() metrics.PoolStats { return db.Stats() })

	auditLogger := pkglogger.NewAuditLogger(logger)

	// AWS clients for evaluation mail and news media
	awsCtx, awsCancel := context.WithTimeout(context.Background(), 10*time.Second)
	sesCfg, err := awsconfig.LoadDefaultConfig(awsCtx, awsconfig.WithRegion(cfg.Email.AWSRegion))
	if err != nil {
		awsCancel()
		logger.Error("failed to load AWS configuration for SES", slog.Any("error", err))
		os.Exit(1)
	}
	s3Cfg, err := awsconfig.LoadDefaultConfig(awsCtx, awsconfig.WithRegion(cfg.Media.AWSRegion))
	awsCancel()
	if err != nil {
		logger.Error("failed to load AWS configuration for S3", slog.Any("error", err))
		os.Exit(1)
	}
	mailer := services.NewSESMailer(ses.NewFromConfig(sesCfg), cfg.Email.FromAddress, logger)
	mediaStore := services.NewS3MediaStore(manager.NewUploader(s3.NewFromConfig(s3Cfg)), cfg.Media.Bucket, cfg.Media.PublicBaseURL)

	// Initialize services
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandomMs,
	})
	if !cfg.Auth.BootstrapEnabled() {
		logger.Warn("bootstrap admin credentials not set; the first admin login cannot create a credential")
	}
	authService := services.NewAuthService(credentialRepo, sessionRepo, loginAttemptRepo, timingDelay, services.AuthConfig{
		BootstrapUsername: cfg.Auth.BootstrapUsername,
		BootstrapPassword: cfg.Auth.BootstrapPassword,
		SessionLifetime:   cfg.Auth.SessionLifetime,
		LockoutThreshold:  cfg.Guard.LockoutThreshold,
		LockoutDuration:   cfg.Guard.LockoutDuration,
		FailureWindow:     cfg.Guard.FailureWindow,
	}, m, logger, auditLogger)

	rateLimitService := services.NewRateLimitService(rateLimitRepo, cfg.Guard.Cooldowns, m, logger)
	idempotencyService := services.NewIdempotencyService(idempotencyRepo, cfg.Guard.ProcessingLease, logger)

	notifier := services.NewTelegramNotifier(services.TelegramConfig{
		BotToken: cfg.Notify.TelegramBotToken,
		APIBase:  cfg.Notify.TelegramAPIBase,
		Timeout:  cfg.Notify.Timeout,
	}, m, logger)
	submissionService := services.NewSubmissionService(
		idempotencyService,
		rateLimitService,
		notifier,
		registrationRepo,
		contactRepo,
		services.SubmissionConfig{
			RegisterChatID: cfg.Notify.RegisterChatID,
			ContactChatID:  cfg.Notify.ContactChatID,
		},
		m,
		logger,
		auditLogger,
	)

	generator, err := services.NewGeminiGenerator(context.Background(), services.GeminiConfig{
		APIKey:  cfg.Chat.GeminiAPIKey,
		Model:   cfg.Chat.Model,
		APIBase: cfg.Chat.APIBase,
		Timeout: cfg.Chat.Timeout,
	}, m, logger)
	if err != nil {
		logger.Error("failed to create text generator", slog.Any("error", err))
		os.Exit(1)
	}
	chatService := services.NewChatService(generator, rateLimitService, cfg.Chat.MaxMessageLen, logger)

	newsService := services.NewNewsService(newsRepo, logger, auditLogger)
	mediaService := services.NewMediaService(mediaStore, m, logger)
	evaluationService := services.NewEvaluationService(workshopRepo, settingsRepo, mailer, cfg.Email.DefaultRecipients, logger)
	adminService := services.NewAdminService(registrationRepo, settingsRepo, cfg.Email.DefaultRecipients, logger, auditLogger)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{
		TrustForwardedFor: cfg.Server.TrustForwardedFor,
		TrustedProxies:    cfg.Server.TrustedProxies,
	}
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, ipConfig),
		Submission: handlers.NewSubmissionHandler(submissionService, ipConfig),
		Chat:       handlers.NewChatHandler(chatService, ipConfig),
		News:       handlers.NewNewsHandler(newsService),
		Media:      handlers.NewMediaHandler(mediaService, cfg.Media.MaxUploadBytes),
		Workshop:   handlers.NewWorkshopHandler(evaluationService),
		Admin:      handlers.NewAdminHandler(adminService),
		Health:     handlers.NewHealthHandler(db),
	}

	floodGuard := middlewareCustom.DefaultFloodGuard(ipConfig)
	floodGuard.RequestsPerMinute = cfg.Guard.FloodRequestsPerMinute

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middlewareCustom.Instrument(m))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, h, authService, floodGuard, registry)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
