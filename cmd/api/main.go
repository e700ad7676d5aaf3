package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/config"
	"alfredoptarigan/submission-validator/internal/handlers"
	applog "alfredoptarigan/submission-validator/internal/logger"
	"alfredoptarigan/submission-validator/internal/repositories"
	"alfredoptarigan/submission-validator/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := applog.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	ctx := context.Background()

	// Build the submission type registry
	registry, err := buildRegistry(cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to build submission type registry", zap.Error(err))
	}
	zlog.Info("✅ Registry initialized", zap.Int("submission_types", len(registry.Profiles())))

	// Initialize session store
	store, closeStore, err := buildSessionStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize session store", zap.Error(err))
	}
	defer closeStore()

	// Initialize analyzer
	analyzer, err := buildAnalyzer(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize analyzer", zap.Error(err))
	}
	zlog.Info("✅ Analyzer initialized", zap.String("provider", analyzer.Provider()))

	normalizer, err := services.NewReportNormalizer(zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize report normalizer", zap.Error(err))
	}

	validatorService := services.NewValidatorService(
		registry,
		services.NewPromptBuilder(cfg.Validation.ExcerptLimit),
		analyzer,
		normalizer,
		zlog,
	)
	sessionService := services.NewSessionService(store, validatorService, zlog)
	verifier := services.NewCallerVerifier(services.AuthConfig{
		URL:          cfg.Auth.URL,
		AnonKey:      cfg.Auth.AnonKey,
		StaticTokens: cfg.Auth.StaticTokens,
	}, zlog)
	zlog.Info("✅ Services initialized successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Submission Validator API",
		// Allows one full analyzer retry cycle before the connection is cut.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(max(cfg.Analyzer.MaxAttempts, 1))*cfg.Analyzer.Timeout + 30*time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, apikey, x-client-info",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes
	handlers.Register(app, handlers.Routes{
		Verifier:        verifier,
		Validation:      handlers.NewValidationHandler(validatorService),
		Sessions:        handlers.NewSessionHandler(sessionService),
		SubmissionTypes: handlers.NewSubmissionTypeHandler(registry),
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Submission Validator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/validate-submission",
				"GET /api/v1/submission-types",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"PUT /api/v1/sessions/:id/file",
				"PUT /api/v1/sessions/:id/category",
				"POST /api/v1/sessions/:id/back",
				"POST /api/v1/sessions/:id/validate",
				"POST /api/v1/sessions/:id/reset",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			zlog.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// buildRegistry merges the Postgres overrides, when enabled, over the
// built-in submission types.
func buildRegistry(cfg *config.Config, zlog *zap.Logger) (*services.Registry, error) {
	profiles := services.DefaultProfiles()

	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg, zlog)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err == nil {
			defer sqlDB.Close()
		}

		overrides, err := services.LoadProfileOverrides(repositories.NewSubmissionTypeRepository(db))
		if err != nil {
			return nil, err
		}
		zlog.Info("✅ Submission type overrides loaded", zap.Int("count", len(overrides)))
		profiles = services.MergeProfiles(profiles, overrides)
	}

	return services.NewRegistry(profiles)
}

func buildSessionStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (repositories.SessionStore, func(), error) {
	if !cfg.Redis.Enabled {
		zlog.Info("✅ Using in-memory session store")
		return repositories.NewMemorySessionStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	zlog.Info("✅ Redis session store connected", zap.String("addr", cfg.Redis.Addr))
	return repositories.NewRedisSessionStore(rdb, cfg.Redis.SessionTTL), func() { _ = rdb.Close() }, nil
}

func buildAnalyzer(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (services.Analyzer, error) {
	switch cfg.Analyzer.Provider {
	case "gemini":
		return services.NewGeminiAnalyzer(ctx, services.GeminiConfig{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			MaxAttempts: cfg.Analyzer.MaxAttempts,
			RetryDelay:  cfg.Analyzer.RetryDelay,
			Timeout:     cfg.Analyzer.Timeout,
		}, zlog)
	case "gateway", "":
		return services.NewGatewayAnalyzer(services.GatewayConfig{
			APIKey:      cfg.Analyzer.APIKey,
			URL:         cfg.Analyzer.URL,
			Model:       cfg.Analyzer.Model,
			Timeout:     cfg.Analyzer.Timeout,
			MaxAttempts: cfg.Analyzer.MaxAttempts,
			RetryDelay:  cfg.Analyzer.RetryDelay,
		}, zlog), nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.Analyzer.Provider)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
