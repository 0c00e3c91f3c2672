package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"accredapi/docs"
	"accredapi/internal/config"
	"accredapi/internal/database"
	"accredapi/internal/database/migration"
	"accredapi/internal/database/seed"
	handlers "accredapi/internal/http/handler"
	"accredapi/internal/http/middleware"
	"accredapi/internal/logging"
	"accredapi/internal/notify"
	tracing "accredapi/internal/otel"
	"accredapi/internal/repository/postgres"
	"accredapi/internal/service"
	"accredapi/internal/storage"
)

// @title Accreditation Evidence API
// @version 1.0
// @description Upload, review and track accreditation evidence per program, area and parameter.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location(), cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server_exit", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", "error", err.Error())
		}
	}()

	// One traced pool serves both the raw SQL documents repository and gorm.
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db.SQL, log, cfg.Database.Host); err != nil {
		return err
	}
	if cfg.Seed.OnStart {
		if _, err := seed.Run(ctx, db.Gorm, cfg.Seed.Programs, log); err != nil {
			return err
		}
	}

	// S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return err
	}

	// Events stay in-process unless REDIS_URL fans them out across replicas.
	hub := notify.NewHub(notify.DefaultBufferSize, log)
	var pub notify.Publisher = hub
	if cfg.Redis.URL != "" {
		client, err := notify.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()

		bus := notify.NewRedisBus(client, cfg.Redis.Topic, hub, log)
		if err := bus.Start(ctx); err != nil {
			return err
		}
		pub = bus
	}

	reg := prometheus.DefaultRegisterer

	docRepo := postgres.NewDocumentPostgres(db.SQL)
	taxonomyRepo := postgres.NewTaxonomyGorm(db.Gorm)

	docSvc := service.NewDocumentService(objStore, docRepo, taxonomyRepo, pub, log, service.DocumentOptions{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		PresignTTL:     cfg.MinIO.PresignTTL,
	})
	reviewSvc, err := service.NewReviewService(docRepo, objStore, pub, log, reg, cfg.MinIO.PresignTTL)
	if err != nil {
		return err
	}
	aggSvc := service.NewAggregateService(docRepo, taxonomyRepo)

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// A request may carry a file and a video, each up to the upload limit.
		BodyLimit: int(2*cfg.Upload.MaxBytes) + 1<<20,
	})

	// RequestID first so every later middleware and handler can read it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db.SQL,
		Documents:  docSvc,
		Reviews:    reviewSvc,
		Aggregates: aggSvc,
		Events:     hub,
		Auth:       middleware.Authenticate([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer),
		Heartbeat:  handlers.DefaultHeartbeat,
		Streams:    ctx,
		Log:        log,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_listening", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// ctx is done here, which has already closed every event stream.
	log.Info("server_shutdown")
	return app.ShutdownWithTimeout(10 * time.Second)
}
