package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"accredapi/internal/logging"
	"accredapi/internal/service"
)

// Deps is everything the routes need. Auth guards every non-ops route; a nil Auth
// leaves them open, which only tests should do. Cancelling Streams ends every open
// event stream; main cancels it before shutting the server down.
type Deps struct {
	DB         *sql.DB
	Documents  service.DocumentService
	Reviews    service.ReviewService
	Aggregates service.AggregateService
	Events     EventSubscriber
	Auth       fiber.Handler
	Heartbeat  time.Duration
	Streams    context.Context
	Log        *slog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, validate shape, call one service method, map the result.
func RegisterRoutes(app *fiber.App, d Deps) {
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	guard := d.Auth
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", guard, ListDocuments(d.Documents, log))
	app.Post("/documents", guard, UploadDocument(d.Documents, log))
	app.Get("/documents/:id", guard, GetDocument(d.Documents, log))
	app.Get("/documents/:id/content", guard, DownloadDocument(d.Documents, log))
	app.Patch("/documents/:id/status", guard, DecideDocument(d.Reviews, log))
	app.Delete("/documents/:id", guard, DeleteDocument(d.Documents, log))

	app.Get("/counts", guard, GetCounts(d.Aggregates, log))
	app.Get("/counts/breakdown", guard, GetBreakdown(d.Aggregates, log))
	app.Get("/programs", guard, ListPrograms(d.Aggregates, log))
	app.Get("/programs/:id/navigation", guard, GetNavigation(d.Aggregates, log))

	if d.Events != nil {
		app.Get("/events", guard, StreamEvents(d.Streams, d.Events, d.Heartbeat, log))
	}
}
