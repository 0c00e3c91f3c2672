package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"accredapi/internal/http/middleware"
	"accredapi/internal/model"
)

// DefaultHeartbeat keeps idle proxies from closing the event stream.
const DefaultHeartbeat = 25 * time.Second

// EventSubscriber is the receiving side of the document-updates channel.
// The returned channel is closed once ctx is cancelled.
type EventSubscriber interface {
	Subscribe(ctx context.Context) <-chan model.Event
}

// StreamEvents godoc
// @Summary Document update stream
// @Description Server-Sent Events; each event names created, updated or deleted and carries
// @Description the affected scope. Clients re-read lists and counts after receiving one.
// @Tags events
// @Produce text/event-stream
// @Param access_token query string false "bearer token for clients that cannot set headers"
// @Success 200
// @Router /events [get]
//
// Streams end when base is cancelled, so a server shutdown is not held open by connected clients.
func StreamEvents(base context.Context, sub EventSubscriber, heartbeat time.Duration, log *slog.Logger) fiber.Handler {
	if base == nil {
		base = context.Background()
	}
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		// The stream outlives the handler, so it hangs off the server lifetime instead of the request.
		ctx, cancel := context.WithCancel(base)
		events := sub.Subscribe(ctx)
		rid := middleware.RequestIDFrom(c)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()

			fmt.Fprint(w, ": connected\n\n")
			if err := w.Flush(); err != nil {
				return
			}
			for {
				select {
				case <-ctx.Done():
					return
				case e, ok := <-events:
					if !ok {
						return
					}
					if err := writeEvent(w, e); err != nil {
						log.Debug("event_stream_closed", "request_id", rid, "error", err.Error())
						return
					}
				case <-ticker.C:
					fmt.Fprint(w, ": ping\n\n")
					if err := w.Flush(); err != nil {
						log.Debug("event_stream_closed", "request_id", rid, "error", err.Error())
						return
					}
				}
			}
		}))
		return nil
	}
}

func writeEvent(w *bufio.Writer, e model.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
	return w.Flush()
}
