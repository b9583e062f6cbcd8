package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/parking-service/internal/watch"
)

// StreamHandler pushes change notifications to connected dashboards as
// server-sent events. Clients treat each event as "something changed,
// re-fetch"; the payload names the collection and operation only.
type StreamHandler struct {
	sync *watch.Synchronizer
}

// NewStreamHandler constructs handler.
func NewStreamHandler(synchronizer *watch.Synchronizer) *StreamHandler {
	return &StreamHandler{sync: synchronizer}
}

// Changes handles GET /stream. The observer registration is released
// when the client disconnects; other streams stay open.
func (h *StreamHandler) Changes(c *fiber.Ctx) error {
	ch, cancel := h.sync.Watch()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
