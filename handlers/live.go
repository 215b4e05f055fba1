package handlers

import (
	"bufio"
	"fmt"
	"log/slog"
	"time"

	"slam-scoring-system/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const sseKeepAlive = 15 * time.Second

// SetupLiveRoutes exposes the hub as a websocket (read/write) and as an SSE
// stream (read only).
func SetupLiveRoutes(r fiber.Router, hub *services.Hub) {
	r.Get("/live", requireUpgrade, websocket.New(liveSocket(hub)))
	r.Get("/live/stream", liveStream(hub))
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// liveSocket rebroadcasts every text message a client sends to all other
// listeners and forwards hub traffic back to the client.
func liveSocket(hub *services.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		l := hub.Subscribe()
		defer hub.Unsubscribe(l)
		slog.Debug("live socket connected", "listener_id", l.ID())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				mt, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if mt == websocket.TextMessage {
					hub.Broadcast(l, msg)
				}
			}
		}()

		for {
			select {
			case msg, ok := <-l.Messages():
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-done:
				slog.Debug("live socket closed", "listener_id", l.ID())
				return
			}
		}
	}
}

// liveStream streams hub traffic as server-sent events.
func liveStream(hub *services.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		l := hub.Subscribe()
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer hub.Unsubscribe(l)

			ticker := time.NewTicker(sseKeepAlive)
			defer ticker.Stop()

			w.WriteString(":\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			for {
				select {
				case msg, ok := <-l.Messages():
					if !ok {
						return
					}
					fmt.Fprintf(w, "data: %s\n\n", msg)
				case <-ticker.C:
					w.WriteString(":\n\n")
				}
				// a failed flush means the client went away
				if err := w.Flush(); err != nil {
					return
				}
			}
		})
		return nil
	}
}
