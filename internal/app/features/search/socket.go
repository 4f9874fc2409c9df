// internal/app/features/search/socket.go
package search

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/debounce"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Query is a client message. Submit is set when the user pressed Enter,
// which bypasses the quiet period.
type Query struct {
	Q      string `json:"q"`
	Submit bool   `json:"submit"`
}

// Results is a server message answering the latest settled query.
type Results struct {
	Query string `json:"query"`
	Hits  []Hit  `json:"hits"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

// conn serialises writes; the read loop, the debounce timer and the
// pinger all write.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ServeSocket handles GET /search/ws?scope=courses|projects|groups.
//
// The collection is fetched once when the socket opens. Typed queries are
// debounced; each settled query is filtered locally and answered with one
// Results message.
func (h *Handler) ServeSocket(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	sc, ok := h.newScope(query.Get(r, "scope"), u)
	if !ok {
		http.Error(w, "unknown search scope", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		h.Log.Debug("search socket upgrade failed", zap.Error(err))
		return
	}
	c := &conn{ws: ws}
	defer ws.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	loadErr := sc.load(ctx)
	cancel()
	if loadErr != nil {
		h.Log.Warn("search load failed", zap.Error(loadErr))
		_ = c.send(Results{Error: api.Message(loadErr)})
	}

	answer := func(q string) {
		if loadErr != nil {
			return
		}
		q = strings.TrimSpace(q)
		hits, total := sc.hits(q)
		if err := c.send(Results{Query: q, Hits: hits, Total: total}); err != nil {
			h.Log.Debug("search socket write failed", zap.Error(err))
		}
	}
	deb := debounce.New(h.Quiet, answer)
	defer deb.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingPeriod)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.ping(); err != nil {
					return
				}
			}
		}
	}()

	ws.SetReadLimit(maxQueryBytes)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error { return ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		var msg Query
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("search socket closed", zap.Error(err))
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		if msg.Submit {
			deb.Flush(msg.Q)
			continue
		}
		deb.Push(msg.Q)
	}
}
