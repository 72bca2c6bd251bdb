// Package feed broadcasts finished Nebula sessions to websocket clients.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

// Message types.
const (
	TypeLevelComplete = "level_complete"
	TypeGameOver      = "game_over"
	TypeInfiniteOver  = "infinite_game_over"
)

const writeTimeout = 5 * time.Second

// Message is one broadcast outcome.
type Message struct {
	Type    string    `json:"type"`
	Player  string    `json:"player"`
	Time    time.Time `json:"time"`
	Payload any       `json:"payload"`
}

// LevelPayload carries a level outcome.
type LevelPayload struct {
	Level     int  `json:"level"`
	Score     int  `json:"score"`
	Stars     int  `json:"stars,omitempty"`
	ShotsUsed int  `json:"shots_used,omitempty"`
	Popped    int  `json:"popped"`
	Won       bool `json:"won"`
}

// InfinitePayload carries a wave run outcome.
type InfinitePayload struct {
	Score          int  `json:"score"`
	Wave           int  `json:"wave"`
	Popped         int  `json:"popped"`
	IsNewHighScore bool `json:"new_high_score"`
	IsNewHighWave  bool `json:"new_high_wave"`
}

// NewMessage builds the message for a terminal event.
func NewMessage(player string, o engine.Outcome, at time.Time) (Message, error) {
	msg := Message{Player: player, Time: at.UTC()}
	switch e := o.(type) {
	case engine.LevelCompleteEvent:
		msg.Type = TypeLevelComplete
		msg.Payload = LevelPayload{Level: e.Level, Score: e.Score, Stars: e.Stars, ShotsUsed: e.ShotsUsed, Popped: e.Popped, Won: true}
	case engine.GameOverEvent:
		msg.Type = TypeGameOver
		msg.Payload = LevelPayload{Level: e.Level, Score: e.Score, Popped: e.Popped}
	case engine.InfiniteGameOverEvent:
		msg.Type = TypeInfiniteOver
		msg.Payload = InfinitePayload{
			Score:          e.Score,
			Wave:           e.Wave,
			Popped:         e.Popped,
			IsNewHighScore: e.IsNewHighScore,
			IsNewHighWave:  e.IsNewHighWave,
		}
	default:
		return Message{}, fmt.Errorf("feed: unsupported outcome %T", o)
	}
	return msg, nil
}

// Hub tracks connected clients. It implements http.Handler: every request
// is upgraded and kept until the client goes away.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("feed client connected", "remote", r.RemoteAddr)

	// Clients only listen. Reading detects the close handshake.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends msg to every client. Clients that fail the write are
// dropped. It returns how many clients received the message.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("dropping feed client", "error", err)
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// Publish builds and broadcasts an outcome message.
func (h *Hub) Publish(player string, o engine.Outcome) error {
	msg, err := NewMessage(player, o, time.Now())
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Serve runs an HTTP server with the hub mounted at /feed until ctx is
// cancelled.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/feed", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("feed: server error: %w", err)
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
