package feed

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(log.New(io.Discard))
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Clients() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Clients() = %d, expected %d", hub.Clients(), want)
}

func TestNewMessage(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name     string
		outcome  engine.Outcome
		wantType string
	}{
		{"level complete", engine.LevelCompleteEvent{Level: 4, Score: 900, Stars: 3}, TypeLevelComplete},
		{"level lost", engine.GameOverEvent{Level: 4, Score: 100}, TypeGameOver},
		{"infinite", engine.InfiniteGameOverEvent{Score: 5000, Wave: 6}, TypeInfiniteOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage("vega", tt.outcome, at)
			if err != nil {
				t.Fatalf("NewMessage() error: %v", err)
			}
			if msg.Type != tt.wantType || msg.Player != "vega" || !msg.Time.Equal(at) {
				t.Errorf("NewMessage() = %+v", msg)
			}
		})
	}

	if _, err := NewMessage("vega", nil, at); err == nil {
		t.Error("NewMessage(nil) should fail")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	waitClients(t, hub, 2)

	if err := hub.Publish("vega", engine.InfiniteGameOverEvent{Score: 4200, Wave: 5, IsNewHighScore: true}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got struct {
			Type    string          `json:"type"`
			Player  string          `json:"player"`
			Payload InfinitePayload `json:"payload"`
		}
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("ReadJSON() failed: %v", err)
		}
		if got.Type != TypeInfiniteOver || got.Player != "vega" {
			t.Errorf("message = %+v", got)
		}
		if got.Payload.Score != 4200 || got.Payload.Wave != 5 || !got.Payload.IsNewHighScore {
			t.Errorf("payload = %+v", got.Payload)
		}
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	waitClients(t, hub, 2)

	a.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	a.Close()
	waitClients(t, hub, 1)

	if sent := hub.Broadcast(Message{Type: TypeGameOver, Player: "rigel"}); sent != 1 {
		t.Errorf("Broadcast() reached %d clients, expected 1", sent)
	}

	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := b.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	if msg.Player != "rigel" {
		t.Errorf("Player = %q, expected rigel", msg.Player)
	}
}

func TestHubClose(t *testing.T) {
	hub, url := startHub(t)
	dial(t, url)
	waitClients(t, hub, 1)

	hub.Close()
	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after Close, expected 0", hub.Clients())
	}
	if sent := hub.Broadcast(Message{Type: TypeGameOver}); sent != 0 {
		t.Errorf("Broadcast() after Close reached %d clients", sent)
	}
}
