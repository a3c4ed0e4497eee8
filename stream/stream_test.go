package stream

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pthm-cable/glimmer/field"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestNewFrame(t *testing.T) {
	cfg := field.DefaultConfig()
	cfg.Count = 2
	f := field.New(500, 400, cfg, rand.New(rand.NewSource(1)))
	p := f.Particle(0)
	p.X, p.Y = 100, 100
	f.SetParticle(0, p)
	p = f.Particle(1)
	p.X, p.Y = 200, 100
	f.SetParticle(1, p)

	fr := NewFrame(9, f)
	if fr.Frame != 9 || fr.Width != 500 || fr.Height != 400 {
		t.Errorf("frame header = %d %vx%v", fr.Frame, fr.Width, fr.Height)
	}
	if len(fr.Particles) != 2 || fr.Particles[1].X != 200 {
		t.Errorf("particles = %+v", fr.Particles)
	}
	if len(fr.Links) != 1 || fr.Links[0].Alpha != 0.75 {
		t.Errorf("links = %+v, want one at alpha 0.75", fr.Links)
	}

	data, err := fr.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), `"links":[{"a":0,"b":1,"alpha":0.75}]`) {
		t.Errorf("encoded frame = %s", data)
	}
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(Options{})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	a := dial(t, srv.URL)
	b := dial(t, srv.URL)
	waitFor(t, func() bool { return hub.Len() == 2 })

	if n := hub.Publish([]byte(`{"frame":1}`)); n != 2 {
		t.Errorf("Publish() = %d, want 2", n)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed: %v", err)
		}
		var got map[string]int
		if err := json.Unmarshal(msg, &got); err != nil || got["frame"] != 1 {
			t.Errorf("message = %s (%v)", msg, err)
		}
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	hub := NewHub(Options{})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv.URL)
	waitFor(t, func() bool { return hub.Len() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Len() == 0 })
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(Options{ClientBuffer: 1})
	c := &client{send: make(chan []byte, 1)}
	hub.register(c)

	if n := hub.Publish([]byte("one")); n != 1 {
		t.Fatalf("first Publish() = %d, want 1", n)
	}
	// Buffer full and nobody reading
	if n := hub.Publish([]byte("two")); n != 0 {
		t.Errorf("second Publish() = %d, want 0", n)
	}
	if hub.Len() != 0 {
		t.Errorf("Len() = %d, want slow client dropped", hub.Len())
	}
	if _, ok := <-c.send; !ok {
		t.Error("queued message lost")
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after drop")
	}
}

func TestHubCloseRejectsClients(t *testing.T) {
	hub := NewHub(Options{})
	hub.Close()
	if hub.register(&client{send: make(chan []byte, 1)}) {
		t.Error("register succeeded after Close")
	}
}

func TestServerListenShutdown(t *testing.T) {
	hub := NewHub(Options{})
	s, err := Listen("127.0.0.1:0", "/ws", hub)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	conn := dial(t, "http://"+s.Addr()+"/ws")
	waitFor(t, func() bool { return hub.Len() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after shutdown = %v, want normal close", err)
	}
}
