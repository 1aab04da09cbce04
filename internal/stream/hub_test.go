package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/sim"
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

func TestBroadcastReachesClient(t *testing.T) {
	hub := NewHub(nil, metrics.NewCollector())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.Clients() == 1 })

	frame := sim.Frame{
		Tick:  42,
		Speed: 2,
		Bodies: []sim.BodyState{
			{Handle: 0, Name: "Mercury", Kind: "planet", X: 0.39},
		},
	}
	if err := hub.Broadcast(frame); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var got sim.Frame
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Tick != 42 || got.Speed != 2 || len(got.Bodies) != 1 || got.Bodies[0].Name != "Mercury" {
		t.Errorf("frame = %+v", got)
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Clients() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 0 })
}

func TestBroadcastDropsForSlowClient(t *testing.T) {
	hub := NewHub(nil, nil)
	slow := &client{send: make(chan []byte, 1)}
	hub.clients[slow] = struct{}{}

	for i := 0; i < 3; i++ {
		if err := hub.Broadcast(sim.Frame{Tick: uint64(i)}); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
	}

	if hub.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", hub.Dropped())
	}
	// The first frame is the one kept.
	var got sim.Frame
	if err := json.Unmarshal(<-slow.send, &got); err != nil || got.Tick != 0 {
		t.Errorf("queued frame = %+v, %v", got, err)
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil, nil)
	if err := hub.Broadcast(sim.Frame{}); err != nil {
		t.Errorf("Broadcast: %v", err)
	}
	hub.Close()
}
