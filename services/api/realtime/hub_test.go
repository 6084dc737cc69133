package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
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

func TestHubBroadcastsRecords(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conns := make([]*websocket.Conn, 2)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()
		conns[i] = conn
	}
	waitFor(t, func() bool { return hub.Len() == 2 })

	rec := db.NewRecord(plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 200, Light: 500}, plant.Evaluation{PlantState: 40}, time.Now())
	if err := hub.Publish(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	for _, conn := range conns {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var got db.Record
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatal(err)
		}
		if got.ID != rec.ID || got.SoilMoisture != 200 {
			t.Fatalf("received %+v", got)
		}
	}
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return hub.Len() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Len() == 0 })
}

func TestPublishWithoutClients(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	if err := hub.Publish(context.Background(), db.Record{}); err != nil {
		t.Fatal(err)
	}
}
