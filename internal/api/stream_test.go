package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	twinv1 "github.com/miradorstack/mirador-twin/internal/grpc/twinv1"
)

func TestEventStreamDeliversAfterCursor(t *testing.T) {
	svc := &fakeService{}
	svc.appendEvent(&twinv1.Event{Id: "e1", Seq: 1, Type: "simulation-started"})
	svc.appendEvent(&twinv1.Event{Id: "e2", Seq: 2, Type: "node-failed", NodeId: "db"})

	srv := NewHTTPServer("127.0.0.1:0", nil, svc, nil, WithStreamPollInterval(10*time.Millisecond))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/events/stream?after=1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first twinv1.Event
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read: %v", err)
	}
	if first.Seq != 2 || first.NodeId != "db" {
		t.Fatalf("expected event after cursor, got %+v", first)
	}

	svc.appendEvent(&twinv1.Event{Id: "e3", Seq: 3, Type: "cascade-started", NodeId: "api"})
	var second twinv1.Event
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read: %v", err)
	}
	if second.Seq != 3 {
		t.Fatalf("expected newly appended event, got %+v", second)
	}
}

func TestEventStreamRejectsBadCursor(t *testing.T) {
	srv := newTestHTTPServer(&fakeService{})
	rec := doRequest(t, srv.Handler(), "GET", "/api/v1/events/stream?after=x", "")
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
