package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	twinv1 "github.com/miradorstack/mirador-twin/internal/grpc/twinv1"
)

type fakeService struct {
	twinv1.UnimplementedTwinEngineServer

	mu       sync.Mutex
	events   []*twinv1.Event
	degrades []*twinv1.DegradeNodeRequest
	fails    []*twinv1.FailNodeRequest
	lastList *twinv1.ListEventsRequest
}

func (f *fakeService) GetStatus(context.Context, *emptypb.Empty) (*twinv1.StatusResponse, error) {
	return &twinv1.StatusResponse{State: "running", Active: true, Tick: 12, Nodes: 3}, nil
}

func (f *fakeService) Start(context.Context, *emptypb.Empty) (*twinv1.ControlResponse, error) {
	return &twinv1.ControlResponse{Changed: true, Status: &twinv1.StatusResponse{State: "running"}}, nil
}

func (f *fakeService) Pause(context.Context, *emptypb.Empty) (*twinv1.ControlResponse, error) {
	return nil, status.Error(codes.FailedPrecondition, "engine not configured")
}

func (f *fakeService) GetHealthState(_ context.Context, req *twinv1.HealthStateRequest) (*twinv1.HealthState, error) {
	if req.NodeId != "api" {
		return nil, status.Error(codes.NotFound, "unknown node")
	}
	return &twinv1.HealthState{NodeId: "api", Health: 100, Status: "healthy"}, nil
}

func (f *fakeService) FailNode(_ context.Context, req *twinv1.FailNodeRequest) (*twinv1.InjectionResponse, error) {
	f.mu.Lock()
	f.fails = append(f.fails, req)
	f.mu.Unlock()
	return &twinv1.InjectionResponse{Applied: true, Health: &twinv1.HealthState{NodeId: req.NodeId, Status: "down"}}, nil
}

func (f *fakeService) DegradeNode(_ context.Context, req *twinv1.DegradeNodeRequest) (*twinv1.InjectionResponse, error) {
	f.mu.Lock()
	f.degrades = append(f.degrades, req)
	f.mu.Unlock()
	if req.Level > 100 {
		return nil, status.Error(codes.InvalidArgument, "level must be within [0,100]")
	}
	return &twinv1.InjectionResponse{Applied: true, Health: &twinv1.HealthState{NodeId: req.NodeId, Health: req.Level}}, nil
}

func (f *fakeService) ListEvents(_ context.Context, req *twinv1.ListEventsRequest) (*twinv1.ListEventsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = req
	out := make([]*twinv1.Event, 0)
	for _, ev := range f.events {
		if ev.Seq > req.AfterSeq {
			out = append(out, ev)
		}
	}
	return &twinv1.ListEventsResponse{Events: out}, nil
}

func (f *fakeService) appendEvent(ev *twinv1.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func newTestHTTPServer(svc twinv1.TwinEngineServer) *HTTPServer {
	return NewHTTPServer("127.0.0.1:0", nil, svc, nil)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPStatusAndControl(t *testing.T) {
	srv := newTestHTTPServer(&fakeService{})

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var st twinv1.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.State != "running" || st.Tick != 12 {
		t.Fatalf("unexpected status: %+v", st)
	}

	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/control/start", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected start to succeed, got %d", rec.Code)
	}
	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/control/pause", ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for failed precondition, got %d", rec.Code)
	}
	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/control/reset", ""); rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 for unimplemented reset, got %d", rec.Code)
	}
}

func TestHTTPHealthNotFound(t *testing.T) {
	srv := newTestHTTPServer(&fakeService{})

	if rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/health/api", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/health/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unknown node") {
		t.Fatalf("expected error message in body, got %s", rec.Body.String())
	}
}

func TestHTTPInjections(t *testing.T) {
	svc := &fakeService{}
	srv := newTestHTTPServer(svc)

	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/nodes/db/fail", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected fail without body to succeed, got %d", rec.Code)
	}
	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/nodes/db/fail", `{"durationMs":5000}`); rec.Code != http.StatusOK {
		t.Fatalf("expected fail with duration to succeed, got %d", rec.Code)
	}
	if len(svc.fails) != 2 || svc.fails[1].DurationMs != 5000 || svc.fails[0].NodeId != "db" {
		t.Fatalf("unexpected fail requests: %+v", svc.fails)
	}

	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/nodes/api/degrade", `{"durationMs":10}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when level is missing, got %d", rec.Code)
	}
	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/nodes/api/degrade", `{"level":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected explicit zero level to be accepted, got %d", rec.Code)
	}
	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/nodes/api/degrade", `{"level":150}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid level, got %d", rec.Code)
	}
	if len(svc.degrades) != 2 || svc.degrades[0].Level != 0 {
		t.Fatalf("unexpected degrade requests: %+v", svc.degrades)
	}
}

func TestHTTPEventQueryParams(t *testing.T) {
	svc := &fakeService{}
	srv := newTestHTTPServer(svc)

	if rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/events?limit=5&after=3", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastList.Limit != 5 || svc.lastList.AfterSeq != 3 {
		t.Fatalf("unexpected list request: %+v", svc.lastList)
	}
	if rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/events?limit=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", rec.Code)
	}
	svc.lastList = nil
	for _, path := range []string{"/api/v1/events?limit=4294967297", "/api/v1/events?after=2147483648", "/api/v1/telemetry/api?limit=9999999999"} {
		if rec := doRequest(t, srv.Handler(), http.MethodGet, path, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for out-of-range value, got %d", path, rec.Code)
		}
	}
	if svc.lastList != nil {
		t.Fatalf("out-of-range limit must not reach the service, got %+v", svc.lastList)
	}
	if rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/anomalies/api?threshold=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed threshold, got %d", rec.Code)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[codes.Code]int{
		codes.InvalidArgument:    http.StatusBadRequest,
		codes.NotFound:           http.StatusNotFound,
		codes.FailedPrecondition: http.StatusConflict,
		codes.Unavailable:        http.StatusServiceUnavailable,
		codes.Internal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := httpStatus(code); got != want {
			t.Fatalf("%v: expected %d, got %d", code, want, got)
		}
	}
}
