package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/miradorstack/mirador-twin/internal/api"
	"github.com/miradorstack/mirador-twin/internal/engine"
	"github.com/miradorstack/mirador-twin/internal/extractors"
	twinv1 "github.com/miradorstack/mirador-twin/internal/grpc/twinv1"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

// TwinService implements the gRPC TwinEngine service on top of one engine.
type TwinService struct {
	twinv1.UnimplementedTwinEngineServer

	logger    *slog.Logger
	engine    *engine.Engine
	extractor *extractors.TelemetryExtractor
	latencies *utils.LatencyTracker
}

// NewTwinService constructs the service facade.
func NewTwinService(logger *slog.Logger, eng *engine.Engine, extractor *extractors.TelemetryExtractor) *TwinService {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = extractors.NewTelemetryExtractor()
	}
	return &TwinService{
		logger:    logger,
		engine:    eng,
		extractor: extractor,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Start moves the simulation to running.
func (s *TwinService) Start(ctx context.Context, _ *emptypb.Empty) (*twinv1.ControlResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	changed := s.engine.Start()
	s.logger.Info("simulation start requested", slog.Bool("changed", changed))
	return &twinv1.ControlResponse{Changed: changed, Status: s.status()}, nil
}

// Pause halts ticking.
func (s *TwinService) Pause(ctx context.Context, _ *emptypb.Empty) (*twinv1.ControlResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	changed := s.engine.Pause()
	s.logger.Info("simulation pause requested", slog.Bool("changed", changed))
	return &twinv1.ControlResponse{Changed: changed, Status: s.status()}, nil
}

// Stop halts ticking and restores every node.
func (s *TwinService) Stop(ctx context.Context, _ *emptypb.Empty) (*twinv1.ControlResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.engine.Stop()
	s.logger.Info("simulation stopped")
	return &twinv1.ControlResponse{Changed: true, Status: s.status()}, nil
}

// Reset restores every node without touching the clock state.
func (s *TwinService) Reset(ctx context.Context, _ *emptypb.Empty) (*twinv1.ControlResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.engine.Reset()
	return &twinv1.ControlResponse{Changed: true, Status: s.status()}, nil
}

// GetStatus describes the clock and event log.
func (s *TwinService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*twinv1.StatusResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.status(), nil
}

// FailNode drives a node to zero health.
func (s *TwinService) FailNode(ctx context.Context, req *twinv1.FailNodeRequest) (*twinv1.InjectionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, duration, err := s.injectionArgs(req.NodeId, req.DurationMs)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	applied := s.engine.FailNode(id, duration)
	s.observe(start)
	s.logger.Info("fail injected", slog.String("node", id), slog.Bool("applied", applied), slog.Duration("recover_after", duration))
	return s.injectionResponse(id, applied), nil
}

// DegradeNode sets a node to a partial health level.
func (s *TwinService) DegradeNode(ctx context.Context, req *twinv1.DegradeNodeRequest) (*twinv1.InjectionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, duration, err := s.injectionArgs(req.NodeId, req.DurationMs)
	if err != nil {
		return nil, err
	}
	if req.Level < 0 || req.Level > 100 {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("level must be within [0,100], got %d", req.Level))
	}
	start := time.Now()
	applied := s.engine.DegradeNode(id, int(req.Level), duration)
	s.observe(start)
	s.logger.Info("degradation injected", slog.String("node", id), slog.Int("level", int(req.Level)), slog.Bool("applied", applied))
	return s.injectionResponse(id, applied), nil
}

// RecoverNode restores a node to full health.
func (s *TwinService) RecoverNode(ctx context.Context, req *twinv1.RecoverNodeRequest) (*twinv1.InjectionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, _, err := s.injectionArgs(req.NodeId, 0)
	if err != nil {
		return nil, err
	}
	applied := s.engine.RecoverNode(id)
	s.logger.Info("recovery requested", slog.String("node", id), slog.Bool("applied", applied))
	return s.injectionResponse(id, applied), nil
}

// CalculateBlastRadius returns the static failure footprint of an epicenter.
func (s *TwinService) CalculateBlastRadius(ctx context.Context, req *twinv1.BlastRadiusRequest) (*twinv1.BlastRadius, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, err := s.knownNode(req.Epicenter)
	if err != nil {
		return nil, err
	}
	return api.ToWireBlastRadius(s.engine.CalculateBlastRadius(id)), nil
}

// GetHealthState returns one node's record.
func (s *TwinService) GetHealthState(ctx context.Context, req *twinv1.HealthStateRequest) (*twinv1.HealthState, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, err := s.knownNode(req.NodeId)
	if err != nil {
		return nil, err
	}
	rec, _ := s.engine.HealthState(id)
	return api.ToWireHealthState(rec), nil
}

// ListHealthStates returns every node's record.
func (s *TwinService) ListHealthStates(ctx context.Context, _ *emptypb.Empty) (*twinv1.ListHealthStatesResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return api.ToWireHealthStates(s.engine.AllHealthStates()), nil
}

// GetTelemetry returns a node's sample history.
func (s *TwinService) GetTelemetry(ctx context.Context, req *twinv1.TelemetryRequest) (*twinv1.TelemetryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, err := s.knownNode(req.NodeId)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	return api.ToWireTelemetry(s.engine.Telemetry(id), int(req.Limit)), nil
}

// ListEvents pages the event log by cursor or returns the newest entries.
func (s *TwinService) ListEvents(ctx context.Context, req *twinv1.ListEventsRequest) (*twinv1.ListEventsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	if req.AfterSeq > 0 {
		events := s.engine.EventsSince(req.AfterSeq)
		if req.Limit > 0 && len(events) > int(req.Limit) {
			events = events[:req.Limit]
		}
		return api.ToWireEvents(events), nil
	}
	return api.ToWireEvents(s.engine.RecentEvents(int(req.Limit))), nil
}

// DetectAnomalies scores a node's retained telemetry.
func (s *TwinService) DetectAnomalies(ctx context.Context, req *twinv1.DetectAnomaliesRequest) (*twinv1.DetectAnomaliesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	id, err := s.knownNode(req.NodeId)
	if err != nil {
		return nil, err
	}
	if req.Threshold < 0 {
		return nil, status.Error(codes.InvalidArgument, "threshold must not be negative")
	}
	anomalies := s.extractor.Detect(s.engine.Telemetry(id), req.Threshold)
	return api.ToWireAnomalies(anomalies), nil
}

// InjectionLatencyP95 returns the p95 time spent applying fault injections.
func (s *TwinService) InjectionLatencyP95() time.Duration {
	return s.latencies.Percentile(95)
}

func (s *TwinService) ready() error {
	if s.engine == nil {
		return status.Error(codes.FailedPrecondition, "engine not configured")
	}
	return nil
}

func (s *TwinService) knownNode(raw string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	id, err := api.NodeIDFrom(raw)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	if _, ok := s.engine.HealthState(id); !ok {
		return "", status.Error(codes.NotFound, fmt.Sprintf("unknown node %q", id))
	}
	return id, nil
}

func (s *TwinService) injectionArgs(rawID string, durationMs int64) (string, time.Duration, error) {
	if err := s.ready(); err != nil {
		return "", 0, err
	}
	id, err := api.NodeIDFrom(rawID)
	if err != nil {
		return "", 0, status.Error(codes.InvalidArgument, err.Error())
	}
	duration, err := api.DurationFromMillis(durationMs)
	if err != nil {
		return "", 0, status.Error(codes.InvalidArgument, err.Error())
	}
	return id, duration, nil
}

// injectionResponse leaves Health unset for nodes the graph does not contain.
func (s *TwinService) injectionResponse(id string, applied bool) *twinv1.InjectionResponse {
	rec, ok := s.engine.HealthState(id)
	if !ok {
		return &twinv1.InjectionResponse{Applied: false}
	}
	return &twinv1.InjectionResponse{Applied: applied, Health: api.ToWireHealthState(rec)}
}

func (s *TwinService) observe(start time.Time) {
	s.latencies.Observe(time.Since(start))
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Debug("injection latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}
}

func (s *TwinService) status() *twinv1.StatusResponse {
	graph := s.engine.Graph()
	events := s.engine.Events()
	resp := &twinv1.StatusResponse{
		State:             string(s.engine.State()),
		Active:            s.engine.IsActive(),
		Tick:              s.engine.CurrentTick(),
		Nodes:             int32(len(graph.Nodes)),
		Edges:             int32(len(graph.Edges)),
		Events:            int32(len(events)),
		PendingRecoveries: int32(s.engine.PendingRecoveries()),
	}
	if len(events) > 0 {
		resp.LastSeq = events[len(events)-1].Seq
	}
	return resp
}
