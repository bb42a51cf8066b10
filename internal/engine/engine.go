package engine

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/mirador-twin/internal/metrics"
	"github.com/miradorstack/mirador-twin/internal/models"
)

// State is the simulation clock state.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Options tunes a simulation run. Zero values fall back to DefaultOptions.
type Options struct {
	// Seed for telemetry and probabilistic recovery; 0 seeds from wall time.
	Seed         int64
	HistorySize  int
	EventLogSize int
	// TickDuration is the simulated time one tick represents.
	TickDuration time.Duration
	// RecoveryThreshold is how long a node must be down before it may self-heal.
	RecoveryThreshold   time.Duration
	RecoveryProbability float64
	DisableAutoRecovery bool
	MinutesPerHop       int
	DefaultSLA          models.SLATargets
	Policy              *Policy
	Now                 func() time.Time
}

// DefaultOptions returns the stock simulation tuning.
func DefaultOptions() Options {
	return Options{
		HistorySize:         defaultHistorySize,
		EventLogSize:        defaultEventLogSize,
		TickDuration:        time.Second,
		RecoveryThreshold:   30 * time.Second,
		RecoveryProbability: 0.7,
		MinutesPerHop:       5,
		DefaultSLA:          models.SLATargets{Availability: 99.9, LatencyMs: 200, ErrorRate: 1},
		Policy:              DefaultPolicy(),
		Now:                 time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.HistorySize <= 0 {
		o.HistorySize = def.HistorySize
	}
	if o.EventLogSize <= 0 {
		o.EventLogSize = def.EventLogSize
	}
	if o.TickDuration <= 0 {
		o.TickDuration = def.TickDuration
	}
	if o.RecoveryThreshold <= 0 {
		o.RecoveryThreshold = def.RecoveryThreshold
	}
	if o.RecoveryProbability <= 0 || o.RecoveryProbability > 1 {
		o.RecoveryProbability = def.RecoveryProbability
	}
	if o.MinutesPerHop <= 0 {
		o.MinutesPerHop = def.MinutesPerHop
	}
	if o.DefaultSLA == (models.SLATargets{}) {
		o.DefaultSLA = def.DefaultSLA
	}
	if o.Policy == nil {
		o.Policy = def.Policy
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}

// Engine is one simulation run over a graph snapshot. Every exported method
// takes the same lock, so ticks, control calls, and reads never interleave.
type Engine struct {
	mu       sync.Mutex
	logger   *slog.Logger
	opts     Options
	rng      *rand.Rand
	graph    *graphIndex
	store    *healthStore
	events   *eventLog
	synth    *Synthesizer
	history  map[string]*sampleHistory
	recovery *recoveryScheduler
	state    State
	tick     int64
}

// New validates graph and initialises a stopped engine at full health.
func New(graph models.Graph, logger *slog.Logger, opts Options) (*Engine, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	e := &Engine{
		logger:   logger,
		opts:     opts,
		rng:      rng,
		events:   newEventLog(opts.EventLogSize),
		synth:    NewSynthesizer(rng),
		recovery: &recoveryScheduler{},
		state:    StateStopped,
	}
	e.initialize(graph)
	return e, nil
}

// initialize builds the graph index and a fresh health store.
func (e *Engine) initialize(graph models.Graph) {
	if e.graph != nil {
		for _, node := range e.graph.nodes {
			metrics.DeleteNodeHealth(node.ID)
		}
	}
	e.graph = newGraphIndex(graph)
	e.store = newHealthStore()
	e.store.initialize(e.graph.nodes, e.opts.Policy, e.opts.DefaultSLA, e.opts.Now())
	e.history = make(map[string]*sampleHistory, len(e.graph.nodes))
	for _, node := range e.graph.nodes {
		e.history[node.ID] = newSampleHistory(e.opts.HistorySize)
	}
	e.recovery.clear()
	e.tick = 0
	for _, node := range e.graph.nodes {
		metrics.SetNodeHealth(node.ID, 100)
	}
}

// Load replaces the graph snapshot. Structural edits require stopping the
// run, so the engine ends up stopped with a cleared event log.
func (e *Engine) Load(graph models.Graph) error {
	if err := graph.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateStopped
	e.events.clear()
	e.initialize(graph)
	e.logger.Info("graph loaded", slog.Int("nodes", len(graph.Nodes)), slog.Int("edges", len(graph.Edges)))
	return nil
}

// Start moves stopped or paused to running. It reports false if already running.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return false
	}
	e.state = StateRunning
	e.record(models.EventSimulationStarted, "", "simulation started", models.SeverityInfo)
	return true
}

// Pause halts ticking without clearing state. It reports false unless running.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return false
	}
	e.state = StatePaused
	e.record(models.EventSimulationPaused, "", "simulation paused", models.SeverityInfo)
	return true
}

// Stop halts ticking, restores every node to full health and clears the event
// log. The only event left afterwards is the stop marker.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateStopped
	e.events.clear()
	e.initialize(e.graph.snapshot())
	e.record(models.EventSimulationStopped, "", "simulation stopped", models.SeverityInfo)
}

// Reset restores full health and clears the log, leaving the clock state as is.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events.clear()
	e.initialize(e.graph.snapshot())
	e.logger.Info("simulation reset", slog.String("state", string(e.state)))
}

// Tick advances simulated time by one step when running. The order inside a
// tick is fixed: telemetry, cascade re-check, recovery, SLA checks.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return false
	}
	start := time.Now()
	e.tick++
	e.synthesizeAll()
	e.recheckCascades()
	e.runRecovery()
	e.checkSLAs()
	metrics.ObserveTick(time.Since(start))
	return true
}

// FailNode drives id to zero health, optionally scheduling recovery after
// duration of simulated time. Unknown or already-down nodes are no-ops.
func (e *Engine) FailNode(id string, duration time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	metrics.ObserveInjection(metrics.InjectionFail)
	return e.fail(id, duration)
}

// DegradeNode sets id to level (clamped to [0,100]).
func (e *Engine) DegradeNode(id string, level int, duration time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	metrics.ObserveInjection(metrics.InjectionDegrade)
	return e.degrade(id, level, duration)
}

// RecoverNode restores id to full health. Recovering a healthy node is a no-op.
func (e *Engine) RecoverNode(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	metrics.ObserveInjection(metrics.InjectionRecover)
	return e.recover(id, "manual recovery")
}

// CalculateBlastRadius computes the severe fail-forward footprint of epicenter.
func (e *Engine) CalculateBlastRadius(epicenter string) models.BlastRadius {
	e.mu.Lock()
	defer e.mu.Unlock()
	return blastRadius(e.graph, e.opts.Policy, epicenter, e.opts.MinutesPerHop)
}

// HealthState returns a copy of the health record for id.
func (e *Engine) HealthState(id string) (models.HealthRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.get(id)
}

// AllHealthStates returns copies of every record in graph order.
func (e *Engine) AllHealthStates() []models.HealthRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.HealthRecord, 0, len(e.graph.nodes))
	for _, node := range e.graph.nodes {
		if rec, ok := e.store.get(node.ID); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Telemetry returns the retained sample history for id, oldest first.
func (e *Engine) Telemetry(id string) []models.TelemetrySample {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.history[id]
	if !ok {
		return nil
	}
	return h.samples()
}

// LatestTelemetry returns the most recent sample for id.
func (e *Engine) LatestTelemetry(id string) (models.TelemetrySample, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.history[id]
	if !ok {
		return models.TelemetrySample{}, false
	}
	return h.latest()
}

// Events returns the whole event log in append order.
func (e *Engine) Events() []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.all()
}

// RecentEvents returns the last n events; n <= 0 returns all.
func (e *Engine) RecentEvents(n int) []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.recent(n)
}

// EventsSince returns events appended after the given sequence number.
func (e *Engine) EventsSince(seq uint64) []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.since(seq)
}

// IsActive reports whether the clock is running.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateRunning
}

// State returns the clock state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentTick returns the number of ticks processed since the last reset.
func (e *Engine) CurrentTick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// Graph returns a copy of the graph snapshot the run was initialised from.
func (e *Engine) Graph() models.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.snapshot()
}

// PendingRecoveries counts scheduled one-shot recoveries.
func (e *Engine) PendingRecoveries() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recovery.pending()
}

func (e *Engine) synthesizeAll() {
	now := e.opts.Now()
	for _, node := range e.graph.nodes {
		st := e.store.state(node.ID)
		sample := e.synth.Synthesize(node.ID, st.record.Health, st.record.Status)
		sample.Tick = e.tick
		sample.Timestamp = now
		e.history[node.ID].add(sample)
	}
}

func (e *Engine) record(eventType models.EventType, nodeID, message string, severity models.Severity) {
	ev := e.events.append(models.Event{
		ID:        uuid.NewString(),
		Timestamp: e.opts.Now(),
		Type:      eventType,
		NodeID:    nodeID,
		Message:   message,
		Severity:  severity,
	})
	metrics.ObserveEvent(string(eventType))
	e.logger.Debug("simulation event",
		slog.Uint64("seq", ev.Seq),
		slog.String("type", string(eventType)),
		slog.String("node", nodeID),
		slog.String("message", message),
	)
}

// durationTicks converts simulated time into a whole number of ticks, rounding up.
func (e *Engine) durationTicks(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	ticks := int64(d / e.opts.TickDuration)
	if d%e.opts.TickDuration != 0 {
		ticks++
	}
	return ticks
}

