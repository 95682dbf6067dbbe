// Package engine is the live calculation core: it maps wire segments onto
// logical circuits, recomputes per-circuit load and voltage drop on every
// mutation, and sizes panel batteries from the resulting loads. All
// operations are synchronous; callers get a consistent snapshot back before
// the mutation call returns.
package engine

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/journal"
	"github.com/dd0wney/firecalc/pkg/logging"
	"github.com/dd0wney/firecalc/pkg/metrics"
	"github.com/dd0wney/firecalc/pkg/pubsub"
	"github.com/dd0wney/firecalc/pkg/wire"
)

// circuitState is one logical circuit's segments in insertion order.
type circuitState struct {
	circuitType wire.CircuitType
	segments    []wire.Segment
}

// Engine owns the in-memory circuit topology. It assumes a single active
// editor; the mutex guards against accidental concurrent use, not designed
// multi-writer access.
type Engine struct {
	mu         sync.Mutex
	limits     Limits
	strategies []MembershipStrategy
	circuits   map[string]*circuitState
	adjacency  map[string]map[string]int

	catalog *catalog.Catalog
	logger  logging.Logger
	metrics *metrics.Registry
	bus     *pubsub.Bus
	journal *journal.Journal
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimits overrides the compliance ceilings.
func WithLimits(l Limits) Option {
	return func(e *Engine) { e.limits = l }
}

// WithMembership replaces the circuit-membership strategy chain.
func WithMembership(strategies ...MembershipStrategy) Option {
	return func(e *Engine) { e.strategies = strategies }
}

// WithCatalog supplies the device current catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithLogger supplies a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics supplies a metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithBus supplies a pubsub bus; analyses are published after every
// recalculation.
func WithBus(b *pubsub.Bus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithJournal supplies a calculation journal.
func WithJournal(j *journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// New creates an engine with default limits and membership.
func New(opts ...Option) *Engine {
	e := &Engine{
		limits:     DefaultLimits(),
		strategies: DefaultMembership(),
		circuits:   make(map[string]*circuitState),
		adjacency:  make(map[string]map[string]int),
		catalog:    catalog.New(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddSegment validates the segment, resolves its circuit, appends it, and
// recalculates that circuit. It returns the circuit key the segment landed
// in.
func (e *Engine) AddSegment(seg wire.Segment) (string, error) {
	// Re-validate: segments built literally (not via wire.NewSegment) must
	// not corrupt the topology.
	if _, err := wire.NewSegment(seg.FromDevice, seg.ToDevice, seg.LengthFt, seg.Gauge, seg.CurrentA, seg.CircuitType); err != nil {
		return "", fmt.Errorf("add segment: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := e.resolveKey(seg)
	c, ok := e.circuits[key]
	if !ok {
		c = &circuitState{circuitType: seg.CircuitType}
		e.circuits[key] = c
	}
	c.segments = append(c.segments, seg)
	e.link(seg.FromDevice, seg.ToDevice)

	e.logger.Debug("segment added",
		logging.CircuitID(key),
		logging.String("from", seg.FromDevice),
		logging.String("to", seg.ToDevice),
		logging.Float64("length_ft", seg.LengthFt))

	e.journalEvent(journal.KindSegmentAdded, seg)
	e.recalculate(key)
	return key, nil
}

// RemoveSegment removes the first segment equal to seg and recalculates its
// circuit. Removing an absent segment is a no-op and reports false.
func (e *Engine) RemoveSegment(seg wire.Segment) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key, c := range e.circuits {
		for i, existing := range c.segments {
			if existing == seg {
				c.segments = append(c.segments[:i], c.segments[i+1:]...)
				e.unlink(seg.FromDevice, seg.ToDevice)
				e.logger.Debug("segment removed",
					logging.CircuitID(key),
					logging.String("from", seg.FromDevice),
					logging.String("to", seg.ToDevice))
				e.journalEvent(journal.KindSegmentRemoved, seg)
				e.recalculate(key)
				return true
			}
		}
	}
	return false
}

// Analyze returns the current snapshot for a circuit. Unknown circuits
// produce a zeroed analysis with an UNKNOWN status rather than an error so
// display code polling a not-yet-drawn circuit never crashes.
func (e *Engine) Analyze(circuitID string) Analysis {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.analyzeLocked(circuitID)
}

func (e *Engine) analyzeLocked(circuitID string) Analysis {
	c, ok := e.circuits[circuitID]
	if !ok {
		return Analysis{
			CircuitID:        circuitID,
			ComplianceStatus: StatusUnknown,
			Warnings:         []string{"Circuit not found"},
		}
	}
	return e.analyze(circuitID, c)
}

// Circuits returns the known circuit keys. Emptied circuits persist as
// zero-length entries until the project is reloaded.
func (e *Engine) Circuits() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, 0, len(e.circuits))
	for key := range e.circuits {
		keys = append(keys, key)
	}
	return keys
}

// DevicesConnected reports whether two device names share at least one
// segment.
func (e *Engine) DevicesConnected(a, b string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adjacency[a][b] > 0
}

func (e *Engine) resolveKey(seg wire.Segment) string {
	sameType := make(map[string][]wire.Segment)
	for key, c := range e.circuits {
		if c.circuitType == seg.CircuitType {
			sameType[key] = c.segments
		}
	}
	for _, strategy := range e.strategies {
		if key, ok := strategy.CircuitKey(seg, sameType); ok {
			return key
		}
	}
	// An incomplete custom chain still needs somewhere to put the segment.
	return DefaultBucketStrategy{Bucket: "CIRCUIT1"}.mustKey(seg)
}

func (s DefaultBucketStrategy) mustKey(seg wire.Segment) string {
	key, _ := s.CircuitKey(seg, nil)
	return key
}

func (e *Engine) link(a, b string) {
	if e.adjacency[a] == nil {
		e.adjacency[a] = make(map[string]int)
	}
	if e.adjacency[b] == nil {
		e.adjacency[b] = make(map[string]int)
	}
	e.adjacency[a][b]++
	e.adjacency[b][a]++
}

func (e *Engine) unlink(a, b string) {
	if e.adjacency[a] != nil {
		if e.adjacency[a][b]--; e.adjacency[a][b] <= 0 {
			delete(e.adjacency[a], b)
		}
	}
	if e.adjacency[b] != nil {
		if e.adjacency[b][a]--; e.adjacency[b][a] <= 0 {
			delete(e.adjacency[b], a)
		}
	}
}

// recalculate recomputes one circuit synchronously, then fans the snapshot
// out to observers. Called with the mutex held.
func (e *Engine) recalculate(circuitID string) {
	start := time.Now()
	a := e.analyzeLocked(circuitID)

	if e.metrics != nil {
		e.metrics.RecordRecalculation(string(a.CircuitType), a.ComplianceStatus, time.Since(start))
		e.metrics.UpdateCircuitGauges(circuitID, a.VoltageDropPercent, a.DeviceCount)
	}
	e.journalEvent(journal.KindAnalysis, a)
	if e.bus != nil {
		e.bus.Publish(pubsub.TopicAnalysis, a)
	}
	if a.ComplianceStatus == StatusFail {
		e.logger.Warn("circuit out of compliance",
			logging.CircuitID(circuitID),
			logging.Float64("voltage_drop_percent", a.VoltageDropPercent))
	}
}

func (e *Engine) journalEvent(kind journal.Kind, payload any) {
	if e.journal == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("journal marshal failed", logging.Error(err))
		return
	}
	if _, err := e.journal.Append(kind, data); err != nil {
		// Journaling is best-effort; the in-memory state stays authoritative.
		e.logger.Error("journal append failed", logging.Error(err))
	}
}
