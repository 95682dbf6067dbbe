package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/firecalc/pkg/wire"
)

// MembershipStrategy decides which logical circuit a new wire segment
// belongs to. Strategies are tried in order; the first one that can place
// the segment wins. Keeping the heuristics as separate injectable strategies
// makes their ambiguity visible: name-token matching can misclassify
// disjoint circuits that reuse a device name, and callers who know the panel
// assignment can run with PanelTokenStrategy alone.
type MembershipStrategy interface {
	// CircuitKey returns the circuit key for the segment, or false if this
	// strategy cannot place it. sameType holds the segments of every
	// existing circuit with the segment's circuit type.
	CircuitKey(seg wire.Segment, sameType map[string][]wire.Segment) (string, bool)
}

// DefaultMembership is the standard strategy chain: explicit panel token,
// then endpoint-name overlap, then the shared default bucket.
func DefaultMembership() []MembershipStrategy {
	return []MembershipStrategy{
		PanelTokenStrategy{},
		EndpointOverlapStrategy{},
		DefaultBucketStrategy{Bucket: "CIRCUIT1"},
	}
}

// PanelTokenStrategy keys the circuit off an explicit panel marker in either
// endpoint name. The panel id is the token before the endpoint's first
// underscore, or the whole name if it has none.
type PanelTokenStrategy struct{}

func (PanelTokenStrategy) CircuitKey(seg wire.Segment, _ map[string][]wire.Segment) (string, bool) {
	for _, endpoint := range []string{seg.FromDevice, seg.ToDevice} {
		if !strings.Contains(strings.ToUpper(endpoint), "PANEL") {
			continue
		}
		panelID := endpoint
		if idx := strings.Index(endpoint, "_"); idx >= 0 {
			panelID = endpoint[:idx]
		}
		return fmt.Sprintf("%s_%s", seg.CircuitType, panelID), true
	}
	return "", false
}

// EndpointOverlapStrategy reuses the key of an existing same-type circuit
// that already touches one of the segment's endpoints.
type EndpointOverlapStrategy struct{}

func (EndpointOverlapStrategy) CircuitKey(seg wire.Segment, sameType map[string][]wire.Segment) (string, bool) {
	// Deterministic scan order: map iteration would make membership depend
	// on hash seeding when several circuits share a device name.
	keys := make([]string, 0, len(sameType))
	for key := range sameType {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, existing := range sameType[key] {
			if existing.FromDevice == seg.FromDevice || existing.FromDevice == seg.ToDevice ||
				existing.ToDevice == seg.FromDevice || existing.ToDevice == seg.ToDevice {
				return key, true
			}
		}
	}
	return "", false
}

// DefaultBucketStrategy places every segment in a per-type fallback circuit.
// It always succeeds, so it must come last in a chain.
type DefaultBucketStrategy struct {
	Bucket string
}

func (s DefaultBucketStrategy) CircuitKey(seg wire.Segment, _ map[string][]wire.Segment) (string, bool) {
	return fmt.Sprintf("%s_%s", seg.CircuitType, s.Bucket), true
}
