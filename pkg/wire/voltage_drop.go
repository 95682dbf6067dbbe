package wire

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Convention selects how conductor resistance is counted when computing a
// voltage drop. The live analysis path sums one-way drops per segment; the
// project calculation path doubles resistance to model the return conductor.
// The two call sites intentionally use different conventions.
type Convention int

const (
	OneWay Convention = iota
	RoundTrip
)

// String returns the convention name.
func (c Convention) String() string {
	switch c {
	case OneWay:
		return "one-way"
	case RoundTrip:
		return "round-trip"
	default:
		return "unknown"
	}
}

func (c Convention) factor() float64 {
	if c == RoundTrip {
		return 2.0
	}
	return 1.0
}

// SegmentDrop computes V = I·R for a single segment.
func SegmentDrop(currentA, resistanceOhms float64) float64 {
	return currentA * resistanceOhms
}

// TotalDrop sums the individual I·R drops of the given segments. Each
// segment is evaluated at its own current and the drops are added; currents
// are NOT accumulated through a series path. This matches the established
// calculation behavior that downstream compliance thresholds were tuned
// against, so it must not be "corrected" to series physics.
func TotalDrop(segments []Segment) float64 {
	drops := make([]float64, 0, len(segments))
	for _, s := range segments {
		drops = append(drops, s.VoltageDrop())
	}
	return sum(drops)
}

// Drop computes the voltage drop for a run of the given gauge and length at
// the given current, under the chosen convention.
func Drop(c Convention, currentA float64, gauge Gauge, lengthFt float64) (float64, error) {
	perKFt, err := Resistance(gauge)
	if err != nil {
		return 0, fmt.Errorf("voltage drop: %w", err)
	}
	return c.factor() * currentA * perKFt * lengthFt / 1000.0, nil
}

func sum[T constraints.Float](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}
