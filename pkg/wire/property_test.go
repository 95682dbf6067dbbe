package wire

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genSegment produces valid segments with bounded lengths and currents.
func genSegment() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0.1, 10000),
		gen.OneConstOf(Gauge12, Gauge14, Gauge16, Gauge18, Gauge20),
		gen.Float64Range(0, 5.0),
	).Map(func(vals []interface{}) Segment {
		seg, _ := NewSegment(
			"DEV_A", "DEV_B",
			vals[0].(float64),
			vals[1].(Gauge),
			vals[2].(float64),
			CircuitSLC,
		)
		return seg
	})
}

// TestVoltageDropProperties verifies additivity invariants for any finite
// list of valid segments.
func TestVoltageDropProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("total drop equals sum of per-segment drops", prop.ForAll(
		func(segments []Segment) bool {
			var want float64
			for _, s := range segments {
				want += SegmentDrop(s.CurrentA, s.ResistanceOhms())
			}
			got := TotalDrop(segments)
			return math.Abs(got-want) <= 1e-9*math.Max(1, math.Abs(want))
		},
		gen.SliceOf(genSegment()),
	))

	properties.Property("drop is non-negative for non-negative current", prop.ForAll(
		func(seg Segment) bool {
			return seg.VoltageDrop() >= 0
		},
		genSegment(),
	))

	properties.Property("round-trip drop is exactly twice one-way", prop.ForAll(
		func(seg Segment) bool {
			oneWay, err1 := Drop(OneWay, seg.CurrentA, seg.Gauge, seg.LengthFt)
			roundTrip, err2 := Drop(RoundTrip, seg.CurrentA, seg.Gauge, seg.LengthFt)
			if err1 != nil || err2 != nil {
				return false
			}
			return math.Abs(roundTrip-2*oneWay) <= 1e-12*math.Max(1, roundTrip)
		},
		genSegment(),
	))

	properties.TestingRun(t)
}
