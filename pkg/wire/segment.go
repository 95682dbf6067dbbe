package wire

import "fmt"

// CircuitType classifies the circuit a conductor run belongs to.
type CircuitType string

const (
	CircuitSLC   CircuitType = "SLC"
	CircuitNAC   CircuitType = "NAC"
	CircuitPower CircuitType = "POWER"
)

// Segment is one physical conductor run between two named devices.
// Segments are immutable values; an edit is modeled as remove followed by add.
type Segment struct {
	FromDevice  string
	ToDevice    string
	LengthFt    float64
	Gauge       Gauge
	CurrentA    float64
	CircuitType CircuitType
}

// NewSegment validates and builds a segment. Length must be positive, the
// gauge must have a resistance table entry, and current must be non-negative.
func NewSegment(from, to string, lengthFt float64, gauge Gauge, currentA float64, circuitType CircuitType) (Segment, error) {
	if lengthFt <= 0 {
		return Segment{}, fmt.Errorf("%w: length %.2f ft must be positive", ErrInvalidSegment, lengthFt)
	}
	if currentA < 0 {
		return Segment{}, fmt.Errorf("%w: current %.4f A must be non-negative", ErrInvalidSegment, currentA)
	}
	if !gauge.Valid() {
		return Segment{}, fmt.Errorf("%w: %d AWG", ErrUnknownGauge, int(gauge))
	}
	return Segment{
		FromDevice:  from,
		ToDevice:    to,
		LengthFt:    lengthFt,
		Gauge:       gauge,
		CurrentA:    currentA,
		CircuitType: circuitType,
	}, nil
}

// ResistanceOhms returns the one-way DC resistance of the run.
// Segments built through NewSegment always have a known gauge; segments
// constructed directly fall back to the 14 AWG table value.
func (s Segment) ResistanceOhms() float64 {
	return ResistanceOrDefault(s.Gauge) / 1000.0 * s.LengthFt
}

// VoltageDrop returns the drop across this segment at its own current.
func (s Segment) VoltageDrop() float64 {
	return SegmentDrop(s.CurrentA, s.ResistanceOhms())
}
