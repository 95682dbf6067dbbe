package wire

import "fmt"

// Gauge is an AWG conductor size supported by the resistance table.
type Gauge int

const (
	Gauge12 Gauge = 12
	Gauge14 Gauge = 14
	Gauge16 Gauge = 16
	Gauge18 Gauge = 18
	Gauge20 Gauge = 20
)

// resistancePer1000Ft holds DC resistance in ohms per 1000 feet of solid
// copper conductor at 25°C.
var resistancePer1000Ft = map[Gauge]float64{
	Gauge12: 1.588,
	Gauge14: 2.525,
	Gauge16: 4.016,
	Gauge18: 6.385,
	Gauge20: 10.15,
}

// FallbackGauge is the gauge whose resistance is substituted when a caller
// opts into lenient lookup via ResistanceOrDefault.
const FallbackGauge = Gauge14

// SupportedGauges returns the known gauges in ascending AWG order.
func SupportedGauges() []Gauge {
	return []Gauge{Gauge12, Gauge14, Gauge16, Gauge18, Gauge20}
}

// Valid reports whether the gauge has a resistance table entry.
func (g Gauge) Valid() bool {
	_, ok := resistancePer1000Ft[g]
	return ok
}

// Resistance returns the ohms-per-1000ft value for the gauge.
// Unknown gauges fail with ErrUnknownGauge.
func Resistance(g Gauge) (float64, error) {
	r, ok := resistancePer1000Ft[g]
	if !ok {
		return 0, fmt.Errorf("%w: %d AWG", ErrUnknownGauge, int(g))
	}
	return r, nil
}

// ResistanceOrDefault returns the ohms-per-1000ft value for the gauge,
// substituting the 14 AWG value for unknown gauges. Callers that need to
// reject bad input should use Resistance instead; this exists for data
// imported from drawings where the gauge field is unreliable.
func ResistanceOrDefault(g Gauge) float64 {
	if r, ok := resistancePer1000Ft[g]; ok {
		return r
	}
	return resistancePer1000Ft[FallbackGauge]
}
