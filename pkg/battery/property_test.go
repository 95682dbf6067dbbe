package battery

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBatterySizingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("required AH equals sum·hours/derate", prop.ForAll(
		func(currents []float64, hours, derate float64) bool {
			got, err := RequiredAmpHours(currents, hours, derate)
			if err != nil {
				return false
			}
			var sum float64
			for _, c := range currents {
				sum += c
			}
			want := sum * hours / derate
			return math.Abs(got-want) <= 1e-9*math.Max(1, want)
		},
		gen.SliceOf(gen.Float64Range(0, 2.0)),
		gen.Float64Range(0.01, 48),
		gen.Float64Range(0.1, 1.0),
	))

	properties.Property("recommendation always covers requirement up to the cap", prop.ForAll(
		func(required float64) bool {
			got := RecommendAmpHours(required)
			if required > StandardAmpHours[len(StandardAmpHours)-1] {
				return got == StandardAmpHours[len(StandardAmpHours)-1]
			}
			return got >= required
		},
		gen.Float64Range(0, 200),
	))

	properties.TestingRun(t)
}
