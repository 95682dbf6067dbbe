package engine

import (
	"fmt"

	"github.com/dd0wney/firecalc/pkg/wire"
)

// Compliance verdicts.
const (
	StatusPass    = "PASS"
	StatusWarn    = "WARN"
	StatusFail    = "FAIL"
	StatusUnknown = "UNKNOWN"
)

// Limits are the calculation-layer compliance ceilings. They are deliberately
// separate from the addressing-layer policy in pkg/addressing; the two have
// never been reconciled and are treated as independent until the product
// owners decide otherwise.
type Limits struct {
	NominalVoltage        float64
	MaxVoltageDropPercent float64
	MaxSLCDevices         int
	MaxSLCLengthFt        float64
}

// DefaultLimits returns the standard 24V system ceilings.
func DefaultLimits() Limits {
	return Limits{
		NominalVoltage:        24.0,
		MaxVoltageDropPercent: 10.0,
		MaxSLCDevices:         252,
		MaxSLCLengthFt:        10000,
	}
}

// Analysis is a computed snapshot of one circuit. It is plain data: a
// non-compliant circuit stays fully representable so the designer can see
// and fix it.
type Analysis struct {
	CircuitID          string           `json:"circuit_id"`
	CircuitType        wire.CircuitType `json:"circuit_type"`
	TotalVoltageDrop   float64          `json:"total_voltage_drop"`
	VoltageDropPercent float64          `json:"voltage_drop_percent"`
	DeviceCount        int              `json:"device_count"`
	TotalLengthFt      float64          `json:"total_length_ft"`
	CurrentDrawA       float64          `json:"current_draw_a"`
	ComplianceStatus   string           `json:"compliance_status"`
	Warnings           []string         `json:"warnings,omitempty"`
}

// analyze computes the snapshot for a known circuit. Empty circuits pass
// with zeroed fields.
func (e *Engine) analyze(circuitID string, c *circuitState) Analysis {
	a := Analysis{
		CircuitID:        circuitID,
		CircuitType:      c.circuitType,
		ComplianceStatus: StatusPass,
	}
	if len(c.segments) == 0 {
		return a
	}

	devices := make(map[string]struct{})
	for _, s := range c.segments {
		a.TotalLengthFt += s.LengthFt
		a.CurrentDrawA += s.CurrentA
		devices[s.ToDevice] = struct{}{}
	}
	a.DeviceCount = len(devices)
	a.TotalVoltageDrop = wire.TotalDrop(c.segments)
	a.VoltageDropPercent = a.TotalVoltageDrop / e.limits.NominalVoltage * 100

	dropExceeded := a.VoltageDropPercent > e.limits.MaxVoltageDropPercent
	if dropExceeded {
		a.Warnings = append(a.Warnings, fmt.Sprintf(
			"Voltage drop %.2f%% exceeds maximum %.2f%%",
			a.VoltageDropPercent, e.limits.MaxVoltageDropPercent))
	}
	if c.circuitType == wire.CircuitSLC {
		if a.DeviceCount > e.limits.MaxSLCDevices {
			a.Warnings = append(a.Warnings, fmt.Sprintf(
				"SLC device count %d exceeds maximum %d",
				a.DeviceCount, e.limits.MaxSLCDevices))
		}
		if a.TotalLengthFt > e.limits.MaxSLCLengthFt {
			a.Warnings = append(a.Warnings, fmt.Sprintf(
				"SLC wire length %.0f ft exceeds maximum %.0f ft",
				a.TotalLengthFt, e.limits.MaxSLCLengthFt))
		}
	}

	switch {
	case dropExceeded:
		a.ComplianceStatus = StatusFail
	case len(a.Warnings) > 0:
		a.ComplianceStatus = StatusWarn
	}
	return a
}
