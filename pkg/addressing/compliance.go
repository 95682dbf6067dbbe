package addressing

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/firecalc/pkg/storage"
)

// ValidateCircuitCompliance checks one loop against the addressing-layer
// policy: capacity, the 3.0 A alarm ceiling, and the 5% voltage-drop
// ceiling. Results are data; an out-of-policy loop is never rejected by
// mutation operations.
func (m *Manager) ValidateCircuitCompliance(ctx context.Context, circuitID string) (ComplianceResult, error) {
	circuit, err := m.store.GetCircuit(ctx, circuitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ComplianceResult{}, fmt.Errorf("%w: %s", ErrCircuitNotFound, circuitID)
		}
		return ComplianceResult{}, err
	}

	calc, err := m.store.GetCalculations(ctx, circuitID)
	if errors.Is(err, storage.ErrNotFound) {
		// Stale or missing row (e.g. crash between insert and commit):
		// rebuild it.
		if err := m.recalculate(ctx, circuitID); err != nil {
			return ComplianceResult{}, err
		}
		calc, err = m.store.GetCalculations(ctx, circuitID)
	}
	if err != nil {
		return ComplianceResult{}, err
	}

	result := ComplianceResult{Compliant: true}

	if calc.DeviceCount > circuit.MaxDevices {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Device count %d exceeds circuit capacity %d", calc.DeviceCount, circuit.MaxDevices))
	}
	if calc.AlarmCurrentA > MaxAlarmCurrentA {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Alarm current %.3f A exceeds SLC limit %.1f A", calc.AlarmCurrentA, MaxAlarmCurrentA))
	}
	if calc.VoltageDropPercent > MaxVoltageDropPercent {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Voltage drop %.2f%% exceeds limit %.1f%%", calc.VoltageDropPercent, MaxVoltageDropPercent))
	}

	if circuit.MaxDevices > 0 {
		result.UtilizationPercent = float64(calc.DeviceCount) / float64(circuit.MaxDevices) * 100.0
	}
	if result.UtilizationPercent > UtilizationWarnPercent {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Circuit %.0f%% full; consider a second loop", result.UtilizationPercent))
	}

	result.Compliant = len(result.Issues) == 0
	return result, nil
}
