// Package battery sizes standby batteries for fire-alarm panels from
// aggregated circuit current draws, per the NFPA 72 24-hour standby /
// 5-minute alarm profile.
package battery

import "fmt"

// Load profile constants used when partitioning circuit currents into
// standby and alarm contributions.
const (
	// DefaultBackupHours is the required standby duration.
	DefaultBackupHours = 24.0
	// DefaultAlarmHours is the required alarm duration (5 minutes).
	DefaultAlarmHours = 5.0 / 60.0
	// DefaultDerate accounts for battery aging and temperature.
	DefaultDerate = 0.8

	// PanelStandbyA and PanelAlarmA are the panel's own draw, added on top
	// of circuit loads.
	PanelStandbyA = 0.100
	PanelAlarmA   = 0.150

	// NACStandbyPerDeviceA is the supervision trickle a notification
	// appliance draws while idle.
	NACStandbyPerDeviceA = 0.001

	// SLCAlarmMultiplier models the increased draw of addressable devices
	// in alarm (LEDs, sounder bases).
	SLCAlarmMultiplier = 1.2
)

// StandardAmpHours is the ladder of commonly stocked 12V battery sizes.
var StandardAmpHours = []float64{7, 12, 18, 26, 40, 55, 75, 100}

// Calculation is the battery sizing result for one panel.
type Calculation struct {
	StandbyCurrentA   float64 `json:"standby_current_a"`
	AlarmCurrentA     float64 `json:"alarm_current_a"`
	RequiredStandbyAH float64 `json:"required_standby_ah"`
	RequiredAlarmAH   float64 `json:"required_alarm_ah"`
	RecommendedAH     float64 `json:"recommended_ah"`
	BatterySKU        string  `json:"battery_sku"`
	DeratingFactor    float64 `json:"derating_factor"`
}

// TotalRequiredAH returns the governing requirement.
func (c Calculation) TotalRequiredAH() float64 {
	if c.RequiredStandbyAH > c.RequiredAlarmAH {
		return c.RequiredStandbyAH
	}
	return c.RequiredAlarmAH
}

// RequiredAmpHours converts a set of sustained currents, a backup duration,
// and a derating factor into required capacity:
//
//	AH = Σ currents · hours / derate
func RequiredAmpHours(currents []float64, backupHours, derate float64) (float64, error) {
	if backupHours <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidBackupHours, backupHours)
	}
	if derate <= 0 || derate > 1 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidDerate, derate)
	}
	var total float64
	for _, c := range currents {
		total += c
	}
	return total * backupHours / derate, nil
}

// RecommendAmpHours picks the smallest standard battery that covers the
// requirement. Requirements beyond the largest standard size are capped at
// the top of the ladder; stacking batteries is an installer decision, not
// something this calculator models.
func RecommendAmpHours(requiredAH float64) float64 {
	for _, ah := range StandardAmpHours {
		if ah >= requiredAH {
			return ah
		}
	}
	return StandardAmpHours[len(StandardAmpHours)-1]
}

// SKU formats the part identifier for a recommended size.
func SKU(ampHours float64) string {
	return fmt.Sprintf("12V-%gAH", ampHours)
}

// Size builds a full Calculation from partitioned standby/alarm currents.
func Size(standbyCurrents, alarmCurrents []float64, backupHours, alarmHours, derate float64) (Calculation, error) {
	standbyAH, err := RequiredAmpHours(standbyCurrents, backupHours, derate)
	if err != nil {
		return Calculation{}, fmt.Errorf("standby sizing: %w", err)
	}
	alarmAH, err := RequiredAmpHours(alarmCurrents, alarmHours, derate)
	if err != nil {
		return Calculation{}, fmt.Errorf("alarm sizing: %w", err)
	}

	var standbyA, alarmA float64
	for _, c := range standbyCurrents {
		standbyA += c
	}
	for _, c := range alarmCurrents {
		alarmA += c
	}

	required := standbyAH
	if alarmAH > required {
		required = alarmAH
	}
	recommended := RecommendAmpHours(required)

	return Calculation{
		StandbyCurrentA:   standbyA,
		AlarmCurrentA:     alarmA,
		RequiredStandbyAH: standbyAH,
		RequiredAlarmAH:   alarmAH,
		RecommendedAH:     recommended,
		BatterySKU:        SKU(recommended),
		DeratingFactor:    derate,
	}, nil
}
