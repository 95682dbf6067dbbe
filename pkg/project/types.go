package project

import "github.com/dd0wney/firecalc/pkg/battery"

// CircuitLoad is the computed electrical load of one persisted SLC circuit.
type CircuitLoad struct {
	CircuitID          string  `json:"circuit_id"`
	PanelDeviceID      string  `json:"panel_device_id"`
	LoopNumber         int     `json:"loop_number"`
	DeviceCount        int     `json:"device_count"`
	StandbyCurrentA    float64 `json:"standby_current_a"`
	AlarmCurrentA      float64 `json:"alarm_current_a"`
	WireLengthFt       float64 `json:"wire_length_ft"`
	VoltageDropV       float64 `json:"voltage_drop_v"`
	VoltageDropPercent float64 `json:"voltage_drop_percent"`
}

// PowerConsumption is the project's aggregate draw converted to watts at the
// nominal system voltage.
type PowerConsumption struct {
	StandbyCurrentA float64 `json:"standby_current_a"`
	AlarmCurrentA   float64 `json:"alarm_current_a"`
	StandbyWatts    float64 `json:"standby_watts"`
	AlarmWatts      float64 `json:"alarm_watts"`
}

// Summary is the full project calculation result.
type Summary struct {
	CircuitLoads  []CircuitLoad       `json:"circuit_loads"`
	Battery       battery.Calculation `json:"battery_calculation"`
	Power         PowerConsumption    `json:"power_consumption"`
	TotalCircuits int                 `json:"total_circuits"`
	TotalDevices  int                 `json:"total_devices"`
}
