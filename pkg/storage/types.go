// Package storage persists the addressing-domain records: SLC circuits,
// device addresses, wire connections, per-circuit calculation results, panel
// rows, and the device spec catalog. A Postgres implementation backs real
// projects; MemoryStore serves embedded use and tests.
package storage

import "time"

// SupervisionType is the wiring topology of an SLC loop.
type SupervisionType string

const (
	ClassA SupervisionType = "Class A"
	ClassB SupervisionType = "Class B"
)

// DefaultMaxDevices matches common fire-panel SLC loop limits.
const DefaultMaxDevices = 159

// SLCCircuit is one addressable loop on a panel.
type SLCCircuit struct {
	ID            string
	PanelDeviceID string
	LoopNumber    int
	Supervision   SupervisionType
	MaxDevices    int
	WireType      string
	WireGaugeAWG  int
	CreatedAt     time.Time
}

// DeviceAddress is one addressable device bound to a circuit.
type DeviceAddress struct {
	ID          string
	CircuitID   string
	Address     int
	DeviceID    string
	DeviceModel string
	DeviceType  string
	X           float64
	Y           float64
	FloorLevel  string
	Zone        string
	Connected   bool
}

// DeviceConnection is a wire run between two addressed devices.
type DeviceConnection struct {
	ID             string
	CircuitID      string
	FromAddressID  string
	ToAddressID    string
	ConnectionType string
	Path           string
	LengthFt       float64
}

// CircuitCalculations is the persisted aggregate result for one circuit.
type CircuitCalculations struct {
	CircuitID          string
	DeviceCount        int
	StandbyCurrentA    float64
	AlarmCurrentA      float64
	WireLengthFt       float64
	VoltageDropV       float64
	VoltageDropPercent float64
	UpdatedAt          time.Time
}

// ProjectPanel ties a panel device to a project.
type ProjectPanel struct {
	ID        string
	ProjectID string
	DeviceID  string
	Model     string
	Name      string
}

// FireAlarmSpec is one catalog row; currents are stored in milliamps the way
// manufacturers publish them.
type FireAlarmSpec struct {
	Model            string
	DeviceType       string
	StandbyMilliamps float64
	AlarmMilliamps   float64
}
