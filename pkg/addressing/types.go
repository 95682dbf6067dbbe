package addressing

// AssignRequest carries everything needed to place one device on a loop.
// PreferredAddress of zero means "lowest free address".
type AssignRequest struct {
	DeviceID         string
	DeviceModel      string
	DeviceType       string
	X                float64
	Y                float64
	FloorLevel       string
	Zone             string
	PreferredAddress int
}

// ConnectionRequest describes a wire run between two already-addressed
// devices, possibly across loops.
type ConnectionRequest struct {
	FromCircuitID  string
	FromAddress    int
	ToCircuitID    string
	ToAddress      int
	ConnectionType string
	Path           string
	LengthFt       float64
}

// ComplianceResult is the addressing-layer verdict for one loop. Issues
// block sign-off; warnings do not.
type ComplianceResult struct {
	Compliant          bool
	Issues             []string
	Warnings           []string
	UtilizationPercent float64
}

// Addressing-layer compliance ceilings. These are intentionally independent
// from the live engine's configurable limits (10% drop ceiling); the two
// policies have coexisted since the original calculations were written and
// are kept separate pending a product decision.
const (
	MaxAlarmCurrentA       = 3.0
	MaxVoltageDropPercent  = 5.0
	UtilizationWarnPercent = 90.0
)
