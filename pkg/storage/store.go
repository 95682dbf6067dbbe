package storage

import "context"

// Store is the persistence boundary of the calculation core. Every method is
// a single-statement read or write with an immediate commit; the core never
// opens multi-statement transactions (see the addressing manager for the
// crash-recovery consequences).
type Store interface {
	// Circuits
	CreateCircuit(ctx context.Context, c *SLCCircuit) error
	GetCircuit(ctx context.Context, id string) (*SLCCircuit, error)
	ListCircuitsByPanel(ctx context.Context, panelDeviceID string) ([]*SLCCircuit, error)

	// Device addresses
	CreateDeviceAddress(ctx context.Context, a *DeviceAddress) error
	GetDeviceAddress(ctx context.Context, circuitID string, address int) (*DeviceAddress, error)
	ListDeviceAddresses(ctx context.Context, circuitID string) ([]*DeviceAddress, error)
	DeleteDeviceAddress(ctx context.Context, circuitID string, address int) (bool, error)

	// Device connections
	CreateConnection(ctx context.Context, c *DeviceConnection) error
	ListConnectionsByCircuit(ctx context.Context, circuitID string) ([]*DeviceConnection, error)
	DeleteConnectionsForAddress(ctx context.Context, addressRowID string) (int, error)

	// Calculation results
	UpsertCalculations(ctx context.Context, c *CircuitCalculations) error
	GetCalculations(ctx context.Context, circuitID string) (*CircuitCalculations, error)

	// Project panels
	CreatePanel(ctx context.Context, p *ProjectPanel) error
	ListPanelsByProject(ctx context.Context, projectID string) ([]*ProjectPanel, error)

	// Device spec catalog
	UpsertDeviceSpec(ctx context.Context, s *FireAlarmSpec) error
	ListDeviceSpecs(ctx context.Context) ([]*FireAlarmSpec, error)

	Close() error
}
