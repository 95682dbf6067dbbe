// Package addressing owns SLC device-address allocation: unique addresses
// per loop, preferred-address requests, cascade removal, and the
// addressing-layer compliance checks. Every mutation ends with a full
// recalculation of the circuit's aggregate currents written back to the
// store.
package addressing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/journal"
	"github.com/dd0wney/firecalc/pkg/logging"
	"github.com/dd0wney/firecalc/pkg/metrics"
	"github.com/dd0wney/firecalc/pkg/storage"
	"github.com/dd0wney/firecalc/pkg/wire"
)

// Manager coordinates address allocation over a Store.
type Manager struct {
	store   storage.Store
	catalog *catalog.Catalog
	logger  logging.Logger
	metrics *metrics.Registry
	journal *journal.Journal
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger supplies a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics supplies a metrics registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(m *Manager) { m.metrics = r }
}

// WithJournal supplies a calculation journal.
func WithJournal(j *journal.Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// NewManager creates an addressing manager over the given store and catalog.
func NewManager(store storage.Store, cat *catalog.Catalog, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		catalog: cat,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CircuitOption configures circuit creation.
type CircuitOption func(*storage.SLCCircuit)

// WithSupervision sets the loop's wiring class.
func WithSupervision(t storage.SupervisionType) CircuitOption {
	return func(c *storage.SLCCircuit) { c.Supervision = t }
}

// WithMaxDevices overrides the loop capacity.
func WithMaxDevices(n int) CircuitOption {
	return func(c *storage.SLCCircuit) { c.MaxDevices = n }
}

// WithWire sets the loop's conductor type and gauge.
func WithWire(wireType string, gaugeAWG int) CircuitOption {
	return func(c *storage.SLCCircuit) {
		c.WireType = wireType
		c.WireGaugeAWG = gaugeAWG
	}
}

// CreateSLCCircuit persists a new loop for a panel and initializes its
// calculations row. Defaults: Class A supervision, 159 addresses, 14 AWG.
func (m *Manager) CreateSLCCircuit(ctx context.Context, panelDeviceID string, loopNumber int, opts ...CircuitOption) (string, error) {
	c := &storage.SLCCircuit{
		ID:            uuid.NewString(),
		PanelDeviceID: panelDeviceID,
		LoopNumber:    loopNumber,
		Supervision:   storage.ClassA,
		MaxDevices:    storage.DefaultMaxDevices,
		WireGaugeAWG:  int(wire.Gauge14),
	}
	for _, opt := range opts {
		opt(c)
	}

	err := m.store.CreateCircuit(ctx, c)
	m.recordStoreOp("create_circuit", err)
	if err != nil {
		return "", fmt.Errorf("create SLC circuit: %w", err)
	}
	if err := m.store.UpsertCalculations(ctx, &storage.CircuitCalculations{CircuitID: c.ID}); err != nil {
		return "", fmt.Errorf("initialize calculations: %w", err)
	}

	m.logger.Info("SLC circuit created",
		logging.CircuitID(c.ID),
		logging.Panel(panelDeviceID),
		logging.Int("loop", loopNumber),
		logging.Int("max_devices", c.MaxDevices))

	return c.ID, nil
}

// AssignDeviceAddress places a device on the loop. A free preferred address
// is honored; otherwise the lowest free address in [1, max_devices] is
// assigned. The circuit's aggregate currents are recalculated before the
// call returns.
func (m *Manager) AssignDeviceAddress(ctx context.Context, circuitID string, req AssignRequest) (int, error) {
	circuit, err := m.store.GetCircuit(ctx, circuitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrCircuitNotFound, circuitID)
		}
		return 0, fmt.Errorf("assign address: %w", err)
	}

	existing, err := m.store.ListDeviceAddresses(ctx, circuitID)
	if err != nil {
		return 0, fmt.Errorf("assign address: %w", err)
	}
	used := make(map[int]struct{}, len(existing))
	for _, a := range existing {
		used[a.Address] = struct{}{}
	}

	address := 0
	if req.PreferredAddress >= 1 && req.PreferredAddress <= circuit.MaxDevices {
		if _, taken := used[req.PreferredAddress]; !taken {
			address = req.PreferredAddress
		}
	}
	if address == 0 {
		for candidate := 1; candidate <= circuit.MaxDevices; candidate++ {
			if _, taken := used[candidate]; !taken {
				address = candidate
				break
			}
		}
	}
	if address == 0 {
		if m.metrics != nil {
			m.metrics.RecordCircuitFull()
		}
		return 0, fmt.Errorf("%w: %s has all %d addresses in use", ErrCircuitFull, circuitID, circuit.MaxDevices)
	}

	row := &storage.DeviceAddress{
		ID:          uuid.NewString(),
		CircuitID:   circuitID,
		Address:     address,
		DeviceID:    req.DeviceID,
		DeviceModel: req.DeviceModel,
		DeviceType:  req.DeviceType,
		X:           req.X,
		Y:           req.Y,
		FloorLevel:  req.FloorLevel,
		Zone:        req.Zone,
		Connected:   false,
	}
	if err := m.store.CreateDeviceAddress(ctx, row); err != nil {
		m.recordStoreOp("create_address", err)
		return 0, fmt.Errorf("assign address: %w", err)
	}
	m.recordStoreOp("create_address", nil)

	if m.metrics != nil {
		m.metrics.RecordAssignment()
	}
	m.journalEvent(journal.KindAddressAssigned, row)
	m.logger.Info("device address assigned",
		logging.CircuitID(circuitID),
		logging.Address(address),
		logging.String("device", req.DeviceID))

	if err := m.recalculate(ctx, circuitID); err != nil {
		return 0, fmt.Errorf("recalculate after assign: %w", err)
	}
	return address, nil
}

// RemoveDeviceAddress deletes an assignment, cascading removal of any wire
// connections that reference it. It reports whether a row was actually
// removed; removing an absent address is a safe no-op.
func (m *Manager) RemoveDeviceAddress(ctx context.Context, circuitID string, address int) (bool, error) {
	row, err := m.store.GetDeviceAddress(ctx, circuitID, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("remove address: %w", err)
	}

	if _, err := m.store.DeleteConnectionsForAddress(ctx, row.ID); err != nil {
		return false, fmt.Errorf("cascade connections: %w", err)
	}
	removed, err := m.store.DeleteDeviceAddress(ctx, circuitID, address)
	m.recordStoreOp("delete_address", err)
	if err != nil {
		return false, fmt.Errorf("remove address: %w", err)
	}
	if !removed {
		return false, nil
	}

	if m.metrics != nil {
		m.metrics.RecordRemoval()
	}
	m.journalEvent(journal.KindAddressRemoved, row)
	m.logger.Info("device address removed",
		logging.CircuitID(circuitID),
		logging.Address(address))

	if err := m.recalculate(ctx, circuitID); err != nil {
		return true, fmt.Errorf("recalculate after remove: %w", err)
	}
	return true, nil
}

// CreateDeviceConnection records a wire run between two addressed devices.
// Both endpoints must exist.
func (m *Manager) CreateDeviceConnection(ctx context.Context, req ConnectionRequest) (string, error) {
	from, err := m.store.GetDeviceAddress(ctx, req.FromCircuitID, req.FromAddress)
	if err != nil {
		return "", fmt.Errorf("%w: %s address %d", ErrDeviceNotFound, req.FromCircuitID, req.FromAddress)
	}
	to, err := m.store.GetDeviceAddress(ctx, req.ToCircuitID, req.ToAddress)
	if err != nil {
		return "", fmt.Errorf("%w: %s address %d", ErrDeviceNotFound, req.ToCircuitID, req.ToAddress)
	}

	conn := &storage.DeviceConnection{
		ID:             uuid.NewString(),
		CircuitID:      req.FromCircuitID,
		FromAddressID:  from.ID,
		ToAddressID:    to.ID,
		ConnectionType: req.ConnectionType,
		Path:           req.Path,
		LengthFt:       req.LengthFt,
	}
	if err := m.store.CreateConnection(ctx, conn); err != nil {
		m.recordStoreOp("create_connection", err)
		return "", fmt.Errorf("create connection: %w", err)
	}
	m.recordStoreOp("create_connection", nil)

	if err := m.recalculate(ctx, req.FromCircuitID); err != nil {
		return "", fmt.Errorf("recalculate after connection: %w", err)
	}
	return conn.ID, nil
}

// AvailableAddresses returns the free addresses on a loop in ascending
// order.
func (m *Manager) AvailableAddresses(ctx context.Context, circuitID string) ([]int, error) {
	circuit, err := m.store.GetCircuit(ctx, circuitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCircuitNotFound, circuitID)
		}
		return nil, err
	}
	existing, err := m.store.ListDeviceAddresses(ctx, circuitID)
	if err != nil {
		return nil, err
	}
	used := make(map[int]struct{}, len(existing))
	for _, a := range existing {
		used[a.Address] = struct{}{}
	}

	free := make([]int, 0, circuit.MaxDevices-len(used))
	for candidate := 1; candidate <= circuit.MaxDevices; candidate++ {
		if _, taken := used[candidate]; !taken {
			free = append(free, candidate)
		}
	}
	return free, nil
}

// recalculate rebuilds the circuit's aggregate standby/alarm currents and
// round-trip voltage drop from its devices and connections, and persists the
// result. There is no transaction around mutation + recalculation; a crash
// in between leaves a stale row that the next recalculation repairs.
func (m *Manager) recalculate(ctx context.Context, circuitID string) error {
	circuit, err := m.store.GetCircuit(ctx, circuitID)
	if err != nil {
		return err
	}
	devices, err := m.store.ListDeviceAddresses(ctx, circuitID)
	if err != nil {
		return err
	}
	connections, err := m.store.ListConnectionsByCircuit(ctx, circuitID)
	if err != nil {
		return err
	}

	var standbyA, alarmA, lengthFt float64
	for _, d := range devices {
		standbyA += m.catalog.StandbyOrDefault(d.DeviceModel)
		alarmA += m.catalog.AlarmOrDefault(d.DeviceModel)
	}
	for _, c := range connections {
		lengthFt += c.LengthFt
	}

	// The addressing layer sizes drop at alarm load over the loop's total
	// wire, counting the return conductor.
	gauge := wire.Gauge(circuit.WireGaugeAWG)
	dropV := 2.0 * alarmA * wire.ResistanceOrDefault(gauge) * lengthFt / 1000.0
	dropPct := dropV / 24.0 * 100.0

	calc := &storage.CircuitCalculations{
		CircuitID:          circuitID,
		DeviceCount:        len(devices),
		StandbyCurrentA:    standbyA,
		AlarmCurrentA:      alarmA,
		WireLengthFt:       lengthFt,
		VoltageDropV:       dropV,
		VoltageDropPercent: dropPct,
	}
	err = m.store.UpsertCalculations(ctx, calc)
	m.recordStoreOp("upsert_calculations", err)
	if err != nil {
		return err
	}
	m.journalEvent(journal.KindAnalysis, calc)
	return nil
}

func (m *Manager) recordStoreOp(operation string, err error) {
	if m.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.RecordStoreOperation(operation, status)
}

func (m *Manager) journalEvent(kind journal.Kind, payload any) {
	if m.journal == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.Error("journal marshal failed", logging.Error(err))
		return
	}
	if _, err := m.journal.Append(kind, data); err != nil {
		m.logger.Error("journal append failed", logging.Error(err))
	}
}
