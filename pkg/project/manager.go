// Package project orchestrates whole-project circuit calculations: it walks
// every persisted SLC circuit under a project's panels, computes per-circuit
// loads, persists the results, and aggregates battery and power totals.
package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/firecalc/pkg/battery"
	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/logging"
	"github.com/dd0wney/firecalc/pkg/metrics"
	"github.com/dd0wney/firecalc/pkg/storage"
	"github.com/dd0wney/firecalc/pkg/wire"
)

// ErrNoPanels is returned when a project has no panels to calculate.
var ErrNoPanels = errors.New("project has no panels")

// Manager runs project-level calculations over a storage.Store.
type Manager struct {
	store   storage.Store
	catalog *catalog.Catalog
	logger  logging.Logger
	metrics *metrics.Registry

	nominalVoltage float64
	backupHours    float64
	alarmHours     float64
	derate         float64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(m *Manager) { m.metrics = r }
}

// WithBatteryProfile overrides the standard 24h standby / 5min alarm profile.
func WithBatteryProfile(backupHours, alarmHours, derate float64) Option {
	return func(m *Manager) {
		m.backupHours = backupHours
		m.alarmHours = alarmHours
		m.derate = derate
	}
}

// WithNominalVoltage overrides the 24V system voltage.
func WithNominalVoltage(v float64) Option {
	return func(m *Manager) { m.nominalVoltage = v }
}

// NewManager builds a project calculation manager.
func NewManager(store storage.Store, cat *catalog.Catalog, opts ...Option) *Manager {
	m := &Manager{
		store:          store,
		catalog:        cat,
		logger:         logging.NewNopLogger(),
		nominalVoltage: 24.0,
		backupHours:    battery.DefaultBackupHours,
		alarmHours:     battery.DefaultAlarmHours,
		derate:         battery.DefaultDerate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CalculateProjectCircuits computes and persists the load of every SLC
// circuit under the project's panels, then aggregates battery sizing and
// power consumption across the whole project.
func (m *Manager) CalculateProjectCircuits(ctx context.Context, projectID string) (*Summary, error) {
	panels, err := m.store.ListPanelsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	if len(panels) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPanels, projectID)
	}

	summary := &Summary{}
	standbyCurrents := make([]float64, 0, len(panels)*2)
	alarmCurrents := make([]float64, 0, len(panels)*2)

	for _, panel := range panels {
		circuits, err := m.store.ListCircuitsByPanel(ctx, panel.DeviceID)
		if err != nil {
			return nil, fmt.Errorf("list circuits for panel %s: %w", panel.DeviceID, err)
		}

		for _, circuit := range circuits {
			load, err := m.calculateCircuit(ctx, circuit)
			if err != nil {
				return nil, fmt.Errorf("circuit %s: %w", circuit.ID, err)
			}

			summary.CircuitLoads = append(summary.CircuitLoads, *load)
			summary.TotalCircuits++
			summary.TotalDevices += load.DeviceCount
			standbyCurrents = append(standbyCurrents, load.StandbyCurrentA)
			alarmCurrents = append(alarmCurrents, load.AlarmCurrentA)
		}

		// The panel itself draws current on top of its circuits.
		standbyCurrents = append(standbyCurrents, battery.PanelStandbyA)
		alarmCurrents = append(alarmCurrents, battery.PanelAlarmA)
	}

	calc, err := battery.Size(standbyCurrents, alarmCurrents, m.backupHours, m.alarmHours, m.derate)
	if err != nil {
		return nil, fmt.Errorf("battery sizing: %w", err)
	}
	summary.Battery = calc
	summary.Power = m.powerConsumption(calc.StandbyCurrentA, calc.AlarmCurrentA)

	if m.metrics != nil {
		m.metrics.RecordBattery(projectID, calc.RecommendedAH)
	}
	m.logger.Info("project calculated",
		logging.String("project", projectID),
		logging.Int("circuits", summary.TotalCircuits),
		logging.Int("devices", summary.TotalDevices),
		logging.Float64("recommended_ah", calc.RecommendedAH))

	return summary, nil
}

// calculateCircuit computes one circuit's load from its persisted devices and
// wire connections, and upserts the calculations row.
func (m *Manager) calculateCircuit(ctx context.Context, circuit *storage.SLCCircuit) (*CircuitLoad, error) {
	devices, err := m.store.ListDeviceAddresses(ctx, circuit.ID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	connections, err := m.store.ListConnectionsByCircuit(ctx, circuit.ID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	var standbyA, alarmA, lengthFt float64
	for _, d := range devices {
		standbyA += m.catalog.StandbyOrDefault(d.DeviceModel)
		alarmA += m.catalog.AlarmOrDefault(d.DeviceModel)
	}
	for _, c := range connections {
		lengthFt += c.LengthFt
	}

	// Project-level sizing uses the round-trip convention: the alarm current
	// traverses the supply and return conductors.
	gauge := wire.Gauge(circuit.WireGaugeAWG)
	if !gauge.Valid() {
		gauge = wire.FallbackGauge
	}
	dropV, err := wire.Drop(wire.RoundTrip, alarmA, gauge, lengthFt)
	if err != nil {
		return nil, fmt.Errorf("voltage drop: %w", err)
	}
	dropPct := dropV / m.nominalVoltage * 100.0

	calc := &storage.CircuitCalculations{
		CircuitID:          circuit.ID,
		DeviceCount:        len(devices),
		StandbyCurrentA:    standbyA,
		AlarmCurrentA:      alarmA,
		WireLengthFt:       lengthFt,
		VoltageDropV:       dropV,
		VoltageDropPercent: dropPct,
	}
	if err := m.store.UpsertCalculations(ctx, calc); err != nil {
		return nil, fmt.Errorf("persist calculations: %w", err)
	}

	return &CircuitLoad{
		CircuitID:          circuit.ID,
		PanelDeviceID:      circuit.PanelDeviceID,
		LoopNumber:         circuit.LoopNumber,
		DeviceCount:        len(devices),
		StandbyCurrentA:    standbyA,
		AlarmCurrentA:      alarmA,
		WireLengthFt:       lengthFt,
		VoltageDropV:       dropV,
		VoltageDropPercent: dropPct,
	}, nil
}

// powerConsumption converts aggregate currents to watts at nominal voltage.
func (m *Manager) powerConsumption(standbyA, alarmA float64) PowerConsumption {
	return PowerConsumption{
		StandbyCurrentA: standbyA,
		AlarmCurrentA:   alarmA,
		StandbyWatts:    standbyA * m.nominalVoltage,
		AlarmWatts:      alarmA * m.nominalVoltage,
	}
}
