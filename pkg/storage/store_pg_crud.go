package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateCircuit stores a new SLC circuit row.
func (s *PGStore) CreateCircuit(ctx context.Context, c *SLCCircuit) error {
	query := `
		INSERT INTO slc_circuits (id, panel_device_id, loop_number, supervision_type, max_devices, wire_type, wire_gauge_awg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		c.ID, c.PanelDeviceID, c.LoopNumber, string(c.Supervision), c.MaxDevices, c.WireType, c.WireGaugeAWG,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: panel %s loop %d", ErrDuplicateCircuit, c.PanelDeviceID, c.LoopNumber)
		}
		return fmt.Errorf("failed to create circuit: %w", err)
	}
	return nil
}

// GetCircuit retrieves a circuit by id.
func (s *PGStore) GetCircuit(ctx context.Context, id string) (*SLCCircuit, error) {
	query := `
		SELECT id, panel_device_id, loop_number, supervision_type, max_devices, wire_type, wire_gauge_awg, created_at
		FROM slc_circuits
		WHERE id = $1
	`
	c := &SLCCircuit{}
	var supervision string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.PanelDeviceID, &c.LoopNumber, &supervision, &c.MaxDevices, &c.WireType, &c.WireGaugeAWG, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: circuit %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get circuit: %w", err)
	}
	c.Supervision = SupervisionType(supervision)
	return c, nil
}

// ListCircuitsByPanel lists all loops attached to a panel.
func (s *PGStore) ListCircuitsByPanel(ctx context.Context, panelDeviceID string) ([]*SLCCircuit, error) {
	query := `
		SELECT id, panel_device_id, loop_number, supervision_type, max_devices, wire_type, wire_gauge_awg, created_at
		FROM slc_circuits
		WHERE panel_device_id = $1
		ORDER BY loop_number
	`
	rows, err := s.pool.Query(ctx, query, panelDeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circuits: %w", err)
	}
	defer rows.Close()

	var out []*SLCCircuit
	for rows.Next() {
		c := &SLCCircuit{}
		var supervision string
		if err := rows.Scan(&c.ID, &c.PanelDeviceID, &c.LoopNumber, &supervision, &c.MaxDevices, &c.WireType, &c.WireGaugeAWG, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan circuit: %w", err)
		}
		c.Supervision = SupervisionType(supervision)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateDeviceAddress stores an address assignment.
func (s *PGStore) CreateDeviceAddress(ctx context.Context, a *DeviceAddress) error {
	query := `
		INSERT INTO device_addresses (id, circuit_id, address, device_id, device_model, device_type, x_coord, y_coord, floor_level, zone, connected)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		a.ID, a.CircuitID, a.Address, a.DeviceID, a.DeviceModel, a.DeviceType,
		a.X, a.Y, a.FloorLevel, a.Zone, a.Connected,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: address %d on circuit %s", ErrDuplicateAddress, a.Address, a.CircuitID)
		}
		return fmt.Errorf("failed to create device address: %w", err)
	}
	return nil
}

// GetDeviceAddress retrieves one assignment by circuit and address.
func (s *PGStore) GetDeviceAddress(ctx context.Context, circuitID string, address int) (*DeviceAddress, error) {
	query := `
		SELECT id, circuit_id, address, device_id, device_model, device_type, x_coord, y_coord, floor_level, zone, connected
		FROM device_addresses
		WHERE circuit_id = $1 AND address = $2
	`
	a := &DeviceAddress{}
	err := s.pool.QueryRow(ctx, query, circuitID, address).Scan(
		&a.ID, &a.CircuitID, &a.Address, &a.DeviceID, &a.DeviceModel, &a.DeviceType,
		&a.X, &a.Y, &a.FloorLevel, &a.Zone, &a.Connected,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: address %d on circuit %s", ErrNotFound, address, circuitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device address: %w", err)
	}
	return a, nil
}

// ListDeviceAddresses lists assignments on a circuit ordered by address.
func (s *PGStore) ListDeviceAddresses(ctx context.Context, circuitID string) ([]*DeviceAddress, error) {
	// Distinguish "unknown circuit" from "circuit with no devices".
	if _, err := s.GetCircuit(ctx, circuitID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, circuit_id, address, device_id, device_model, device_type, x_coord, y_coord, floor_level, zone, connected
		FROM device_addresses
		WHERE circuit_id = $1
		ORDER BY address
	`
	rows, err := s.pool.Query(ctx, query, circuitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device addresses: %w", err)
	}
	defer rows.Close()

	out := make([]*DeviceAddress, 0)
	for rows.Next() {
		a := &DeviceAddress{}
		if err := rows.Scan(&a.ID, &a.CircuitID, &a.Address, &a.DeviceID, &a.DeviceModel, &a.DeviceType,
			&a.X, &a.Y, &a.FloorLevel, &a.Zone, &a.Connected); err != nil {
			return nil, fmt.Errorf("failed to scan device address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteDeviceAddress removes one assignment, reporting whether a row existed.
func (s *PGStore) DeleteDeviceAddress(ctx context.Context, circuitID string, address int) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM device_addresses WHERE circuit_id = $1 AND address = $2`,
		circuitID, address,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete device address: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateConnection stores a wire connection between two addressed devices.
func (s *PGStore) CreateConnection(ctx context.Context, c *DeviceConnection) error {
	query := `
		INSERT INTO device_connections (id, circuit_id, from_address_id, to_address_id, connection_type, path, length_ft)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		c.ID, c.CircuitID, c.FromAddressID, c.ToAddressID, c.ConnectionType, c.Path, c.LengthFt,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

// ListConnectionsByCircuit lists wire connections on a circuit.
func (s *PGStore) ListConnectionsByCircuit(ctx context.Context, circuitID string) ([]*DeviceConnection, error) {
	query := `
		SELECT id, circuit_id, from_address_id, to_address_id, connection_type, path, length_ft
		FROM device_connections
		WHERE circuit_id = $1
		ORDER BY id
	`
	rows, err := s.pool.Query(ctx, query, circuitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var out []*DeviceConnection
	for rows.Next() {
		c := &DeviceConnection{}
		if err := rows.Scan(&c.ID, &c.CircuitID, &c.FromAddressID, &c.ToAddressID, &c.ConnectionType, &c.Path, &c.LengthFt); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteConnectionsForAddress removes every connection touching an address
// row, returning how many were removed.
func (s *PGStore) DeleteConnectionsForAddress(ctx context.Context, addressRowID string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM device_connections WHERE from_address_id = $1 OR to_address_id = $1`,
		addressRowID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete connections: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// UpsertCalculations writes the aggregate result row for a circuit.
func (s *PGStore) UpsertCalculations(ctx context.Context, c *CircuitCalculations) error {
	query := `
		INSERT INTO circuit_calculations (circuit_id, device_count, standby_current_a, alarm_current_a, wire_length_ft, voltage_drop_v, voltage_drop_percent, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (circuit_id) DO UPDATE SET
			device_count = EXCLUDED.device_count,
			standby_current_a = EXCLUDED.standby_current_a,
			alarm_current_a = EXCLUDED.alarm_current_a,
			wire_length_ft = EXCLUDED.wire_length_ft,
			voltage_drop_v = EXCLUDED.voltage_drop_v,
			voltage_drop_percent = EXCLUDED.voltage_drop_percent,
			updated_at = NOW()
	`
	_, err := s.pool.Exec(ctx, query,
		c.CircuitID, c.DeviceCount, c.StandbyCurrentA, c.AlarmCurrentA,
		c.WireLengthFt, c.VoltageDropV, c.VoltageDropPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert calculations: %w", err)
	}
	return nil
}

// GetCalculations retrieves the aggregate result row for a circuit.
func (s *PGStore) GetCalculations(ctx context.Context, circuitID string) (*CircuitCalculations, error) {
	query := `
		SELECT circuit_id, device_count, standby_current_a, alarm_current_a, wire_length_ft, voltage_drop_v, voltage_drop_percent, updated_at
		FROM circuit_calculations
		WHERE circuit_id = $1
	`
	c := &CircuitCalculations{}
	err := s.pool.QueryRow(ctx, query, circuitID).Scan(
		&c.CircuitID, &c.DeviceCount, &c.StandbyCurrentA, &c.AlarmCurrentA,
		&c.WireLengthFt, &c.VoltageDropV, &c.VoltageDropPercent, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: calculations for circuit %s", ErrNotFound, circuitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calculations: %w", err)
	}
	return c, nil
}

// CreatePanel stores a project panel row.
func (s *PGStore) CreatePanel(ctx context.Context, p *ProjectPanel) error {
	query := `
		INSERT INTO project_panels (id, project_id, device_id, model, name)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.pool.Exec(ctx, query, p.ID, p.ProjectID, p.DeviceID, p.Model, p.Name); err != nil {
		return fmt.Errorf("failed to create panel: %w", err)
	}
	return nil
}

// ListPanelsByProject lists panels belonging to a project.
func (s *PGStore) ListPanelsByProject(ctx context.Context, projectID string) ([]*ProjectPanel, error) {
	query := `
		SELECT id, project_id, device_id, model, name
		FROM project_panels
		WHERE project_id = $1
		ORDER BY name
	`
	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list panels: %w", err)
	}
	defer rows.Close()

	var out []*ProjectPanel
	for rows.Next() {
		p := &ProjectPanel{}
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.DeviceID, &p.Model, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan panel: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertDeviceSpec writes one catalog row.
func (s *PGStore) UpsertDeviceSpec(ctx context.Context, spec *FireAlarmSpec) error {
	query := `
		INSERT INTO fire_alarm_specs (model, device_type, current_standby_ma, current_alarm_ma)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (model) DO UPDATE SET
			device_type = EXCLUDED.device_type,
			current_standby_ma = EXCLUDED.current_standby_ma,
			current_alarm_ma = EXCLUDED.current_alarm_ma
	`
	if _, err := s.pool.Exec(ctx, query, spec.Model, spec.DeviceType, spec.StandbyMilliamps, spec.AlarmMilliamps); err != nil {
		return fmt.Errorf("failed to upsert device spec: %w", err)
	}
	return nil
}

// ListDeviceSpecs returns the full catalog.
func (s *PGStore) ListDeviceSpecs(ctx context.Context) ([]*FireAlarmSpec, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT model, device_type, current_standby_ma, current_alarm_ma FROM fire_alarm_specs ORDER BY model`)
	if err != nil {
		return nil, fmt.Errorf("failed to list device specs: %w", err)
	}
	defer rows.Close()

	var out []*FireAlarmSpec
	for rows.Next() {
		spec := &FireAlarmSpec{}
		if err := rows.Scan(&spec.Model, &spec.DeviceType, &spec.StandbyMilliamps, &spec.AlarmMilliamps); err != nil {
			return nil, fmt.Errorf("failed to scan device spec: %w", err)
		}
		out = append(out, spec)
	}
	return out, rows.Err()
}
