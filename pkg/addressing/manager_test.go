package addressing

import (
	"context"
	"errors"
	"testing"

	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/storage"
)

func newTestManager() (*Manager, storage.Store) {
	store := storage.NewMemoryStore()
	return NewManager(store, catalog.New()), store
}

func TestCreateSLCCircuitDefaults(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager()

	id, err := m.CreateSLCCircuit(ctx, "PANEL1", 1)
	if err != nil {
		t.Fatalf("CreateSLCCircuit failed: %v", err)
	}

	circuit, err := store.GetCircuit(ctx, id)
	if err != nil {
		t.Fatalf("GetCircuit failed: %v", err)
	}
	if circuit.Supervision != storage.ClassA {
		t.Errorf("Expected Class A default, got %s", circuit.Supervision)
	}
	if circuit.MaxDevices != storage.DefaultMaxDevices {
		t.Errorf("Expected %d max devices, got %d", storage.DefaultMaxDevices, circuit.MaxDevices)
	}

	// Calculations row is initialized zero-valued.
	calc, err := store.GetCalculations(ctx, id)
	if err != nil {
		t.Fatalf("GetCalculations failed: %v", err)
	}
	if calc.DeviceCount != 0 || calc.StandbyCurrentA != 0 {
		t.Error("Expected zero-valued initial calculations")
	}
}

func TestAssignSequentialAddresses(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1)

	for want := 1; want <= 3; want++ {
		got, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE", DeviceModel: "SD-365"})
		if err != nil {
			t.Fatalf("AssignDeviceAddress failed: %v", err)
		}
		if got != want {
			t.Errorf("Expected address %d, got %d", want, got)
		}
	}
}

func TestAssignPreferredAddress(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1)

	got, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE_A", PreferredAddress: 42})
	if err != nil {
		t.Fatalf("AssignDeviceAddress failed: %v", err)
	}
	if got != 42 {
		t.Errorf("Expected preferred address 42, got %d", got)
	}

	// Taken preferred address falls back to lowest free.
	got, err = m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE_B", PreferredAddress: 42})
	if err != nil {
		t.Fatalf("AssignDeviceAddress failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected fallback to address 1, got %d", got)
	}
}

func TestCircuitFull(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1, WithMaxDevices(3))

	for i := 0; i < 3; i++ {
		if _, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV"}); err != nil {
			t.Fatalf("AssignDeviceAddress %d failed: %v", i+1, err)
		}
	}

	_, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "ONE_TOO_MANY"})
	if !errors.Is(err, ErrCircuitFull) {
		t.Errorf("Expected ErrCircuitFull on assignment %d, got %v", 4, err)
	}
}

func TestAssignUnknownCircuit(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	_, err := m.AssignDeviceAddress(ctx, "missing", AssignRequest{DeviceID: "DEV"})
	if !errors.Is(err, ErrCircuitNotFound) {
		t.Errorf("Expected ErrCircuitNotFound, got %v", err)
	}
}

func TestRemoveDeviceAddressCascades(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager()
	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1)

	a1, _ := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE_A"})
	a2, _ := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE_B"})

	if _, err := m.CreateDeviceConnection(ctx, ConnectionRequest{
		FromCircuitID: id, FromAddress: a1, ToCircuitID: id, ToAddress: a2, LengthFt: 40,
	}); err != nil {
		t.Fatalf("CreateDeviceConnection failed: %v", err)
	}

	removed, err := m.RemoveDeviceAddress(ctx, id, a2)
	if err != nil {
		t.Fatalf("RemoveDeviceAddress failed: %v", err)
	}
	if !removed {
		t.Fatal("Expected removal to report true")
	}

	conns, err := store.ListConnectionsByCircuit(ctx, id)
	if err != nil {
		t.Fatalf("ListConnectionsByCircuit failed: %v", err)
	}
	if len(conns) != 0 {
		t.Errorf("Expected connections cascade-removed, got %d", len(conns))
	}

	// Second removal is a safe no-op.
	removed, err = m.RemoveDeviceAddress(ctx, id, a2)
	if err != nil {
		t.Fatalf("RemoveDeviceAddress (repeat) failed: %v", err)
	}
	if removed {
		t.Error("Expected no-op on repeated removal")
	}
}

func TestCreateConnectionMissingEndpoint(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1)
	a1, _ := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE_A"})

	_, err := m.CreateDeviceConnection(ctx, ConnectionRequest{
		FromCircuitID: id, FromAddress: a1, ToCircuitID: id, ToAddress: 99,
	})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestAssignRecalculatesCurrents(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	cat := catalog.New()
	cat.Register(catalog.DeviceSpec{Model: "SD-365", StandbyA: 0.0003, AlarmA: 0.0065})
	m := NewManager(store, cat)

	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1)
	m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "SMOKE_A", DeviceModel: "SD-365"})
	m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "UNREGISTERED", DeviceModel: "MYSTERY-1"})

	calc, err := store.GetCalculations(ctx, id)
	if err != nil {
		t.Fatalf("GetCalculations failed: %v", err)
	}
	if calc.DeviceCount != 2 {
		t.Errorf("Expected 2 devices, got %d", calc.DeviceCount)
	}

	wantStandby := 0.0003 + catalog.DefaultCurrentA
	if diff := calc.StandbyCurrentA - wantStandby; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("Expected standby %v, got %v", wantStandby, calc.StandbyCurrentA)
	}
}

func TestAvailableAddressesRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1, WithMaxDevices(10))

	assigned := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		addr, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV"})
		if err != nil {
			t.Fatalf("AssignDeviceAddress failed: %v", err)
		}
		assigned = append(assigned, addr)
	}

	free, err := m.AvailableAddresses(ctx, id)
	if err != nil {
		t.Fatalf("AvailableAddresses failed: %v", err)
	}
	if len(free) != 0 {
		t.Fatalf("Expected no free addresses, got %v", free)
	}

	for _, addr := range assigned {
		removed, err := m.RemoveDeviceAddress(ctx, id, addr)
		if err != nil || !removed {
			t.Fatalf("RemoveDeviceAddress(%d) failed: removed=%v err=%v", addr, removed, err)
		}
	}

	free, err = m.AvailableAddresses(ctx, id)
	if err != nil {
		t.Fatalf("AvailableAddresses failed: %v", err)
	}
	if len(free) != 10 {
		t.Fatalf("Expected full range free, got %d", len(free))
	}
	for i, addr := range free {
		if addr != i+1 {
			t.Errorf("Expected address %d at position %d, got %d", i+1, i, addr)
		}
	}
}

func TestValidateCircuitCompliance(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	cat := catalog.New()
	// A hungry device: 0.5 A alarm each.
	cat.Register(catalog.DeviceSpec{Model: "BIG-DRAW", StandbyA: 0.010, AlarmA: 0.5})
	m := NewManager(store, cat)

	id, _ := m.CreateSLCCircuit(ctx, "PANEL1", 1, WithMaxDevices(10))

	// 7 devices → 3.5 A alarm, over the 3.0 A ceiling; 70% utilization.
	for i := 0; i < 7; i++ {
		if _, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV", DeviceModel: "BIG-DRAW"}); err != nil {
			t.Fatalf("AssignDeviceAddress failed: %v", err)
		}
	}

	result, err := m.ValidateCircuitCompliance(ctx, id)
	if err != nil {
		t.Fatalf("ValidateCircuitCompliance failed: %v", err)
	}
	if result.Compliant {
		t.Error("Expected non-compliant result")
	}
	if len(result.Issues) == 0 {
		t.Fatal("Expected at least one issue")
	}

	// Push utilization above the warning line.
	for i := 0; i < 3; i++ {
		m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV", DeviceModel: "BIG-DRAW"})
	}
	result, err = m.ValidateCircuitCompliance(ctx, id)
	if err != nil {
		t.Fatalf("ValidateCircuitCompliance failed: %v", err)
	}
	if result.UtilizationPercent != 100 {
		t.Errorf("Expected 100%% utilization, got %v", result.UtilizationPercent)
	}
	if len(result.Warnings) == 0 {
		t.Error("Expected a utilization warning")
	}
}

func TestValidateComplianceUnknownCircuit(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	_, err := m.ValidateCircuitCompliance(ctx, "missing")
	if !errors.Is(err, ErrCircuitNotFound) {
		t.Errorf("Expected ErrCircuitNotFound, got %v", err)
	}
}
