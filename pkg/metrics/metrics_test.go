package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.RecalculationsTotal == nil {
		t.Error("RecalculationsTotal not initialized")
	}
	if r.AddressAssignmentsTotal == nil {
		t.Error("AddressAssignmentsTotal not initialized")
	}
	if r.BatteryRecommendedAH == nil {
		t.Error("BatteryRecommendedAH not initialized")
	}
	if r.Prometheus() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()
	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func gatherMetric(t *testing.T, r *Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := r.Prometheus().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestRecordRecalculation(t *testing.T) {
	r := NewRegistry()

	r.RecordRecalculation("SLC", "PASS", 2*time.Millisecond)
	r.RecordRecalculation("SLC", "FAIL", time.Millisecond)
	r.RecordRecalculation("NAC", "PASS", time.Millisecond)

	mf := gatherMetric(t, r, "firecalc_recalculations_total")
	if mf == nil {
		t.Fatal("firecalc_recalculations_total not gathered")
	}

	var slcCount float64
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "circuit_type" && l.GetValue() == "SLC" {
				slcCount = m.GetCounter().GetValue()
			}
		}
	}
	if slcCount != 2 {
		t.Errorf("Expected 2 SLC recalculations, got %v", slcCount)
	}
}

func TestRecordAssignmentAndRemoval(t *testing.T) {
	r := NewRegistry()

	r.RecordAssignment()
	r.RecordAssignment()
	r.RecordRemoval()
	r.RecordCircuitFull()

	mf := gatherMetric(t, r, "firecalc_address_assignments_total")
	if mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Error("Expected 2 assignments recorded")
	}

	mf = gatherMetric(t, r, "firecalc_circuit_full_total")
	if mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Error("Expected 1 circuit-full rejection recorded")
	}
}

func TestUpdateCircuitGauges(t *testing.T) {
	r := NewRegistry()

	r.UpdateCircuitGauges("SLC_PANEL1", 4.2, 17)

	mf := gatherMetric(t, r, "firecalc_circuit_voltage_drop_percent")
	if mf == nil {
		t.Fatal("voltage drop gauge not gathered")
	}
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 4.2 {
		t.Errorf("Expected 4.2, got %v", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	r := NewRegistry()

	r.RecordStoreOperation("create_address", "ok")
	r.RecordStoreOperation("create_address", "ok")
	r.RecordStoreOperation("create_address", "error")

	mf := gatherMetric(t, r, "firecalc_store_operations_total")
	if mf == nil {
		t.Fatal("store operations counter not gathered")
	}

	var okCount float64
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "status" && l.GetValue() == "ok" {
				okCount = m.GetCounter().GetValue()
			}
		}
	}
	if okCount != 2 {
		t.Errorf("Expected 2 ok operations, got %v", okCount)
	}
}

func TestRecordBattery(t *testing.T) {
	r := NewRegistry()

	r.RecordBattery("PANEL1", 26)

	mf := gatherMetric(t, r, "firecalc_battery_recommended_amp_hours")
	if mf == nil {
		t.Fatal("battery gauge not gathered")
	}
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 26 {
		t.Errorf("Expected 26, got %v", got)
	}
}
