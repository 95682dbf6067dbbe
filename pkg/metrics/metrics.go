// Package metrics exposes Prometheus instrumentation for the calculation
// engine. The core never mounts an HTTP handler; embedding applications pull
// the registry and expose it however they serve metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the calculation engine
type Registry struct {
	// Recalculation metrics
	RecalculationsTotal   *prometheus.CounterVec
	RecalculationDuration *prometheus.HistogramVec

	// Compliance metrics
	ComplianceResultsTotal *prometheus.CounterVec
	CircuitVoltageDropPct  *prometheus.GaugeVec
	CircuitDevices         *prometheus.GaugeVec

	// Addressing metrics
	AddressAssignmentsTotal prometheus.Counter
	AddressRemovalsTotal    prometheus.Counter
	CircuitFullTotal        prometheus.Counter

	// Battery metrics
	BatteryRecommendedAH *prometheus.GaugeVec

	// Storage metrics
	StoreOperationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a Registry backed by its own Prometheus registry
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.RecalculationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "firecalc_recalculations_total",
			Help: "Total number of circuit recalculations",
		},
		[]string{"circuit_type"},
	)

	r.RecalculationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "firecalc_recalculation_duration_seconds",
			Help:    "Circuit recalculation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"circuit_type"},
	)

	r.ComplianceResultsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "firecalc_compliance_results_total",
			Help: "Compliance verdicts produced by circuit analysis",
		},
		[]string{"status"},
	)

	r.CircuitVoltageDropPct = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "firecalc_circuit_voltage_drop_percent",
			Help: "Latest voltage drop percentage per circuit",
		},
		[]string{"circuit_id"},
	)

	r.CircuitDevices = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "firecalc_circuit_devices",
			Help: "Latest device count per circuit",
		},
		[]string{"circuit_id"},
	)

	r.AddressAssignmentsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "firecalc_address_assignments_total",
			Help: "Total SLC device addresses assigned",
		},
	)

	r.AddressRemovalsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "firecalc_address_removals_total",
			Help: "Total SLC device addresses removed",
		},
	)

	r.CircuitFullTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "firecalc_circuit_full_total",
			Help: "Address assignments rejected because the circuit was full",
		},
	)

	r.BatteryRecommendedAH = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "firecalc_battery_recommended_amp_hours",
			Help: "Latest recommended battery size per panel",
		},
		[]string{"panel"},
	)

	r.StoreOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "firecalc_store_operations_total",
			Help: "Persistence operations by kind and status",
		},
		[]string{"operation", "status"},
	)

	return r
}

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Prometheus returns the underlying registry for exposition or gathering
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordRecalculation records one circuit recalculation with its verdict
func (r *Registry) RecordRecalculation(circuitType, status string, duration time.Duration) {
	r.RecalculationsTotal.WithLabelValues(circuitType).Inc()
	r.RecalculationDuration.WithLabelValues(circuitType).Observe(duration.Seconds())
	r.ComplianceResultsTotal.WithLabelValues(status).Inc()
}

// UpdateCircuitGauges records the latest analysis snapshot for a circuit
func (r *Registry) UpdateCircuitGauges(circuitID string, voltageDropPct float64, devices int) {
	r.CircuitVoltageDropPct.WithLabelValues(circuitID).Set(voltageDropPct)
	r.CircuitDevices.WithLabelValues(circuitID).Set(float64(devices))
}

// RecordAssignment records a successful address assignment
func (r *Registry) RecordAssignment() {
	r.AddressAssignmentsTotal.Inc()
}

// RecordRemoval records a successful address removal
func (r *Registry) RecordRemoval() {
	r.AddressRemovalsTotal.Inc()
}

// RecordCircuitFull records a rejected assignment
func (r *Registry) RecordCircuitFull() {
	r.CircuitFullTotal.Inc()
}

// RecordBattery records the latest battery recommendation for a panel
func (r *Registry) RecordBattery(panel string, recommendedAH float64) {
	r.BatteryRecommendedAH.WithLabelValues(panel).Set(recommendedAH)
}

// RecordStoreOperation records one persistence call
func (r *Registry) RecordStoreOperation(operation, status string) {
	r.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}
