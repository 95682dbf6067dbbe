package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dd0wney/firecalc/pkg/addressing"
	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/engine"
	"github.com/dd0wney/firecalc/pkg/project"
	"github.com/dd0wney/firecalc/pkg/storage"
	"github.com/dd0wney/firecalc/pkg/wire"
)

func main() {
	fmt.Printf("🔥 FireCalc Demo\n")
	fmt.Printf("================\n\n")

	cat := catalog.New()
	cat.Register(catalog.DeviceSpec{Model: "SD-751", DeviceType: "smoke", StandbyA: 0.0003, AlarmA: 0.006})
	cat.Register(catalog.DeviceSpec{Model: "HS-24", DeviceType: "horn-strobe", StandbyA: 0.001, AlarmA: 0.070})

	banner(1, "SLC Loop Analysis")
	demoLoopAnalysis(cat)

	banner(2, "Voltage Drop Failure")
	demoVoltageDropFailure()

	banner(3, "Battery Sizing")
	demoBatterySizing(cat)

	banner(4, "SLC Address Allocation")
	demoAddressing(cat)

	banner(5, "Project Summary")
	demoProjectSummary(cat)

	fmt.Printf("\n✅ Demo complete\n")
}

func banner(n int, title string) {
	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("📊 Step %d: %s\n", n, title)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}

// demoLoopAnalysis wires a three-device loop and prints its analysis.
func demoLoopAnalysis(cat *catalog.Catalog) {
	e := engine.New(engine.WithCatalog(cat))

	segments := []struct {
		from, to string
		lengthFt float64
	}{
		{"PANEL1", "SMOKE_101", 40},
		{"SMOKE_101", "SMOKE_102", 40},
		{"SMOKE_102", "SMOKE_103", 40},
	}
	var circuitID string
	for _, s := range segments {
		seg, err := wire.NewSegment(s.from, s.to, s.lengthFt, wire.Gauge14, 0.006, wire.CircuitSLC)
		if err != nil {
			log.Fatalf("segment: %v", err)
		}
		circuitID, err = e.AddSegment(seg)
		if err != nil {
			log.Fatalf("add segment: %v", err)
		}
	}

	a := e.Analyze(circuitID)
	fmt.Printf("Circuit: %s\n", a.CircuitID)
	fmt.Printf("Devices: %d over %.0f ft of wire\n", a.DeviceCount, a.TotalLengthFt)
	fmt.Printf("Voltage drop: %.4f V (%.2f%%)\n", a.TotalVoltageDrop, a.VoltageDropPercent)
	fmt.Printf("Compliance: %s\n", a.ComplianceStatus)
}

// demoVoltageDropFailure shows how an undersized long run fails compliance.
func demoVoltageDropFailure() {
	e := engine.New()

	seg, err := wire.NewSegment("PANEL1", "HORN_101", 8000, wire.Gauge18, 0.1, wire.CircuitNAC)
	if err != nil {
		log.Fatalf("segment: %v", err)
	}
	circuitID, err := e.AddSegment(seg)
	if err != nil {
		log.Fatalf("add segment: %v", err)
	}

	a := e.Analyze(circuitID)
	fmt.Printf("8000 ft of 18 AWG at 100 mA:\n")
	fmt.Printf("Voltage drop: %.2f V (%.1f%%) → %s\n", a.TotalVoltageDrop, a.VoltageDropPercent, a.ComplianceStatus)
	for _, w := range a.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
}

// demoBatterySizing sizes a panel battery from its attached circuits.
func demoBatterySizing(cat *catalog.Catalog) {
	e := engine.New(engine.WithCatalog(cat))

	for _, s := range []struct {
		from, to string
		ctype    wire.CircuitType
	}{
		{"PANEL1", "SMOKE_101", wire.CircuitSLC},
		{"SMOKE_101", "SMOKE_102", wire.CircuitSLC},
		{"PANEL1", "HORN_101", wire.CircuitNAC},
	} {
		seg, err := wire.NewSegment(s.from, s.to, 50, wire.Gauge14, 0.02, s.ctype)
		if err != nil {
			log.Fatalf("segment: %v", err)
		}
		if _, err := e.AddSegment(seg); err != nil {
			log.Fatalf("add segment: %v", err)
		}
	}

	calc, err := e.CalculateBatteryRequirements("PANEL1")
	if err != nil {
		log.Fatalf("battery: %v", err)
	}
	fmt.Printf("Standby: %.4f A for 24 h → %.2f AH\n", calc.StandbyCurrentA, calc.RequiredStandbyAH)
	fmt.Printf("Alarm:   %.4f A for 5 min → %.2f AH\n", calc.AlarmCurrentA, calc.RequiredAlarmAH)
	fmt.Printf("Recommended: %g AH (%s)\n", calc.RecommendedAH, calc.BatterySKU)
}

// demoAddressing creates a persisted SLC circuit and walks address
// assignment and compliance.
func demoAddressing(cat *catalog.Catalog) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	mgr := addressing.NewManager(st, cat)

	circuitID, err := mgr.CreateSLCCircuit(ctx, "FACP_PANEL1", 1)
	if err != nil {
		log.Fatalf("create circuit: %v", err)
	}
	fmt.Printf("Created circuit %s (Class A, 159 addresses)\n", circuitID)

	for i := 0; i < 3; i++ {
		addr, err := mgr.AssignDeviceAddress(ctx, circuitID, addressing.AssignRequest{
			DeviceID:    fmt.Sprintf("SD_PANEL1_%02d", i+1),
			DeviceModel: "SD-751",
		})
		if err != nil {
			log.Fatalf("assign: %v", err)
		}
		fmt.Printf("Assigned address %d\n", addr)
	}

	// A preferred address is honored when free.
	addr, err := mgr.AssignDeviceAddress(ctx, circuitID, addressing.AssignRequest{
		DeviceID: "HS_PANEL1_01", DeviceModel: "HS-24", PreferredAddress: 42,
	})
	if err != nil {
		log.Fatalf("assign preferred: %v", err)
	}
	fmt.Printf("Assigned preferred address %d\n", addr)

	result, err := mgr.ValidateCircuitCompliance(ctx, circuitID)
	if err != nil {
		log.Fatalf("compliance: %v", err)
	}
	fmt.Printf("Compliant: %v (utilization %.1f%%)\n", result.Compliant, result.UtilizationPercent)
}

// demoProjectSummary runs the whole-project calculation over a seeded store.
func demoProjectSummary(cat *catalog.Catalog) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	mgr := addressing.NewManager(st, cat)

	if err := st.CreatePanel(ctx, &storage.ProjectPanel{
		ID: "panel-1", ProjectID: "demo-project", DeviceID: "FACP_PANEL1", Model: "MS-9600", Name: "Main Panel",
	}); err != nil {
		log.Fatalf("panel: %v", err)
	}
	circuitID, err := mgr.CreateSLCCircuit(ctx, "FACP_PANEL1", 1)
	if err != nil {
		log.Fatalf("circuit: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := mgr.AssignDeviceAddress(ctx, circuitID, addressing.AssignRequest{
			DeviceID:    fmt.Sprintf("SD_PANEL1_%02d", i+1),
			DeviceModel: "SD-751",
		}); err != nil {
			log.Fatalf("assign: %v", err)
		}
	}

	pm := project.NewManager(st, cat)
	summary, err := pm.CalculateProjectCircuits(ctx, "demo-project")
	if err != nil {
		log.Fatalf("project: %v", err)
	}
	fmt.Printf("Circuits: %d, devices: %d\n", summary.TotalCircuits, summary.TotalDevices)
	for _, load := range summary.CircuitLoads {
		fmt.Printf("  Loop %d: %.4f A alarm, %.4f V drop (%.2f%%)\n",
			load.LoopNumber, load.AlarmCurrentA, load.VoltageDropV, load.VoltageDropPercent)
	}
	fmt.Printf("Battery: %g AH (%s)\n", summary.Battery.RecommendedAH, summary.Battery.BatterySKU)
	fmt.Printf("Power: %.2f W standby / %.2f W alarm\n", summary.Power.StandbyWatts, summary.Power.AlarmWatts)
}
