package addressing

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/storage"
)

// TestAddressingInvariants verifies allocation invariants under arbitrary
// preferred-address request sequences.
func TestAddressingInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("assigned addresses are always unique", prop.ForAll(
		func(preferred []int) bool {
			ctx := context.Background()
			m := NewManager(storage.NewMemoryStore(), catalog.New())
			id, err := m.CreateSLCCircuit(ctx, "PANEL1", 1, WithMaxDevices(20))
			if err != nil {
				return false
			}

			seen := make(map[int]bool)
			for _, p := range preferred {
				addr, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV", PreferredAddress: p})
				if errors.Is(err, ErrCircuitFull) {
					continue
				}
				if err != nil {
					return false
				}
				if addr < 1 || addr > 20 {
					return false
				}
				if seen[addr] {
					return false
				}
				seen[addr] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-5, 30)),
	))

	properties.Property("capacity is enforced at exactly max devices", prop.ForAll(
		func(maxDevices int) bool {
			ctx := context.Background()
			m := NewManager(storage.NewMemoryStore(), catalog.New())
			id, err := m.CreateSLCCircuit(ctx, "PANEL1", 1, WithMaxDevices(maxDevices))
			if err != nil {
				return false
			}

			for i := 0; i < maxDevices; i++ {
				if _, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV"}); err != nil {
					return false
				}
			}
			_, err = m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV"})
			return errors.Is(err, ErrCircuitFull)
		},
		gen.IntRange(1, 30),
	))

	properties.Property("assign-all then remove-all restores the full range", prop.ForAll(
		func(maxDevices int) bool {
			ctx := context.Background()
			m := NewManager(storage.NewMemoryStore(), catalog.New())
			id, err := m.CreateSLCCircuit(ctx, "PANEL1", 1, WithMaxDevices(maxDevices))
			if err != nil {
				return false
			}

			for i := 0; i < maxDevices; i++ {
				if _, err := m.AssignDeviceAddress(ctx, id, AssignRequest{DeviceID: "DEV"}); err != nil {
					return false
				}
			}
			for addr := 1; addr <= maxDevices; addr++ {
				removed, err := m.RemoveDeviceAddress(ctx, id, addr)
				if err != nil || !removed {
					return false
				}
			}

			free, err := m.AvailableAddresses(ctx, id)
			if err != nil || len(free) != maxDevices {
				return false
			}
			calc, err := m.store.GetCalculations(ctx, id)
			return err == nil && calc.DeviceCount == 0
		},
		gen.IntRange(1, 25),
	))

	properties.TestingRun(t)
}
