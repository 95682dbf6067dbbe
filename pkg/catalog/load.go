package catalog

import (
	"context"
	"fmt"

	"github.com/dd0wney/firecalc/pkg/storage"
)

// LoadFromStore fills the catalog from the fire_alarm_specs table,
// converting the stored milliamp values to amps.
func LoadFromStore(ctx context.Context, st storage.Store, c *Catalog) error {
	specs, err := st.ListDeviceSpecs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load device specs: %w", err)
	}
	for _, s := range specs {
		c.Register(DeviceSpec{
			Model:      s.Model,
			DeviceType: s.DeviceType,
			StandbyA:   s.StandbyMilliamps / 1000.0,
			AlarmA:     s.AlarmMilliamps / 1000.0,
		})
	}
	return nil
}
