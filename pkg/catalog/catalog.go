// Package catalog holds per-model device current specifications. The data
// comes from manufacturer datasheets and is normally loaded from the
// fire_alarm_specs table; unregistered devices fall back to a documented
// 20 mA default so a half-entered project still calculates.
package catalog

import (
	"strings"
	"sync"
)

// DefaultCurrentA is the assumed draw for devices with no registered spec.
const DefaultCurrentA = 0.020

// DeviceSpec describes one device model's electrical profile.
type DeviceSpec struct {
	Model      string
	DeviceType string
	StandbyA   float64
	AlarmA     float64
}

// Catalog is a concurrency-safe model → spec lookup.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]DeviceSpec
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{specs: make(map[string]DeviceSpec)}
}

// Register adds or replaces the spec for a model.
func (c *Catalog) Register(spec DeviceSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specs[normalize(spec.Model)] = spec
}

// Lookup returns the spec for a model and whether it was registered.
func (c *Catalog) Lookup(model string) (DeviceSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	spec, ok := c.specs[normalize(model)]
	return spec, ok
}

// CurrentOrDefault returns the device's nominal current, falling back to
// DefaultCurrentA for unregistered models. The live engine keys battery
// partitioning off this single value.
func (c *Catalog) CurrentOrDefault(model string) float64 {
	if spec, ok := c.Lookup(model); ok {
		return spec.StandbyA
	}
	return DefaultCurrentA
}

// StandbyOrDefault returns the standby draw, defaulting for unknown models.
func (c *Catalog) StandbyOrDefault(model string) float64 {
	if spec, ok := c.Lookup(model); ok {
		return spec.StandbyA
	}
	return DefaultCurrentA
}

// AlarmOrDefault returns the alarm draw, defaulting for unknown models.
func (c *Catalog) AlarmOrDefault(model string) float64 {
	if spec, ok := c.Lookup(model); ok {
		return spec.AlarmA
	}
	return DefaultCurrentA
}

// Len returns the number of registered specs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.specs)
}

func normalize(model string) string {
	return strings.ToUpper(strings.TrimSpace(model))
}
