package catalog

import "testing"

func TestLookupUnregistered(t *testing.T) {
	c := New()
	if _, ok := c.Lookup("SD-365"); ok {
		t.Error("Expected miss for unregistered model")
	}
	if got := c.CurrentOrDefault("SD-365"); got != DefaultCurrentA {
		t.Errorf("Expected default %v, got %v", DefaultCurrentA, got)
	}
}

func TestRegisterAndLookup(t *testing.T) {
	c := New()
	c.Register(DeviceSpec{Model: "SD-365", DeviceType: "smoke_detector", StandbyA: 0.0003, AlarmA: 0.0065})

	spec, ok := c.Lookup("sd-365")
	if !ok {
		t.Fatal("Expected case-insensitive lookup hit")
	}
	if spec.StandbyA != 0.0003 {
		t.Errorf("Expected standby 0.0003, got %v", spec.StandbyA)
	}
	if got := c.AlarmOrDefault("SD-365"); got != 0.0065 {
		t.Errorf("Expected alarm 0.0065, got %v", got)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 spec, got %d", c.Len())
	}
}

func TestRegisterReplaces(t *testing.T) {
	c := New()
	c.Register(DeviceSpec{Model: "HS-24", StandbyA: 0.001, AlarmA: 0.030})
	c.Register(DeviceSpec{Model: "HS-24", StandbyA: 0.002, AlarmA: 0.044})

	if got := c.StandbyOrDefault("HS-24"); got != 0.002 {
		t.Errorf("Expected replacement spec 0.002, got %v", got)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 spec after replace, got %d", c.Len())
	}
}
