package battery

import (
	"errors"
	"math"
	"testing"
)

func TestRequiredAmpHours(t *testing.T) {
	got, err := RequiredAmpHours([]float64{0.02, 0.02, 0.02, 0.100}, 24.0, 0.8)
	if err != nil {
		t.Fatalf("RequiredAmpHours failed: %v", err)
	}

	want := (0.02 + 0.02 + 0.02 + 0.100) * 24.0 / 0.8
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRequiredAmpHoursEmpty(t *testing.T) {
	got, err := RequiredAmpHours(nil, 24.0, 0.8)
	if err != nil {
		t.Fatalf("RequiredAmpHours failed: %v", err)
	}
	if got != 0.0 {
		t.Errorf("Expected 0.0 for no currents, got %v", got)
	}
}

func TestRequiredAmpHoursInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		hours   float64
		derate  float64
		wantErr error
	}{
		{"zero hours", 0, 0.8, ErrInvalidBackupHours},
		{"negative hours", -1, 0.8, ErrInvalidBackupHours},
		{"zero derate", 24, 0, ErrInvalidDerate},
		{"negative derate", 24, -0.5, ErrInvalidDerate},
		{"derate above one", 24, 1.1, ErrInvalidDerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequiredAmpHours([]float64{0.1}, tt.hours, tt.derate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecommendAmpHours(t *testing.T) {
	tests := []struct {
		required float64
		want     float64
	}{
		{0, 7},
		{6.9, 7},
		{7, 7},
		{7.01, 12},
		{25, 26},
		{99, 100},
		{100, 100},
		{250, 100}, // capped at largest standard size
	}

	for _, tt := range tests {
		if got := RecommendAmpHours(tt.required); got != tt.want {
			t.Errorf("RecommendAmpHours(%v): expected %v, got %v", tt.required, tt.want, got)
		}
	}
}

func TestSKU(t *testing.T) {
	if got := SKU(26); got != "12V-26AH" {
		t.Errorf("Expected 12V-26AH, got %s", got)
	}
}

func TestSizePicksGoverningRequirement(t *testing.T) {
	// Standby dominates: 0.5A over 24h vs 2A over 5min.
	calc, err := Size([]float64{0.5}, []float64{2.0}, DefaultBackupHours, DefaultAlarmHours, DefaultDerate)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}

	if calc.RequiredStandbyAH <= calc.RequiredAlarmAH {
		t.Fatalf("Expected standby requirement to dominate: standby=%v alarm=%v",
			calc.RequiredStandbyAH, calc.RequiredAlarmAH)
	}
	if calc.TotalRequiredAH() != calc.RequiredStandbyAH {
		t.Errorf("Expected total requirement %v, got %v", calc.RequiredStandbyAH, calc.TotalRequiredAH())
	}
	if calc.RecommendedAH < calc.TotalRequiredAH() && calc.RecommendedAH != StandardAmpHours[len(StandardAmpHours)-1] {
		t.Errorf("Recommended %v does not cover requirement %v", calc.RecommendedAH, calc.TotalRequiredAH())
	}
	if calc.DeratingFactor != DefaultDerate {
		t.Errorf("Expected derate %v, got %v", DefaultDerate, calc.DeratingFactor)
	}
}

func TestSizePropagatesInvalidDerate(t *testing.T) {
	_, err := Size([]float64{0.1}, []float64{0.1}, 24, DefaultAlarmHours, 1.5)
	if !errors.Is(err, ErrInvalidDerate) {
		t.Errorf("Expected ErrInvalidDerate, got %v", err)
	}
}
