package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLoggerWritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("segment added", CircuitID("SLC_PANEL1"), Float64("length_ft", 50))
	logger.Warn("voltage drop high", CircuitID("SLC_PANEL1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if entry["msg"] != "segment added" {
		t.Errorf("Expected msg 'segment added', got %v", entry["msg"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("Expected level INFO, got %v", entry["level"])
	}
	if entry["circuit_id"] != "SLC_PANEL1" {
		t.Errorf("Expected circuit_id field, got %v", entry["circuit_id"])
	}
}

func TestJSONLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %q", len(lines), buf.String())
	}
}

func TestWithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Panel("PANEL1"))
	child.Info("recalculated", Int("devices", 3))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if entry["panel"] != "PANEL1" {
		t.Errorf("Expected preset panel field, got %v", entry["panel"])
	}
	if entry["devices"] != float64(3) {
		t.Errorf("Expected devices=3, got %v", entry["devices"])
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("warn") != WarnLevel {
		t.Error("Expected warn to parse to WarnLevel")
	}
	if ParseLevel("bogus") != InfoLevel {
		t.Error("Expected unknown level to default to InfoLevel")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	// Must not panic and With must return a usable logger.
	logger.With(CircuitID("x")).Error("dropped", Error(nil))
}
