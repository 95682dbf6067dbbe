package journal

import (
	"fmt"
	"testing"
)

func TestAppendAndReplay(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	payloads := []string{
		`{"circuit_id":"SLC_PANEL1","status":"PASS"}`,
		`{"circuit_id":"SLC_PANEL1","status":"WARN"}`,
		`{"circuit_id":"NAC_PANEL1","status":"PASS"}`,
	}
	for i, p := range payloads {
		lsn, err := j.Append(KindAnalysis, []byte(p))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if lsn != uint64(i+1) {
			t.Errorf("Expected LSN %d, got %d", i+1, lsn)
		}
	}

	var got []string
	err = j.Replay(func(e Entry) error {
		if e.Kind != KindAnalysis {
			t.Errorf("Expected analysis kind, got %v", e.Kind)
		}
		got = append(got, string(e.Data))
		return nil
	})
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if len(got) != len(payloads) {
		t.Fatalf("Expected %d entries, got %d", len(payloads), len(got))
	}
	for i := range payloads {
		if got[i] != payloads[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, payloads[i], got[i])
		}
	}
}

func TestLSNRecoveryAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := j.Append(KindAddressAssigned, []byte(fmt.Sprintf(`{"address":%d}`, i+1))); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	if got := reopened.LastLSN(); got != 5 {
		t.Errorf("Expected recovered LSN 5, got %d", got)
	}

	lsn, err := reopened.Append(KindAddressRemoved, []byte(`{"address":1}`))
	if err != nil {
		t.Fatalf("Append after reopen failed: %v", err)
	}
	if lsn != 6 {
		t.Errorf("Expected LSN 6 after reopen, got %d", lsn)
	}
}

func TestStats(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	// Repetitive payload compresses well.
	payload := []byte(`{"circuit_id":"SLC_PANEL1","voltage_drop":0.0,"voltage_drop":0.0,"voltage_drop":0.0}`)
	for i := 0; i < 10; i++ {
		if _, err := j.Append(KindAnalysis, payload); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	stats := j.Stats()
	if stats.TotalWrites != 10 {
		t.Errorf("Expected 10 writes, got %d", stats.TotalWrites)
	}
	if stats.BytesCompressed >= stats.BytesUncompressed {
		t.Errorf("Expected compression to reduce size: %d >= %d",
			stats.BytesCompressed, stats.BytesUncompressed)
	}
	if stats.LastLSN != 10 {
		t.Errorf("Expected last LSN 10, got %d", stats.LastLSN)
	}
}

func TestReplayEmptyJournal(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	calls := 0
	if err := j.Replay(func(Entry) error { calls++; return nil }); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no entries, got %d", calls)
	}
}
