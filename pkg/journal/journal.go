// Package journal is an append-only, snappy-compressed log of calculation
// events. Persisted circuit_calculations rows can go stale if the process
// dies between a mutation and its recalculation commit; replaying the
// journal rebuilds them without guessing.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Kind identifies what a journal entry records.
type Kind byte

const (
	KindSegmentAdded    Kind = 1
	KindSegmentRemoved  Kind = 2
	KindAnalysis        Kind = 3
	KindAddressAssigned Kind = 4
	KindAddressRemoved  Kind = 5
	KindBattery         Kind = 6
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSegmentAdded:
		return "segment_added"
	case KindSegmentRemoved:
		return "segment_removed"
	case KindAnalysis:
		return "analysis"
	case KindAddressAssigned:
		return "address_assigned"
	case KindAddressRemoved:
		return "address_removed"
	case KindBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// Entry is one recorded calculation event.
type Entry struct {
	LSN       uint64
	Kind      Kind
	Timestamp int64
	Data      []byte // uncompressed payload, typically JSON
}

// Journal writes entries to a single append-only file.
type Journal struct {
	file       *os.File
	writer     *bufio.Writer
	currentLSN uint64
	path       string
	mu         sync.Mutex

	totalWrites       uint64
	bytesUncompressed uint64
	bytesCompressed   uint64
}

// Stats reports journal write and compression counters.
type Stats struct {
	TotalWrites       uint64
	BytesUncompressed uint64
	BytesCompressed   uint64
	CompressionRatio  float64
	LastLSN           uint64
}

// Open opens or creates the journal under dir and recovers the last LSN by
// scanning existing entries.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(dir, "calc_journal.log")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	j := &Journal{
		file:   file,
		writer: bufio.NewWriter(file),
		path:   path,
	}

	if err := j.recoverLSN(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to recover journal LSN: %w", err)
	}

	return j, nil
}

// LastLSN returns the sequence number of the most recent entry.
func (j *Journal) LastLSN() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.currentLSN
}

// Stats returns write and compression counters.
func (j *Journal) Stats() Stats {
	j.mu.Lock()
	defer j.mu.Unlock()

	ratio := 0.0
	if j.bytesUncompressed > 0 {
		ratio = 1.0 - float64(j.bytesCompressed)/float64(j.bytesUncompressed)
	}
	return Stats{
		TotalWrites:       j.totalWrites,
		BytesUncompressed: j.bytesUncompressed,
		BytesCompressed:   j.bytesCompressed,
		CompressionRatio:  ratio,
		LastLSN:           j.currentLSN,
	}
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}
	return j.file.Close()
}
