package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"
)

// ErrCorruptEntry indicates a checksum mismatch or truncated frame.
var ErrCorruptEntry = errors.New("corrupt journal entry")

// Entry frame format:
//
//	[LSN:8][Kind:1][Timestamp:8][DataLen:4][Data:N][Checksum:4]
//
// Data is snappy-compressed; the checksum covers the compressed bytes.

// Append records an event and syncs it to disk.
func (j *Journal) Append(kind Kind, data []byte) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.currentLSN++
	lsn := j.currentLSN

	compressed := snappy.Encode(nil, data)

	if err := j.writeFrame(lsn, kind, time.Now().Unix(), compressed); err != nil {
		j.currentLSN--
		return 0, fmt.Errorf("failed to write journal entry: %w", err)
	}

	if err := j.writer.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush journal: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync journal: %w", err)
	}

	j.totalWrites++
	j.bytesUncompressed += uint64(len(data))
	j.bytesCompressed += uint64(len(compressed))

	return lsn, nil
}

func (j *Journal) writeFrame(lsn uint64, kind Kind, ts int64, compressed []byte) error {
	if err := binary.Write(j.writer, binary.BigEndian, lsn); err != nil {
		return err
	}
	if err := j.writer.WriteByte(byte(kind)); err != nil {
		return err
	}
	if err := binary.Write(j.writer, binary.BigEndian, ts); err != nil {
		return err
	}
	if err := binary.Write(j.writer, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := j.writer.Write(compressed); err != nil {
		return err
	}
	return binary.Write(j.writer, binary.BigEndian, crc32.ChecksumIEEE(compressed))
}

// Replay reads every entry from the start of the journal and passes it to
// fn. Replay stops at the first corrupt or truncated frame; entries before
// it are still delivered, matching crash-recovery semantics.
func (j *Journal) Replay(fn func(Entry) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush before replay: %w", err)
	}

	f, err := os.Open(j.path)
	if err != nil {
		return fmt.Errorf("failed to reopen journal for replay: %w", err)
	}
	defer f.Close()

	for {
		entry, err := readFrame(f)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrCorruptEntry) || err == io.ErrUnexpectedEOF {
				return nil
			}
			return fmt.Errorf("failed to read journal entry: %w", err)
		}
		if err := fn(*entry); err != nil {
			return err
		}
	}
}

func readFrame(r io.Reader) (*Entry, error) {
	var lsn uint64
	if err := binary.Read(r, binary.BigEndian, &lsn); err != nil {
		return nil, err
	}

	var kindByte [1]byte
	if _, err := io.ReadFull(r, kindByte[:]); err != nil {
		return nil, err
	}

	var ts int64
	if err := binary.Read(r, binary.BigEndian, &ts); err != nil {
		return nil, err
	}

	var dataLen uint32
	if err := binary.Read(r, binary.BigEndian, &dataLen); err != nil {
		return nil, err
	}

	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, err
	}

	var checksum uint32
	if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, fmt.Errorf("%w: LSN %d checksum mismatch", ErrCorruptEntry, lsn)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: LSN %d: %v", ErrCorruptEntry, lsn, err)
	}

	return &Entry{LSN: lsn, Kind: Kind(kindByte[0]), Timestamp: ts, Data: data}, nil
}

// recoverLSN scans the file to find the last written LSN.
func (j *Journal) recoverLSN() error {
	f, err := os.Open(j.path)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		entry, err := readFrame(f)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrCorruptEntry) || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		j.currentLSN = entry.LSN
	}
}
