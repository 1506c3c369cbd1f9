// Package manifest persists the build-time registry's site metadata —
// the file_hash, source position, and record shape spec.md's filehash
// module derives per site — to a durable sidecar file a separate
// process can read without recompiling the instrumented program.
//
// It is a supplemental feature (SPEC_FULL.md, Open Question 2): the
// ring/record wire format never needs it, but an offline decoder that
// only has the raw ring dump and this sidecar can still reconstruct
// every format literal and record shape. The on-disk format — gob
// encoding plus a CRC32 checksum, fsynced before the write is
// considered durable — follows the teacher's append-only event log,
// simplified to a single record since a manifest is written once per
// build rather than continuously appended to.
package manifest

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"os"
)

// Entry describes one registered site.
type Entry struct {
	SiteID        int
	SourceFile    string
	SourceLine    int
	FileHash      uint64
	FormatLiteral string
	RecordShape   string
	RecordSize    int
}

// Manifest is the full set of entries for one build.
type Manifest struct {
	Entries []Entry
}

// onDisk wraps the gob-encoded payload with a checksum, the same
// corruption-detection layer the teacher's event log applies per
// record.
type onDisk struct {
	Payload  []byte
	Checksum uint32
}

// Write gob-encodes m and writes it to path, truncating any existing
// file, then fsyncs before returning so a caller that observes success
// knows the manifest has survived a crash.
func Write(path string, m Manifest) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(m); err != nil {
		return fmt.Errorf("manifest: encoding: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("manifest: opening %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	record := onDisk{
		Payload:  payload.Bytes(),
		Checksum: crc32.ChecksumIEEE(payload.Bytes()),
	}
	if err := gob.NewEncoder(writer).Encode(record); err != nil {
		return fmt.Errorf("manifest: writing %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("manifest: flushing %s: %w", path, err)
	}
	return file.Sync()
}

// Load reads and verifies a manifest written by Write.
func Load(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: opening %s: %w", path, err)
	}
	defer file.Close()

	var record onDisk
	if err := gob.NewDecoder(file).Decode(&record); err != nil {
		return Manifest{}, fmt.Errorf("manifest: decoding %s: %w", path, err)
	}
	if crc32.ChecksumIEEE(record.Payload) != record.Checksum {
		return Manifest{}, fmt.Errorf("manifest: %s: checksum mismatch, file is corrupt", path)
	}

	var m Manifest
	if err := gob.NewDecoder(bytes.NewReader(record.Payload)).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: decoding payload of %s: %w", path, err)
	}
	return m, nil
}
