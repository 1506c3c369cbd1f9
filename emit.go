package nanolog

import (
	"encoding/binary"
	"unsafe"

	"github.com/rishav/nanolog/ring"
)

// HeaderSize is the fixed 16-byte on-wire framing header shared by
// every record: an 8-byte little-endian site_id followed by an 8-byte
// little-endian timestamp.
const HeaderSize = 16

// Emit writes one record to p: the framing header, then rec (the
// site's record bytes in host-native layout; empty for an
// argument-less site), then a single Commit so the two Writes above
// publish atomically. Generated per-site functions are the only
// callers — Emit itself performs no formatting, no allocation beyond
// the fixed-size header array, and does not branch on the caller's
// identity.
func Emit(p *ring.Producer, siteID uint64, timestamp uint64, rec []byte) {
	var header [HeaderSize]byte
	binary.LittleEndian.PutUint64(header[0:8], siteID)
	binary.LittleEndian.PutUint64(header[8:16], timestamp)
	p.Write(header[:])
	if len(rec) > 0 {
		p.Write(rec)
	}
	p.Commit()
}

// RecordBytes reinterprets rec's native in-memory layout as a byte
// slice without copying. It is safe only for the fixed-layout,
// padding-free record structs package registry generates — plain
// structs of int64/float64 fields, which have no pointers and no
// padding on any platform Go supports, so their byte representation is
// exactly their native layout.
func RecordBytes[T any](rec *T) []byte {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(rec)), size)
}
