package nanolog

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/rishav/nanolog/ring"
)

// recordedEmit captures one Sink.Emit call for assertions.
type recordedEmit struct {
	siteID        uint64
	timestamp     uint64
	formatLiteral string
	args          []any
}

type fakeSink struct {
	emits []recordedEmit
}

func (f *fakeSink) Emit(siteID uint64, timestamp uint64, formatLiteral string, args ...any) {
	f.emits = append(f.emits, recordedEmit{siteID, timestamp, formatLiteral, append([]any(nil), args...)})
}

// logDF mirrors what package registry would generate for the shape
// [Int64, Float64].
type logDF struct {
	F0 int64
	F1 float64
}

var testRegistry = Registry{
	{ // site 0: "[T1] hi" — no placeholders
		FormatLiteral: "[T1] hi",
		RecordSize:    0,
		Decode: func(ts uint64, record []byte, sink Sink) {
			sink.Emit(0, ts, "[T1] hi")
		},
	},
	{ // site 1: "a=%d b=%f"
		FormatLiteral: "a=%d b=%f",
		RecordSize:    16,
		Decode: func(ts uint64, record []byte, sink Sink) {
			rec := DecodeRecord[logDF](record)
			sink.Emit(1, ts, "a=%d b=%f", rec.F0, rec.F1)
		},
	},
}

func TestEmptyRecordSite(t *testing.T) {
	p, c := ring.NewHandle(64, ring.Panic)
	Emit(p, 0, 1000, nil)

	dst := make([]byte, 64)
	n := c.Read(dst)
	if n != HeaderSize {
		t.Fatalf("got %d bytes, want %d (header only, no fields)", n, HeaderSize)
	}

	sink := &fakeSink{}
	DecodeBuf(testRegistry, sink, dst[:n])
	if len(sink.emits) != 1 {
		t.Fatalf("got %d emits, want 1", len(sink.emits))
	}
	got := sink.emits[0]
	if got.siteID != 0 || got.timestamp != 1000 || got.formatLiteral != "[T1] hi" {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestTwoArgumentSite(t *testing.T) {
	p, c := ring.NewHandle(64, ring.Panic)

	rec := logDF{F0: 7, F1: 2.5}
	Emit(p, 1, 2000, RecordBytes(&rec))

	dst := make([]byte, 64)
	n := c.Read(dst)
	if n != HeaderSize+16 {
		t.Fatalf("got %d bytes, want %d", n, HeaderSize+16)
	}

	sink := &fakeSink{}
	DecodeBuf(testRegistry, sink, dst[:n])
	if len(sink.emits) != 1 {
		t.Fatalf("got %d emits, want 1", len(sink.emits))
	}
	got := sink.emits[0]
	if got.siteID != 1 || got.timestamp != 2000 {
		t.Fatalf("unexpected header: %+v", got)
	}
	want := []any{int64(7), float64(2.5)}
	if !reflect.DeepEqual(got.args, want) {
		t.Fatalf("got args %v, want %v", got.args, want)
	}
}

// TestRoundTripLaw checks spec.md's round-trip law: a sequence of
// emits on one ring decodes, in order, to exactly the sequence of
// (site_id, timestamp, args) that was emitted.
func TestRoundTripLaw(t *testing.T) {
	p, c := ring.NewHandle(4096, ring.Panic)

	type call struct {
		siteID uint64
		ts     uint64
		rec    *logDF // nil for the no-arg site
	}
	calls := []call{
		{0, 100, nil},
		{1, 200, &logDF{F0: 1, F1: 1.5}},
		{1, 300, &logDF{F0: -4, F1: -9.25}},
		{0, 400, nil},
	}

	for _, c := range calls {
		if c.rec == nil {
			Emit(p, c.siteID, c.ts, nil)
		} else {
			Emit(p, c.siteID, c.ts, RecordBytes(c.rec))
		}
	}

	dst := make([]byte, 4096)
	n := c.Read(dst)

	sink := &fakeSink{}
	DecodeBuf(testRegistry, sink, dst[:n])

	if len(sink.emits) != len(calls) {
		t.Fatalf("got %d decoded records, want %d", len(sink.emits), len(calls))
	}
	for i, want := range calls {
		got := sink.emits[i]
		if got.siteID != want.siteID || got.timestamp != want.ts {
			t.Fatalf("record %d: got (site=%d ts=%d), want (site=%d ts=%d)", i, got.siteID, got.timestamp, want.siteID, want.ts)
		}
		if want.rec != nil {
			wantArgs := []any{want.rec.F0, want.rec.F1}
			if !reflect.DeepEqual(got.args, wantArgs) {
				t.Fatalf("record %d: got args %v, want %v", i, got.args, wantArgs)
			}
		}
	}
}

func TestDecodeBufPanicsOnUnknownSiteID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an out-of-range site_id")
		}
	}()
	p, c := ring.NewHandle(64, ring.Panic)
	Emit(p, 99, 1, nil) // site_id 99 is out of range for testRegistry
	dst := make([]byte, 64)
	n := c.Read(dst)
	DecodeBuf(testRegistry, &fakeSink{}, dst[:n])
}

func TestDecodeBufPanicsOnTruncatedRecord(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a truncated record")
		}
	}()
	// Header for site 1 (needs 16 more record bytes) with no record
	// bytes at all.
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], 1)
	DecodeBuf(testRegistry, &fakeSink{}, buf)
}
