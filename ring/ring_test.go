package ring

import (
	"sync"
	"testing"
	"time"
)

func TestEmptyDrain(t *testing.T) {
	_, c := NewHandle(16, Panic)
	dst := make([]byte, 16)
	n := c.Read(dst)
	if n != 0 {
		t.Fatalf("expected 0 bytes from an empty ring, got %d", n)
	}
}

func TestCapacityMustBePowerOfTwo(t *testing.T) {
	for _, bad := range []uint64{0, 3, 5, 6, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d) should have panicked", bad)
				}
			}()
			New(bad)
		}()
	}
}

func TestWriteCommitReadRoundTrip(t *testing.T) {
	p, c := NewHandle(16, Panic)
	p.Write([]byte{1, 2, 3})
	p.Commit()

	dst := make([]byte, 16)
	n := c.Read(dst)
	if n != 3 {
		t.Fatalf("got %d bytes, want 3", n)
	}
	if string(dst[:n]) != string([]byte{1, 2, 3}) {
		t.Fatalf("got %v, want [1 2 3]", dst[:n])
	}
}

func TestMultipleWritesSingleCommitIsOneUnit(t *testing.T) {
	p, c := NewHandle(16, Panic)
	p.Write([]byte{1, 2, 3})
	p.Write([]byte{4, 5})
	p.Write([]byte{6, 7, 8, 9})
	p.Commit()

	dst := make([]byte, 16)
	n := c.Read(dst)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if n != len(want) {
		t.Fatalf("got %d bytes, want %d", n, len(want))
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestUncommittedWritesAreInvisible(t *testing.T) {
	p, c := NewHandle(16, Panic)
	p.Write([]byte{1, 2, 3})
	// no commit

	dst := make([]byte, 16)
	n := c.Read(dst)
	if n != 0 {
		t.Fatalf("expected uncommitted bytes to be invisible, got %d bytes", n)
	}
}

func TestWrapAround(t *testing.T) {
	p, c := NewHandle(16, Panic)

	// Consume 12 bytes so the next write straddles the end of the buffer.
	p.Write(make([]byte, 12))
	p.Commit()
	dst := make([]byte, 16)
	if n := c.Read(dst); n != 12 {
		t.Fatalf("got %d bytes, want 12", n)
	}

	record := []byte{10, 11, 12, 13, 14, 15, 16, 17}
	p.Write(record)
	p.Commit()

	n := c.Read(dst)
	if n != len(record) {
		t.Fatalf("got %d bytes, want %d", n, len(record))
	}
	for i := range record {
		if dst[i] != record[i] {
			t.Fatalf("byte %d: got %d, want %d", i, dst[i], record[i])
		}
	}
}

func TestBackpressureSpin(t *testing.T) {
	p, c := NewHandle(16, Spin)

	p.Write(make([]byte, 16))
	p.Commit()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Write(make([]byte, 4)) // must spin until the consumer drains
		p.Commit()
	}()

	// Give the producer a moment to start spinning, then drain.
	time.Sleep(10 * time.Millisecond)
	dst := make([]byte, 16)
	if n := c.Read(dst); n != 16 {
		t.Fatalf("got %d bytes, want 16", n)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer never completed its write after backpressure was relieved")
	}
}

func TestBackpressurePanicAborts(t *testing.T) {
	p, _ := NewHandle(16, Panic)
	p.Write(make([]byte, 16))
	p.Commit()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic on ring overflow")
		}
		oe, ok := r.(*OverflowError)
		if !ok {
			t.Fatalf("expected *OverflowError, got %T: %v", r, r)
		}
		if oe.Attempted != 4 || oe.Capacity != 16 {
			t.Fatalf("unexpected overflow diagnostic: %+v", oe)
		}
	}()
	p.Write(make([]byte, 4))
}

func TestRingInvariantHeadLessEqualTail(t *testing.T) {
	p, c := NewHandle(16, Spin)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p.Write([]byte{byte(i)})
			p.Commit()
		}
	}()

	dst := make([]byte, 16)
	consumed := 0
	for consumed < 1000 {
		n := c.Read(dst)
		consumed += n
		head, tail := c.r.head.Load(), c.r.tail.Load()
		if head > tail || tail-head > 16 {
			t.Fatalf("ring invariant violated: head=%d tail=%d", head, tail)
		}
	}
	wg.Wait()
}
