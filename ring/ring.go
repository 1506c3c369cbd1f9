// Package ring implements a single-producer / single-consumer lock-free
// byte ring buffer, the transport nanolog's generated emit path writes
// into and its consumer drains from.
//
// Design:
//   - Fixed power-of-two capacity so wrap-around is a bitwise AND
//     instead of a modulo.
//   - Pre-allocated backing array: no allocation on the hot path.
//   - Exactly one producer goroutine and one consumer goroutine per
//     ring — there is no CAS loop here, unlike a multi-producer
//     disruptor, because nanolog gives every producer thread its own
//     ring (see package consumer for the fan-out across rings).
//   - The only shared mutable state is the head/tail cursor pair;
//     everything else (writerTail/writerHead, readerHead) is
//     goroutine-local.
package ring

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// WaitStrategy selects what a producer does when it finds the ring full.
type WaitStrategy int

const (
	// Spin busy-waits, reloading the consumer's head until enough
	// space has been freed. Bounded only by the consumer's drain rate.
	Spin WaitStrategy = iota
	// Panic fails immediately with a diagnostic instead of waiting.
	Panic
)

func (w WaitStrategy) String() string {
	switch w {
	case Spin:
		return "Spin"
	case Panic:
		return "Panic"
	default:
		return fmt.Sprintf("WaitStrategy(%d)", int(w))
	}
}

// OverflowError is the diagnostic panic value raised by a Producer under
// the Panic wait strategy when a write would not fit.
type OverflowError struct {
	WriterTail uint64
	Head       uint64
	Attempted  uint64
	Capacity   uint64
}

func (e *OverflowError) Error() string {
	fill := e.WriterTail - e.Head
	return fmt.Sprintf("ring: overflow — fill=%d/%d, attempted write of %d bytes (writer_tail=%d, head=%d)",
		fill, e.Capacity, e.Attempted, e.WriterTail, e.Head)
}

// Ring is the shared byte buffer. It is never used directly by callers:
// NewHandle splits it into a Producer and a Consumer endpoint.
type Ring struct {
	buf  []byte
	mask uint64

	head atomic.Uint64 // consumer's advance point; bytes [0, head) are fully consumed
	tail atomic.Uint64 // producer's commit point; bytes [0, tail) are fully published
}

// New allocates a ring of the given capacity, which must be a power of
// two. It panics otherwise — capacity is always a build/construction
// time constant, never derived from untrusted input.
func New(capacity uint64) *Ring {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("ring: capacity %d is not a power of two", capacity))
	}
	return &Ring{
		buf:  make([]byte, capacity),
		mask: capacity - 1,
	}
}

// Capacity returns the ring's fixed byte capacity.
func (r *Ring) Capacity() uint64 {
	return uint64(len(r.buf))
}

// Producer is the write/commit endpoint of a ring. Conceptually pinned
// to the thread that created it: nothing here synchronizes concurrent
// callers, so only one goroutine may use a given Producer at a time.
type Producer struct {
	r    *Ring
	wait WaitStrategy

	writerTail uint64 // exact, private
	writerHead uint64 // conservative lower bound of head, refreshed only on backpressure
}

// Consumer is the read endpoint of a ring. Single-consumer: nothing
// here supports concurrent calls to Read from multiple goroutines.
type Consumer struct {
	r          *Ring
	readerHead uint64
}

// NewHandle creates a ring of the given capacity and wait strategy and
// splits it into exactly one Producer and one Consumer. The ring's
// storage is shared for as long as either endpoint is reachable; there
// is no explicit teardown because Go's GC reclaims it once both are
// dropped.
func NewHandle(capacity uint64, wait WaitStrategy) (*Producer, *Consumer) {
	r := New(capacity)
	return &Producer{r: r, wait: wait}, &Consumer{r: r}
}

// Write copies b into the ring at the producer's uncommitted tail. It
// does not publish the bytes — call Commit to do that. len(b) must be
// at most the ring's capacity.
//
// If there is insufficient free space, Write applies the producer's
// wait strategy: Spin blocks until the consumer has drained enough,
// Panic aborts immediately with an *OverflowError.
func (p *Producer) Write(b []byte) {
	if len(b) == 0 {
		return
	}
	cap := p.r.Capacity()
	n := uint64(len(b))
	if n > cap {
		panic(fmt.Sprintf("ring: write of %d bytes exceeds ring capacity %d", n, cap))
	}

	p.waitForSpace(n)

	start := p.writerTail & p.r.mask
	if start+n <= cap {
		copy(p.r.buf[start:start+n], b)
	} else {
		firstLen := cap - start
		copy(p.r.buf[start:], b[:firstLen])
		copy(p.r.buf[:n-firstLen], b[firstLen:])
	}
	p.writerTail += n
}

func (p *Producer) waitForSpace(n uint64) {
	cap := p.r.Capacity()
	switch p.wait {
	case Panic:
		head := p.r.head.Load()
		inFlight := p.writerTail - head
		remaining := cap - inFlight
		if n > remaining {
			panic(&OverflowError{WriterTail: p.writerTail, Head: head, Attempted: n, Capacity: cap})
		}
	case Spin:
		for {
			inFlight := p.writerTail - p.writerHead
			remaining := cap - inFlight
			if n <= remaining {
				return
			}
			// Refresh the cached head — the only time the producer reads
			// shared memory on this path — and yield to the consumer.
			p.writerHead = p.r.head.Load()
			runtime.Gosched()
		}
	default:
		panic(fmt.Sprintf("ring: unknown wait strategy %v", p.wait))
	}
}

// Commit publishes every Write since the previous Commit by storing the
// producer's local tail into the shared tail counter. Multiple Writes
// between two Commits are a single unit of publication: the consumer
// either observes all of them or none.
func (p *Producer) Commit() {
	p.r.tail.Store(p.writerTail)
}

// Read drains all bytes published since the last Read into dst,
// returning the number of bytes copied. dst must be at least the
// ring's capacity long, so a fully-drained ring is always guaranteed
// to fit.
func (c *Consumer) Read(dst []byte) int {
	cap := c.r.Capacity()
	if uint64(len(dst)) < cap {
		panic(fmt.Sprintf("ring: read buffer of %d bytes is smaller than ring capacity %d", len(dst), cap))
	}

	tail := c.r.tail.Load()
	n := tail - c.readerHead
	if n == 0 {
		return 0
	}

	start := c.readerHead & c.r.mask
	if start+n <= cap {
		copy(dst[:n], c.r.buf[start:start+n])
	} else {
		firstLen := cap - start
		copy(dst[:firstLen], c.r.buf[start:])
		copy(dst[firstLen:n], c.r.buf[:n-firstLen])
	}

	c.readerHead = tail
	c.r.head.Store(tail)
	return int(n)
}

// Capacity returns the underlying ring's byte capacity, primarily so
// callers can size their scratch read buffer.
func (c *Consumer) Capacity() uint64 {
	return c.r.Capacity()
}
