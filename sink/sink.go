// Package sink provides the external "decode into text" collaborator
// spec.md §6 deliberately keeps out of the core: nanolog.DecodeBuf hands
// each record to a nanolog.Sink as still-typed arguments, and this
// package is where formatting and I/O finally happen.
//
// TextSink batches formatted lines before writing them, the same way
// the teacher's event batcher amortizes fsync cost across many events
// instead of paying it per event.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"time"
)

// TextSink formats each decoded record with fmt.Sprintf against its
// verbatim format literal — "%d"/"%f" are valid Go fmt verbs already,
// so no translation step is needed — and batches the resulting lines
// before writing them to w.
type TextSink struct {
	w             io.Writer
	queue         chan string
	batchSize     int
	flushInterval time.Duration
	shutdownCh    chan struct{}
	shutdownDone  chan struct{}
}

// Config controls TextSink's batching behavior.
type Config struct {
	// BatchSize is the number of lines to accumulate before flushing.
	// Defaults to 256.
	BatchSize int
	// FlushInterval is the maximum time a partial batch waits before
	// being flushed anyway, bounding end-to-end latency. Defaults to
	// 10ms.
	FlushInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 256
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 10 * time.Millisecond
	}
	return c
}

// New creates a TextSink writing to w and starts its batching
// goroutine. Call Shutdown to drain and stop it.
func New(w io.Writer, cfg Config) *TextSink {
	cfg = cfg.withDefaults()
	s := &TextSink{
		w:             w,
		queue:         make(chan string, cfg.BatchSize*2),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		shutdownCh:    make(chan struct{}),
		shutdownDone:  make(chan struct{}),
	}
	go s.loop()
	return s
}

// Emit implements nanolog.Sink. It is non-blocking: if the queue is
// full a line is dropped rather than stalling the consumer that calls
// it, with a diagnostic so the drop isn't silent.
func (s *TextSink) Emit(siteID uint64, timestamp uint64, formatLiteral string, args ...any) {
	line := fmt.Sprintf("%d\t%d\t"+formatLiteral, append([]any{siteID, timestamp}, args...)...)
	select {
	case s.queue <- line:
	default:
		log.Printf("sink: queue full, dropping a record for site %d", siteID)
	}
}

func (s *TextSink) loop() {
	defer close(s.shutdownDone)

	bw := bufio.NewWriter(s.w)
	batch := make([]string, 0, s.batchSize)
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, line := range batch {
			fmt.Fprintln(bw, line)
		}
		if err := bw.Flush(); err != nil {
			log.Printf("sink: write error: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case line := <-s.queue:
			batch = append(batch, line)
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.shutdownCh:
			flush()
			for {
				select {
				case line := <-s.queue:
					batch = append(batch, line)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Shutdown flushes any buffered lines and stops the batching goroutine.
// It blocks until the goroutine has exited.
func (s *TextSink) Shutdown() {
	close(s.shutdownCh)
	<-s.shutdownDone
}
