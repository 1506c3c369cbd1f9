// Command nanologdemo wires the whole pipeline together end to end:
// a producer goroutine calling generated per-site emit functions, a
// lock-free ring in between, a consumer.Runner draining and decoding,
// and a sink.TextSink formatting the result to stdout.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rishav/nanolog/clock"
	"github.com/rishav/nanolog/consumer"
	"github.com/rishav/nanolog/ring"
	"github.com/rishav/nanolog/sink"
)

// Config holds the demo's configuration.
type Config struct {
	RingCapacity uint64
	TickInterval time.Duration
}

// DefaultConfig returns reasonable defaults.
func DefaultConfig() Config {
	return Config{
		RingCapacity: 1 << 16,
		TickInterval: 2 * time.Millisecond,
	}
}

func main() {
	capacity := flag.Uint64("capacity", 1<<16, "ring buffer capacity in bytes, must be a power of two")
	interval := flag.Duration("interval", 2*time.Millisecond, "interval between simulated log calls")
	flag.Parse()

	config := DefaultConfig()
	config.RingCapacity = *capacity
	config.TickInterval = *interval

	if err := run(config); err != nil {
		log.Fatalf("nanologdemo: %v", err)
	}
}

func run(config Config) error {
	producer, ringConsumer := ring.NewHandle(config.RingCapacity, ring.Spin)

	textSink := sink.New(os.Stdout, sink.Config{})
	runner := consumer.New([]*ring.Consumer{ringConsumer}, Sites, textSink, int(config.RingCapacity))
	runner.Start()

	now := clock.NewReader(clock.Monotonic)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("nanologdemo: shutting down")
		cancel()
	}()

	var symbol int64
	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			runner.Shutdown()
			textSink.Shutdown()
			return nil
		case <-ticker.C:
			symbol++
			LogSite0(producer, now())
			LogSite1(producer, now(), symbol, float64(symbol)*1.5)
		}
	}
}
