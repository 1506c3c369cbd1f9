// Package nanolog is a nanosecond-scale structured logging core: the
// hot-path cost of a log call is a handful of stores into a
// thread-local ring buffer, with no formatting, allocation, or syscalls
// on the producer side.
//
// A build-time scan (package registry) discovers every log call site,
// derives a fixed binary record layout from its format string, and
// generates the per-site emit functions and the consumer-side dispatch
// table this package's Emit and DecodeBuf tie together. Package ring
// is the lock-free SPSC transport in between.
//
// Producer threads never see a failure result from a log call — the
// ring's wait strategy (ring.Spin or ring.Panic) is the only knob that
// controls what happens when a ring fills up faster than its consumer
// drains it.
package nanolog
