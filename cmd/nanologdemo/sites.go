package main

import "github.com/rishav/nanolog/ring"

// tick and priceUpdate are the pre-codegen call sites generated_nanolog.go
// was generated from: nanologgen scans for calls shaped like Log below,
// and these two are what produced site 0 and site 1 there. The program
// itself calls the generated LogSite0/LogSite1 functions directly — once
// a build has run, application code never calls Log.
func tick(p *ring.Producer, ts uint64) {
	Log(p, "tick")
}

func priceUpdate(p *ring.Producer, ts uint64, symbol int64, price float64) {
	Log(p, "price update symbol=%d price=%f", symbol, price)
}

// Log is the marker nanologgen's discovery pass recognizes. It is never
// called at runtime in a built program — application code calls the
// generated LogSiteN functions instead — so its
// body only needs to satisfy the compiler during discovery.
func Log(p *ring.Producer, format string, args ...any) {}
