// Package registry is the build-time site registry: it discovers every
// nanolog call site in a source tree, validates each against its
// format literal, deduplicates sites into a small set of record
// shapes, assigns dense site_ids, and generates the Go source a
// producer and a consumer link against.
//
// It runs once, before the instrumented program is compiled — there is
// no runtime component here. See cmd/nanologgen for the CLI driver.
package registry

import "github.com/rishav/nanolog/format"

// Site is one discovered log invocation.
type Site struct {
	// SourceFile is the logical path the call was found in.
	SourceFile string
	// SourceLine is the 1-based line of the call expression.
	SourceLine int
	// FormatLiteral is the verbatim format string.
	FormatLiteral string
	// Placeholders is the ordered placeholder sequence parsed from
	// FormatLiteral.
	Placeholders []format.Placeholder
	// ArgCount is the number of user-supplied argument expressions at
	// the call site (everything after the handle and the literal).
	ArgCount int

	// SiteID is assigned after deduplication, by enumerating sites
	// sorted by (SourceFile, SourceLine). Populated by Assign.
	SiteID int
}

// Shape returns the site's canonical record-shape signature, e.g.
// "DFD" for [Int64, Float64, Int64].
func (s *Site) Shape() string {
	return format.Shape(s.Placeholders)
}

// Key uniquely identifies a site by its (file, line) pair — the
// invariant spec.md §3 requires to be unique across a build.
type Key struct {
	File string
	Line int
}

func (s *Site) Key() Key {
	return Key{File: s.SourceFile, Line: s.SourceLine}
}
