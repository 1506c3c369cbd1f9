package registry

import "fmt"

// Validate checks every discovered site against the invariants spec.md
// §3 and §4 require before a registry can be built: each site's
// placeholder count must match its call-site arity, and no two sites
// may share a (source_file, source_line) key — duplicate discovery of
// the same call would otherwise silently double-count it.
func Validate(sites []*Site) error {
	seen := make(map[Key]*Site, len(sites))
	for _, s := range sites {
		if len(s.Placeholders) != s.ArgCount {
			return fmt.Errorf("registry: %s:%d: format literal %q takes %d argument(s), call site has %d",
				s.SourceFile, s.SourceLine, s.FormatLiteral, len(s.Placeholders), s.ArgCount)
		}
		if prev, ok := seen[s.Key()]; ok {
			return fmt.Errorf("registry: %s:%d: duplicate site (already discovered as %q at the same position)",
				s.SourceFile, s.SourceLine, prev.FormatLiteral)
		}
		seen[s.Key()] = s
	}
	return nil
}

// Assign orders sites deterministically — by source file, then by
// line — and stamps each with a dense, zero-based SiteID. Discovery
// order from packages.Load is not guaranteed stable across runs
// (map and filesystem iteration order), so a build that only sorts by
// discovery order risks silently renumbering sites between builds;
// sorting by position keeps SiteID assignment reproducible as long as
// the source tree itself is unchanged.
func Assign(sites []*Site) {
	sortSites(sites)
	for i, s := range sites {
		s.SiteID = i
	}
}

func sortSites(sites []*Site) {
	// Insertion sort: registries are small (hundreds of sites, not
	// millions) and this keeps the ordering rule — file, then line —
	// in one obvious place rather than behind a less-than closure.
	for i := 1; i < len(sites); i++ {
		for j := i; j > 0 && less(sites[j], sites[j-1]); j-- {
			sites[j], sites[j-1] = sites[j-1], sites[j]
		}
	}
}

func less(a, b *Site) bool {
	if a.SourceFile != b.SourceFile {
		return a.SourceFile < b.SourceFile
	}
	return a.SourceLine < b.SourceLine
}
