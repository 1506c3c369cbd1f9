package registry

import "fmt"

// BuildConfig is the input to a full registry build.
type BuildConfig struct {
	Discover    DiscoverConfig
	PackageName string
}

// Build runs the full build-time pipeline: discover every call site
// matching cfg.Discover, validate them against each other, assign dense
// site_ids, and render the generated Go source. It is the single entry
// point cmd/nanologgen calls.
func Build(cfg BuildConfig) (string, []*Site, error) {
	sites, err := Discover(cfg.Discover)
	if err != nil {
		return "", nil, fmt.Errorf("registry: discovery failed: %w", err)
	}
	if len(sites) == 0 {
		return "", nil, fmt.Errorf("registry: no log call sites found under %v", cfg.Discover.Patterns)
	}
	if err := Validate(sites); err != nil {
		return "", nil, err
	}
	Assign(sites)
	src, err := Generate(cfg.PackageName, sites)
	if err != nil {
		return "", nil, fmt.Errorf("registry: codegen failed: %w", err)
	}
	return src, sites, nil
}
