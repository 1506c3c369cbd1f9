// Command nanologgen is the build-time driver for package registry: it
// scans a source tree for log call sites, validates them, and writes
// the generated Go source and its manifest sidecar to disk.
//
// Usage:
//
//	nanologgen -out generated_nanolog.go -manifest nanolog.manifest ./...
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rishav/nanolog/filehash"
	"github.com/rishav/nanolog/manifest"
	"github.com/rishav/nanolog/registry"
)

// Config holds the generator's configuration.
type Config struct {
	Dir          string
	Patterns     []string
	CallName     string
	PackageName  string
	OutPath      string
	ManifestPath string
}

// DefaultConfig returns reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Patterns:     []string{"./..."},
		CallName:     "Log",
		PackageName:  "nanologgen",
		OutPath:      "generated_nanolog.go",
		ManifestPath: "nanolog.manifest",
	}
}

func main() {
	dir := flag.String("dir", "", "working directory patterns are resolved relative to (default: current directory)")
	callName := flag.String("call", "Log", "identifier or selector name recognized as a log call")
	pkg := flag.String("package", "nanologgen", "package name for the generated source file")
	out := flag.String("out", "generated_nanolog.go", "path to write the generated Go source to")
	manifestPath := flag.String("manifest", "nanolog.manifest", "path to write the site manifest sidecar to")
	flag.Parse()

	config := DefaultConfig()
	config.Dir = *dir
	config.CallName = *callName
	config.PackageName = *pkg
	config.OutPath = *out
	config.ManifestPath = *manifestPath
	if patterns := flag.Args(); len(patterns) > 0 {
		config.Patterns = patterns
	}

	if err := run(config); err != nil {
		log.Fatalf("nanologgen: %v", err)
	}
}

func run(config Config) error {
	src, sites, err := registry.Build(registry.BuildConfig{
		Discover: registry.DiscoverConfig{
			Dir:      config.Dir,
			Patterns: config.Patterns,
			CallName: config.CallName,
		},
		PackageName: config.PackageName,
	})
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}

	if err := os.WriteFile(config.OutPath, []byte(src), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", config.OutPath, err)
	}
	log.Printf("nanologgen: wrote %d site(s) to %s", len(sites), config.OutPath)

	m := manifest.Manifest{Entries: make([]manifest.Entry, len(sites))}
	hashes := make(map[string]uint64)
	for i, s := range sites {
		h, ok := hashes[s.SourceFile]
		if !ok {
			h = filehash.Hash(s.SourceFile)
			hashes[s.SourceFile] = h
		}
		shape := s.Shape()
		m.Entries[i] = manifest.Entry{
			SiteID:        s.SiteID,
			SourceFile:    s.SourceFile,
			SourceLine:    s.SourceLine,
			FileHash:      h,
			FormatLiteral: s.FormatLiteral,
			RecordShape:   shape,
			RecordSize:    len(shape) * 8,
		}
	}
	if err := manifest.Write(config.ManifestPath, m); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	log.Printf("nanologgen: wrote manifest to %s", config.ManifestPath)
	return nil
}
