package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// goType maps a shape letter ('D' or 'F') to the Go field/parameter
// type the generated struct and emitter use for it.
func goType(letter rune) string {
	switch letter {
	case 'D':
		return "int64"
	case 'F':
		return "float64"
	default:
		panic(fmt.Sprintf("registry: unknown shape letter %q", letter))
	}
}

// Generate renders the Go source for a build's generated artifact:
// one record struct per distinct shape, a package-level nanolog.Registry
// wired to those structs' decoders, and one emitter function per site
// the host program calls instead of a generic, reflective log call.
//
// sites must already have been run through Validate and Assign.
func Generate(packageName string, sites []*Site) (string, error) {
	if packageName == "" {
		packageName = "nanologgen"
	}
	sorted := append([]*Site(nil), sites...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SiteID < sorted[j].SiteID })
	for i, s := range sorted {
		if s.SiteID != i {
			return "", fmt.Errorf("registry: site %d has SiteID %d — call Assign before Generate", i, s.SiteID)
		}
	}

	shapes := distinctShapes(sorted)

	var w strings.Builder
	fmt.Fprintf(&w, "// Code generated by nanologgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&w, "package %s\n\n", packageName)
	fmt.Fprintf(&w, "import (\n")
	if len(shapes) > 0 {
		fmt.Fprintf(&w, "\t\"unsafe\"\n\n")
	}
	fmt.Fprintf(&w, "\t\"github.com/rishav/nanolog\"\n")
	fmt.Fprintf(&w, "\t\"github.com/rishav/nanolog/ring\"\n")
	fmt.Fprintf(&w, ")\n\n")

	for _, shape := range shapes {
		writeShapeStruct(&w, shape)
	}

	fmt.Fprintf(&w, "var Sites = nanolog.Registry{\n")
	for _, s := range sorted {
		writeSiteEntry(&w, s)
	}
	fmt.Fprintf(&w, "}\n\n")

	for _, s := range sorted {
		writeEmitter(&w, s)
	}

	return w.String(), nil
}

func distinctShapes(sites []*Site) []string {
	seen := make(map[string]bool)
	var shapes []string
	for _, s := range sites {
		shape := s.Shape()
		if shape == "" || seen[shape] {
			continue
		}
		seen[shape] = true
		shapes = append(shapes, shape)
	}
	sort.Strings(shapes)
	return shapes
}

// structName returns the record-struct identifier for a shape, e.g.
// "DF" -> "LogDF" — the shape letters double as the Go field
// type tag, mirroring the "Log" + shape-suffix struct naming the
// original proc-macro build script generates per distinct argument
// shape.
func structName(shape string) string {
	return "Log" + shape
}

func writeShapeStruct(w *strings.Builder, shape string) {
	fmt.Fprintf(w, "type %s struct {\n", structName(shape))
	for i, c := range shape {
		fmt.Fprintf(w, "\tF%d %s\n", i, goType(c))
	}
	fmt.Fprintf(w, "}\n\n")
}

func writeSiteEntry(w *strings.Builder, s *Site) {
	shape := s.Shape()
	fmt.Fprintf(w, "\t{ // site %d: %s:%d\n", s.SiteID, s.SourceFile, s.SourceLine)
	fmt.Fprintf(w, "\t\tFormatLiteral: %s,\n", strconv.Quote(s.FormatLiteral))
	if shape == "" {
		fmt.Fprintf(w, "\t\tRecordSize: 0,\n")
		fmt.Fprintf(w, "\t\tDecode: func(ts uint64, record []byte, sink nanolog.Sink) {\n")
		fmt.Fprintf(w, "\t\t\tsink.Emit(%d, ts, %s)\n", s.SiteID, strconv.Quote(s.FormatLiteral))
		fmt.Fprintf(w, "\t\t},\n")
		fmt.Fprintf(w, "\t},\n")
		return
	}
	fmt.Fprintf(w, "\t\tRecordSize: int(unsafe.Sizeof(%s{})),\n", structName(shape))
	fmt.Fprintf(w, "\t\tDecode: func(ts uint64, record []byte, sink nanolog.Sink) {\n")
	fmt.Fprintf(w, "\t\t\trec := nanolog.DecodeRecord[%s](record)\n", structName(shape))
	args := make([]string, len(shape))
	for i := range shape {
		args[i] = fmt.Sprintf("rec.F%d", i)
	}
	fmt.Fprintf(w, "\t\t\tsink.Emit(%d, ts, %s, %s)\n", s.SiteID, strconv.Quote(s.FormatLiteral), strings.Join(args, ", "))
	fmt.Fprintf(w, "\t\t},\n")
	fmt.Fprintf(w, "\t},\n")
}

// writeEmitter emits the per-site function the instrumented source
// calls: LogSite<N>(p, <timestamp source>, args...). Host code
// calls this instead of going through a generic, reflective
// path — the entire point of a build-time registry is that the hot
// path never branches on which site it is.
func writeEmitter(w *strings.Builder, s *Site) {
	shape := s.Shape()
	fmt.Fprintf(w, "func LogSite%d(p *ring.Producer, ts uint64", s.SiteID)
	for i, c := range shape {
		fmt.Fprintf(w, ", f%d %s", i, goType(c))
	}
	fmt.Fprintf(w, ") {\n")
	if shape == "" {
		fmt.Fprintf(w, "\tnanolog.Emit(p, %d, ts, nil)\n", s.SiteID)
		fmt.Fprintf(w, "}\n\n")
		return
	}
	fmt.Fprintf(w, "\trec := %s{", structName(shape))
	for i := range shape {
		fmt.Fprintf(w, "F%d: f%d, ", i, i)
	}
	fmt.Fprintf(w, "}\n")
	fmt.Fprintf(w, "\tnanolog.Emit(p, %d, ts, nanolog.RecordBytes(&rec))\n", s.SiteID)
	fmt.Fprintf(w, "}\n\n")
}
