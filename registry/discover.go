package registry

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/rishav/nanolog/format"
)

// DiscoverConfig selects which call expressions are treated as log
// sites and where to look for them.
type DiscoverConfig struct {
	// Dir is the working directory patterns are resolved relative to,
	// mirroring packages.Config.Dir. Empty means the process's current
	// directory.
	Dir string
	// Patterns are passed to golang.org/x/tools/go/packages.Load
	// verbatim — package paths, "./...", or directory patterns.
	Patterns []string
	// CallName is the bare identifier or selector method name a call
	// must end in to be recognized as a log site, e.g. "Log" matches
	// both Log(...) and nanolog.Log(...). Defaults to "Log".
	CallName string
}

// Discover loads every package matching cfg.Patterns and walks their
// syntax trees for recognized log call expressions, in the same
// packages.Load-then-ast.Inspect shape a Go SSA codegen tool uses to
// find its own annotated call sites.
//
// A recognized call has the shape Log(handle, "format literal", args...)
// or pkg.Log(handle, "format literal", args...): the first argument is
// the producer handle (counted, neither inspected nor evaluated), the
// second must be a string literal, and every argument after it counts
// toward the site's arity.
func Discover(cfg DiscoverConfig) ([]*Site, error) {
	callName := cfg.CallName
	if callName == "" {
		callName = "Log"
	}

	pcfg := &packages.Config{
		Dir: cfg.Dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(pcfg, cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("registry: loading packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("registry: one or more packages failed to load")
	}

	var sites []*Site
	for _, pkg := range pkgs {
		fset := pkg.Fset
		for _, file := range pkg.Syntax {
			var walkErr error
			ast.Inspect(file, func(n ast.Node) bool {
				if walkErr != nil {
					return false
				}
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				if !isCallNamed(call.Fun, callName) {
					return true
				}
				site, err := siteFromCall(fset, call)
				if err != nil {
					walkErr = err
					return false
				}
				if site != nil {
					sites = append(sites, site)
				}
				return true
			})
			if walkErr != nil {
				return nil, walkErr
			}
		}
	}
	return sites, nil
}

// isCallNamed reports whether fun is a bare identifier or a selector
// expression whose final name equals callName.
func isCallNamed(fun ast.Expr, callName string) bool {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name == callName
	case *ast.SelectorExpr:
		return f.Sel.Name == callName
	default:
		return false
	}
}

// siteFromCall extracts a Site from a recognized call expression. It
// returns an error for calls that match the name but have fewer than
// two arguments or don't carry a literal format string in the second
// position — those are left for a human to fix, not silently dropped.
func siteFromCall(fset *token.FileSet, call *ast.CallExpr) (*Site, error) {
	pos := fset.Position(call.Pos())
	if len(call.Args) < 2 {
		return nil, fmt.Errorf("%s:%d: log call needs at least a handle and a format literal, got %d args",
			pos.Filename, pos.Line, len(call.Args))
	}
	lit, ok := call.Args[1].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, fmt.Errorf("%s:%d: second argument to a log call must be a string literal", pos.Filename, pos.Line)
	}
	literal, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, fmt.Errorf("%s:%d: malformed string literal: %w", pos.Filename, pos.Line, err)
	}

	placeholders, err := format.Parse(literal)
	if err != nil {
		return nil, fmt.Errorf("%s:%d: %w", pos.Filename, pos.Line, err)
	}

	return &Site{
		SourceFile:    pos.Filename,
		SourceLine:    pos.Line,
		FormatLiteral: literal,
		Placeholders:  placeholders,
		ArgCount:      len(call.Args) - 2,
	}, nil
}
