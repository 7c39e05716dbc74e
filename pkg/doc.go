// Package pkg provides the core libraries for Strut layout solving.
//
// # Overview
//
// Strut apportions one-dimensional space (terminal columns or rows) among
// declarative sizing rules by compiling them into a linear constraint system
// and solving it with exact rational arithmetic. The pkg directory is
// organized into five areas:
//
//  1. [rational] - Exact rational arithmetic wrapping math/big
//  2. [cassowary] - Incremental linear constraint solver
//  3. [layout] - Rule vocabulary, system compilation, and the Solve/Split façade
//  4. [cache] - Result caching (memory, file, Redis, MongoDB backends)
//  5. [observability] - Hook interfaces for solver, cache, and HTTP events
//
// # Architecture
//
// The typical data flow through Strut:
//
//	Rules + Extent + Flex policy
//	         ↓
//	    [layout] package (compile to constraints)
//	         ↓
//	    [cassowary] package (solve exactly over rationals)
//	         ↓
//	    [layout] package (apportion to integer cells)
//	         ↓
//	    sizes / sub-rectangles
//
// # Quick Start
//
// Split a terminal area into three panes:
//
//	import "github.com/matzehuels/strut/pkg/layout"
//
//	area := layout.Rect{Width: 120, Height: 40}
//	rules := []layout.Rule{
//	    layout.Length(30),
//	    layout.Fill(2),
//	    layout.Fill(1).WithMin(20),
//	}
//	rects, err := layout.Split(area, layout.Horizontal, rules, 1, layout.FlexStretch)
//
// # Main Packages
//
// [rational] - Exact rational numbers. Every solver computation runs over
// these, so identical inputs always produce identical layouts with no
// floating-point drift.
//
// [cassowary] - An incremental simplex solver in the Cassowary style.
// Constraints carry symbolic strengths (required, strong, medium, weak)
// compared lexicographically, so no quantity of weak preferences can
// override a single stronger one.
//
// [layout] - The user-facing vocabulary: Length, Percent, Ratio, Fill, Min,
// Max rules with optional bounds, Flex policies for leftover placement, and
// graceful degradation when requests conflict.
//
// [cache] - Cache interface with memory, file, Redis, and MongoDB backends.
// Solves are deterministic, so results cache indefinitely; keys hash the
// full request.
//
// [observability] - Optional hooks fired around solves, cache operations,
// and HTTP requests. Defaults are no-ops.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/cassowary    # Specific package
//
// [rational]: https://pkg.go.dev/github.com/matzehuels/strut/pkg/rational
// [cassowary]: https://pkg.go.dev/github.com/matzehuels/strut/pkg/cassowary
// [layout]: https://pkg.go.dev/github.com/matzehuels/strut/pkg/layout
// [cache]: https://pkg.go.dev/github.com/matzehuels/strut/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/strut/pkg/observability
package pkg
