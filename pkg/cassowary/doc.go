// Package cassowary implements an incremental linear constraint solver for
// user-interface layout, in the style of the Cassowary solving toolkit.
//
// # Overview
//
// Layout problems are naturally expressed as systems of linear equalities and
// inequalities over unknown sizes: "these three panes fill the width", "the
// sidebar is at least 20 columns", "the two editors are equally wide". This
// package solves such systems incrementally, so that adding or removing a
// single constraint repairs the previous solution with a handful of pivots
// instead of re-solving from scratch. That is what makes the solver usable
// for per-frame relayout.
//
// # Building constraints
//
// Unknowns are [Variable] values compared by identity. Linear combinations
// are built with [Expression], which keeps itself canonical: each variable
// appears at most once and zero-coefficient terms are dropped. Expressions
// compare against each other through [Expression.EqualTo],
// [Expression.LessOrEqual], and [Expression.GreaterOrEqual], producing a
// [Constraint] at a chosen [Strength]:
//
//	x := cassowary.NewVariable("x")
//	y := cassowary.NewVariable("y")
//	sum := cassowary.FromVariable(x).AddVariable(y)
//	c := sum.EqualTo(cassowary.NewConstant(rational.FromInt(100)), cassowary.Required)
//
// # Strengths
//
// Constraints carry one of four strengths: [Required], [Strong], [Medium],
// and [Weak]. Required constraints are always satisfied exactly or the add is
// rejected. The other three may be violated, and violation is minimized
// lexicographically: all strong violation is minimized before any medium
// violation is considered, and medium before weak. No finite number of weak
// constraints can ever outweigh a single strong one (non-domination). This is
// implemented with symbolic objective weights rather than large float
// multipliers, so the guarantee is exact.
//
// # Arithmetic
//
// All coefficients and solutions are exact rationals
// ([github.com/matzehuels/strut/pkg/rational]), never floats. Solving the
// same system twice yields bit-for-bit identical results on every platform.
//
// # Solving
//
// Add constraints to a [Solver], call [Solver.UpdateVariables], and read
// results with [Solver.ValueOf]. Interactive adjustments (dragging a split
// divider) go through edit variables: register with
// [Solver.AddEditVariable], then feed values with [Solver.SuggestValue].
//
// Solver is not safe for concurrent use. Callers that mutate from multiple
// goroutines must serialize access externally.
package cassowary
