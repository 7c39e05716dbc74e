// Package layout apportions one-dimensional extent (terminal columns or
// rows) among items according to declarative sizing rules, by compiling the
// rules into a linear constraint system and solving it exactly.
//
// # Overview
//
// Callers describe each item with a [Rule]: a fixed [Length], a [Percent] or
// [Ratio] of the total, a weighted [Fill] of the remaining space, or a
// [Min]/[Max] bound. Rules combine, so a fill can carry bounds:
//
//	rules := []layout.Rule{
//	    layout.Length(20),
//	    layout.Fill(1).WithMin(10),
//	    layout.Percent(25),
//	}
//	sizes, err := layout.Solve(rules, 100, 1, layout.FlexStretch)
//
// [Solve] returns one non-negative integer size per rule, in rule order.
// Whenever the hard constraints are jointly satisfiable the sizes plus the
// inter-item spacing sum exactly to the total extent.
//
// # Solving
//
// Rules compile to constraints on a fresh
// [github.com/matzehuels/strut/pkg/cassowary.Solver] per call:
// non-negativity, min/max bounds, and the global sum are required;
// length/percent/ratio preferences are strong, so they shrink gracefully
// when space runs out; fill rules are tied together in proportion to their
// weights and soak up whatever extent the fixed rules leave over.
//
// The solver works in exact rationals. The generally fractional solution is
// turned into integers with largest-remainder apportionment: floor every
// share, then hand the remaining units to the largest fractional remainders
// (ties to the earlier rule), so the integer sizes preserve the exact total.
//
// # Impossible requests
//
// Solve never fails on impossible sizing (for example, min bounds that
// exceed the total). Conflicting hard constraints are dropped in a fixed
// order of precedence, sizes are clamped at zero, and the total may then be
// inexact - layout must always produce something renderable.
//
// # Rectangles
//
// [Split] slices a [Rect] along an axis into consecutive sub-rectangles of
// the solved sizes, inserting spacing gaps, with a [Flex] policy placing any
// unclaimed leftover (at the start, centered, spread between items, and so
// on).
//
// Solve and Split build a private solver per call and are safe for
// concurrent use from multiple goroutines.
package layout
