package layout

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/strut/pkg/cassowary"
	"github.com/matzehuels/strut/pkg/observability"
	"github.com/matzehuels/strut/pkg/rational"
)

// Solve apportions total extent among the rules, returning one non-negative
// integer size per rule in rule order.
//
// Spacing cells separate consecutive items. Whenever the hard constraints
// (non-negativity, min/max bounds, the global sum) are jointly satisfiable,
// the sizes plus spacing sum exactly to total. When they are not - min
// bounds exceeding the total, say - Solve does not fail: conflicting hard
// constraints are dropped, sizes are clamped at zero, and the total may come
// out inexact. Layout must always produce a renderable result.
//
// Solve is deterministic: identical inputs yield identical output.
func Solve(rules []Rule, total, spacing int, flex Flex) ([]int, error) {
	sizes, _, err := solveSegments(rules, total, spacing, flex)
	return sizes, err
}

// solveSegments computes integer sizes and start offsets for every rule.
// Offsets are relative to the start of the extent and account for spacing
// gaps and any flex-policy leftover placement.
func solveSegments(rules []Rule, total, spacing int, flex Flex) (sizes, offsets []int, err error) {
	start := time.Now()
	observability.Layout().OnSolveStart(len(rules), total)
	dropped := 0
	defer func() {
		observability.Layout().OnSolveComplete(len(rules), dropped, time.Since(start), err)
	}()

	if len(rules) == 0 {
		return []int{}, []int{}, nil
	}
	total = max(total, 0)
	spacing = max(spacing, 0)

	sys := buildSystem(rules, total, spacing, flex)
	solver := cassowary.NewSolver()

	sumOK := true
	for _, c := range sys.hard {
		if addErr := solver.AddConstraint(c); addErr != nil {
			if errors.Is(addErr, cassowary.ErrUnsatisfiableConstraint) {
				dropped++
				if c == sys.sum {
					sumOK = false
				}
				continue
			}
			return nil, nil, fmt.Errorf("add hard constraint: %w", addErr)
		}
	}
	for _, c := range sys.soft {
		if addErr := solver.AddConstraint(c); addErr != nil {
			return nil, nil, fmt.Errorf("add soft constraint: %w", addErr)
		}
	}
	solver.UpdateVariables()

	values := make([]rational.Rat, len(sys.segments))
	for i, v := range sys.segments {
		val := solver.ValueOf(v)
		if val.Sign() < 0 {
			val = rational.Rat{} // defensive floor
		}
		values[i] = val
	}

	budget := total
	if sys.stretch {
		budget = max(total-spacing*(len(rules)-1), 0)
	}
	ints := apportion(values, budget, sumOK)

	sizes = make([]int, len(rules))
	offsets = make([]int, len(rules))
	pos := 0
	item := 0
	for i, size := range ints {
		if i == sys.itemIdx[item] {
			sizes[item] = size
			offsets[item] = pos
			if item+1 < len(rules) {
				item++
			}
		}
		pos += size
		if sys.stretch {
			pos += spacing
		}
	}
	return sizes, offsets, nil
}

// apportion converts exact fractional shares into integers that sum to
// budget using the largest-remainder method: floor every share, then hand
// the remaining units one at a time to the largest fractional remainders,
// ties to the earlier entry.
//
// When exact is false (the hard sum constraint was dropped), the floors are
// returned as-is and the total is allowed to be inexact.
func apportion(values []rational.Rat, budget int, exact bool) []int {
	ints := make([]int, len(values))
	sum := 0
	for i, v := range values {
		ints[i] = int(v.Floor())
		sum += ints[i]
	}
	if !exact {
		return ints
	}
	shortfall := budget - sum
	if shortfall <= 0 {
		return ints
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return values[b].Frac().Cmp(values[a].Frac())
	})
	for k := 0; shortfall > 0; k++ {
		ints[order[k%len(order)]]++
		shortfall--
	}
	return ints
}

// system is the constraint program compiled from a layout request.
type system struct {
	segments []*cassowary.Variable // items interleaved with spacer variables
	itemIdx  []int                 // index of each rule's variable within segments
	hard     []*cassowary.Constraint
	soft     []*cassowary.Constraint
	sum      *cassowary.Constraint // the global sum constraint, dropped last
	stretch  bool
}

// System is a read-only view of the constraint program [Solve] builds for a
// request, exposed for inspection and visualization.
type System struct {
	Items   []*cassowary.Variable
	Spacers []*cassowary.Variable
	Hard    []*cassowary.Constraint
	Soft    []*cassowary.Constraint
}

// BuildSystem compiles a layout request into its constraint program without
// solving it.
func BuildSystem(rules []Rule, total, spacing int, flex Flex) System {
	sys := buildSystem(rules, max(total, 0), max(spacing, 0), flex)
	out := System{Hard: sys.hard, Soft: sys.soft}
	itemSet := make(map[int]bool, len(sys.itemIdx))
	for _, i := range sys.itemIdx {
		itemSet[i] = true
	}
	for i, v := range sys.segments {
		if itemSet[i] {
			out.Items = append(out.Items, v)
		} else {
			out.Spacers = append(out.Spacers, v)
		}
	}
	return out
}

func buildSystem(rules []Rule, total, spacing int, flex Flex) *system {
	n := len(rules)
	sys := &system{stretch: flex == FlexStretch}

	items := make([]*cassowary.Variable, n)
	for i := range items {
		items[i] = cassowary.NewVariable(fmt.Sprintf("item%d", i))
	}

	// Assemble the segment list. Stretch has no spacer variables: gaps are
	// constant and leftover is forced into the items. Every other policy
	// interleaves explicit spacer variables so the solver can place the
	// leftover.
	var before, after *cassowary.Variable
	var gaps []*cassowary.Variable
	if sys.stretch {
		sys.segments = items
		sys.itemIdx = make([]int, n)
		for i := range sys.itemIdx {
			sys.itemIdx[i] = i
		}
	} else {
		before = cassowary.NewVariable("before")
		after = cassowary.NewVariable("after")
		gaps = make([]*cassowary.Variable, max(n-1, 0))
		for i := range gaps {
			gaps[i] = cassowary.NewVariable(fmt.Sprintf("gap%d", i))
		}
		sys.segments = append(sys.segments, before)
		sys.itemIdx = make([]int, n)
		for i, item := range items {
			sys.itemIdx[i] = len(sys.segments)
			sys.segments = append(sys.segments, item)
			if i < len(gaps) {
				sys.segments = append(sys.segments, gaps[i])
			}
		}
		sys.segments = append(sys.segments, after)
	}

	rt := rational.FromInt(int64(total))
	zero := cassowary.NewConstant(rational.Rat{})

	// Hard constraints, ordered by drop precedence: when a later constraint
	// conflicts with the set so far, the later one loses.
	for _, v := range sys.segments {
		sys.hard = append(sys.hard,
			cassowary.FromVariable(v).GreaterOrEqual(zero, cassowary.Required))
	}
	for i, r := range rules {
		item := cassowary.FromVariable(items[i])
		if r.kind == kindMin {
			sys.hard = append(sys.hard,
				item.GreaterOrEqual(constInt(r.value), cassowary.Required))
		}
		if r.kind == kindMax {
			sys.hard = append(sys.hard,
				item.LessOrEqual(constInt(r.value), cassowary.Required))
		}
		if r.min != nil {
			sys.hard = append(sys.hard,
				item.GreaterOrEqual(constInt(*r.min), cassowary.Required))
		}
		if r.max != nil {
			sys.hard = append(sys.hard,
				item.LessOrEqual(constInt(*r.max), cassowary.Required))
		}
	}
	if !sys.stretch {
		spacingExpr := constInt(spacing)
		for _, g := range gaps {
			gap := cassowary.FromVariable(g)
			if flex == FlexSpaceBetween || flex == FlexSpaceAround {
				sys.hard = append(sys.hard, gap.GreaterOrEqual(spacingExpr, cassowary.Required))
			} else {
				sys.hard = append(sys.hard, gap.EqualTo(spacingExpr, cassowary.Required))
			}
		}
		switch flex {
		case FlexStart:
			sys.hard = append(sys.hard,
				cassowary.FromVariable(before).EqualTo(zero, cassowary.Required))
		case FlexEnd:
			sys.hard = append(sys.hard,
				cassowary.FromVariable(after).EqualTo(zero, cassowary.Required))
		case FlexCenter:
			sys.hard = append(sys.hard,
				cassowary.FromVariable(before).EqualTo(cassowary.FromVariable(after), cassowary.Required))
		case FlexSpaceBetween:
			sys.hard = append(sys.hard,
				cassowary.FromVariable(before).EqualTo(zero, cassowary.Required),
				cassowary.FromVariable(after).EqualTo(zero, cassowary.Required))
			for i := 0; i+1 < len(gaps); i++ {
				sys.hard = append(sys.hard,
					cassowary.FromVariable(gaps[i]).EqualTo(cassowary.FromVariable(gaps[i+1]), cassowary.Required))
			}
		case FlexSpaceAround:
			around := append([]*cassowary.Variable{before}, gaps...)
			around = append(around, after)
			for i := 0; i+1 < len(around); i++ {
				sys.hard = append(sys.hard,
					cassowary.FromVariable(around[i]).EqualTo(cassowary.FromVariable(around[i+1]), cassowary.Required))
			}
		}
	}

	// The central invariant: segments (plus constant spacing, for stretch)
	// cover the total exactly. Added last so it is the first to yield when
	// the request is impossible.
	sumExpr := cassowary.NewConstant(rational.Rat{})
	for _, v := range sys.segments {
		sumExpr = sumExpr.AddVariable(v)
	}
	target := rt
	if sys.stretch {
		target = target.Sub(rational.FromInt(int64(spacing * (n - 1))))
	}
	sys.sum = sumExpr.EqualTo(cassowary.NewConstant(target), cassowary.Required)
	sys.hard = append(sys.hard, sys.sum)

	// Soft preferences.
	var fills []int
	for i, r := range rules {
		if r.kind == kindFill && r.weight > 0 {
			fills = append(fills, i)
		}
	}
	for i, r := range rules {
		item := cassowary.FromVariable(items[i])
		if pref, ok := preferredSize(r, rt); ok {
			strength := cassowary.Strong
			if r.kind == kindMin || r.kind == kindMax {
				strength = cassowary.Weak
			}
			sys.soft = append(sys.soft, item.EqualTo(cassowary.NewConstant(pref), strength))
		}
		if r.kind == kindFill && r.weight == 0 {
			sys.soft = append(sys.soft, item.EqualTo(zero, cassowary.Weak))
		}
	}

	// Fill rules are tied together in proportion to their weights:
	// item_i * w_j == item_j * w_i for consecutive fill pairs.
	for k := 0; k+1 < len(fills); k++ {
		i, j := fills[k], fills[k+1]
		wi := rational.FromInt(int64(rules[i].weight))
		wj := rational.FromInt(int64(rules[j].weight))
		lhs := cassowary.FromVariable(items[i]).Mul(wj)
		rhs := cassowary.FromVariable(items[j]).Mul(wi)
		sys.soft = append(sys.soft, lhs.EqualTo(rhs, cassowary.Strong))
	}

	// Fills weakly prefer to soak up whatever the fixed rules leave over.
	if len(fills) > 0 {
		leftover := rt.Sub(rational.FromInt(int64(spacing * (n - 1))))
		for _, r := range rules {
			if pref, ok := preferredSize(r, rt); ok {
				leftover = leftover.Sub(pref)
			}
		}
		if leftover.Sign() < 0 {
			leftover = rational.Rat{}
		}
		fillSum := cassowary.NewConstant(rational.Rat{})
		for _, i := range fills {
			fillSum = fillSum.AddVariable(items[i])
		}
		sys.soft = append(sys.soft, fillSum.EqualTo(cassowary.NewConstant(leftover), cassowary.Weak))
	}

	// Under stretch with no fills, the required sum must force leftover
	// into some item. Weak mirrors on all but the last rule bias both
	// growth and shrinkage onto the last item, keeping the earlier rules at
	// their requested sizes.
	if sys.stretch && len(fills) == 0 {
		for i, r := range rules[:n-1] {
			if r.kind != kindLength && r.kind != kindPercent && r.kind != kindRatio {
				continue
			}
			if pref, ok := preferredSize(r, rt); ok {
				sys.soft = append(sys.soft,
					cassowary.FromVariable(items[i]).EqualTo(cassowary.NewConstant(pref), cassowary.Weak))
			}
		}
	}

	return sys
}

// preferredSize returns the size a rule asks for before competition, when
// it asks for one at all. Fill rules have no inherent preference.
func preferredSize(r Rule, total rational.Rat) (rational.Rat, bool) {
	switch r.kind {
	case kindLength, kindMin, kindMax:
		return rational.FromInt(int64(r.value)), true
	case kindPercent:
		share, _ := rational.New(int64(r.percent), 100)
		return total.Mul(share), true
	case kindRatio:
		share, _ := rational.New(r.num, r.den)
		return total.Mul(share), true
	default:
		return rational.Rat{}, false
	}
}

func constInt(n int) cassowary.Expression {
	return cassowary.NewConstant(rational.FromInt(int64(n)))
}
