package cassowary

import "github.com/matzehuels/strut/pkg/rational"

// objectiveRow is the objective function being minimized. Its coefficients
// are symbolic weights rather than plain rationals, which is what gives the
// strength hierarchy exact non-domination: comparisons happen per level,
// lexicographically, so no amount of weak violation can trade against a
// single medium or strong violation.
type objectiveRow struct {
	constant weight
	cells    map[symbol]weight
}

func newObjectiveRow() *objectiveRow {
	return &objectiveRow{cells: make(map[symbol]weight)}
}

// liftRow embeds an ordinary tableau row into an objective, for the
// artificial-variable feasibility phase.
func liftRow(r *row) *objectiveRow {
	o := newObjectiveRow()
	o.constant = liftWeight(r.constant)
	for s, c := range r.cells {
		o.cells[s] = liftWeight(c)
	}
	return o
}

func (o *objectiveRow) clone() *objectiveRow {
	cells := make(map[symbol]weight, len(o.cells))
	for s, w := range o.cells {
		cells[s] = w
	}
	return &objectiveRow{constant: o.constant, cells: cells}
}

// insertSymbol adds w * sym to the objective, pruning cancelled cells.
func (o *objectiveRow) insertSymbol(sym symbol, w weight) {
	c := o.cells[sym].add(w)
	if c.isZero() {
		delete(o.cells, sym)
		return
	}
	o.cells[sym] = c
}

// insertRow adds w * r to the objective.
func (o *objectiveRow) insertRow(r *row, w weight) {
	o.constant = o.constant.add(w.scale(r.constant))
	for s, c := range r.cells {
		o.insertSymbol(s, w.scale(c))
	}
}

func (o *objectiveRow) remove(sym symbol) {
	delete(o.cells, sym)
}

func (o *objectiveRow) coefficientFor(sym symbol) weight {
	return o.cells[sym]
}

// substitute replaces every occurrence of sym with the given tableau row.
func (o *objectiveRow) substitute(sym symbol, r *row) {
	w, ok := o.cells[sym]
	if !ok {
		return
	}
	delete(o.cells, sym)
	o.insertRow(r, w)
}

// enteringSymbol returns the lowest-id non-dummy symbol with a negative
// coefficient, or the invalid symbol when the objective is optimal. Choosing
// the lowest id is Bland's rule, which rules out cycling and guarantees the
// simplex terminates for any finite constraint set.
func (o *objectiveRow) enteringSymbol() symbol {
	var best symbol
	for _, s := range sortedSymbols(o.cells) {
		if s.kind == dummySymbol {
			continue
		}
		if o.cells[s].sign() < 0 {
			best = s
			break
		}
	}
	return best
}

// dualEnteringSymbol picks the entering symbol for a dual pivot on an
// infeasible row: among non-dummy cells with positive coefficients, the one
// minimizing objectiveCoefficient/cellCoefficient, ties broken by id.
func (o *objectiveRow) dualEnteringSymbol(r *row) symbol {
	var (
		best      symbol
		bestRatio weight
	)
	for _, s := range sortedSymbols(r.cells) {
		if s.kind == dummySymbol {
			continue
		}
		c := r.cells[s]
		if c.Sign() <= 0 {
			continue
		}
		inv, _ := rational.FromInt(1).Div(c)
		ratio := o.coefficientFor(s).scale(inv)
		if !best.valid() || ratio.cmp(bestRatio) < 0 {
			best = s
			bestRatio = ratio
		}
	}
	return best
}
