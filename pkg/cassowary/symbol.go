package cassowary

import (
	"slices"

	"github.com/matzehuels/strut/pkg/rational"
)

// symbolKind classifies the unknowns of the internal tableau.
type symbolKind uint8

const (
	// invalidSymbol is the zero symbol, used as a "none" marker.
	invalidSymbol symbolKind = iota
	// externalSymbol stands for a caller-visible [Variable].
	externalSymbol
	// slackSymbol turns an inequality into an equality (slack >= 0).
	slackSymbol
	// errorSymbol measures how far a soft constraint is violated. Error
	// symbols carry strength weights in the objective.
	errorSymbol
	// dummySymbol marks required equalities so their row can be identified
	// for removal; dummies never enter the basis.
	dummySymbol
)

// symbol is one tableau unknown. Symbols are ordered by id, which doubles as
// the deterministic tie-break (Bland's rule) during pivot selection.
type symbol struct {
	id   uint64
	kind symbolKind
}

func (s symbol) valid() bool { return s.kind != invalidSymbol }

// restricted reports whether the symbol must stay non-negative.
func (s symbol) restricted() bool {
	return s.kind == slackSymbol || s.kind == errorSymbol
}

// sortedSymbols returns the keys of m in ascending id order. Pivot selection
// scans maps through this helper so that solving is fully deterministic.
func sortedSymbols[V any](m map[symbol]V) []symbol {
	keys := make([]symbol, 0, len(m))
	for s := range m {
		keys = append(keys, s)
	}
	slices.SortFunc(keys, func(a, b symbol) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		default:
			return 0
		}
	})
	return keys
}

// row is one tableau row: basic = constant + sum(coefficient * symbol).
type row struct {
	constant rational.Rat
	cells    map[symbol]rational.Rat
}

func newRow(constant rational.Rat) *row {
	return &row{constant: constant, cells: make(map[symbol]rational.Rat)}
}

func (r *row) clone() *row {
	cells := make(map[symbol]rational.Rat, len(r.cells))
	for s, c := range r.cells {
		cells[s] = c
	}
	return &row{constant: r.constant, cells: cells}
}

// add shifts the row constant by delta and returns the new constant.
func (r *row) add(delta rational.Rat) rational.Rat {
	r.constant = r.constant.Add(delta)
	return r.constant
}

// insertSymbol adds coeff * sym to the row, removing the cell when the
// combined coefficient cancels to zero.
func (r *row) insertSymbol(sym symbol, coeff rational.Rat) {
	c := r.cells[sym].Add(coeff)
	if c.IsZero() {
		delete(r.cells, sym)
		return
	}
	r.cells[sym] = c
}

// insertRow adds coeff * other to the row.
func (r *row) insertRow(other *row, coeff rational.Rat) {
	r.constant = r.constant.Add(other.constant.Mul(coeff))
	for s, c := range other.cells {
		r.insertSymbol(s, c.Mul(coeff))
	}
}

func (r *row) remove(sym symbol) {
	delete(r.cells, sym)
}

// reverseSign negates the constant and every coefficient.
func (r *row) reverseSign() {
	r.constant = r.constant.Neg()
	for s, c := range r.cells {
		r.cells[s] = c.Neg()
	}
}

// solveFor rewrites the row with sym as its subject. The row must contain
// sym with a nonzero coefficient. Given "0 = constant + c*sym + rest" the
// result is "sym = -constant/c - rest/c".
func (r *row) solveFor(sym symbol) {
	coeff := r.cells[sym]
	delete(r.cells, sym)
	factor, _ := rational.FromInt(-1).Div(coeff)
	r.constant = r.constant.Mul(factor)
	for s, c := range r.cells {
		r.cells[s] = c.Mul(factor)
	}
}

// solveForPair adds the old basic symbol back into the row and re-solves for
// a new subject, used when pivoting lhs out of and rhs into the basis.
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, rational.FromInt(-1))
	r.solveFor(rhs)
}

// coefficientFor returns the coefficient of sym, zero when absent.
func (r *row) coefficientFor(sym symbol) rational.Rat {
	return r.cells[sym]
}

// substitute replaces every occurrence of sym with the given row.
func (r *row) substitute(sym symbol, other *row) {
	coeff, ok := r.cells[sym]
	if !ok {
		return
	}
	delete(r.cells, sym)
	r.insertRow(other, coeff)
}

// allDummies reports whether every cell is a dummy symbol.
func (r *row) allDummies() bool {
	for s := range r.cells {
		if s.kind != dummySymbol {
			return false
		}
	}
	return true
}
