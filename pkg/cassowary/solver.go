package cassowary

import (
	"fmt"
	"slices"

	"github.com/matzehuels/strut/pkg/rational"
)

// tag records the bookkeeping symbols a constraint introduced into the
// tableau, so the constraint can be located and removed later.
type tag struct {
	marker, other symbol
}

// editInfo tracks one edit variable: the soft constraint holding it in
// place and the most recently suggested value.
type editInfo struct {
	tag        tag
	constraint *Constraint
	constant   rational.Rat
}

// Solver is an incremental solver for systems of linear constraints with a
// strength hierarchy.
//
// Lifecycle: create with [NewSolver], add and remove constraints and edit
// variables any number of times, call [Solver.UpdateVariables] to materialize
// a consistent assignment, read results with [Solver.ValueOf], and optionally
// [Solver.Reset] back to the empty state.
//
// The solver maintains a simplex tableau internally. Each add or remove
// repairs the previous solution with incremental pivots instead of
// re-solving, and all pivot selection uses Bland's rule (lowest symbol id),
// so solving is deterministic and terminates for every finite constraint set.
//
// A Solver is not safe for concurrent use.
type Solver struct {
	cons       map[*Constraint]tag
	rows       map[symbol]*row
	vars       map[*Variable]symbol
	edits      map[*Variable]*editInfo
	objective  *objectiveRow
	artificial *objectiveRow
	infeasible []symbol
	values     map[*Variable]rational.Rat
	nextID     uint64
}

// NewSolver creates an empty solver.
func NewSolver() *Solver {
	s := &Solver{}
	s.init()
	return s
}

func (s *Solver) init() {
	s.cons = make(map[*Constraint]tag)
	s.rows = make(map[symbol]*row)
	s.vars = make(map[*Variable]symbol)
	s.edits = make(map[*Variable]*editInfo)
	s.objective = newObjectiveRow()
	s.artificial = nil
	s.infeasible = nil
	s.values = make(map[*Variable]rational.Rat)
	s.nextID = 0
}

// Reset discards every constraint, edit variable, and variable value,
// returning the solver to the empty state.
func (s *Solver) Reset() {
	s.init()
}

// HasConstraint reports whether c is currently registered.
func (s *Solver) HasConstraint(c *Constraint) bool {
	_, ok := s.cons[c]
	return ok
}

// AddConstraint inserts c into the working set.
//
// It returns [ErrDuplicateConstraint] when c is already present, and
// [ErrUnsatisfiableConstraint] when c is required and jointly infeasible with
// the required constraints already present. On either failure the solver's
// observable state is unchanged; an unsatisfiable add is rolled back
// atomically.
func (s *Solver) AddConstraint(c *Constraint) error {
	if _, ok := s.cons[c]; ok {
		return ErrDuplicateConstraint
	}

	r, t := s.createRow(c)
	subject := chooseSubject(r, t)

	// A row of only dummies cannot be pivoted. It is trivially satisfied
	// when its constant is zero and contradictory otherwise.
	if !subject.valid() && r.allDummies() {
		if r.constant.Sign() != 0 {
			return ErrUnsatisfiableConstraint
		}
		subject = t.marker
	}

	if !subject.valid() {
		ok, err := s.addWithArtificialVariable(r)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnsatisfiableConstraint
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.cons[c] = t
	return s.optimize(s.objective)
}

// RemoveConstraint removes a previously added constraint. It returns
// [ErrUnknownConstraint] when c was never added; the tableau is untouched in
// that case.
func (s *Solver) RemoveConstraint(c *Constraint) error {
	t, ok := s.cons[c]
	if !ok {
		return ErrUnknownConstraint
	}
	delete(s.cons, c)

	// Back the constraint's error terms out of the objective before the
	// marker leaves the tableau.
	if t.marker.kind == errorSymbol {
		s.removeMarkerEffects(t.marker, c.Strength())
	}
	if t.other.kind == errorSymbol {
		s.removeMarkerEffects(t.other, c.Strength())
	}

	if _, basic := s.rows[t.marker]; basic {
		delete(s.rows, t.marker)
	} else {
		leaving, lrow := s.markerLeavingRow(t.marker)
		if lrow == nil {
			return fmt.Errorf("%w: no leaving row for marker", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		lrow.solveForPair(leaving, t.marker)
		s.substitute(t.marker, lrow)
	}

	return s.optimize(s.objective)
}

// AddEditVariable registers v as externally suggestible at the given soft
// strength. It returns [ErrDuplicateEditVariable] when v is already
// registered and [ErrBadRequiredStrength] when strength is [Required].
func (s *Solver) AddEditVariable(v *Variable, strength Strength) error {
	if _, ok := s.edits[v]; ok {
		return ErrDuplicateEditVariable
	}
	if strength >= Required {
		return ErrBadRequiredStrength
	}
	cn := FromVariable(v).EqualTo(NewConstant(rational.Rat{}), strength)
	if err := s.AddConstraint(cn); err != nil {
		// Soft constraints are always satisfiable; this is defensive.
		return err
	}
	s.edits[v] = &editInfo{tag: s.cons[cn], constraint: cn}
	return nil
}

// RemoveEditVariable unregisters v and discards its suggestion constraint.
// It returns [ErrUnknownEditVariable] when v was never registered.
func (s *Solver) RemoveEditVariable(v *Variable) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	delete(s.edits, v)
	return s.RemoveConstraint(info.constraint)
}

// HasEditVariable reports whether v is registered for editing.
func (s *Solver) HasEditVariable(v *Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// SuggestValue states that v should take the given value, at the strength v
// was registered with. The suggestion competes with other constraints like
// any soft constraint. It returns [ErrUnknownEditVariable] when v is not an
// edit variable.
func (s *Solver) SuggestValue(v *Variable, value rational.Rat) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	delta := value.Sub(info.constant)
	info.constant = value

	// When one of the edit's error symbols is basic its row absorbs the
	// whole delta directly.
	if r, basic := s.rows[info.tag.marker]; basic {
		if r.add(delta.Neg()).Sign() < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return s.dualOptimize()
	}
	if r, basic := s.rows[info.tag.other]; basic {
		if r.add(delta).Sign() < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return s.dualOptimize()
	}

	// Otherwise shift every row in which the marker appears.
	for _, sym := range sortedSymbols(s.rows) {
		r := s.rows[sym]
		coeff := r.coefficientFor(info.tag.marker)
		if coeff.IsZero() {
			continue
		}
		if r.add(delta.Mul(coeff)).Sign() < 0 && sym.kind != externalSymbol {
			s.infeasible = append(s.infeasible, sym)
		}
	}
	return s.dualOptimize()
}

// UpdateVariables resolves the current constraint set into a single
// assignment: required constraints hold exactly and soft violation is
// minimized per strength level. Calling it again without intervening
// mutation yields the same assignment.
func (s *Solver) UpdateVariables() {
	for v, sym := range s.vars {
		if r, ok := s.rows[sym]; ok {
			s.values[v] = r.constant
		} else {
			s.values[v] = rational.Rat{}
		}
	}
}

// ValueOf returns the exact value assigned to v by the most recent
// [Solver.UpdateVariables]. A variable the solver has never constrained is
// zero.
func (s *Solver) ValueOf(v *Variable) rational.Rat {
	return s.values[v]
}

// =============================================================================
// Tableau internals
// =============================================================================

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.nextID++
	return symbol{id: s.nextID, kind: kind}
}

// variableSymbol returns the external symbol for v, creating it on first use.
func (s *Solver) variableSymbol(v *Variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(externalSymbol)
	s.vars[v] = sym
	return sym
}

// createRow translates a constraint into a tableau row, substituting any
// variables that are already basic, and introduces the slack, error, and
// dummy symbols its relation and strength call for. Soft constraints
// register their error symbols with the objective here.
func (s *Solver) createRow(c *Constraint) (*row, tag) {
	expr := c.Expression()
	r := newRow(expr.Constant())
	for _, t := range expr.Terms() {
		sym := s.variableSymbol(t.Variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, t.Coefficient)
		} else {
			r.insertSymbol(sym, t.Coefficient)
		}
	}

	var t tag
	switch c.Relation() {
	case LessOrEqual, GreaterOrEqual:
		coeff := rational.FromInt(1)
		if c.Relation() == GreaterOrEqual {
			coeff = rational.FromInt(-1)
		}
		slack := s.newSymbol(slackSymbol)
		t.marker = slack
		r.insertSymbol(slack, coeff)
		if c.Strength() < Required {
			errSym := s.newSymbol(errorSymbol)
			t.other = errSym
			r.insertSymbol(errSym, coeff.Neg())
			s.objective.insertSymbol(errSym, weightOf(c.Strength()))
		}
	case Equal:
		if c.Strength() < Required {
			errPlus := s.newSymbol(errorSymbol)
			errMinus := s.newSymbol(errorSymbol)
			t.marker = errPlus
			t.other = errMinus
			r.insertSymbol(errPlus, rational.FromInt(-1))
			r.insertSymbol(errMinus, rational.FromInt(1))
			w := weightOf(c.Strength())
			s.objective.insertSymbol(errPlus, w)
			s.objective.insertSymbol(errMinus, w)
		} else {
			dummy := s.newSymbol(dummySymbol)
			t.marker = dummy
			r.insertSymbol(dummy, rational.FromInt(1))
		}
	}

	// The solver works with non-negative row constants.
	if r.constant.Sign() < 0 {
		r.reverseSign()
	}
	return r, t
}

// chooseSubject picks the symbol the new row will be solved for: the
// lowest-id external symbol if any, otherwise a restricted marker with a
// negative coefficient. An invalid symbol means the row needs the
// artificial-variable procedure.
func chooseSubject(r *row, t tag) symbol {
	for _, sym := range sortedSymbols(r.cells) {
		if sym.kind == externalSymbol {
			return sym
		}
	}
	if t.marker.restricted() && r.coefficientFor(t.marker).Sign() < 0 {
		return t.marker
	}
	if t.other.restricted() && r.coefficientFor(t.other).Sign() < 0 {
		return t.other
	}
	return symbol{}
}

// solverState is a deep copy of the mutable tableau, used to roll back a
// failed required add so the failure has no observable side effect.
type solverState struct {
	rows       map[symbol]*row
	objective  *objectiveRow
	infeasible []symbol
}

func (s *Solver) snapshot() solverState {
	rows := make(map[symbol]*row, len(s.rows))
	for sym, r := range s.rows {
		rows[sym] = r.clone()
	}
	return solverState{
		rows:       rows,
		objective:  s.objective.clone(),
		infeasible: slices.Clone(s.infeasible),
	}
}

func (s *Solver) restore(st solverState) {
	s.rows = st.rows
	s.objective = st.objective
	s.infeasible = st.infeasible
}

// addWithArtificialVariable checks whether the row can join the tableau at
// all: it bases the row on a fresh artificial symbol and minimizes that
// symbol's value. The row is feasible exactly when the minimum is zero.
// On infeasibility the pre-add tableau is restored.
func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	saved := s.snapshot()

	art := s.newSymbol(slackSymbol)
	s.rows[art] = r.clone()
	s.artificial = liftRow(r)

	err := s.optimize(s.artificial)
	feasible := err == nil && s.artificial.constant.isZero()
	s.artificial = nil
	if !feasible {
		s.restore(saved)
		if err != nil {
			return false, err
		}
		return false, nil
	}

	// Pivot the artificial symbol out of the basis if it ended up there.
	if arow, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(arow.cells) == 0 {
			return true, nil
		}
		entering := anyPivotableSymbol(arow)
		if !entering.valid() {
			s.restore(saved)
			return false, nil
		}
		arow.solveForPair(art, entering)
		s.substitute(entering, arow)
		s.rows[entering] = arow
	}

	for _, rr := range s.rows {
		rr.remove(art)
	}
	s.objective.remove(art)
	return true, nil
}

// anyPivotableSymbol returns the lowest-id restricted symbol in the row.
func anyPivotableSymbol(r *row) symbol {
	for _, sym := range sortedSymbols(r.cells) {
		if sym.restricted() {
			return sym
		}
	}
	return symbol{}
}

// substitute replaces sym with the given row everywhere it appears: in every
// tableau row, the objective, and the artificial objective when one is
// active. Non-external rows whose constant turns negative are queued for the
// dual repair pass.
func (s *Solver) substitute(sym symbol, r *row) {
	for _, bsym := range sortedSymbols(s.rows) {
		brow := s.rows[bsym]
		brow.substitute(sym, r)
		if bsym.kind != externalSymbol && brow.constant.Sign() < 0 {
			s.infeasible = append(s.infeasible, bsym)
		}
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

// optimize runs the primal simplex until obj has no improving symbol left.
func (s *Solver) optimize(obj *objectiveRow) error {
	for {
		entering := obj.enteringSymbol()
		if !entering.valid() {
			return nil
		}
		leaving, lrow := s.leavingRow(entering)
		if lrow == nil {
			return fmt.Errorf("%w: objective is unbounded", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		lrow.solveForPair(leaving, entering)
		s.substitute(entering, lrow)
		s.rows[entering] = lrow
	}
}

// leavingRow picks the row limiting the entering symbol's increase: the
// minimum ratio -constant/coefficient over non-external rows with a negative
// coefficient, ties resolved toward the lowest basic symbol id.
func (s *Solver) leavingRow(entering symbol) (symbol, *row) {
	var (
		found symbol
		frow  *row
		best  rational.Rat
		have  bool
	)
	for _, sym := range sortedSymbols(s.rows) {
		if sym.kind == externalSymbol {
			continue
		}
		r := s.rows[sym]
		coeff := r.coefficientFor(entering)
		if coeff.Sign() >= 0 {
			continue
		}
		ratio, _ := r.constant.Neg().Div(coeff)
		if !have || ratio.Cmp(best) < 0 {
			have = true
			best = ratio
			found, frow = sym, r
		}
	}
	return found, frow
}

// dualOptimize restores feasibility after a suggestion shifted row constants
// negative, pivoting each infeasible row against the cheapest entering
// symbol in strength order.
func (s *Solver) dualOptimize() error {
	for len(s.infeasible) > 0 {
		leaving := s.infeasible[0]
		s.infeasible = s.infeasible[1:]

		r, ok := s.rows[leaving]
		if !ok || r.constant.Sign() >= 0 {
			continue
		}
		entering := s.objective.dualEnteringSymbol(r)
		if !entering.valid() {
			return fmt.Errorf("%w: dual optimize found no entering symbol", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return nil
}

// removeMarkerEffects backs one error symbol's contribution out of the
// objective, whether the symbol is currently basic or not.
func (s *Solver) removeMarkerEffects(marker symbol, strength Strength) {
	w := weightOf(strength).neg()
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, w)
	} else {
		s.objective.insertSymbol(marker, w)
	}
}

// markerLeavingRow chooses which row to pivot a non-basic marker into so the
// marker's constraint can be dropped. Restricted rows are preferred (those
// with a negative coefficient first, by minimum exit ratio); an external row
// is a last resort.
func (s *Solver) markerLeavingRow(marker symbol) (symbol, *row) {
	var (
		first, second, third    symbol
		firstRow, secondRow     *row
		thirdRow                *row
		firstRatio, secondRatio rational.Rat
		haveFirst, haveSecond   bool
	)
	for _, sym := range sortedSymbols(s.rows) {
		r := s.rows[sym]
		coeff := r.coefficientFor(marker)
		if coeff.IsZero() {
			continue
		}
		switch {
		case sym.kind == externalSymbol:
			if thirdRow == nil {
				third, thirdRow = sym, r
			}
		case coeff.Sign() < 0:
			ratio, _ := r.constant.Neg().Div(coeff)
			if !haveFirst || ratio.Cmp(firstRatio) < 0 {
				haveFirst = true
				firstRatio = ratio
				first, firstRow = sym, r
			}
		default:
			ratio, _ := r.constant.Div(coeff)
			if !haveSecond || ratio.Cmp(secondRatio) < 0 {
				haveSecond = true
				secondRatio = ratio
				second, secondRow = sym, r
			}
		}
	}
	switch {
	case firstRow != nil:
		return first, firstRow
	case secondRow != nil:
		return second, secondRow
	default:
		return third, thirdRow
	}
}
