package cassowary

import "errors"

// Sentinel errors for solver operations.
var (
	// ErrDuplicateConstraint is returned by [Solver.AddConstraint] when the
	// constraint is already registered. Solver state is unchanged.
	ErrDuplicateConstraint = errors.New("constraint already added")

	// ErrUnsatisfiableConstraint is returned by [Solver.AddConstraint] when a
	// required constraint cannot be reconciled with the required constraints
	// already present. The add is rolled back atomically: no variable value
	// or tableau change is observable afterwards.
	ErrUnsatisfiableConstraint = errors.New("constraint is unsatisfiable")

	// ErrUnknownConstraint is returned by [Solver.RemoveConstraint] when the
	// constraint was never added (or already removed).
	ErrUnknownConstraint = errors.New("constraint not in solver")

	// ErrDuplicateEditVariable is returned by [Solver.AddEditVariable] when
	// the variable is already registered for editing.
	ErrDuplicateEditVariable = errors.New("edit variable already added")

	// ErrUnknownEditVariable is returned by [Solver.RemoveEditVariable] and
	// [Solver.SuggestValue] when the variable was never registered.
	ErrUnknownEditVariable = errors.New("edit variable not in solver")

	// ErrBadRequiredStrength is returned by [Solver.AddEditVariable] when the
	// requested strength is [Required]. Suggestions are preferences by
	// definition; a required suggestion would reject every conflicting frame.
	ErrBadRequiredStrength = errors.New("edit variables may not be required")

	// ErrInternalSolver indicates a broken solver invariant (an unbounded
	// objective or a missing leaving row). It should never be observed and
	// signals a bug in this package rather than bad caller input.
	ErrInternalSolver = errors.New("internal solver error")
)
