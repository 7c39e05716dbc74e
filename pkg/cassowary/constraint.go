package cassowary

import "fmt"

// Relation is the comparison a constraint applies between its expression
// and zero.
type Relation int

// Supported relations.
const (
	Equal Relation = iota
	LessOrEqual
	GreaterOrEqual
)

// String returns the relation's operator notation.
func (r Relation) String() string {
	switch r {
	case Equal:
		return "=="
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Constraint is an immutable linear constraint: an expression compared to
// zero under a relation, at a given strength.
//
// Constraints are compared by identity. Adding the same *Constraint twice is
// a duplicate, while two structurally equal constraints built separately are
// distinct and may coexist in a solver. Identity is also what
// [Solver.RemoveConstraint] matches on.
type Constraint struct {
	expr     Expression
	relation Relation
	strength Strength
}

// NewConstraint creates the constraint "e (rel) 0" at strength s.
//
// Most callers build constraints through [Expression.EqualTo] and friends
// rather than calling this directly.
func NewConstraint(e Expression, rel Relation, s Strength) *Constraint {
	return &Constraint{expr: e, relation: rel, strength: s}
}

// Expression returns the constraint's left-hand expression. The right-hand
// side is always zero.
func (c *Constraint) Expression() Expression { return c.expr }

// Relation returns the constraint's comparison relation.
func (c *Constraint) Relation() Relation { return c.relation }

// Strength returns the constraint's strength.
func (c *Constraint) Strength() Strength { return c.strength }

// String formats the constraint for debug output,
// e.g. "x + y - 100 == 0 [required]".
func (c *Constraint) String() string {
	return fmt.Sprintf("%s %s 0 [%s]", c.expr, c.relation, c.strength)
}
