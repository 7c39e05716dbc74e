package cassowary

import (
	"strings"

	"github.com/matzehuels/strut/pkg/rational"
)

// Term is a single (variable, coefficient) pair inside an [Expression].
type Term struct {
	Variable    *Variable
	Coefficient rational.Rat
}

// Expression is an immutable linear combination: a rational constant plus a
// sequence of terms.
//
// Expressions are always canonical: every variable appears at most once and
// no term has a zero coefficient. Term order is first-appearance order and
// carries no meaning beyond readable debug output. All arithmetic methods
// return new expressions and never mutate the receiver.
//
// The zero value is the expression 0.
type Expression struct {
	constant rational.Rat
	terms    []Term
}

// NewExpression builds a canonical expression from a constant and terms.
// Terms referencing the same variable are combined; terms whose combined
// coefficient is zero are dropped.
func NewExpression(constant rational.Rat, terms ...Term) Expression {
	merged := make([]Term, 0, len(terms))
	index := make(map[*Variable]int, len(terms))
	for _, t := range terms {
		if i, ok := index[t.Variable]; ok {
			merged[i].Coefficient = merged[i].Coefficient.Add(t.Coefficient)
			continue
		}
		index[t.Variable] = len(merged)
		merged = append(merged, t)
	}
	kept := merged[:0]
	for _, t := range merged {
		if !t.Coefficient.IsZero() {
			kept = append(kept, t)
		}
	}
	return Expression{constant: constant, terms: kept}
}

// NewConstant returns the expression consisting of only a constant.
func NewConstant(c rational.Rat) Expression {
	return Expression{constant: c}
}

// FromVariable returns the expression 1*v.
func FromVariable(v *Variable) Expression {
	return Expression{terms: []Term{{Variable: v, Coefficient: rational.FromInt(1)}}}
}

// Constant returns the constant part of the expression.
func (e Expression) Constant() rational.Rat { return e.constant }

// Terms returns a copy of the expression's terms in first-appearance order.
func (e Expression) Terms() []Term {
	out := make([]Term, len(e.terms))
	copy(out, e.terms)
	return out
}

// CoefficientFor returns the coefficient of v, or zero when v does not
// appear in the expression.
func (e Expression) CoefficientFor(v *Variable) rational.Rat {
	for _, t := range e.terms {
		if t.Variable == v {
			return t.Coefficient
		}
	}
	return rational.Rat{}
}

// Add returns e + o.
func (e Expression) Add(o Expression) Expression {
	terms := make([]Term, 0, len(e.terms)+len(o.terms))
	terms = append(terms, e.terms...)
	terms = append(terms, o.terms...)
	return NewExpression(e.constant.Add(o.constant), terms...)
}

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression {
	return e.Add(o.Neg())
}

// AddVariable returns e + v.
func (e Expression) AddVariable(v *Variable) Expression {
	return e.Add(FromVariable(v))
}

// SubVariable returns e - v.
func (e Expression) SubVariable(v *Variable) Expression {
	return e.Add(FromVariable(v).Neg())
}

// AddConstant returns e + c.
func (e Expression) AddConstant(c rational.Rat) Expression {
	return Expression{constant: e.constant.Add(c), terms: e.terms}
}

// SubConstant returns e - c.
func (e Expression) SubConstant(c rational.Rat) Expression {
	return e.AddConstant(c.Neg())
}

// Mul returns e scaled by c.
func (e Expression) Mul(c rational.Rat) Expression {
	if c.IsZero() {
		return Expression{}
	}
	terms := make([]Term, len(e.terms))
	for i, t := range e.terms {
		terms[i] = Term{Variable: t.Variable, Coefficient: t.Coefficient.Mul(c)}
	}
	return Expression{constant: e.constant.Mul(c), terms: terms}
}

// Div returns e divided by c. It returns [rational.ErrDivisionByZero] when c
// is zero.
func (e Expression) Div(c rational.Rat) (Expression, error) {
	inv, err := c.Inv()
	if err != nil {
		return Expression{}, err
	}
	return e.Mul(inv), nil
}

// Neg returns -e.
func (e Expression) Neg() Expression {
	return e.Mul(rational.FromInt(-1))
}

// EqualTo builds the constraint e == rhs at strength s.
func (e Expression) EqualTo(rhs Expression, s Strength) *Constraint {
	return NewConstraint(e.Sub(rhs), Equal, s)
}

// LessOrEqual builds the constraint e <= rhs at strength s.
func (e Expression) LessOrEqual(rhs Expression, s Strength) *Constraint {
	return NewConstraint(e.Sub(rhs), LessOrEqual, s)
}

// GreaterOrEqual builds the constraint e >= rhs at strength s.
func (e Expression) GreaterOrEqual(rhs Expression, s Strength) *Constraint {
	return NewConstraint(e.Sub(rhs), GreaterOrEqual, s)
}

// String formats the expression for debug output, e.g. "2*x + y - 3".
func (e Expression) String() string {
	var b strings.Builder
	for i, t := range e.terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		if !t.Coefficient.Equal(rational.FromInt(1)) {
			b.WriteString(t.Coefficient.String())
			b.WriteString("*")
		}
		b.WriteString(t.Variable.String())
	}
	if len(e.terms) == 0 {
		return e.constant.String()
	}
	if !e.constant.IsZero() {
		b.WriteString(" + ")
		b.WriteString(e.constant.String())
	}
	return b.String()
}
