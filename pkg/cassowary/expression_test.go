package cassowary

import (
	"errors"
	"testing"

	"github.com/matzehuels/strut/pkg/rational"
)

func TestExpression_Cancellation(t *testing.T) {
	x := NewVariable("x")
	y := NewVariable("y")

	e := FromVariable(y).AddConstant(rational.FromInt(7))
	roundTrip := e.AddVariable(x).SubVariable(x)

	if len(roundTrip.Terms()) != len(e.Terms()) {
		t.Fatalf("e + x - x has %d terms, want %d", len(roundTrip.Terms()), len(e.Terms()))
	}
	if !roundTrip.Constant().Equal(e.Constant()) {
		t.Errorf("constant changed: %s, want %s", roundTrip.Constant(), e.Constant())
	}
	if !roundTrip.CoefficientFor(y).Equal(rational.FromInt(1)) {
		t.Errorf("coefficient of y = %s, want 1", roundTrip.CoefficientFor(y))
	}
	if !roundTrip.CoefficientFor(x).IsZero() {
		t.Errorf("coefficient of x = %s, want 0", roundTrip.CoefficientFor(x))
	}
}

func TestExpression_SelfSubtractionIsZero(t *testing.T) {
	x := NewVariable("x")
	e := FromVariable(x).Sub(FromVariable(x))

	if len(e.Terms()) != 0 {
		t.Errorf("x - x has %d terms, want 0", len(e.Terms()))
	}
	if !e.Constant().IsZero() {
		t.Errorf("x - x constant = %s, want 0", e.Constant())
	}
}

func TestExpression_CombinesLikeTerms(t *testing.T) {
	x := NewVariable("x")
	two := rational.FromInt(2)
	three := rational.FromInt(3)

	e := NewExpression(rational.Rat{},
		Term{Variable: x, Coefficient: two},
		Term{Variable: x, Coefficient: three},
	)
	if len(e.Terms()) != 1 {
		t.Fatalf("2x + 3x has %d terms, want 1", len(e.Terms()))
	}
	if !e.CoefficientFor(x).Equal(rational.FromInt(5)) {
		t.Errorf("2x + 3x coefficient = %s, want 5", e.CoefficientFor(x))
	}
}

func TestExpression_ScalarOps(t *testing.T) {
	x := NewVariable("x")
	e := FromVariable(x).AddConstant(rational.FromInt(4)).Mul(rational.FromInt(3))

	if !e.Constant().Equal(rational.FromInt(12)) {
		t.Errorf("3*(x + 4) constant = %s, want 12", e.Constant())
	}
	if !e.CoefficientFor(x).Equal(rational.FromInt(3)) {
		t.Errorf("3*(x + 4) coefficient = %s, want 3", e.CoefficientFor(x))
	}

	half, err := e.Div(rational.FromInt(6))
	if err != nil {
		t.Fatalf("Div error: %v", err)
	}
	wantCoeff, _ := rational.New(1, 2)
	if !half.CoefficientFor(x).Equal(wantCoeff) {
		t.Errorf("coefficient after /6 = %s, want 1/2", half.CoefficientFor(x))
	}

	_, err = e.Div(rational.Rat{})
	if !errors.Is(err, rational.ErrDivisionByZero) {
		t.Errorf("Div by zero error = %v, want ErrDivisionByZero", err)
	}
}

func TestExpression_ConstraintBuilders(t *testing.T) {
	x := NewVariable("x")
	c := FromVariable(x).EqualTo(NewConstant(rational.FromInt(10)), Strong)

	if c.Relation() != Equal {
		t.Errorf("Relation = %v, want Equal", c.Relation())
	}
	if c.Strength() != Strong {
		t.Errorf("Strength = %v, want Strong", c.Strength())
	}
	// Interpreted as "x - 10 == 0".
	if !c.Expression().Constant().Equal(rational.FromInt(-10)) {
		t.Errorf("constant = %s, want -10", c.Expression().Constant())
	}
}

func TestConstraint_IdentityNotValue(t *testing.T) {
	x := NewVariable("x")
	a := FromVariable(x).EqualTo(NewConstant(rational.FromInt(5)), Required)
	b := FromVariable(x).EqualTo(NewConstant(rational.FromInt(5)), Required)

	if a == b {
		t.Error("structurally equal constraints must still be distinct identities")
	}
}
