// Package rational provides exact rational arithmetic for layout computation.
//
// All quantities flowing through the constraint solver are rationals rather
// than floats so that repeated layout passes are bit-for-bit reproducible and
// percentage or ratio splits never accumulate drift. Values are immutable and
// always stored in lowest terms with a positive denominator.
//
// The zero value of [Rat] is usable and represents 0.
package rational

import (
	"errors"
	"math/big"
)

// ErrDivisionByZero is returned by [Rat.Div] when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Rat is an immutable arbitrary-precision rational number.
//
// Rat values are safe to copy and compare with the methods below. The
// underlying big.Rat is never mutated after construction, so sharing the
// internal pointer across copies is safe.
type Rat struct {
	r *big.Rat
}

// New creates the rational num/den. It returns ErrDivisionByZero when den is
// zero.
func New(num, den int64) (Rat, error) {
	if den == 0 {
		return Rat{}, ErrDivisionByZero
	}
	return Rat{r: big.NewRat(num, den)}, nil
}

// FromInt creates the rational n/1.
func FromInt(n int64) Rat {
	if n == 0 {
		return Rat{}
	}
	return Rat{r: big.NewRat(n, 1)}
}

// val returns the underlying big.Rat, mapping the zero value to 0.
// The result must not be mutated.
func (a Rat) val() *big.Rat {
	if a.r == nil {
		return zeroRat
	}
	return a.r
}

var zeroRat = new(big.Rat)

// Add returns a + b.
func (a Rat) Add(b Rat) Rat {
	return Rat{r: new(big.Rat).Add(a.val(), b.val())}
}

// Sub returns a - b.
func (a Rat) Sub(b Rat) Rat {
	return Rat{r: new(big.Rat).Sub(a.val(), b.val())}
}

// Mul returns a * b.
func (a Rat) Mul(b Rat) Rat {
	return Rat{r: new(big.Rat).Mul(a.val(), b.val())}
}

// Div returns a / b. It returns ErrDivisionByZero when b is zero.
func (a Rat) Div(b Rat) (Rat, error) {
	if b.IsZero() {
		return Rat{}, ErrDivisionByZero
	}
	return Rat{r: new(big.Rat).Quo(a.val(), b.val())}, nil
}

// Neg returns -a.
func (a Rat) Neg() Rat {
	if a.IsZero() {
		return Rat{}
	}
	return Rat{r: new(big.Rat).Neg(a.val())}
}

// Inv returns 1 / a. It returns ErrDivisionByZero when a is zero.
func (a Rat) Inv() (Rat, error) {
	if a.IsZero() {
		return Rat{}, ErrDivisionByZero
	}
	return Rat{r: new(big.Rat).Inv(a.val())}, nil
}

// Cmp compares a and b, returning -1 when a < b, 0 when a == b, and +1 when
// a > b.
func (a Rat) Cmp(b Rat) int {
	return a.val().Cmp(b.val())
}

// Equal reports whether a and b represent the same rational.
func (a Rat) Equal(b Rat) bool {
	return a.Cmp(b) == 0
}

// Sign returns -1 when a < 0, 0 when a == 0, and +1 when a > 0.
func (a Rat) Sign() int {
	return a.val().Sign()
}

// IsZero reports whether a == 0.
func (a Rat) IsZero() bool {
	return a.val().Sign() == 0
}

// Floor returns the largest integer not greater than a.
//
// The denominator is always positive, so big.Int's Euclidean division is
// exactly the floor here.
func (a Rat) Floor() int64 {
	v := a.val()
	return new(big.Int).Div(v.Num(), v.Denom()).Int64()
}

// Frac returns the fractional part a - Floor(a), which is always in [0, 1).
func (a Rat) Frac() Rat {
	return a.Sub(FromInt(a.Floor()))
}

// Float64 returns the nearest float64 approximation of a. It is intended for
// display only; layout math must stay exact.
func (a Rat) Float64() float64 {
	f, _ := a.val().Float64()
	return f
}

// String formats a in lowest terms, e.g. "3/4" or "5".
func (a Rat) String() string {
	return a.val().RatString()
}
