package cassowary

import "github.com/matzehuels/strut/pkg/rational"

// Strength is the preference level of a constraint.
//
// [Required] constraints must hold exactly; adding a required constraint that
// conflicts with the existing required set fails with
// [ErrUnsatisfiableConstraint]. The remaining levels are soft: the solver
// minimizes their violation lexicographically, strongest level first, with
// exact non-domination between levels.
type Strength uint8

// Strength levels in increasing order of precedence.
const (
	// Weak constraints yield to everything else. Used for "if nothing else
	// cares, prefer this" defaults such as spare-space distribution.
	Weak Strength = iota + 1

	// Medium constraints sit between weak defaults and strong preferences.
	Medium

	// Strong constraints express firm preferences that may still be relaxed
	// when space runs out, e.g. "this pane is 20 columns wide".
	Strong

	// Required constraints must hold exactly and are never relaxed.
	Required
)

// String returns the lower-case level name.
func (s Strength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case Required:
		return "required"
	default:
		return "invalid"
	}
}

// weight is a symbolic objective coefficient: one exact rational per soft
// strength level, compared lexicographically (strong, then medium, then
// weak). Using vectors instead of scaled float constants makes non-domination
// exact - no accumulation of weak-level error terms can ever reach the
// medium level.
type weight struct {
	strong, medium, weak rational.Rat
}

// weightOf returns the unit weight for a soft strength level. Required
// constraints never contribute to the objective, so Required has no weight.
func weightOf(s Strength) weight {
	switch s {
	case Strong:
		return weight{strong: rational.FromInt(1)}
	case Medium:
		return weight{medium: rational.FromInt(1)}
	default:
		return weight{weak: rational.FromInt(1)}
	}
}

// liftWeight embeds a plain rational coefficient into a weight for the
// artificial-variable feasibility phase, which optimizes over ordinary
// coefficients. The slot choice is irrelevant as long as it is consistent.
func liftWeight(c rational.Rat) weight {
	return weight{strong: c}
}

func (w weight) add(o weight) weight {
	return weight{
		strong: w.strong.Add(o.strong),
		medium: w.medium.Add(o.medium),
		weak:   w.weak.Add(o.weak),
	}
}

func (w weight) neg() weight {
	return weight{strong: w.strong.Neg(), medium: w.medium.Neg(), weak: w.weak.Neg()}
}

func (w weight) scale(c rational.Rat) weight {
	return weight{
		strong: w.strong.Mul(c),
		medium: w.medium.Mul(c),
		weak:   w.weak.Mul(c),
	}
}

// sign returns the lexicographic sign: the sign of the first nonzero level.
func (w weight) sign() int {
	if s := w.strong.Sign(); s != 0 {
		return s
	}
	if s := w.medium.Sign(); s != 0 {
		return s
	}
	return w.weak.Sign()
}

func (w weight) isZero() bool { return w.sign() == 0 }

// cmp compares two weights lexicographically.
func (w weight) cmp(o weight) int {
	return w.add(o.neg()).sign()
}
