package layout

import (
	"fmt"
	"strings"
)

// ruleKind identifies a rule's primary sizing directive.
type ruleKind uint8

const (
	kindLength ruleKind = iota
	kindPercent
	kindRatio
	kindFill
	kindMin
	kindMax
)

// Rule is one item's sizing directive. Construct rules with [Length],
// [Percent], [Ratio], [Fill], [Min], or [Max], and optionally bound any of
// them with [Rule.WithMin] and [Rule.WithMax].
//
// The zero value behaves like Fill(1).
type Rule struct {
	kind     ruleKind
	value    int   // Length, Min, Max target
	percent  int   // Percent target
	num, den int64 // Ratio target
	weight   int   // Fill weight
	min, max *int  // optional extra bounds
}

// Length requests exactly n cells. The preference is strong but not
// absolute: when the total extent cannot accommodate every request the item
// may be shrunk.
func Length(n int) Rule {
	return Rule{kind: kindLength, value: max(n, 0)}
}

// Percent requests p percent of the total extent, kept exact until final
// integer apportionment. Values are clamped into [0, 100].
func Percent(p int) Rule {
	return Rule{kind: kindPercent, percent: min(max(p, 0), 100)}
}

// Ratio requests num/den of the total extent, kept as an exact rational
// until final integer apportionment. A non-positive den is treated as 1.
func Ratio(num, den int64) Rule {
	if den <= 0 {
		den = 1
	}
	return Rule{kind: kindRatio, num: max(num, 0), den: den}
}

// Fill claims a share of the extent left over by the other rules,
// proportional to weight relative to the other fill rules. A weight of zero
// yields an item that only grows when nothing else wants the space.
func Fill(weight int) Rule {
	return Rule{kind: kindFill, weight: max(weight, 0)}
}

// Min requests at least n cells (a hard bound) and prefers to stay at
// exactly n, ceding leftover space to more eager rules.
func Min(n int) Rule {
	return Rule{kind: kindMin, value: max(n, 0)}
}

// Max allows at most n cells (a hard bound) and prefers to grow all the way
// to n when space permits.
func Max(n int) Rule {
	return Rule{kind: kindMax, value: max(n, 0)}
}

// WithMin adds a hard lower bound to the rule.
func (r Rule) WithMin(n int) Rule {
	n = max(n, 0)
	r.min = &n
	return r
}

// WithMax adds a hard upper bound to the rule.
func (r Rule) WithMax(n int) Rule {
	n = max(n, 0)
	r.max = &n
	return r
}

// String formats the rule for debug and visualization output,
// e.g. "fill(2)min(10)".
func (r Rule) String() string {
	var b strings.Builder
	switch r.kind {
	case kindLength:
		fmt.Fprintf(&b, "length(%d)", r.value)
	case kindPercent:
		fmt.Fprintf(&b, "percent(%d)", r.percent)
	case kindRatio:
		fmt.Fprintf(&b, "ratio(%d/%d)", r.num, r.den)
	case kindFill:
		fmt.Fprintf(&b, "fill(%d)", r.weight)
	case kindMin:
		fmt.Fprintf(&b, "min(%d)", r.value)
	case kindMax:
		fmt.Fprintf(&b, "max(%d)", r.value)
	}
	if r.min != nil {
		fmt.Fprintf(&b, "min(%d)", *r.min)
	}
	if r.max != nil {
		fmt.Fprintf(&b, "max(%d)", *r.max)
	}
	return b.String()
}

// Flex describes where unclaimed leftover extent goes when the items do not
// soak it up themselves (no fill rules, or fills saturated by max bounds).
// It only tunes soft preferences; it never changes the hard solving
// contract.
type Flex uint8

const (
	// FlexStretch distributes leftover into the items themselves; the item
	// sizes plus spacing always cover the full extent. This is the default.
	FlexStretch Flex = iota

	// FlexStart packs items at the start, leftover trailing.
	FlexStart

	// FlexEnd packs items at the end, leftover leading.
	FlexEnd

	// FlexCenter centers the items, leftover split evenly around them.
	FlexCenter

	// FlexSpaceBetween widens the gaps between items evenly.
	FlexSpaceBetween

	// FlexSpaceAround widens the gaps around and between items evenly.
	FlexSpaceAround
)

// flexNames maps each policy to its configuration name.
var flexNames = map[Flex]string{
	FlexStretch:      "stretch",
	FlexStart:        "start",
	FlexEnd:          "end",
	FlexCenter:       "center",
	FlexSpaceBetween: "space-between",
	FlexSpaceAround:  "space-around",
}

// String returns the policy's configuration name.
func (f Flex) String() string {
	if s, ok := flexNames[f]; ok {
		return s
	}
	return "invalid"
}

// ParseFlex converts a configuration name (e.g. "stretch", "space-between")
// into a Flex policy.
func ParseFlex(s string) (Flex, error) {
	for f, name := range flexNames {
		if name == s {
			return f, nil
		}
	}
	return FlexStretch, fmt.Errorf("unknown flex policy %q", s)
}
