package cli

import (
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/strut/pkg/errors"
	"github.com/matzehuels/strut/pkg/layout"
)

// layoutSpec is the TOML schema for a layout request file:
//
//	total = 100
//	spacing = 1
//	flex = "stretch"
//	rules = ["length(20)", "fill(1)min(10)", "percent(25)"]
//
// Split requests additionally carry a direction and an area:
//
//	direction = "horizontal"
//	[area]
//	width = 120
//	height = 40
type layoutSpec struct {
	Total     int      `toml:"total"`
	Spacing   int      `toml:"spacing"`
	Flex      string   `toml:"flex"`
	Direction string   `toml:"direction"`
	Rules     []string `toml:"rules"`
	Area      areaSpec `toml:"area"`
}

// areaSpec is the rectangle portion of a split request.
type areaSpec struct {
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// loadSpec reads and validates a TOML layout request file.
func loadSpec(path string) (*layoutSpec, error) {
	var spec layoutSpec
	if _, err := toml.DecodeFile(path, &spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode %s", path)
	}
	if err := errors.ValidateRuleCount(len(spec.Rules)); err != nil {
		return nil, err
	}
	if err := errors.ValidateTotal(spec.Total); err != nil {
		return nil, err
	}
	if err := errors.ValidateSpacing(spec.Spacing); err != nil {
		return nil, err
	}
	return &spec, nil
}

// parseRules converts textual rule specs into layout rules.
func parseRules(specs []string) ([]layout.Rule, error) {
	rules := make([]layout.Rule, 0, len(specs))
	for _, s := range specs {
		r, err := parseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// parseRule converts one textual rule spec, e.g. "fill(2)min(10)", into a
// layout rule. The grammar is the one [layout.Rule.String] prints, so specs
// round-trip.
func parseRule(spec string) (layout.Rule, error) {
	if err := errors.ValidateRuleSpec(spec); err != nil {
		return layout.Rule{}, err
	}

	calls := splitCalls(spec)

	var rule layout.Rule
	head := calls[0]
	switch head.name {
	case "length":
		rule = layout.Length(atoi(head.arg))
	case "percent":
		rule = layout.Percent(atoi(head.arg))
	case "ratio":
		num, den, _ := strings.Cut(head.arg, "/")
		rule = layout.Ratio(int64(atoi(num)), int64(atoi(den)))
	case "fill":
		rule = layout.Fill(atoi(head.arg))
	case "min":
		rule = layout.Min(atoi(head.arg))
	case "max":
		rule = layout.Max(atoi(head.arg))
	}

	for _, c := range calls[1:] {
		switch c.name {
		case "min":
			rule = rule.WithMin(atoi(c.arg))
		case "max":
			rule = rule.WithMax(atoi(c.arg))
		}
	}
	return rule, nil
}

// ruleStrings renders rules back to their canonical textual form, used for
// cache keys and diagnostics.
func ruleStrings(rules []layout.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}

// call is one directive of a rule spec, e.g. {name: "fill", arg: "2"}.
type call struct {
	name string
	arg  string
}

// splitCalls tokenizes a validated rule spec into its directive calls.
func splitCalls(s string) []call {
	var calls []call
	for len(s) > 0 {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		calls = append(calls, call{name: s[:open], arg: s[open+1 : end]})
		s = s[end+1:]
	}
	return calls
}

// atoi parses a digit string already checked by validation.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
