package errors

import "regexp"

// Limits for layout requests. Solving is polynomial in the rule count, so
// these bounds keep a single API request from monopolizing a server.
const (
	// MaxRules is the maximum number of rules in one request.
	MaxRules = 512

	// MaxTotal is the maximum extent in cells. Far beyond any real
	// terminal, but small enough to keep apportionment loops bounded.
	MaxTotal = 1_000_000
)

// ruleSpecRegex matches textual rule specs: a directive with one numeric
// argument (or num/den for ratio), optionally followed by min/max bounds,
// e.g. "length(20)", "ratio(1/3)", "fill(2)min(10)max(40)".
var ruleSpecRegex = regexp.MustCompile(
	`^(length|percent|fill|min|max)\([0-9]+\)((min|max)\([0-9]+\))*$` +
		`|^ratio\([0-9]+/[0-9]+\)((min|max)\([0-9]+\))*$`)

// ValidateRuleSpec validates a textual rule spec before parsing.
func ValidateRuleSpec(spec string) error {
	if spec == "" {
		return New(ErrCodeInvalidRule, "rule cannot be empty")
	}
	if len(spec) > 128 {
		return New(ErrCodeInvalidRule, "rule too long (max 128 characters)")
	}
	if !ruleSpecRegex.MatchString(spec) {
		return New(ErrCodeInvalidRule, "invalid rule: %q", spec)
	}
	return nil
}

// ValidateRuleCount validates the number of rules in a request.
func ValidateRuleCount(n int) error {
	if n == 0 {
		return New(ErrCodeInvalidInput, "at least one rule is required")
	}
	if n > MaxRules {
		return New(ErrCodeInvalidInput, "too many rules: %d (max %d)", n, MaxRules)
	}
	return nil
}

// ValidateTotal validates a total extent.
func ValidateTotal(total int) error {
	if total < 0 {
		return New(ErrCodeInvalidTotal, "total cannot be negative: %d", total)
	}
	if total > MaxTotal {
		return New(ErrCodeInvalidTotal, "total too large: %d (max %d)", total, MaxTotal)
	}
	return nil
}

// ValidateSpacing validates inter-item spacing.
func ValidateSpacing(spacing int) error {
	if spacing < 0 {
		return New(ErrCodeInvalidInput, "spacing cannot be negative: %d", spacing)
	}
	if spacing > MaxTotal {
		return New(ErrCodeInvalidInput, "spacing too large: %d (max %d)", spacing, MaxTotal)
	}
	return nil
}
