package errors

import (
	"strings"
	"testing"
)

func TestValidateRuleSpec(t *testing.T) {
	valid := []string{
		"length(20)",
		"percent(25)",
		"ratio(1/3)",
		"fill(0)",
		"fill(2)min(10)",
		"min(5)",
		"max(40)",
		"length(20)min(10)max(30)",
	}
	for _, spec := range valid {
		if err := ValidateRuleSpec(spec); err != nil {
			t.Errorf("ValidateRuleSpec(%q) = %v, want nil", spec, err)
		}
	}

	invalid := []string{
		"",
		"length",
		"length()",
		"length(-5)",
		"length(20",
		"ratio(1)",
		"ratio(1/3/5)",
		"grow(1)",
		"length(20);fill(1)",
		"fill(1)length(20)",
		"length(20) ",
		strings.Repeat("min(1)", 30), // over the length cap
	}
	for _, spec := range invalid {
		err := ValidateRuleSpec(spec)
		if err == nil {
			t.Errorf("ValidateRuleSpec(%q) = nil, want error", spec)
			continue
		}
		if !Is(err, ErrCodeInvalidRule) {
			t.Errorf("ValidateRuleSpec(%q) code = %v, want %v", spec, GetCode(err), ErrCodeInvalidRule)
		}
	}
}

func TestValidateRuleCount(t *testing.T) {
	if err := ValidateRuleCount(1); err != nil {
		t.Errorf("ValidateRuleCount(1) = %v, want nil", err)
	}
	if err := ValidateRuleCount(MaxRules); err != nil {
		t.Errorf("ValidateRuleCount(MaxRules) = %v, want nil", err)
	}
	if err := ValidateRuleCount(0); err == nil {
		t.Error("ValidateRuleCount(0) = nil, want error")
	}
	if err := ValidateRuleCount(MaxRules + 1); err == nil {
		t.Error("ValidateRuleCount(MaxRules+1) = nil, want error")
	}
}

func TestValidateTotal(t *testing.T) {
	if err := ValidateTotal(0); err != nil {
		t.Errorf("ValidateTotal(0) = %v, want nil", err)
	}
	if err := ValidateTotal(MaxTotal); err != nil {
		t.Errorf("ValidateTotal(MaxTotal) = %v, want nil", err)
	}
	if err := ValidateTotal(-1); err == nil {
		t.Error("ValidateTotal(-1) = nil, want error")
	}
	if err := ValidateTotal(MaxTotal + 1); err == nil {
		t.Error("ValidateTotal(MaxTotal+1) = nil, want error")
	}
}

func TestValidateSpacing(t *testing.T) {
	if err := ValidateSpacing(0); err != nil {
		t.Errorf("ValidateSpacing(0) = %v, want nil", err)
	}
	if err := ValidateSpacing(-1); err == nil {
		t.Error("ValidateSpacing(-1) = nil, want error")
	}
}
