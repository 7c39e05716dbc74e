package errors

import (
	"errors"
	"testing"
)

func TestNewFormatsCodeAndMessage(t *testing.T) {
	err := New(ErrCodeInvalidRule, "invalid rule: %s", "grow(1)")

	if err.Code != ErrCodeInvalidRule {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidRule)
	}
	if want := "INVALID_RULE: invalid rule: grow(1)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("tableau corrupted")
	err := Wrap(ErrCodeInternal, cause, "solve failed")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through the wrapper")
	}
	if want := "INTERNAL_ERROR: solve failed: tableau corrupted"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidTotal, "x"), ErrCodeInvalidTotal, true},
		{"different code", New(ErrCodeInvalidTotal, "x"), ErrCodeInvalidFlex, false},
		{"outer code wins", Wrap(ErrCodeInternal, New(ErrCodeInvalidRule, "inner"), "outer"), ErrCodeInternal, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidRule, false},
		{"nil", nil, ErrCodeInvalidRule, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNetwork, "redis down")); got != ErrCodeNetwork {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeNetwork)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage = %q, want message without code prefix", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
