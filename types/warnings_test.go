package types

import (
	"fmt"
	"testing"
)

func TestWarning_Error(t *testing.T) {
	tests := []struct {
		name     string
		warning  *Warning
		expected string
	}{
		{
			name:     "simple warning",
			warning:  NewWarning(WarningLevelWarning, "test warning"),
			expected: "[warning] test warning",
		},
		{
			name:     "warning with code",
			warning:  &Warning{Level: WarningLevelError, Code: "PARSE_FAILURE", Message: "left side unparseable"},
			expected: "[error] PARSE_FAILURE: left side unparseable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.warning.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWarningFromError(t *testing.T) {
	if WarningFromError(nil) != nil {
		t.Error("WarningFromError(nil) should be nil")
	}

	err := NewDiffError(ErrCodeParseFailure, "bad markup").WithContext("side", "right")
	w := WarningFromError(err)
	if w.Level != WarningLevelError {
		t.Errorf("Level = %q, want error", w.Level)
	}
	if w.Code != string(ErrCodeParseFailure) {
		t.Errorf("Code = %q, want %q", w.Code, ErrCodeParseFailure)
	}
	if w.Context["side"] != "right" {
		t.Errorf("Context[side] = %v, want right", w.Context["side"])
	}

	plain := WarningFromError(fmt.Errorf("boom"))
	if plain.Code != "" || plain.Message != "boom" {
		t.Errorf("plain warning = %+v", plain)
	}
}

func TestWarningCollector_Add(t *testing.T) {
	wc := NewWarningCollector(true)

	warning := NewWarning(WarningLevelWarning, "test warning")
	wc.Add(warning)
	wc.Add(nil)

	if wc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", wc.Count())
	}
	if !wc.HasWarnings() {
		t.Error("HasWarnings() = false, want true")
	}
	if warnings := wc.Warnings(); len(warnings) != 1 || warnings[0] != warning {
		t.Error("Warnings() did not return the added warning")
	}
}

func TestWarningCollector_Disabled(t *testing.T) {
	wc := NewWarningCollector(false)
	wc.Add(NewWarning(WarningLevelWarning, "test warning"))

	if wc.Count() != 0 {
		t.Errorf("Count() = %d, want 0 when disabled", wc.Count())
	}
	if wc.HasWarnings() {
		t.Error("HasWarnings() = true, want false when disabled")
	}
}
