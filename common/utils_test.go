package common

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "console", "json"); got != "console" {
		t.Errorf("Coalesce strings = %q, want console", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce all-zero = %q, want empty", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("Coalesce ints = %d, want 42", got)
	}
	if got := Coalesce[int](); got != 0 {
		t.Errorf("Coalesce no args = %d, want 0", got)
	}
}
