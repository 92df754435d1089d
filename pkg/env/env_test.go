package env

import "testing"

func TestGetPrefersPrefixedVariable(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("BYBA_LOG_FORMAT", "json")

	if got := Get("LOG_FORMAT", "text"); got != "json" {
		t.Fatalf("Get = %q, want json", got)
	}
}

func TestGetFallsBackToBareVariable(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")

	if got := Get("LOG_FORMAT", "text"); got != "console" {
		t.Fatalf("Get = %q, want console", got)
	}
}

func TestGetReturnsFallbackWhenUnset(t *testing.T) {
	if got := Get("SOME_UNSET_VARIABLE", "text"); got != "text" {
		t.Fatalf("Get = %q, want text", got)
	}
}
