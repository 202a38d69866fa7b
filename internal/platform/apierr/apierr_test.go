package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errSentinel = errors.New("sentinel")

func TestNotConfigured(t *testing.T) {
	e := NotConfigured("ANTHROPIC_API_KEY")
	if e.Status != http.StatusInternalServerError || e.Code != CodeNotConfigured {
		t.Fatalf("unexpected status/code: got=%d/%s", e.Status, e.Code)
	}
	if e.Error() != "Server not configured (missing ANTHROPIC_API_KEY)." {
		t.Fatalf("unexpected message: %q", e.Error())
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	e := Upstream(CodeNoJSON, "No valid JSON found in response.", errSentinel)
	if e.Status != http.StatusBadGateway {
		t.Fatalf("got=%d want=502", e.Status)
	}
	if e.Error() != "No valid JSON found in response." {
		t.Fatalf("unexpected message: %q", e.Error())
	}
	if !errors.Is(e, errSentinel) {
		t.Fatalf("cause lost")
	}
}

func TestAs(t *testing.T) {
	if As(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	orig := New(http.StatusTeapot, "teapot", errSentinel)
	if got := As(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Fatalf("expected wrapped *Error to be found")
	}
	got := As(errors.New("boom"))
	if got.Code != CodeUnexpected || got.Error() != "Unexpected error: boom" {
		t.Fatalf("unexpected fallback: %s %q", got.Code, got.Error())
	}
}
