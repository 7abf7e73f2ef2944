package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindStillLoading, http.StatusServiceUnavailable},
		{KindUpstreamTimeout, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := New(c.kind, "x").StatusCode(); got != c.want {
			t.Errorf("StatusCode(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, KindInternal, "failed")
	if !errors.Is(err, cause) {
		t.Errorf("Wrap should preserve cause for errors.Is")
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := NotFound("entity")
	if !Is(err, KindNotFound) {
		t.Errorf("Is(err, KindNotFound) = false, want true")
	}
	if Is(err, KindInternal) {
		t.Errorf("Is(err, KindInternal) = true, want false")
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("plain"), KindInternal) {
		t.Errorf("Is should be false for a non-apperr error")
	}
}

func TestWithDetailsAppendsToMessage(t *testing.T) {
	err := Invalid("bad field").WithDetails("name is required")
	if err.Error() != "InvalidInput: bad field (name is required)" {
		t.Errorf("Error() = %q", err.Error())
	}
}
