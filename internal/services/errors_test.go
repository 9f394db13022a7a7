package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsSentinel(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(ErrRemote, "remote", "list folder", base)

	if !errors.Is(err, ErrRemote) {
		t.Error("wrapped error should match ErrRemote")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should preserve the underlying cause")
	}
	if !strings.Contains(err.Error(), "remote: list folder") {
		t.Errorf("missing context detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToProcessing(t *testing.T) {
	err := Wrap(nil, "pipeline", "spawn", nil)
	if !errors.Is(err, ErrProcessing) {
		t.Errorf("nil marker should default to ErrProcessing, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(Wrap(ErrConfiguration, "config", "validate", nil)) {
		t.Error("configuration errors are fatal")
	}
	for _, err := range []error{ErrRemote, ErrProcessing, ErrTimeout, ErrPersistence} {
		if IsFatal(err) {
			t.Errorf("%v should be recoverable", err)
		}
	}
}
