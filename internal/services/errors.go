// Package services defines the shared error taxonomy for the monitor.
//
// Every failure class the loop can encounter maps to one sentinel below.
// Only ErrConfiguration is fatal; it aborts startup before the loop begins.
// Everything else is recoverable: the cycle is logged and retried on the
// next tick without touching history.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a missing or invalid required setting. Fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrRemote marks a remote listing failure (auth, quota, network).
	ErrRemote = errors.New("remote error")
	// ErrProcessing marks a pipeline run that exited non-zero or failed to spawn.
	ErrProcessing = errors.New("processing failure")
	// ErrTimeout marks a pipeline run that exceeded its wall-clock bound.
	ErrTimeout = errors.New("timeout")
	// ErrPersistence marks a history or journal write failure.
	ErrPersistence = errors.New("persistence error")
)

// Wrap builds an error that carries component and operation context while
// tagging it with the provided sentinel for later classification.
func Wrap(marker error, component, operation string, err error) error {
	detail := buildDetail(component, operation)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should abort the process instead of being
// retried on the next cycle.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation string) string {
	parts := make([]string, 0, 2)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
