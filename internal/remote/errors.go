package remote

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"cardwatch/internal/services"
)

// wrapListError tags any Drive API failure as a recoverable remote error.
func wrapListError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return services.Wrap(services.ErrRemote, "remote", operation, err)
}

// retryAfterSeconds extracts a backoff hint from a rate-limited API error.
// Returns 0 when err is not a rate limit response.
func retryAfterSeconds(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return 0
	}
	if gerr.Code != http.StatusTooManyRequests {
		return 0
	}
	// Drive does not reliably send Retry-After; fall back to a fixed pause.
	return 30
}
