package anthropic

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	pal "github.com/agenticpal/pal"
	"github.com/anthropics/anthropic-sdk-go"
)

// wrapError wraps an Anthropic SDK error with pal error categorization.
// It extracts status codes and Retry-After headers for retry handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely a network error)
		return err
	}

	code := apiErr.StatusCode
	retryAfter := parseRetryAfter(apiErr.Response)
	msg := err.Error()

	if retryAfter > 0 {
		return pal.NewTransientErrorWithRetry(msg, code, retryAfter, err)
	}

	switch categorizeStatusCode(code) {
	case pal.ErrorTransient:
		return pal.NewTransientError(msg, code, err)
	case pal.ErrorPermanent:
		return pal.NewPermanentError(msg, code, err)
	case pal.ErrorUserInput:
		return pal.NewUserInputError(msg, code, err)
	default:
		return err
	}
}

// categorizeStatusCode determines the error category from an HTTP status code.
func categorizeStatusCode(code int) pal.ErrorCategory {
	switch {
	case code == 429:
		return pal.ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return pal.ErrorTransient // Server error
	case code == 401 || code == 403:
		return pal.ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return pal.ErrorUserInput // Bad request or not found
	default:
		return pal.ErrorPermanent // Default to permanent for unknown codes
	}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}
