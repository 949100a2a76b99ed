package google

import (
	"errors"
	"fmt"

	pal "github.com/agenticpal/pal"
	"google.golang.org/genai"
)

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}

// wrapError wraps a Gemini API error with pal error categorization.
// The genai APIError doesn't expose headers, so Retry-After is not
// available here.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely a network error)
		return err
	}

	code := apiErr.Code
	msg := err.Error()

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
