package retry

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"syscall"

	pal "github.com/agenticpal/pal"
)

// statusCoder is an interface for errors that have an HTTP status code.
// Both the Anthropic and OpenAI SDK errors implement this interface.
type statusCoder interface {
	StatusCode() int
}

// IsTransient determines if an error is transient and should be retried.
// It first checks if the error implements pal.CategorizedError for explicit
// categorization. If not, it falls back to heuristic detection:
// - Rate limits (HTTP 429)
// - Server errors (HTTP 5xx)
// - Network timeouts
// - Connection resets
// - DNS failures
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce pal.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == pal.ErrorTransient
	}

	// Heuristic detection for uncategorized errors.

	var sc statusCoder
	if errors.As(err, &sc) {
		if isTransientStatusCode(sc.StatusCode()) {
			return true
		}
	}

	// The Google SDK error carries its code in the message, not a method.
	if code := extractGoogleAPIErrorCode(err); code > 0 {
		if isTransientStatusCode(code) {
			return true
		}
	}

	return isTransientNetworkError(err)
}

// isTransientStatusCode checks if an HTTP status code indicates a transient error.
func isTransientStatusCode(code int) bool {
	if code == 429 {
		return true
	}
	return code >= 500 && code < 600
}

// extractGoogleAPIErrorCode extracts the status code from a Google API error
// message of the form "googleapi: Error 429: ...".
func extractGoogleAPIErrorCode(err error) int {
	errStr := err.Error()
	if !strings.Contains(errStr, "googleapi:") {
		return 0
	}
	for _, code := range []int{429, 500, 502, 503, 504} {
		if strings.Contains(errStr, "Error "+strconv.Itoa(code)) {
			return code
		}
	}
	return 0
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNRESET,
			syscall.ECONNREFUSED,
			syscall.ETIMEDOUT:
			return true
		}
	}

	// Message-pattern fallback for SDK errors that wrap nothing useful.
	errMsg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset",
		"connection refused",
		"timeout",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"rate limit",
		"server error",
		"bad gateway",
		"gateway timeout",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
