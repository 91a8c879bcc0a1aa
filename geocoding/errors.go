// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jcodagnone/distcalc/spatial"
)

// Sentinel errors matched with errors.Is. A *GeocodingError matches exactly
// one of them depending on its Type.
var (
	// ErrInvalidArgument means the input was rejected locally, before any
	// network call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrResolutionFailed means the geocoding service could not be queried or
	// answered with something unusable.
	ErrResolutionFailed = errors.New("resolution failed")
)

// ErrorType classifies geocoding errors.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified service failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeInvalidArgument empty query, bad language hint or coordinate.
	ErrorTypeInvalidArgument
	// ErrorTypeRateLimit the service throttled us.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded quota exceeded or access denied.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout the call did not finish in time.
	ErrorTypeTimeout
	// ErrorTypeInvalidRequest the service rejected the request.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError connection level failure or 5xx.
	ErrorTypeNetworkError
	// ErrorTypeMalformedResponse the payload could not be understood.
	ErrorTypeMalformedResponse
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:           "unknown",
	ErrorTypeInvalidArgument:   "invalid_argument",
	ErrorTypeRateLimit:         "rate_limit",
	ErrorTypeQuotaExceeded:     "quota_exceeded",
	ErrorTypeTimeout:           "timeout",
	ErrorTypeInvalidRequest:    "invalid_request",
	ErrorTypeNetworkError:      "network",
	ErrorTypeMalformedResponse: "malformed_response",
}

func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// GeocodingError is returned by Resolver and by the providers.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidArgument) and
// errors.Is(err, ErrResolutionFailed) work on the error type.
func (e *GeocodingError) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Type == ErrorTypeInvalidArgument
	case ErrResolutionFailed:
		return e.Type != ErrorTypeInvalidArgument
	default:
		return false
	}
}

// Detail is the human readable description meant for end users.
func (e *GeocodingError) Detail() string {
	return e.Error()
}

func invalidArgument(format string, args ...any) *GeocodingError {
	return &GeocodingError{
		Type:    ErrorTypeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

func malformedResponse(message string, err error) *GeocodingError {
	return &GeocodingError{
		Type:    ErrorTypeMalformedResponse,
		Message: message,
		Err:     err,
	}
}

// IsInvalidArgument reports whether err was caused by local validation,
// including coordinates rejected by the spatial package.
func IsInvalidArgument(err error) bool {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == ErrorTypeInvalidArgument
	}

	return errors.Is(err, spatial.ErrInvalidCoordinate)
}

// IsResolutionFailed reports whether err is a service-level failure.
func IsResolutionFailed(err error) bool {
	return errors.Is(err, ErrResolutionFailed)
}

// IsRateLimitError reports whether the service throttled the request.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == ErrorTypeRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

// IsTimeoutError reports whether err is a timeout.
func IsTimeoutError(err error) bool {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == ErrorTypeTimeout
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// ClassifyHTTPError maps a non-2xx status from the geocoding service to an error.
func ClassifyHTTPError(statusCode int, body string) *GeocodingError {
	var e *GeocodingError

	switch {
	case statusCode == http.StatusTooManyRequests:
		e = &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit reached"}
	case statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized:
		e = &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded or access denied"}
	case statusCode == http.StatusBadRequest:
		e = &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "request rejected"}
	case statusCode == http.StatusGatewayTimeout:
		e = &GeocodingError{Type: ErrorTypeTimeout, Message: "upstream timed out"}
	case statusCode >= 500:
		e = &GeocodingError{
			Type:    ErrorTypeNetworkError,
			Message: fmt.Sprintf("service unavailable (status %d)", statusCode),
		}
	default:
		e = &GeocodingError{Type: ErrorTypeUnknown, Message: fmt.Sprintf("unexpected HTTP status %d", statusCode)}
	}

	if body = abbreviate(strings.TrimSpace(body), 200); body != "" {
		e.Message = fmt.Sprintf("%s: %s", e.Message, body)
	}

	return e
}

// classifyTransportError turns an error from http.Client.Do or from reading the
// body into a GeocodingError.
func classifyTransportError(err error) *GeocodingError {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr
	}

	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding request timed out", Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request canceled", Err: err}
	default:
		return &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request failed", Err: err}
	}
}

func abbreviate(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}

	return string(r[:maxChars]) + "…"
}
