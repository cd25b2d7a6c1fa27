package marine

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class. Codes are strings so they serialize naturally.
type ErrorCode string

const (
	// CodeInvalidStation indicates the station identifier was rejected before any lookup.
	CodeInvalidStation ErrorCode = "INVALID_STATION"

	// CodeStationNotFound indicates the provider has no data for the station.
	CodeStationNotFound ErrorCode = "STATION_NOT_FOUND"

	// CodeUpstreamUnavailable indicates the provider failed or could not be reached.
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// CodeInvalidFormat indicates the provider answered with something that is not a record.
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// CodeInternal covers everything unclassified.
	CodeInternal ErrorCode = "INTERNAL"
)

// Sentinel kinds for errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrUpstream    = errors.New("upstream error")
	ErrNotFound    = errors.New("station not found")
	ErrUnavailable = errors.New("upstream unavailable")
	ErrFormat      = errors.New("format error")
	ErrInternal    = errors.New("internal error")
)

// Error is the classified error returned by every operation in this package.
type Error struct {
	Code    ErrorCode
	Summary string // short, client-facing
	Message string // detail
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel kinds against the error code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Code == CodeInvalidStation
	case ErrUpstream:
		return e.Code == CodeStationNotFound || e.Code == CodeUpstreamUnavailable
	case ErrNotFound:
		return e.Code == CodeStationNotFound
	case ErrUnavailable:
		return e.Code == CodeUpstreamUnavailable
	case ErrFormat:
		return e.Code == CodeInvalidFormat
	case ErrInternal:
		return e.Code == CodeInternal
	}
	return false
}

// NewValidationError reports a rejected station identifier.
func NewValidationError(station string) *Error {
	return &Error{
		Code:    CodeInvalidStation,
		Summary: "Invalid station ID",
		Message: fmt.Sprintf("station ID %q must be letters, digits, '_' or '-'", station),
	}
}

// NewNotFoundError reports a station the provider does not know.
func NewNotFoundError(station string, cause error) *Error {
	return &Error{
		Code:    CodeStationNotFound,
		Summary: "Station not found",
		Message: fmt.Sprintf("NDBC station %s not found or has no data available", station),
		Err:     cause,
	}
}

// NewUnavailableError reports a provider failure other than not-found.
func NewUnavailableError(message string, cause error) *Error {
	return &Error{
		Code:    CodeUpstreamUnavailable,
		Summary: "NDBC service unavailable",
		Message: message,
		Err:     cause,
	}
}

// NewFormatError reports a payload that cannot be read as an observation record.
func NewFormatError(message string, cause error) *Error {
	return &Error{
		Code:    CodeInvalidFormat,
		Summary: "Invalid NDBC data",
		Message: message,
		Err:     cause,
	}
}

// Classify returns err as an *Error, wrapping anything unclassified as internal.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    CodeInternal,
		Summary: "Internal server error",
		Message: err.Error(),
		Err:     err,
	}
}
