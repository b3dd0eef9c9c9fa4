// internal/types.go - Common types for internal packages
package internal

import "time"

// Error represents application-specific errors
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new application error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode constants for common error types
const (
	ErrorCodeCoordFormat     = "COORD_FORMAT_ERROR"
	ErrorCodeCompass         = "COMPASS_ERROR"
	ErrorCodeMissingPair     = "MISSING_PAIR_ERROR"
	ErrorCodeConflictingPair = "CONFLICTING_PAIR_ERROR"
	ErrorCodeAmbiguousExtent = "AMBIGUOUS_EXTENT_ERROR"
	ErrorCodeFetch           = "FETCH_ERROR"
	ErrorCodeCacheWrite      = "CACHE_WRITE_ERROR"
	ErrorCodeValidation      = "VALIDATION_ERROR"
	ErrorCodeConfig          = "CONFIG_ERROR"
)

// CodeOf returns the application error code of err, or "" if err carries none.
func CodeOf(err error) string {
	for err != nil {
		if appErr, ok := err.(*Error); ok {
			return appErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// FetchStats represents metrics for a tile fetch pass
type FetchStats struct {
	TotalTiles      int64
	CachedTiles     int64
	DownloadedTiles int64
	FailedTiles     int64
	StartTime       time.Time
	EndTime         time.Time
}

// Duration returns the elapsed wall time of the fetch pass.
func (s *FetchStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
