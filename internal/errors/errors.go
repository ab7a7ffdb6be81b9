package errors

import (
	"errors"
	"fmt"
)

// Error kinds raised by the dashboard action layer
var (
	// Input errors
	ErrValidation = errors.New("validation error")

	// OAuth errors
	ErrAuthExchange  = errors.New("authorization code exchange failed")
	ErrNotAuthorized = errors.New("not authorized")
	ErrInvalidState  = errors.New("invalid state")

	// Import errors
	ErrFetch      = errors.New("sheet fetch failed")
	ErrRowMapping = errors.New("row mapping failed")

	// Search errors
	ErrSearch = errors.New("search failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidMarker   = errors.New("invalid session marker")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Kind joins a sentinel kind onto a cause so both match with errors.Is
func Kind(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
