package document

import (
	"errors"
	"fmt"
)

// Error codes for document loading.
const (
	// ErrCodeUnreadable means the source could not be read at all.
	ErrCodeUnreadable = "UNREADABLE"
	// ErrCodeSyntax means the source is not well-formed JSON.
	ErrCodeSyntax = "SYNTAX"
	// ErrCodeSchema means the document does not conform to the
	// automation sequence shape.
	ErrCodeSchema = "SCHEMA"
	// ErrCodeInvalid means the document decoded but violates a sequence
	// invariant (ordering, duration).
	ErrCodeInvalid = "INVALID"
)

// LoadError describes why an automation source could not be loaded.
// Playback cannot start from a source that produced one.
type LoadError struct {
	Path    string
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is (or wraps) a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
