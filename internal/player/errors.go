package player

import "errors"

// NotLoadedError is returned by StartPlayback when no automation sequence
// has been loaded. No state changes when it is returned.
type NotLoadedError struct{}

func (e *NotLoadedError) Error() string {
	return "no automation loaded"
}

// IsNotLoaded reports whether err is (or wraps) a NotLoadedError.
func IsNotLoaded(err error) bool {
	var nl *NotLoadedError
	return errors.As(err, &nl)
}
