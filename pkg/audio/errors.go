package audio

import (
	"errors"
	"fmt"
)

// ErrFormatUnsupported is returned, wrapped in a BuildError, when no
// entry of the device's supported formats satisfies the requested
// channel count and encoding. A sample rate mismatch alone never
// causes it: rates negotiate to the nearest supported value.
var ErrFormatUnsupported = errors.New("audio: no supported device format matches the requested configuration")

// BuildError is the error type Build returns. Op names the build stage
// that failed; Err is the underlying cause, matchable with errors.Is
// against audioapi.ErrNoDefaultDevice, ErrFormatUnsupported, or the
// backend's own errors.
type BuildError struct {
	Op  string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
