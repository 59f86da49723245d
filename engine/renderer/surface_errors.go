package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// Surface acquisition failures. Lost and outdated surfaces recover by reconfiguring, a
// timeout recovers by skipping the frame, and running out of memory is fatal.
var (
	ErrSurfaceLost     = errors.New("surface lost")
	ErrSurfaceOutdated = errors.New("surface outdated")
	ErrSurfaceTimeout  = errors.New("surface acquisition timed out")
	ErrOutOfMemory     = errors.New("gpu out of memory")
)

// ErrFrameInProgress is returned by BeginFrame while a previous frame has not been presented.
var ErrFrameInProgress = errors.New("previous frame not yet presented")

// ClassifySurfaceError maps an error from surface texture acquisition onto one of the
// sentinel errors, keeping the original error in the chain. Errors that match no sentinel
// are returned unchanged, and nil stays nil.
//
// Parameters:
//   - err: the error returned while acquiring the surface texture
//
// Returns:
//   - error: an error that wraps both a sentinel and err, or err itself
func ClassifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrSurfaceLost, ErrSurfaceOutdated, ErrSurfaceTimeout, ErrOutOfMemory} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	msg := strings.ToLower(strings.NewReplacer("_", "", " ", "").Replace(err.Error()))
	var sentinel error
	switch {
	case strings.Contains(msg, "outofmemory"):
		sentinel = ErrOutOfMemory
	case strings.Contains(msg, "outdated"):
		sentinel = ErrSurfaceOutdated
	case strings.Contains(msg, "timeout"):
		sentinel = ErrSurfaceTimeout
	case strings.Contains(msg, "lost"):
		sentinel = ErrSurfaceLost
	default:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// IsRecoverable reports whether the frame loop can continue after err.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrSurfaceLost) ||
		errors.Is(err, ErrSurfaceOutdated) ||
		errors.Is(err, ErrSurfaceTimeout) ||
		errors.Is(err, ErrFrameInProgress)
}
