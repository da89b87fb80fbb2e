package lifecycle

import (
	"fmt"
	"time"
)

// autoStartDisabledError signals the configured disabling sentinel while the
// server is unreachable. No process is spawned in that case.
type autoStartDisabledError struct{}

func (autoStartDisabledError) Error() string {
	return "inference server is not reachable and auto-start is disabled: " +
		"start the server yourself or unset COMMITGEN_SERVER_START"
}

// ErrAutoStartDisabled constructs the configuration error for the sentinel.
func ErrAutoStartDisabled() error { return autoStartDisabledError{} }

// IsAutoStartDisabled reports whether err is the disabled-sentinel error.
func IsAutoStartDisabled(err error) bool {
	_, ok := err.(autoStartDisabledError)
	return ok
}

// launchError signals a spawn failure before polling began.
type launchError struct{ err error }

func (e launchError) Error() string { return "failed to launch inference server: " + e.err.Error() }
func (e launchError) Unwrap() error { return e.err }

// ErrLaunchFailed wraps a spawn failure.
func ErrLaunchFailed(err error) error { return launchError{err: err} }

// IsLaunchFailed reports whether err came from the launch step.
func IsLaunchFailed(err error) bool {
	_, ok := err.(launchError)
	return ok
}

// startTimeoutError signals an exhausted readiness deadline.
type startTimeoutError struct{ timeout time.Duration }

func (e startTimeoutError) Error() string {
	return fmt.Sprintf("inference server did not become ready within %s: "+
		"raise COMMITGEN_START_TIMEOUT_MS or start the server manually", e.timeout)
}

// ErrStartTimeout constructs the readiness timeout error.
func ErrStartTimeout(timeout time.Duration) error { return startTimeoutError{timeout: timeout} }

// IsStartTimeout reports whether err is a readiness timeout.
func IsStartTimeout(err error) bool {
	_, ok := err.(startTimeoutError)
	return ok
}
