package garmin

import "fmt"

// ErrorKind names the failure modes of the Garmin Connect integration.
// Callers branch on the kind to decide fallback policy instead of
// pattern-matching error strings.
type ErrorKind string

const (
	// KindAuthFailed means the credentials were rejected.
	KindAuthFailed ErrorKind = "auth_failed"
	// KindMFARequired means login needs a verification code; the error
	// carries an opaque MFAToken to resume with.
	KindMFARequired ErrorKind = "mfa_required"
	// KindUnreachable means the service could not be reached.
	KindUnreachable ErrorKind = "unreachable"
	// KindTokenInvalid means a previously issued session token was
	// rejected or has expired.
	KindTokenInvalid ErrorKind = "token_invalid"
)

// Error is the tagged error returned by the Garmin client.
type Error struct {
	Kind     ErrorKind
	MFAToken string // set when Kind == KindMFARequired
	Detail   string
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("garmin: %s: %s: %v", e.Kind, e.Detail, e.cause)
	}
	return fmt.Sprintf("garmin: %s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is a garmin Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	gerr, ok := AsError(err)
	return ok && gerr.Kind == kind
}

// AsError unwraps err to a garmin Error if it is one.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if gerr, ok := err.(*Error); ok {
			return gerr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
