package domain

import "errors"

// Failure classes shared by the client and the stores. Callers wrap them with
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	// ErrNetwork covers transport failures and non-2xx responses
	ErrNetwork = errors.New("network failure")

	// ErrValidation is returned before any request when input is incomplete
	ErrValidation = errors.New("validation failure")

	// ErrNotFound is returned when a stale id is used against the service
	ErrNotFound = errors.New("not found")

	// ErrDecode marks a malformed outfit attachment
	ErrDecode = errors.New("decode failure")
)

// IsNetwork returns true if err is a transport or server failure
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsNotFound returns true if err reports a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if err is a client-side validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
