package objectstore

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing object or bucket.
var ErrNotFound = errors.New("object not found")

// AccessError reports a request the store rejected for credential or
// permission reasons.
type AccessError struct {
	Code  string
	Cause error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("object store access denied (%s): %v", e.Code, e.Cause)
}

func (e *AccessError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err indicates a missing object or bucket.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied reports whether err indicates a credential or
// permission rejection.
func IsAccessDenied(err error) bool {
	var accessErr *AccessError
	return errors.As(err, &accessErr)
}
