package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the request never produced a usable response.
	ErrNetwork = errors.New("network failure")
	// ErrAuth covers 401/403; recovery (single refresh) belongs to the
	// session guard, not to this package.
	ErrAuth = errors.New("unauthorized")
	// ErrNotFound covers 404: the entity vanished server-side.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedMedia is raised client-side before any request when an
	// upload is not an image.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrBadShape means a response arrived but did not decode into the
	// expected shape.
	ErrBadShape = errors.New("unexpected response shape")
)

// ValidationError is a user-correctable rejection (4xx other than auth or
// not-found), carrying the server's message when one was provided.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validation failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("validation failed (%d)", e.Status)
}
