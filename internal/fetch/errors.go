package fetch

import "errors"

// Fetch errors.
var (
	// ErrBadStatus is returned when a fetch receives a non-2xx response.
	ErrBadStatus = errors.New("fetch failed: non-success HTTP status")

	// ErrBodyTooLarge is returned when a response body exceeds the
	// configured size limit.
	ErrBodyTooLarge = errors.New("fetch failed: response body exceeds size limit")

	// ErrNotImage is returned when the avatar response does not carry
	// an image content type.
	ErrNotImage = errors.New("fetch failed: avatar response is not an image")
)
