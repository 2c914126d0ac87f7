package extract

import "errors"

// Extraction errors. All of them are fatal: the payload schema is
// externally controlled and unversioned, so there is no sensible
// fallback when it does not look like we expect.
var (
	// ErrPayloadNotFound is returned when the document contains no
	// <script id="__NEXT_DATA__"> tag. This usually means the input is
	// not a Linktree profile page, or the page was saved after heavy
	// DOM rewriting.
	ErrPayloadNotFound = errors.New("payload script not found: no <script id=\"__NEXT_DATA__\"> tag in document")

	// ErrMalformedPayload is returned when the payload script body is
	// not valid JSON.
	ErrMalformedPayload = errors.New("malformed payload: script body is not valid JSON")

	// ErrUnexpectedSchema is returned when the fixed key path into the
	// payload is missing. Wrapped errors name the missing key.
	ErrUnexpectedSchema = errors.New("unexpected payload schema")
)
