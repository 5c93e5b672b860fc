// Package jukeerr defines the typed error kinds shared across the jukebox
// engine (spec §7), following the package-level sentinel-error pattern of
// the teacher's auth package: plain errors.New values checked
// with errors.Is, wrapped with fmt.Errorf("%w") when context needs to be
// attached.
package jukeerr

import "errors"

var (
	// ErrTransport marks an I/O failure talking to the daemon (connect,
	// read, write, or a socket that the library reports as dead).
	ErrTransport = errors.New("daemon transport error")

	// ErrNotFound marks a stored playlist or tag that does not exist on the
	// daemon. Not fatal when encountered while computing a tag filter's
	// allowed set (spec §4.3): it is treated as an empty contribution.
	ErrNotFound = errors.New("not found")

	// ErrMalformed marks a request body that failed to parse as JSON or
	// otherwise violates the expected shape.
	ErrMalformed = errors.New("malformed request")

	// ErrExhausted marks a connection pool that could not produce a client
	// within the caller's wait budget.
	ErrExhausted = errors.New("connection pool exhausted")

	// ErrInvariant marks a state the code believes is unreachable. Seeing
	// this surfaced anywhere is itself a bug report.
	ErrInvariant = errors.New("invariant violated")
)

// Kind classifies an error against the sentinels above, returning a short
// label safe to embed in a JSON response. Unrecognized errors classify as
// "transport" since nearly everything this package surfaces originates from
// daemon I/O.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrExhausted):
		return "exhausted"
	case errors.Is(err, ErrInvariant):
		return "invariant"
	default:
		return "transport"
	}
}
