package domain

import "errors"

var (
	// ErrNotFound is returned when a lookup targets a day with no cached
	// entry (or an unreadable one).
	ErrNotFound = errors.New("archive: entry not found")

	// ErrBadDate is returned when the remote service reports a start date
	// that does not match the compact yyyyMMdd pattern.
	ErrBadDate = errors.New("archive: malformed date")

	// ErrBadMetadata is returned when a metadata response body cannot be
	// parsed or lacks the fields a fetch needs.
	ErrBadMetadata = errors.New("archive: malformed metadata")

	// ErrRemote is returned for network failures: timeouts, connection
	// errors and non-success HTTP statuses.
	ErrRemote = errors.New("remote: request failed")
)
