package transcribe

import "errors"

// Sentinel errors returned by transcription sessions.
var (
	// ErrClosed is returned when writing to or reading from a session that
	// has already been committed or cleaned up.
	ErrClosed = errors.New("transcription session is closed")

	// ErrNotRegular is returned by Begin when the target is not a regular file.
	ErrNotRegular = errors.New("not a regular file")

	// ErrStartMarkerNotFound is returned in strict mode when the file has no
	// start-marker line.
	ErrStartMarkerNotFound = errors.New("start marker not found")

	// ErrEndMarkerNotFound is returned in strict mode when no end-marker line
	// follows the start marker.
	ErrEndMarkerNotFound = errors.New("end marker not found")

	// ErrInvalidMarkers is returned when a start or end marker is blank.
	ErrInvalidMarkers = errors.New("markers must not be blank")
)
