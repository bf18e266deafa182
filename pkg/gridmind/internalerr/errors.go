package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrInconsistent means the knowledge base entails both a literal and its
	// negation. This is a modeling defect upstream and aborts the episode.
	ErrInconsistent = errors.New("inconsistent knowledge base")

	// ErrNoPath is returned when no route exists through the permitted cells.
	// It is a normal planning outcome, not a failure.
	ErrNoPath = errors.New("no path to goal")

	// ErrMalformedPercept means a caller reported a percept for an
	// out-of-grid coordinate.
	ErrMalformedPercept = errors.New("malformed percept")

	// ErrEpisodeOver means an action was applied after the agent died or
	// climbed out.
	ErrEpisodeOver = errors.New("episode already over")

	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)
