package stream

import "errors"

var (
	// ErrMissingTarget marks output dropped because the track's node is not
	// in the scene graph.
	ErrMissingTarget = errors.New("missing target")

	// ErrMalformedTrack marks a track that could not be evaluated.
	ErrMalformedTrack = errors.New("malformed track")
)
