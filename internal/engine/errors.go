package engine

import "errors"

var (
	// ErrNoExit means the room has no exit in the requested direction. The
	// move does not happen and no event is recorded.
	ErrNoExit = errors.New("no exit in that direction")

	ErrUnknownRoom   = errors.New("unknown room")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrNotPositioned = errors.New("entity has no position")
)
