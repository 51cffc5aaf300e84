package artifact

import "errors"

var (
	// ErrNotFound is returned when an artifact ID has no corresponding blob.
	ErrNotFound = errors.New("artifact not found")
	// ErrTooLarge is returned when Save's payload exceeds MaxArtifactSize.
	ErrTooLarge = errors.New("artifact exceeds maximum allowed size")
	// ErrStoreFull is returned when Save would exceed MaxArtifactCount.
	ErrStoreFull = errors.New("artifact store has reached its maximum capacity")
)
