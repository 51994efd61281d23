package archive

import "errors"

var (
	// ErrChecksumMismatch is returned when a stored envelope does not match its checksum.
	ErrChecksumMismatch = errors.New("archive: checksum mismatch")

	// ErrCorruptFrame is returned when a stored blob is not a valid archive frame.
	ErrCorruptFrame = errors.New("archive: corrupt frame")

	// ErrInvalidID is returned for ids that cannot be mapped to a blob name.
	ErrInvalidID = errors.New("archive: invalid id")

	// ErrNoIndex is returned by Latest when the archive has no index.
	ErrNoIndex = errors.New("archive: no index configured")

	// ErrConcurrentModification is returned by an Index when another writer
	// committed the same version first.
	ErrConcurrentModification = errors.New("archive: concurrent modification detected")
)
