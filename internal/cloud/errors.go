package cloud

import "errors"

var (
	// ErrOutsideRoot is returned for blob names that would resolve
	// outside the blob directory.
	ErrOutsideRoot = errors.New("blob name escapes storage root")

	// ErrBlobNotFound is returned when the requested blob does not exist.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrBlobExists is returned by Create when the path is already taken.
	ErrBlobExists = errors.New("blob already exists")

	// ErrBlobTooLarge is returned for uploads over the configured cap.
	ErrBlobTooLarge = errors.New("blob exceeds size limit")

	// ErrBadSuffix is returned for ancillary files without the expected
	// file extension.
	ErrBadSuffix = errors.New("unexpected file suffix")
)
