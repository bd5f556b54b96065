package uploadbox

import "errors"

var (
	// ErrReadonly is returned when removing a readonly server file.
	ErrReadonly = errors.New("uploadbox: file is readonly")

	// ErrFileNotFound is returned when a server file id is unknown.
	ErrFileNotFound = errors.New("uploadbox: file not found")

	// ErrIndexOutOfRange is returned for an invalid attachment index.
	ErrIndexOutOfRange = errors.New("uploadbox: index out of range")
)
