package watchindex

import "errors"

var (
	// ErrDirectory marks a tracked directory that is missing or unreadable.
	ErrDirectory = errors.New("directory error")
	// ErrCorruptIndex marks a watch document that exists but cannot be parsed.
	ErrCorruptIndex = errors.New("corrupt index")
	// ErrNotFound marks a filename that is not present in the index.
	ErrNotFound = errors.New("not found in index")
)
