// Package watchindex owns the per-directory watch document.
//
// A Store loads the JSON document kept inside a media directory, reconciles
// it against the files actually present, and writes it back through a
// temp-file rename. Document carries the watch state itself along with the
// operations the CLI and the playback controller apply to it: moving the
// current episode pointer, marking files watched or unwatched, finding the
// next unwatched file in sorted filename order, and summarizing progress.
//
// Errors are tagged with ErrDirectory, ErrCorruptIndex, or ErrNotFound so
// callers can classify them with errors.Is. A document that fails to parse is
// never reset automatically.
package watchindex
