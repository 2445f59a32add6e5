package watchindex

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// timestampLayout is local time without zone, accurate to the second.
const timestampLayout = "2006-01-02T15:04:05"

// Timestamp is the watched_date value. It is written without a zone offset
// and accepts RFC 3339 input as well.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.Local().Format(timestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("watched_date: expected string, got %s", raw)
	}
	value := raw[1 : len(raw)-1]
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range []string{timestampLayout, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("watched_date: unrecognized timestamp %q", value)
}

// FileEntry is the watch state of one media file.
type FileEntry struct {
	Path        string     `json:"path"`
	Watched     bool       `json:"watched"`
	WatchedDate *Timestamp `json:"watched_date"`
}

// Document is the persisted watch state of one directory, keyed by filename.
// CurrentEpisode is nil when no episode is queued.
type Document struct {
	Files          map[string]FileEntry `json:"files"`
	CurrentEpisode *string              `json:"current_episode"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Files: make(map[string]FileEntry)}
}

// SortedNames returns every indexed filename in lexicographic order.
func (d *Document) SortedNames() []string {
	names := make([]string, 0, len(d.Files))
	for name := range d.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent points the current episode at name. The document is left
// unchanged when name is not indexed.
func (d *Document) SetCurrent(name string) error {
	if _, ok := d.Files[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	d.CurrentEpisode = &name
	return nil
}

// ClearCurrent removes the current episode pointer.
func (d *Document) ClearCurrent() {
	d.CurrentEpisode = nil
}

// Current resolves the current episode. ok is false when no episode is set;
// err wraps ErrNotFound when the pointer names a file missing from the index.
func (d *Document) Current() (string, FileEntry, bool, error) {
	if d.CurrentEpisode == nil {
		return "", FileEntry{}, false, nil
	}
	name := *d.CurrentEpisode
	entry, exists := d.Files[name]
	if !exists {
		return name, FileEntry{}, true, fmt.Errorf("%w: current episode %q is not in the index", ErrNotFound, name)
	}
	return name, entry, true, nil
}

// MarkWatched flags the named files (every file when names is empty) as
// watched at now. Nothing changes if any name is unknown.
func (d *Document) MarkWatched(now time.Time, names ...string) ([]string, error) {
	targets, err := d.resolve(names)
	if err != nil {
		return nil, err
	}
	stamp := now.Truncate(time.Second)
	for _, name := range targets {
		entry := d.Files[name]
		entry.Watched = true
		entry.WatchedDate = &Timestamp{Time: stamp}
		d.Files[name] = entry
	}
	return targets, nil
}

// MarkUnwatched clears the watched flag and date of the named files (every
// file when names is empty). Nothing changes if any name is unknown.
func (d *Document) MarkUnwatched(names ...string) ([]string, error) {
	targets, err := d.resolve(names)
	if err != nil {
		return nil, err
	}
	for _, name := range targets {
		entry := d.Files[name]
		entry.Watched = false
		entry.WatchedDate = nil
		d.Files[name] = entry
	}
	return targets, nil
}

func (d *Document) resolve(names []string) ([]string, error) {
	if len(names) == 0 {
		return d.SortedNames(), nil
	}
	var missing []string
	for _, name := range names {
		if _, ok := d.Files[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(missing, ", "))
	}
	return names, nil
}

// Successor returns the first unwatched file sorted strictly after name.
// name does not have to be indexed itself.
func (d *Document) Successor(name string) (string, bool) {
	for _, candidate := range d.SortedNames() {
		if candidate <= name {
			continue
		}
		if !d.Files[candidate].Watched {
			return candidate, true
		}
	}
	return "", false
}

// FirstUnwatched returns the first unwatched file in sorted order.
func (d *Document) FirstUnwatched() (string, bool) {
	for _, name := range d.SortedNames() {
		if !d.Files[name].Watched {
			return name, true
		}
	}
	return "", false
}

// Stats summarizes watch progress.
type Stats struct {
	Watched   []string `json:"watched"`
	Unwatched []string `json:"unwatched"`
	Total     int      `json:"total"`
	Percent   int      `json:"percent"`
	Current   *string  `json:"current_episode"`
}

// Stats partitions the index into watched and unwatched names, both sorted.
// Percent is rounded down.
func (d *Document) Stats() Stats {
	stats := Stats{
		Watched:   []string{},
		Unwatched: []string{},
		Total:     len(d.Files),
		Current:   d.CurrentEpisode,
	}
	for _, name := range d.SortedNames() {
		if d.Files[name].Watched {
			stats.Watched = append(stats.Watched, name)
		} else {
			stats.Unwatched = append(stats.Unwatched, name)
		}
	}
	if stats.Total > 0 {
		stats.Percent = len(stats.Watched) * 100 / stats.Total
	}
	return stats
}
