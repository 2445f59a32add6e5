package watchindex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"whatswatched/internal/config"
	"whatswatched/internal/logging"
)

// Options configures a Store.
type Options struct {
	// IndexFilename is the document name inside each tracked directory.
	IndexFilename string
	// Extensions lists the media suffixes picked up by Reconcile, compared
	// case-insensitively.
	Extensions []string
	// PruneMissing drops entries whose file disappeared from the directory.
	PruneMissing bool
	Logger       *slog.Logger
}

// Store reads, reconciles, and writes per-directory watch documents.
type Store struct {
	filename   string
	extensions map[string]struct{}
	prune      bool
	logger     *slog.Logger
}

// NewStore builds a Store from explicit options.
func NewStore(opts Options) *Store {
	filename := strings.TrimSpace(opts.IndexFilename)
	if filename == "" {
		filename = config.Default().Index.Filename
	}
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Store{
		filename:   filename,
		extensions: exts,
		prune:      opts.PruneMissing,
		logger:     logging.NewComponentLogger(opts.Logger, "watchindex"),
	}
}

// NewStoreFromConfig builds a Store from the [index] config section.
func NewStoreFromConfig(cfg *config.Config, logger *slog.Logger) *Store {
	return NewStore(Options{
		IndexFilename: cfg.Index.Filename,
		Extensions:    cfg.Index.Extensions,
		PruneMissing:  cfg.Index.PruneMissing,
		Logger:        logger,
	})
}

// IndexPath returns the watch document location for dir.
func (s *Store) IndexPath(dir string) string {
	return filepath.Join(dir, s.filename)
}

// Load reads the watch document of dir. A missing or empty document yields an
// empty Document. A document that cannot be decoded fails with ErrCorruptIndex
// and is never reset.
func (s *Store) Load(dir string) (*Document, error) {
	if err := checkDirectory(dir); err != nil {
		return nil, err
	}

	path := s.IndexPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no watch index yet", logging.String("path", path))
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrDirectory, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.Debug("watch index is empty", logging.String("path", path))
		return NewDocument(), nil
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptIndex, path, err)
	}

	s.logger.Debug("loaded watch index",
		logging.String("path", path),
		logging.Int("file_count", len(doc.Files)))
	return doc, nil
}

func decodeDocument(data []byte) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("trailing data after document")
	}
	if doc.Files == nil {
		doc.Files = make(map[string]FileEntry)
	}
	return &doc, nil
}

// ReconcileResult lists the changes Reconcile applied.
type ReconcileResult struct {
	Added     []string
	Removed   []string
	Relocated []string
}

// Changed reports whether the document differs from before reconciliation.
func (r ReconcileResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Relocated) > 0
}

// Reconcile brings doc in line with the media files currently in dir. The
// scan is not recursive. New files are added unwatched; entries whose path
// no longer matches dir are repointed; entries missing from disk are pruned
// only when PruneMissing is set. CurrentEpisode is never modified.
func (s *Store) Reconcile(dir string, doc *Document) (ReconcileResult, error) {
	var result ReconcileResult

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return result, fmt.Errorf("%w: resolve %s: %w", ErrDirectory, dir, err)
	}
	names, err := s.scan(absDir)
	if err != nil {
		return result, err
	}
	if doc.Files == nil {
		doc.Files = make(map[string]FileEntry)
	}

	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
		path := filepath.Join(absDir, name)
		entry, exists := doc.Files[name]
		if !exists {
			doc.Files[name] = FileEntry{Path: path}
			result.Added = append(result.Added, name)
			continue
		}
		if entry.Path != path {
			entry.Path = path
			doc.Files[name] = entry
			result.Relocated = append(result.Relocated, name)
		}
	}

	if s.prune {
		for _, name := range doc.SortedNames() {
			if _, ok := present[name]; ok {
				continue
			}
			delete(doc.Files, name)
			result.Removed = append(result.Removed, name)
		}
	}

	if result.Changed() {
		s.logger.Info("reconciled watch index",
			logging.String(logging.FieldDirectory, absDir),
			logging.Int("added", len(result.Added)),
			logging.Int("removed", len(result.Removed)),
			logging.Int("relocated", len(result.Relocated)))
	}
	if name, _, ok, err := doc.Current(); ok && err != nil {
		logging.WarnWithContext(s.logger, "current episode is not indexed", "current_episode_dangling",
			logging.String(logging.FieldEpisode, name),
			logging.String(logging.FieldErrorHint, "set a new one with --current or clear it with --null-current"),
			logging.String(logging.FieldImpact, "playback cannot resume from the current episode"))
	}
	return result, nil
}

// scan lists the media files of dir in sorted order.
func (s *Store) scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDirectory, dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == s.filename || !s.matches(name) {
			continue
		}
		if entry.IsDir() {
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := s.extensions[ext]
	return ok
}

// Save writes doc to dir through a temporary file that is synced and renamed
// over the previous document, so an interrupted write leaves the old one.
func (s *Store) Save(dir string, doc *Document) error {
	if doc.Files == nil {
		doc.Files = make(map[string]FileEntry)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal watch index: %w", err)
	}
	data = append(data, '\n')

	path := s.IndexPath(dir)
	tmp, err := os.CreateTemp(dir, s.filename+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrDirectory, dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("saved watch index",
		logging.String("path", path),
		logging.Int("file_count", len(doc.Files)))
	return nil
}

// Open loads and reconciles the document of dir. Nothing is written; the
// reconciled entries reach disk with the next Save.
func (s *Store) Open(dir string) (*Document, ReconcileResult, error) {
	doc, err := s.Load(dir)
	if err != nil {
		return nil, ReconcileResult{}, err
	}
	result, err := s.Reconcile(dir, doc)
	if err != nil {
		return nil, result, err
	}
	return doc, result, nil
}

func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDirectory, dir)
	}
	return nil
}
