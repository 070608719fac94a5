// Package cache implements the JSON artifact store every collector and
// engine writes its output to: atomic writes, staleness checks, and a
// directory listing, all scoped to one base directory.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is a directory-backed JSON artifact cache.
type Store struct {
	baseDir string
	log     zerolog.Logger
}

// New returns a Store rooted at baseDir, creating it if necessary.
func New(baseDir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Store{
		baseDir: baseDir,
		log:     log.With().Str("component", "cache.Store").Logger(),
	}, nil
}

// resolvePath rejects any name that is not a plain basename, so a
// caller-supplied artifact name can never escape the cache directory.
func (s *Store) resolvePath(name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("cache: invalid artifact name %q", name)
	}
	return filepath.Join(s.baseDir, name), nil
}

// Write serializes v as JSON and atomically replaces the named artifact:
// it writes to a temp file in the same directory, then renames over the
// target so a reader never observes a partial file.
func (s *Store) Write(name string, v interface{}) error {
	path, err := s.resolvePath(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", name, err)
	}

	tempPath := filepath.Join(s.baseDir, fmt.Sprintf(".%s.tmp-%s", name, uuid.NewString()))
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("cache: write temp file for %s: %w", name, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("cache: rename temp file for %s: %w", name, err)
	}

	return nil
}

// Read loads the named artifact into v. Any failure -- missing file,
// malformed JSON, anything -- is logged and swallowed: callers treat a
// failed read as "no cached data" rather than a fatal error.
func (s *Store) Read(name string, v interface{}) {
	path, err := s.resolvePath(name)
	if err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("rejected artifact name")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Debug().Err(err).Str("name", name).Msg("cache read miss")
		return
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("cache read malformed")
	}
}

// Path returns the filesystem path the named artifact resolves to, for
// callers that need raw file access the Store API doesn't cover (e.g.
// append-only logs). Returns "" for an invalid name.
func (s *Store) Path(name string) string {
	path, err := s.resolvePath(name)
	if err != nil {
		return ""
	}
	return path
}

// Exists reports whether the named artifact is present.
func (s *Store) Exists(name string) bool {
	path, err := s.resolvePath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Mtime returns the artifact's last-modified time, or the zero time if
// it does not exist or the name is invalid.
func (s *Store) Mtime(name string) time.Time {
	path, err := s.resolvePath(name)
	if err != nil {
		return time.Time{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// AgeSeconds returns how long ago the artifact was written. A missing
// artifact reports an effectively infinite age.
func (s *Store) AgeSeconds(name string) float64 {
	mtime := s.Mtime(name)
	if mtime.IsZero() {
		return float64(1 << 30)
	}
	return time.Since(mtime).Seconds()
}

// IsStale reports whether the artifact is older than maxAge, or absent.
func (s *Store) IsStale(name string, maxAge time.Duration) bool {
	mtime := s.Mtime(name)
	if mtime.IsZero() {
		return true
	}
	return time.Since(mtime) > maxAge
}

// List returns the basenames of every non-temp artifact in the cache.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("cache: list: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Delete removes the named artifact. Deleting a missing artifact is not
// an error.
func (s *Store) Delete(name string) error {
	path, err := s.resolvePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: delete %s: %w", name, err)
	}
	return nil
}
