package reward

import (
	"log"
	"os"
	"time"
)

// Store owns the active weights table and its hot-reload policy: an
// mtime-gated re-read performed inline at the start of each engine call.
// A reload never partially applies; on any read or parse failure the
// previous table stays active.
type Store struct {
	path   string
	logger *log.Logger

	weights Weights
	digest  string
	mtime   time.Time
}

// NewStore loads path, falling back to the built-in defaults when the file
// is missing or malformed. An empty path disables reloading entirely.
func NewStore(path string, logger *log.Logger) *Store {
	s := &Store{path: path, logger: logger, weights: DefaultWeights()}
	if path == "" {
		return s
	}
	w, digest, err := LoadWeights(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Printf("weights: load %s: %v (using defaults)", path, err)
		}
		return s
	}
	s.weights = w
	s.digest = digest
	if fi, err := os.Stat(path); err == nil {
		s.mtime = fi.ModTime()
	}
	return s
}

// Current returns the active table. The returned value is a copy; callers
// hold it for at most one step.
func (s *Store) Current() Weights { return s.weights }

// Digest returns the sha256 of the active document, or "" for defaults.
func (s *Store) Digest() string { return s.digest }

// ReloadIfStale re-reads the document when its mtime moved forward.
// Returns true when a new table was applied.
func (s *Store) ReloadIfStale() bool {
	if s.path == "" {
		return false
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	if !fi.ModTime().After(s.mtime) {
		return false
	}
	w, digest, err := LoadWeights(s.path)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("weights: reload %s: %v (keeping previous)", s.path, err)
		}
		// Advance the watermark so a broken file is not re-parsed
		// every step until it changes again.
		s.mtime = fi.ModTime()
		return false
	}
	s.weights = w
	s.digest = digest
	s.mtime = fi.ModTime()
	if s.logger != nil {
		s.logger.Printf("weights: reloaded %s", s.path)
	}
	return true
}
