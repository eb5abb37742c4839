// Package store manages the recap store file: a JSON object mapping
// category name to an ordered list of pre-rendered entry fragments. The
// whole file is read, modified and written back on every mutation; a mutex
// serializes mutations so concurrent webhook handlers cannot tear the file.
// The window between the reporter reading the store and resetting it after
// a successful dispatch is deliberately not covered, see DESIGN.md.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bangpateng/recap-bot/internal/htmlutils"
)

// Entries is the persisted shape: category name to rendered entry list.
type Entries map[string][]string

// HasContent reports whether any category holds at least one entry.
func (e Entries) HasContent() bool {
	for _, items := range e {
		if len(items) > 0 {
			return true
		}
	}

	return false
}

// NamesFunc supplies the currently configured category names.
type NamesFunc func() []string

// Store is the file-backed recap store manager.
type Store struct {
	path   string
	names  NamesFunc
	logger *zerolog.Logger

	mu sync.Mutex
}

func New(path string, names NamesFunc, logger *zerolog.Logger) *Store {
	return &Store{
		path:   path,
		names:  names,
		logger: logger,
	}
}

// Initialize ensures the store file exists and holds at least an empty list
// for every configured category. A missing file is created empty, a corrupt
// file is overwritten empty, and a valid file only gains newly configured
// categories (additive merge). Safe to call repeatedly.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if err := s.write(s.empty()); err != nil {
			return err
		}

		s.logger.Info().Str("path", s.path).Msg("store file created empty")

		return nil
	}

	entries := Entries{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("store file corrupt, rewriting empty")

		return s.write(s.empty())
	}

	added := false

	for _, name := range s.names() {
		if _, ok := entries[name]; !ok {
			entries[name] = []string{}
			added = true
		}
	}

	if !added {
		return nil
	}

	s.logger.Info().Str("path", s.path).Msg("store file updated with new categories")

	return s.write(entries)
}

// Reset overwrites the store with an empty list per configured category.
// Failures are logged, never returned.
func (s *Store) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(s.empty()); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("store reset failed")

		return false
	}

	s.logger.Info().Str("path", s.path).Msg("store reset to empty structure")

	return true
}

// Verify parse-checks the store file. The caller re-initializes on failure.
func (s *Store) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	entries := Entries{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse store: %w", err)
	}

	return nil
}

// Load reads the current store contents.
func (s *Store) Load() (Entries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Mutate loads the store, applies fn and writes the result back when fn
// reports a change. A corrupt store is replaced by a fresh empty structure
// before fn runs, mirroring Initialize.
func (s *Store) Mutate(fn func(Entries) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("store unreadable, starting from empty structure")

		entries = s.empty()
		if err := s.write(entries); err != nil {
			return err
		}
	}

	if !fn(entries) {
		return nil
	}

	return s.write(entries)
}

// Deduplicate drops repeated entries per category, keyed by each entry's
// href target. The first occurrence wins; entries without an extractable
// link are always kept. Returns whether anything was removed.
func (s *Store) Deduplicate() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return false, err
	}

	cleaned := false

	for name, items := range entries {
		unique := dedupeByHref(items)
		if len(unique) != len(items) {
			s.logger.Info().
				Str("category", name).
				Int("before", len(items)).
				Int("after", len(unique)).
				Msg("duplicates removed")

			entries[name] = unique
			cleaned = true
		}
	}

	if !cleaned {
		return false, nil
	}

	return true, s.write(entries)
}

func dedupeByHref(items []string) []string {
	unique := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		href := htmlutils.ExtractHref(item)
		if href == "" {
			unique = append(unique, item)
			continue
		}

		if _, ok := seen[href]; ok {
			continue
		}

		seen[href] = struct{}{}

		unique = append(unique, item)
	}

	return unique
}

func (s *Store) empty() Entries {
	entries := Entries{}
	for _, name := range s.names() {
		entries[name] = []string{}
	}

	return entries
}

func (s *Store) load() (Entries, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	entries := Entries{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}

	return entries, nil
}

func (s *Store) write(entries Entries) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}

	return nil
}
