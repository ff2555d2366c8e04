// Package history is the capacity-bounded PGN store. Games live in one JSON
// document keyed by GameKey; player name preferences live in another.
package history

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"chesslog/internal/core"
)

const (
	// PgnDumpKey and SettingsKey are the backend keys of the two documents
	PgnDumpKey  = "ChessJsPgnDump"
	SettingsKey = "ChessJsPgnSettings"

	// MaxPgnHistory is the default number of games kept
	MaxPgnHistory = 20
)

// Backend is the synchronous key-value persistence primitive
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store persists PGN dumps with creation-order eviction
type Store struct {
	mu       sync.Mutex
	backend  Backend
	maxGames int
	log      *zap.Logger
	cache    map[core.GameKey]string
}

// New creates a store over backend; maxGames <= 0 selects MaxPgnHistory
func New(backend Backend, maxGames int, log *zap.Logger) *Store {
	if maxGames <= 0 {
		maxGames = MaxPgnHistory
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend:  backend,
		maxGames: maxGames,
		log:      log.Named("history"),
	}
}

// MaxGames returns the capacity
func (s *Store) MaxGames() int {
	return s.maxGames
}

// load returns the cached mapping, re-reading the backend whenever the cache
// is empty. Caller holds mu.
func (s *Store) load() (map[core.GameKey]string, error) {
	if len(s.cache) > 0 {
		return s.cache, nil
	}

	raw, ok, err := s.backend.Get(PgnDumpKey)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	history := make(map[core.GameKey]string)
	if ok && raw != "" {
		var stored map[string]string
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		for k, dump := range stored {
			key, err := core.ParseGameKey(k)
			if err != nil || key == core.NoGameKey {
				s.log.Warn("skipping malformed history key", zap.String("key", k))
				continue
			}
			history[key] = dump
		}
	}

	s.cache = history
	return history, nil
}

// persist writes the mapping in one backend call and drops the cache so the
// next read observes the stored document. Caller holds mu.
func (s *Store) persist(history map[core.GameKey]string) error {
	stored := make(map[string]string, len(history))
	for k, dump := range history {
		stored[k.String()] = dump
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	s.cache = nil
	if err := s.backend.Set(PgnDumpKey, string(data)); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// ReadAll returns a copy of every stored game. Never nil.
func (s *Store) ReadAll() (map[core.GameKey]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return nil, err
	}
	return maps.Clone(history), nil
}

// Keys returns stored keys, newest first
func (s *Store) Keys() ([]core.GameKey, error) {
	history, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	keys := slices.Collect(maps.Keys(history))
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys, nil
}

// Lookup returns the dump under key
func (s *Store) Lookup(key core.GameKey) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return "", false, err
	}
	dump, ok := history[key]
	return dump, ok, nil
}

// Len returns the number of stored games
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(history), nil
}

// HavePgnDumps reports whether any game is stored
func (s *Store) HavePgnDumps() (bool, error) {
	n, err := s.Len()
	return n > 0, err
}

// Write stores dump under key and returns the resulting count. Identical
// content is not rewritten. Exceeding capacity evicts the smallest keys.
func (s *Store) Write(key core.GameKey, dump string) (int, error) {
	if key == core.NoGameKey {
		return 0, core.ErrNoGameKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return 0, err
	}
	if existing, ok := current[key]; ok && existing == dump {
		return len(current), nil
	}

	history := maps.Clone(current)
	history[key] = dump
	for len(history) > s.maxGames {
		oldest, ok := oldestKey(history)
		if !ok {
			s.log.DPanic("no oldest key in over-capacity history", zap.Int("size", len(history)))
			return 0, fmt.Errorf("%w: no oldest key to evict", core.ErrInvariant)
		}
		delete(history, oldest)
		s.log.Info("evicted oldest game", zap.Stringer("key", oldest))
	}

	if err := s.persist(history); err != nil {
		return 0, err
	}
	return len(history), nil
}

// oldestKey finds the smallest key
func oldestKey(history map[core.GameKey]string) (core.GameKey, bool) {
	oldest, found := core.NoGameKey, false
	for k := range history {
		if !found || k < oldest {
			oldest, found = k, true
		}
	}
	return oldest, found
}

// Delete removes key and returns the new count; ok is false when key was absent
func (s *Store) Delete(key core.GameKey) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return 0, false, err
	}
	if _, ok := current[key]; !ok {
		return len(current), false, nil
	}

	history := maps.Clone(current)
	delete(history, key)
	if err := s.persist(history); err != nil {
		return 0, false, err
	}
	return len(history), true, nil
}

// DeleteAll clears the history and returns how many games were removed
func (s *Store) DeleteAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return 0, err
	}
	count := len(current)
	if err := s.persist(map[core.GameKey]string{}); err != nil {
		return 0, err
	}
	return count, nil
}
