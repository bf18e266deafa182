package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	episodes map[string]store.Episode
	clauses  map[string][]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		episodes: make(map[string]store.Episode),
		clauses:  make(map[string][]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveEpisode inserts or updates an episode record.
func (s *Store) SaveEpisode(ctx context.Context, e store.Episode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.episodes[e.ID] = e
	return nil
}

// GetEpisode returns one episode by id.
func (s *Store) GetEpisode(ctx context.Context, id string) (store.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.episodes[id]; ok {
		return e, nil
	}
	return store.Episode{}, fmt.Errorf("episode %s: %w", id, internalerr.ErrNotFound)
}

// ListEpisodes returns up to limit episodes, newest first by id.
func (s *Store) ListEpisodes(ctx context.Context, limit int) ([]store.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Episode, 0, len(s.episodes))
	for _, e := range s.episodes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SaveClauses replaces an episode's clause log.
func (s *Store) SaveClauses(ctx context.Context, episodeID string, clauses []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clauses[episodeID] = append([]string(nil), clauses...)
	return nil
}

// GetClauses returns an episode's clause log in insertion order.
func (s *Store) GetClauses(ctx context.Context, episodeID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.clauses[episodeID]...), nil
}
