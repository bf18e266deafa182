// Package store persists finished episodes and their knowledge-base clause
// logs. A clause log is the ordered list of clause strings the KB accumulated
// during an episode; replaying it through kb.Replay reconstructs the exact
// knowledge state for post-mortem analysis.
package store

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the interface for persisting episode records
type Store interface {
	Close() error

	// Episodes
	SaveEpisode(ctx context.Context, e Episode) error
	GetEpisode(ctx context.Context, id string) (Episode, error)
	ListEpisodes(ctx context.Context, limit int) ([]Episode, error)

	// Clause logs, keyed by episode and kept in insertion order
	SaveClauses(ctx context.Context, episodeID string, clauses []string) error
	GetClauses(ctx context.Context, episodeID string) ([]string, error)
}

// Episode is one finished simulation run
type Episode struct {
	ID        string
	GridSize  int
	Seed      int64
	Agent     string
	Outcome   string
	Score     int
	Turns     int
	CreatedAt time.Time
}

var entropy = ulid.Monotonic(rand.Reader, 0)

// NewEpisodeID returns a fresh sortable episode identifier
func NewEpisodeID() string {
	return ulid.MustNew(ulid.Now(), entropy).String()
}
