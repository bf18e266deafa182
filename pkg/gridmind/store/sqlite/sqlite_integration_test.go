package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/kb"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
	"github.com/cognicore/gridmind/pkg/gridmind/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episodes.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEpisodeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := store.Episode{
		ID:        store.NewEpisodeID(),
		GridSize:  4,
		Seed:      7,
		Agent:     "hybrid",
		Outcome:   "escaped",
		Score:     972,
		Turns:     38,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.SaveEpisode(ctx, e); err != nil {
		t.Fatalf("SaveEpisode failed: %v", err)
	}

	got, err := s.GetEpisode(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEpisode failed: %v", err)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, e.CreatedAt)
	}
	got.CreatedAt, e.CreatedAt = time.Time{}, time.Time{}
	if got != e {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestSaveEpisodeUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := store.Episode{ID: store.NewEpisodeID(), Agent: "random", Outcome: "dead", Score: -1012, CreatedAt: time.Now().UTC()}
	if err := s.SaveEpisode(ctx, e); err != nil {
		t.Fatal(err)
	}

	e.Outcome = "escaped"
	e.Score = 950
	if err := s.SaveEpisode(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEpisode(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != "escaped" || got.Score != 950 {
		t.Errorf("Upsert did not replace fields: %+v", got)
	}

	list, err := s.ListEpisodes(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("Expected a single episode after upsert, got %d", len(list))
	}
}

func TestGetMissingEpisode(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetEpisode(context.Background(), "nope")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListEpisodesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id := store.NewEpisodeID()
		ids = append(ids, id)
		if err := s.SaveEpisode(ctx, store.Episode{ID: id, Agent: "hybrid", CreatedAt: time.Now().UTC()}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := s.ListEpisodes(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 episodes, got %d", len(out))
	}
	if out[0].ID != ids[2] || out[1].ID != ids[1] {
		t.Errorf("Wrong order: got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestClauseLogReplaysIntoKB(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// build a small KB the way an episode would, then persist its log
	k, err := kb.New(3)
	if err != nil {
		t.Fatal(err)
	}
	start := logic.Coord{X: 0, Y: 0}
	if err := k.MarkVisited(start); err != nil {
		t.Fatal(err)
	}
	if err := k.Tell(kb.Percept{Breeze: true}, start); err != nil {
		t.Fatal(err)
	}

	var log []string
	for _, c := range k.Clauses() {
		log = append(log, c.String())
	}

	id := store.NewEpisodeID()
	if err := s.SaveEpisode(ctx, store.Episode{ID: id, GridSize: 3, Agent: "hybrid", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveClauses(ctx, id, log); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetClauses(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	replayed, err := kb.Replay(3, got)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if replayed.Len() != k.Len() {
		t.Errorf("Replayed KB has %d clauses, want %d", replayed.Len(), k.Len())
	}
	for i, c := range replayed.Clauses() {
		if c.String() != log[i] {
			t.Errorf("Clause %d: got %q, want %q", i, c.String(), log[i])
		}
	}
}

func TestSaveClausesReplacesLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := store.NewEpisodeID()

	if err := s.SaveEpisode(ctx, store.Episode{ID: id, Agent: "hybrid", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveClauses(ctx, id, []string{"!P(0,0)", "!W(0,0)"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveClauses(ctx, id, []string{"!P(0,0)"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetClauses(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "!P(0,0)" {
		t.Errorf("Expected replaced log, got %v", got)
	}
}
