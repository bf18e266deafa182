package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/store"
)

func TestEpisodeRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	e := store.Episode{
		ID:        store.NewEpisodeID(),
		GridSize:  4,
		Seed:      42,
		Agent:     "hybrid",
		Outcome:   "escaped",
		Score:     983,
		Turns:     27,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.SaveEpisode(ctx, e); err != nil {
		t.Fatalf("SaveEpisode failed: %v", err)
	}

	got, err := s.GetEpisode(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEpisode failed: %v", err)
	}
	if got != e {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestGetMissingEpisode(t *testing.T) {
	s := New()
	_, err := s.GetEpisode(context.Background(), "nope")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListEpisodesNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id := store.NewEpisodeID()
		ids = append(ids, id)
		if err := s.SaveEpisode(ctx, store.Episode{ID: id, Agent: "random"}); err != nil {
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
	// ULIDs sort by creation order, so the last saved comes first
	if out[0].ID != ids[2] || out[1].ID != ids[1] {
		t.Errorf("Wrong order: got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestClauseLogOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := store.NewEpisodeID()

	clauses := []string{"!P(0,0)", "!W(0,0)", "!B(0,0)", "!P(1,0)"}
	if err := s.SaveClauses(ctx, id, clauses); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetClauses(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(clauses) {
		t.Fatalf("Expected %d clauses, got %d", len(clauses), len(got))
	}
	for i := range clauses {
		if got[i] != clauses[i] {
			t.Errorf("Clause %d: got %q, want %q", i, got[i], clauses[i])
		}
	}

	// the stored log is a copy, not an alias
	clauses[0] = "mutated"
	got, _ = s.GetClauses(ctx, id)
	if got[0] != "!P(0,0)" {
		t.Error("Stored clause log aliases the caller's slice")
	}
}
