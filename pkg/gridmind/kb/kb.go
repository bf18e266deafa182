// Package kb holds the agent's knowledge base: an append-only set of CNF
// clauses plus the percept history per cell. The KB is monotonic — clauses
// are deduplicated but never deleted or rewritten, so anything proved from
// it stays provable. Retraction (a scream) is modeled by adding a new unit
// clause, never by removing old ones.
package kb

import (
	"fmt"
	"sort"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

// Percept is the bundle of sensory flags available at a cell on one turn.
type Percept struct {
	Breeze  bool
	Stench  bool
	Glitter bool
	Bump    bool
	Scream  bool
}

// Oracle answers entailment queries against the KB. The inference engine
// attaches itself here; the KB holds no inference logic of its own.
type Oracle func(logic.Literal) (logic.Tristate, error)

// KB is the clause store for one episode.
type KB struct {
	size     int
	clauses  []logic.Clause
	index    map[string]struct{}
	percepts map[logic.Coord][]Percept
	visited  map[logic.Coord]bool
	gen      uint64
	oracle   Oracle
}

// New creates a KB for an n×n grid and seeds the physics axioms for every
// cell (see axioms.go).
func New(size int) (*KB, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: grid size %d", internalerr.ErrInvalidConfig, size)
	}
	k := &KB{
		size:     size,
		index:    make(map[string]struct{}),
		percepts: make(map[logic.Coord][]Percept),
		visited:  make(map[logic.Coord]bool),
	}
	k.seedAxioms()
	return k, nil
}

// Replay reconstructs a KB from a serialized clause list in its original
// insertion order. No axioms are re-seeded; a serialized KB already
// contains them.
func Replay(size int, clauses []string) (*KB, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: grid size %d", internalerr.ErrInvalidConfig, size)
	}
	k := &KB{
		size:     size,
		index:    make(map[string]struct{}),
		percepts: make(map[logic.Coord][]Percept),
		visited:  make(map[logic.Coord]bool),
	}
	for _, s := range clauses {
		c, err := logic.ParseClause(s)
		if err != nil {
			return nil, fmt.Errorf("replay clause %q: %w", s, err)
		}
		k.Add(c)
	}
	return k, nil
}

// Size returns the grid dimension.
func (k *KB) Size() int { return k.size }

// Generation increments whenever a new clause lands. Derived caches key
// off it.
func (k *KB) Generation() uint64 { return k.gen }

// Add appends a clause unless it is empty, tautological, or already known.
// It reports whether the KB grew.
func (k *KB) Add(c logic.Clause) bool {
	if c.Empty() || c.IsTautology() {
		return false
	}
	key := c.Key()
	if _, ok := k.index[key]; ok {
		return false
	}
	k.index[key] = struct{}{}
	k.clauses = append(k.clauses, c)
	k.gen++
	return true
}

// Tell records a percept at a cell and appends the corresponding unit
// clauses. Bump and scream carry no positional content by themselves and are
// recorded in the history only; scream retraction happens via RetractWumpus
// with the targeted cell.
func (k *KB) Tell(p Percept, at logic.Coord) error {
	if !at.In(k.size) {
		return fmt.Errorf("%w: coordinate %v outside %d×%d grid", internalerr.ErrMalformedPercept, at, k.size, k.size)
	}
	k.percepts[at] = append(k.percepts[at], p)

	breeze := logic.BreezeAt(at)
	if !p.Breeze {
		breeze = breeze.Not()
	}
	k.Add(logic.Unit(breeze))

	stench := logic.StenchAt(at)
	if !p.Stench {
		stench = stench.Not()
	}
	k.Add(logic.Unit(stench))

	glitter := logic.GlitterAt(at)
	if !p.Glitter {
		glitter = glitter.Not()
	}
	k.Add(logic.Unit(glitter))

	return nil
}

// MarkVisited records that the agent stood on a cell and survived. Survival
// proves there is no pit and no live wumpus there — the latter is the
// disjunction "no wumpus was placed here, or the one here is dead".
func (k *KB) MarkVisited(at logic.Coord) error {
	if !at.In(k.size) {
		return fmt.Errorf("%w: coordinate %v outside %d×%d grid", internalerr.ErrMalformedPercept, at, k.size, k.size)
	}
	k.visited[at] = true
	k.Add(logic.Unit(logic.PitAt(at).Not()))
	k.Add(logic.NewClause(logic.WumpusAt(at).Not(), logic.DeadAt(at)))
	return nil
}

// RetractWumpus records a scream outcome: the wumpus at the targeted cell
// is dead. Old clauses mentioning the cell stay in place — placement atoms
// are never contradicted — and the new unit fact lets the engine derive
// further safety from them.
func (k *KB) RetractWumpus(target logic.Coord) error {
	if !target.In(k.size) {
		return fmt.Errorf("%w: coordinate %v outside %d×%d grid", internalerr.ErrMalformedPercept, target, k.size, k.size)
	}
	k.Add(logic.Unit(logic.DeadAt(target)))
	return nil
}

// Clauses returns the clause list in insertion order. The copy is safe to
// hold across later Adds.
func (k *KB) Clauses() []logic.Clause {
	out := make([]logic.Clause, len(k.clauses))
	copy(out, k.clauses)
	return out
}

// Len returns the clause count.
func (k *KB) Len() int { return len(k.clauses) }

// Contains reports whether the exact clause is already known.
func (k *KB) Contains(c logic.Clause) bool {
	_, ok := k.index[c.Key()]
	return ok
}

// IsVisited reports whether the agent has stood on the cell.
func (k *KB) IsVisited(c logic.Coord) bool { return k.visited[c] }

// Visited returns the visited cells in a deterministic order.
func (k *KB) Visited() []logic.Coord {
	out := make([]logic.Coord, 0, len(k.visited))
	for c := range k.visited {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// PerceptsAt returns the percept history recorded at a cell.
func (k *KB) PerceptsAt(c logic.Coord) []Percept {
	hist := k.percepts[c]
	out := make([]Percept, len(hist))
	copy(out, hist)
	return out
}

// AttachOracle wires the inference engine in for Query pass-through.
func (k *KB) AttachOracle(o Oracle) { k.oracle = o }

// Query delegates an entailment question to the attached engine. Without an
// oracle everything is Unknown.
func (k *KB) Query(l logic.Literal) (logic.Tristate, error) {
	if k.oracle == nil {
		return logic.Unknown, nil
	}
	return k.oracle(l)
}
