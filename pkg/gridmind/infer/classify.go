package infer

import (
	"sort"

	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

// State is the derived safety status of a cell.
type State uint8

const (
	StateUnknown State = iota
	StateSafe
	StateDangerous
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateSafe:
		return "safe"
	case StateDangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

// Classification is the safety verdict for one cell. Hazard is meaningful
// only when State is StateDangerous.
type Classification struct {
	State  State
	Hazard logic.Kind
}

// Classify derives the safety status of a cell. Safe needs ¬Pit(c) entailed
// and "no live wumpus" entailed, where the latter is the disjunction
// ¬Wumpus(c) ∨ Dead(c). Dangerous needs Pit(c) entailed, or Wumpus(c)
// entailed without a proven kill. Anything else is Unknown — a valid
// terminal answer, not a failure.
func (e *Engine) Classify(c logic.Coord) (Classification, error) {
	pit, err := e.Entails(logic.PitAt(c))
	if err != nil {
		return Classification{}, err
	}
	if pit == logic.True {
		return Classification{State: StateDangerous, Hazard: logic.Pit}, nil
	}

	wum, err := e.Entails(logic.WumpusAt(c))
	if err != nil {
		return Classification{}, err
	}
	dead, err := e.Entails(logic.DeadAt(c))
	if err != nil {
		return Classification{}, err
	}
	if wum == logic.True && dead != logic.True {
		return Classification{State: StateDangerous, Hazard: logic.Wumpus}, nil
	}

	if pit == logic.False {
		noLiveWumpus, err := e.EntailsClause(logic.WumpusAt(c).Not(), logic.DeadAt(c))
		if err != nil {
			return Classification{}, err
		}
		if noLiveWumpus {
			return Classification{State: StateSafe}, nil
		}
	}
	return Classification{State: StateUnknown}, nil
}

// Snapshot is a fully computed classification of the whole grid. It is
// immutable once published; the engine replaces it wholesale rather than
// mutating it in place.
type Snapshot struct {
	size       int
	generation uint64
	cells      map[logic.Coord]Classification
	visited    map[logic.Coord]bool
}

// ClassifyAll recomputes the classification of every cell and publishes the
// result atomically.
func (e *Engine) ClassifyAll() (*Snapshot, error) {
	n := e.kb.Size()
	snap := &Snapshot{
		size:       n,
		generation: e.kb.Generation(),
		cells:      make(map[logic.Coord]Classification, n*n),
		visited:    make(map[logic.Coord]bool),
	}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			c := logic.Coord{X: x, Y: y}
			cl, err := e.Classify(c)
			if err != nil {
				return nil, err
			}
			snap.cells[c] = cl
		}
	}
	for _, c := range e.kb.Visited() {
		snap.visited[c] = true
	}
	e.snap.Store(snap)
	return snap, nil
}

// Latest returns the most recently published snapshot, or nil before the
// first ClassifyAll.
func (e *Engine) Latest() *Snapshot {
	return e.snap.Load()
}

// Frontier returns the Unknown cells adjacent to at least one visited cell,
// in deterministic order. It reuses the latest snapshot when it is current.
func (e *Engine) Frontier() ([]logic.Coord, error) {
	snap := e.snap.Load()
	if snap == nil || snap.generation != e.kb.Generation() {
		var err error
		snap, err = e.ClassifyAll()
		if err != nil {
			return nil, err
		}
	}
	return snap.Frontier(), nil
}

// Size returns the grid dimension the snapshot covers.
func (s *Snapshot) Size() int { return s.size }

// Generation is the KB generation the snapshot was derived from.
func (s *Snapshot) Generation() uint64 { return s.generation }

// At returns the classification of a cell. Out-of-grid cells are Unknown.
func (s *Snapshot) At(c logic.Coord) Classification {
	return s.cells[c]
}

// Visited reports whether the agent has stood on the cell.
func (s *Snapshot) Visited(c logic.Coord) bool { return s.visited[c] }

// Walkable reports whether the planner may route through a cell: provably
// safe, already survived, or — only when risk is explicitly permitted —
// unknown.
func (s *Snapshot) Walkable(c logic.Coord, risk bool) bool {
	if !c.In(s.size) {
		return false
	}
	if s.visited[c] {
		return true
	}
	switch s.cells[c].State {
	case StateSafe:
		return true
	case StateUnknown:
		return risk
	default:
		return false
	}
}

// SafeUnvisited lists provably safe cells the agent has not entered yet.
func (s *Snapshot) SafeUnvisited() []logic.Coord {
	var out []logic.Coord
	s.each(func(c logic.Coord, cl Classification) {
		if cl.State == StateSafe && !s.visited[c] {
			out = append(out, c)
		}
	})
	return out
}

// Dangerous lists cells proven to hold the given hazard.
func (s *Snapshot) Dangerous(kind logic.Kind) []logic.Coord {
	var out []logic.Coord
	s.each(func(c logic.Coord, cl Classification) {
		if cl.State == StateDangerous && cl.Hazard == kind {
			out = append(out, c)
		}
	})
	return out
}

// Frontier lists the Unknown cells adjacent to the visited region.
func (s *Snapshot) Frontier() []logic.Coord {
	var out []logic.Coord
	s.each(func(c logic.Coord, cl Classification) {
		if cl.State != StateUnknown || s.visited[c] {
			return
		}
		for _, n := range logic.Adjacent(c, s.size) {
			if s.visited[n] {
				out = append(out, c)
				return
			}
		}
	})
	return out
}

// each visits every cell in row-major order.
func (s *Snapshot) each(fn func(logic.Coord, Classification)) {
	coords := make([]logic.Coord, 0, len(s.cells))
	for c := range s.cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	for _, c := range coords {
		fn(c, s.cells[c])
	}
}
