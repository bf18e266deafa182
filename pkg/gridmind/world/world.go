// Package world simulates the cave the agent reasons about. It generates a
// layout from a seed, feeds the agent percepts, executes its actions, and
// keeps the standard score. Ground truth never crosses into the reasoning
// packages; the agent sees only grid dimensions and percepts. The accessors
// that do expose hazards exist for soundness tests.
package world

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/kb"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
	"github.com/cognicore/gridmind/pkg/gridmind/plan"
)

// Status is the episode state.
type Status uint8

const (
	Playing Status = iota
	Dead
	Escaped
)

var statusNames = [...]string{"playing", "dead", "escaped"}

// String implements fmt.Stringer.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Standard scoring constants.
const (
	actionCost  = 1
	arrowCost   = 10
	deathReward = -1000
	goldReward  = 1000
)

// Config describes a randomly generated cave.
type Config struct {
	Size           int
	Wumpuses       int
	PitProbability float64
	Seed           int64
}

// World is one episode's ground truth plus agent state. Not safe for
// concurrent use; an episode is a single logical thread of control.
type World struct {
	size int

	pits     map[logic.Coord]bool
	wumpuses map[logic.Coord]bool
	dead     map[logic.Coord]bool
	gold     logic.Coord

	agent    plan.Pose
	hasArrow bool
	hasGold  bool
	status   Status
	score    int

	// transient flags, valid until the next action
	bump   bool
	scream bool
}

var start = logic.Coord{X: 0, Y: 0}

// New generates a world from cfg. Placement is deterministic for a given
// seed. The start cell and its neighbors stay hazard-free so every episode
// has at least one survivable first move.
func New(cfg Config) (*World, error) {
	if cfg.Size < 2 {
		return nil, fmt.Errorf("%w: grid size %d, need at least 2", internalerr.ErrInvalidConfig, cfg.Size)
	}
	if cfg.PitProbability < 0 || cfg.PitProbability >= 1 {
		return nil, fmt.Errorf("%w: pit probability %v outside [0,1)", internalerr.ErrInvalidConfig, cfg.PitProbability)
	}
	if cfg.Wumpuses < 0 {
		return nil, fmt.Errorf("%w: negative wumpus count", internalerr.ErrInvalidConfig)
	}

	protected := map[logic.Coord]bool{start: true}
	for _, n := range logic.Adjacent(start, cfg.Size) {
		protected[n] = true
	}

	// cells in row-major order keep placement reproducible per seed
	var candidates []logic.Coord
	for y := 0; y < cfg.Size; y++ {
		for x := 0; x < cfg.Size; x++ {
			if c := (logic.Coord{X: x, Y: y}); !protected[c] {
				candidates = append(candidates, c)
			}
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	w := &World{
		size:     cfg.Size,
		pits:     make(map[logic.Coord]bool),
		wumpuses: make(map[logic.Coord]bool),
		dead:     make(map[logic.Coord]bool),
		agent:    plan.Pose{At: start, Facing: plan.East},
		hasArrow: true,
	}

	for _, c := range candidates {
		if rng.Float64() < cfg.PitProbability {
			w.pits[c] = true
		}
	}

	var open []logic.Coord
	for _, c := range candidates {
		if !w.pits[c] {
			open = append(open, c)
		}
	}
	if cfg.Wumpuses > len(open) {
		return nil, fmt.Errorf("%w: %d wumpuses do not fit", internalerr.ErrInvalidConfig, cfg.Wumpuses)
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	for i := 0; i < cfg.Wumpuses; i++ {
		w.wumpuses[open[i]] = true
	}

	// gold lands in any pit-free cell off the start, wumpus lairs included
	var goldCells []logic.Coord
	for y := 0; y < cfg.Size; y++ {
		for x := 0; x < cfg.Size; x++ {
			if c := (logic.Coord{X: x, Y: y}); c != start && !w.pits[c] {
				goldCells = append(goldCells, c)
			}
		}
	}
	w.gold = goldCells[rng.Intn(len(goldCells))]
	return w, nil
}

// NewFromLayout builds a world with explicit hazard positions, for tests and
// worked examples.
func NewFromLayout(size int, pits, wumpuses []logic.Coord, gold logic.Coord) (*World, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: grid size %d", internalerr.ErrInvalidConfig, size)
	}
	w := &World{
		size:     size,
		pits:     make(map[logic.Coord]bool),
		wumpuses: make(map[logic.Coord]bool),
		dead:     make(map[logic.Coord]bool),
		agent:    plan.Pose{At: start, Facing: plan.East},
		hasArrow: true,
	}
	for _, c := range pits {
		if !c.In(size) || c == start {
			return nil, fmt.Errorf("%w: pit at %v", internalerr.ErrInvalidConfig, c)
		}
		w.pits[c] = true
	}
	for _, c := range wumpuses {
		if !c.In(size) || c == start || w.pits[c] {
			return nil, fmt.Errorf("%w: wumpus at %v", internalerr.ErrInvalidConfig, c)
		}
		w.wumpuses[c] = true
	}
	if !gold.In(size) || w.pits[gold] {
		return nil, fmt.Errorf("%w: gold at %v", internalerr.ErrInvalidConfig, gold)
	}
	w.gold = gold
	return w, nil
}

// Percept reports what the agent senses in its current cell. Bump and scream
// refer to the most recent action only.
func (w *World) Percept() kb.Percept {
	at := w.agent.At
	p := kb.Percept{
		Glitter: !w.hasGold && at == w.gold,
		Bump:    w.bump,
		Scream:  w.scream,
	}
	for _, n := range logic.Adjacent(at, w.size) {
		if w.pits[n] {
			p.Breeze = true
		}
		if w.wumpuses[n] {
			// a corpse keeps stinking
			p.Stench = true
		}
	}
	return p
}

// Apply executes one action. It returns ErrEpisodeOver once the agent has
// died or climbed out.
func (w *World) Apply(a plan.Action) error {
	if w.status != Playing {
		return internalerr.ErrEpisodeOver
	}
	w.bump = false
	w.scream = false
	w.score -= actionCost

	switch a {
	case plan.Forward:
		ahead := w.agent.Facing.Step(w.agent.At)
		if !ahead.In(w.size) {
			w.bump = true
			return nil
		}
		w.agent.At = ahead
		if w.pits[ahead] || (w.wumpuses[ahead] && !w.dead[ahead]) {
			w.status = Dead
			w.score += deathReward
		}
	case plan.TurnLeft:
		w.agent.Facing = w.agent.Facing.Left()
	case plan.TurnRight:
		w.agent.Facing = w.agent.Facing.Right()
	case plan.Grab:
		if !w.hasGold && w.agent.At == w.gold {
			w.hasGold = true
		}
	case plan.Shoot:
		if w.hasArrow {
			w.hasArrow = false
			w.score -= arrowCost
			w.shoot()
		}
	case plan.Climb:
		if w.agent.At == start {
			w.status = Escaped
			if w.hasGold {
				w.score += goldReward
			}
		}
	default:
		return fmt.Errorf("unknown action %d", a)
	}
	return nil
}

// shoot flies the arrow along the facing until it hits the first living
// wumpus or leaves the grid.
func (w *World) shoot() {
	for c := w.agent.Facing.Step(w.agent.At); c.In(w.size); c = w.agent.Facing.Step(c) {
		if w.wumpuses[c] && !w.dead[c] {
			w.dead[c] = true
			w.scream = true
			return
		}
	}
}

// Size returns the grid dimension.
func (w *World) Size() int { return w.size }

// Agent returns the agent's current pose.
func (w *World) Agent() plan.Pose { return w.agent }

// Status returns the episode state.
func (w *World) Status() Status { return w.status }

// Done reports whether the episode has ended.
func (w *World) Done() bool { return w.status != Playing }

// Score returns the accumulated score.
func (w *World) Score() int { return w.score }

// HasArrow reports whether the arrow is still unspent.
func (w *World) HasArrow() bool { return w.hasArrow }

// HasGold reports whether the agent carries the gold.
func (w *World) HasGold() bool { return w.hasGold }

// Ground truth accessors, for soundness tests only.

// PitAt reports whether c holds a pit.
func (w *World) PitAt(c logic.Coord) bool { return w.pits[c] }

// LiveWumpusAt reports whether a living wumpus occupies c.
func (w *World) LiveWumpusAt(c logic.Coord) bool { return w.wumpuses[c] && !w.dead[c] }

// Pits lists pit cells in X-then-Y order.
func (w *World) Pits() []logic.Coord { return sortedCells(w.pits) }

// Wumpuses lists wumpus placements, dead or alive, in X-then-Y order.
func (w *World) Wumpuses() []logic.Coord { return sortedCells(w.wumpuses) }

// Gold returns the gold cell.
func (w *World) Gold() logic.Coord { return w.gold }

func sortedCells(set map[logic.Coord]bool) []logic.Coord {
	out := make([]logic.Coord, 0, len(set))
	for c := range set {
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
