// Package plan turns safety classifications into action sequences. The
// planner runs A* over (coordinate, facing) states with unit cost per move
// or quarter-turn and a Manhattan heuristic, which is admissible and
// consistent on a 4-connected grid, so returned routes are cost-optimal.
// Cells are enterable only when the caller's walkable predicate admits
// them; risk acceptance is the caller's explicit choice, never implicit.
package plan

import (
	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

// Planner plans routes on an n×n grid.
type Planner struct {
	size int
}

// New creates a planner for an n×n grid.
func New(size int) *Planner {
	return &Planner{size: size}
}

// Route returns the optimal action sequence from the starting pose to any
// of the goal cells, moving only through walkable cells. Goal cells
// themselves are always enterable — callers pick goals deliberately, e.g. a
// frontier cell that is Unknown by definition. An empty non-nil sequence
// means the agent already stands on a goal; an unreachable goal returns
// ErrNoPath, never a partial path.
func (p *Planner) Route(from Pose, goals []logic.Coord, walkable func(logic.Coord) bool) ([]Action, error) {
	if len(goals) == 0 {
		return nil, internalerr.ErrNoPath
	}
	goalSet := make(map[logic.Coord]bool, len(goals))
	for _, g := range goals {
		goalSet[g] = true
	}
	if goalSet[from.At] {
		return []Action{}, nil
	}

	end := search(
		from,
		func(pose Pose) bool { return goalSet[pose.At] },
		func(c logic.Coord) int { return nearest(c, goals) },
		func(c logic.Coord) bool { return c.In(p.size) && (walkable(c) || goalSet[c]) },
	)
	if end == nil {
		return nil, internalerr.ErrNoPath
	}
	return actions(end), nil
}

// ShotRoute routes to a firing position for one of the suspected wumpus
// cells and appends the shot. A firing position is a walkable cell in the
// same row or column as a target, facing it. The second return is the cell
// the shot is aimed at, which the caller retracts on a scream.
func (p *Planner) ShotRoute(from Pose, targets []logic.Coord, walkable func(logic.Coord) bool) ([]Action, logic.Coord, error) {
	poses := p.firingPoses(targets, walkable)
	if len(poses) == 0 {
		return nil, logic.Coord{}, internalerr.ErrNoPath
	}

	if target, ok := poses[from]; ok {
		return []Action{Shoot}, target, nil
	}

	cells := make([]logic.Coord, 0, len(poses))
	for pose := range poses {
		cells = append(cells, pose.At)
	}

	end := search(
		from,
		func(pose Pose) bool { _, ok := poses[pose]; return ok },
		func(c logic.Coord) int { return nearest(c, cells) },
		func(c logic.Coord) bool { return c.In(p.size) && walkable(c) },
	)
	if end == nil {
		return nil, logic.Coord{}, internalerr.ErrNoPath
	}
	return append(actions(end), Shoot), poses[end.pose], nil
}

// firingPoses maps each pose that lines up a clear shot to the target cell
// the arrow would hit first.
func (p *Planner) firingPoses(targets []logic.Coord, walkable func(logic.Coord) bool) map[Pose]logic.Coord {
	targetSet := make(map[logic.Coord]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	poses := make(map[Pose]logic.Coord)
	add := func(pose Pose) {
		if !pose.At.In(p.size) || targetSet[pose.At] || !walkable(pose.At) {
			return
		}
		// the arrow hits the first suspected cell along the ray
		for c := pose.Facing.Step(pose.At); c.In(p.size); c = pose.Facing.Step(c) {
			if targetSet[c] {
				if _, taken := poses[pose]; !taken {
					poses[pose] = c
				}
				return
			}
		}
	}

	for _, t := range targets {
		for i := 0; i < p.size; i++ {
			add(Pose{logic.Coord{X: i, Y: t.Y}, East})
			add(Pose{logic.Coord{X: i, Y: t.Y}, West})
			add(Pose{logic.Coord{X: t.X, Y: i}, North})
			add(Pose{logic.Coord{X: t.X, Y: i}, South})
		}
	}
	return poses
}

// nearest is the minimum Manhattan distance from c to any goal.
func nearest(c logic.Coord, goals []logic.Coord) int {
	best := -1
	for _, g := range goals {
		if d := c.Manhattan(g); best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
