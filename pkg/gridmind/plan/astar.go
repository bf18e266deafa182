package plan

import (
	"container/heap"

	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

// node is one A* search node. Nodes live only for the duration of a single
// search call.
type node struct {
	pose   Pose
	g      int
	h      int
	order  int // discovery sequence, the final tie-breaker
	action Action
	parent *node
}

func (n *node) f() int { return n.g + n.h }

// frontier is a min-heap ordered by f, then h (prefer closer to goal), then
// discovery order for full determinism.
type frontier []*node

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f() != q[j].f() {
		return q[i].f() < q[j].f()
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].order < q[j].order
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) { *q = append(*q, x.(*node)) }

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// search runs A* from start until goal(pose) holds. heuristic must be
// admissible for the unit-cost move/turn action set. enterable gates
// forward moves; turns are always legal. Returns nil when the goal is
// unreachable.
func search(start Pose, goal func(Pose) bool, heuristic func(logic.Coord) int, enterable func(logic.Coord) bool) *node {
	counter := 0
	root := &node{pose: start, h: heuristic(start.At)}

	open := frontier{root}
	heap.Init(&open)
	best := map[Pose]int{start: 0}

	for open.Len() > 0 {
		cur := heap.Pop(&open).(*node)
		if goal(cur.pose) {
			return cur
		}
		if g, ok := best[cur.pose]; ok && cur.g > g {
			continue // stale entry
		}

		for _, succ := range expand(cur.pose, enterable) {
			g := cur.g + 1
			if prev, ok := best[succ.pose]; ok && g >= prev {
				continue
			}
			best[succ.pose] = g
			counter++
			heap.Push(&open, &node{
				pose:   succ.pose,
				g:      g,
				h:      heuristic(succ.pose.At),
				order:  counter,
				action: succ.action,
				parent: cur,
			})
		}
	}
	return nil
}

type successor struct {
	pose   Pose
	action Action
}

// expand lists the legal successors in a fixed order so repeated searches
// are identical.
func expand(p Pose, enterable func(logic.Coord) bool) []successor {
	out := make([]successor, 0, 3)
	if ahead := p.Facing.Step(p.At); enterable(ahead) {
		out = append(out, successor{Pose{ahead, p.Facing}, Forward})
	}
	out = append(out,
		successor{Pose{p.At, p.Facing.Left()}, TurnLeft},
		successor{Pose{p.At, p.Facing.Right()}, TurnRight},
	)
	return out
}

// actions reconstructs the action sequence from the goal node. The result
// is non-nil even for a zero-length path.
func actions(goal *node) []Action {
	depth := 0
	for n := goal; n.parent != nil; n = n.parent {
		depth++
	}
	out := make([]Action, depth)
	for n := goal; n.parent != nil; n = n.parent {
		depth--
		out[depth] = n.action
	}
	return out
}
