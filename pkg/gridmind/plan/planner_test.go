package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

func allWalkable(logic.Coord) bool { return true }

func walkableSet(cells ...logic.Coord) func(logic.Coord) bool {
	set := make(map[logic.Coord]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	return func(c logic.Coord) bool { return set[c] }
}

// bfsCost is the brute-force optimal action count over the same state
// space, used to verify A* optimality.
func bfsCost(size int, from Pose, goals []logic.Coord, enterable func(logic.Coord) bool) int {
	goalSet := make(map[logic.Coord]bool)
	for _, g := range goals {
		goalSet[g] = true
	}
	type item struct {
		pose Pose
		d    int
	}
	seen := map[Pose]bool{from: true}
	queue := []item{{from, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if goalSet[cur.pose.At] {
			return cur.d
		}
		for _, s := range expand(cur.pose, func(c logic.Coord) bool { return c.In(size) && enterable(c) }) {
			if !seen[s.pose] {
				seen[s.pose] = true
				queue = append(queue, item{s.pose, cur.d + 1})
			}
		}
	}
	return -1
}

func TestRouteOptimality(t *testing.T) {
	p := New(5)
	cases := []struct {
		from Pose
		goal logic.Coord
	}{
		{Pose{logic.Coord{X: 0, Y: 0}, East}, logic.Coord{X: 3, Y: 2}},
		{Pose{logic.Coord{X: 0, Y: 0}, South}, logic.Coord{X: 0, Y: 4}},
		{Pose{logic.Coord{X: 2, Y: 2}, North}, logic.Coord{X: 4, Y: 0}},
		{Pose{logic.Coord{X: 4, Y: 4}, West}, logic.Coord{X: 0, Y: 0}},
	}
	for _, tc := range cases {
		acts, err := p.Route(tc.from, []logic.Coord{tc.goal}, allWalkable)
		require.NoError(t, err)
		want := bfsCost(5, tc.from, []logic.Coord{tc.goal}, allWalkable)
		assert.Equal(t, want, len(acts), "from %v to %v", tc.from, tc.goal)
	}
}

func TestRouteAroundObstacles(t *testing.T) {
	// corridor: only the left column and the top row are walkable
	p := New(4)
	walkable := walkableSet(
		logic.Coord{X: 0, Y: 0}, logic.Coord{X: 0, Y: 1}, logic.Coord{X: 0, Y: 2}, logic.Coord{X: 0, Y: 3},
		logic.Coord{X: 1, Y: 3}, logic.Coord{X: 2, Y: 3}, logic.Coord{X: 3, Y: 3},
	)
	from := Pose{logic.Coord{X: 0, Y: 0}, East}
	goal := logic.Coord{X: 3, Y: 3}

	acts, err := p.Route(from, []logic.Coord{goal}, walkable)
	require.NoError(t, err)
	assert.Equal(t, bfsCost(4, from, []logic.Coord{goal}, walkable), len(acts))

	// replay the actions and confirm they land on the goal
	pose := from
	for _, a := range acts {
		switch a {
		case Forward:
			pose.At = pose.Facing.Step(pose.At)
			assert.True(t, walkable(pose.At) || pose.At == goal, "stepped onto non-walkable cell %v", pose.At)
		case TurnLeft:
			pose.Facing = pose.Facing.Left()
		case TurnRight:
			pose.Facing = pose.Facing.Right()
		default:
			t.Fatalf("unexpected action %v in route", a)
		}
	}
	assert.Equal(t, goal, pose.At)
}

func TestRouteDeterminism(t *testing.T) {
	p := New(6)
	from := Pose{logic.Coord{X: 0, Y: 0}, North}
	goals := []logic.Coord{{X: 5, Y: 5}, {X: 3, Y: 4}}

	first, err := p.Route(from, goals, allWalkable)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := p.Route(from, goals, allWalkable)
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical inputs must give byte-identical plans")
	}
}

func TestRouteNoPath(t *testing.T) {
	p := New(3)
	from := Pose{logic.Coord{X: 0, Y: 0}, East}

	_, err := p.Route(from, []logic.Coord{{X: 2, Y: 2}}, walkableSet(logic.Coord{X: 0, Y: 0}))
	assert.ErrorIs(t, err, internalerr.ErrNoPath)

	_, err = p.Route(from, nil, allWalkable)
	assert.ErrorIs(t, err, internalerr.ErrNoPath)
}

func TestRouteAlreadyAtGoal(t *testing.T) {
	p := New(3)
	acts, err := p.Route(Pose{logic.Coord{X: 1, Y: 1}, West}, []logic.Coord{{X: 1, Y: 1}}, allWalkable)
	require.NoError(t, err)
	require.NotNil(t, acts, "zero-length path must be distinguishable from no path")
	assert.Len(t, acts, 0)
}

func TestRouteEntersUnknownGoalCell(t *testing.T) {
	// the goal itself is not walkable (a frontier cell), but is enterable
	p := New(3)
	acts, err := p.Route(Pose{logic.Coord{X: 0, Y: 0}, East}, []logic.Coord{{X: 1, Y: 0}}, walkableSet(logic.Coord{X: 0, Y: 0}))
	require.NoError(t, err)
	assert.Equal(t, []Action{Forward}, acts)
}

func TestRouteMinimalTurns(t *testing.T) {
	p := New(3)
	acts, err := p.Route(Pose{logic.Coord{X: 0, Y: 0}, South}, []logic.Coord{{X: 0, Y: 1}}, allWalkable)
	require.NoError(t, err)
	require.Len(t, acts, 3, "opposite facing costs two quarter-turns plus the move")
	assert.Equal(t, Forward, acts[2])
}

func TestRoutePicksNearestGoal(t *testing.T) {
	p := New(5)
	from := Pose{logic.Coord{X: 0, Y: 0}, East}
	acts, err := p.Route(from, []logic.Coord{{X: 4, Y: 4}, {X: 1, Y: 0}}, allWalkable)
	require.NoError(t, err)
	assert.Equal(t, []Action{Forward}, acts)
}

func TestShotRouteFromFiringPosition(t *testing.T) {
	p := New(4)
	acts, target, err := p.ShotRoute(
		Pose{logic.Coord{X: 0, Y: 0}, East},
		[]logic.Coord{{X: 2, Y: 0}},
		walkableSet(logic.Coord{X: 0, Y: 0}, logic.Coord{X: 1, Y: 0}),
	)
	require.NoError(t, err)
	assert.Equal(t, []Action{Shoot}, acts)
	assert.Equal(t, logic.Coord{X: 2, Y: 0}, target)
}

func TestShotRouteTurnsToFace(t *testing.T) {
	p := New(4)
	acts, target, err := p.ShotRoute(
		Pose{logic.Coord{X: 0, Y: 0}, North},
		[]logic.Coord{{X: 2, Y: 0}},
		walkableSet(logic.Coord{X: 0, Y: 0}, logic.Coord{X: 1, Y: 0}),
	)
	require.NoError(t, err)
	require.NotEmpty(t, acts)
	assert.Equal(t, Shoot, acts[len(acts)-1])
	assert.Equal(t, logic.Coord{X: 2, Y: 0}, target)
	// one quarter-turn right lines up the shot
	assert.Equal(t, []Action{TurnRight, Shoot}, acts)
}

func TestShotRouteNoFiringPosition(t *testing.T) {
	p := New(4)
	_, _, err := p.ShotRoute(
		Pose{logic.Coord{X: 0, Y: 0}, East},
		[]logic.Coord{{X: 2, Y: 2}},
		walkableSet(logic.Coord{X: 0, Y: 0}),
	)
	assert.ErrorIs(t, err, internalerr.ErrNoPath)
}
