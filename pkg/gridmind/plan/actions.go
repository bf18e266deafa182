package plan

import "github.com/cognicore/gridmind/pkg/gridmind/logic"

// Action is one primitive the agent can execute.
type Action uint8

const (
	Forward Action = iota
	TurnLeft
	TurnRight
	Grab
	Shoot
	Climb
)

var actionNames = [...]string{"forward", "turn-left", "turn-right", "grab", "shoot", "climb"}

// String implements fmt.Stringer.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Facing is one of the four grid directions. East is +X, North is +Y.
type Facing uint8

const (
	East Facing = iota
	North
	West
	South
)

var facingNames = [...]string{"east", "north", "west", "south"}

// String implements fmt.Stringer.
func (f Facing) String() string {
	if int(f) < len(facingNames) {
		return facingNames[f]
	}
	return "unknown"
}

// Left returns the facing after a quarter-turn counterclockwise.
func (f Facing) Left() Facing { return (f + 1) % 4 }

// Right returns the facing after a quarter-turn clockwise.
func (f Facing) Right() Facing { return (f + 3) % 4 }

// Step returns the cell one move ahead of c. The result may be out of
// bounds; callers check.
func (f Facing) Step(c logic.Coord) logic.Coord {
	switch f {
	case East:
		c.X++
	case North:
		c.Y++
	case West:
		c.X--
	default:
		c.Y--
	}
	return c
}

// Pose is a coordinate plus facing, the planner's search state.
type Pose struct {
	At     logic.Coord
	Facing Facing
}
