package gridmind

import (
	"math/rand"

	"github.com/cognicore/gridmind/pkg/gridmind/kb"
	"github.com/cognicore/gridmind/pkg/gridmind/plan"
)

// RandomAgent is the no-reasoning baseline. It grabs gold when it sees it
// and otherwise stumbles around, which makes it a useful yardstick for how
// much the logical agent's inference is worth.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent creates a baseline agent with its own seeded source.
func NewRandomAgent(seed int64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

// Step implements Policy.
func (r *RandomAgent) Step(p kb.Percept) (plan.Action, error) {
	if p.Glitter {
		return plan.Grab, nil
	}
	// forward-heavy so it actually covers ground
	moves := []plan.Action{
		plan.Forward, plan.Forward, plan.Forward,
		plan.TurnLeft, plan.TurnRight,
		plan.Climb,
	}
	return moves[r.rng.Intn(len(moves))], nil
}
