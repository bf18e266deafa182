// Package gridmind wires the knowledge base, inference engine and planner
// into an autonomous agent for hazard-field grid worlds. The agent never
// sees ground truth; it acts on percepts alone and moves only through cells
// it can prove safe, unless risk exploration is explicitly enabled.
package gridmind

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/gridmind/pkg/gridmind/infer"
	"github.com/cognicore/gridmind/pkg/gridmind/kb"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
	"github.com/cognicore/gridmind/pkg/gridmind/plan"
)

// Policy decides one action per turn from the current percept.
type Policy interface {
	Step(p kb.Percept) (plan.Action, error)
}

// Environment is the world surface the episode loop needs. world.World
// satisfies it.
type Environment interface {
	Size() int
	Percept() kb.Percept
	Apply(a plan.Action) error
	Done() bool
}

// Options configures an Agent.
type Options struct {
	// Size is the grid dimension n of the n×n cave
	Size int
	// Budget caps inference steps per query; 0 uses the engine default
	Budget int
	// RiskExploration lets the agent enter Unknown frontier cells once no
	// provably safe move remains
	RiskExploration bool
	// Logger receives decision traces; nil disables logging
	Logger *zap.Logger
}

// Agent is the hybrid logical agent: perceive, tell, infer, plan, act.
type Agent struct {
	kb      *kb.KB
	engine  *infer.Engine
	planner *plan.Planner
	risk    bool
	log     *zap.Logger

	pose plan.Pose
	prev plan.Pose

	hasArrow bool
	hasGold  bool
	leaving  bool

	queue []plan.Action

	// set while an arrow is in flight toward lastShot
	shotPending bool
	lastShot    logic.Coord
}

var home = logic.Coord{X: 0, Y: 0}

// NewAgent creates a hybrid agent for an n×n cave.
func NewAgent(opts Options) (*Agent, error) {
	k, err := kb.New(opts.Size)
	if err != nil {
		return nil, err
	}
	var engineOpts []infer.Option
	if opts.Budget > 0 {
		engineOpts = append(engineOpts, infer.WithBudget(opts.Budget))
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{
		kb:       k,
		engine:   infer.New(k, engineOpts...),
		planner:  plan.New(opts.Size),
		risk:     opts.RiskExploration,
		log:      log,
		pose:     plan.Pose{At: home, Facing: plan.East},
		prev:     plan.Pose{At: home, Facing: plan.East},
		hasArrow: true,
	}, nil
}

// KB exposes the agent's knowledge base, e.g. for persisting the clause log.
func (a *Agent) KB() *kb.KB { return a.kb }

// Engine exposes the agent's inference engine, e.g. for inspecting the last
// published safety snapshot.
func (a *Agent) Engine() *infer.Engine { return a.engine }

// Pose returns where the agent believes it stands.
func (a *Agent) Pose() plan.Pose { return a.pose }

// Step ingests one percept and returns the next action.
func (a *Agent) Step(p kb.Percept) (plan.Action, error) {
	// a bump means the last forward never happened
	if p.Bump {
		a.pose = a.prev
		a.queue = nil
	}

	if p.Scream && a.shotPending {
		a.shotPending = false
		a.queue = nil
		if err := a.kb.RetractWumpus(a.lastShot); err != nil {
			return 0, err
		}
		a.log.Info("scream heard, wumpus dead", zap.Stringer("cell", a.lastShot))
	}

	if err := a.kb.MarkVisited(a.pose.At); err != nil {
		return 0, err
	}
	if err := a.kb.Tell(p, a.pose.At); err != nil {
		return 0, err
	}

	if p.Glitter && !a.hasGold {
		a.hasGold = true
		a.queue = nil
		a.log.Info("gold found", zap.Stringer("cell", a.pose.At))
		return a.execute(plan.Grab), nil
	}

	if len(a.queue) == 0 {
		if err := a.replan(); err != nil {
			return 0, err
		}
	}

	next := a.queue[0]
	a.queue = a.queue[1:]
	return a.execute(next), nil
}

// replan fills the action queue. Preference order: head home with the gold,
// nearest provably safe unvisited cell, a planned shot at a proven wumpus,
// an Unknown frontier cell when risk is allowed, and finally retreat.
func (a *Agent) replan() error {
	snap, err := a.engine.ClassifyAll()
	if err != nil {
		return err
	}
	walkable := func(c logic.Coord) bool { return snap.Walkable(c, false) }

	if a.hasGold || a.leaving {
		return a.planRetreat(walkable)
	}

	if goals := snap.SafeUnvisited(); len(goals) > 0 {
		if acts, err := a.planner.Route(a.pose, goals, walkable); err == nil {
			a.log.Debug("exploring safe cell", zap.Int("choices", len(goals)))
			a.queue = acts
			return nil
		}
	}

	if a.hasArrow {
		if targets := snap.Dangerous(logic.Wumpus); len(targets) > 0 {
			if acts, target, err := a.planner.ShotRoute(a.pose, targets, walkable); err == nil {
				a.log.Info("lining up shot", zap.Stringer("target", target))
				a.lastShot = target
				a.queue = acts
				return nil
			}
		}
	}

	if a.risk {
		if goals := snap.Frontier(); len(goals) > 0 {
			risky := func(c logic.Coord) bool { return snap.Walkable(c, true) }
			if acts, err := a.planner.Route(a.pose, goals, risky); err == nil {
				a.log.Warn("no safe move left, risking a frontier cell")
				a.queue = acts
				return nil
			}
		}
	}

	a.log.Info("nothing left to try, heading home")
	a.leaving = true
	return a.planRetreat(walkable)
}

func (a *Agent) planRetreat(walkable func(logic.Coord) bool) error {
	if a.pose.At == home {
		a.queue = []plan.Action{plan.Climb}
		return nil
	}
	acts, err := a.planner.Route(a.pose, []logic.Coord{home}, walkable)
	if err != nil {
		// visited cells are walkable, so the way back always exists
		return fmt.Errorf("retreat from %v: %w", a.pose.At, err)
	}
	a.queue = append(acts, plan.Climb)
	return nil
}

// execute applies an action's effects to the agent's own state and returns
// it for the environment.
func (a *Agent) execute(act plan.Action) plan.Action {
	a.prev = a.pose
	switch act {
	case plan.Forward:
		a.pose.At = a.pose.Facing.Step(a.pose.At)
	case plan.TurnLeft:
		a.pose.Facing = a.pose.Facing.Left()
	case plan.TurnRight:
		a.pose.Facing = a.pose.Facing.Right()
	case plan.Shoot:
		a.hasArrow = false
		a.shotPending = true
	}
	a.log.Debug("acting", zap.Stringer("action", act), zap.Stringer("cell", a.pose.At))
	return act
}

// Run plays one episode: percept in, action out, until the environment ends
// it or maxTurns actions have been taken. Returns the number of actions.
func Run(env Environment, policy Policy, maxTurns int) (int, error) {
	turns := 0
	for !env.Done() && turns < maxTurns {
		act, err := policy.Step(env.Percept())
		if err != nil {
			return turns, err
		}
		if err := env.Apply(act); err != nil {
			return turns, err
		}
		turns++
	}
	return turns, nil
}
