// Package infer decides, for hazard literals, whether the knowledge base
// entails them, entails their negation, or neither. The fast path is
// forward chaining over unit facts; the fallback is a refutation check with
// a DPLL search restricted to the clause component connected to the queried
// atom. Results degrade to Unknown when the step budget runs out — the
// engine never fabricates an answer.
package infer

import (
	"fmt"
	"sync/atomic"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/kb"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

// DefaultBudget is the DPLL step budget per entailment query. Safety
// queries are local, so real instances stay far below this.
const DefaultBudget = 200000

// Engine answers entailment queries against one KB.
type Engine struct {
	kb     *kb.KB
	budget int

	// forward-chaining closure, cached per KB generation
	fwd      closure
	fwdGen   uint64
	fwdValid bool

	// latest published classification snapshot; swapped in whole so a
	// reader polling from another goroutine never observes a partial map
	snap atomic.Pointer[Snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithBudget overrides the DPLL step budget per query.
func WithBudget(steps int) Option {
	return func(e *Engine) {
		if steps > 0 {
			e.budget = steps
		}
	}
}

// New creates an engine bound to the KB and attaches itself as the KB's
// query oracle.
func New(k *kb.KB, opts ...Option) *Engine {
	e := &Engine{kb: k, budget: DefaultBudget}
	for _, opt := range opts {
		opt(e)
	}
	k.AttachOracle(e.Entails)
	return e
}

// refresh recomputes the forward-chaining closure when the KB has grown.
func (e *Engine) refresh() error {
	if e.fwdValid && e.fwdGen == e.kb.Generation() {
		return nil
	}
	cl, err := propagate(e.kb.Clauses())
	if err != nil {
		return err
	}
	e.fwd = cl
	e.fwdGen = e.kb.Generation()
	e.fwdValid = true
	return nil
}

// Entails reports whether the KB entails l (True), entails its negation
// (False), or neither (Unknown). A KB that entails both is contradictory
// and returns ErrInconsistent.
func (e *Engine) Entails(l logic.Literal) (logic.Tristate, error) {
	if err := e.refresh(); err != nil {
		return logic.Unknown, err
	}

	// fast path: the forward closure already decided the atom
	if truth, ok := e.fwd.units[l.Atom]; ok {
		if truth == !l.Neg {
			return logic.True, nil
		}
		return logic.False, nil
	}

	// refutation fallback, scoped to the clauses connected to the atom
	scope := component(e.fwd.residue, l.Atom)
	if len(scope) == 0 {
		// nothing constrains the atom, so both polarities are satisfiable
		return logic.Unknown, nil
	}
	scope = scope[:len(scope):len(scope)]

	negBudget := e.budget
	negSat := satisfiable(append(scope, logic.Unit(l.Not())), &negBudget)

	posBudget := e.budget
	posSat := satisfiable(append(scope, logic.Unit(l)), &posBudget)

	switch {
	case negSat == satNo && posSat == satNo:
		return logic.Unknown, fmt.Errorf("%w: %v provable in both polarities", internalerr.ErrInconsistent, l.Atom)
	case negSat == satNo:
		return logic.True, nil
	case posSat == satNo:
		return logic.False, nil
	default:
		return logic.Unknown, nil
	}
}

// EntailsClause reports whether the KB entails the disjunction of the given
// literals. Used for "no live wumpus here": ¬Wumpus(c) ∨ Dead(c), which a
// survived visit asserts as a whole without deciding either disjunct.
func (e *Engine) EntailsClause(lits ...logic.Literal) (bool, error) {
	if len(lits) == 0 {
		return false, nil
	}
	if err := e.refresh(); err != nil {
		return false, err
	}

	seeds := make([]logic.Atom, 0, len(lits))
	for _, l := range lits {
		if truth, ok := e.fwd.units[l.Atom]; ok {
			if truth == !l.Neg {
				return true, nil
			}
			continue // disjunct already false, contributes nothing
		}
		seeds = append(seeds, l.Atom)
	}
	if len(seeds) == 0 {
		return false, nil
	}

	// refute: KB plus the negation of every disjunct must be unsatisfiable
	scope := component(e.fwd.residue, seeds...)
	scope = scope[:len(scope):len(scope)]
	for _, l := range lits {
		scope = append(scope, logic.Unit(l.Not()))
	}
	budget := e.budget
	return satisfiable(scope, &budget) == satNo, nil
}

// component collects the clauses reachable from the seed atoms through
// shared atoms. The result preserves clause order and is freshly allocated.
func component(clauses []logic.Clause, seeds ...logic.Atom) []logic.Clause {
	byAtom := make(map[logic.Atom][]int)
	for i, c := range clauses {
		for _, l := range c.Literals() {
			byAtom[l.Atom] = append(byAtom[l.Atom], i)
		}
	}

	inClause := make([]bool, len(clauses))
	seenAtom := make(map[logic.Atom]bool, len(seeds))
	queue := make([]logic.Atom, 0, len(seeds))
	for _, s := range seeds {
		if !seenAtom[s] {
			seenAtom[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		for _, idx := range byAtom[a] {
			if inClause[idx] {
				continue
			}
			inClause[idx] = true
			for _, l := range clauses[idx].Literals() {
				if !seenAtom[l.Atom] {
					seenAtom[l.Atom] = true
					queue = append(queue, l.Atom)
				}
			}
		}
	}

	var out []logic.Clause
	for i, c := range clauses {
		if inClause[i] {
			out = append(out, c)
		}
	}
	return out
}
