package infer

import (
	"fmt"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/logic"
)

// closure is the result of running unit propagation to fixpoint over a
// clause set: every derivable unit fact, plus the surviving non-unit
// clauses simplified under those facts.
type closure struct {
	units   map[logic.Atom]bool
	residue []logic.Clause
}

// propagate forward-chains unit facts through the clause set. Clause sizes
// strictly decrease under simplification, so the loop terminates. Deriving
// the empty clause, or two opposite unit facts, means the KB is
// contradictory and is surfaced as ErrInconsistent.
func propagate(clauses []logic.Clause) (closure, error) {
	units := make(map[logic.Atom]bool)
	pending := clauses

	for {
		var next []logic.Clause
		changed := false

		for _, c := range pending {
			simplified, satisfied := reduce(c, units)
			if satisfied {
				continue
			}
			if simplified.Empty() {
				return closure{}, fmt.Errorf("%w: clause %q reduced to empty", internalerr.ErrInconsistent, c)
			}
			if lit, ok := simplified.Unit(); ok {
				truth := !lit.Neg
				if known, seen := units[lit.Atom]; seen {
					if known != truth {
						return closure{}, fmt.Errorf("%w: both %v and its negation derived", internalerr.ErrInconsistent, lit.Atom)
					}
					continue
				}
				units[lit.Atom] = truth
				changed = true
				continue
			}
			next = append(next, simplified)
		}

		pending = next
		if !changed {
			return closure{units: units, residue: pending}, nil
		}
	}
}

// reduce simplifies one clause under the known unit facts. The second
// return is true when the clause is satisfied outright.
func reduce(c logic.Clause, units map[logic.Atom]bool) (logic.Clause, bool) {
	kept := make([]logic.Literal, 0, c.Len())
	for _, l := range c.Literals() {
		truth, ok := units[l.Atom]
		if !ok {
			kept = append(kept, l)
			continue
		}
		if truth == !l.Neg {
			return logic.Clause{}, true
		}
		// literal is false under the facts: drop it
	}
	return logic.NewClause(kept...), false
}
