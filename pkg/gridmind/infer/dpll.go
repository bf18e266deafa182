package infer

import "github.com/cognicore/gridmind/pkg/gridmind/logic"

// satResult is the outcome of a bounded satisfiability check. satUnknown
// means the step budget ran out before the search closed; callers must
// treat it as "no answer", never as either polarity.
type satResult uint8

const (
	satUnknown satResult = iota
	satYes
	satNo
)

// satisfiable runs DPLL with unit propagation and pure-literal elimination
// over the clause set. budget is decremented per search step; when it drops
// below zero the check gives up with satUnknown.
func satisfiable(clauses []logic.Clause, budget *int) satResult {
	*budget--
	if *budget < 0 {
		return satUnknown
	}

	// unit propagation to fixpoint
	for {
		if len(clauses) == 0 {
			return satYes
		}
		unit, ok := findUnit(clauses)
		if !ok {
			break
		}
		*budget--
		if *budget < 0 {
			return satUnknown
		}
		var conflict bool
		clauses, conflict = assign(clauses, unit)
		if conflict {
			return satNo
		}
	}

	// pure literal elimination
	if pure, ok := findPure(clauses); ok {
		next, conflict := assign(clauses, pure)
		if conflict {
			return satNo
		}
		return satisfiable(next, budget)
	}

	// branch on the canonically smallest open atom, positive polarity first
	lit := logic.Literal{Atom: branchAtom(clauses)}

	next, conflict := assign(clauses, lit)
	if !conflict {
		if r := satisfiable(next, budget); r != satNo {
			return r
		}
	}

	next, conflict = assign(clauses, lit.Not())
	if conflict {
		return satNo
	}
	return satisfiable(next, budget)
}

// assign commits a literal as true and simplifies: satisfied clauses drop
// out, the opposite literal is struck from the rest. conflict is true when
// a clause empties.
func assign(clauses []logic.Clause, l logic.Literal) (out []logic.Clause, conflict bool) {
	neg := l.Not()
	out = make([]logic.Clause, 0, len(clauses))
	for _, c := range clauses {
		if c.Has(l) {
			continue
		}
		if c.Has(neg) {
			r := c.Remove(neg)
			if r.Empty() {
				return nil, true
			}
			out = append(out, r)
			continue
		}
		out = append(out, c)
	}
	return out, false
}

// findUnit returns the first unit clause's literal.
func findUnit(clauses []logic.Clause) (logic.Literal, bool) {
	for _, c := range clauses {
		if lit, ok := c.Unit(); ok {
			return lit, true
		}
	}
	return logic.Literal{}, false
}

// findPure returns a literal whose atom occurs in a single polarity.
// Scanning in clause order keeps the choice deterministic.
func findPure(clauses []logic.Clause) (logic.Literal, bool) {
	seen := make(map[logic.Atom]uint8) // bit 1: positive seen, bit 2: negative seen
	var order []logic.Atom
	for _, c := range clauses {
		for _, l := range c.Literals() {
			if _, ok := seen[l.Atom]; !ok {
				order = append(order, l.Atom)
			}
			if l.Neg {
				seen[l.Atom] |= 2
			} else {
				seen[l.Atom] |= 1
			}
		}
	}
	for _, a := range order {
		switch seen[a] {
		case 1:
			return logic.Literal{Atom: a}, true
		case 2:
			return logic.Literal{Atom: a, Neg: true}, true
		}
	}
	return logic.Literal{}, false
}

// branchAtom picks the first atom of the first clause. The clause order is
// deterministic, so repeated runs explore identically.
func branchAtom(clauses []logic.Clause) logic.Atom {
	return clauses[0].Literals()[0].Atom
}
