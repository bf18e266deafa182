package kb

import "github.com/cognicore/gridmind/pkg/gridmind/logic"

// seedAxioms instantiates the fixed physics rules for every cell, once, at
// construction:
//
//	Breeze(c) ⇔ OR over in-bounds neighbors n of Pit(n)
//	Stench(c) ⇔ OR over in-bounds neighbors n of Wumpus(n)
//
// Each biconditional over k neighbors expands into one clause of size k+1
// plus k clauses of size 2. A cell with no in-bounds neighbors degenerates
// to the unit ¬Breeze(c) / ¬Stench(c). A cell also never holds both a pit
// and a wumpus, and the start cell is safe by definition.
func (k *KB) seedAxioms() {
	for x := 0; x < k.size; x++ {
		for y := 0; y < k.size; y++ {
			c := logic.Coord{X: x, Y: y}
			adj := logic.Adjacent(c, k.size)

			k.addSense(logic.BreezeAt(c), adj, logic.PitAt)
			k.addSense(logic.StenchAt(c), adj, logic.WumpusAt)

			k.Add(logic.NewClause(logic.PitAt(c).Not(), logic.WumpusAt(c).Not()))
		}
	}

	start := logic.Coord{}
	k.Add(logic.Unit(logic.PitAt(start).Not()))
	k.Add(logic.Unit(logic.WumpusAt(start).Not()))
}

// addSense expands sense(c) ⇔ OR hazard(n) into CNF and appends it.
func (k *KB) addSense(sense logic.Literal, neighbors []logic.Coord, hazard func(logic.Coord) logic.Literal) {
	// sense ⇒ at least one neighboring hazard
	lits := make([]logic.Literal, 0, len(neighbors)+1)
	lits = append(lits, sense.Not())
	for _, n := range neighbors {
		lits = append(lits, hazard(n))
	}
	k.Add(logic.NewClause(lits...))

	// each neighboring hazard ⇒ sense
	for _, n := range neighbors {
		k.Add(logic.NewClause(hazard(n).Not(), sense))
	}
}
