// Package logic defines the propositional vocabulary of the hazard field:
// grid coordinates, hazard atoms, signed literals and CNF clauses. Clauses
// are immutable and normalized so they can be compared structurally and
// serialized in a stable order.
package logic

import "fmt"

// Coord is a 0-indexed grid coordinate. It is a value type and is used as a
// map key throughout the engine.
type Coord struct {
	X int
	Y int
}

// String renders the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// In reports whether the coordinate lies inside an n×n grid.
func (c Coord) In(n int) bool {
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

// Manhattan returns the 4-connected grid distance to o.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Adjacent returns the in-bounds 4-neighbors of c on an n×n grid, in a fixed
// east, west, north, south order. Out-of-grid neighbors are omitted, never
// represented as false atoms.
func Adjacent(c Coord, n int) []Coord {
	deltas := [4]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	out := make([]Coord, 0, 4)
	for _, d := range deltas {
		nb := Coord{c.X + d.X, c.Y + d.Y}
		if nb.In(n) {
			out = append(out, nb)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Kind identifies a hazard or percept variable attached to a cell.
type Kind uint8

const (
	Pit Kind = iota
	Wumpus
	Breeze
	Stench
	Glitter
	// Dead marks the wumpus occupying a cell as killed. Placement atoms are
	// static — stench axioms keep holding for a corpse — so death is a
	// separate monotone fact rather than a retraction of Wumpus(c).
	Dead
)

var kindLetters = [...]string{"P", "W", "B", "S", "G", "D"}

// String returns the single-letter tag used in clause text.
func (k Kind) String() string {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return "?"
}

// Tristate is the result of an entailment query.
type Tristate uint8

const (
	Unknown Tristate = iota
	True
	False
)

// String implements fmt.Stringer.
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Atom is a propositional variable: a hazard kind at a cell.
type Atom struct {
	Kind Kind
	At   Coord
}

// String renders the atom as e.g. "P(1,2)".
func (a Atom) String() string {
	return a.Kind.String() + a.At.String()
}

func (a Atom) less(b Atom) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.At.X != b.At.X {
		return a.At.X < b.At.X
	}
	return a.At.Y < b.At.Y
}

// Literal is a signed atom.
type Literal struct {
	Atom Atom
	Neg  bool
}

// PitAt returns the positive pit literal for a cell.
func PitAt(c Coord) Literal { return Literal{Atom: Atom{Kind: Pit, At: c}} }

// WumpusAt returns the positive wumpus literal for a cell.
func WumpusAt(c Coord) Literal { return Literal{Atom: Atom{Kind: Wumpus, At: c}} }

// BreezeAt returns the positive breeze literal for a cell.
func BreezeAt(c Coord) Literal { return Literal{Atom: Atom{Kind: Breeze, At: c}} }

// StenchAt returns the positive stench literal for a cell.
func StenchAt(c Coord) Literal { return Literal{Atom: Atom{Kind: Stench, At: c}} }

// GlitterAt returns the positive glitter literal for a cell.
func GlitterAt(c Coord) Literal { return Literal{Atom: Atom{Kind: Glitter, At: c}} }

// DeadAt returns the positive dead-wumpus literal for a cell.
func DeadAt(c Coord) Literal { return Literal{Atom: Atom{Kind: Dead, At: c}} }

// Not returns l with the opposite polarity.
func (l Literal) Not() Literal {
	l.Neg = !l.Neg
	return l
}

// String renders the literal as "P(1,2)" or "!P(1,2)".
func (l Literal) String() string {
	if l.Neg {
		return "!" + l.Atom.String()
	}
	return l.Atom.String()
}

func (l Literal) less(o Literal) bool {
	if l.Atom != o.Atom {
		return l.Atom.less(o.Atom)
	}
	return !l.Neg && o.Neg
}
