package logic

import (
	"fmt"
	"sort"
	"strings"
)

// Clause is a disjunction of literals. The literal slice is sorted and
// deduplicated on construction and never mutated afterwards, so two clauses
// with the same logical content always have the same Key.
type Clause struct {
	lits []Literal
}

// NewClause builds a normalized clause from the given literals.
func NewClause(lits ...Literal) Clause {
	if len(lits) == 0 {
		return Clause{}
	}
	sorted := make([]Literal, len(lits))
	copy(sorted, lits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })

	out := sorted[:1]
	for _, l := range sorted[1:] {
		if l != out[len(out)-1] {
			out = append(out, l)
		}
	}
	return Clause{lits: out}
}

// Unit wraps a single literal as a clause.
func Unit(l Literal) Clause {
	return Clause{lits: []Literal{l}}
}

// Literals returns a copy of the clause's literals in canonical order.
func (c Clause) Literals() []Literal {
	out := make([]Literal, len(c.lits))
	copy(out, c.lits)
	return out
}

// Len returns the number of literals.
func (c Clause) Len() int { return len(c.lits) }

// Empty reports whether the clause has no literals. An empty clause is
// unsatisfiable.
func (c Clause) Empty() bool { return len(c.lits) == 0 }

// IsUnit reports whether the clause holds exactly one literal.
func (c Clause) IsUnit() bool { return len(c.lits) == 1 }

// Unit returns the single literal of a unit clause.
func (c Clause) Unit() (Literal, bool) {
	if len(c.lits) != 1 {
		return Literal{}, false
	}
	return c.lits[0], true
}

// Has reports whether the clause contains the exact literal.
func (c Clause) Has(l Literal) bool {
	for _, cl := range c.lits {
		if cl == l {
			return true
		}
	}
	return false
}

// IsTautology reports whether the clause contains a literal and its negation.
func (c Clause) IsTautology() bool {
	// canonical order puts the two polarities of an atom next to each other
	for i := 1; i < len(c.lits); i++ {
		if c.lits[i].Atom == c.lits[i-1].Atom && c.lits[i].Neg != c.lits[i-1].Neg {
			return true
		}
	}
	return false
}

// Remove returns a clause without the given literal.
func (c Clause) Remove(l Literal) Clause {
	out := make([]Literal, 0, len(c.lits))
	for _, cl := range c.lits {
		if cl != l {
			out = append(out, cl)
		}
	}
	return Clause{lits: out}
}

// Key is the canonical text form, usable as a map key.
func (c Clause) Key() string { return c.String() }

// String renders the clause as literals joined by " | ".
func (c Clause) String() string {
	if len(c.lits) == 0 {
		return ""
	}
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}

// ParseLiteral parses the text form produced by Literal.String.
func ParseLiteral(s string) (Literal, error) {
	orig := s
	var lit Literal
	if strings.HasPrefix(s, "!") {
		lit.Neg = true
		s = s[1:]
	}
	if len(s) < 6 { // shortest is K(0,0)
		return Literal{}, fmt.Errorf("parse literal %q: too short", orig)
	}
	kind := -1
	for k, letter := range kindLetters {
		if s[:1] == letter {
			kind = k
			break
		}
	}
	if kind < 0 {
		return Literal{}, fmt.Errorf("parse literal %q: unknown kind %q", orig, s[:1])
	}
	var x, y int
	if _, err := fmt.Sscanf(s[1:], "(%d,%d)", &x, &y); err != nil {
		return Literal{}, fmt.Errorf("parse literal %q: %w", orig, err)
	}
	lit.Atom = Atom{Kind: Kind(kind), At: Coord{x, y}}
	return lit, nil
}

// ParseClause parses the text form produced by Clause.String.
func ParseClause(s string) (Clause, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clause{}, nil
	}
	parts := strings.Split(s, "|")
	lits := make([]Literal, 0, len(parts))
	for _, p := range parts {
		lit, err := ParseLiteral(strings.TrimSpace(p))
		if err != nil {
			return Clause{}, err
		}
		lits = append(lits, lit)
	}
	return NewClause(lits...), nil
}
