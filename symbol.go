package gosymcore

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ============================================================
// Symbol — named variable
// ============================================================

type Symbol struct {
	name string
	hash uint64
}

// NewSymbol returns the symbol called name. Symbols with the same name
// are equal; they need not be the same pointer.
func NewSymbol(name string) *Symbol {
	seed := uint64(TypeSymbol)
	hashCombine(&seed, xxhash.Sum64String(name))
	return &Symbol{name: name, hash: seed}
}

// S is shorthand for NewSymbol.
func S(name string) *Symbol { return NewSymbol(name) }

// Symbols returns one symbol per whitespace-separated name.
func Symbols(names string) []*Symbol {
	fields := strings.Fields(names)
	out := make([]*Symbol, len(fields))
	for i, f := range fields {
		out[i] = NewSymbol(f)
	}
	return out
}

func (s *Symbol) TypeID() TypeID   { return TypeSymbol }
func (s *Symbol) Hash() uint64     { return s.hash }
func (s *Symbol) Args() []Basic    { return nil }
func (s *Symbol) Accept(v Visitor) { v.VisitSymbol(s) }
func (s *Symbol) String() string   { return s.name }
func (s *Symbol) Name() string     { return s.name }

func (s *Symbol) Equal(other Basic) bool {
	o, ok := other.(*Symbol)
	return ok && s.name == o.name
}

func (s *Symbol) compare(other Basic) int {
	return strings.Compare(s.name, other.(*Symbol).name)
}

func (s *Symbol) diff(x *Symbol) Basic {
	if s.name == x.name {
		return One
	}
	return Zero
}

func (s *Symbol) subs(m *Dict[Basic]) Basic { return subsAtom(s, m) }
