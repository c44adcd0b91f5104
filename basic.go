// Package gosymcore is the expression core of a symbolic math engine for Go.
//
// Expressions are immutable trees of Basic nodes. Every node returned by a
// public constructor (AddOf, MulOf, PowOf, Sum, Product, the number
// factories) is in canonical form, so two nodes representing the same
// expression are Equal and hash alike.
//
//   - Exact integer, rational and Gaussian-rational arithmetic (math/big)
//   - Canonical sums and products keyed by structural hash
//   - Multinomial expansion, differentiation and substitution
//   - Deterministic total order and printing
//
// Nodes are safe to share and read from any number of goroutines.
package gosymcore

import (
	"fmt"
	"slices"
)

// ============================================================
// Type tags
// ============================================================

// TypeID orders node variants. Cross-variant comparison is by TypeID.
type TypeID uint8

const (
	TypeInteger TypeID = iota
	TypeRational
	TypeComplex
	TypeRealDouble
	TypeSymbol
	TypeMul
	TypeAdd
	TypePow
	TypeLog
	TypeConstant
	TypeFunction
)

var typeNames = [...]string{
	TypeInteger:    "Integer",
	TypeRational:   "Rational",
	TypeComplex:    "Complex",
	TypeRealDouble: "RealDouble",
	TypeSymbol:     "Symbol",
	TypeMul:        "Mul",
	TypeAdd:        "Add",
	TypePow:        "Pow",
	TypeLog:        "Log",
	TypeConstant:   "Constant",
	TypeFunction:   "Function",
}

func (t TypeID) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TypeID(%d)", t)
}

// ============================================================
// Core Interface
// ============================================================

// Basic is implemented by every expression node. The set of variants is
// closed: the unexported methods keep other packages from adding one.
type Basic interface {
	fmt.Stringer
	TypeID() TypeID
	Hash() uint64
	Equal(other Basic) bool
	// Args returns the children in a deterministic order.
	Args() []Basic
	Accept(v Visitor)

	// compare orders two nodes of the same TypeID.
	compare(other Basic) int
	diff(x *Symbol) Basic
	subs(m *Dict[Basic]) Basic
}

// Visitor has one method per node variant.
type Visitor interface {
	VisitInteger(*Integer)
	VisitRational(*Rational)
	VisitComplex(*Complex)
	VisitRealDouble(*RealDouble)
	VisitSymbol(*Symbol)
	VisitAdd(*Add)
	VisitMul(*Mul)
	VisitPow(*Pow)
	VisitLog(*Log)
	VisitConstant(*Constant)
	VisitFunction(*Function)
}

// Eq reports whether a and b are structurally equal.
func Eq(a, b Basic) bool {
	if a == b {
		return true
	}
	if a.Hash() != b.Hash() {
		return false
	}
	return a.Equal(b)
}

// Compare is the total order on nodes: -1, 0 or +1. It orders by variant
// first and is not a numeric ordering.
func Compare(a, b Basic) int {
	if a == b {
		return 0
	}
	ta, tb := a.TypeID(), b.TypeID()
	if ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}
	return a.compare(b)
}

// Less reports whether a sorts before b.
func Less(a, b Basic) bool { return Compare(a, b) < 0 }

// SortBasics sorts s in place by Compare.
func SortBasics(s []Basic) { slices.SortStableFunc(s, Compare) }

// hashCombine mixes v into seed (boost::hash_combine).
func hashCombine(seed *uint64, v uint64) {
	*seed ^= v + 0x9e3779b9 + (*seed << 6) + (*seed >> 2)
}

// ============================================================
// Public entry points that may fail
// ============================================================

// Diff differentiates b with respect to x.
func Diff(b Basic, x *Symbol) (res Basic, err error) {
	defer catch(&err)
	return b.diff(x), nil
}

// DiffN differentiates b n times with respect to x.
func DiffN(b Basic, x *Symbol, n int) (res Basic, err error) {
	defer catch(&err)
	for i := 0; i < n; i++ {
		b = b.diff(x)
	}
	return b, nil
}

// Subs replaces every occurrence of old in b with value.
func Subs(b, old, value Basic) (Basic, error) {
	m := NewDict[Basic](1)
	m.Set(old, value)
	return SubsDict(b, m)
}

// SubsDict applies all replacements in m simultaneously.
func SubsDict(b Basic, m *Dict[Basic]) (res Basic, err error) {
	defer catch(&err)
	return b.subs(m), nil
}

// FreeSymbols returns the symbols occurring in b, sorted.
func FreeSymbols(b Basic) []*Symbol {
	seen := NewDict[Basic](4)
	var walk func(Basic)
	walk = func(e Basic) {
		if s, ok := e.(*Symbol); ok {
			seen.Set(s, s)
			return
		}
		for _, a := range e.Args() {
			walk(a)
		}
	}
	walk(b)
	out := make([]*Symbol, 0, seen.Len())
	for _, e := range seen.Sorted() {
		out = append(out, e.Key.(*Symbol))
	}
	return out
}

// Has reports whether sub occurs anywhere in b.
func Has(b, sub Basic) bool {
	if Eq(b, sub) {
		return true
	}
	for _, a := range b.Args() {
		if Has(a, sub) {
			return true
		}
	}
	return false
}

// subsLookup returns the replacement for b if m has one.
func subsLookup(b Basic, m *Dict[Basic]) (Basic, bool) {
	return m.Get(b)
}
