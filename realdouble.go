package gosymcore

import (
	"cmp"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// RealDouble — inexact float64 value
// ============================================================

type RealDouble struct {
	f    float64
	hash uint64
}

// NewRealDouble returns the inexact number f.
func NewRealDouble(f float64) *RealDouble {
	bits := math.Float64bits(f)
	switch {
	case f == 0:
		bits = 0
	case math.IsNaN(f):
		bits = 0x7ff8000000000001
	}
	seed := uint64(TypeRealDouble)
	hashCombine(&seed, bits)
	return &RealDouble{f: f, hash: seed}
}

func (n *RealDouble) TypeID() TypeID     { return TypeRealDouble }
func (n *RealDouble) Hash() uint64       { return n.hash }
func (n *RealDouble) Args() []Basic      { return nil }
func (n *RealDouble) Accept(v Visitor)   { v.VisitRealDouble(n) }
func (n *RealDouble) Float64() float64   { return n.f }
func (n *RealDouble) IsZero() bool       { return n.f == 0 }
func (n *RealDouble) IsOne() bool        { return false }
func (n *RealDouble) IsMinusOne() bool   { return false }
func (n *RealDouble) IsNegative() bool   { return n.f < 0 }
func (n *RealDouble) IsPositive() bool   { return n.f > 0 }
func (n *RealDouble) IsExact() bool      { return false }
func (n *RealDouble) diff(*Symbol) Basic { return Zero }

func (n *RealDouble) subs(m *Dict[Basic]) Basic { return subsAtom(n, m) }

func (n *RealDouble) Equal(other Basic) bool {
	o, ok := other.(*RealDouble)
	return ok && cmp.Compare(n.f, o.f) == 0
}

func (n *RealDouble) compare(other Basic) int {
	return cmp.Compare(n.f, other.(*RealDouble).f)
}

// String always carries a decimal point or exponent, so 2.0 prints
// differently from the Integer 2.
func (n *RealDouble) String() string {
	s := strconv.FormatFloat(n.f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
