package gosymcore

import (
	"math/big"

	"github.com/cespare/xxhash/v2"
)

// ============================================================
// Rational — p/q in lowest terms, q > 1
// ============================================================

type Rational struct {
	r    *big.Rat
	hash uint64
}

// RationalFromTwoInts returns p/q, collapsed to an Integer when q divides p.
func RationalFromTwoInts(p, q int64) (Number, error) {
	if q == 0 {
		return nil, &Error{Kind: DivisionByZero, Op: "rational", Msg: "zero denominator"}
	}
	return ratToNumber(big.NewRat(p, q)), nil
}

// RationalFromBig copies r, collapsing to an Integer when possible.
func RationalFromBig(r *big.Rat) Number { return ratToNumber(new(big.Rat).Set(r)) }

// F returns p/q and panics if q is zero. It is meant for literals.
func F(p, q int64) Number {
	n, err := RationalFromTwoInts(p, q)
	if err != nil {
		panic(err)
	}
	return n
}

func hashRat(r *big.Rat) uint64 {
	seed := uint64(TypeRational)
	hashCombine(&seed, xxhash.Sum64String(r.RatString()))
	return seed
}

func (n *Rational) TypeID() TypeID         { return TypeRational }
func (n *Rational) Hash() uint64           { return n.hash }
func (n *Rational) Args() []Basic          { return nil }
func (n *Rational) Accept(v Visitor)       { v.VisitRational(n) }
func (n *Rational) String() string         { return n.r.RatString() }
func (n *Rational) IsZero() bool           { return false }
func (n *Rational) IsOne() bool            { return false }
func (n *Rational) IsMinusOne() bool       { return false }
func (n *Rational) IsNegative() bool       { return n.r.Sign() < 0 }
func (n *Rational) IsPositive() bool       { return n.r.Sign() > 0 }
func (n *Rational) IsExact() bool          { return true }
func (n *Rational) Rat() *big.Rat          { return new(big.Rat).Set(n.r) }
func (n *Rational) Num() *Integer          { return IntegerFromBig(n.r.Num()) }
func (n *Rational) Den() *Integer          { return IntegerFromBig(n.r.Denom()) }
func (n *Rational) diff(*Symbol) Basic     { return Zero }
func (n *Rational) compare(o Basic) int    { return n.r.Cmp(o.(*Rational).r) }

func (n *Rational) subs(m *Dict[Basic]) Basic { return subsAtom(n, m) }

func (n *Rational) Equal(other Basic) bool {
	o, ok := other.(*Rational)
	return ok && n.r.Cmp(o.r) == 0
}

// isProperFraction reports whether 0 < n < 1.
func (n *Rational) isProperFraction() bool {
	return n.r.Sign() > 0 && n.r.Num().Cmp(n.r.Denom()) < 0
}

func (n *Rational) powInt(e *Integer) Number {
	if !e.i.IsInt64() {
		raise(NotImplemented, "pow", "exponent %s is too large", e)
	}
	return ratToNumber(n.powIntRat(e.i.Int64()))
}

// powIntRat computes r**k as a fresh big.Rat; r must be nonzero.
func (n *Rational) powIntRat(k int64) *big.Rat {
	neg := k < 0
	if neg {
		k = -k
	}
	num := new(big.Int).Exp(n.r.Num(), big.NewInt(k), nil)
	den := new(big.Int).Exp(n.r.Denom(), big.NewInt(k), nil)
	if neg {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}
