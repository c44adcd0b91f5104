package gosymcore

import (
	"math/big"

	"github.com/cespare/xxhash/v2"
)

// ============================================================
// Integer — arbitrary precision integer
// ============================================================

type Integer struct {
	i    *big.Int
	hash uint64
}

// NewInteger returns the Integer n.
func NewInteger(n int64) *Integer { return integerFromBig(big.NewInt(n)) }

// N is shorthand for NewInteger.
func N(n int64) *Integer { return NewInteger(n) }

// IntegerFromBig copies x into a new Integer.
func IntegerFromBig(x *big.Int) *Integer { return integerFromBig(new(big.Int).Set(x)) }

// integerFromBig takes ownership of x.
func integerFromBig(x *big.Int) *Integer {
	n := &Integer{i: x}
	n.hash = hashBigInt(uint64(TypeInteger), x)
	return n
}

func hashBigInt(seed uint64, x *big.Int) uint64 {
	hashCombine(&seed, xxhash.Sum64(x.Bytes()))
	hashCombine(&seed, uint64(x.Sign()+1))
	return seed
}

func (n *Integer) TypeID() TypeID         { return TypeInteger }
func (n *Integer) Hash() uint64           { return n.hash }
func (n *Integer) Args() []Basic          { return nil }
func (n *Integer) Accept(v Visitor)       { v.VisitInteger(n) }
func (n *Integer) String() string         { return n.i.String() }
func (n *Integer) IsZero() bool           { return n.i.Sign() == 0 }
func (n *Integer) IsOne() bool            { return n.i.IsInt64() && n.i.Int64() == 1 }
func (n *Integer) IsMinusOne() bool       { return n.i.IsInt64() && n.i.Int64() == -1 }
func (n *Integer) IsNegative() bool       { return n.i.Sign() < 0 }
func (n *Integer) IsPositive() bool       { return n.i.Sign() > 0 }
func (n *Integer) IsExact() bool          { return true }
func (n *Integer) Sign() int              { return n.i.Sign() }
func (n *Integer) BigInt() *big.Int       { return new(big.Int).Set(n.i) }
func (n *Integer) diff(*Symbol) Basic     { return Zero }
func (n *Integer) compare(o Basic) int    { return n.i.Cmp(o.(*Integer).i) }

func (n *Integer) subs(m *Dict[Basic]) Basic { return subsAtom(n, m) }

func (n *Integer) Equal(other Basic) bool {
	o, ok := other.(*Integer)
	return ok && n.i.Cmp(o.i) == 0
}

// Int64 returns the value and whether it fits in an int64.
func (n *Integer) Int64() (int64, bool) { return n.i.Int64(), n.i.IsInt64() }

func (n *Integer) isEven() bool { return n.i.Bit(0) == 0 }

func (n *Integer) powInt(e *Integer) Number {
	if !e.i.IsInt64() {
		raise(NotImplemented, "pow", "exponent %s is too large", e)
	}
	k := e.i.Int64()
	if k >= 0 {
		return integerFromBig(new(big.Int).Exp(n.i, big.NewInt(k), nil))
	}
	if n.IsZero() {
		raise(DivisionByZero, "pow", "0**%d", k)
	}
	den := new(big.Int).Exp(n.i, big.NewInt(-k), nil)
	return ratToNumber(new(big.Rat).SetFrac(big.NewInt(1), den))
}

// subsAtom handles substitution for leaves.
func subsAtom(b Basic, m *Dict[Basic]) Basic {
	if v, ok := subsLookup(b, m); ok {
		return v
	}
	return b
}
