package gosymcore

import (
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ============================================================
// Complex — re + im*I with rational parts, im != 0
// ============================================================

type Complex struct {
	re, im *big.Rat
	hash   uint64
}

// ComplexFromRats returns re + im*I. A zero imaginary part yields a
// Rational or Integer.
func ComplexFromRats(re, im *big.Rat) Number {
	return complexFromRats(new(big.Rat).Set(re), new(big.Rat).Set(im))
}

// ComplexFromTwoNums builds re + im*I from two exact real numbers.
func ComplexFromTwoNums(re, im Number) (Number, error) {
	if !isExactReal(re) || !isExactReal(im) {
		return nil, &Error{Kind: NotImplemented, Op: "complex", Msg: "parts must be Integer or Rational"}
	}
	return complexFromRats(ratOf(re), ratOf(im)), nil
}

// complexFromRats takes ownership of re and im.
func complexFromRats(re, im *big.Rat) Number {
	if im.Sign() == 0 {
		return ratToNumber(re)
	}
	c := &Complex{re: re, im: im}
	c.hash = c.computeHash()
	return c
}

func (c *Complex) computeHash() uint64 {
	seed := uint64(TypeComplex)
	hashCombine(&seed, xxhash.Sum64String(c.re.RatString()))
	hashCombine(&seed, xxhash.Sum64String(c.im.RatString()))
	return seed
}

func (c *Complex) TypeID() TypeID     { return TypeComplex }
func (c *Complex) Hash() uint64       { return c.hash }
func (c *Complex) Args() []Basic      { return nil }
func (c *Complex) Accept(v Visitor)   { v.VisitComplex(c) }
func (c *Complex) IsZero() bool       { return false }
func (c *Complex) IsOne() bool        { return false }
func (c *Complex) IsMinusOne() bool   { return false }
func (c *Complex) IsNegative() bool   { return false }
func (c *Complex) IsPositive() bool   { return false }
func (c *Complex) IsExact() bool      { return true }
func (c *Complex) IsReZero() bool     { return c.re.Sign() == 0 }
func (c *Complex) Real() Number       { return ratToNumber(new(big.Rat).Set(c.re)) }
func (c *Complex) Imag() Number       { return ratToNumber(new(big.Rat).Set(c.im)) }
func (c *Complex) diff(*Symbol) Basic { return Zero }

func (c *Complex) subs(m *Dict[Basic]) Basic { return subsAtom(c, m) }

func (c *Complex) Equal(other Basic) bool {
	o, ok := other.(*Complex)
	return ok && c.re.Cmp(o.re) == 0 && c.im.Cmp(o.im) == 0
}

func (c *Complex) compare(other Basic) int {
	o := other.(*Complex)
	if r := c.re.Cmp(o.re); r != 0 {
		return r
	}
	return c.im.Cmp(o.im)
}

func (c *Complex) String() string {
	var sb strings.Builder
	im := c.im
	if c.re.Sign() != 0 {
		sb.WriteString(c.re.RatString())
		if im.Sign() < 0 {
			sb.WriteString(" - ")
			im = new(big.Rat).Neg(im)
		} else {
			sb.WriteString(" + ")
		}
	}
	switch {
	case im.Cmp(big.NewRat(1, 1)) == 0:
	case im.Cmp(big.NewRat(-1, 1)) == 0:
		sb.WriteString("-")
	case im.IsInt():
		sb.WriteString(im.RatString())
		sb.WriteString("*")
	default:
		sb.WriteString("(" + im.RatString() + ")*")
	}
	sb.WriteString("I")
	return sb.String()
}

// powInt raises c to an integer power. A purely imaginary base uses
// (b*I)**n = b**n * I**n.
func (c *Complex) powInt(e *Integer) Number {
	if !e.i.IsInt64() {
		raise(NotImplemented, "pow", "exponent %s is too large", e)
	}
	k := e.i.Int64()
	if c.IsReZero() {
		mag := (&Rational{r: c.im}).powIntRat(k)
		switch ((k % 4) + 4) % 4 {
		case 0:
			return ratToNumber(mag)
		case 1:
			return complexFromRats(new(big.Rat), mag)
		case 2:
			return ratToNumber(mag.Neg(mag))
		default:
			return complexFromRats(new(big.Rat), mag.Neg(mag))
		}
	}
	neg := k < 0
	if neg {
		k = -k
	}
	var result Number = One
	var base Number = c
	for k > 0 {
		if k&1 == 1 {
			result = mulNum(result, base)
		}
		k >>= 1
		if k > 0 {
			base = mulNum(base, base)
		}
	}
	if neg {
		return divNum(One, result)
	}
	return result
}
