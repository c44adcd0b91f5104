package gosymcore

import (
	"math"
	"math/big"
)

// ============================================================
// Number — numeric leaves
// ============================================================

// Number is implemented by Integer, Rational, Complex and RealDouble.
type Number interface {
	Basic
	IsZero() bool
	IsOne() bool
	IsMinusOne() bool
	IsNegative() bool
	IsPositive() bool
	// IsExact is false for floating point values.
	IsExact() bool
}

var (
	Zero     = NewInteger(0)
	One      = NewInteger(1)
	MinusOne = NewInteger(-1)
	Two      = NewInteger(2)
	// I is the imaginary unit.
	I = &Complex{re: new(big.Rat), im: big.NewRat(1, 1)}
)

func init() { I.hash = I.computeHash() }

// IsExactZero reports whether n is an exact zero. 0.0 is not.
func IsExactZero(n Number) bool { return n.IsExact() && n.IsZero() }

func isIntegerOne(b Basic) bool {
	i, ok := b.(*Integer)
	return ok && i.IsOne()
}

func isInteger(b Basic) bool { _, ok := b.(*Integer); return ok }

// isExactReal reports whether b is an Integer or a Rational.
func isExactReal(b Basic) bool {
	switch b.(type) {
	case *Integer, *Rational:
		return true
	}
	return false
}

func isInexact(n Number) bool { return !n.IsExact() }

func isComplex(n Number) bool { _, ok := n.(*Complex); return ok }

// ratOf returns a fresh big.Rat holding an Integer or Rational.
func ratOf(n Number) *big.Rat {
	switch v := n.(type) {
	case *Integer:
		return new(big.Rat).SetInt(v.i)
	case *Rational:
		return new(big.Rat).Set(v.r)
	}
	raise(NotImplemented, "number", "%s is not an exact real", n.TypeID())
	return nil
}

// complexParts returns the real and imaginary parts of an exact number.
func complexParts(n Number) (re, im *big.Rat) {
	if c, ok := n.(*Complex); ok {
		return c.re, c.im
	}
	return ratOf(n), new(big.Rat)
}

// realOf converts a real number to float64. Complex operands with a
// RealDouble have no rule.
func realOf(op string, n Number) float64 {
	switch v := n.(type) {
	case *Integer:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f
	case *Rational:
		f, _ := v.r.Float64()
		return f
	case *RealDouble:
		return v.f
	}
	raise(NotImplemented, op, "RealDouble and Complex arithmetic")
	return 0
}

// ratToNumber collapses r to an Integer when its denominator is one.
// r must not be mutated afterwards.
func ratToNumber(r *big.Rat) Number {
	if r.IsInt() {
		return integerFromBig(new(big.Int).Set(r.Num()))
	}
	return &Rational{r: r, hash: hashRat(r)}
}

// ============================================================
// Arithmetic dispatch
// ============================================================

func addNum(a, b Number) Number {
	if ai, ok := a.(*Integer); ok {
		if bi, ok := b.(*Integer); ok {
			return integerFromBig(new(big.Int).Add(ai.i, bi.i))
		}
	}
	switch {
	case isInexact(a) || isInexact(b):
		return NewRealDouble(realOf("add", a) + realOf("add", b))
	case isComplex(a) || isComplex(b):
		ar, ai := complexParts(a)
		br, bi := complexParts(b)
		return complexFromRats(new(big.Rat).Add(ar, br), new(big.Rat).Add(ai, bi))
	}
	return ratToNumber(new(big.Rat).Add(ratOf(a), ratOf(b)))
}

func subNum(a, b Number) Number { return addNum(a, negNum(b)) }

func negNum(a Number) Number {
	switch v := a.(type) {
	case *Integer:
		return integerFromBig(new(big.Int).Neg(v.i))
	case *Rational:
		return ratToNumber(new(big.Rat).Neg(v.r))
	case *Complex:
		return complexFromRats(new(big.Rat).Neg(v.re), new(big.Rat).Neg(v.im))
	case *RealDouble:
		return NewRealDouble(-v.f)
	}
	return mulNum(MinusOne, a)
}

func mulNum(a, b Number) Number {
	if ai, ok := a.(*Integer); ok {
		if ai.IsOne() {
			return b
		}
		if bi, ok := b.(*Integer); ok {
			return integerFromBig(new(big.Int).Mul(ai.i, bi.i))
		}
	}
	if bi, ok := b.(*Integer); ok && bi.IsOne() {
		return a
	}
	switch {
	case isInexact(a) || isInexact(b):
		return NewRealDouble(realOf("mul", a) * realOf("mul", b))
	case isComplex(a) || isComplex(b):
		ar, ai := complexParts(a)
		br, bi := complexParts(b)
		re := new(big.Rat).Sub(new(big.Rat).Mul(ar, br), new(big.Rat).Mul(ai, bi))
		im := new(big.Rat).Add(new(big.Rat).Mul(ar, bi), new(big.Rat).Mul(ai, br))
		return complexFromRats(re, im)
	}
	return ratToNumber(new(big.Rat).Mul(ratOf(a), ratOf(b)))
}

func divNum(a, b Number) Number {
	if b.IsZero() {
		raise(DivisionByZero, "div", "%s / %s", a, b)
	}
	switch {
	case isInexact(a) || isInexact(b):
		return NewRealDouble(realOf("div", a) / realOf("div", b))
	case isComplex(a) || isComplex(b):
		ar, ai := complexParts(a)
		br, bi := complexParts(b)
		den := new(big.Rat).Add(new(big.Rat).Mul(br, br), new(big.Rat).Mul(bi, bi))
		re := new(big.Rat).Add(new(big.Rat).Mul(ar, br), new(big.Rat).Mul(ai, bi))
		im := new(big.Rat).Sub(new(big.Rat).Mul(ai, br), new(big.Rat).Mul(ar, bi))
		return complexFromRats(re.Quo(re, den), im.Quo(im, den))
	}
	return ratToNumber(new(big.Rat).Quo(ratOf(a), ratOf(b)))
}

// powNum evaluates a**b numerically. Exact bases take Integer exponents
// only; rational exponents on exact bases are handled by pow.
func powNum(a, b Number) Number {
	switch e := b.(type) {
	case *Integer:
		switch base := a.(type) {
		case *Integer:
			return base.powInt(e)
		case *Rational:
			return base.powInt(e)
		case *Complex:
			return base.powInt(e)
		case *RealDouble:
			return realPow(base.f, realOf("pow", e))
		}
	case *RealDouble:
		return realPow(realOf("pow", a), e.f)
	case *Rational:
		if base, ok := a.(*RealDouble); ok {
			return realPow(base.f, realOf("pow", e))
		}
	}
	raise(NotImplemented, "pow", "numeric power %s**%s", a, b)
	return nil
}

func realPow(x, y float64) Number {
	if x == 0 && y < 0 {
		raise(DivisionByZero, "pow", "0.0 raised to %v", y)
	}
	r := math.Pow(x, y)
	if math.IsNaN(r) {
		raise(NotImplemented, "pow", "%v**%v has a complex value", x, y)
	}
	return NewRealDouble(r)
}

// floorDivRat splits a rational e into q + r/den with 0 <= r < den.
func floorDivRat(e *big.Rat) (q *Integer, r *big.Int) {
	qi, ri := new(big.Int).DivMod(e.Num(), e.Denom(), new(big.Int))
	return integerFromBig(qi), ri
}

func newRatFrac(num, den *big.Int) *big.Rat { return new(big.Rat).SetFrac(num, den) }
