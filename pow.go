package gosymcore

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"
)

// ============================================================
// Pow — base**exp
// ============================================================

// Pow is a canonical power. Construct one with PowOf.
type Pow struct {
	base, exp Basic
	hash      uint64
}

func newPow(base, exp Basic) *Pow {
	if checkCanonical && !isCanonicalPow(base, exp) {
		panic("gosymcore: non-canonical Pow " + (&Pow{base: base, exp: exp}).String())
	}
	seed := uint64(TypePow)
	hashCombine(&seed, base.Hash())
	hashCombine(&seed, exp.Hash())
	return &Pow{base: base, exp: exp, hash: seed}
}

func isCanonicalPow(base, exp Basic) bool {
	if i, ok := base.(*Integer); ok && (i.IsZero() || i.IsOne()) {
		return false
	}
	if en, ok := exp.(Number); ok && en.IsZero() {
		return false
	}
	if isIntegerOne(exp) {
		return false
	}
	if isInteger(exp) {
		switch base.(type) {
		case *Integer, *Rational, *Complex, *Mul, *Pow, *RealDouble:
			return false
		}
	}
	if r, ok := exp.(*Rational); ok && isExactReal(base) && !r.isProperFraction() {
		return false
	}
	bn, bnum := base.(Number)
	en, enum := exp.(Number)
	if bnum && enum && (!bn.IsExact() || (!en.IsExact() && !isComplex(bn))) {
		return false
	}
	return true
}

func (p *Pow) TypeID() TypeID   { return TypePow }
func (p *Pow) Hash() uint64     { return p.hash }
func (p *Pow) Accept(v Visitor) { v.VisitPow(p) }
func (p *Pow) Args() []Basic    { return []Basic{p.base, p.exp} }
func (p *Pow) Base() Basic      { return p.base }
func (p *Pow) Exp() Basic       { return p.exp }

func (p *Pow) Equal(other Basic) bool {
	o, ok := other.(*Pow)
	return ok && Eq(p.base, o.base) && Eq(p.exp, o.exp)
}

func (p *Pow) compare(other Basic) int {
	o := other.(*Pow)
	if c := Compare(p.base, o.base); c != 0 {
		return c
	}
	return Compare(p.exp, o.exp)
}

func (p *Pow) diff(x *Symbol) Basic {
	if en, ok := p.exp.(Number); ok {
		return MulOf(MulOf(en, pow(p.base, subNum(en, One))), p.base.diff(x))
	}
	return MulOf(p, MulOf(p.exp, log(p.base)).diff(x))
}

func (p *Pow) subs(m *Dict[Basic]) Basic {
	if v, ok := subsLookup(p, m); ok {
		return v
	}
	base, exp := p.base.subs(m), p.exp.subs(m)
	if base == p.base && exp == p.exp {
		return p
	}
	return pow(base, exp)
}

// ============================================================
// Reduction rules
// ============================================================

// PowOf returns the canonical form of a**b. Zero raised to a negative
// power is a DivisionByZero error.
func PowOf(a, b Basic) (res Basic, err error) {
	defer catch(&err)
	return pow(a, b), nil
}

// Exp returns E**x.
func Exp(x Basic) Basic { return pow(E, x) }

// Sqrt returns x**(1/2).
func Sqrt(x Basic) (Basic, error) { return PowOf(x, half) }

var half = F(1, 2)

func pow(a, b Basic) Basic {
	bn, bnum := b.(Number)
	if bnum && bn.IsZero() {
		return powNum(bn, Zero)
	}
	if isIntegerOne(b) {
		return a
	}
	if an, ok := a.(Number); ok && IsExactZero(an) {
		if bnum && bn.IsNegative() {
			raise(DivisionByZero, "pow", "0**%s", b)
		}
		return Zero
	}
	if isIntegerOne(a) {
		return One
	}
	if an, ok := a.(*Integer); ok && an.IsMinusOne() {
		if e, ok := b.(*Integer); ok {
			if e.isEven() {
				return One
			}
			return MinusOne
		}
		if Eq(b, half) {
			return I
		}
	}
	an, anum := a.(Number)
	if anum && bnum {
		return powNumbers(an, bn)
	}
	if m, ok := a.(*Mul); ok && bnum {
		var coef Number = One
		d := NewDict[Basic](m.dict.Len())
		m.powerNum(&coef, d, bn)
		return MulFromDict(coef, d)
	}
	if p, ok := a.(*Pow); ok && isInteger(b) {
		return pow(p.base, MulOf(p.exp, b))
	}
	return newPow(a, b)
}

func powNumbers(a, b Number) Basic {
	switch e := b.(type) {
	case *Integer:
		return powNum(a, e)
	case *Rational:
		if e.isProperFraction() {
			if !a.IsExact() {
				return powNum(a, e)
			}
			return newPow(a, e)
		}
		q, r := floorDivRat(e.r)
		rem := ratToNumber(newRatFrac(r, e.r.Denom()))
		switch base := a.(type) {
		case *Integer:
			frac := powNum(base, q)
			d := NewDict[Basic](1)
			mulDictSurd(&frac, d, base, rem)
			return MulFromDict(frac, d)
		case *Rational:
			frac := divNum(powNum(base, q), base.Den())
			surds := MulOf(pow(base.Num(), rem), pow(base.Den(), subNum(One, rem)))
			return MulOf(frac, surds)
		case *Complex:
			return newPow(a, b)
		}
		return powNum(a, e)
	case *Complex:
		if !a.IsExact() {
			raise(NotImplemented, "pow", "RealDouble raised to Complex %s", e)
		}
		return newPow(a, b)
	}
	return powNum(a, b)
}

// ============================================================
// Multinomial coefficients
// ============================================================

// MultinomialTerm is one exponent tuple of a multinomial expansion with
// its coefficient.
type MultinomialTerm struct {
	Exponents []int
	Coef      int64
}

// MultinomialCoefficients returns the terms of (x1 + ... + xm)**n.
// Coefficients overflow silently for large n; use
// MultinomialCoefficientsBig there.
func MultinomialCoefficients(m, n int) ([]MultinomialTerm, error) {
	var out []MultinomialTerm
	err := multinomial(m, n, int64Coeffs{}, func(t []int, c int64) {
		out = append(out, MultinomialTerm{Exponents: t, Coef: c})
	})
	return out, err
}

// MultinomialTermBig is MultinomialTerm with an arbitrary precision
// coefficient.
type MultinomialTermBig struct {
	Exponents []int
	Coef      *big.Int
}

// MultinomialCoefficientsBig is MultinomialCoefficients without overflow.
// Both return the same exponent tuples in the same order.
func MultinomialCoefficientsBig(m, n int) ([]MultinomialTermBig, error) {
	var out []MultinomialTermBig
	err := multinomial(m, n, bigCoeffs{}, func(t []int, c *big.Int) {
		out = append(out, MultinomialTermBig{Exponents: t, Coef: c})
	})
	return out, err
}

type coeffArith[T any] interface {
	zero() T
	one() T
	add(a, b T) T
	// scale returns v*mul/div; the division is exact.
	scale(v T, mul, div int) T
}

type int64Coeffs struct{}

func (int64Coeffs) zero() int64                       { return 0 }
func (int64Coeffs) one() int64                        { return 1 }
func (int64Coeffs) add(a, b int64) int64              { return a + b }
func (int64Coeffs) scale(v int64, mul, div int) int64 { return v * int64(mul) / int64(div) }

type bigCoeffs struct{}

func (bigCoeffs) zero() *big.Int             { return new(big.Int) }
func (bigCoeffs) one() *big.Int              { return big.NewInt(1) }
func (bigCoeffs) add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }

func (bigCoeffs) scale(v *big.Int, mul, div int) *big.Int {
	r := new(big.Int).Mul(v, big.NewInt(int64(mul)))
	return r.Quo(r, big.NewInt(int64(div)))
}

// multinomial enumerates the exponent tuples of an m-term, degree-n
// expansion by stepping from one composition of n to the next and
// deriving each coefficient from previously emitted neighbours.
func multinomial[T any](m, n int, ar coeffArith[T], emit func([]int, T)) error {
	if m < 2 {
		return &Error{Kind: DomainError, Op: "multinomial", Msg: fmt.Sprintf("need at least 2 terms, got %d", m)}
	}
	if n < 0 {
		return &Error{Kind: DomainError, Op: "multinomial", Msg: fmt.Sprintf("negative degree %d", n)}
	}
	t := make([]int, m)
	t[0] = n
	seen := make(map[string]T)
	var buf []byte
	key := func() string {
		buf = buf[:0]
		for _, x := range t {
			buf = strconv.AppendInt(buf, int64(x), 10)
			buf = append(buf, ',')
		}
		return string(buf)
	}
	get := func() T {
		if v, ok := seen[key()]; ok {
			return v
		}
		return ar.zero()
	}
	put := func(v T) {
		seen[key()] = v
		emit(slices.Clone(t), v)
	}

	put(ar.one())
	if n == 0 {
		return nil
	}
	j := 0
	for j < m-1 {
		tj := t[j]
		if j != 0 {
			t[j] = 0
			t[0] = tj
		}
		var start int
		v := ar.zero()
		if tj > 1 {
			t[j+1]++
			j = 0
			start = 1
		} else {
			j++
			start = j + 1
			v = get()
			t[j]++
		}
		for k := start; k < m; k++ {
			if t[k] > 0 {
				t[k]--
				v = ar.add(v, get())
				t[k]++
			}
		}
		t[0]--
		put(ar.scale(v, tj, n-t[0]))
	}
	return nil
}
