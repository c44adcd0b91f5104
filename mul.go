package gosymcore

import (
	"slices"
	"sync"
)

// ============================================================
// Mul — coef * Π base**exp
// ============================================================

// Mul is a canonical product. Construct one with MulOf, Product or
// MulFromDict.
type Mul struct {
	coef Number
	dict *Dict[Basic]
	hash uint64

	sortOnce sync.Once
	sorted   []Entry[Basic]
}

func newMul(coef Number, d *Dict[Basic]) *Mul {
	if checkCanonical && !isCanonicalMul(coef, d) {
		panic("gosymcore: non-canonical Mul " + (&Mul{coef: coef, dict: d}).String())
	}
	m := &Mul{coef: coef, dict: d}
	seed := uint64(TypeMul)
	hashCombine(&seed, coef.Hash())
	hashEntries(&seed, d)
	m.hash = seed
	return m
}

func isCanonicalMul(coef Number, d *Dict[Basic]) bool {
	if coef.IsZero() || d.Len() == 0 {
		return false
	}
	if d.Len() == 1 && isIntegerOne(coef) {
		return false
	}
	ok := true
	d.Range(func(k Basic, v Basic) bool {
		ok = isCanonicalFactor(coef, k, v)
		return ok
	})
	return ok
}

func isCanonicalFactor(coef Number, k, v Basic) bool {
	if isExactReal(k) && isInteger(v) {
		return false
	}
	if i, isInt := k.(*Integer); isInt && (i.IsZero() || i.IsOne()) {
		return false
	}
	if vn, ok := v.(Number); ok && vn.IsZero() {
		return false
	}
	if i, ok := k.(*Integer); ok && i.IsMinusOne() && Eq(v, half) {
		return false
	}
	switch key := k.(type) {
	case *Mul:
		if isInteger(v) {
			return false
		}
		// A complex coefficient cannot be pulled out of a fractional power.
		if _, num := v.(Number); num && !key.coef.IsOne() && !key.coef.IsMinusOne() && !isComplex(key.coef) {
			return false
		}
	case *Pow:
		if isInteger(v) {
			return false
		}
	}
	if kn, ok := k.(Number); ok && !kn.IsExact() {
		if vn, ok := v.(Number); ok && !vn.IsExact() {
			return false
		}
	}
	return true
}

func (m *Mul) TypeID() TypeID   { return TypeMul }
func (m *Mul) Hash() uint64     { return m.hash }
func (m *Mul) Accept(v Visitor) { v.VisitMul(m) }

// Coef returns the numeric factor.
func (m *Mul) Coef() Number { return m.coef }

// Dict returns a copy of the base -> exponent map.
func (m *Mul) Dict() *Dict[Basic] { return m.dict.Clone() }

// Factors returns the base -> exponent pairs sorted by base.
func (m *Mul) Factors() []Entry[Basic] { return slices.Clone(m.factors()) }

func (m *Mul) factors() []Entry[Basic] {
	m.sortOnce.Do(func() { m.sorted = m.dict.Sorted() })
	return m.sorted
}

func (m *Mul) Equal(other Basic) bool {
	o, ok := other.(*Mul)
	return ok && Eq(m.coef, o.coef) && MapsEqual(m.dict, o.dict)
}

func (m *Mul) compare(other Basic) int {
	o := other.(*Mul)
	if la, lb := m.dict.Len(), o.dict.Len(); la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	if c := Compare(m.coef, o.coef); c != 0 {
		return c
	}
	return compareSortedEntries(m.factors(), o.factors())
}

// Args returns the coefficient (when not one) followed by each factor.
func (m *Mul) Args() []Basic {
	out := make([]Basic, 0, m.dict.Len()+1)
	if !isIntegerOne(m.coef) {
		out = append(out, m.coef)
	}
	for _, e := range m.factors() {
		out = append(out, factorPow(e.Key, e.Value))
	}
	return out
}

// AsTwoTerms splits m into its first factor and the product of the rest.
func (m *Mul) AsTwoTerms() (Basic, Basic) {
	fs := m.factors()
	rest := m.dict.Clone()
	rest.Delete(fs[0].Key)
	return factorPow(fs[0].Key, fs[0].Value), MulFromDict(m.coef, rest)
}

// factorPow rebuilds base**exp for an entry of a canonical Mul.
func factorPow(base, exp Basic) Basic {
	if isIntegerOne(exp) {
		return base
	}
	return newPow(base, exp)
}

// ============================================================
// Canonicalizing factories
// ============================================================

// MulFromDict returns the canonical node for coef * Π d. It takes
// ownership of d.
func MulFromDict(coef Number, d *Dict[Basic]) Basic {
	if coef.IsZero() || d.Len() == 0 {
		return coef
	}
	if d.Len() == 1 {
		e := d.entries[0]
		if isInteger(e.Value) {
			if isIntegerOne(coef) {
				if isIntegerOne(e.Value) {
					return e.Key
				}
			} else {
				return newMul(coef, d)
			}
		}
		if isIntegerOne(coef) {
			if isIntegerOne(e.Value) {
				return e.Key
			}
			return newPow(e.Key, e.Value)
		}
	}
	return newMul(coef, d)
}

// MulDictAddTerm multiplies t**exp into (coef, d). Numeric bases are
// folded into coef wherever the power evaluates exactly; this is the
// only place exponents of a product are accumulated.
func MulDictAddTerm(coef *Number, d *Dict[Basic], exp, t Basic) {
	cur, ok := d.Get(t)
	if !ok {
		mulDictInsert(coef, d, exp, t)
		return
	}
	var sum Basic
	if cn, ok := cur.(Number); ok {
		if en, ok := exp.(Number); ok {
			sum = addNum(cn, en)
		}
	}
	if sum == nil {
		sum = AddOf(cur, exp)
	}
	d.Set(t, sum)

	switch s := sum.(type) {
	case *Integer:
		if isExactReal(t) {
			if !s.IsZero() {
				*coef = mulNum(*coef, powNum(t.(Number), s))
			}
			d.Delete(t)
			return
		}
		if s.IsZero() {
			d.Delete(t)
			return
		}
		if p, ok := t.(*Pow); ok {
			d.Delete(t)
			MulDictAddTerm(coef, d, MulOf(p.exp, s), p.base)
			return
		}
		if c, ok := t.(*Complex); ok {
			switch {
			case s.IsOne():
				*coef = mulNum(*coef, c)
				d.Delete(t)
			case s.IsMinusOne():
				*coef = divNum(*coef, c)
				d.Delete(t)
			}
			return
		}
	case *Rational:
		if tn, ok := t.(Number); ok {
			rem := Number(s)
			if !s.isProperFraction() {
				q, r := floorDivRat(s.r)
				rem = ratToNumber(newRatFrac(r, s.r.Denom()))
				*coef = mulNum(*coef, powNum(tn, q))
			}
			mulDictSurd(coef, d, t, rem)
			return
		}
	}
	sn, ok := sum.(Number)
	if !ok {
		return
	}
	if sn.IsZero() {
		*coef = mulNum(*coef, powNum(sn, Zero))
		d.Delete(t)
		return
	}
	if m, ok := t.(*Mul); ok {
		if isInteger(sn) || (!m.coef.IsOne() && !m.coef.IsMinusOne() && !isComplex(m.coef)) {
			d.Delete(t)
			m.powerNum(coef, d, sn)
		}
	}
}

// mulDictInsert handles a base not yet present in d.
func mulDictInsert(coef *Number, d *Dict[Basic], exp, t Basic) {
	if p, ok := t.(*Pow); ok && isInteger(exp) {
		MulDictAddTerm(coef, d, MulOf(p.exp, exp), p.base)
		return
	}
	switch {
	case isExactReal(t):
		tn := t.(Number)
		switch e := exp.(type) {
		case *Integer:
			*coef = mulNum(*coef, powNum(tn, e))
			return
		case *Rational:
			q, r := floorDivRat(e.r)
			*coef = mulNum(*coef, powNum(tn, q))
			mulDictSurd(coef, d, t, ratToNumber(newRatFrac(r, e.r.Denom())))
			return
		}
	case isComplex(asNumber(t)):
		if e, ok := exp.(*Integer); ok {
			switch {
			case e.IsOne():
				*coef = mulNum(*coef, t.(Number))
				return
			case e.IsMinusOne():
				*coef = divNum(*coef, t.(Number))
				return
			}
		}
	}
	d.Set(t, exp)
}

// mulDictSurd stores t**rem for a proper fraction rem. (-1)**(1/2) goes
// into coef as I.
func mulDictSurd(coef *Number, d *Dict[Basic], t Basic, rem Number) {
	if i, ok := t.(*Integer); ok && i.IsMinusOne() && Eq(rem, half) {
		*coef = mulNum(*coef, I)
		d.Delete(t)
		return
	}
	d.Set(t, rem)
}

func asNumber(b Basic) Number {
	if n, ok := b.(Number); ok {
		return n
	}
	return Zero
}

// AsBaseExp splits b into (exp, base) with base**exp == b. Proper
// fractions become (den/num)**-1 so 1/3 shares a base with 3.
func AsBaseExp(b Basic) (exp, base Basic) {
	switch v := b.(type) {
	case *Rational:
		if v.r.Num().CmpAbs(v.r.Denom()) < 0 {
			return MinusOne, divNum(One, v)
		}
		return One, v
	case Number:
		return One, v
	case *Pow:
		return v.exp, v.base
	}
	return One, b
}

// powerNum multiplies m**exp into (coef, d).
func (m *Mul) powerNum(coef *Number, d *Dict[Basic], exp Number) {
	if exp.IsZero() {
		*coef = mulNum(*coef, powNum(exp, Zero))
		return
	}
	var newCoef Basic
	if e, ok := exp.(*Integer); ok {
		newCoef = pow(m.coef, e)
		for _, f := range m.factors() {
			ne := MulOf(f.Value, e)
			if k, ok := f.Key.(*Mul); ok && isInteger(ne) {
				k.powerNum(coef, d, ne.(Number))
			} else {
				MulDictAddTerm(coef, d, ne, f.Key)
			}
		}
	} else {
		switch {
		case m.coef.IsNegative():
			newCoef = pow(negNum(m.coef), exp)
			MulDictAddTerm(coef, d, exp, MulFromDict(MinusOne, m.dict.Clone()))
		case m.coef.IsPositive():
			newCoef = pow(m.coef, exp)
			MulDictAddTerm(coef, d, exp, MulFromDict(One, m.dict.Clone()))
		default:
			newCoef = One
			MulDictAddTerm(coef, d, exp, m)
		}
	}
	mulFold(coef, d, newCoef)
}

// mulFold multiplies an arbitrary factor into (coef, d).
func mulFold(coef *Number, d *Dict[Basic], b Basic) {
	switch v := b.(type) {
	case Number:
		*coef = mulNum(*coef, v)
	case *Mul:
		*coef = mulNum(*coef, v.coef)
		v.dict.Range(func(k, e Basic) bool {
			MulDictAddTerm(coef, d, e, k)
			return true
		})
	default:
		e, t := AsBaseExp(b)
		MulDictAddTerm(coef, d, e, t)
	}
}

// MulOf returns the canonical form of a * b.
func MulOf(a, b Basic) Basic {
	am, aok := a.(*Mul)
	bm, bok := b.(*Mul)
	var coef Number = One
	var d *Dict[Basic]
	switch {
	case aok && bok:
		coef = mulNum(am.coef, bm.coef)
		d = am.dict.Clone()
		bm.dict.Range(func(k, e Basic) bool {
			MulDictAddTerm(&coef, d, e, k)
			return true
		})
	case aok:
		coef = am.coef
		d = am.dict.Clone()
		mulFoldOne(&coef, d, b)
	case bok:
		coef = bm.coef
		d = bm.dict.Clone()
		mulFoldOne(&coef, d, a)
	default:
		d = NewDict[Basic](2)
		mulFoldOne(&coef, d, a)
		mulFoldOne(&coef, d, b)
	}
	return MulFromDict(coef, d)
}

// mulFoldOne multiplies a non-Mul operand into (coef, d).
func mulFoldOne(coef *Number, d *Dict[Basic], b Basic) {
	if n, ok := b.(Number); ok {
		*coef = mulNum(*coef, n)
		return
	}
	e, t := AsBaseExp(b)
	MulDictAddTerm(coef, d, e, t)
}

// Product returns the canonical product of args.
func Product(args ...Basic) Basic {
	var coef Number = One
	d := NewDict[Basic](len(args))
	for _, a := range args {
		mulFold(&coef, d, a)
	}
	return MulFromDict(coef, d)
}

// Neg returns -a.
func Neg(a Basic) Basic { return MulOf(MinusOne, a) }

// DivOf returns a / b.
func DivOf(a, b Basic) (res Basic, err error) {
	defer catch(&err)
	return div(a, b), nil
}

func div(a, b Basic) Basic { return MulOf(a, pow(b, MinusOne)) }

func (m *Mul) diff(x *Symbol) Basic {
	var overall Number = Zero
	d := NewDict[Number](m.dict.Len())
	for _, f := range m.factors() {
		factor := pow(f.Key, f.Value).diff(x)
		if n, ok := factor.(Number); ok && n.IsZero() {
			continue
		}
		coef := m.coef
		rest := m.dict.Clone()
		rest.Delete(f.Key)
		mulFold(&coef, rest, factor)
		AddCoefDictAddTerm(&overall, d, coef, MulFromDict(One, rest))
	}
	return AddFromDict(overall, d)
}

func (m *Mul) subs(s *Dict[Basic]) Basic {
	if v, ok := subsLookup(m, s); ok {
		return v
	}
	coef := m.coef
	d := NewDict[Basic](m.dict.Len())
	for _, f := range m.factors() {
		if v, ok := subsLookup(factorPow(f.Key, f.Value), s); ok {
			mulFold(&coef, d, v)
			continue
		}
		base, exp := f.Key.subs(s), f.Value.subs(s)
		mulFold(&coef, d, pow(base, exp))
	}
	return MulFromDict(coef, d)
}
