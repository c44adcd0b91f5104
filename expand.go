package gosymcore

import "math"

// ============================================================
// Expand — distribute products over sums
// ============================================================

// Expand distributes products over sums and expands positive integer
// powers of sums with the multinomial theorem. Function arguments are
// left alone. The result is a canonical Add or a degenerate node.
func Expand(b Basic) (res Basic, err error) {
	defer catch(&err)
	return expand(b), nil
}

func expand(b Basic) Basic {
	v := &expandVisitor{d: NewDict[Number](8), coeff: Zero, multiply: One}
	b.Accept(v)
	return AddFromDict(v.coeff, v.d)
}

// expandVisitor accumulates coeff + Σ d, scaling each visited node by
// multiply.
type expandVisitor struct {
	d        *Dict[Number]
	coeff    Number
	multiply Number
}

func (v *expandVisitor) VisitInteger(n *Integer)       { v.addNumber(n) }
func (v *expandVisitor) VisitRational(n *Rational)     { v.addNumber(n) }
func (v *expandVisitor) VisitComplex(n *Complex)       { v.addNumber(n) }
func (v *expandVisitor) VisitRealDouble(n *RealDouble) { v.addNumber(n) }
func (v *expandVisitor) VisitSymbol(s *Symbol)         { v.addAtom(s) }
func (v *expandVisitor) VisitLog(l *Log)               { v.addAtom(l) }
func (v *expandVisitor) VisitConstant(c *Constant)     { v.addAtom(c) }
func (v *expandVisitor) VisitFunction(f *Function)     { v.addAtom(f) }

func (v *expandVisitor) addNumber(n Number) {
	v.coeff = addNum(v.coeff, mulNum(v.multiply, n))
}

func (v *expandVisitor) addAtom(b Basic) {
	AddDictAddTerm(v.d, v.multiply, b)
}

func (v *expandVisitor) VisitAdd(a *Add) {
	outer := v.multiply
	v.coeff = addNum(v.coeff, mulNum(outer, a.coef))
	for _, t := range a.terms() {
		v.multiply = mulNum(outer, t.Value)
		t.Key.Accept(v)
	}
	v.multiply = outer
}

func (v *expandVisitor) VisitMul(m *Mul) {
	for _, f := range m.factors() {
		if _, ok := f.Key.(*Symbol); !ok {
			a, b := m.AsTwoTerms()
			v.mulExpandTwo(expand(a), expand(b))
			return
		}
	}
	v.addTerm(v.multiply, m)
}

func (v *expandVisitor) VisitPow(p *Pow) {
	base := expand(p.base)
	n, isInt := p.exp.(*Integer)
	sum, isAdd := base.(*Add)
	if !isInt || !isAdd {
		if Eq(base, p.base) {
			AddDictAddTerm(v.d, v.multiply, p)
			return
		}
		v.addTerm(v.multiply, pow(base, p.exp))
		return
	}
	if n.IsNegative() {
		v.addTerm(v.multiply, div(One, expand(pow(base, negNum(n)))))
		return
	}
	k, ok := n.Int64()
	if !ok || k > math.MaxInt32 {
		raise(NotImplemented, "expand", "exponent %s is too large", n)
	}

	terms := sum.dict.Clone()
	if !sum.coef.IsZero() {
		terms.Set(sum.coef, One)
	} else {
		v.coeff = addNum(v.coeff, mulNum(v.multiply, sum.coef))
	}
	if k == 2 {
		v.squareExpand(terms.Sorted())
		return
	}
	v.powExpand(terms.Sorted(), int(k))
}

// squareExpand adds (Σ c_i*t_i)**2 using the pairwise products.
func (v *expandVisitor) squareExpand(es []Entry[Number]) {
	for i, p := range es {
		v.addTerm(mulNum(mulNum(p.Value, p.Value), v.multiply), pow(p.Key, Two))
		for _, q := range es[i+1:] {
			c := mulNum(mulNum(mulNum(p.Value, q.Value), Two), v.multiply)
			v.addTerm(c, MulOf(q.Key, p.Key))
		}
	}
}

// powExpand adds (Σ c_i*t_i)**n term by term from the multinomial
// coefficients. Entries may have numeric keys here.
func (v *expandVisitor) powExpand(es []Entry[Number], n int) {
	coeffs, err := MultinomialCoefficientsBig(len(es), n)
	if err != nil {
		panic(err)
	}
	for _, mt := range coeffs {
		var overall Number = One
		d := NewDict[Basic](len(es))
		for i, k := range mt.Exponents {
			if k == 0 {
				continue
			}
			exp := NewInteger(int64(k))
			e := es[i]
			switch base := e.Key.(type) {
			case *Integer:
				overall = mulNum(overall, base.powInt(exp))
			case *Symbol:
				MulDictAddTerm(&overall, d, exp, base)
			default:
				mulFold(&overall, d, pow(e.Key, exp))
			}
			if !isIntegerOne(e.Value) {
				overall = mulNum(overall, powNum(e.Value, exp))
			}
		}
		term := MulFromDict(One, d)
		v.addTerm(mulNum(mulNum(v.multiply, integerFromBig(mt.Coef)), overall), term)
	}
}

// mulExpandTwo adds the distributed product a*b. Both are expanded.
func (v *expandVisitor) mulExpandTwo(a, b Basic) {
	aa, aok := a.(*Add)
	ba, bok := b.(*Add)
	switch {
	case aok && bok:
		for _, p := range aa.terms() {
			for _, q := range ba.terms() {
				v.addTerm(mulNum(mulNum(p.Value, q.Value), v.multiply), MulOf(p.Key, q.Key))
			}
			v.addTerm(mulNum(mulNum(p.Value, ba.coef), v.multiply), p.Key)
		}
		for _, q := range ba.terms() {
			v.addTerm(mulNum(mulNum(aa.coef, q.Value), v.multiply), q.Key)
		}
		v.coeff = addNum(v.coeff, mulNum(mulNum(aa.coef, ba.coef), v.multiply))
	case aok:
		v.mulExpandAdd(aa, b)
	case bok:
		v.mulExpandAdd(ba, a)
	default:
		v.addTerm(v.multiply, MulOf(a, b))
	}
}

// mulExpandAdd distributes a non-sum b over the sum a.
func (v *expandVisitor) mulExpandAdd(a *Add, b Basic) {
	c, t := AsCoefTerm(b)
	c = mulNum(c, v.multiply)
	for _, p := range a.terms() {
		v.addTerm(mulNum(p.Value, c), MulOf(p.Key, t))
	}
	v.addTerm(mulNum(a.coef, c), t)
}

// addTerm adds c*term. A product that still holds a sum raised to a
// positive integer power is expanded first.
func (v *expandVisitor) addTerm(c Number, term Basic) {
	if c.IsZero() && c.IsExact() {
		return
	}
	if needsExpand(term) {
		term = expand(term)
	}
	AddCoefDictAddTerm(&v.coeff, v.d, c, term)
}

func needsExpand(b Basic) bool {
	switch t := b.(type) {
	case *Pow:
		return isSumToPositiveInt(t.base, t.exp)
	case *Mul:
		for _, f := range t.factors() {
			if isSumToPositiveInt(f.Key, f.Value) {
				return true
			}
		}
	}
	return false
}

func isSumToPositiveInt(base, exp Basic) bool {
	if _, ok := base.(*Add); !ok {
		return false
	}
	n, ok := exp.(*Integer)
	return ok && n.IsPositive()
}
