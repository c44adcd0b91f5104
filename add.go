package gosymcore

import (
	"slices"
	"sync"
)

// ============================================================
// Add — coef + Σ term*value
// ============================================================

// Add is a canonical sum. Construct one with AddOf, Sum or AddFromDict.
type Add struct {
	coef Number
	dict *Dict[Number]
	hash uint64

	sortOnce sync.Once
	sorted   []Entry[Number]
}

// newAdd builds an Add from an already canonical (coef, dict) pair.
func newAdd(coef Number, d *Dict[Number]) *Add {
	if checkCanonical && !isCanonicalAdd(coef, d) {
		panic("gosymcore: non-canonical Add " + (&Add{coef: coef, dict: d}).String())
	}
	a := &Add{coef: coef, dict: d}
	seed := uint64(TypeAdd)
	hashCombine(&seed, coef.Hash())
	hashEntries(&seed, d)
	a.hash = seed
	return a
}

func isCanonicalAdd(coef Number, d *Dict[Number]) bool {
	if d.Len() == 0 {
		return false
	}
	if d.Len() == 1 && IsExactZero(coef) {
		return false
	}
	ok := true
	d.Range(func(k Basic, v Number) bool {
		switch key := k.(type) {
		case Number:
			ok = false
		case *Mul:
			ok = isIntegerOne(key.coef)
		}
		if ok && v.IsZero() {
			ok = false
		}
		return ok
	})
	return ok
}

func (a *Add) TypeID() TypeID   { return TypeAdd }
func (a *Add) Hash() uint64     { return a.hash }
func (a *Add) Accept(v Visitor) { v.VisitAdd(a) }

// Coef returns the numeric offset.
func (a *Add) Coef() Number { return a.coef }

// Dict returns a copy of the term -> coefficient map.
func (a *Add) Dict() *Dict[Number] { return a.dict.Clone() }

// Terms returns the term -> coefficient pairs sorted by term.
func (a *Add) Terms() []Entry[Number] { return slices.Clone(a.terms()) }

func (a *Add) terms() []Entry[Number] {
	a.sortOnce.Do(func() { a.sorted = a.dict.Sorted() })
	return a.sorted
}

func (a *Add) Equal(other Basic) bool {
	o, ok := other.(*Add)
	return ok && Eq(a.coef, o.coef) && MapsEqual(a.dict, o.dict)
}

func (a *Add) compare(other Basic) int {
	o := other.(*Add)
	if la, lb := a.dict.Len(), o.dict.Len(); la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	if c := Compare(a.coef, o.coef); c != 0 {
		return c
	}
	return compareSortedEntries(a.terms(), o.terms())
}

// Args returns the coefficient (when nonzero) followed by each term
// multiplied by its coefficient.
func (a *Add) Args() []Basic {
	out := make([]Basic, 0, a.dict.Len()+1)
	if !IsExactZero(a.coef) {
		out = append(out, a.coef)
	}
	for _, e := range a.terms() {
		out = append(out, termTimes(e.Value, e.Key))
	}
	return out
}

// AsTwoTerms splits a into its first term and the rest.
func (a *Add) AsTwoTerms() (Basic, Basic) {
	ts := a.terms()
	first := termTimes(ts[0].Value, ts[0].Key)
	rest := a.dict.Clone()
	rest.Delete(ts[0].Key)
	return first, AddFromDict(a.coef, rest)
}

// termTimes returns coef*term for a key of an Add.
func termTimes(coef Number, term Basic) Basic {
	d := NewDict[Number](1)
	d.Set(term, coef)
	return AddFromDict(Zero, d)
}

func (a *Add) diff(x *Symbol) Basic {
	var coef Number = Zero
	d := NewDict[Number](a.dict.Len())
	a.dict.Range(func(k Basic, v Number) bool {
		AddCoefDictAddTerm(&coef, d, v, k.diff(x))
		return true
	})
	return AddFromDict(coef, d)
}

func (a *Add) subs(m *Dict[Basic]) Basic {
	if v, ok := subsLookup(a, m); ok {
		return v
	}
	coef := a.coef
	d := NewDict[Number](a.dict.Len())
	a.dict.Range(func(k Basic, v Number) bool {
		AddCoefDictAddTerm(&coef, d, v, k.subs(m))
		return true
	})
	return AddFromDict(coef, d)
}

// ============================================================
// Canonicalizing factories
// ============================================================

// AddFromDict returns the canonical node for coef + Σ d. It takes
// ownership of d. Empty and single-term dictionaries degenerate to a
// number, a Mul, a Pow or the bare term.
func AddFromDict(coef Number, d *Dict[Number]) Basic {
	if d.Len() == 0 {
		return coef
	}
	if d.Len() == 1 && IsExactZero(coef) {
		e := d.entries[0]
		if isIntegerOne(e.Value) {
			return e.Key
		}
		switch key := e.Key.(type) {
		case *Mul:
			return MulFromDict(e.Value, key.dict.Clone())
		case *Pow:
			m := NewDict[Basic](1)
			m.Set(key.base, key.exp)
			return newMul(e.Value, m)
		}
		m := NewDict[Basic](1)
		m.Set(e.Key, One)
		return newMul(e.Value, m)
	}
	return newAdd(coef, d)
}

// AddDictAddTerm adds coef*term into d, dropping the entry if its
// coefficient cancels to zero.
func AddDictAddTerm(d *Dict[Number], coef Number, term Basic) {
	if v, ok := d.Get(term); ok {
		s := addNum(v, coef)
		if s.IsZero() {
			d.Delete(term)
		} else {
			d.Set(term, s)
		}
		return
	}
	if !coef.IsZero() {
		d.Set(term, coef)
	}
}

// AddCoefDictAddTerm adds c*term into (coef, d). Numbers go to coef, sums
// are flattened and everything else is split with AsCoefTerm.
func AddCoefDictAddTerm(coef *Number, d *Dict[Number], c Number, term Basic) {
	switch t := term.(type) {
	case Number:
		*coef = addNum(*coef, mulNum(c, t))
	case *Add:
		t.dict.Range(func(k Basic, v Number) bool {
			AddDictAddTerm(d, mulNum(c, v), k)
			return true
		})
		*coef = addNum(*coef, mulNum(c, t.coef))
	default:
		c2, t2 := AsCoefTerm(term)
		AddDictAddTerm(d, mulNum(c, c2), t2)
	}
}

// AsCoefTerm splits b into (coef, term) with coef*term == b. b must not
// be an Add.
func AsCoefTerm(b Basic) (Number, Basic) {
	switch v := b.(type) {
	case *Mul:
		if !isIntegerOne(v.coef) {
			return v.coef, MulFromDict(One, v.dict.Clone())
		}
	case Number:
		return v, One
	}
	return One, b
}

// AddOf returns the canonical form of a + b.
func AddOf(a, b Basic) Basic {
	aa, aok := a.(*Add)
	ba, bok := b.(*Add)
	switch {
	case aok && bok:
		d := aa.dict.Clone()
		ba.dict.Range(func(k Basic, v Number) bool {
			AddDictAddTerm(d, v, k)
			return true
		})
		return AddFromDict(addNum(aa.coef, ba.coef), d)
	case aok:
		return addToAdd(aa, b)
	case bok:
		return addToAdd(ba, a)
	}
	var coef Number = Zero
	d := NewDict[Number](2)
	for _, o := range [...]Basic{a, b} {
		if n, ok := o.(Number); ok {
			coef = addNum(coef, n)
			continue
		}
		c, t := AsCoefTerm(o)
		AddDictAddTerm(d, c, t)
	}
	return AddFromDict(coef, d)
}

func addToAdd(a *Add, b Basic) Basic {
	d := a.dict.Clone()
	if n, ok := b.(Number); ok {
		return AddFromDict(addNum(a.coef, n), d)
	}
	c, t := AsCoefTerm(b)
	AddDictAddTerm(d, c, t)
	return AddFromDict(a.coef, d)
}

// Sum returns the canonical sum of args. The result equals folding the
// arguments pairwise with AddOf.
func Sum(args ...Basic) Basic {
	var coef Number = Zero
	d := NewDict[Number](len(args))
	for _, a := range args {
		AddCoefDictAddTerm(&coef, d, One, a)
	}
	return AddFromDict(coef, d)
}

// SubOf returns a - b.
func SubOf(a, b Basic) Basic { return AddOf(a, MulOf(MinusOne, b)) }
