package gosymcore

import (
	"math"
	"math/big"
)

// ============================================================
// Numeric evaluation
// ============================================================

// EvalFloat evaluates b to a float64. Free symbols and complex values
// are NotImplemented; use Subs first to bind symbols.
func EvalFloat(b Basic) (res float64, err error) {
	defer catch(&err)
	return evalFloat(b), nil
}

func evalFloat(b Basic) float64 {
	v := &evalVisitor{}
	b.Accept(v)
	return v.result
}

type evalVisitor struct {
	result float64
}

func (v *evalVisitor) VisitInteger(n *Integer) {
	v.result, _ = new(big.Float).SetInt(n.i).Float64()
}

func (v *evalVisitor) VisitRational(n *Rational)     { v.result, _ = n.r.Float64() }
func (v *evalVisitor) VisitRealDouble(n *RealDouble) { v.result = n.f }
func (v *evalVisitor) VisitConstant(c *Constant)     { v.result = c.value }

func (v *evalVisitor) VisitComplex(c *Complex) {
	raise(NotImplemented, "eval", "complex value %s", c)
}

func (v *evalVisitor) VisitSymbol(s *Symbol) {
	raise(NotImplemented, "eval", "free symbol %s", s.name)
}

func (v *evalVisitor) VisitAdd(a *Add) {
	sum := evalFloat(a.coef)
	for _, t := range a.terms() {
		sum += evalFloat(t.Value) * evalFloat(t.Key)
	}
	v.result = sum
}

func (v *evalVisitor) VisitMul(m *Mul) {
	prod := evalFloat(m.coef)
	for _, f := range m.factors() {
		prod *= math.Pow(evalFloat(f.Key), evalFloat(f.Value))
	}
	v.result = prod
}

func (v *evalVisitor) VisitPow(p *Pow) {
	v.result = math.Pow(evalFloat(p.base), evalFloat(p.exp))
}

func (v *evalVisitor) VisitLog(l *Log) {
	x := evalFloat(l.arg)
	if x == 0 {
		raise(DomainError, "eval", "log(0)")
	}
	v.result = math.Log(x)
}

func (v *evalVisitor) VisitFunction(f *Function) {
	x := evalFloat(f.arg)
	switch f.kind {
	case FuncSin:
		v.result = math.Sin(x)
	case FuncCos:
		v.result = math.Cos(x)
	}
}
