package gosymcore

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// ============================================================
// Constant — named real constants
// ============================================================

type Constant struct {
	name  string
	value float64
	hash  uint64
}

var (
	E  = newConstant("E", math.E)
	Pi = newConstant("pi", math.Pi)
)

func newConstant(name string, v float64) *Constant {
	seed := uint64(TypeConstant)
	hashCombine(&seed, xxhash.Sum64String(name))
	return &Constant{name: name, value: v, hash: seed}
}

func (c *Constant) TypeID() TypeID     { return TypeConstant }
func (c *Constant) Hash() uint64       { return c.hash }
func (c *Constant) Args() []Basic      { return nil }
func (c *Constant) Accept(v Visitor)   { v.VisitConstant(c) }
func (c *Constant) String() string     { return c.name }
func (c *Constant) Float64() float64   { return c.value }
func (c *Constant) diff(*Symbol) Basic { return Zero }

func (c *Constant) subs(m *Dict[Basic]) Basic { return subsAtom(c, m) }

func (c *Constant) Equal(other Basic) bool {
	o, ok := other.(*Constant)
	return ok && c.name == o.name
}

func (c *Constant) compare(other Basic) int {
	o := other.(*Constant)
	switch {
	case c.name < o.name:
		return -1
	case c.name > o.name:
		return 1
	}
	return 0
}

// ============================================================
// Log — natural logarithm
// ============================================================

type Log struct {
	arg  Basic
	hash uint64
}

func newLog(arg Basic) *Log {
	seed := uint64(TypeLog)
	hashCombine(&seed, arg.Hash())
	return &Log{arg: arg, hash: seed}
}

// LogOf returns the canonical natural logarithm of x.
func LogOf(x Basic) (res Basic, err error) {
	defer catch(&err)
	return log(x), nil
}

func log(x Basic) Basic {
	if n, ok := x.(Number); ok {
		switch {
		case IsExactZero(n):
			raise(DomainError, "log", "log(0) is complex infinity")
		case isIntegerOne(n):
			return Zero
		case !n.IsExact():
			f := realOf("log", n)
			if f <= 0 {
				raise(NotImplemented, "log", "log(%v) is not real", f)
			}
			return NewRealDouble(math.Log(f))
		case n.IsNegative():
			raise(NotImplemented, "log", "log of negative number %s", n)
		}
		if r, ok := n.(*Rational); ok {
			return SubOf(log(r.Num()), log(r.Den()))
		}
	}
	if Eq(x, E) {
		return One
	}
	return newLog(x)
}

func (l *Log) TypeID() TypeID   { return TypeLog }
func (l *Log) Hash() uint64     { return l.hash }
func (l *Log) Args() []Basic    { return []Basic{l.arg} }
func (l *Log) Accept(v Visitor) { v.VisitLog(l) }
func (l *Log) Arg() Basic       { return l.arg }
func (l *Log) String() string   { return "log(" + l.arg.String() + ")" }

func (l *Log) Equal(other Basic) bool {
	o, ok := other.(*Log)
	return ok && Eq(l.arg, o.arg)
}

func (l *Log) compare(other Basic) int { return Compare(l.arg, other.(*Log).arg) }

func (l *Log) diff(x *Symbol) Basic {
	return MulOf(pow(l.arg, MinusOne), l.arg.diff(x))
}

func (l *Log) subs(m *Dict[Basic]) Basic {
	if v, ok := subsLookup(l, m); ok {
		return v
	}
	arg := l.arg.subs(m)
	if arg == l.arg {
		return l
	}
	return log(arg)
}

// ============================================================
// Function — sin and cos
// ============================================================

// FuncKind names a one-argument function.
type FuncKind uint8

const (
	FuncSin FuncKind = iota
	FuncCos
)

var funcNames = [...]string{FuncSin: "sin", FuncCos: "cos"}

func (k FuncKind) String() string { return funcNames[k] }

type Function struct {
	kind FuncKind
	arg  Basic
	hash uint64
}

func newFunction(kind FuncKind, arg Basic) *Function {
	seed := uint64(TypeFunction)
	hashCombine(&seed, uint64(kind))
	hashCombine(&seed, arg.Hash())
	return &Function{kind: kind, arg: arg, hash: seed}
}

// SinOf returns sin(x).
func SinOf(x Basic) Basic { return apply(FuncSin, x) }

// CosOf returns cos(x).
func CosOf(x Basic) Basic { return apply(FuncCos, x) }

// apply evaluates the function at zero and at inexact arguments.
func apply(kind FuncKind, x Basic) Basic {
	if n, ok := x.(Number); ok {
		if IsExactZero(n) {
			if kind == FuncCos {
				return One
			}
			return Zero
		}
		if rd, ok := n.(*RealDouble); ok {
			if kind == FuncCos {
				return NewRealDouble(math.Cos(rd.f))
			}
			return NewRealDouble(math.Sin(rd.f))
		}
	}
	return newFunction(kind, x)
}

func (f *Function) TypeID() TypeID   { return TypeFunction }
func (f *Function) Hash() uint64     { return f.hash }
func (f *Function) Args() []Basic    { return []Basic{f.arg} }
func (f *Function) Accept(v Visitor) { v.VisitFunction(f) }
func (f *Function) Kind() FuncKind   { return f.kind }
func (f *Function) Arg() Basic       { return f.arg }
func (f *Function) String() string   { return f.kind.String() + "(" + f.arg.String() + ")" }

func (f *Function) Equal(other Basic) bool {
	o, ok := other.(*Function)
	return ok && f.kind == o.kind && Eq(f.arg, o.arg)
}

func (f *Function) compare(other Basic) int {
	o := other.(*Function)
	if f.kind != o.kind {
		if f.kind < o.kind {
			return -1
		}
		return 1
	}
	return Compare(f.arg, o.arg)
}

func (f *Function) diff(x *Symbol) Basic {
	inner := f.arg.diff(x)
	if n, ok := inner.(Number); ok && n.IsZero() {
		return Zero
	}
	if f.kind == FuncSin {
		return MulOf(CosOf(f.arg), inner)
	}
	return MulOf(Neg(SinOf(f.arg)), inner)
}

func (f *Function) subs(m *Dict[Basic]) Basic {
	if v, ok := subsLookup(f, m); ok {
		return v
	}
	arg := f.arg.subs(m)
	if arg == f.arg {
		return f
	}
	return apply(f.kind, arg)
}
