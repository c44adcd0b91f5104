package gosymcore

import "strings"

// ============================================================
// String output
// ============================================================

func (a *Add) String() string {
	var sb strings.Builder
	first := true
	write := func(s string) {
		switch {
		case first:
			sb.WriteString(s)
			first = false
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	if !IsExactZero(a.coef) {
		write(numberString(a.coef))
	}
	for _, t := range a.terms() {
		write(productString(t.Value, []Entry[Basic]{{Key: t.Key, Value: One}}))
	}
	return sb.String()
}

func (m *Mul) String() string { return productString(m.coef, m.factors()) }

func (p *Pow) String() string { return powString(p.base, p.exp) }

// productString prints coef * Π base**exp.
func productString(coef Number, fs []Entry[Basic]) string {
	var sb strings.Builder
	switch {
	case isIntegerOne(coef):
	case coef.IsMinusOne():
		sb.WriteString("-")
	default:
		sb.WriteString(numberString(coef))
		sb.WriteString("*")
	}
	for i, f := range fs {
		if i > 0 {
			sb.WriteString("*")
		}
		if isIntegerOne(f.Value) {
			if _, ok := f.Key.(*Add); ok {
				sb.WriteString("(" + f.Key.String() + ")")
			} else {
				sb.WriteString(f.Key.String())
			}
			continue
		}
		sb.WriteString(powString(f.Key, f.Value))
	}
	return sb.String()
}

func powString(base, exp Basic) string {
	return wrapOperand(base) + "**" + wrapOperand(exp)
}

// wrapOperand parenthesizes anything that is not an atom.
func wrapOperand(b Basic) string {
	switch v := b.(type) {
	case *Add, *Mul, *Pow, *Rational, *Complex:
		return "(" + b.String() + ")"
	case Number:
		if v.IsNegative() {
			return "(" + b.String() + ")"
		}
	}
	return b.String()
}

func numberString(n Number) string {
	if c, ok := n.(*Complex); ok && !c.IsReZero() {
		return "(" + c.String() + ")"
	}
	return n.String()
}
