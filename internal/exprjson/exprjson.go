// Package exprjson converts expression trees to and from a JSON object
// form:
//
//	{"type":"num","value":"1/2"}
//	{"type":"real","value":0.5}
//	{"type":"complex","re":"1","im":"-2"}
//	{"type":"sym","name":"x"}
//	{"type":"const","name":"pi"}
//	{"type":"add","terms":[...]}
//	{"type":"mul","factors":[...]}
//	{"type":"pow","base":{...},"exp":{...}}
//	{"type":"func","name":"sin","arg":{...}}
//
// Decoding always goes through the canonicalizing constructors, so any
// well-formed input yields a canonical tree.
package exprjson

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	sym "github.com/njchilds90/gosymcore"
)

// Marshal encodes b as JSON.
func Marshal(b sym.Basic) ([]byte, error) {
	out, err := json.Marshal(Encode(b))
	return out, errors.Wrap(err, "encoding expression")
}

// Unmarshal decodes a JSON object into a canonical expression.
func Unmarshal(data []byte) (sym.Basic, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding expression")
	}
	return Decode(m)
}

// Encode returns the object form of b.
func Encode(b sym.Basic) map[string]interface{} {
	e := &encoder{}
	b.Accept(e)
	return e.out
}

func encodeAll(bs []sym.Basic) []interface{} {
	out := make([]interface{}, len(bs))
	for i, b := range bs {
		out[i] = Encode(b)
	}
	return out
}

type encoder struct {
	out map[string]interface{}
}

func (e *encoder) VisitInteger(n *sym.Integer) {
	e.out = map[string]interface{}{"type": "num", "value": n.String()}
}

func (e *encoder) VisitRational(n *sym.Rational) {
	e.out = map[string]interface{}{"type": "num", "value": n.String()}
}

func (e *encoder) VisitComplex(c *sym.Complex) {
	e.out = map[string]interface{}{"type": "complex", "re": c.Real().String(), "im": c.Imag().String()}
}

func (e *encoder) VisitRealDouble(n *sym.RealDouble) {
	e.out = map[string]interface{}{"type": "real", "value": n.Float64()}
}

func (e *encoder) VisitSymbol(s *sym.Symbol) {
	e.out = map[string]interface{}{"type": "sym", "name": s.Name()}
}

func (e *encoder) VisitConstant(c *sym.Constant) {
	e.out = map[string]interface{}{"type": "const", "name": c.String()}
}

func (e *encoder) VisitAdd(a *sym.Add) {
	e.out = map[string]interface{}{"type": "add", "terms": encodeAll(a.Args())}
}

func (e *encoder) VisitMul(m *sym.Mul) {
	e.out = map[string]interface{}{"type": "mul", "factors": encodeAll(m.Args())}
}

func (e *encoder) VisitPow(p *sym.Pow) {
	e.out = map[string]interface{}{"type": "pow", "base": Encode(p.Base()), "exp": Encode(p.Exp())}
}

func (e *encoder) VisitLog(l *sym.Log) {
	e.out = map[string]interface{}{"type": "func", "name": "log", "arg": Encode(l.Arg())}
}

func (e *encoder) VisitFunction(f *sym.Function) {
	e.out = map[string]interface{}{"type": "func", "name": f.Kind().String(), "arg": Encode(f.Arg())}
}

// Decode builds a canonical expression from its object form.
func Decode(data map[string]interface{}) (sym.Basic, error) {
	if data == nil {
		return nil, errors.New("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, errors.New("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, errors.New("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (sym.Basic, error) {
		v, ok := data[field]
		if !ok {
			return nil, errors.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("%s: %q must be an object", typ, field)
		}
		b, err := Decode(m)
		return b, errors.Wrapf(err, "%s: %s", typ, field)
	}

	subObjArray := func(field string) ([]sym.Basic, error) {
		v, ok := data[field]
		if !ok {
			return nil, errors.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, errors.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]sym.Basic, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, errors.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			b, err := Decode(m)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: %s[%d]", typ, field, i)
			}
			out[i] = b
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", errors.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", errors.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subRat := func(field string) (*big.Rat, error) {
		s, err := subString(field)
		if err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, errors.Errorf("%s: invalid %s %q", typ, field, s)
		}
		return r, nil
	}

	switch typ {
	case "num":
		r, err := subRat("value")
		if err != nil {
			return nil, err
		}
		return sym.RationalFromBig(r), nil

	case "real":
		v, ok := data["value"].(float64)
		if !ok {
			return nil, errors.New("real: 'value' must be a number")
		}
		return sym.NewRealDouble(v), nil

	case "complex":
		re, err := subRat("re")
		if err != nil {
			return nil, err
		}
		im, err := subRat("im")
		if err != nil {
			return nil, err
		}
		return sym.ComplexFromRats(re, im), nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return sym.S(name), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		switch name {
		case "E", "e":
			return sym.E, nil
		case "pi":
			return sym.Pi, nil
		}
		return nil, errors.Errorf("const: unknown constant %q", name)

	case "add":
		terms, err := subObjArray("terms")
		if err != nil {
			return nil, err
		}
		b, err := sym.Try(func() sym.Basic { return sym.Sum(terms...) })
		return b, errors.Wrap(err, "add")

	case "mul":
		factors, err := subObjArray("factors")
		if err != nil {
			return nil, err
		}
		b, err := sym.Try(func() sym.Basic { return sym.Product(factors...) })
		return b, errors.Wrap(err, "mul")

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		p, err := sym.PowOf(base, exp)
		return p, errors.Wrap(err, "pow")

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		arg, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg)
	}
	return nil, errors.Errorf("unknown expression type: %s", typ)
}

func funcOf(name string, arg sym.Basic) (sym.Basic, error) {
	switch name {
	case "sin":
		return sym.SinOf(arg), nil
	case "cos":
		return sym.CosOf(arg), nil
	case "exp":
		b, err := sym.Try(func() sym.Basic { return sym.Exp(arg) })
		return b, errors.Wrap(err, "func: exp")
	case "log":
		l, err := sym.LogOf(arg)
		return l, errors.Wrap(err, "func: log")
	}
	return nil, errors.Errorf("func: unknown function %q", name)
}
