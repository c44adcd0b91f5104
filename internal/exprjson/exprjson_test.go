package exprjson

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sym "github.com/njchilds90/gosymcore"
)

func mustPow(t *testing.T, a, b sym.Basic) sym.Basic {
	t.Helper()
	p, err := sym.PowOf(a, b)
	require.NoError(t, err)
	return p
}

// TestRoundTrip verifies decode(encode(e)) is structurally equal to e.
func TestRoundTrip(t *testing.T) {
	x, y := sym.S("x"), sym.S("y")
	logx, err := sym.LogOf(x)
	require.NoError(t, err)

	exprs := map[string]sym.Basic{
		"integer":  sym.N(-42),
		"rational": sym.F(3, 7),
		"complex":  sym.ComplexFromRats(bigRat(1, 2), bigRat(-3, 1)),
		"real":     sym.NewRealDouble(0.25),
		"symbol":   x,
		"constant": sym.Pi,
		"add":      sym.Sum(sym.N(2), x, sym.MulOf(sym.N(3), y)),
		"mul":      sym.Product(sym.F(1, 2), x, mustPow(t, y, sym.N(3))),
		"pow":      mustPow(t, sym.AddOf(x, y), sym.N(5)),
		"surd":     mustPow(t, sym.N(2), sym.F(1, 2)),
		"log":      logx,
		"sin":      sym.SinOf(sym.MulOf(sym.N(2), x)),
		"exp":      sym.Exp(x),
	}
	for name, e := range exprs {
		t.Run(name, func(t *testing.T) {
			data, err := Marshal(e)
			require.NoError(t, err)
			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, sym.Eq(e, got), "got %s, want %s", got, e)
		})
	}
}

func TestEncode_Shape(t *testing.T) {
	x := sym.S("x")
	m := Encode(sym.AddOf(sym.N(1), x))
	assert.Equal(t, "add", m["type"])
	terms := m["terms"].([]interface{})
	require.Len(t, terms, 2)
	assert.Equal(t, map[string]interface{}{"type": "num", "value": "1"}, terms[0])
	assert.Equal(t, map[string]interface{}{"type": "sym", "name": "x"}, terms[1])
}

// TestDecode_Canonicalizes verifies non-canonical input is normalized.
func TestDecode_Canonicalizes(t *testing.T) {
	in := `{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"sym","name":"x"},{"type":"num","value":"0"}]}`
	got, err := Unmarshal([]byte(in))
	require.NoError(t, err)
	assert.True(t, sym.Eq(sym.MulOf(sym.N(2), sym.S("x")), got))

	in = `{"type":"num","value":"6/3"}`
	got, err = Unmarshal([]byte(in))
	require.NoError(t, err)
	assert.IsType(t, &sym.Integer{}, got)
	assert.Equal(t, "2", got.String())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"not json", `{`, "decoding expression"},
		{"no type", `{}`, "missing 'type'"},
		{"bad type", `{"type":3}`, "non-empty string"},
		{"unknown type", `{"type":"matrix"}`, "unknown expression type"},
		{"bad num", `{"type":"num","value":"abc"}`, "invalid value"},
		{"missing name", `{"type":"sym"}`, `missing "name"`},
		{"terms not array", `{"type":"add","terms":{}}`, "must be an array"},
		{"nested", `{"type":"mul","factors":[{"type":"sym"}]}`, "mul: factors[0]"},
		{"unknown func", `{"type":"func","name":"tan","arg":{"type":"sym","name":"x"}}`, "unknown function"},
		{"unknown const", `{"type":"const","name":"tau"}`, "unknown constant"},
		{"real not number", `{"type":"real","value":"1.0"}`, "must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// TestDecode_DivisionByZero verifies core errors survive wrapping.
func TestDecode_DivisionByZero(t *testing.T) {
	in := `{"type":"pow","base":{"type":"num","value":"0"},"exp":{"type":"num","value":"-1"}}`
	_, err := Unmarshal([]byte(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, sym.ErrDivisionByZero)

	in = `{"type":"func","name":"log","arg":{"type":"num","value":"0"}}`
	_, err = Unmarshal([]byte(in))
	assert.ErrorIs(t, err, sym.ErrDomain)
}

// TestDecode_MixedInexactComplex verifies an unsupported numeric mix is
// returned as an error instead of panicking.
func TestDecode_MixedInexactComplex(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"add", `{"type":"add","terms":[{"type":"real","value":0.5},{"type":"complex","re":"1","im":"1"}]}`},
		{"mul", `{"type":"mul","factors":[{"type":"real","value":2},{"type":"complex","re":"0","im":"1"}]}`},
		{"pow", `{"type":"pow","base":{"type":"real","value":2},"exp":{"type":"complex","re":"0","im":"1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = Unmarshal([]byte(tt.in)) })
			require.Error(t, err)
			assert.ErrorIs(t, err, sym.ErrNotImplemented)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestDecode_Nil(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}

func TestMarshal_IsValidJSON(t *testing.T) {
	data, err := Marshal(sym.Product(sym.N(3), sym.S("a"), sym.S("b")))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func bigRat(p, q int64) *big.Rat { return big.NewRat(p, q) }
