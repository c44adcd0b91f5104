package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sym "github.com/njchilds90/gosymcore"
)

func pow(t *testing.T, a, b sym.Basic) sym.Basic {
	t.Helper()
	p, err := sym.PowOf(a, b)
	require.NoError(t, err)
	return p
}

// TestRunner_Expand verifies results keep input order.
func TestRunner_Expand(t *testing.T) {
	x, y := sym.S("x"), sym.S("y")
	inputs := []sym.Basic{
		pow(t, sym.AddOf(x, y), sym.N(2)),
		sym.MulOf(x, sym.AddOf(y, sym.N(1))),
		x,
	}
	want := []sym.Basic{
		sym.Sum(pow(t, x, sym.N(2)), sym.Product(sym.N(2), x, y), pow(t, y, sym.N(2))),
		sym.AddOf(sym.MulOf(x, y), x),
		x,
	}

	r := &Runner{Workers: 2}
	got, err := r.Expand(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		require.NoError(t, got[i].Err)
		assert.True(t, sym.Eq(want[i], got[i].Value), "input %d: got %s", i, got[i].Value)
	}
}

// TestRunner_PerInputErrors verifies one failure does not abort the batch.
func TestRunner_PerInputErrors(t *testing.T) {
	x := sym.S("x")
	big := pow(t, sym.AddOf(x, sym.N(1)), sym.N(500))
	r := &Runner{Workers: 4, MaxExponent: 10}
	got, err := r.Expand(context.Background(), []sym.Basic{big, x})
	require.NoError(t, err)
	assert.True(t, errors.Is(got[0].Err, ErrLimit))
	assert.Nil(t, got[0].Value)
	require.NoError(t, got[1].Err)
	assert.True(t, sym.Eq(x, got[1].Value))
}

func TestRunner_MaxBatch(t *testing.T) {
	r := &Runner{MaxBatch: 1}
	_, err := r.Expand(context.Background(), []sym.Basic{sym.N(1), sym.N(2)})
	assert.ErrorIs(t, err, ErrLimit)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Workers: 1}
	_, err := r.Expand(ctx, []sym.Basic{sym.S("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Map(t *testing.T) {
	x := sym.S("x")
	r := &Runner{}
	got, err := r.Map(context.Background(), []sym.Basic{pow(t, x, sym.N(3))}, func(b sym.Basic) (sym.Basic, error) {
		return sym.Diff(b, x)
	})
	require.NoError(t, err)
	assert.True(t, sym.Eq(sym.MulOf(sym.N(3), pow(t, x, sym.N(2))), got[0].Value))
}

func TestCheckExponents(t *testing.T) {
	x, y := sym.S("x"), sym.S("y")
	tests := []struct {
		name string
		expr sym.Basic
		max  int64
		ok   bool
	}{
		{"disabled", pow(t, sym.AddOf(x, y), sym.N(1000)), 0, true},
		{"within", pow(t, sym.AddOf(x, y), sym.N(5)), 5, true},
		{"above", pow(t, sym.AddOf(x, y), sym.N(6)), 5, false},
		{"negative", pow(t, sym.AddOf(x, y), sym.N(-6)), 5, false},
		{"symbol base", pow(t, x, sym.N(100)), 5, true},
		{"nested", sym.MulOf(y, pow(t, sym.AddOf(x, y), sym.N(9))), 5, false},
		{"in function", sym.SinOf(pow(t, sym.AddOf(x, y), sym.N(9))), 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExponents(tt.expr, tt.max)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrLimit)
			}
		})
	}
}
