package gosymcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertCanonical walks b and checks every composite node against the
// predicate its raw constructor enforces under the symdebug tag.
func assertCanonical(t *testing.T, b Basic) {
	t.Helper()
	switch v := b.(type) {
	case *Add:
		assert.True(t, isCanonicalAdd(v.coef, v.dict), "Add %s", v)
	case *Mul:
		assert.True(t, isCanonicalMul(v.coef, v.dict), "Mul %s", v)
		// keys of a Mul are bases; their exponents live in the dict
		v.dict.Range(func(k, e Basic) bool {
			assertCanonical(t, k)
			assertCanonical(t, e)
			return true
		})
		return
	case *Pow:
		assert.True(t, isCanonicalPow(v.base, v.exp), "Pow %s", v)
	}
	for _, a := range b.Args() {
		assertCanonical(t, a)
	}
}

// factoryCases builds expressions covering every folding rule of the
// factories.
func factoryCases() []Basic {
	x, y, z := S("x"), S("y"), S("z")
	xy := AddOf(x, y)
	return []Basic{
		AddOf(x, x),
		Sum(x, y, N(2), MulOf(N(-1), x)),
		Product(N(2), x, x, y, F(1, 2)),
		MulOf(xy, xy),
		MulOf(N(3), xy),
		SubOf(AddOf(x, N(1)), AddOf(x, N(2))),
		pow(Product(N(3), pow(x, N(2)), pow(y, N(3))), N(2)),
		pow(Product(N(-2), x, y), half),
		pow(Product(N(4), x), F(3, 2)),
		pow(pow(x, y), N(-3)),
		pow(N(12), F(5, 3)),
		pow(N(-8), F(3, 2)),
		pow(F(2, 9), F(1, 2)),
		MulOf(pow(N(2), half), pow(N(6), half)),
		MulOf(pow(N(3), half), pow(N(3), F(1, 3))),
		MulOf(I, pow(AddOf(x, I), N(-1))),
		pow(MulOf(I, x), half),
		Sum(NewRealDouble(1.5), x, MulOf(NewRealDouble(2), y)),
		pow(NewRealDouble(2), x),
		Exp(MulOf(N(2), x)),
		SinOf(Sum(x, y, z)),
		MulOf(pow(pow(x, y), z), y),
		MulOf(pow(MulOf(F(1, 2), x), y), y),
		MulOf(pow(pow(x, y), half), pow(pow(x, y), half)),
		Product(pow(pow(x, y), F(1, 3)), pow(pow(x, y), F(2, 3)), z),
		Product(pow(N(-1), F(1, 3)), pow(N(-1), F(1, 6))),
		Product(pow(N(-8), half), pow(N(-8), half), pow(N(-8), half)),
	}
}

func TestFactoriesProduceCanonicalNodes(t *testing.T) {
	x := S("x")
	for _, e := range factoryCases() {
		assertCanonical(t, e)

		ex, err := Expand(e)
		require.NoError(t, err, "expand %s", e)
		assertCanonical(t, ex)

		d, err := Diff(e, x)
		require.NoError(t, err, "diff %s", e)
		assertCanonical(t, d)
	}
}

// TestMulFoldsPowerKeys checks that a Pow key whose accumulated exponent
// turns integral is unwrapped into its base.
func TestMulFoldsPowerKeys(t *testing.T) {
	x, y := S("x"), S("y")
	xy := pow(x, y)
	root := pow(xy, half)

	got := MulOf(root, root)
	assert.True(t, Eq(xy, got), "got %s", got)
	assertCanonical(t, got)

	got = Product(pow(xy, F(1, 3)), pow(xy, F(2, 3)), y)
	assert.True(t, Eq(MulOf(xy, y), got), "got %s", got)
	assertCanonical(t, got)

	got = Product(pow(N(-1), F(1, 3)), pow(N(-1), F(1, 6)))
	assert.True(t, Eq(I, got), "got %s", got)

	// a Pow key with a symbolic or fractional exponent stays a key
	m, ok := MulOf(pow(xy, F(1, 3)), y).(*Mul)
	require.True(t, ok)
	e, ok := m.dict.Get(xy)
	require.True(t, ok)
	assert.True(t, Eq(F(1, 3), e))
	assert.True(t, isCanonicalMul(m.coef, m.dict))
}

// TestExpandCanonical checks the distributed forms of larger powers.
func TestExpandCanonical(t *testing.T) {
	x, y := S("x"), S("y")
	for n := int64(-3); n <= 5; n++ {
		e := pow(Sum(x, MulOf(F(1, 2), y), N(3)), N(n))
		ex, err := Expand(e)
		require.NoError(t, err)
		assertCanonical(t, ex)
	}
}

func TestDictRandomDeletes(t *testing.T) {
	d := NewDict[Number](8)
	syms := Symbols("a b c d e f g h")
	for i, s := range syms {
		d.Set(s, N(int64(i+1)))
	}
	for _, i := range []int{3, 0, 7, 5} {
		d.Delete(syms[i])
	}
	require.Equal(t, 4, d.Len())
	for i, s := range syms {
		v, ok := d.Get(s)
		switch i {
		case 0, 3, 5, 7:
			assert.False(t, ok, "%s", s)
		default:
			require.True(t, ok, "%s", s)
			assert.True(t, Eq(N(int64(i+1)), v))
		}
	}
	// every index bucket points at the entry holding its key
	for h, positions := range d.index {
		for _, p := range positions {
			assert.Equal(t, h, d.entries[p].Key.Hash())
		}
	}
}
