package assume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndk/internal/formula"
)

var (
	p = formula.NewVar("p")
	q = formula.NewVar("q")
	r = formula.NewVar("r")
)

func TestN(t *testing.T) {
	assert.Equal(t, Label("1"), N(1))
	assert.Equal(t, Label("99"), N(99))
}

func TestSingle(t *testing.T) {
	s := Single(N(1), p)

	assert.Equal(t, 1, s.Len())
	f, ok := s.Lookup(N(1))
	require.True(t, ok)
	assert.True(t, formula.Equal(p, f))
	assert.False(t, s.Has(N(2)))
}

func TestZeroSetIsEmpty(t *testing.T) {
	var s Set

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Labels())
	assert.Equal(t, "{}", s.String())
	assert.True(t, s.Equal(Empty()))
}

func TestWithout_DoesNotMutate(t *testing.T) {
	orig := setOf(map[Label]formula.Formula{N(1): p, N(2): q})

	removed := orig.Without(N(1))

	assert.Equal(t, 2, orig.Len(), "receiver must be unchanged")
	assert.True(t, orig.Has(N(1)))
	assert.Equal(t, 1, removed.Len())
	assert.False(t, removed.Has(N(1)))
	assert.True(t, removed.Has(N(2)))
}

func TestWithout_MissingLabel(t *testing.T) {
	s := Single(N(1), p)
	assert.True(t, s.Equal(s.Without(N(7))))
	assert.True(t, s.Without(N(1)).IsEmpty())
}

func TestLabels_Order(t *testing.T) {
	s := setOf(map[Label]formula.Formula{
		N(10): p,
		N(2):  q,
		"h1":  r,
		N(1):  p,
		"a":   q,
	})

	assert.Equal(t, []Label{"1", "2", "10", "a", "h1"}, s.Labels())
}

func TestEqual(t *testing.T) {
	a := setOf(map[Label]formula.Formula{N(1): p, N(2): formula.NewImpl(p, q)})
	b := setOf(map[Label]formula.Formula{N(2): formula.NewImpl(formula.NewVar("p"), formula.NewVar("q")), N(1): p})
	c := setOf(map[Label]formula.Formula{N(1): p, N(2): q})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Single(N(1), p)))
}

func TestString(t *testing.T) {
	s := setOf(map[Label]formula.Formula{N(2): formula.NewImpl(p, q), N(1): p})
	assert.Equal(t, "{1: p, 2: p → q}", s.String())
}

// setOf builds a Set from a map literal.
func setOf(m map[Label]formula.Formula) Set {
	out := Empty()
	for l, f := range m {
		var err error
		out, err = Merge(out, Single(l, f))
		if err != nil {
			panic(err)
		}
	}
	return out
}
