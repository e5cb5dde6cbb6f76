package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormulaSealed(t *testing.T) {
	// Verify all variants implement Formula (compile-time check via assignment)
	var _ Formula = Var{}
	var _ Formula = Conj{}
	var _ Formula = Disj{}
	var _ Formula = Impl{}
}

func TestEqual_Structural(t *testing.T) {
	p, q := NewVar("p"), NewVar("q")

	// Independently built trees with the same shape are equal
	a := NewImpl(NewConj(p, q), NewDisj(q, p))
	b := NewImpl(NewConj(NewVar("p"), NewVar("q")), NewDisj(NewVar("q"), NewVar("p")))
	assert.True(t, Equal(a, b))
	assert.True(t, Equal(b, a))
}

func TestEqual_DistinguishesShape(t *testing.T) {
	p, q := NewVar("p"), NewVar("q")

	tests := []struct {
		name string
		a, b Formula
	}{
		{"different vars", p, q},
		{"conj vs disj", NewConj(p, q), NewDisj(p, q)},
		{"operand order", NewConj(p, q), NewConj(q, p)},
		{"impl direction", NewImpl(p, q), NewImpl(q, p)},
		{"var vs compound", p, NewConj(p, p)},
		{"nil vs var", nil, p},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, Equal(tc.a, tc.b))
			assert.False(t, Equal(tc.b, tc.a))
		})
	}
}

func TestEqual_NoAssociativityNormalization(t *testing.T) {
	p, q, r := NewVar("p"), NewVar("q"), NewVar("r")

	left := NewConj(NewConj(p, q), r)
	right := NewConj(p, NewConj(q, r))

	assert.False(t, Equal(left, right), "equality is strictly structural")
}

func TestNewVar_NFCNormalization(t *testing.T) {
	// "é" as single code point vs "e" + combining acute accent
	composed := NewVar("caf\u00e9")
	decomposed := NewVar("cafe\u0301")

	assert.True(t, Equal(composed, decomposed))
	assert.Equal(t, composed.Name, decomposed.Name)
}

func TestVarLiteral_AgreesWithFingerprint(t *testing.T) {
	literal := NewImpl(Var{Name: "e\u0301"}, Var{Name: "q"})
	built := NewImpl(NewVar("\u00e9"), NewVar("q"))

	assert.True(t, Equal(literal, built))
	assert.Equal(t, MustFingerprint(built), MustFingerprint(literal))
	assert.Equal(t, built.String(), literal.String())
	assert.Equal(t, []string{"q", "\u00e9"}, Vars(literal))

	canon, err := MarshalCanonical(literal)
	assert.NoError(t, err)
	back, err := UnmarshalCanonical(canon)
	assert.NoError(t, err)
	assert.True(t, Equal(literal, back))
}

func TestString_Precedence(t *testing.T) {
	p, q, r := NewVar("p"), NewVar("q"), NewVar("r")

	tests := []struct {
		name     string
		f        Formula
		expected string
	}{
		{"var", p, "p"},
		{"conj", NewConj(p, q), "p ∧ q"},
		{"conj binds tighter than disj", NewDisj(NewConj(p, q), r), "p ∧ q ∨ r"},
		{"disj inside conj", NewConj(NewDisj(p, q), r), "(p ∨ q) ∧ r"},
		{"impl right assoc", NewImpl(p, NewImpl(q, r)), "p → q → r"},
		{"impl left nested", NewImpl(NewImpl(p, q), r), "(p → q) → r"},
		{"conj left assoc", NewConj(NewConj(p, q), r), "p ∧ q ∧ r"},
		{"conj right nested", NewConj(p, NewConj(q, r)), "p ∧ (q ∧ r)"},
		{"impl inside conj", NewConj(NewImpl(p, q), r), "(p → q) ∧ r"},
		{
			"hypothetical syllogism",
			NewImplChain(NewImpl(p, q), NewImpl(q, r), p, r),
			"(p → q) → (q → r) → p → r",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.f.String())
		})
	}
}

func TestFormat_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Format(nil))
	assert.Equal(t, "p ∨ q", Format(NewDisj(NewVar("p"), NewVar("q"))))
}

func TestNewImplChain(t *testing.T) {
	p, q := NewVar("p"), NewVar("q")

	assert.True(t, Equal(p, NewImplChain(p)))
	assert.True(t, Equal(NewImpl(p, q), NewImplChain(p, q)))
	assert.Panics(t, func() { NewImplChain() })
}

func TestValid(t *testing.T) {
	p := NewVar("p")

	assert.True(t, Valid(p))
	assert.True(t, Valid(NewConj(p, NewImpl(p, p))))
	assert.False(t, Valid(nil))
	assert.False(t, Valid(NewConj(p, nil)))
	assert.False(t, Valid(NewImpl(nil, p)))
}

func TestVarsAndSize(t *testing.T) {
	f := NewImpl(NewConj(NewVar("q"), NewVar("p")), NewDisj(NewVar("q"), NewVar("r")))

	assert.Equal(t, []string{"p", "q", "r"}, Vars(f))
	assert.Equal(t, 7, Size(f))
	assert.Equal(t, 0, Size(nil))
	assert.Empty(t, Vars(nil))
}
