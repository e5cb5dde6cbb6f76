package kernel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
)

var (
	p = formula.NewVar("p")
	q = formula.NewVar("q")
	r = formula.NewVar("r")
)

func suppose(t *testing.T, f formula.Formula, l assume.Label) Proof {
	t.Helper()
	pf, err := Suppose(f, l)
	require.NoError(t, err)
	return pf
}

func requireCode(t *testing.T, err error, code Code) *RuleError {
	t.Helper()
	require.Error(t, err)
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, code, re.Code, "error: %v", err)
	return re
}

func TestSuppose(t *testing.T) {
	pf := suppose(t, p, assume.N(1))

	assert.True(t, formula.Equal(p, pf.Conclusion()))
	assert.True(t, pf.Assumptions().Equal(assume.Single(assume.N(1), p)))
	assert.False(t, pf.Closed())
	assert.Equal(t, "1: p ⊢ p", pf.String())
}

func TestSuppose_NilFormula(t *testing.T) {
	_, err := Suppose(nil, assume.N(1))
	requireCode(t, err, CodeInvalidFormula)

	_, err = Suppose(formula.NewConj(p, nil), assume.N(1))
	requireCode(t, err, CodeInvalidFormula)
}

func TestConjIntro(t *testing.T) {
	a := suppose(t, p, assume.N(1))
	b := suppose(t, q, assume.N(2))

	c, err := ConjIntro(a, b)
	require.NoError(t, err)
	assert.True(t, formula.Equal(formula.NewConj(p, q), c.Conclusion()))
	assert.Equal(t, []assume.Label{"1", "2"}, c.Assumptions().Labels())
	assert.Equal(t, "1: p, 2: q ⊢ p ∧ q", c.String())

	// Inputs are untouched.
	assert.Equal(t, 1, a.Assumptions().Len())
	assert.Equal(t, 1, b.Assumptions().Len())
}

func TestConjIntro_SharedLabelConsistent(t *testing.T) {
	a := suppose(t, p, assume.N(1))

	c, err := ConjIntro(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Assumptions().Len())
}

func TestConjIntro_InconsistentLabel(t *testing.T) {
	a := suppose(t, p, assume.N(1))
	b := suppose(t, q, assume.N(1))

	_, err := ConjIntro(a, b)
	re := requireCode(t, err, CodeInconsistentLabel)
	assert.Equal(t, RuleConjIntro, re.Rule)
	assert.Equal(t, assume.N(1), re.Label)
	require.Len(t, re.Formulas, 2)
	assert.True(t, formula.Equal(p, re.Formulas[0]))
	assert.True(t, formula.Equal(q, re.Formulas[1]))
	assert.True(t, assume.IsConflict(err), "merge conflict is reachable through Unwrap")
}

func TestConjElim(t *testing.T) {
	c, err := ConjIntro(suppose(t, p, assume.N(1)), suppose(t, q, assume.N(2)))
	require.NoError(t, err)

	l, err := ConjElim(c, Left)
	require.NoError(t, err)
	assert.True(t, formula.Equal(p, l.Conclusion()))
	assert.True(t, l.Assumptions().Equal(c.Assumptions()))

	rt, err := ConjElim(c, Right)
	require.NoError(t, err)
	assert.True(t, formula.Equal(q, rt.Conclusion()))
}

func TestConjElim_NotAConjunction(t *testing.T) {
	_, err := ConjElim(suppose(t, formula.NewDisj(p, q), assume.N(1)), Left)
	requireCode(t, err, CodeNotAConjunction)
}

func TestConjElim_InvalidSide(t *testing.T) {
	c, err := ConjIntro(suppose(t, p, "a"), suppose(t, q, "b"))
	require.NoError(t, err)

	_, err = ConjElim(c, Side(0))
	requireCode(t, err, CodeInvalidSide)

	_, err = ConjElim(c, Side(7))
	requireCode(t, err, CodeInvalidSide)
}

func TestDisjIntro_InvalidSide(t *testing.T) {
	a := suppose(t, p, assume.N(1))

	_, err := DisjIntro(a, Side(7), q)
	requireCode(t, err, CodeInvalidSide)
}

func TestDisjIntro(t *testing.T) {
	a := suppose(t, p, assume.N(1))

	l, err := DisjIntro(a, Left, q)
	require.NoError(t, err)
	assert.True(t, formula.Equal(formula.NewDisj(p, q), l.Conclusion()))
	assert.True(t, l.Assumptions().Equal(a.Assumptions()))

	rt, err := DisjIntro(a, Right, q)
	require.NoError(t, err)
	assert.True(t, formula.Equal(formula.NewDisj(q, p), rt.Conclusion()))

	_, err = DisjIntro(a, Left, nil)
	requireCode(t, err, CodeInvalidFormula)
}

func TestImplElim(t *testing.T) {
	a := suppose(t, p, assume.N(1))
	b := suppose(t, formula.NewImpl(p, q), assume.N(2))

	c, err := ImplElim(a, b)
	require.NoError(t, err)
	assert.True(t, formula.Equal(q, c.Conclusion()))
	assert.Equal(t, []assume.Label{"1", "2"}, c.Assumptions().Labels())
}

func TestImplElim_Failures(t *testing.T) {
	tests := []struct {
		name  string
		minor formula.Formula
		major formula.Formula
		want  Code
	}{
		{"major not an implication", p, formula.NewConj(p, q), CodeNotAnImplication},
		{"antecedent mismatch", r, formula.NewImpl(p, q), CodePremiseMismatch},
		{"arguments swapped", formula.NewImpl(p, q), p, CodeNotAnImplication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImplElim(suppose(t, tt.minor, "m"), suppose(t, tt.major, "M"))
			re := requireCode(t, err, tt.want)
			assert.Equal(t, RuleImplElim, re.Rule)
		})
	}
}

func TestImplElim_InconsistentLabel(t *testing.T) {
	a := suppose(t, p, assume.N(1))
	b := suppose(t, formula.NewImpl(p, q), assume.N(1))

	_, err := ImplElim(a, b)
	requireCode(t, err, CodeInconsistentLabel)
}

func TestImplIntro(t *testing.T) {
	a := suppose(t, p, assume.N(1))

	d, err := ImplIntro(assume.N(1), a)
	require.NoError(t, err)
	assert.True(t, formula.Equal(formula.NewImpl(p, p), d.Conclusion()))
	assert.True(t, d.Closed())
	assert.Equal(t, "⊢ p → p", d.String())

	assert.Equal(t, 1, a.Assumptions().Len(), "premise keeps its assumption")
}

func TestImplIntro_LabelNotFound(t *testing.T) {
	a := suppose(t, p, assume.N(1))

	_, err := ImplIntro(assume.N(99), a)
	re := requireCode(t, err, CodeLabelNotFound)
	assert.Equal(t, assume.N(99), re.Label)
	assert.Contains(t, err.Error(), "label=99")
}

func TestImplIntroImplElim_RoundTrip(t *testing.T) {
	body, err := ImplElim(suppose(t, p, assume.N(1)), suppose(t, formula.NewImpl(p, q), assume.N(2)))
	require.NoError(t, err)

	intro, err := ImplIntro(assume.N(1), body)
	require.NoError(t, err)
	assert.True(t, formula.Equal(formula.NewImpl(p, q), intro.Conclusion()))

	again, err := ImplElim(suppose(t, p, assume.N(3)), intro)
	require.NoError(t, err)
	assert.True(t, formula.Equal(q, again.Conclusion()))
	assert.Equal(t, []assume.Label{"2", "3"}, again.Assumptions().Labels())
}

func TestDisjElim(t *testing.T) {
	// p ∨ q, p → r, q → r ⊢ r
	or := suppose(t, formula.NewDisj(p, q), "or")
	pr := suppose(t, formula.NewImpl(p, r), "pr")
	qr := suppose(t, formula.NewImpl(q, r), "qr")

	left, err := ImplElim(suppose(t, p, "hp"), pr)
	require.NoError(t, err)
	right, err := ImplElim(suppose(t, q, "hq"), qr)
	require.NoError(t, err)

	got, err := DisjElim(or, left, "hp", right, "hq")
	require.NoError(t, err)
	assert.True(t, formula.Equal(r, got.Conclusion()))
	assert.Equal(t, []assume.Label{"or", "pr", "qr"}, got.Assumptions().Labels())
}

func TestDisjElim_Commutativity(t *testing.T) {
	// ⊢ p ∨ q → q ∨ p
	or := suppose(t, formula.NewDisj(p, q), assume.N(1))

	left, err := DisjIntro(suppose(t, p, assume.N(2)), Right, q)
	require.NoError(t, err)
	right, err := DisjIntro(suppose(t, q, assume.N(3)), Left, p)
	require.NoError(t, err)

	cases, err := DisjElim(or, left, assume.N(2), right, assume.N(3))
	require.NoError(t, err)

	done, err := ImplIntro(assume.N(1), cases)
	require.NoError(t, err)

	goal := formula.NewImpl(formula.NewDisj(p, q), formula.NewDisj(q, p))
	_, err = Shows(done, goal)
	require.NoError(t, err)
}

func TestDisjElim_Failures(t *testing.T) {
	or := suppose(t, formula.NewDisj(p, q), "or")
	caseP := suppose(t, p, "hp")
	caseQ := suppose(t, q, "hq")

	tests := []struct {
		name  string
		r     Proof
		s     Proof
		l1    assume.Label
		t     Proof
		l2    assume.Label
		want  Code
		label assume.Label
	}{
		{"major not a disjunction", caseP, caseP, "hp", caseQ, "hq", CodeNotADisjunction, ""},
		{"left label missing", or, caseP, "nope", caseQ, "hq", CodeLabelNotFound, "nope"},
		{"right label missing", or, caseP, "hp", caseQ, "nope", CodeLabelNotFound, "nope"},
		{"left case mismatch", or, caseQ, "hq", caseQ, "hq", CodeCaseMismatch, "hq"},
		{"right case mismatch", or, caseP, "hp", caseP, "hp", CodeCaseMismatch, "hp"},
		{"conclusions differ", or, caseP, "hp", caseQ, "hq", CodeConclusionMismatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DisjElim(tt.r, tt.s, tt.l1, tt.t, tt.l2)
			re := requireCode(t, err, tt.want)
			assert.Equal(t, RuleDisjElim, re.Rule)
			assert.Equal(t, tt.label, re.Label)
		})
	}
}

func TestDisjElim_InconsistentLabel(t *testing.T) {
	// Case proofs agree on r but carry conflicting side hypotheses under "x".
	or := suppose(t, formula.NewDisj(p, q), "or")

	left, err := ConjElim(mustConj(t, suppose(t, r, "x"), suppose(t, p, "hp")), Left)
	require.NoError(t, err)

	rightBase, err := ImplElim(suppose(t, q, "hq"), suppose(t, formula.NewImpl(q, r), "x"))
	require.NoError(t, err)

	_, err = DisjElim(or, left, "hp", rightBase, "hq")
	re := requireCode(t, err, CodeInconsistentLabel)
	assert.Equal(t, assume.Label("x"), re.Label)
}

func mustConj(t *testing.T, a, b Proof) Proof {
	t.Helper()
	c, err := ConjIntro(a, b)
	require.NoError(t, err)
	return c
}

func TestDisjElim_DischargeOnlyInCase(t *testing.T) {
	// l1 is discharged from s only; if r also carries it, it stays open.
	or := suppose(t, formula.NewDisj(p, q), "or")
	orWithHP := mustConj(t, or, suppose(t, p, "hp"))
	major, err := ConjElim(orWithHP, Left)
	require.NoError(t, err)

	rr := suppose(t, formula.NewImpl(p, r), "a")
	s, err := ImplElim(suppose(t, p, "hp"), rr)
	require.NoError(t, err)
	u, err := ImplElim(suppose(t, q, "hq"), suppose(t, formula.NewImpl(q, r), "b"))
	require.NoError(t, err)

	got, err := DisjElim(major, s, "hp", u, "hq")
	require.NoError(t, err)
	assert.True(t, got.Assumptions().Has("hp"))
	assert.False(t, got.Assumptions().Has("hq"))
}

func TestShows(t *testing.T) {
	closed, err := ImplIntro(assume.N(1), suppose(t, p, assume.N(1)))
	require.NoError(t, err)

	got, err := Shows(closed, formula.NewImpl(p, p))
	require.NoError(t, err)
	assert.True(t, formula.Equal(closed.Conclusion(), got.Conclusion()))

	_, err = Shows(closed, formula.NewImpl(p, q))
	requireCode(t, err, CodeConclusionMismatch)

	_, err = Shows(suppose(t, p, assume.N(1)), p)
	requireCode(t, err, CodeOpenAssumptions)
}

func TestZeroProofRejected(t *testing.T) {
	var zero Proof
	valid := suppose(t, p, assume.N(1))

	calls := map[string]func() error{
		"conj_intro": func() error { _, err := ConjIntro(zero, valid); return err },
		"conj_elim":  func() error { _, err := ConjElim(zero, Left); return err },
		"disj_intro": func() error { _, err := DisjIntro(zero, Left, q); return err },
		"impl_elim":  func() error { _, err := ImplElim(valid, zero); return err },
		"impl_intro": func() error { _, err := ImplIntro(assume.N(1), zero); return err },
		"disj_elim":  func() error { _, err := DisjElim(zero, valid, "1", valid, "1"); return err },
		"shows":      func() error { _, err := Shows(zero, p); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			requireCode(t, call(), CodeInvalidProof)
		})
	}

	assert.False(t, zero.Valid())
	assert.False(t, zero.Closed())
	assert.Equal(t, "<invalid proof>", zero.String())
}

func TestFailureReturnsZeroProof(t *testing.T) {
	got, err := ImplIntro(assume.N(5), suppose(t, p, assume.N(1)))
	require.Error(t, err)
	assert.False(t, got.Valid())
}

func TestIsCode_Wrapped(t *testing.T) {
	_, err := ImplIntro(assume.N(99), suppose(t, p, assume.N(1)))
	wrapped := fmt.Errorf("step d1: %w", err)

	assert.True(t, IsCode(wrapped, CodeLabelNotFound))
	assert.False(t, IsCode(wrapped, CodeOpenAssumptions))
	assert.False(t, IsCode(fmt.Errorf("plain"), CodeLabelNotFound))
}

func TestParseCode(t *testing.T) {
	for _, c := range Codes {
		got, ok := ParseCode(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseCode("NoSuchCode")
	assert.False(t, ok)
}

func TestParseSide(t *testing.T) {
	s, ok := ParseSide("left")
	assert.True(t, ok)
	assert.Equal(t, Left, s)
	s, ok = ParseSide("right")
	assert.True(t, ok)
	assert.Equal(t, Right, s)
	_, ok = ParseSide("middle")
	assert.False(t, ok)
	assert.Equal(t, "invalid", Side(9).String())
}
