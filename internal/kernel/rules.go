package kernel

import (
	"fmt"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
)

// checkProofs rejects zero Proof values before any rule logic runs.
func checkProofs(rule string, ps ...Proof) error {
	for i, p := range ps {
		if !p.Valid() {
			return newRuleError(CodeInvalidProof, rule,
				fmt.Sprintf("premise %d is not a kernel proof", i+1))
		}
	}
	return nil
}

func checkFormula(rule string, f formula.Formula) error {
	if !formula.Valid(f) {
		return newRuleError(CodeInvalidFormula, rule, "formula is nil or has a nil subformula")
	}
	return nil
}

// Suppose introduces f as a hypothesis under label l: {l: f} ⊢ f.
func Suppose(f formula.Formula, l assume.Label) (Proof, error) {
	if err := checkFormula(RuleSuppose, f); err != nil {
		return Proof{}, err
	}
	return Proof{conclusion: f, assumptions: assume.Single(l, f)}, nil
}

// ConjIntro proves φ ∧ ψ from proofs of φ and ψ.
func ConjIntro(p, q Proof) (Proof, error) {
	if err := checkProofs(RuleConjIntro, p, q); err != nil {
		return Proof{}, err
	}
	a, err := assume.Merge(p.assumptions, q.assumptions)
	if err != nil {
		return Proof{}, mergeError(RuleConjIntro, err)
	}
	return Proof{conclusion: formula.NewConj(p.conclusion, q.conclusion), assumptions: a}, nil
}

// ConjElim proves one conjunct of φ ∧ ψ.
func ConjElim(p Proof, side Side) (Proof, error) {
	if err := checkProofs(RuleConjElim, p); err != nil {
		return Proof{}, err
	}
	c, ok := p.conclusion.(formula.Conj)
	if !ok {
		return Proof{}, newRuleError(CodeNotAConjunction, RuleConjElim,
			fmt.Sprintf("%s is not a conjunction", p.conclusion), p.conclusion)
	}
	switch side {
	case Left:
		return Proof{conclusion: c.Left, assumptions: p.assumptions}, nil
	case Right:
		return Proof{conclusion: c.Right, assumptions: p.assumptions}, nil
	default:
		return Proof{}, newRuleError(CodeInvalidSide, RuleConjElim,
			fmt.Sprintf("invalid side %d", int(side)))
	}
}

// DisjIntro weakens φ to φ ∨ other (Left) or other ∨ φ (Right).
func DisjIntro(p Proof, side Side, other formula.Formula) (Proof, error) {
	if err := checkProofs(RuleDisjIntro, p); err != nil {
		return Proof{}, err
	}
	if err := checkFormula(RuleDisjIntro, other); err != nil {
		return Proof{}, err
	}
	switch side {
	case Left:
		return Proof{conclusion: formula.NewDisj(p.conclusion, other), assumptions: p.assumptions}, nil
	case Right:
		return Proof{conclusion: formula.NewDisj(other, p.conclusion), assumptions: p.assumptions}, nil
	default:
		return Proof{}, newRuleError(CodeInvalidSide, RuleDisjIntro,
			fmt.Sprintf("invalid side %d", int(side)))
	}
}

// ImplElim is modus ponens: from p proving φ and q proving φ → ψ, prove ψ.
func ImplElim(p, q Proof) (Proof, error) {
	if err := checkProofs(RuleImplElim, p, q); err != nil {
		return Proof{}, err
	}
	impl, ok := q.conclusion.(formula.Impl)
	if !ok {
		return Proof{}, newRuleError(CodeNotAnImplication, RuleImplElim,
			fmt.Sprintf("%s is not an implication", q.conclusion), q.conclusion)
	}
	if !formula.Equal(impl.Left, p.conclusion) {
		return Proof{}, newRuleError(CodePremiseMismatch, RuleImplElim,
			fmt.Sprintf("premise %s does not match antecedent %s", p.conclusion, impl.Left),
			p.conclusion, impl.Left)
	}
	a, err := assume.Merge(p.assumptions, q.assumptions)
	if err != nil {
		return Proof{}, mergeError(RuleImplElim, err)
	}
	return Proof{conclusion: impl.Right, assumptions: a}, nil
}

// ImplIntro discharges hypothesis l from q: if q proves ψ under l: φ,
// the result proves φ → ψ without l. The label must be open in q.
func ImplIntro(l assume.Label, q Proof) (Proof, error) {
	if err := checkProofs(RuleImplIntro, q); err != nil {
		return Proof{}, err
	}
	hyp, ok := q.assumptions.Lookup(l)
	if !ok {
		e := newRuleError(CodeLabelNotFound, RuleImplIntro,
			fmt.Sprintf("no open assumption labelled %s", l))
		e.Label = l
		return Proof{}, e
	}
	return Proof{
		conclusion:  formula.NewImpl(hyp, q.conclusion),
		assumptions: q.assumptions.Without(l),
	}, nil
}

// DisjElim reasons by cases. r proves φ ∨ ψ; s proves χ with l1: φ open;
// t proves χ with l2: ψ open. The result proves χ with l1 discharged from s
// and l2 discharged from t, merged with r's assumptions.
func DisjElim(r, s Proof, l1 assume.Label, t Proof, l2 assume.Label) (Proof, error) {
	if err := checkProofs(RuleDisjElim, r, s, t); err != nil {
		return Proof{}, err
	}
	d, ok := r.conclusion.(formula.Disj)
	if !ok {
		return Proof{}, newRuleError(CodeNotADisjunction, RuleDisjElim,
			fmt.Sprintf("%s is not a disjunction", r.conclusion), r.conclusion)
	}
	if err := checkCase(s, l1, d.Left); err != nil {
		return Proof{}, err
	}
	if err := checkCase(t, l2, d.Right); err != nil {
		return Proof{}, err
	}
	if !formula.Equal(s.conclusion, t.conclusion) {
		return Proof{}, newRuleError(CodeConclusionMismatch, RuleDisjElim,
			fmt.Sprintf("cases conclude %s and %s", s.conclusion, t.conclusion),
			s.conclusion, t.conclusion)
	}
	a, err := assume.MergeAll(r.assumptions, s.assumptions.Without(l1), t.assumptions.Without(l2))
	if err != nil {
		return Proof{}, mergeError(RuleDisjElim, err)
	}
	return Proof{conclusion: s.conclusion, assumptions: a}, nil
}

func checkCase(p Proof, l assume.Label, disjunct formula.Formula) error {
	hyp, ok := p.assumptions.Lookup(l)
	if !ok {
		e := newRuleError(CodeLabelNotFound, RuleDisjElim,
			fmt.Sprintf("no open assumption labelled %s", l))
		e.Label = l
		return e
	}
	if !formula.Equal(hyp, disjunct) {
		e := newRuleError(CodeCaseMismatch, RuleDisjElim,
			fmt.Sprintf("case hypothesis %s does not match disjunct %s", hyp, disjunct),
			hyp, disjunct)
		e.Label = l
		return e
	}
	return nil
}

// Shows checks that p is a closed proof of exactly expected and returns p.
func Shows(p Proof, expected formula.Formula) (Proof, error) {
	if err := checkProofs(RuleShows, p); err != nil {
		return Proof{}, err
	}
	if err := checkFormula(RuleShows, expected); err != nil {
		return Proof{}, err
	}
	if !p.assumptions.IsEmpty() {
		return Proof{}, newRuleError(CodeOpenAssumptions, RuleShows,
			fmt.Sprintf("open assumptions %s", p.assumptions), p.conclusion)
	}
	if !formula.Equal(p.conclusion, expected) {
		return Proof{}, newRuleError(CodeConclusionMismatch, RuleShows,
			fmt.Sprintf("proved %s, expected %s", p.conclusion, expected),
			p.conclusion, expected)
	}
	return p, nil
}
