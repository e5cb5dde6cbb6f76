package kernel

import (
	"strings"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
)

// Version is the kernel's semantic version. Proof scripts may constrain it.
const Version = "0.1.0"

// Proof is a judgement "assumptions ⊢ conclusion" that has been derived by
// the rules of this package. Fields are unexported; the zero value is not a
// proof and is rejected by every rule.
type Proof struct {
	conclusion  formula.Formula
	assumptions assume.Set
}

// Conclusion returns the proved formula. Nil for the zero Proof.
func (p Proof) Conclusion() formula.Formula {
	return p.conclusion
}

// Assumptions returns the undischarged hypotheses.
// The returned set is immutable, so callers cannot alter p through it.
func (p Proof) Assumptions() assume.Set {
	return p.assumptions
}

// Closed reports whether p has no open assumptions.
func (p Proof) Closed() bool {
	return p.Valid() && p.assumptions.IsEmpty()
}

// Valid reports whether p was produced by a kernel rule.
func (p Proof) Valid() bool {
	return p.conclusion != nil
}

// String renders p as "1: p, 2: p → q ⊢ q".
func (p Proof) String() string {
	if !p.Valid() {
		return "<invalid proof>"
	}
	var b strings.Builder
	for i, l := range p.assumptions.Labels() {
		if i > 0 {
			b.WriteString(", ")
		}
		f, _ := p.assumptions.Lookup(l)
		b.WriteString(string(l))
		b.WriteString(": ")
		b.WriteString(f.String())
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString("⊢ ")
	b.WriteString(p.conclusion.String())
	return b.String()
}

// Side selects a branch of a binary connective.
type Side int

const (
	Left Side = iota + 1
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// ParseSide converts "left"/"right" into a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "left", "l":
		return Left, true
	case "right", "r":
		return Right, true
	default:
		return 0, false
	}
}

// Rule names, as they appear in errors, traces, and metrics.
const (
	RuleSuppose   = "suppose"
	RuleConjIntro = "conj_intro"
	RuleConjElim  = "conj_elim"
	RuleDisjIntro = "disj_intro"
	RuleImplElim  = "impl_elim"
	RuleImplIntro = "impl_intro"
	RuleDisjElim  = "disj_elim"
	RuleShows     = "shows"
)

// Rules lists the inference rule names, excluding shows.
var Rules = []string{
	RuleSuppose,
	RuleConjIntro,
	RuleConjElim,
	RuleDisjIntro,
	RuleImplElim,
	RuleImplIntro,
	RuleDisjElim,
}
