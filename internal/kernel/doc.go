// Package kernel implements the trusted proof kernel for propositional
// Natural Deduction.
//
// Proof is an opaque value: its fields are unexported, so the functions in
// this package are the only way to produce one. Every non-zero Proof was
// built from Suppose by a sequence of sound rule applications, and its
// assumption set holds exactly the hypotheses still undischarged.
//
// TRUST BOUNDARY:
//
// The closed rule set is:
//
//	Suppose(f, l)               f ⊢ f under {l: f}
//	ConjIntro(p, q)             φ, ψ ⊢ φ ∧ ψ
//	ConjElim(p, side)           φ ∧ ψ ⊢ φ (or ψ)
//	DisjIntro(p, side, other)   φ ⊢ φ ∨ ψ (or ψ ∨ φ)
//	ImplElim(p, q)              φ, φ → ψ ⊢ ψ
//	ImplIntro(l, q)             discharge l: ψ under φ ⊢ φ → ψ
//	DisjElim(r, s, l1, t, l2)   φ ∨ ψ, χ under φ, χ under ψ ⊢ χ
//	Shows(p, e)                 p is a closed proof of exactly e
//
// Only ImplIntro and DisjElim remove assumptions. Every multi-premise rule
// combines assumption sets with assume.Merge.
//
// CRITICAL PATTERNS:
//
// Purity: every operation is a pure function of its arguments. Inputs are
// never mutated, a failure never returns a partial Proof, and there is no
// package-level mutable state. Operations are safe for concurrent use.
//
// Zero values: Go cannot forbid Proof{}. Every rule rejects it with
// InvalidProof, so the zero value can never be promoted into a real proof.
//
// The kernel never logs and never retries. Callers see a *RuleError and
// decide what to do.
package kernel
