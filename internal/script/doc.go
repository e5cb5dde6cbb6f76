// Package script checks proof scripts: named derivations written as a list
// of rule applications that must end in a closed proof of a stated goal.
//
// A script is data, not a proof. The runner translates each step into a
// kernel (or scoped) call, so a script can only ever succeed if the kernel
// accepts every step. Scripts are written in YAML or CUE:
//
//	name: hypothetical_syllogism
//	goal: "(p -> q) -> (q -> r) -> p -> r"
//	steps:
//	  - {id: a1, rule: suppose, formula: p, label: 1}
//	  - {id: a3, rule: suppose, formula: "p -> q", label: 3}
//	  - {id: s1, rule: impl_elim, from: [a1, a3]}
//	  ...
//
// In CUE, every field of the top-level "proof" struct is a script named by
// its label:
//
//	proof: identity: {
//		goal: "p -> p"
//		steps: [{id: "h", rule: "assume", formula: "p"}, {id: "d", rule: "discharge", from: ["h"]}]
//	}
//
// # Rules
//
//	suppose     formula, label            kernel.Suppose
//	conj_intro  from [a, b]               kernel.ConjIntro
//	conj_elim   from [a], side            kernel.ConjElim
//	disj_intro  from [a], side, formula   kernel.DisjIntro
//	impl_elim   from [minor, major]       kernel.ImplElim
//	impl_intro  from [a], label           kernel.ImplIntro
//	disj_elim   from [r, s, t], labels    kernel.DisjElim
//	assume      formula                   scoped.Stack.Assume
//	discharge   from [a], label optional  scoped.Stack.Discharge
//
// The final step (or the step named by "result") is checked against the
// goal with kernel.Shows. A script with expect_error passes only if its first
// failure carries exactly that code.
package script
