// Package assume provides labelled assumption sets and their merge.
//
// A Set maps labels to formulas and is immutable: every operation that would
// change it returns a new Set and leaves the receiver untouched. Sets may be
// shared freely between proofs and goroutines.
//
// Merge is the only way two sets are combined. It rejects a label bound to
// two structurally different formulas, which keeps independently built
// sub-proofs from silently conflating distinct hypotheses.
package assume
