// Package formula provides the propositional formula AST used by the kernel.
//
// This package contains value types only. It imports nothing internal, and
// every other internal package may import it. Formulas carry no trust: any
// client may build or inspect them freely.
//
// Key design constraints:
//   - Formula is a sealed interface with exactly four variants (Var, Conj,
//     Disj, Impl); type switches over it are exhaustive
//   - Formulas are immutable values, compared structurally via Equal
//   - Variable names are NFC-normalized at construction so equal source text
//     always yields structurally equal trees
//   - Canonical JSON (sorted keys, no HTML escaping) is the only encoding used
//     for content-addressed fingerprints
package formula
