// Package scoped provides scope-structured hypothesis management on top of
// the kernel.
//
// A Stack hands out fresh labels, remembers which hypotheses are open, and
// only allows them to be discharged innermost first. It is convenience, not
// trust: every proof it returns comes from a kernel call, and misuse is
// reported as *UsageError, never as a kernel rule failure.
//
// Typical use:
//
//	s := scoped.NewStack()
//	pq, _ := s.Within(p, func(h kernel.Proof, _ assume.Label) (kernel.Proof, error) {
//		return kernel.ImplElim(h, major)
//	})
//
// Thread-safety: Stack and the label generators are safe for concurrent
// use. Interleaving scopes from several goroutines on one Stack is legal but
// rarely meaningful; give each derivation its own Stack.
package scoped
