// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"sync"

	"github.com/roach88/ndk/internal/assume"
)

// FixedLabels returns predetermined labels for testing.
//
// This enables deterministic test execution and golden trace comparison.
// Tests provide a known sequence of labels and can assert exact traces.
//
// Thread-safety: FixedLabels is safe for concurrent use via internal mutex.
type FixedLabels struct {
	mu     sync.Mutex
	labels []assume.Label
	idx    int
}

// NewFixedLabels creates a generator that returns labels in order.
//
// Example:
//
//	gen := NewFixedLabels("x", "y")
//	gen.Next() // "x"
//	gen.Next() // "y"
//	gen.Next() // panic: all labels exhausted
func NewFixedLabels(labels ...assume.Label) *FixedLabels {
	return &FixedLabels{labels: labels}
}

// Next returns the next predetermined label.
//
// Panics if all labels have been consumed, to catch a test that opened more
// scopes than it declared.
func (g *FixedLabels) Next() assume.Label {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.labels) {
		panic("FixedLabels: all labels exhausted")
	}
	l := g.labels[g.idx]
	g.idx++
	return l
}

// Remaining returns how many labels have not been handed out.
func (g *FixedLabels) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.labels) - g.idx
}
