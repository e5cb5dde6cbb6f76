package scoped

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/roach88/ndk/internal/assume"
)

// LabelGenerator produces hypothesis labels. Implementations must never
// return the same label twice.
type LabelGenerator interface {
	Next() assume.Label
}

// SequentialLabels yields prefix1, prefix2, ... from a monotonic counter.
//
// Thread-safety: SequentialLabels is safe for concurrent use (atomic operations).
type SequentialLabels struct {
	prefix string
	seq    atomic.Int64
}

// NewSequentialLabels creates a generator whose first label is prefix+"1".
func NewSequentialLabels(prefix string) *SequentialLabels {
	return &SequentialLabels{prefix: prefix}
}

// Next returns the next label.
func (g *SequentialLabels) Next() assume.Label {
	return assume.Label(g.prefix + strconv.FormatInt(g.seq.Add(1), 10))
}

// Current returns the number of labels handed out so far.
func (g *SequentialLabels) Current() int64 {
	return g.seq.Load()
}

// UUIDLabels generates time-sortable UUIDv7 labels.
//
// Useful when hypotheses from independent sessions end up merged into one
// proof and must never collide.
//
// Thread-safety: UUIDLabels is stateless and safe for concurrent use.
type UUIDLabels struct{}

// Next returns a fresh UUIDv7 label.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDLabels) Next() assume.Label {
	return assume.Label(uuid.Must(uuid.NewV7()).String())
}
