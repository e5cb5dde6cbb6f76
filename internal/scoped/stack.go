package scoped

import (
	"slices"
	"sync"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
	"github.com/roach88/ndk/internal/kernel"
)

// Stack tracks open hypotheses in LIFO order.
type Stack struct {
	mu     sync.Mutex
	labels LabelGenerator
	open   []assume.Label
}

// Option configures a Stack.
type Option func(*Stack)

// WithLabels sets the label generator. Defaults to SequentialLabels("h").
func WithLabels(g LabelGenerator) Option {
	return func(s *Stack) {
		s.labels = g
	}
}

// NewStack creates an empty Stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{}
	for _, opt := range opts {
		opt(s)
	}
	if s.labels == nil {
		s.labels = NewSequentialLabels("h")
	}
	return s
}

// Assume opens a new scope: it draws a fresh label, pushes it, and returns
// kernel.Suppose(f, label). Nothing is pushed if the kernel rejects f.
func (s *Stack) Assume(f formula.Formula) (kernel.Proof, assume.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.labels.Next()
	pf, err := kernel.Suppose(f, l)
	if err != nil {
		return kernel.Proof{}, "", err
	}
	s.open = append(s.open, l)
	return pf, l, nil
}

// Discharge closes the innermost scope, which must be l, and returns
// kernel.ImplIntro(l, p). If the kernel rejects the discharge the stack is
// left unchanged and the *kernel.RuleError is returned.
func (s *Stack) Discharge(l assume.Label, p kernel.Proof) (kernel.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.open) == 0 {
		return kernel.Proof{}, &UsageError{Code: CodeNoOpenScope, Label: l}
	}
	top := s.open[len(s.open)-1]
	if top != l {
		return kernel.Proof{}, &UsageError{Code: CodeOutOfOrder, Label: l, Innermost: top}
	}
	return s.dischargeTop(p)
}

// DischargeInnermost closes whatever scope is innermost.
func (s *Stack) DischargeInnermost(p kernel.Proof) (kernel.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.open) == 0 {
		return kernel.Proof{}, &UsageError{Code: CodeNoOpenScope}
	}
	return s.dischargeTop(p)
}

// dischargeTop must be called with mu held and a non-empty stack.
func (s *Stack) dischargeTop(p kernel.Proof) (kernel.Proof, error) {
	top := s.open[len(s.open)-1]
	out, err := kernel.ImplIntro(top, p)
	if err != nil {
		return kernel.Proof{}, err
	}
	s.open = s.open[:len(s.open)-1]
	return out, nil
}

// Within opens a scope for f, runs body with the hypothesis, and discharges
// the scope from body's result. A body that returns with inner scopes still
// open is an OutOfOrder usage error. The scope is released even if body or
// the discharge fails, along with any inner scopes body left open.
func (s *Stack) Within(f formula.Formula, body func(h kernel.Proof, l assume.Label) (kernel.Proof, error)) (kernel.Proof, error) {
	depth := s.Depth()

	h, l, err := s.Assume(f)
	if err != nil {
		return kernel.Proof{}, err
	}
	defer s.unwind(depth)

	res, err := body(h, l)
	if err != nil {
		return kernel.Proof{}, err
	}
	return s.Discharge(l, res)
}

// unwind pops scopes until at most depth remain.
func (s *Stack) unwind(depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.open) > depth {
		s.open = s.open[:depth]
	}
}

// Depth returns the number of open scopes.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Open returns the open labels, outermost first.
func (s *Stack) Open() []assume.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.open)
}

// Innermost returns the innermost open label.
func (s *Stack) Innermost() (assume.Label, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.open) == 0 {
		return "", false
	}
	return s.open[len(s.open)-1], true
}
