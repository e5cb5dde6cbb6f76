package assume

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/ndk/internal/formula"
)

// Label names an assumption. Integer labels are their decimal rendering.
type Label string

// N returns the label for an integer, e.g. N(1) == "1".
func N(i int) Label {
	return Label(strconv.Itoa(i))
}

// Set is an immutable mapping from Label to Formula.
// The zero Set is empty and ready to use.
type Set struct {
	m map[Label]formula.Formula
}

// Empty returns the empty set.
func Empty() Set {
	return Set{}
}

// Single returns the set {l: f}.
func Single(l Label, f formula.Formula) Set {
	return Set{m: map[Label]formula.Formula{l: f}}
}

// Len returns the number of labels.
func (s Set) Len() int {
	return len(s.m)
}

// IsEmpty reports whether the set has no labels.
func (s Set) IsEmpty() bool {
	return len(s.m) == 0
}

// Lookup returns the formula bound to l.
func (s Set) Lookup(l Label) (formula.Formula, bool) {
	f, ok := s.m[l]
	return f, ok
}

// Has reports whether l is bound.
func (s Set) Has(l Label) bool {
	_, ok := s.m[l]
	return ok
}

// Without returns a new set lacking l. The receiver is unchanged.
func (s Set) Without(l Label) Set {
	if !s.Has(l) {
		return s
	}
	if len(s.m) == 1 {
		return Set{}
	}
	cp := make(map[Label]formula.Formula, len(s.m)-1)
	for k, v := range s.m {
		if k != l {
			cp[k] = v
		}
	}
	return Set{m: cp}
}

// Labels returns the labels in display order: numeric labels first in
// numeric order, then the rest lexically.
func (s Set) Labels() []Label {
	labels := make([]Label, 0, len(s.m))
	for k := range s.m {
		labels = append(labels, k)
	}
	slices.SortFunc(labels, CompareLabels)
	return labels
}

// Equal reports whether both sets bind the same labels to structurally
// equal formulas.
func (s Set) Equal(o Set) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for k, v := range s.m {
		w, ok := o.m[k]
		if !ok || !formula.Equal(v, w) {
			return false
		}
	}
	return true
}

// String renders the set as "{1: p, 2: p → q}".
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, l := range s.Labels() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(l))
		b.WriteString(": ")
		b.WriteString(formula.Format(s.m[l]))
	}
	b.WriteByte('}')
	return b.String()
}

// CompareLabels orders numeric labels before non-numeric ones, numerically,
// and everything else lexically.
func CompareLabels(a, b Label) int {
	ai, aErr := strconv.Atoi(string(a))
	bi, bErr := strconv.Atoi(string(b))
	switch {
	case aErr == nil && bErr == nil:
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
		return strings.Compare(string(a), string(b))
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(string(a), string(b))
	}
}
