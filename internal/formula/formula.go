package formula

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Formula is a sealed interface representing a propositional formula.
// Only Var, Conj, Disj, and Impl implement this.
type Formula interface {
	formula() // Sealed - only these types implement it
	String() string
}

// Var is a propositional variable.
type Var struct {
	Name string
}

func (Var) formula() {}

// Conj is a conjunction Left ∧ Right.
type Conj struct {
	Left, Right Formula
}

func (Conj) formula() {}

// Disj is a disjunction Left ∨ Right.
type Disj struct {
	Left, Right Formula
}

func (Disj) formula() {}

// Impl is an implication Left → Right.
type Impl struct {
	Left, Right Formula
}

func (Impl) formula() {}

// NewVar creates a Var with its name NFC-normalized.
func NewVar(name string) Var {
	return Var{Name: norm.NFC.String(name)}
}

// key is the NFC form of the name. Equality, printing and the canonical
// encoding all go through it, so a Var built as a literal agrees with NewVar.
func (v Var) key() string {
	return norm.NFC.String(v.Name)
}

// NewConj creates a conjunction.
func NewConj(left, right Formula) Conj {
	return Conj{Left: left, Right: right}
}

// NewDisj creates a disjunction.
func NewDisj(left, right Formula) Disj {
	return Disj{Left: left, Right: right}
}

// NewImpl creates an implication.
func NewImpl(left, right Formula) Impl {
	return Impl{Left: left, Right: right}
}

// NewImplChain builds a right-nested implication f1 → f2 → ... → fn.
// Panics if called with no formulas.
func NewImplChain(fs ...Formula) Formula {
	if len(fs) == 0 {
		panic("formula: NewImplChain requires at least one formula")
	}
	out := fs[len(fs)-1]
	for i := len(fs) - 2; i >= 0; i-- {
		out = Impl{Left: fs[i], Right: out}
	}
	return out
}

// Equal reports whether a and b are structurally equal.
// Two nil formulas are equal; a nil and a non-nil formula are not.
func Equal(a, b Formula) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Var:
		y, ok := b.(Var)
		return ok && x.key() == y.key()
	case Conj:
		y, ok := b.(Conj)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Disj:
		y, ok := b.(Disj)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Impl:
		y, ok := b.(Impl)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	default:
		return false
	}
}

// Valid reports whether f and all of its subformulas are non-nil.
func Valid(f Formula) bool {
	switch x := f.(type) {
	case Var:
		return true
	case Conj:
		return Valid(x.Left) && Valid(x.Right)
	case Disj:
		return Valid(x.Left) && Valid(x.Right)
	case Impl:
		return Valid(x.Left) && Valid(x.Right)
	default:
		return false
	}
}

// Vars returns the distinct variable names in f, sorted.
func Vars(f Formula) []string {
	seen := map[string]bool{}
	var walk func(Formula)
	walk = func(f Formula) {
		switch x := f.(type) {
		case Var:
			seen[x.key()] = true
		case Conj:
			walk(x.Left)
			walk(x.Right)
		case Disj:
			walk(x.Left)
			walk(x.Right)
		case Impl:
			walk(x.Left)
			walk(x.Right)
		}
	}
	walk(f)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Size returns the number of nodes in f.
func Size(f Formula) int {
	switch x := f.(type) {
	case Var:
		return 1
	case Conj:
		return 1 + Size(x.Left) + Size(x.Right)
	case Disj:
		return 1 + Size(x.Left) + Size(x.Right)
	case Impl:
		return 1 + Size(x.Left) + Size(x.Right)
	default:
		return 0
	}
}

// Binding strength used by the printer. Higher binds tighter.
const (
	precImpl = 1
	precDisj = 2
	precConj = 3
	precAtom = 4
)

func precedence(f Formula) int {
	switch f.(type) {
	case Conj:
		return precConj
	case Disj:
		return precDisj
	case Impl:
		return precImpl
	default:
		return precAtom
	}
}

// String renders the formula with minimal parentheses:
// ∧ binds tighter than ∨, which binds tighter than →.
// → associates to the right, ∧ and ∨ to the left.
func (v Var) String() string  { return v.key() }
func (c Conj) String() string { return render(c) }
func (d Disj) String() string { return render(d) }
func (i Impl) String() string { return render(i) }

// Format renders f like String but tolerates nil.
func Format(f Formula) string {
	if f == nil {
		return "<nil>"
	}
	return render(f)
}

func render(f Formula) string {
	var b strings.Builder
	write(&b, f)
	return b.String()
}

func write(b *strings.Builder, f Formula) {
	switch x := f.(type) {
	case nil:
		b.WriteString("<nil>")
	case Var:
		b.WriteString(x.key())
	case Conj:
		writeOperand(b, x.Left, precConj)
		b.WriteString(" ∧ ")
		writeOperand(b, x.Right, precConj+1)
	case Disj:
		writeOperand(b, x.Left, precDisj)
		b.WriteString(" ∨ ")
		writeOperand(b, x.Right, precDisj+1)
	case Impl:
		writeOperand(b, x.Left, precImpl+1)
		b.WriteString(" → ")
		writeOperand(b, x.Right, precImpl)
	}
}

// writeOperand parenthesizes f when it binds looser than min.
func writeOperand(b *strings.Builder, f Formula, min int) {
	if f != nil && precedence(f) < min {
		b.WriteByte('(')
		write(b, f)
		b.WriteByte(')')
		return
	}
	write(b, f)
}
