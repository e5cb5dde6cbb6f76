package assume

import (
	"errors"
	"fmt"

	"github.com/roach88/ndk/internal/formula"
)

// ConflictError is returned by Merge when one label is bound to two
// structurally different formulas.
type ConflictError struct {
	Label Label
	Left  formula.Formula
	Right formula.Formula
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("label %s bound to both %s and %s",
		e.Label, formula.Format(e.Left), formula.Format(e.Right))
}

// IsConflict returns true if the error is a merge conflict.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// Merge returns the union of a and b.
//
// A label present in only one input is copied verbatim. A label present in
// both must map to structurally equal formulas; otherwise Merge fails with
// *ConflictError. Neither input is modified.
//
// When several labels conflict, the smallest in CompareLabels order is
// reported so the error is deterministic.
func Merge(a, b Set) (Set, error) {
	if b.IsEmpty() {
		return a, nil
	}
	if a.IsEmpty() {
		return b, nil
	}

	// Check conflicts first so failure never builds a partial result
	for _, l := range b.Labels() {
		bf := b.m[l]
		if af, ok := a.m[l]; ok && !formula.Equal(af, bf) {
			return Set{}, &ConflictError{Label: l, Left: af, Right: bf}
		}
	}

	merged := make(map[Label]formula.Formula, len(a.m)+len(b.m))
	for k, v := range a.m {
		merged[k] = v
	}
	for k, v := range b.m {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return Set{m: merged}, nil
}

// MergeAll folds Merge over sets from left to right.
func MergeAll(sets ...Set) (Set, error) {
	out := Set{}
	for _, s := range sets {
		var err error
		out, err = Merge(out, s)
		if err != nil {
			return Set{}, err
		}
	}
	return out, nil
}
