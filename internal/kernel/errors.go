package kernel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
)

// Code categorizes rule failures.
type Code string

const (
	// CodeInconsistentLabel indicates one label bound to two different formulas during merge.
	CodeInconsistentLabel Code = "InconsistentLabel"

	// CodeNotAConjunction indicates conj_elim on a non-conjunction.
	CodeNotAConjunction Code = "NotAConjunction"

	// CodeNotAnImplication indicates impl_elim on a non-implication major premise.
	CodeNotAnImplication Code = "NotAnImplication"

	// CodeNotADisjunction indicates disj_elim on a non-disjunction.
	CodeNotADisjunction Code = "NotADisjunction"

	// CodePremiseMismatch indicates the minor premise differs from the implication's antecedent.
	CodePremiseMismatch Code = "PremiseMismatch"

	// CodeCaseMismatch indicates a disj_elim case hypothesis differs from its disjunct.
	CodeCaseMismatch Code = "CaseMismatch"

	// CodeConclusionMismatch indicates two conclusions that must coincide do not.
	CodeConclusionMismatch Code = "ConclusionMismatch"

	// CodeLabelNotFound indicates discharge of a label absent from the assumptions.
	CodeLabelNotFound Code = "LabelNotFound"

	// CodeOpenAssumptions indicates Shows on a proof that still has assumptions.
	CodeOpenAssumptions Code = "OpenAssumptions"

	// CodeInvalidProof indicates the zero Proof value was passed to a rule.
	CodeInvalidProof Code = "InvalidProof"

	// CodeInvalidFormula indicates a nil formula or nil subformula.
	CodeInvalidFormula Code = "InvalidFormula"

	// CodeInvalidSide indicates a Side other than Left or Right.
	CodeInvalidSide Code = "InvalidSide"
)

// Codes lists every Code in declaration order.
var Codes = []Code{
	CodeInconsistentLabel,
	CodeNotAConjunction,
	CodeNotAnImplication,
	CodeNotADisjunction,
	CodePremiseMismatch,
	CodeCaseMismatch,
	CodeConclusionMismatch,
	CodeLabelNotFound,
	CodeOpenAssumptions,
	CodeInvalidProof,
	CodeInvalidFormula,
	CodeInvalidSide,
}

// ParseCode returns the Code named s.
func ParseCode(s string) (Code, bool) {
	for _, c := range Codes {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// RuleError represents a rejected rule application.
//
// Rule errors are always local proof-construction mistakes by the caller,
// never kernel corruption. RuleError includes structured fields so a driver
// can show exactly which formulas and labels were involved.
type RuleError struct {
	// Code identifies the error category.
	Code Code

	// Rule is the rule that rejected its arguments (e.g. "impl_elim").
	Rule string

	// Message is a human-readable description.
	Message string

	// Label is the label involved, if any.
	Label assume.Label

	// Formulas are the formulas involved, in the order named by Message.
	Formulas []formula.Formula

	// Err is the underlying cause (e.g. *assume.ConflictError).
	Err error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", e.Code, e.Rule, e.Message)
	if e.Label != "" {
		fmt.Fprintf(&b, " (label=%s)", e.Label)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// IsCode returns true if err is a *RuleError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code Code) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newRuleError(code Code, rule, msg string, fs ...formula.Formula) *RuleError {
	return &RuleError{Code: code, Rule: rule, Message: msg, Formulas: fs}
}

// mergeError converts a merge conflict into an InconsistentLabel rule error.
func mergeError(rule string, err error) *RuleError {
	re := &RuleError{
		Code:    CodeInconsistentLabel,
		Rule:    rule,
		Message: err.Error(),
		Err:     err,
	}
	var ce *assume.ConflictError
	if errors.As(err, &ce) {
		re.Label = ce.Label
		re.Formulas = []formula.Formula{ce.Left, ce.Right}
	}
	return re
}
