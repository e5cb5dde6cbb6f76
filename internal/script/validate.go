package script

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/roach88/ndk/internal/kernel"
	"github.com/roach88/ndk/internal/notation"
	"github.com/roach88/ndk/internal/scoped"
)

// Validation error codes (E100-E199)
const (
	// Script errors (E101-E109)
	ErrNameEmpty          = "E101" // name is required
	ErrGoalInvalid        = "E102" // goal missing or unparseable
	ErrNoSteps            = "E103" // at least one step required
	ErrKernelConstraint   = "E104" // kernel constraint invalid
	ErrKernelIncompatible = "E105" // kernel version does not satisfy constraint
	ErrUnknownResult      = "E106" // result names no step
	ErrUnknownErrorCode   = "E107" // expect_error is not a known code

	// Step errors (E110-E119)
	ErrStepIDEmpty     = "E110" // step id is required
	ErrDuplicateStepID = "E111" // step id reused
	ErrUnknownRule     = "E112" // rule name not recognized
	ErrArity           = "E113" // wrong number of premises in from
	ErrUnknownRef      = "E114" // from names no earlier step
	ErrMissingField    = "E115" // required field absent
	ErrUnexpectedField = "E116" // field not used by the rule
	ErrFormulaInvalid  = "E117" // formula unparseable
	ErrInvalidSide     = "E118" // side is not left or right
)

// ValidationError represents a script validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// InvalidError is returned by Run for a script that fails validation.
type InvalidError struct {
	Script string
	Errors []ValidationError
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("script %s is invalid: %s", e.Script, strings.Join(msgs, "; "))
}

type use int

const (
	forbidden use = iota
	optional
	required
)

// shape describes which step fields a rule reads.
type shape struct {
	from    int
	formula use
	label   use
	labels  int
	side    use
}

var shapes = map[string]shape{
	kernel.RuleSuppose:   {formula: required, label: required},
	kernel.RuleConjIntro: {from: 2},
	kernel.RuleConjElim:  {from: 1, side: required},
	kernel.RuleDisjIntro: {from: 1, side: required, formula: required},
	kernel.RuleImplElim:  {from: 2},
	kernel.RuleImplIntro: {from: 1, label: required},
	kernel.RuleDisjElim:  {from: 3, labels: 2},
	RuleAssume:           {formula: required},
	RuleDischarge:        {from: 1, label: optional},
}

// KnownErrorCode reports whether code can appear as a step failure.
func KnownErrorCode(code string) bool {
	if _, ok := kernel.ParseCode(code); ok {
		return true
	}
	switch scoped.UsageCode(code) {
	case scoped.CodeNoOpenScope, scoped.CodeOutOfOrder:
		return true
	}
	return false
}

// Validate checks a script before execution.
// Returns all errors found (does not fail-fast).
func Validate(s *Script) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrNameEmpty,
		})
	}

	// E102: goal must parse
	if strings.TrimSpace(s.Goal) == "" {
		errs = append(errs, ValidationError{
			Field:   "goal",
			Message: "goal is required",
			Code:    ErrGoalInvalid,
		})
	} else if _, err := notation.Parse(s.Goal); err != nil {
		errs = append(errs, ValidationError{
			Field:   "goal",
			Message: err.Error(),
			Code:    ErrGoalInvalid,
		})
	}

	// E104/E105: kernel constraint
	if s.Kernel != "" {
		errs = append(errs, validateKernelConstraint(s.Kernel)...)
	}

	// E107: expect_error must be a real code
	if s.ExpectError != "" && !KnownErrorCode(s.ExpectError) {
		errs = append(errs, ValidationError{
			Field:   "expect_error",
			Message: fmt.Sprintf("unknown error code %q", s.ExpectError),
			Code:    ErrUnknownErrorCode,
		})
	}

	// E103: at least one step
	if len(s.Steps) == 0 {
		errs = append(errs, ValidationError{
			Field:   "steps",
			Message: "at least one step is required",
			Code:    ErrNoSteps,
		})
		return errs
	}

	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		errs = append(errs, validateStep(i, step, seen)...)
		if step.ID != "" {
			seen[step.ID] = true
		}
	}

	// E106: result must name a step
	if s.Result != "" && !seen[s.Result] {
		errs = append(errs, ValidationError{
			Field:   "result",
			Message: fmt.Sprintf("result %q names no step", s.Result),
			Code:    ErrUnknownResult,
		})
	}

	return errs
}

func validateKernelConstraint(constraint string) []ValidationError {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return []ValidationError{{
			Field:   "kernel",
			Message: fmt.Sprintf("invalid version constraint %q: %v", constraint, err),
			Code:    ErrKernelConstraint,
		}}
	}
	v := semver.MustParse(kernel.Version)
	if !c.Check(v) {
		return []ValidationError{{
			Field:   "kernel",
			Message: fmt.Sprintf("kernel %s does not satisfy %q", kernel.Version, constraint),
			Code:    ErrKernelIncompatible,
		}}
	}
	return nil
}

func validateStep(i int, step Step, seen map[string]bool) []ValidationError {
	var errs []ValidationError
	field := func(name string) string {
		return fmt.Sprintf("steps[%d].%s", i, name)
	}
	add := func(name, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field(name),
			Message: fmt.Sprintf(format, args...),
			Code:    code,
			Line:    step.Line,
		})
	}

	// E110/E111: ids
	if strings.TrimSpace(step.ID) == "" {
		add("id", ErrStepIDEmpty, "step id is required")
	} else if seen[step.ID] {
		add("id", ErrDuplicateStepID, "duplicate step id %q", step.ID)
	}

	// E112: rule
	sh, ok := shapes[step.Rule]
	if !ok {
		add("rule", ErrUnknownRule, "unknown rule %q", step.Rule)
		return errs
	}

	// E113/E114: premises
	if len(step.From) != sh.from {
		add("from", ErrArity, "%s takes %d premise(s), got %d", step.Rule, sh.from, len(step.From))
	}
	for j, ref := range step.From {
		if !seen[ref] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("steps[%d].from[%d]", i, j),
				Message: fmt.Sprintf("%q names no earlier step", ref),
				Code:    ErrUnknownRef,
				Line:    step.Line,
			})
		}
	}

	// E115/E116/E117: formula
	switch {
	case step.Formula == "" && sh.formula == required:
		add("formula", ErrMissingField, "%s requires formula", step.Rule)
	case step.Formula != "" && sh.formula == forbidden:
		add("formula", ErrUnexpectedField, "%s does not take formula", step.Rule)
	case step.Formula != "":
		if _, err := notation.Parse(step.Formula); err != nil {
			add("formula", ErrFormulaInvalid, "%v", err)
		}
	}

	// E115/E116: label
	switch {
	case step.Label == "" && sh.label == required:
		add("label", ErrMissingField, "%s requires label", step.Rule)
	case step.Label != "" && sh.label == forbidden:
		add("label", ErrUnexpectedField, "%s does not take label", step.Rule)
	}

	// E113/E116: labels
	switch {
	case sh.labels == 0 && len(step.Labels) > 0:
		add("labels", ErrUnexpectedField, "%s does not take labels", step.Rule)
	case sh.labels > 0 && len(step.Labels) != sh.labels:
		add("labels", ErrArity, "%s takes %d labels, got %d", step.Rule, sh.labels, len(step.Labels))
	}

	// E115/E116/E118: side
	switch {
	case step.Side == "" && sh.side == required:
		add("side", ErrMissingField, "%s requires side", step.Rule)
	case step.Side != "" && sh.side == forbidden:
		add("side", ErrUnexpectedField, "%s does not take side", step.Rule)
	case step.Side != "":
		if _, ok := kernel.ParseSide(step.Side); !ok {
			add("side", ErrInvalidSide, "side must be left or right, got %q", step.Side)
		}
	}

	return errs
}
