package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ndk/internal/assume"
	"github.com/roach88/ndk/internal/formula"
	"github.com/roach88/ndk/internal/kernel"
	"github.com/roach88/ndk/internal/metrics"
	"github.com/roach88/ndk/internal/notation"
	"github.com/roach88/ndk/internal/scoped"
)

// Runner executes scripts against the kernel.
//
// Thread-safety: a Runner is safe for concurrent use. Each Run gets its
// own scope stack and label generator.
type Runner struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
	labels  func() scoped.LabelGenerator
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics records rule applications and outcomes to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithLabels sets the factory for scoped label generators.
// Defaults to SequentialLabels("h") so traces are deterministic.
func WithLabels(newGen func() scoped.LabelGenerator) Option {
	return func(r *Runner) {
		r.labels = newGen
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		labels: func() scoped.LabelGenerator { return scoped.NewSequentialLabels("h") },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run is shorthand for NewRunner().Run.
func Run(ctx context.Context, s *Script, opts ...Option) (*Result, error) {
	return NewRunner(opts...).Run(ctx, s)
}

// run holds the state of one script execution.
type run struct {
	*Runner
	script *Script
	stack  *scoped.Stack
	proofs map[string]kernel.Proof
	result *Result
}

// Run validates and executes s.
//
// A kernel rejection is not an error: it is reported in Result.Failure.
// Run returns an error only for an invalid script (*InvalidError) or a
// cancelled context.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	if errs := Validate(s); len(errs) > 0 {
		r.metrics.ScriptChecked(metrics.ResultInvalid)
		return nil, &InvalidError{Script: s.Name, Errors: errs}
	}

	x := &run{
		Runner: r,
		script: s,
		stack:  scoped.NewStack(scoped.WithLabels(r.labels())),
		proofs: make(map[string]kernel.Proof, len(s.Steps)),
		result: NewResult(s.Name),
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("script %s: %w", s.Name, err)
		}
		if !x.apply(i, step) {
			break
		}
	}

	if x.result.Failure == nil {
		x.show()
	}
	x.settle()

	outcome := metrics.ResultFail
	if x.result.Pass {
		outcome = metrics.ResultPass
	}
	r.metrics.ScriptChecked(outcome)
	r.logger.Info("script checked",
		"script", s.Name,
		"pass", x.result.Pass,
		"steps", len(x.result.Trace))

	return x.result, nil
}

// apply runs one step. Returns false if the step was rejected.
func (x *run) apply(i int, step Step) bool {
	var (
		pf     kernel.Proof
		labels []string
		err    error
	)

	switch step.Rule {
	case kernel.RuleSuppose:
		l := assume.Label(step.Label)
		pf, err = kernel.Suppose(notation.MustParse(step.Formula), l)
		labels = []string{string(l)}

	case kernel.RuleConjIntro:
		pf, err = kernel.ConjIntro(x.proofs[step.From[0]], x.proofs[step.From[1]])

	case kernel.RuleConjElim:
		side, _ := kernel.ParseSide(step.Side)
		pf, err = kernel.ConjElim(x.proofs[step.From[0]], side)

	case kernel.RuleDisjIntro:
		side, _ := kernel.ParseSide(step.Side)
		pf, err = kernel.DisjIntro(x.proofs[step.From[0]], side, notation.MustParse(step.Formula))

	case kernel.RuleImplElim:
		pf, err = kernel.ImplElim(x.proofs[step.From[0]], x.proofs[step.From[1]])

	case kernel.RuleImplIntro:
		l := assume.Label(step.Label)
		pf, err = kernel.ImplIntro(l, x.proofs[step.From[0]])
		labels = []string{string(l)}

	case kernel.RuleDisjElim:
		l1, l2 := assume.Label(step.Labels[0]), assume.Label(step.Labels[1])
		pf, err = kernel.DisjElim(x.proofs[step.From[0]], x.proofs[step.From[1]], l1, x.proofs[step.From[2]], l2)
		labels = []string{string(l1), string(l2)}

	case RuleAssume:
		var l assume.Label
		pf, l, err = x.stack.Assume(notation.MustParse(step.Formula))
		labels = []string{string(l)}

	case RuleDischarge:
		var l assume.Label
		if step.Label != "" {
			l = assume.Label(step.Label)
		} else if top, ok := x.stack.Innermost(); ok {
			l = top
		}
		pf, err = x.stack.Discharge(l, x.proofs[step.From[0]])
		labels = []string{string(l)}
	}

	if err != nil {
		x.fail(i, step.ID, step.Rule, err)
		return false
	}

	x.metrics.RuleApplied(step.Rule)
	x.proofs[step.ID] = pf
	ts := TraceStep{
		Index:      i,
		ID:         step.ID,
		Rule:       step.Rule,
		Conclusion: pf.Conclusion().String(),
		Open:       openLabels(pf),
		Labels:     labels,
	}
	x.result.Trace = append(x.result.Trace, ts)
	x.logger.Debug("rule applied",
		"script", x.script.Name,
		"step", step.ID,
		"rule", step.Rule,
		"proof", pf.String())
	return true
}

// show checks the result step against the goal.
func (x *run) show() {
	id := x.script.ResultID()
	goal := notation.MustParse(x.script.Goal)

	pf, err := kernel.Shows(x.proofs[id], goal)
	if err != nil {
		x.fail(len(x.script.Steps), id, kernel.RuleShows, err)
		return
	}
	x.metrics.RuleApplied(kernel.RuleShows)

	if x.script.ExpectError == "" {
		x.result.Theorem = newTheorem(x.script.Name, pf.Conclusion())
	}
}

// settle decides Pass from the failure and expect_error.
func (x *run) settle() {
	expect := x.script.ExpectError
	f := x.result.Failure

	switch {
	case expect == "" && f != nil:
		x.result.AddError(fmt.Sprintf("step %s (%s): %s", f.Step, f.Rule, f.Message))
	case expect != "" && f == nil:
		x.result.AddError(fmt.Sprintf("expected error %s, but the proof succeeded", expect))
	case expect != "" && f.Code != expect:
		x.result.AddError(fmt.Sprintf("expected error %s, got %s at step %s", expect, f.Code, f.Step))
	}
}

func (x *run) fail(i int, id, rule string, err error) {
	f := &Failure{Index: i, Step: id, Rule: rule, Message: err.Error()}

	var re *kernel.RuleError
	var ue *scoped.UsageError
	switch {
	case errors.As(err, &re):
		f.Code = string(re.Code)
		f.Label = string(re.Label)
		for _, fm := range re.Formulas {
			f.Formulas = append(f.Formulas, formula.Format(fm))
		}
	case errors.As(err, &ue):
		f.Code = string(ue.Code)
		f.Label = string(ue.Label)
	default:
		f.Code = "Unknown"
	}

	x.result.Failure = f
	x.metrics.RuleFailed(rule, f.Code)
	x.logger.Debug("rule rejected",
		"script", x.script.Name,
		"step", id,
		"rule", rule,
		"code", f.Code,
		"error", err)
}

func openLabels(pf kernel.Proof) []string {
	ls := pf.Assumptions().Labels()
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}

func newTheorem(name string, statement formula.Formula) *Theorem {
	return &Theorem{
		ID:          must(formula.TheoremID(name, statement)),
		Name:        name,
		Statement:   statement,
		Display:     statement.String(),
		Fingerprint: formula.MustFingerprint(statement),
	}
}

// must panics on error. Only used where the kernel has already vetted the formula.
func must(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}
