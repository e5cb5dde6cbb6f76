package script

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE []byte

// CompileError represents a CUE script error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUE reads every script under the top-level "proof" struct of a CUE file.
func LoadCUE(path string) ([]*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	scripts, err := ParseCUE(data, path)
	if err != nil {
		return nil, err
	}
	for _, s := range scripts {
		s.Path = path
	}
	return scripts, nil
}

// ParseCUE compiles CUE source and extracts its scripts in declaration
// order. Each script is checked against the embedded #Script schema, which
// rejects unknown fields and rule names.
func ParseCUE(data []byte, filename string) ([]*Script, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile script schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Script"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	proofs := v.LookupPath(cue.ParsePath("proof"))
	if !proofs.Exists() {
		return nil, &CompileError{Field: "proof", Message: "no proof struct found", Pos: v.Pos()}
	}

	iter, err := proofs.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var scripts []*Script
	for iter.Next() {
		sv := def.Unify(iter.Value())
		if err := sv.Validate(cue.Concrete(true)); err != nil {
			return nil, formatCUEError(err)
		}
		s, err := compileScript(iter.Label(), sv)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	if len(scripts) == 0 {
		return nil, &CompileError{Field: "proof", Message: "proof struct is empty", Pos: proofs.Pos()}
	}
	return scripts, nil
}

func compileScript(name string, v cue.Value) (*Script, error) {
	s := &Script{Name: name}

	var err error
	if s.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if s.Kernel, err = optionalString(v, "kernel"); err != nil {
		return nil, err
	}
	if s.Goal, err = optionalString(v, "goal"); err != nil {
		return nil, err
	}
	if s.Result, err = optionalString(v, "result"); err != nil {
		return nil, err
	}
	if s.ExpectError, err = optionalString(v, "expect_error"); err != nil {
		return nil, err
	}

	stepsIter, err := v.LookupPath(cue.ParsePath("steps")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for stepsIter.Next() {
		step, err := compileStep(stepsIter.Value())
		if err != nil {
			return nil, err
		}
		s.Steps = append(s.Steps, step)
	}
	return s, nil
}

func compileStep(v cue.Value) (Step, error) {
	step := Step{Line: v.Pos().Line()}

	var err error
	if step.ID, err = optionalString(v, "id"); err != nil {
		return step, err
	}
	if step.Rule, err = optionalString(v, "rule"); err != nil {
		return step, err
	}
	if step.Formula, err = optionalString(v, "formula"); err != nil {
		return step, err
	}
	if step.Side, err = optionalString(v, "side"); err != nil {
		return step, err
	}

	if lv := v.LookupPath(cue.ParsePath("label")); lv.Exists() {
		l, err := cueLabel(lv)
		if err != nil {
			return step, err
		}
		step.Label = l
	}

	if lv := v.LookupPath(cue.ParsePath("labels")); lv.Exists() {
		iter, err := lv.List()
		if err != nil {
			return step, formatCUEError(err)
		}
		for iter.Next() {
			l, err := cueLabel(iter.Value())
			if err != nil {
				return step, err
			}
			step.Labels = append(step.Labels, l)
		}
	}

	if fv := v.LookupPath(cue.ParsePath("from")); fv.Exists() {
		iter, err := fv.List()
		if err != nil {
			return step, formatCUEError(err)
		}
		for iter.Next() {
			ref, err := iter.Value().String()
			if err != nil {
				return step, formatCUEError(err)
			}
			step.From = append(step.From, ref)
		}
	}
	return step, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// cueLabel accepts an int or string label.
func cueLabel(v cue.Value) (LabelText, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return "", formatCUEError(err)
		}
		return LabelText(strconv.FormatInt(i, 10)), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return "", formatCUEError(err)
		}
		return LabelText(s), nil
	default:
		return "", &CompileError{Field: "label", Message: "label must be a string or an int", Pos: v.Pos()}
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
