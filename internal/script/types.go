package script

import (
	"github.com/roach88/ndk/internal/formula"
)

// TraceStep records one accepted rule application.
type TraceStep struct {
	Index      int      `json:"index"`
	ID         string   `json:"id"`
	Rule       string   `json:"rule"`
	Conclusion string   `json:"conclusion"`
	Open       []string `json:"open"`
	Labels     []string `json:"labels,omitempty"`
}

// Failure describes the step the kernel (or scope stack) rejected.
type Failure struct {
	Index    int      `json:"index"`
	Step     string   `json:"step"`
	Rule     string   `json:"rule"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Label    string   `json:"label,omitempty"`
	Formulas []string `json:"formulas,omitempty"`
}

// Theorem is a checked statement, ready to be recorded.
type Theorem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Statement   formula.Formula `json:"-"`
	Display     string          `json:"statement"`
	Fingerprint string          `json:"fingerprint"`
}

// Result is the outcome of running a script.
type Result struct {
	// Name is the script name.
	Name string `json:"name"`

	// Pass indicates the script did what it claimed: a positive script
	// proved its goal, a negative script failed with the expected code.
	Pass bool `json:"pass"`

	// Trace contains the accepted steps in order.
	Trace []TraceStep `json:"trace"`

	// Failure is the first rejected step, if any.
	Failure *Failure `json:"failure,omitempty"`

	// Errors contains human-readable reasons for Pass being false.
	Errors []string `json:"errors,omitempty"`

	// Theorem is set when a positive script passes.
	Theorem *Theorem `json:"theorem,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:  name,
		Pass:  true,
		Trace: []TraceStep{},
	}
}

// AddError adds an error message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
