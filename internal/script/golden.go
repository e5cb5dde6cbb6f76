package script

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the stable, comparable form of a run.
type TraceSnapshot struct {
	Script  string      `json:"script"`
	Pass    bool        `json:"pass"`
	Trace   []TraceStep `json:"trace"`
	Failure *Failure    `json:"failure,omitempty"`
}

// Snapshot renders r as indented JSON with no HTML escaping, so formulas
// keep their connectives verbatim. Struct field order fixes key order.
func Snapshot(r *Result) ([]byte, error) {
	snap := TraceSnapshot{
		Script:  r.Name,
		Pass:    r.Pass,
		Trace:   r.Trace,
		Failure: r.Failure,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AssertGolden compares r's snapshot against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/script -update
func AssertGolden(t *testing.T, name string, r *Result) {
	t.Helper()

	data, err := Snapshot(r)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
