package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML_ValidFile(t *testing.T) {
	s, err := LoadYAML("testdata/scripts/hypothetical_syllogism.yaml")
	require.NoError(t, err)

	assert.Equal(t, "hypothetical_syllogism", s.Name)
	assert.Equal(t, ">= 0.1.0", s.Kernel)
	assert.Equal(t, "(p -> q) -> (q -> r) -> p -> r", s.Goal)
	assert.Equal(t, "testdata/scripts/hypothetical_syllogism.yaml", s.Path)
	require.Len(t, s.Steps, 8)

	first := s.Steps[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "suppose", first.Rule)
	assert.Equal(t, LabelText("1"), first.Label, "integer labels decode to their text")
	assert.Equal(t, 6, first.Line)

	assert.Equal(t, []string{"a1", "a3"}, s.Steps[2].From)
	assert.Equal(t, "d3", s.ResultID())
}

func TestParseYAML_UnknownTopLevelField(t *testing.T) {
	_, err := ParseYAML([]byte("name: x\ngoal: p\nsteps: []\nresults: oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "results")
}

func TestParseYAML_UnknownStepField(t *testing.T) {
	_, err := ParseYAML([]byte(`
name: x
goal: p
steps:
  - {id: a, rule: suppose, formula: p, lable: 1}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lable")
}

func TestParseYAML_LabelMustBeScalar(t *testing.T) {
	_, err := ParseYAML([]byte(`
name: x
goal: p
steps:
  - {id: a, rule: suppose, formula: p, label: [1]}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label must be a scalar")
}

func TestParseYAML_Labels(t *testing.T) {
	s, err := ParseYAML([]byte(`
name: x
goal: p
steps:
  - {id: c, rule: disj_elim, from: [a, b, c], labels: [1, h2]}
`))
	require.NoError(t, err)
	assert.Equal(t, []LabelText{"1", "h2"}, s.Steps[0].Labels)
}

func TestLoadYAML_MissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read script file")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeScript(t, t.TempDir(), "proof.txt", "p")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported script extension")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.yaml", "")
	writeScript(t, dir, "a.yml", "")
	writeScript(t, dir, "sub/c.cue", "")
	writeScript(t, dir, "notes.md", "")
	writeScript(t, dir, ".hidden/d.yaml", "")

	files, err := Find([]string{dir, filepath.Join(dir, "b.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.cue"),
	}, files)
}

func TestFind_MissingPath(t *testing.T) {
	_, err := Find([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestLoadAll_Testdata(t *testing.T) {
	scripts, err := LoadAll([]string{"testdata/scripts"})
	require.NoError(t, err)

	names := make([]string, len(scripts))
	for i, s := range scripts {
		names[i] = s.Name
	}
	assert.ElementsMatch(t, []string{
		"conj_commutes",
		"identity",
		"hypothetical_syllogism",
		"inconsistent_label",
		"open_assumption",
		"out_of_order",
		"vacuous_discharge",
		"or_commutes",
	}, names)
}

func TestResultID(t *testing.T) {
	s := &Script{Steps: []Step{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, "b", s.ResultID())

	s.Result = "a"
	assert.Equal(t, "a", s.ResultID())

	assert.Equal(t, "", (&Script{}).ResultID())
}
