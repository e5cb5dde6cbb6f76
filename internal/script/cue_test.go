package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCUE(t *testing.T) {
	scripts, err := LoadCUE("testdata/scripts/conjunction.cue")
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	conj := scripts[0]
	assert.Equal(t, "conj_commutes", conj.Name)
	assert.Equal(t, "conjunction is commutative", conj.Description)
	assert.Equal(t, "p & q -> q & p", conj.Goal)
	assert.Equal(t, "testdata/scripts/conjunction.cue", conj.Path)
	require.Len(t, conj.Steps, 5)
	assert.Equal(t, "conj_elim", conj.Steps[1].Rule)
	assert.Equal(t, "left", conj.Steps[1].Side)
	assert.Equal(t, []string{"r", "l"}, conj.Steps[3].From)

	id := scripts[1]
	assert.Equal(t, "identity", id.Name)
	assert.Equal(t, LabelText("1"), id.Steps[0].Label, "int labels become text")
}

func TestParseCUE_StringAndIntLabels(t *testing.T) {
	src := `
proof: cases: {
	goal: "r"
	steps: [{id: "x", rule: "disj_elim", from: ["a", "b", "c"], labels: [1, "h2"]}]
}
`
	scripts, err := ParseCUE([]byte(src), "cases.cue")
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, []LabelText{"1", "h2"}, scripts[0].Steps[0].Labels)
}

func TestParseCUE_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `proof: {`, ""},
		{"no proof struct", `theorem: x: {}`, "no proof struct found"},
		{"empty proof struct", `proof: {}`, "proof struct is empty"},
		{"unknown field", `proof: x: {goal: "p", steps: [], typo: 1}`, ""},
		{"unknown rule", `proof: x: {goal: "p", steps: [{id: "a", rule: "magic"}]}`, ""},
		{"bad side", `proof: x: {goal: "p", steps: [{id: "a", rule: "conj_elim", side: "up", from: ["b"]}]}`, ""},
		{"missing goal", `proof: x: {steps: []}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}
