package script

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule names accepted in scripts beyond the kernel's own.
const (
	RuleAssume    = "assume"
	RuleDischarge = "discharge"
)

// Script is a named derivation.
type Script struct {
	// Name identifies the theorem this script proves.
	Name string `yaml:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty"`

	// Kernel is an optional semver constraint on kernel.Version (e.g. ">= 0.1.0").
	Kernel string `yaml:"kernel,omitempty"`

	// Goal is the formula the script must prove with no open assumptions.
	Goal string `yaml:"goal"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Result names the step checked against Goal. Defaults to the last step.
	Result string `yaml:"result,omitempty"`

	// ExpectError makes this a negative script: it passes only if the first
	// failure has this code.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Path is the file the script was loaded from.
	Path string `yaml:"-"`
}

// Step is one rule application.
type Step struct {
	ID      string      `yaml:"id"`
	Rule    string      `yaml:"rule"`
	Formula string      `yaml:"formula,omitempty"`
	Label   LabelText   `yaml:"label,omitempty"`
	Labels  []LabelText `yaml:"labels,omitempty"`
	Side    string      `yaml:"side,omitempty"`
	From    []string    `yaml:"from,omitempty"`

	// Line is the source line of the step, when known.
	Line int `yaml:"-"`
}

var stepFields = []string{"id", "rule", "formula", "label", "labels", "side", "from"}

// UnmarshalYAML decodes a step, rejecting unknown keys and recording the
// source line. Node.Decode does not inherit KnownFields, so the key check
// is done here.
func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !slices.Contains(stepFields, key.Value) {
			return fmt.Errorf("line %d: field %s not found in type script.Step", key.Line, key.Value)
		}
	}

	type plain Step
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = Step(p)
	s.Line = n.Line
	return nil
}

// LabelText is a hypothesis label as written in a script. Both "label: 1"
// and "label: h1" decode to their literal text.
type LabelText string

// UnmarshalYAML accepts any scalar.
func (l *LabelText) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: label must be a scalar", n.Line)
	}
	*l = LabelText(n.Value)
	return nil
}

// ParseYAML decodes a single YAML script. Unknown fields are rejected.
func ParseYAML(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// LoadYAML reads a YAML script file.
func LoadYAML(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	s, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Load reads every script in the file at path. YAML files hold one script,
// CUE files hold any number.
func Load(path string) ([]*Script, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err := LoadYAML(path)
		if err != nil {
			return nil, err
		}
		return []*Script{s}, nil
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, fmt.Errorf("%s: unsupported script extension", path)
	}
}

// IsScriptFile reports whether path has a script extension.
func IsScriptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".cue":
		return true
	default:
		return false
	}
}

// Find expands paths into script files. Directories are walked recursively;
// files are taken as given. The result is sorted and free of duplicates.
func Find(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsScriptFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// LoadAll finds and loads every script under paths.
func LoadAll(paths []string) ([]*Script, error) {
	files, err := Find(paths)
	if err != nil {
		return nil, err
	}
	var out []*Script
	for _, f := range files {
		scripts, err := Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, scripts...)
	}
	return out, nil
}

// ResultID returns the id of the step checked against the goal.
func (s *Script) ResultID() string {
	if s.Result != "" {
		return s.Result
	}
	if len(s.Steps) == 0 {
		return ""
	}
	return s.Steps[len(s.Steps)-1].ID
}
