package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ndk/internal/script"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// identityResult checks the two-step proof of f -> f under name.
func identityResult(t *testing.T, name, f string) *script.Result {
	t.Helper()
	s := &script.Script{
		Name: name,
		Goal: "(" + f + ") -> (" + f + ")",
		Steps: []script.Step{
			{ID: "a", Rule: "suppose", Formula: f, Label: "1"},
			{ID: "d", Rule: "impl_intro", Label: "1", From: []string{"a"}},
		},
	}
	r, err := script.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run(%s) failed: %v", name, err)
	}
	if !r.Pass || r.Theorem == nil {
		t.Fatalf("Run(%s) did not prove its goal: %v", name, r.Errors)
	}
	return r
}
