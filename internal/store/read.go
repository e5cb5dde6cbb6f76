package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ndk/internal/formula"
)

// Theorem is a stored theorem row.
type Theorem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Statement     formula.Formula `json:"-"`
	Display       string          `json:"statement"`
	Fingerprint   string          `json:"fingerprint"`
	KernelVersion string          `json:"kernel_version"`
	Seq           int64           `json:"seq"`
}

// Step is one stored trace step of a theorem.
type Step struct {
	TheoremID  string   `json:"theorem_id"`
	Index      int      `json:"index"`
	StepID     string   `json:"step"`
	Rule       string   `json:"rule"`
	Conclusion string   `json:"conclusion"`
	Open       []string `json:"open"`
}

const theoremColumns = `id, name, statement, fingerprint, display, kernel_version, seq`

// ReadTheorem retrieves a theorem by name.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadTheorem(ctx context.Context, name string) (Theorem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+theoremColumns+`
		FROM theorems
		WHERE name = ?
	`, name)

	return scanTheorem(row)
}

// ListTheorems returns all theorems in recording order.
// Results are ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) for an empty store.
func (s *Store) ListTheorems(ctx context.Context) ([]Theorem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+theoremColumns+`
		FROM theorems
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query theorems: %w", err)
	}
	return collectTheorems(rows)
}

// FindByStatement returns every theorem whose statement is f.
// Matching is on fingerprint, so it ignores how f was spelled.
func (s *Store) FindByStatement(ctx context.Context, f formula.Formula) ([]Theorem, error) {
	fp, err := formula.Fingerprint(f)
	if err != nil {
		return nil, fmt.Errorf("find by statement: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+theoremColumns+`
		FROM theorems
		WHERE fingerprint = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, fp)
	if err != nil {
		return nil, fmt.Errorf("query theorems by fingerprint: %w", err)
	}
	return collectTheorems(rows)
}

// ReadSteps returns the stored trace of a theorem, ordered by index.
// Returns an empty slice (not nil) if the theorem has no steps.
func (s *Store) ReadSteps(ctx context.Context, theoremID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT theorem_id, idx, step_id, rule, conclusion, open_labels
		FROM theorem_steps
		WHERE theorem_id = ?
		ORDER BY idx ASC
	`, theoremID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []Step{}
	for rows.Next() {
		var (
			st   Step
			open string
		)
		if err := rows.Scan(&st.TheoremID, &st.Index, &st.StepID, &st.Rule, &st.Conclusion, &open); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if st.Open, err = unmarshalLabels(open); err != nil {
			return nil, fmt.Errorf("step %s: %w", st.StepID, err)
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTheorem(row rowScanner) (Theorem, error) {
	var (
		th        Theorem
		statement string
	)
	if err := row.Scan(&th.ID, &th.Name, &statement, &th.Fingerprint, &th.Display, &th.KernelVersion, &th.Seq); err != nil {
		return Theorem{}, err
	}
	f, err := unmarshalStatement(statement)
	if err != nil {
		return Theorem{}, fmt.Errorf("theorem %s: %w", th.Name, err)
	}
	th.Statement = f
	return th, nil
}

func collectTheorems(rows *sql.Rows) ([]Theorem, error) {
	defer rows.Close()

	theorems := []Theorem{}
	for rows.Next() {
		th, err := scanTheorem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theorem: %w", err)
		}
		theorems = append(theorems, th)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate theorems: %w", err)
	}
	return theorems, nil
}
