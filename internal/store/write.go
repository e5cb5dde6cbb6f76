package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ndk/internal/kernel"
	"github.com/roach88/ndk/internal/script"
)

// ConflictError reports a name already bound to a different statement.
type ConflictError struct {
	Name     string
	Existing string
	Incoming string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("theorem %q already recorded as %s, refusing %s", e.Name, e.Existing, e.Incoming)
}

// IsConflict reports whether err is a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// WriteTheorem records the theorem and trace of a passing result.
// Returns whether a new row was inserted.
//
// Re-recording the same name and statement is a no-op (inserted=false).
// The result must carry a Theorem: negative and failing scripts are refused.
func (s *Store) WriteTheorem(ctx context.Context, r *script.Result) (inserted bool, err error) {
	if r == nil || r.Theorem == nil || !r.Pass {
		return false, fmt.Errorf("write theorem: result has no checked theorem")
	}
	th := r.Theorem

	statement, err := marshalStatement(th.Statement)
	if err != nil {
		return false, fmt.Errorf("write theorem: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write theorem: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT fingerprint FROM theorems WHERE name = ?`, th.Name).Scan(&existing)
	switch {
	case err == nil && existing == th.Fingerprint:
		return false, nil
	case err == nil:
		return false, &ConflictError{Name: th.Name, Existing: existing, Incoming: th.Fingerprint}
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("write theorem: lookup: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM theorems`).Scan(&seq); err != nil {
		return false, fmt.Errorf("write theorem: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO theorems
		(id, name, statement, fingerprint, display, kernel_version, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		th.ID,
		th.Name,
		statement,
		th.Fingerprint,
		th.Display,
		kernel.Version,
		seq,
	)
	if err != nil {
		return false, fmt.Errorf("write theorem: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write theorem: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for _, step := range r.Trace {
		open, err := marshalLabels(step.Open)
		if err != nil {
			return false, fmt.Errorf("write theorem: step %s: %w", step.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO theorem_steps
			(theorem_id, idx, step_id, rule, conclusion, open_labels)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			th.ID,
			step.Index,
			step.ID,
			step.Rule,
			step.Conclusion,
			open,
		)
		if err != nil {
			return false, fmt.Errorf("write theorem: step %s: %w", step.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write theorem: commit: %w", err)
	}
	return true, nil
}
