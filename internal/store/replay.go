package store

import (
	"context"
	"fmt"

	"github.com/roach88/ndk/internal/formula"
)

// ReplayEntry is the verification outcome for one stored theorem.
type ReplayEntry struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	OK       bool     `json:"ok"`
	Problems []string `json:"problems,omitempty"`
}

// ReplayReport summarizes a Replay over the whole store.
type ReplayReport struct {
	Entries []ReplayEntry `json:"entries"`
	Failed  int           `json:"failed"`
}

// OK reports whether every stored theorem verified.
func (r ReplayReport) OK() bool {
	return r.Failed == 0
}

// Replay re-derives every stored theorem's identity from its stored
// statement: the canonical JSON must parse, re-encode byte-identically,
// and reproduce the stored fingerprint, id and display text.
//
// Entries follow recording order (seq ASC, id ASC).
func (s *Store) Replay(ctx context.Context) (ReplayReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, statement, fingerprint, display
		FROM theorems
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}
	defer rows.Close()

	report := ReplayReport{Entries: []ReplayEntry{}}
	for rows.Next() {
		var id, name, statement, fingerprint, display string
		if err := rows.Scan(&id, &name, &statement, &fingerprint, &display); err != nil {
			return ReplayReport{}, fmt.Errorf("replay: scan: %w", err)
		}

		entry := ReplayEntry{Name: name, ID: id}
		entry.Problems = verifyRow(id, name, statement, fingerprint, display)
		entry.OK = len(entry.Problems) == 0
		if !entry.OK {
			report.Failed++
		}
		report.Entries = append(report.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return ReplayReport{}, fmt.Errorf("replay: iterate: %w", err)
	}
	return report, nil
}

func verifyRow(id, name, statement, fingerprint, display string) []string {
	f, err := formula.UnmarshalCanonical([]byte(statement))
	if err != nil {
		return []string{fmt.Sprintf("statement does not parse: %v", err)}
	}

	var problems []string
	canon, err := formula.MarshalCanonical(f)
	if err != nil {
		return []string{fmt.Sprintf("statement does not re-encode: %v", err)}
	}
	if string(canon) != statement {
		problems = append(problems, "statement is not in canonical form")
	}
	if fp, err := formula.Fingerprint(f); err != nil || fp != fingerprint {
		problems = append(problems, fmt.Sprintf("fingerprint mismatch: stored %s, computed %s", fingerprint, fp))
	}
	if tid, err := formula.TheoremID(name, f); err != nil || tid != id {
		problems = append(problems, fmt.Sprintf("id mismatch: stored %s, computed %s", id, tid))
	}
	if f.String() != display {
		problems = append(problems, fmt.Sprintf("display mismatch: stored %q, computed %q", display, f.String()))
	}
	return problems
}
