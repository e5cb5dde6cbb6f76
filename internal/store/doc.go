// Package store provides SQLite-backed durable storage for checked theorems.
//
// Only statements the kernel has accepted reach the store: the writer takes
// a passing script.Result, never a proof value. Proofs themselves are not
// persisted. The stored record is the statement, its fingerprint, and the
// step trace that produced it.
//
// # Tables
//
//   - theorems: one row per named theorem (statement as canonical JSON)
//   - theorem_steps: the accepted steps that proved it, in order
//
// # Critical Patterns
//
// Idempotent writes
//   - Re-recording the same (name, fingerprint) is a no-op
//   - Recording a different statement under an existing name is a
//     *ConflictError
//
// Logical ordering
//   - seq INTEGER is assigned at insert time, never a timestamp
//   - List queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Steps must reference a stored theorem
package store
