package formula

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFormula = "ndk/formula/v1"
	DomainTheorem = "ndk/theorem/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content-addressed identity of a formula.
// Structurally equal formulas always have equal fingerprints.
func Fingerprint(f Formula) (string, error) {
	canonical, err := MarshalCanonical(f)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFormula, canonical), nil
}

// TheoremID computes the identity of a named theorem with the given statement.
// The same statement proved under two names yields two IDs.
func TheoremID(name string, statement Formula) (string, error) {
	fp, err := Fingerprint(statement)
	if err != nil {
		return "", fmt.Errorf("TheoremID: %w", err)
	}
	key, err := marshalCanonicalString(name)
	if err != nil {
		return "", fmt.Errorf("TheoremID: failed to marshal name: %w", err)
	}
	data := append(key, ':')
	data = append(data, fp...)
	return hashWithDomain(DomainTheorem, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the formula is known to be valid.
func MustFingerprint(f Formula) string {
	fp, err := Fingerprint(f)
	if err != nil {
		panic(err)
	}
	return fp
}
