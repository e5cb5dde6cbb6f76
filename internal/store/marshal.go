package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/ndk/internal/formula"
)

// marshalStatement converts a formula to canonical JSON TEXT for storage.
func marshalStatement(f formula.Formula) (string, error) {
	data, err := formula.MarshalCanonical(f)
	if err != nil {
		return "", fmt.Errorf("marshal statement: %w", err)
	}
	return string(data), nil
}

func unmarshalStatement(data string) (formula.Formula, error) {
	f, err := formula.UnmarshalCanonical([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal statement: %w", err)
	}
	return f, nil
}

// marshalLabels stores open labels as a JSON array. Never "null".
func marshalLabels(labels []string) (string, error) {
	if labels == nil {
		labels = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(labels); err != nil {
		return "", fmt.Errorf("marshal labels: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalLabels(data string) ([]string, error) {
	labels := []string{}
	if data == "" || data == "[]" {
		return labels, nil
	}
	if err := json.Unmarshal([]byte(data), &labels); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}
	return labels, nil
}
