package formula

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Canonical JSON object keys, one per variant.
const (
	keyVar  = "var"
	keyConj = "conj"
	keyDisj = "disj"
	keyImpl = "impl"
)

// MarshalCanonical produces the canonical JSON encoding of f.
// CRITICAL: This is the ONLY serialization that should be used for
// content-addressed fingerprints.
//
// Encoding:
//
//	{"var":"p"}
//	{"conj":[<left>,<right>]}
//	{"disj":[<left>,<right>]}
//	{"impl":[<left>,<right>]}
//
// Strings are NFC normalized and never HTML-escaped. A nil formula or nil
// subformula is an error.
func MarshalCanonical(f Formula) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, f Formula) error {
	switch x := f.(type) {
	case nil:
		return fmt.Errorf("nil formula has no canonical encoding")
	case Var:
		name, err := marshalCanonicalString(x.key())
		if err != nil {
			return err
		}
		buf.WriteString(`{"` + keyVar + `":`)
		buf.Write(name)
		buf.WriteByte('}')
		return nil
	case Conj:
		return marshalCanonicalBinary(buf, keyConj, x.Left, x.Right)
	case Disj:
		return marshalCanonicalBinary(buf, keyDisj, x.Left, x.Right)
	case Impl:
		return marshalCanonicalBinary(buf, keyImpl, x.Left, x.Right)
	default:
		return fmt.Errorf("unknown formula type: %T", f)
	}
}

func marshalCanonicalBinary(buf *bytes.Buffer, key string, left, right Formula) error {
	buf.WriteString(`{"` + key + `":[`)
	if err := marshalCanonical(buf, left); err != nil {
		return fmt.Errorf("%s[0]: %w", key, err)
	}
	buf.WriteByte(',')
	if err := marshalCanonical(buf, right); err != nil {
		return fmt.Errorf("%s[1]: %w", key, err)
	}
	buf.WriteString("]}")
	return nil
}

// marshalCanonicalString produces a canonical JSON string with NFC normalization.
// Only control characters, backslash, and quote are escaped.
func marshalCanonicalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // <, >, & must NOT be escaped
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline, remove it
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return unescapeLineSeparators(out), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters. Escaped backslashes are copied
// as a unit so a literal `\\u2028` in the source text is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) && string(data[i+2:i+5]) == "202" {
			switch data[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// UnmarshalCanonical decodes a formula from its JSON encoding.
// Every object must have exactly one known key; binary connectives must have
// exactly two operands.
func UnmarshalCanonical(data []byte) (Formula, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("formula: %w", err)
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("formula: object must have exactly one key, got %d", len(raw))
	}

	for key, body := range raw {
		switch key {
		case keyVar:
			var name string
			if err := json.Unmarshal(body, &name); err != nil {
				return nil, fmt.Errorf("formula var: %w", err)
			}
			if name == "" {
				return nil, fmt.Errorf("formula var: empty name")
			}
			return NewVar(name), nil
		case keyConj, keyDisj, keyImpl:
			left, right, err := unmarshalOperands(key, body)
			if err != nil {
				return nil, err
			}
			switch key {
			case keyConj:
				return Conj{Left: left, Right: right}, nil
			case keyDisj:
				return Disj{Left: left, Right: right}, nil
			default:
				return Impl{Left: left, Right: right}, nil
			}
		default:
			return nil, fmt.Errorf("formula: unknown key %q", key)
		}
	}
	return nil, fmt.Errorf("formula: unreachable")
}

func unmarshalOperands(key string, body json.RawMessage) (Formula, Formula, error) {
	var ops []json.RawMessage
	if err := json.Unmarshal(body, &ops); err != nil {
		return nil, nil, fmt.Errorf("formula %s: %w", key, err)
	}
	if len(ops) != 2 {
		return nil, nil, fmt.Errorf("formula %s: expected 2 operands, got %d", key, len(ops))
	}
	left, err := UnmarshalCanonical(ops[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s[0]: %w", key, err)
	}
	right, err := UnmarshalCanonical(ops[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%s[1]: %w", key, err)
	}
	return left, right, nil
}
