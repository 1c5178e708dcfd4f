package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrInput marks a source file that is missing, unreadable or malformed.
// It aborts the whole run.
var ErrInput = errors.New("invalid input")

// SourceEntry is one localization string: an identifier and its text
type SourceEntry struct {
	Key   string
	Value string
}

// Source holds the entries of an input file in file order
type Source struct {
	entries []SourceEntry
	index   map[string]int
}

// NewSource creates an empty source
func NewSource() *Source {
	return &Source{index: make(map[string]int)}
}

// Add appends an entry. Adding an existing key replaces its value but
// keeps the position of the first occurrence.
func (s *Source) Add(key, value string) {
	if i, ok := s.index[key]; ok {
		s.entries[i].Value = value
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, SourceEntry{Key: key, Value: value})
}

// Len returns the number of unique keys
func (s *Source) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries in order
func (s *Source) Entries() []SourceEntry {
	out := make([]SourceEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Keys returns the keys in order
func (s *Source) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// ReadSourceFile reads a flat JSON object of string keys to string values.
// All failures wrap ErrInput.
func ReadSourceFile(filename string) (*Source, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read source file: %v", ErrInput, err)
	}

	src, err := ParseSource(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInput, filename, err)
	}
	return src, nil
}

// ParseSource decodes a flat JSON object while keeping key order
func ParseSource(data []byte) (*Source, error) {
	// The decoder would silently turn invalid bytes into U+FFFD
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("input is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", t)
	}

	src := NewSource()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		vt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %s", key, describeToken(vt))
		}

		src.Add(key, value)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}

	return src, nil
}

func describeToken(t json.Token) string {
	switch v := t.(type) {
	case nil:
		return "null"
	case json.Delim:
		if v == '{' {
			return "object"
		}
		return "array"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", t)
	}
}
