package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Translations maps keys to translated text and remembers insertion order,
// so documents written from identical runs are byte-identical
type Translations struct {
	keys   []string
	values map[string]string
}

// NewTranslations creates an empty mapping
func NewTranslations() *Translations {
	return &Translations{values: make(map[string]string)}
}

// Set adds or replaces a translation
func (t *Translations) Set(key, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the translation of key
func (t *Translations) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of translated keys
func (t *Translations) Len() int {
	return len(t.keys)
}

// Keys returns the keys in insertion order
func (t *Translations) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Map returns a copy as a plain map
func (t *Translations) Map() map[string]string {
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the object with keys in insertion order
func (t *Translations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		buf.WriteByte(':')
		if err := enc.Encode(t.values[k]); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat string object keeping key order
func (t *Translations) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("translations: expected object, got %v", tok)
	}

	*t = Translations{values: make(map[string]string)}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("translations: value of %q: %w", key, err)
		}
		t.Set(key, value)
	}

	_, err = dec.Token()
	return err
}
