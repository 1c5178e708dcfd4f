package translation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Response validation failures. Each one fails the whole batch.
var (
	ErrParse         = errors.New("response is not valid JSON")
	ErrFormat        = errors.New("invalid response format")
	ErrCountMismatch = errors.New("translation count mismatch")
)

// ParseResponse validates a raw model reply of the form
// {"translations": [...]} and pairs each translation with the key at the
// same position
func ParseResponse(raw string, keys []string) (map[string]string, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrFormat)
	}
	field, ok := obj["translations"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"translations\"", ErrFormat)
	}
	items, ok := field.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"translations\" is not an array", ErrFormat)
	}

	if len(items) != len(keys) {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrCountMismatch, len(items), len(keys))
	}

	out := make(map[string]string, len(keys))
	for i, item := range items {
		text, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: translation %d is not a string", ErrFormat, i)
		}
		out[keys[i]] = text
	}

	return out, nil
}
