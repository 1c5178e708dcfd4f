package translation

import (
	"context"
	"fmt"
)

// Translator turns one batch into a key to translation mapping
type Translator struct {
	config     *Config
	dispatcher Dispatcher
}

// NewTranslator creates a translator that sends requests through d
func NewTranslator(cfg *Config, d Dispatcher) *Translator {
	return &Translator{
		config:     cfg,
		dispatcher: d,
	}
}

// TranslateBatch builds the request for values, dispatches it and
// validates the reply. keys[i] receives the translation of values[i].
// Dispatch failures come back as *DispatchError; invalid replies wrap
// ErrParse, ErrFormat or ErrCountMismatch. The raw reply is returned
// alongside validation errors for diagnostics.
func (t *Translator) TranslateBatch(ctx context.Context, keys, values []string) (map[string]string, string, error) {
	if len(keys) != len(values) {
		return nil, "", fmt.Errorf("batch has %d keys but %d values", len(keys), len(values))
	}

	req, err := BuildRequest(t.config, values)
	if err != nil {
		return nil, "", err
	}

	raw, err := t.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return nil, "", &DispatchError{Backend: t.dispatcher.Name(), Err: err}
	}

	translated, err := ParseResponse(raw, keys)
	if err != nil {
		return nil, raw, err
	}
	return translated, raw, nil
}

// Backend returns the dispatcher name
func (t *Translator) Backend() string {
	return t.dispatcher.Name()
}
