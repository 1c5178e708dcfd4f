package translation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"codeberg.org/snonux/locbatch/internal"
)

const systemPromptTemplate = `You are a professional game localization translator. You will receive a JSON object containing an array of %[1]s texts. Translate every text into natural, idiomatic %[2]s.

Rules:
1. Keep all special markers exactly as they are:
   - newline escapes \n
   - variable placeholders {{xxx}}
   - icon identifiers :xxx:
   - punctuation
   - Markdown markup such as *text* or **text**
2. Keep the original tone and style of the game
3. Translate game terminology consistently
4. The translation must read fluently in %[2]s

Return the result as JSON and keep the original order. The "translations" array must have exactly as many items as the "texts" array.

Input example:
{
    "texts": [
        "Text with {{variable}}",
        "Text with *markdown* and **bold**"
    ]
}

Output example:
{
    "translations": [
        "<translation of: Text with {{variable}}>",
        "<translation of: Text with *markdown* and **bold**>"
    ]
}`

// Request is the pair of messages sent for one batch
type Request struct {
	System string
	User   string
}

// SystemPrompt returns the fixed instruction given to the model
func SystemPrompt(cfg *Config) string {
	return fmt.Sprintf(systemPromptTemplate, cfg.SourceLanguage, cfg.TargetLanguage)
}

type requestPayload struct {
	Texts []string `json:"texts"`
}

// BuildPayload serializes the texts of a batch as {"texts": [...]}.
// Non-ASCII and HTML characters are written literally.
func BuildPayload(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(requestPayload{Texts: values}); err != nil {
		return "", fmt.Errorf("failed to encode request payload: %w", err)
	}

	return string(internal.UnescapeLineSeparators(bytes.TrimRight(buf.Bytes(), "\n"))), nil
}

// BuildRequest assembles the messages for one batch
func BuildRequest(cfg *Config, values []string) (Request, error) {
	user, err := BuildPayload(values)
	if err != nil {
		return Request{}, err
	}
	return Request{System: SystemPrompt(cfg), User: user}, nil
}
