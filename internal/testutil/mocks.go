package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/locbatch/internal/translation"
)

// Responder produces the raw model reply for the texts of one batch
type Responder func(texts []string) (string, error)

// MockDispatcher answers batches with a Responder and records every request
type MockDispatcher struct {
	Respond Responder
	Calls   [][]string
}

// Name returns the mock backend name
func (m *MockDispatcher) Name() string {
	return "mock"
}

// Dispatch decodes the texts of the request and passes them to Respond
func (m *MockDispatcher) Dispatch(ctx context.Context, req translation.Request) (string, error) {
	texts, err := decodeTexts(req.User)
	if err != nil {
		return "", err
	}
	m.Calls = append(m.Calls, texts)

	if m.Respond == nil {
		return EchoResponder("")(texts)
	}
	return m.Respond(texts)
}

// EchoResponder returns every text with prefix prepended
func EchoResponder(prefix string) Responder {
	return func(texts []string) (string, error) {
		out := make([]string, len(texts))
		for i, text := range texts {
			out[i] = prefix + text
		}
		return TranslationsJSON(out...), nil
	}
}

// MapResponder looks texts up in a fixed dictionary. Unknown texts are
// returned unchanged.
func MapResponder(dict map[string]string) Responder {
	return func(texts []string) (string, error) {
		out := make([]string, len(texts))
		for i, text := range texts {
			if translated, ok := dict[text]; ok {
				out[i] = translated
			} else {
				out[i] = text
			}
		}
		return TranslationsJSON(out...), nil
	}
}

// SequenceResponder replays replies in order, one per batch. Batches
// beyond the list fail.
func SequenceResponder(replies ...string) Responder {
	i := 0
	return func(texts []string) (string, error) {
		if i >= len(replies) {
			return "", fmt.Errorf("no reply for batch %d", i+1)
		}
		reply := replies[i]
		i++
		return reply, nil
	}
}

// TranslationsJSON renders {"translations": [...]}
func TranslationsJSON(texts ...string) string {
	if texts == nil {
		texts = []string{}
	}
	data, _ := json.Marshal(map[string][]string{"translations": texts})
	return string(data)
}

func decodeTexts(payload string) ([]string, error) {
	var req struct {
		Texts []string `json:"texts"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("mock: invalid request payload: %w", err)
	}
	return req.Texts, nil
}

// NewMockChatServer starts an OpenAI-compatible chat completion endpoint
// that answers with respond. Point a client at server.URL + "/v1".
func NewMockChatServer(t *testing.T, respond Responder) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Messages) == 0 {
			http.Error(w, "no messages", http.StatusBadRequest)
			return
		}

		texts, err := decodeTexts(req.Messages[len(req.Messages)-1].Content)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		content, err := respond(texts)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": err.Error(), "type": "server_error"},
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-mock",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Index:        0,
					FinishReason: openai.FinishReasonStop,
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: content,
					},
				},
			},
		})
	}))
	t.Cleanup(server.Close)

	return server
}
