package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
	return string(body)
}

func newTestConfig(t *testing.T, baseURL string) *Config {
	t.Helper()

	cfg, err := NewConfig(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	return cfg
}

func TestOpenAIDispatcher_Dispatch(t *testing.T) {
	var got openai.ChatCompletionRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody(`{"translations":["你好"]}`)))
	}))
	defer server.Close()

	cfg := newTestConfig(t, server.URL+"/v1")
	d := NewOpenAIDispatcher(cfg)

	req, err := BuildRequest(cfg, []string{"Hello"})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	content, err := d.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if content != `{"translations":["你好"]}` {
		t.Errorf("Dispatch() = %s", content)
	}

	if authHeader != "Bearer test-key" {
		t.Errorf("Authorization header = %q", authHeader)
	}
	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %s, want gpt-3.5-turbo", got.Model)
	}
	if got.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", got.Temperature)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != openai.ChatMessageRoleSystem || got.Messages[0].Content != req.System {
		t.Errorf("first message = %+v, want system prompt", got.Messages[0])
	}
	if got.Messages[1].Role != openai.ChatMessageRoleUser || got.Messages[1].Content != `{"texts":["Hello"]}` {
		t.Errorf("second message = %+v", got.Messages[1])
	}
}

func TestOpenAIDispatcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errText string
	}{
		{
			name:    "authentication failure",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			errText: "Incorrect API key",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"message":"upstream exploded","type":"server_error"}}`,
			errText: "OpenAI API error",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"id":"x","object":"chat.completion","choices":[]}`,
			errText: "no choices returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			d := NewOpenAIDispatcher(newTestConfig(t, server.URL+"/v1"))
			_, err := d.Dispatch(context.Background(), Request{System: "s", User: `{"texts":[]}`})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errText)
			}
		})
	}
}

func TestOpenAIDispatcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := newTestConfig(t, server.URL+"/v1")
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewOpenAIDispatcher(cfg).Dispatch(context.Background(), Request{System: "s", User: "u"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestOpenAIDispatcher_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	cfg, err := NewConfig(Config{APIKey: apiKey, BaseURL: os.Getenv("OPENAI_API_BASE"), Model: os.Getenv("OPENAI_MODEL")})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	translator := NewTranslator(cfg, NewOpenAIDispatcher(cfg))
	got, _, err := translator.TranslateBatch(context.Background(), []string{"a", "b"}, []string{"Hello", "Gain {{amount}} :coin:"})
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 translations, got %v", got)
	}

	t.Logf("Translations: %v", got)
}
