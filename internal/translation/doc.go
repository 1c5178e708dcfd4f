// Package translation builds batch translation requests, sends them to a
// chat-completion backend (OpenAI-compatible endpoints or Gemini) and
// validates the structured JSON the model returns.
package translation
