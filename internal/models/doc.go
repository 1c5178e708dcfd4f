// Package models lists the chat models available at an OpenAI-compatible
// endpoint, to help pick a value for --model.
package models
