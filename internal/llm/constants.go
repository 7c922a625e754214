// In file: internal/llm/constants.go
package llm

import "time"

// This file centralizes constants shared across the clients in the llm
// package to avoid redeclaration errors.
const (
	defaultTimeout    = 120 * time.Second
	maxRetries        = 3
	initialRetryDelay = 2 * time.Second

	// DefaultClaudeModel is the model every text agent runs on unless the
	// configuration overrides it.
	DefaultClaudeModel = "claude-sonnet-4-20250514"

	// DefaultGeminiModel is the fallback text model when no Anthropic key
	// is configured.
	DefaultGeminiModel = "gemini-2.5-flash"
)
