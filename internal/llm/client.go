// In file: internal/llm/client.go
package llm

import (
	"context"

	"github.com/aj-automates/content-engine/internal/api"
	"github.com/aj-automates/content-engine/internal/tools"
)

// =================================================================================
// Core Data Structures
// =================================================================================

// Role represents the originator of a message in a conversation.
// Using a defined type and constants prevents typos and improves code clarity.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in an agent conversation.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig holds the parameters that control a model's generation
// behavior. Each agent tunes these differently: the writer wants long,
// creative output while the shorts rewriter wants short deterministic JSON.
type GenerationConfig struct {
	// The specific model to use (e.g. "claude-sonnet-4-20250514").
	Model string
	// Controls randomness. A pointer distinguishes 0.0 from unset.
	Temperature *float32
	// The maximum number of tokens to generate in the response.
	MaxTokens int
	// Nucleus sampling alternative to temperature.
	TopP *float32
}

// GenerationResult holds the complete output from an LLM call.
type GenerationResult struct {
	// The generated text content from the model.
	Content string
	// Tool calls requested by the model. Modern models can request multiple
	// tools in parallel, so this is a slice.
	ToolCalls []*tools.ToolCall
	// Token usage statistics for the request.
	Usage api.Usage
}

// =================================================================================
// Client Interfaces
// =================================================================================

// TextClient is the interface the agent pipeline generates text through.
// The pipeline is strictly batch (each agent stage runs to completion before
// the next starts), so there is no streaming variant.
type TextClient interface {
	// Generate performs a standard, blocking request to the LLM. It takes
	// the full conversation history and returns a single, complete result.
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)
}

// ImageResult is one generated image returned by an image model.
type ImageResult struct {
	// Raw image bytes as returned inline by the provider.
	Data []byte
	// MIME type reported by the provider (e.g. "image/png").
	MIMEType string
}

// ImageClient generates a single image for a text prompt.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (*ImageResult, error)
}

// VideoClient generates a short video clip for a text prompt, optionally
// conditioned on a first-frame reference image. It returns the provider's
// hosted video URL.
type VideoClient interface {
	GenerateVideo(ctx context.Context, prompt string, referenceImage []byte) (string, error)
}
