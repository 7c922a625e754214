// In file: internal/llm/anthropic_client_test.go
package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aj-automates/content-engine/internal/tools"
)

func newTestAnthropicClient(t *testing.T, handler http.HandlerFunc) (*AnthropicClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewAnthropicClient("test-key")
	require.NoError(t, err)
	client.apiURL = srv.URL
	client.retryDelay = 0
	return client, srv
}

func TestNewAnthropicClient_RequiresKey(t *testing.T) {
	_, err := NewAnthropicClient("")
	require.Error(t, err)
}

func TestGenerate_TextResponse(t *testing.T) {
	var gotReq anthropicRequest
	client, _ := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))
		w.Write([]byte(`{
			"content": [{"type": "text", "text": "hello there"}],
			"usage": {"input_tokens": 12, "output_tokens": 5}
		}`))
	})

	messages := []Message{
		{Role: RoleSystem, Content: "you are terse"},
		{Role: RoleUser, Content: "say hello"},
	}
	result, err := client.Generate(context.Background(), messages, &GenerationConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "hello there", result.Content)
	assert.Empty(t, result.ToolCalls)
	assert.Equal(t, 17, result.Usage.TotalTokens)

	// The system message is hoisted out of the message list, and the empty
	// config falls back to the default model and token cap.
	assert.Equal(t, "you are terse", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, DefaultClaudeModel, gotReq.Model)
	assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
}

func TestGenerate_ToolUseRoundTrip(t *testing.T) {
	var rawReq map[string]interface{}
	client, _ := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &rawReq))
		w.Write([]byte(`{
			"content": [
				{"type": "text", "text": "let me look that up"},
				{"type": "tool_use", "id": "toolu_1", "name": "search_web", "input": {"query": "go 1.24"}}
			],
			"usage": {"input_tokens": 30, "output_tokens": 9}
		}`))
	})

	availableTools := []tools.Tool{tools.NewFunctionTool("search_web", "searches the web", tools.JSONSchema{
		Type: "object",
		Properties: map[string]*tools.JSONSchema{
			"query": {Type: "string", Description: "search query"},
		},
		Required: []string{"query"},
	})}

	// History includes a previous assistant tool call and its result, the
	// shape the tool loop replays on every iteration.
	messages := []Message{
		{Role: RoleUser, Content: "what's new in go"},
		{Role: RoleAssistant, Content: "", ToolCalls: []*tools.ToolCall{{
			ID: "toolu_0", Type: tools.ToolTypeFunction,
			Function: tools.ToolCallFunction{Name: "search_web", Arguments: `{"query":"go"}`},
		}}},
		{Role: RoleTool, ToolCallID: "toolu_0", Content: "results..."},
	}
	result, err := client.Generate(context.Background(), messages, &GenerationConfig{Model: "claude-sonnet-4-20250514"}, availableTools)
	require.NoError(t, err)

	assert.Equal(t, "let me look that up", result.Content)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "toolu_1", result.ToolCalls[0].ID)
	assert.Equal(t, "search_web", result.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query": "go 1.24"}`, result.ToolCalls[0].Function.Arguments)

	// Tools are sent in the API's input_schema format.
	sentTools := rawReq["tools"].([]interface{})
	require.Len(t, sentTools, 1)
	tool := sentTools[0].(map[string]interface{})
	assert.Equal(t, "search_web", tool["name"])
	assert.Contains(t, tool["input_schema"].(map[string]interface{}), "properties")

	// The assistant tool call becomes a tool_use block; the tool result
	// goes back as a user message with a tool_result block.
	sentMessages := rawReq["messages"].([]interface{})
	require.Len(t, sentMessages, 3)
	assistant := sentMessages[1].(map[string]interface{})
	blocks := assistant["content"].([]interface{})
	require.Len(t, blocks, 1)
	assert.Equal(t, "tool_use", blocks[0].(map[string]interface{})["type"])
	toolResult := sentMessages[2].(map[string]interface{})
	assert.Equal(t, "user", toolResult["role"])
	resultBlock := toolResult["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "tool_result", resultBlock["type"])
	assert.Equal(t, "toolu_0", resultBlock["tool_use_id"])
}

func TestGenerate_ClientErrorFailsFast(t *testing.T) {
	attempts := 0
	client, _ := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error": {"type": "authentication_error"}}`, http.StatusUnauthorized)
	})

	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, &GenerationConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, 1, attempts)
}

func TestGenerate_ServerErrorRetries(t *testing.T) {
	attempts := 0
	client, _ := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, `{"error": {"type": "overloaded_error"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{
			"content": [{"type": "text", "text": "recovered"}],
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	})

	result, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, &GenerationConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Content)
	assert.Equal(t, 3, attempts)
}

func TestGenerate_EmptyContentIsAnError(t *testing.T) {
	client, _ := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`))
	})

	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, &GenerationConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}
