// Package api defines the request and response shapes of the public HTTP
// surface. Keeping these separate from the internal pipeline types lets the
// wire format evolve without touching the engine internals.
package api

// Usage holds token accounting for a single LLM call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another usage record into this one. The pipeline uses it
// to sum usage across sequential agent stages.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// CampaignRequest is the body for the campaign generation endpoints.
type CampaignRequest struct {
	Topic   string `json:"topic" binding:"required"`
	Publish bool   `json:"publish"`
}

// VideoSelectRequest is the body for POST /api/videos/select.
type VideoSelectRequest struct {
	URL string `json:"url" binding:"required"`
}

// StageOutput is one agent's contribution to a pipeline run.
type StageOutput struct {
	Agent     string `json:"agent"`
	Output    string `json:"output"`
	Usage     Usage  `json:"usage"`
	LatencyMS int64  `json:"latency_ms"`
}

// PipelineMetrics summarizes a completed pipeline run.
type PipelineMetrics struct {
	TotalAgents    int     `json:"total_agents"`
	TotalTasks     int     `json:"total_tasks"`
	Process        string  `json:"process"`
	LatencySeconds float64 `json:"latency_seconds"`
	Usage          Usage   `json:"usage"`
}
