// In file: internal/trending/shorts_test.go
package trending

import (
	"context"
	"errors"
	"testing"

	"github.com/aj-automates/content-engine/internal/llm"
	"github.com/aj-automates/content-engine/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTextClient returns a canned response or error for every Generate call.
type fakeTextClient struct {
	response string
	err      error
	lastMsgs []llm.Message
}

func (f *fakeTextClient) Generate(ctx context.Context, messages []llm.Message, config *llm.GenerationConfig, availableTools []tools.Tool) (*llm.GenerationResult, error) {
	f.lastMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerationResult{Content: f.response}, nil
}

func intPtr(n int) *int { return &n }

func TestSelectBestForShorts_Scoring(t *testing.T) {
	topics := []FeedItem{
		{Title: "A symposium on transformer proceedings, et al", Score: intPtr(50)},
		{Title: "OpenAI just killed its old API", Score: intPtr(10)},
		{Title: "Random mild post", Score: intPtr(100)},
	}
	selected := selectBestForShorts(topics, 2)
	require.Len(t, selected, 2)
	// Company + drama boosts beat raw engagement; the academic title sinks.
	assert.Equal(t, "OpenAI just killed its old API", selected[0].Title)
	assert.Equal(t, "Random mild post", selected[1].Title)
}

func TestRewrite_UsesModelOutput(t *testing.T) {
	client := &fakeTextClient{response: "```json\n[{\"original\":\"OpenAI ships agents\",\"shorts_title\":\"OpenAI just shipped agents !!\",\"hook_type\":\"mind_blown\",\"angle\":\"Cover the agent launch\"}]\n```"}
	r := NewRewriter(client)

	ideas := r.Rewrite(context.Background(), []FeedItem{
		{Title: "OpenAI ships agents", URL: "https://news/1", Source: "serper", Snippet: "launch day"},
	}, 5)

	require.Len(t, ideas, 1)
	assert.Equal(t, "OpenAI just shipped agents !!", ideas[0].Title)
	assert.Equal(t, "OpenAI ships agents", ideas[0].OriginalTitle)
	assert.Equal(t, "mind_blown", ideas[0].HookType)
	assert.Equal(t, CategoryShorts, ideas[0].Category)
	assert.Equal(t, "Cover the agent launch", ideas[0].WhyTrending)

	// The system prompt must carry the hook formulas.
	require.NotEmpty(t, client.lastMsgs)
	assert.Equal(t, llm.RoleSystem, client.lastMsgs[0].Role)
	assert.Contains(t, client.lastMsgs[0].Content, "hook_type")
}

func TestRewrite_FallsBackOnModelError(t *testing.T) {
	r := NewRewriter(&fakeTextClient{err: errors.New("api down")})
	longTitle := "This extremely long headline about artificial intelligence definitely exceeds sixty characters"

	ideas := r.Rewrite(context.Background(), []FeedItem{{Title: longTitle, Snippet: "ctx"}}, 5)
	require.Len(t, ideas, 1)
	assert.Len(t, ideas[0].Title, 60)
	assert.Equal(t, longTitle, ideas[0].OriginalTitle)
	assert.Equal(t, "drama", ideas[0].HookType)
}

func TestRewrite_FallsBackOnBadJSON(t *testing.T) {
	r := NewRewriter(&fakeTextClient{response: "sorry, I cannot do that"})
	ideas := r.Rewrite(context.Background(), []FeedItem{{Title: "Short title"}}, 5)
	require.Len(t, ideas, 1)
	assert.Equal(t, "Short title", ideas[0].Title)
}

func TestRewrite_NilClientUsesFallback(t *testing.T) {
	r := NewRewriter(nil)
	ideas := r.Rewrite(context.Background(), []FeedItem{{Title: "Headline"}}, 0)
	require.Len(t, ideas, 1)
	assert.Equal(t, "Headline", ideas[0].Title)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, StripCodeFence("```json\n[{\"a\":1}]\n```"))
	assert.Equal(t, `[{"a":1}]`, StripCodeFence("```\n[{\"a\":1}]\n```"))
	assert.Equal(t, `[{"a":1}]`, StripCodeFence(`[{"a":1}]`))
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		title    string
		source   string
		forced   string
		expected string
	}{
		{"New open source coding tool", "serper", "", CategoryTools},
		{"Groundbreaking arxiv paper on weights", "serper", "", CategoryResearch},
		{"Startup raised Series B at $2B valuation", "serper", "", CategoryStartups},
		{"What do you all think?", "reddit", "", CategoryCommunity},
		{"Something happened", "serper", "", CategoryBreaking},
		{"Whatever title", "serper", "startups", CategoryStartups},
	}
	for _, tc := range cases {
		item := FeedItem{Title: tc.title, Source: tc.source}
		assert.Equal(t, tc.expected, Categorize(&item, tc.forced), tc.title)
	}
}
