// In file: internal/agents/crew_test.go
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aj-automates/content-engine/internal/api"
	"github.com/aj-automates/content-engine/internal/llm"
	"github.com/aj-automates/content-engine/internal/store"
	"github.com/aj-automates/content-engine/internal/tools"
)

// scriptedClient returns pre-canned results in order, recording the
// messages of every call.
type scriptedClient struct {
	results []*llm.GenerationResult
	errs    []error
	calls   [][]llm.Message
}

func (s *scriptedClient) Generate(_ context.Context, messages []llm.Message, _ *llm.GenerationConfig, _ []tools.Tool) (*llm.GenerationResult, error) {
	s.calls = append(s.calls, messages)
	i := len(s.calls) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.results) {
		return nil, errors.New("unexpected extra LLM call")
	}
	return s.results[i], nil
}

func textResult(content string, tokens int) *llm.GenerationResult {
	return &llm.GenerationResult{
		Content: content,
		Usage:   api.Usage{PromptTokens: tokens, CompletionTokens: tokens, TotalTokens: 2 * tokens},
	}
}

type fakeSearchTool struct {
	lastArgs string
}

func (f *fakeSearchTool) Definition() tools.Tool {
	return tools.NewFunctionTool("search_web", "search", tools.JSONSchema{Type: "object"})
}

func (f *fakeSearchTool) Execute(arguments string) (string, error) {
	f.lastArgs = arguments
	return "search results about the topic", nil
}

type fakeCampaigns struct {
	created    *store.Campaign
	brief      string
	article    string
	repurposed json.RawMessage
	media      json.RawMessage
	metrics    json.RawMessage
	status     string
	lastError  string
}

func (f *fakeCampaigns) Create(topic string) (*store.Campaign, error) {
	f.created = &store.Campaign{ID: "camp-1", Topic: topic, Status: store.CampaignStatusRunning}
	return f.created, nil
}
func (f *fakeCampaigns) GetByID(string) (*store.Campaign, error)        { return f.created, nil }
func (f *fakeCampaigns) List(int, int, string) ([]*store.Campaign, int, error) {
	return nil, 0, nil
}
func (f *fakeCampaigns) UpdateStatus(_, status, lastError string) error {
	f.status = status
	f.lastError = lastError
	return nil
}
func (f *fakeCampaigns) SetResearchBrief(_, brief string) error { f.brief = brief; return nil }
func (f *fakeCampaigns) SetArticle(_, article string) error     { f.article = article; return nil }
func (f *fakeCampaigns) SetRepurposed(_ string, raw json.RawMessage) error {
	f.repurposed = raw
	return nil
}
func (f *fakeCampaigns) SetMedia(_ string, raw json.RawMessage) error   { f.media = raw; return nil }
func (f *fakeCampaigns) SetMetrics(_ string, raw json.RawMessage) error { f.metrics = raw; return nil }

type fakeRecords struct {
	platforms []string
	failed    map[int]string
	nextID    int
}

func (f *fakeRecords) Create(campaignID, platform string) (*store.PublishRecord, error) {
	f.nextID++
	f.platforms = append(f.platforms, platform)
	return &store.PublishRecord{ID: f.nextID, CampaignID: campaignID, Platform: platform, Status: store.PublishStatusPending}, nil
}
func (f *fakeRecords) GetByID(int) (*store.PublishRecord, error)            { return nil, nil }
func (f *fakeRecords) ListByCampaign(string) ([]*store.PublishRecord, error) { return nil, nil }
func (f *fakeRecords) MarkPublished(int, string) error                       { return nil }
func (f *fakeRecords) MarkFailed(id int, lastError string) error {
	if f.failed == nil {
		f.failed = map[int]string{}
	}
	f.failed[id] = lastError
	return nil
}

type fakeJobs struct {
	enqueued []int
	err      error
}

func (f *fakeJobs) EnqueuePublishJob(recordID int) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, recordID)
	return nil
}
func (f *fakeJobs) Close() {}

type fakeImageClient struct {
	prompts []string
	err     error
}

func (f *fakeImageClient) GenerateImage(_ context.Context, prompt string) (*llm.ImageResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.prompts = append(f.prompts, prompt)
	return &llm.ImageResult{Data: []byte("png-bytes"), MIMEType: "image/png"}, nil
}

type fakeVideoClient struct {
	prompt string
	frame  []byte
}

func (f *fakeVideoClient) GenerateVideo(_ context.Context, prompt string, referenceImage []byte) (string, error) {
	f.prompt = prompt
	f.frame = referenceImage
	return "https://videos.example/clip.mp4", nil
}

type fakeUploader struct {
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, filename, _ string) (string, error) {
	f.uploads = append(f.uploads, filename)
	return "https://cdn.example/" + filename, nil
}

func TestRunContentOnly_SequentialStages(t *testing.T) {
	campaigns := &fakeCampaigns{}
	client := &scriptedClient{results: []*llm.GenerationResult{
		textResult("TRENDING ANGLES: ...", 100),
		textResult("# The Article", 200),
		textResult("[TWITTER]\ntweet\n\n[LINKEDIN]\npost", 300),
	}}
	crew := New(Config{TextClient: client, Campaigns: campaigns})

	result, err := crew.RunContentOnly(context.Background(), "AI agents replacing SaaS")
	require.NoError(t, err)

	require.Len(t, result.TaskOutputs, 3)
	assert.Equal(t, "Senior Research Analyst", result.TaskOutputs[0].Agent)
	assert.Equal(t, "Content Strategist & Writer", result.TaskOutputs[1].Agent)
	assert.Equal(t, "Content Repurposing Specialist", result.TaskOutputs[2].Agent)

	assert.Equal(t, 3, result.Metrics.TotalAgents)
	assert.Equal(t, "sequential", result.Metrics.Process)
	assert.Equal(t, 1200, result.Metrics.Usage.TotalTokens)

	// Each stage's artifact is persisted as it lands.
	assert.Equal(t, "camp-1", result.CampaignID)
	assert.Equal(t, "TRENDING ANGLES: ...", campaigns.brief)
	assert.Equal(t, "# The Article", campaigns.article)
	assert.Contains(t, string(campaigns.repurposed), `"twitter":"tweet"`)
	assert.Equal(t, store.CampaignStatusCompleted, campaigns.status)
	assert.NotEmpty(t, campaigns.metrics)

	// Later stages receive earlier outputs as context.
	writerMessages := client.calls[1]
	require.Len(t, writerMessages, 2)
	assert.Contains(t, writerMessages[1].Content, "TRENDING ANGLES")
}

func TestRunContentOnly_StageFailureMarksCampaignFailed(t *testing.T) {
	campaigns := &fakeCampaigns{}
	client := &scriptedClient{
		results: []*llm.GenerationResult{textResult("brief", 10), nil},
		errs:    []error{nil, errors.New("rate limited")},
	}
	crew := New(Config{TextClient: client, Campaigns: campaigns})

	_, err := crew.RunContentOnly(context.Background(), "some topic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Writer stage")
	assert.Equal(t, store.CampaignStatusFailed, campaigns.status)
	assert.Contains(t, campaigns.lastError, "rate limited")
}

func TestRunResearchOnly_ToolLoop(t *testing.T) {
	searchTool := &fakeSearchTool{}
	tm := tools.NewToolManager()
	tm.Register(searchTool)

	client := &scriptedClient{results: []*llm.GenerationResult{
		{
			ToolCalls: []*tools.ToolCall{{
				ID:   "call_1",
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{Name: "search_web", Arguments: `{"query":"latest"}`},
			}},
			Usage: api.Usage{TotalTokens: 50},
		},
		textResult("final brief", 70),
	}}
	crew := New(Config{TextClient: client, ToolManager: tm})

	result, err := crew.RunResearchOnly(context.Background(), "quantized models")
	require.NoError(t, err)
	assert.Equal(t, "final brief", result.FinalOutput)
	assert.Equal(t, `{"query":"latest"}`, searchTool.lastArgs)

	// Usage accumulates across the loop.
	assert.Equal(t, 50+140, result.TaskOutputs[0].Usage.TotalTokens)

	// The second call carries the assistant tool request and the tool result.
	second := client.calls[1]
	require.Len(t, second, 4)
	assert.Equal(t, llm.RoleAssistant, second[2].Role)
	assert.Equal(t, llm.RoleTool, second[3].Role)
	assert.Equal(t, "call_1", second[3].ToolCallID)
	assert.Equal(t, "search results about the topic", second[3].Content)
}

func TestRunResearchOnly_ExceedsMaxToolCalls(t *testing.T) {
	tm := tools.NewToolManager()
	tm.Register(&fakeSearchTool{})

	looping := &llm.GenerationResult{ToolCalls: []*tools.ToolCall{{
		ID: "call_x", Type: tools.ToolTypeFunction,
		Function: tools.ToolCallFunction{Name: "search_web", Arguments: "{}"},
	}}}
	client := &scriptedClient{results: []*llm.GenerationResult{looping, looping, looping, looping, looping}}
	crew := New(Config{TextClient: client, ToolManager: tm})

	_, err := crew.RunResearchOnly(context.Background(), "topic")
	require.Error(t, err)
	assert.EqualError(t, err, "exceeded maximum number of tool calls")
	assert.Len(t, client.calls, 5)
}

func TestRunFull_GeneratesMediaAndQueuesPublishJobs(t *testing.T) {
	campaigns := &fakeCampaigns{}
	records := &fakeRecords{}
	jobs := &fakeJobs{}
	imageClient := &fakeImageClient{}
	videoClient := &fakeVideoClient{}
	uploader := &fakeUploader{}

	visualJSON := "```json\n" +
		`{"prompts": {"twitter": "tp", "linkedin": "lp", "instagram": "ip", "youtube_shorts": "yp", "email": "ep"}, "video_prompt": "drone shot of a datacenter"}` +
		"\n```"
	client := &scriptedClient{results: []*llm.GenerationResult{
		textResult("brief", 10),
		textResult("article", 20),
		textResult("[TWITTER]\ntweet\n\n[LINKEDIN]\npost", 30),
		textResult(visualJSON, 40),
	}}

	crew := New(Config{
		TextClient:       client,
		ImageClient:      imageClient,
		VideoClient:      videoClient,
		Campaigns:        campaigns,
		Records:          records,
		Jobs:             jobs,
		Uploader:         uploader,
		EnabledPlatforms: []string{"twitter", "linkedin", "telegram", "reddit"},
	})

	result, err := crew.RunFull(context.Background(), "open weights", true)
	require.NoError(t, err)
	assert.True(t, result.Published)
	require.Len(t, result.TaskOutputs, 5)
	assert.Equal(t, "Distribution Manager", result.TaskOutputs[4].Agent)

	// One image per platform, uploaded, plus the Shorts clip from its
	// thumbnail frame.
	assert.Len(t, imageClient.prompts, 5)
	assert.Len(t, uploader.uploads, 5)
	assert.Equal(t, "drone shot of a datacenter", videoClient.prompt)
	assert.Equal(t, []byte("png-bytes"), videoClient.frame)

	var bundle MediaBundle
	require.NoError(t, json.Unmarshal(campaigns.media, &bundle))
	require.Len(t, bundle.Images, 5)
	assert.Equal(t, "https://cdn.example/twitter.png", bundle.Images[0].URL)
	assert.Equal(t, "https://videos.example/clip.mp4", bundle.VideoURL)

	// Twitter and LinkedIn have content; Telegram falls back to LinkedIn;
	// Reddit is enabled but got no section, so it is skipped.
	assert.Equal(t, []string{"twitter", "linkedin", "telegram"}, records.platforms)
	assert.Equal(t, []int{1, 2, 3}, jobs.enqueued)
	report := result.TaskOutputs[4].Output
	assert.Contains(t, report, "REDDIT: SKIPPED")
	assert.Contains(t, report, "Summary: 3/3 platforms queued for publishing.")

	assert.Equal(t, store.CampaignStatusCompleted, campaigns.status)
}

func TestVisualStage_FallbackPromptsWithoutImageModel(t *testing.T) {
	client := &scriptedClient{results: []*llm.GenerationResult{
		textResult("brief", 1),
		textResult("article", 1),
		textResult("[TWITTER]\ntweet", 1),
		textResult("not json at all", 1),
	}}
	crew := New(Config{TextClient: client})

	result, err := crew.RunFull(context.Background(), "topic", false)
	require.NoError(t, err)
	require.Len(t, result.TaskOutputs, 4)
	assert.Contains(t, result.TaskOutputs[3].Output, "generation skipped")
}
