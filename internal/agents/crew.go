// In file: internal/agents/crew.go
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/aj-automates/content-engine/internal/api"
	"github.com/aj-automates/content-engine/internal/llm"
	"github.com/aj-automates/content-engine/internal/queue"
	"github.com/aj-automates/content-engine/internal/store"
	"github.com/aj-automates/content-engine/internal/tools"
	"github.com/aj-automates/content-engine/internal/trending"
)

// Uploader re-hosts generated media and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// Config wires the Crew's collaborators. Everything except TextClient is
// optional: missing pieces degrade the matching stage instead of failing
// the whole pipeline.
type Config struct {
	TextClient  llm.TextClient
	ImageClient llm.ImageClient
	VideoClient llm.VideoClient
	ToolManager *tools.ToolManager
	Campaigns   store.CampaignRepositoryInterface
	Records     store.PublishRecordRepositoryInterface
	Jobs        queue.Publisher
	Uploader    Uploader
	Voice       *BrandVoice
	// Platforms that actually have publisher credentials configured.
	EnabledPlatforms []string
}

// Crew orchestrates the sequential agent pipeline.
type Crew struct {
	cfg   Config
	voice *BrandVoice
}

func New(cfg Config) *Crew {
	voice := cfg.Voice
	if voice == nil {
		voice = DefaultBrandVoice()
	}
	return &Crew{cfg: cfg, voice: voice}
}

// PipelineResult is the full outcome of a pipeline run.
type PipelineResult struct {
	Topic       string              `json:"topic"`
	CampaignID  string              `json:"campaign_id,omitempty"`
	Published   bool                `json:"published"`
	FinalOutput string              `json:"final_output"`
	TaskOutputs []api.StageOutput   `json:"task_outputs"`
	Metrics     api.PipelineMetrics `json:"metrics"`
}

// runStage executes one agent's task, looping through tool calls for
// tool-using agents until the model produces a final answer.
func (c *Crew) runStage(ctx context.Context, agent Agent, taskPrompt string, prior []api.StageOutput) (api.StageOutput, error) {
	start := time.Now()
	log.Printf("🚀 Stage starting: %s", agent.Role)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: agent.systemPrompt(c.voice)},
		{Role: llm.RoleUser, Content: withContext(taskPrompt, prior)},
	}
	llmConfig := &llm.GenerationConfig{
		Model:     llm.DefaultClaudeModel,
		MaxTokens: agent.MaxTokens,
	}

	var availableTools []tools.Tool
	maxCalls := 1
	if agent.UsesTools && c.cfg.ToolManager != nil && c.cfg.ToolManager.ToolCount() > 0 {
		availableTools = c.cfg.ToolManager.GetDefinitions()
		maxCalls = agent.MaxToolCalls
	}

	var cumulativeUsage api.Usage
	for i := 0; i < maxCalls; i++ {
		result, err := c.cfg.TextClient.Generate(ctx, messages, llmConfig, availableTools)
		if err != nil {
			return api.StageOutput{}, fmt.Errorf("LLM generation failed during %s stage: %w", agent.Name, err)
		}
		cumulativeUsage.Add(result.Usage)
		if len(result.ToolCalls) == 0 {
			latency := time.Since(start)
			log.Printf("✅ Stage complete: %s (%.1fs, %d tokens)", agent.Role, latency.Seconds(), cumulativeUsage.TotalTokens)
			return api.StageOutput{
				Agent:     agent.Role,
				Output:    result.Content,
				Usage:     cumulativeUsage,
				LatencyMS: latency.Milliseconds(),
			}, nil
		}
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: result.Content, ToolCalls: result.ToolCalls})
		for _, toolCall := range result.ToolCalls {
			log.Printf("🛠️ Executing tool: %s (ID: %s) with args: %s", toolCall.Function.Name, toolCall.ID, toolCall.Function.Arguments)
			toolResult, err := c.cfg.ToolManager.Execute(toolCall.Function.Name, toolCall.Function.Arguments)
			if err != nil {
				toolResult = fmt.Sprintf("Error executing tool %s: %v", toolCall.Function.Name, err)
			}
			messages = append(messages, llm.Message{Role: llm.RoleTool, ToolCallID: toolCall.ID, Content: toolResult})
		}
	}
	return api.StageOutput{}, errors.New("exceeded maximum number of tool calls")
}

// RunResearchOnly runs just the research agent and returns its brief.
func (c *Crew) RunResearchOnly(ctx context.Context, topic string) (*PipelineResult, error) {
	start := time.Now()
	research, err := c.runStage(ctx, researchAgent, researchTask(topic), nil)
	if err != nil {
		return nil, err
	}
	return &PipelineResult{
		Topic:       topic,
		FinalOutput: research.Output,
		TaskOutputs: []api.StageOutput{research},
		Metrics:     c.metrics([]api.StageOutput{research}, start),
	}, nil
}

// RunContentOnly runs Research -> Write -> Repurpose without visuals or
// publishing.
func (c *Crew) RunContentOnly(ctx context.Context, topic string) (*PipelineResult, error) {
	start := time.Now()
	campaignID := c.createCampaign(topic)

	outputs, _, err := c.runContentStages(ctx, campaignID, topic)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Topic:       topic,
		CampaignID:  campaignID,
		FinalOutput: outputs[len(outputs)-1].Output,
		TaskOutputs: outputs,
		Metrics:     c.metrics(outputs, start),
	}
	c.completeCampaign(campaignID, result.Metrics)
	return result, nil
}

// RunFull runs the complete pipeline: Research -> Write -> Repurpose ->
// Visual, plus the distribution stage when publish is set.
func (c *Crew) RunFull(ctx context.Context, topic string, publish bool) (*PipelineResult, error) {
	start := time.Now()
	campaignID := c.createCampaign(topic)

	outputs, sections, err := c.runContentStages(ctx, campaignID, topic)
	if err != nil {
		return nil, err
	}

	visual, err := c.runVisualStage(ctx, campaignID, topic, outputs)
	if err != nil {
		c.failCampaign(campaignID, err)
		return nil, err
	}
	outputs = append(outputs, visual)

	if publish {
		outputs = append(outputs, c.runPublishStage(campaignID, sections))
	}

	result := &PipelineResult{
		Topic:       topic,
		CampaignID:  campaignID,
		Published:   publish,
		FinalOutput: outputs[len(outputs)-1].Output,
		TaskOutputs: outputs,
		Metrics:     c.metrics(outputs, start),
	}
	c.completeCampaign(campaignID, result.Metrics)
	return result, nil
}

// runContentStages executes the three content stages shared by every
// pipeline variant and persists each artifact as it lands.
func (c *Crew) runContentStages(ctx context.Context, campaignID, topic string) ([]api.StageOutput, map[string]string, error) {
	research, err := c.runStage(ctx, researchAgent, researchTask(topic), nil)
	if err != nil {
		c.failCampaign(campaignID, err)
		return nil, nil, err
	}
	c.persist(campaignID, func(r store.CampaignRepositoryInterface) error {
		return r.SetResearchBrief(campaignID, research.Output)
	})

	outputs := []api.StageOutput{research}
	article, err := c.runStage(ctx, writerAgent, writerTask(topic), outputs)
	if err != nil {
		c.failCampaign(campaignID, err)
		return nil, nil, err
	}
	c.persist(campaignID, func(r store.CampaignRepositoryInterface) error {
		return r.SetArticle(campaignID, article.Output)
	})

	outputs = append(outputs, article)
	repurposed, err := c.runStage(ctx, repurposerAgent, repurposerTask(topic), outputs)
	if err != nil {
		c.failCampaign(campaignID, err)
		return nil, nil, err
	}
	sections := SplitPlatformSections(repurposed.Output)
	if raw, err := json.Marshal(sections); err == nil {
		c.persist(campaignID, func(r store.CampaignRepositoryInterface) error {
			return r.SetRepurposed(campaignID, raw)
		})
	}

	return append(outputs, repurposed), sections, nil
}

// visualPrompts is the JSON shape the visual agent returns.
type visualPrompts struct {
	Prompts     map[string]string `json:"prompts"`
	VideoPrompt string            `json:"video_prompt"`
}

// ImageAsset is one generated (or planned) image.
type ImageAsset struct {
	Platform string `json:"platform"`
	Prompt   string `json:"prompt"`
	Size     string `json:"size"`
	URL      string `json:"url,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

// MediaBundle is the visual stage's persisted artifact.
type MediaBundle struct {
	Images      []ImageAsset `json:"images"`
	VideoPrompt string       `json:"video_prompt,omitempty"`
	VideoURL    string       `json:"video_url,omitempty"`
}

func (c *Crew) runVisualStage(ctx context.Context, campaignID, topic string, prior []api.StageOutput) (api.StageOutput, error) {
	stage, err := c.runStage(ctx, visualAgent, visualTask(topic), prior)
	if err != nil {
		return api.StageOutput{}, err
	}

	var prompts visualPrompts
	if err := json.Unmarshal([]byte(trending.StripCodeFence(stage.Output)), &prompts); err != nil {
		log.Printf("⚠️ Visual agent returned unparseable prompts, using topic fallbacks: %v", err)
		prompts.Prompts = nil
	}

	bundle := MediaBundle{VideoPrompt: prompts.VideoPrompt}
	var shortsFrame []byte
	var lines []string

	for _, p := range visualPlatforms {
		prompt := prompts.Prompts[p.platform]
		if prompt == "" {
			prompt = fmt.Sprintf("%s for a tech article about %s. Modern, bold, professional.", p.brief, topic)
		}
		asset := ImageAsset{Platform: p.platform, Prompt: prompt, Size: p.size}

		if c.cfg.ImageClient == nil {
			lines = append(lines, fmt.Sprintf("%s: prompt ready, generation skipped (image model not configured)", strings.ToUpper(p.platform)))
			bundle.Images = append(bundle.Images, asset)
			continue
		}

		img, err := c.cfg.ImageClient.GenerateImage(ctx, fmt.Sprintf("%s Render at %s.", prompt, p.size))
		if err != nil {
			log.Printf("⚠️ Image generation failed for %s: %v", p.platform, err)
			lines = append(lines, fmt.Sprintf("%s: FAILED - %v", strings.ToUpper(p.platform), err))
			bundle.Images = append(bundle.Images, asset)
			continue
		}
		asset.MIMEType = img.MIMEType
		if p.platform == "youtube_shorts" {
			shortsFrame = img.Data
		}
		if c.cfg.Uploader != nil {
			url, err := c.cfg.Uploader.Upload(ctx, img.Data, p.platform+".png", img.MIMEType)
			if err != nil {
				log.Printf("⚠️ Media upload failed for %s: %v", p.platform, err)
			} else {
				asset.URL = url
			}
		}
		bundle.Images = append(bundle.Images, asset)
		lines = append(lines, fmt.Sprintf("%s: generated (%s) %s", strings.ToUpper(p.platform), p.size, asset.URL))
	}

	if c.cfg.VideoClient != nil && bundle.VideoPrompt != "" {
		videoURL, err := c.cfg.VideoClient.GenerateVideo(ctx, bundle.VideoPrompt, shortsFrame)
		if err != nil {
			log.Printf("⚠️ Video generation failed: %v", err)
			lines = append(lines, fmt.Sprintf("SHORTS VIDEO: FAILED - %v", err))
		} else {
			bundle.VideoURL = videoURL
			lines = append(lines, "SHORTS VIDEO: generated "+videoURL)
		}
	}

	if raw, err := json.Marshal(bundle); err == nil {
		c.persist(campaignID, func(r store.CampaignRepositoryInterface) error {
			return r.SetMedia(campaignID, raw)
		})
	}

	stage.Output = "VISUAL ASSETS:\n" + strings.Join(lines, "\n")
	return stage, nil
}

// runPublishStage creates a pending publish record per platform and hands
// the IDs to the queue; cmd/worker does the actual posting. Enqueue
// failures are reported in the stage output, never fatal.
func (c *Crew) runPublishStage(campaignID string, sections map[string]string) api.StageOutput {
	start := time.Now()
	stage := api.StageOutput{Agent: publisherAgent.Role}

	if c.cfg.Records == nil || c.cfg.Jobs == nil || campaignID == "" {
		stage.Output = "Publishing skipped: the publish queue is not configured."
		return stage
	}

	enabled := make(map[string]bool, len(c.cfg.EnabledPlatforms))
	for _, p := range c.cfg.EnabledPlatforms {
		enabled[strings.ToLower(p)] = true
	}

	var lines []string
	queued := 0
	attempted := 0
	for _, platform := range PublishOrder {
		if !enabled[platform] {
			continue
		}
		if _, ok := PlatformContent(sections, platform); !ok {
			lines = append(lines, fmt.Sprintf("%s: SKIPPED - no content produced", strings.ToUpper(platform)))
			continue
		}
		attempted++
		rec, err := c.cfg.Records.Create(campaignID, platform)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: FAILED - %v", strings.ToUpper(platform), err))
			continue
		}
		if err := c.cfg.Jobs.EnqueuePublishJob(rec.ID); err != nil {
			lines = append(lines, fmt.Sprintf("%s: FAILED - %v", strings.ToUpper(platform), err))
			if err := c.cfg.Records.MarkFailed(rec.ID, err.Error()); err != nil {
				log.Printf("⚠️ Failed to mark publish record %d failed: %v", rec.ID, err)
			}
			continue
		}
		queued++
		lines = append(lines, fmt.Sprintf("%s: QUEUED (record %d)", strings.ToUpper(platform), rec.ID))
	}

	lines = append(lines, fmt.Sprintf("Summary: %d/%d platforms queued for publishing.", queued, attempted))
	stage.Output = "PUBLISHING REPORT:\n" + strings.Join(lines, "\n")
	stage.LatencyMS = time.Since(start).Milliseconds()
	return stage
}

// AnalyzeCampaign runs the analytics agent over a serialized campaign
// summary (publish records plus platform profiles).
func (c *Crew) AnalyzeCampaign(ctx context.Context, campaignData string) (api.StageOutput, error) {
	return c.runStage(ctx, analyticsAgent, analyticsTask(campaignData), nil)
}

// PlatformContent resolves the repurposed content for one platform.
// Telegram has no dedicated section; it reuses the LinkedIn post (or the
// first available piece) as a channel update.
func PlatformContent(sections map[string]string, platform string) (string, bool) {
	if content, ok := sections[platform]; ok {
		return content, true
	}
	if platform == "telegram" {
		if content, ok := sections["linkedin"]; ok {
			return content, true
		}
		for _, p := range PublishOrder {
			if content, ok := sections[p]; ok {
				return content, true
			}
		}
	}
	return "", false
}

func (c *Crew) metrics(outputs []api.StageOutput, start time.Time) api.PipelineMetrics {
	var usage api.Usage
	for _, o := range outputs {
		usage.Add(o.Usage)
	}
	return api.PipelineMetrics{
		TotalAgents:    len(outputs),
		TotalTasks:     len(outputs),
		Process:        "sequential",
		LatencySeconds: math.Round(time.Since(start).Seconds()*100) / 100,
		Usage:          usage,
	}
}

func (c *Crew) createCampaign(topic string) string {
	if c.cfg.Campaigns == nil {
		return ""
	}
	campaign, err := c.cfg.Campaigns.Create(topic)
	if err != nil {
		log.Printf("⚠️ Failed to create campaign record: %v", err)
		return ""
	}
	return campaign.ID
}

func (c *Crew) persist(campaignID string, fn func(store.CampaignRepositoryInterface) error) {
	if c.cfg.Campaigns == nil || campaignID == "" {
		return
	}
	if err := fn(c.cfg.Campaigns); err != nil {
		log.Printf("⚠️ Failed to persist campaign artifact: %v", err)
	}
}

func (c *Crew) failCampaign(campaignID string, cause error) {
	if c.cfg.Campaigns == nil || campaignID == "" {
		return
	}
	if err := c.cfg.Campaigns.UpdateStatus(campaignID, store.CampaignStatusFailed, cause.Error()); err != nil {
		log.Printf("⚠️ Failed to mark campaign %s failed: %v", campaignID, err)
	}
}

func (c *Crew) completeCampaign(campaignID string, metrics api.PipelineMetrics) {
	if c.cfg.Campaigns == nil || campaignID == "" {
		return
	}
	if raw, err := json.Marshal(metrics); err == nil {
		c.persist(campaignID, func(r store.CampaignRepositoryInterface) error {
			return r.SetMetrics(campaignID, raw)
		})
	}
	if err := c.cfg.Campaigns.UpdateStatus(campaignID, store.CampaignStatusCompleted, ""); err != nil {
		log.Printf("⚠️ Failed to mark campaign %s completed: %v", campaignID, err)
	}
}
