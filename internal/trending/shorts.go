// In file: internal/trending/shorts.go
package trending

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"

	"github.com/aj-automates/content-engine/internal/llm"
)

const defaultMaxShorts = 12

// rewriteSystemPrompt steers the model toward proven shorts hook formulas
// and a strict JSON response shape.
const rewriteSystemPrompt = `You are a viral YouTube Shorts title generator for an AI/tech news channel.

Your job: Take a list of trending AI news headlines and rewrite each one into a punchy,
scroll-stopping YouTube Shorts title (under 60 characters ideally, max 80).

RULES:
1. Every title must trigger curiosity, urgency, or FOMO
2. Use these proven hook formulas:
   - "[Company] just [did something wild]"
   - "China's new [X] is beating [Y]" (geopolitical drama)
   - "Free [valuable thing] !!" (free resources)
   - "This [secret/tool] changes everything" (mystery/hype)
   - "[Number]+ [resources] for [audience]" (listicle hooks)
   - "You can [do X] for FREE" (value hooks)
   - "[Company]'s secret [X] is out" (leaked/insider feel)
   - "This [tool] is beating [competitor]" (competition frame)
   - "[Company] just killed [product]" (disruption hook)
   - "How to [achieve result] with AI" (tutorial hook)
3. Keep it casual, no formal language
4. Use sentence case (not Title Case)
5. Add ".." or "!!" for emphasis sparingly
6. Never use hashtags or emojis in titles
7. Each title should work as a standalone hook — someone should WANT to click

Also generate a "hook_type" label for each: one of "drama", "free_resource", "tool_discovery",
"competition", "secret_leak", "how_to", "career", "mind_blown"

Also generate a brief "angle" (1 sentence) describing what the short video should cover.

Respond ONLY in JSON array format:
[
  {
    "original": "the original headline",
    "shorts_title": "the rewritten shorts title",
    "hook_type": "drama",
    "angle": "Brief description of what to cover in the short"
  }
]`

// rewrittenTitle is one entry of the model's JSON response.
type rewrittenTitle struct {
	Original    string `json:"original"`
	ShortsTitle string `json:"shorts_title"`
	HookType    string `json:"hook_type"`
	Angle       string `json:"angle"`
}

// Rewriter turns trending feed items into YouTube Shorts concepts. With no
// text client configured it degrades to the rule-based fallback.
type Rewriter struct {
	textClient llm.TextClient
}

func NewRewriter(textClient llm.TextClient) *Rewriter {
	return &Rewriter{textClient: textClient}
}

// Rewrite picks the most shorts-worthy topics from the feed and rewrites
// their titles through the model. Any model or parse failure falls back to
// the rule-based rewrite of the same selection, so the caller always gets
// usable ideas.
func (r *Rewriter) Rewrite(ctx context.Context, topics []FeedItem, maxTopics int) []ShortsIdea {
	if maxTopics <= 0 {
		maxTopics = defaultMaxShorts
	}
	selected := selectBestForShorts(topics, maxTopics)
	if len(selected) == 0 {
		return nil
	}
	if r.textClient == nil {
		log.Println("⚠️ No text client configured for shorts rewriter, using fallback")
		return fallbackRewrite(selected)
	}

	var headlines strings.Builder
	for _, t := range selected {
		headlines.WriteString("- " + t.Title + "\n")
	}

	result, err := r.textClient.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: rewriteSystemPrompt},
		{Role: llm.RoleUser, Content: "Rewrite these trending AI headlines into viral YouTube Shorts titles:\n\n" + headlines.String()},
	}, &llm.GenerationConfig{MaxTokens: 2000}, nil)
	if err != nil {
		log.Printf("❌ Shorts rewriter model call failed: %v", err)
		return fallbackRewrite(selected)
	}

	var rewritten []rewrittenTitle
	if err := json.Unmarshal([]byte(StripCodeFence(result.Content)), &rewritten); err != nil {
		log.Printf("❌ Failed to parse shorts rewrite response as JSON: %v", err)
		return fallbackRewrite(selected)
	}

	ideas := make([]ShortsIdea, 0, len(rewritten))
	for i, item := range rewritten {
		if i >= len(selected) {
			break
		}
		original := selected[i]
		title := item.ShortsTitle
		if title == "" {
			title = original.Title
		}
		hookType := item.HookType
		if hookType == "" {
			hookType = "drama"
		}
		why := item.Angle
		if why == "" {
			why = original.Snippet
		}
		ideas = append(ideas, ShortsIdea{
			Title:         title,
			OriginalTitle: original.Title,
			URL:           original.URL,
			Image:         original.Image,
			Source:        original.Source,
			SourceName:    original.SourceName,
			TimeAgo:       original.TimeAgo,
			Score:         original.Score,
			Category:      CategoryShorts,
			HookType:      hookType,
			Angle:         item.Angle,
			WhyTrending:   why,
			Snippet:       item.Angle,
		})
	}
	return ideas
}

// shortsBoosts are the keyword groups that make a headline shorts-worthy,
// with the score delta each contributes.
var shortsBoosts = []struct {
	delta    int
	keywords []string
}{
	{500, []string{"google", "openai", "anthropic", "meta", "microsoft", "apple", "nvidia", "amazon", "deepseek", "mistral", "hugging face"}},
	{400, []string{"launch", "release", "free", "open source", "tool", "app"}},
	{600, []string{"beat", "kill", "vs", "war", "race", "leak", "secret"}},
	{300, []string{"china", "chinese", "deepseek", "qwen", "baidu"}},
	{200, []string{"gpt", "claude", "gemini", "llama", "sora", "veo", "midjourney"}},
	{-500, []string{"arxiv", "proceedings", "symposium", "et al"}},
}

// selectBestForShorts ranks the feed by shorts-worthiness: raw engagement
// plus boosts for company drama, tool launches, and model names, minus
// penalties for academic or overlong titles.
func selectBestForShorts(topics []FeedItem, limit int) []FeedItem {
	type scoredItem struct {
		score int
		item  FeedItem
	}
	scored := make([]scoredItem, 0, len(topics))
	for _, t := range topics {
		title := strings.ToLower(t.Title)
		score := t.scoreValue()
		for _, boost := range shortsBoosts {
			for _, keyword := range boost.keywords {
				if strings.Contains(title, keyword) {
					score += boost.delta
					break
				}
			}
		}
		if len(title) > 120 {
			score -= 200
		}
		scored = append(scored, scoredItem{score: score, item: t})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if limit > len(scored) {
		limit = len(scored)
	}
	out := make([]FeedItem, 0, limit)
	for _, s := range scored[:limit] {
		out = append(out, s.item)
	}
	return out
}

// fallbackRewrite is the rule-based path when the model is unavailable or
// returns unparseable output. Long titles are truncated, metadata is passed
// through untouched.
func fallbackRewrite(topics []FeedItem) []ShortsIdea {
	ideas := make([]ShortsIdea, 0, len(topics))
	for _, t := range topics {
		title := t.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		ideas = append(ideas, ShortsIdea{
			Title:         title,
			OriginalTitle: t.Title,
			URL:           t.URL,
			Image:         t.Image,
			Source:        t.Source,
			SourceName:    t.SourceName,
			TimeAgo:       t.TimeAgo,
			Score:         t.Score,
			Category:      CategoryShorts,
			HookType:      "drama",
			Angle:         t.Snippet,
			WhyTrending:   t.Snippet,
			Snippet:       t.Snippet,
		})
	}
	return ideas
}

// StripCodeFence removes a wrapping markdown code fence from model output so
// the body can be fed straight to the JSON parser.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = text[3:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
