// In file: internal/agents/tasks.go
package agents

import (
	"fmt"
	"strings"

	"github.com/aj-automates/content-engine/internal/api"
)

func researchTask(topic string) string {
	return fmt.Sprintf("Research this topic deeply: %s\n\n"+
		"REQUIREMENTS:\n"+
		"1. Search for latest developments (last 7 days preferred)\n"+
		"2. Find 5+ specific data points/stats WITH sources\n"+
		"3. Identify competitor content and GAPS in existing coverage\n"+
		"4. Find contrarian or surprising viewpoints\n"+
		"5. Identify 3-5 trending subtopics\n"+
		"6. Find relevant Reddit/Twitter discussions\n\n"+
		"Focus on what is NEW, SURPRISING, and SHAREABLE.\n\n"+
		"Deliver a structured research brief:\n"+
		"TRENDING ANGLES: [top 5 ranked by virality]\n"+
		"KEY STATS: [10+ data points with sources]\n"+
		"COMPETITOR GAPS: [what's missing]\n"+
		"CONTRARIAN TAKE: [surprising perspective]\n"+
		"SUGGESTED HOOK: [scroll-stopping opener]\n"+
		"SOURCES: [all URLs]", topic)
}

func writerTask(topic string) string {
	return fmt.Sprintf("Write a long-form article about: %s\n\n"+
		"Using the research brief, create an 800-1500 word article:\n"+
		"1. HEADLINE: Compelling, specific, curiosity-driven\n"+
		"2. HOOK: First 2 sentences stop the scroll\n"+
		"3. CONTEXT: Why this matters NOW\n"+
		"4. MAIN BODY: 3-5 sections with subheadings and data\n"+
		"5. UNIQUE INSIGHT: Your perspective\n"+
		"6. CTA: Clear call-to-action\n\n"+
		"RULES: Every claim backed by data. Short paragraphs. Conversational but authoritative. Markdown format.", topic)
}

func repurposerTask(topic string) string {
	return fmt.Sprintf("Repurpose the article about '%s' into 8 platform-specific pieces:\n\n"+
		"1. TWITTER THREAD: 5-7 tweets, hook first, numbers, hashtags\n"+
		"2. LINKEDIN POST: 200-300 words, thought-leadership, end with question\n"+
		"3. INSTAGRAM CAROUSEL: 10 slides (8 words max per slide), caption with hashtags\n"+
		"4. YOUTUBE SHORTS SCRIPT: 60-90 sec, [PAUSE]/[EMPHASIS] markers\n"+
		"5. TIKTOK SCRIPT: 30-60 sec, casual, trending hooks\n"+
		"6. EMAIL NEWSLETTER: Subject line + 300-500 word body + CTA\n"+
		"7. REDDIT POST: Discussion title + 200-400 word body, suggest subreddits\n"+
		"8. BLUESKY THREAD: 3-5 posts, authentic tone\n\n"+
		"Each piece must be COMPLETELY adapted for the platform, not copy-pasted.\n"+
		"Label each clearly: [TWITTER], [LINKEDIN], [INSTAGRAM], [YOUTUBE SHORTS], [TIKTOK], [EMAIL], [REDDIT], [BLUESKY].\n"+
		"Separate individual tweets and thread posts with a line containing only '---'.", topic)
}

// imagePlatform pairs a platform with the asset dimensions the visual stage
// renders for it.
type imagePlatform struct {
	platform string
	size     string
	brief    string
}

var visualPlatforms = []imagePlatform{
	{"twitter", "1200x675", "Bold quote card (16:9)"},
	{"linkedin", "1200x627", "Professional header"},
	{"instagram", "1080x1080", "Carousel cover slide"},
	{"youtube_shorts", "1280x720", "Eye-catching thumbnail, doubles as the video first frame"},
	{"email", "600x200", "Hero banner"},
}

func visualTask(topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate visual asset prompts for: %s\n\nPlatforms and formats:\n", topic)
	for i, p := range visualPlatforms {
		fmt.Fprintf(&b, "%d. %s: %s (%s)\n", i+1, strings.ToUpper(p.platform), p.brief, p.size)
	}
	b.WriteString("\nCraft a detailed image-generation prompt for each platform: professional, " +
		"on-brand, no text-heavy designs. Also write one cinematic video-generation prompt " +
		"for a 9:16 YouTube Shorts clip animated from the thumbnail as its first frame.\n\n" +
		"Respond with ONLY a JSON object in this exact shape:\n" +
		`{"prompts": {"twitter": "...", "linkedin": "...", "instagram": "...", "youtube_shorts": "...", "email": "..."}, "video_prompt": "..."}`)
	return b.String()
}

func analyticsTask(campaignData string) string {
	return fmt.Sprintf("Analyze campaign performance:\n%s\n\n"+
		"Provide: metrics per platform, best/worst performer with WHY, "+
		"content patterns, posting time analysis, 5 specific recommendations for next campaign, "+
		"3 predicted best topics to research next.", campaignData)
}

// withContext appends the outputs of earlier stages to a task prompt, the
// sequential handoff between agents.
func withContext(taskPrompt string, prior []api.StageOutput) string {
	if len(prior) == 0 {
		return taskPrompt
	}
	var b strings.Builder
	b.WriteString(taskPrompt)
	b.WriteString("\n\nCONTEXT FROM PREVIOUS STAGES:\n")
	for _, stage := range prior {
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", stage.Agent, stage.Output)
	}
	return b.String()
}
