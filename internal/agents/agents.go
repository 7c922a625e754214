// In file: internal/agents/agents.go

// Package agents implements the six-agent content production pipeline:
// Research -> Write -> Repurpose -> Visual -> Publish -> Analytics. Each
// agent is a persona (role, goal, backstory) plus a task prompt; the Crew
// runs them sequentially, feeding each stage's output into the next.
package agents

import (
	"fmt"
	"strings"
)

// BrandVoice shapes every agent's system prompt so generated content sounds
// like one author regardless of which stage produced it.
type BrandVoice struct {
	Name     string   `yaml:"name" json:"name"`
	Tone     string   `yaml:"tone" json:"tone"`
	Style    string   `yaml:"style" json:"style"`
	Audience string   `yaml:"audience" json:"audience"`
	Avoid    []string `yaml:"avoid" json:"avoid"`
}

// DefaultBrandVoice is used when config.yaml does not override it.
func DefaultBrandVoice() *BrandVoice {
	return &BrandVoice{
		Name:     "AJ Automates",
		Tone:     "confident, technical but accessible, builder-mindset",
		Style:    "Write like a builder who ships real products. Specific numbers. Real tools. Opinionated but data-backed. Short paragraphs. No fluff.",
		Audience: "AI engineers, startup founders, tech professionals",
		Avoid:    []string{"corporate jargon", "buzzwords without substance", "generic AI hype", "passive voice"},
	}
}

// Agent is one persona in the pipeline.
type Agent struct {
	// Name is the short internal identifier ("Research", "Writer").
	Name string
	// Role is the persona title surfaced in task outputs.
	Role      string
	Goal      string
	Backstory string
	// MaxToolCalls bounds the tool loop for tool-using agents. Agents
	// without tools answer in a single generation.
	MaxToolCalls int
	// MaxTokens overrides the model default for long-form stages. Zero
	// means use the client default.
	MaxTokens int
	// UsesTools marks agents that get the tool registry passed to the model.
	UsesTools bool
}

var researchAgent = Agent{
	Name: "Research",
	Role: "Senior Research Analyst",
	Goal: "Find unique angles, trending data, competitor gaps, and compelling statistics that make content stand out",
	Backstory: "Elite research analyst with 15 years at top media companies. " +
		"You uncover insights others miss: the contrarian take, the surprising stat, " +
		"the emerging trend before it goes mainstream. Always cite sources, prioritize last 7 days.",
	MaxToolCalls: 5,
	UsesTools:    true,
}

var writerAgent = Agent{
	Name: "Writer",
	Role: "Content Strategist & Writer",
	Goal: "Transform research into viral-worthy long-form content that hooks readers in the first sentence",
	Backstory: "Grown 5 tech brands from 0 to 100K+ followers. You understand the psychology of attention: " +
		"hooks that stop the scroll, stories that create emotional investment, CTAs that drive action. " +
		"Write with authority, weave in data naturally, deliver unique perspectives.",
	MaxTokens: 8192,
}

var repurposerAgent = Agent{
	Name: "Repurposer",
	Role: "Content Repurposing Specialist",
	Goal: "Maximize reach by adapting one article into 8+ platform-specific content pieces",
	Backstory: "Manage content for 50+ brands. LinkedIn wants thought leadership, Twitter wants punchy threads, " +
		"Instagram wants visual storytelling, Reddit wants genuine discussion. You reimagine content " +
		"for each platform's culture, format constraints, and engagement patterns.",
	MaxTokens: 8192,
}

var visualAgent = Agent{
	Name: "Visual",
	Role: "Visual Content Producer",
	Goal: "Create scroll-stopping visuals for every platform",
	Backstory: "Creative director who produced visual content for top tech brands. " +
		"You know the visual style for each platform: professional headers for LinkedIn, " +
		"bold quote cards for Twitter, carousel slides for Instagram, thumbnails for YouTube.",
}

var publisherAgent = Agent{
	Name:      "Publisher",
	Role:      "Distribution Manager",
	Goal:      "Maximize reach by publishing content to all connected platforms with optimal timing",
	Backstory: "Growth hacker managing multi-platform distribution. Handle rate limits, retries, and scheduling.",
}

var analyticsAgent = Agent{
	Name:      "Analytics",
	Role:      "Performance Analyst",
	Goal:      "Analyze content performance across platforms, find what works, generate data-driven recommendations",
	Backstory: "Data-driven marketing analyst who turns metrics into strategy. You explain WHY something worked and HOW to replicate it.",
}

// systemPrompt renders the persona plus the brand voice into the system
// message for this agent's stage.
func (a Agent) systemPrompt(voice *BrandVoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\n\nYour goal: %s\n", a.Role, a.Backstory, a.Goal)
	if voice != nil {
		fmt.Fprintf(&b, "\nBRAND VOICE (%s):\n- Tone: %s\n- Style: %s\n- Audience: %s\n",
			voice.Name, voice.Tone, voice.Style, voice.Audience)
		if len(voice.Avoid) > 0 {
			fmt.Fprintf(&b, "- Avoid: %s\n", strings.Join(voice.Avoid, ", "))
		}
	}
	return b.String()
}
