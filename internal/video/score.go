// In file: internal/video/score.go
package video

import "strings"

// Keyword groups for B-roll scoring. Demo indicators stack per match; the
// channel boosts apply at most once each.
var (
	demoWords = []string{
		"demo", "tutorial", "walkthrough", "how to", "screen recording",
		"hands on", "hands-on", "first look", "getting started",
		"overview", "features", "introduction", "intro to",
		"using", "setup", "guide", "showcase", "preview",
	}
	officialChannels = []string{
		"google", "openai", "anthropic", "microsoft", "apple",
		"nvidia", "meta", "amazon", "hugging face", "stability ai",
		"midjourney", "runway", "google deepmind", "google ai",
	}
	creatorChannels = []string{
		"matt wolfe", "fireship", "two minute papers", "ai explained",
		"all about ai", "web dev simplified", "theo",
	}
	newsWords = []string{
		"breaking news", "breaking:", "live:", "exclusive:",
		"report", "reporting", "anchor", "coverage", "interview",
		"panel discussion", "press conference", "testimony",
		"hearing", "committee", "correspondent", "analysis",
	}
	newsChannelPatterns = []string{
		"news", "tv", "television", "broadcast", "daily", "times",
		"post", "journal", "herald", "tribune", "gazette",
	}
)

// brollScore rates a candidate for B-roll usability. Demos, official
// product channels, and short runtimes score high; news coverage and
// talking heads score low.
func brollScore(v *Result) float64 {
	var score float64
	title := strings.ToLower(v.Title)
	channel := strings.ToLower(v.Channel)
	text := title + " " + strings.ToLower(v.Description)

	for _, w := range demoWords {
		if strings.Contains(text, w) {
			score += 200
		}
	}
	for _, ch := range officialChannels {
		if strings.Contains(channel, ch) {
			score += 300
			break
		}
	}
	for _, cw := range creatorChannels {
		if strings.Contains(channel, cw) {
			score += 150
			break
		}
	}

	switch d := v.Duration; {
	case d > 0 && d <= 60:
		score += 250 // under a minute, perfect for shorts
	case d > 60 && d <= 180:
		score += 200
	case d > 180 && d <= 300:
		score += 100
	case d > 600:
		score -= 200
	}

	for _, w := range newsWords {
		if strings.Contains(text, w) {
			score -= 300
		}
	}
	if isNewsChannel(v.Channel) {
		score -= 500
	}
	if channel != "product hunt" && channel != "hacker news" {
		for _, p := range newsChannelPatterns {
			if strings.Contains(channel, p) {
				score -= 150
			}
		}
	}

	// View count carries a little signal, capped so it never dominates.
	if v.Views > 0 {
		viewBoost := float64(v.Views) / 10000
		if viewBoost > 50 {
			viewBoost = 50
		}
		score += viewBoost
	}
	return score
}
