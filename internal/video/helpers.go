// In file: internal/video/helpers.go
package video

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	youtubeIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	nonWordPattern   = regexp.MustCompile(`[^\w\s]`)
	titleKeyPattern  = regexp.MustCompile(`[^a-z0-9]`)
)

func formatViews(count int) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(count)/1_000)
	case count > 0:
		return fmt.Sprintf("%d views", count)
	}
	return ""
}

func formatCount(count int) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	case count > 0:
		return strconv.Itoa(count)
	}
	return ""
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func detectPlatform(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return "YouTube"
	case strings.Contains(lower, "twitter.com"), strings.Contains(lower, "x.com"):
		return "Twitter/X"
	case strings.Contains(lower, "vimeo.com"):
		return "Vimeo"
	case strings.Contains(lower, "tiktok.com"):
		return "TikTok"
	case strings.Contains(lower, "dailymotion.com"):
		return "Dailymotion"
	}
	return "Web"
}

func extractVideoID(rawURL string) string {
	if m := youtubeIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	parts := strings.Split(rawURL, "/")
	last := parts[len(parts)-1]
	last = strings.SplitN(last, "?", 2)[0]
	if len(last) > 20 {
		last = last[:20]
	}
	return last
}

// parseDurationString parses "3:45" or "1:02:30" style durations into
// seconds. Unparseable input yields zero.
func parseDurationString(durStr string) int {
	durStr = strings.TrimSpace(durStr)
	if durStr == "" || durStr == "?" {
		return 0
	}
	parts := strings.Split(durStr, ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		nums[i] = n
	}
	switch len(nums) {
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	case 2:
		return nums[0]*60 + nums[1]
	case 1:
		return nums[0]
	}
	return 0
}

// coreSubjectFiller is the stop-word list used when boiling a headline down
// to a searchable core query.
var coreSubjectFiller = map[string]bool{
	"just": true, "the": true, "this": true, "that": true, "is": true,
	"are": true, "was": true, "were": true, "has": true, "have": true,
	"had": true, "been": true, "being": true, "a": true, "an": true,
	"of": true, "in": true, "on": true, "for": true, "to": true,
	"and": true, "but": true, "or": true, "so": true, "yet": true,
	"with": true, "from": true, "by": true, "at": true, "it": true,
	"its": true, "might": true, "could": true, "would": true,
	"should": true, "will": true, "can": true, "may": true, "do": true,
	"does": true, "did": true, "not": true, "all": true, "very": true,
	"really": true, "here": true, "there": true, "now": true, "new": true,
	"out": true, "about": true, "how": true, "what": true, "when": true,
	"where": true, "who": true, "why": true, "every": true, "some": true,
	"any": true, "no": true, "only": true, "own": true, "your": true,
	"our": true, "my": true,
}

// extractCoreSubject reduces a topic headline to at most five meaningful
// words, e.g. "Anthropic just rejected the Pentagon" becomes
// "Anthropic rejected Pentagon".
func extractCoreSubject(topic string) string {
	words := strings.Fields(nonWordPattern.ReplaceAllString(topic, " "))
	var core []string
	for _, w := range words {
		if len(w) <= 1 || coreSubjectFiller[strings.ToLower(w)] {
			continue
		}
		core = append(core, w)
		if len(core) == 5 {
			break
		}
	}
	if len(core) == 0 {
		return topic
	}
	return strings.Join(core, " ")
}
