// In file: internal/agents/parse.go
package agents

import (
	"regexp"
	"strings"
)

// PublishOrder is the canonical distribution order.
var PublishOrder = []string{"twitter", "linkedin", "bluesky", "reddit", "telegram", "email"}

var sectionLabelPattern = regexp.MustCompile(`^\s*\[([A-Z][A-Z _-]*)\]\s*$`)

// labelToPlatform normalizes the repurposer's section labels to platform keys.
var labelToPlatform = map[string]string{
	"TWITTER":        "twitter",
	"LINKEDIN":       "linkedin",
	"INSTAGRAM":      "instagram",
	"YOUTUBE SHORTS": "youtube_shorts",
	"YOUTUBE_SHORTS": "youtube_shorts",
	"YOUTUBE":        "youtube_shorts",
	"TIKTOK":         "tiktok",
	"EMAIL":          "email",
	"REDDIT":         "reddit",
	"BLUESKY":        "bluesky",
	"TELEGRAM":       "telegram",
}

// SplitPlatformSections parses the repurposer's labeled output into
// per-platform content. Text before the first label and unrecognized labels
// are dropped.
func SplitPlatformSections(output string) map[string]string {
	sections := make(map[string]string)
	var current string
	var buf strings.Builder

	flush := func() {
		if current == "" {
			return
		}
		if content := strings.TrimSpace(buf.String()); content != "" {
			sections[current] = content
		}
		buf.Reset()
	}

	for _, line := range strings.Split(output, "\n") {
		if m := sectionLabelPattern.FindStringSubmatch(line); m != nil {
			if platform, ok := labelToPlatform[strings.ReplaceAll(m[1], "-", " ")]; ok {
				flush()
				current = platform
				continue
			}
		}
		if current != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	flush()
	return sections
}
