// In file: internal/trending/categorize.go
package trending

import "strings"

// Feed categories.
const (
	CategoryBreaking  = "breaking"
	CategoryTools     = "tools"
	CategoryResearch  = "research"
	CategoryStartups  = "startups"
	CategoryCommunity = "community"
	CategoryShorts    = "shorts"
)

// categoryKeywords maps each inferable category to the signals that place an
// item in it. Order matters: the first matching category wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryTools, []string{"launch", "release", "tool", "app", "product", "api", "open source", "github"}},
	{CategoryResearch, []string{"paper", "research", "arxiv", "benchmark", "model", "training", "weights"}},
	{CategoryStartups, []string{"funding", "raise", "startup", "series", "valuation", "yc", "vc"}},
}

// Categorize assigns a feed item to a category. A forced category (from the
// search query group that produced the item) always wins; otherwise the
// title and snippet are scanned for keywords, community sources fall back to
// "community", and everything else is "breaking".
func Categorize(item *FeedItem, forcedCategory string) string {
	if forcedCategory != "" {
		return forcedCategory
	}
	text := strings.ToLower(item.Title + " " + item.Snippet)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	if item.Source == "reddit" || item.Source == "hackernews" {
		return CategoryCommunity
	}
	return CategoryBreaking
}
