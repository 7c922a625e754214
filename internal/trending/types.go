// In file: internal/trending/types.go

// Package trending aggregates the live AI news feed the engine picks its
// campaign topics from. It fans out to Serper news search, a set of
// subreddits, and HackerNews, merges the results into one scored feed, and
// can rewrite the best items into YouTube Shorts titles.
package trending

// FeedItem is a single trending topic in the merged feed.
type FeedItem struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet,omitempty"`
	Image      string `json:"image,omitempty"`
	Source     string `json:"source"`
	SourceName string `json:"source_name,omitempty"`
	Subreddit  string `json:"subreddit,omitempty"`
	TimeAgo    string `json:"time_ago,omitempty"`
	// Score is nil for sources that have no engagement counter (Serper).
	Score       *int   `json:"score"`
	Category    string `json:"category,omitempty"`
	WhyTrending string `json:"why_trending,omitempty"`
}

// scoreValue returns the engagement score, treating a missing score as zero
// so Serper items sort below anything with real engagement.
func (it *FeedItem) scoreValue() int {
	if it.Score == nil {
		return 0
	}
	return *it.Score
}

// FeedPage is one page of the merged trending feed.
type FeedPage struct {
	Topics  []FeedItem `json:"topics"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	HasMore bool       `json:"has_more"`
}

// ShortsIdea is a feed item rewritten into a YouTube Shorts concept.
type ShortsIdea struct {
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
	Source        string `json:"source"`
	SourceName    string `json:"source_name,omitempty"`
	TimeAgo       string `json:"time_ago,omitempty"`
	Score         *int   `json:"score"`
	Category      string `json:"category"`
	HookType      string `json:"hook_type"`
	Angle         string `json:"angle,omitempty"`
	WhyTrending   string `json:"why_trending,omitempty"`
	Snippet       string `json:"snippet,omitempty"`
}
