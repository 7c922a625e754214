// In file: internal/trending/fetcher.go
package trending

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	fetchTimeout   = 15 * time.Second
	dedupeKeyChars = 60
)

// serperQueries maps a forced feed category to the Serper news queries that
// populate it.
var serperQueries = map[string][]string{
	"breaking": {"AI news today", "artificial intelligence breaking news"},
	"tools":    {"new AI tools launched", "AI product launch 2026"},
	"startups": {"AI startup funding", "AI company raised Series"},
	"research": {"AI research paper breakthrough", "large language model new"},
}

// redditSubs are the subreddits polled for hot posts.
var redditSubs = []string{"artificial", "MachineLearning", "LocalLLaMA", "ChatGPT"}

// Fetcher aggregates trending topics from Serper, Reddit, and HackerNews.
// The base URLs are fields so tests can point the fetcher at a local server.
type Fetcher struct {
	serperAPIKey  string
	serperBaseURL string
	redditBaseURL string
	hnBaseURL     string
	httpClient    *http.Client
}

func NewFetcher(serperAPIKey string) *Fetcher {
	return &Fetcher{
		serperAPIKey:  serperAPIKey,
		serperBaseURL: "https://google.serper.dev",
		redditBaseURL: "https://www.reddit.com",
		hnBaseURL:     "https://hn.algolia.com",
		httpClient:    &http.Client{Timeout: fetchTimeout},
	}
}

// sourceResult carries one source's items back from the fan-out, along with
// the category the query group forces on them (empty for Reddit / HN).
type sourceResult struct {
	forcedCategory string
	items          []FeedItem
	err            error
}

// FetchAll fans out to every source concurrently, merges the results,
// deduplicates by title, categorizes, sorts by engagement score, and returns
// the requested page. A failing source logs and contributes nothing; the
// feed never fails outright.
func (f *Fetcher) FetchAll(ctx context.Context, page, perPage int) *FeedPage {
	var wg sync.WaitGroup
	results := make(chan sourceResult, len(serperQueries)*2+len(redditSubs)+1)

	for category, queries := range serperQueries {
		for _, query := range queries {
			wg.Add(1)
			go func(category, query string) {
				defer wg.Done()
				items, err := f.fetchSerper(ctx, query, 6)
				results <- sourceResult{forcedCategory: category, items: items, err: err}
			}(category, query)
		}
	}
	for _, sub := range redditSubs {
		wg.Add(1)
		go func(sub string) {
			defer wg.Done()
			items, err := f.fetchReddit(ctx, sub, 8)
			results <- sourceResult{items: items, err: err}
		}(sub)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		items, err := f.fetchHackerNews(ctx, 12)
		results <- sourceResult{items: items, err: err}
	}()

	wg.Wait()
	close(results)

	return mergeResults(results, page, perPage)
}

// mergeResults joins the per-source batches into one deduplicated, sorted,
// paginated feed. Duplicates are detected on the lowercased first 60
// characters of the title, so the same story from two sources collapses to
// whichever arrived first.
func mergeResults(results <-chan sourceResult, page, perPage int) *FeedPage {
	var all []FeedItem
	seenTitles := make(map[string]bool)

	for res := range results {
		if res.err != nil {
			log.Printf("⚠️ Trending source error: %v", res.err)
			continue
		}
		for _, item := range res.items {
			key := dedupeKey(item.Title)
			if key == "" || seenTitles[key] {
				continue
			}
			seenTitles[key] = true
			item.Category = Categorize(&item, res.forcedCategory)
			if item.WhyTrending == "" {
				item.WhyTrending = whyTrending(&item)
			}
			all = append(all, item)
		}
	}

	// Stable so equally-scored items keep their arrival order.
	sortByScoreDesc(all)

	// Pages are 1-based: page 1 holds the top-scored items.
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return &FeedPage{
		Topics:  all[start:end],
		Total:   len(all),
		Page:    page,
		HasMore: end < len(all),
	}
}

func dedupeKey(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	if len(key) > dedupeKeyChars {
		key = key[:dedupeKeyChars]
	}
	return key
}

func whyTrending(item *FeedItem) string {
	if item.Snippet != "" {
		return item.Snippet
	}
	name := item.SourceName
	if name == "" {
		name = item.Source
	}
	if name == "" {
		name = "the web"
	}
	return "Trending on " + name
}

func sortByScoreDesc(items []FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].scoreValue() > items[j].scoreValue()
	})
}

// --- Serper ---

type serperNewsResponse struct {
	News []struct {
		Title        string `json:"title"`
		Link         string `json:"link"`
		Snippet      string `json:"snippet"`
		ImageURL     string `json:"imageUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
		Source       string `json:"source"`
		Date         string `json:"date"`
	} `json:"news"`
}

// fetchSerper searches Google News via Serper, restricted to the past day.
func (f *Fetcher) fetchSerper(ctx context.Context, query string, num int) ([]FeedItem, error) {
	if f.serperAPIKey == "" {
		return nil, nil
	}
	payload, err := json.Marshal(map[string]interface{}{
		"q": query, "num": num, "tbs": "qdr:d",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal serper query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", f.serperBaseURL+"/news", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", f.serperAPIKey)
	req.Header.Set("Content-Type", "application/json")

	var serperResp serperNewsResponse
	if err := f.doJSON(req, &serperResp); err != nil {
		return nil, fmt.Errorf("serper error for %q: %w", query, err)
	}

	items := make([]FeedItem, 0, len(serperResp.News))
	for _, n := range serperResp.News {
		image := n.ImageURL
		if image == "" {
			image = n.ThumbnailURL
		}
		timeAgo := n.Date
		if timeAgo == "" {
			timeAgo = "Recent"
		}
		items = append(items, FeedItem{
			Title:      n.Title,
			URL:        n.Link,
			Snippet:    n.Snippet,
			Image:      image,
			Source:     "serper",
			SourceName: n.Source,
			TimeAgo:    timeAgo,
		})
	}
	return items, nil
}

// --- Reddit ---

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Permalink  string  `json:"permalink"`
				Selftext   string  `json:"selftext"`
				Thumbnail  string  `json:"thumbnail"`
				Stickied   bool    `json:"stickied"`
				CreatedUTC float64 `json:"created_utc"`
				Score      int     `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// fetchReddit pulls the hot listing for a subreddit, skipping stickied
// posts.
func (f *Fetcher) fetchReddit(ctx context.Context, subreddit string, limit int) ([]FeedItem, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d&raw_json=1", f.redditBaseURL, subreddit, limit)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "AJContentEngine/1.0")

	var listing redditListing
	if err := f.doJSON(req, &listing); err != nil {
		return nil, fmt.Errorf("reddit error for r/%s: %w", subreddit, err)
	}

	var items []FeedItem
	for _, child := range listing.Data.Children {
		d := child.Data
		if d.Stickied {
			continue
		}
		image := ""
		if strings.HasPrefix(d.Thumbnail, "http") {
			image = d.Thumbnail
		}
		snippet := d.Selftext
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		score := d.Score
		items = append(items, FeedItem{
			Title:      d.Title,
			URL:        "https://reddit.com" + d.Permalink,
			Snippet:    snippet,
			Image:      image,
			Source:     "reddit",
			SourceName: "r/" + subreddit,
			Subreddit:  subreddit,
			TimeAgo:    relativeTime(time.Unix(int64(d.CreatedUTC), 0)),
			Score:      &score,
		})
	}
	return items, nil
}

// --- HackerNews ---

type hnSearchResponse struct {
	Hits []struct {
		Title     string `json:"title"`
		URL       string `json:"url"`
		ObjectID  string `json:"objectID"`
		Points    int    `json:"points"`
		CreatedAt string `json:"created_at"`
	} `json:"hits"`
}

// fetchHackerNews queries the Algolia HN search API for high-signal AI
// stories (points > 50).
func (f *Fetcher) fetchHackerNews(ctx context.Context, limit int) ([]FeedItem, error) {
	params := url.Values{}
	params.Set("query", "AI OR LLM OR GPT OR Claude OR artificial intelligence")
	params.Set("tags", "story")
	params.Set("numericFilters", "points>50")
	params.Set("hitsPerPage", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, "GET", f.hnBaseURL+"/api/v1/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var searchResp hnSearchResponse
	if err := f.doJSON(req, &searchResp); err != nil {
		return nil, fmt.Errorf("hackernews error: %w", err)
	}

	var items []FeedItem
	for _, hit := range searchResp.Hits {
		link := hit.URL
		if link == "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}
		timeAgo := "Recent"
		if created, err := time.Parse(time.RFC3339, hit.CreatedAt); err == nil {
			timeAgo = relativeTime(created)
		}
		points := hit.Points
		items = append(items, FeedItem{
			Title:      hit.Title,
			URL:        link,
			Source:     "hackernews",
			SourceName: "Hacker News",
			TimeAgo:    timeAgo,
			Score:      &points,
		})
	}
	return items, nil
}

// --- Shared helpers ---

func (f *Fetcher) doJSON(req *http.Request, out interface{}) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close response body: %v", err)
	}
	if readErr != nil {
		return fmt.Errorf("failed to read response body: %w", readErr)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

// relativeTime renders a timestamp as "3h ago" style text for the feed.
func relativeTime(t time.Time) string {
	delta := time.Since(t)
	switch {
	case delta >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(delta.Hours()/24))
	case delta >= time.Hour:
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	default:
		minutes := int(delta.Minutes())
		if minutes < 0 {
			minutes = 0
		}
		return fmt.Sprintf("%dm ago", minutes)
	}
}
