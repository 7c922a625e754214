// In file: internal/video/twitter.go
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tracked AI accounts in three tiers: official product accounts, creators,
// and news aggregators. Tier decides display priority on the dashboard.
var trackedAccounts = map[string][]string{
	"official": {
		"AnthropicAI", "OpenAI", "GoogleAI", "GoogleDeepMind",
		"Meta", "MetaAI", "nvidia", "MistralAI",
		"HuggingFace", "StabilityAI", "RunwayML",
		"CohereAI", "DeepSeek_AI", "Apple",
	},
	"creators": {
		"mattshumer_", "DrJimFan", "swyx", "AiBreakfast",
		"YannLeCun",
	},
	"news": {
		"TheAIGRID", "ai_for_success",
	},
}

const (
	maxHandlesPerBatch = 12
	twitterAPIBase     = "https://api.twitter.com"
)

var (
	tweetURLPattern     = regexp.MustCompile(`https?://\S+`)
	leadingMentionsExpr = regexp.MustCompile(`^(@\w+\s*)+`)
)

// TwitterScanner finds recent tweets with native video from the tracked AI
// accounts. These become video-ready feed topics: the B-roll is already
// attached to the tweet.
type TwitterScanner struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
}

func NewTwitterScanner(bearerToken string) *TwitterScanner {
	return &TwitterScanner{
		bearerToken: bearerToken,
		baseURL:     twitterAPIBase,
		httpClient:  &http.Client{Timeout: 20 * time.Second},
	}
}

// FetchVideoTweets scans the tracked accounts for tweets with video posted
// in the last hoursBack hours, sorted by engagement. Without a bearer token
// the scanner is a no-op.
func (s *TwitterScanner) FetchVideoTweets(ctx context.Context, maxResults, hoursBack int) []Tweet {
	if s.bearerToken == "" {
		log.Println("⚠️ TWITTER_BEARER_TOKEN not set, cannot scan Twitter videos")
		return nil
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	if hoursBack <= 0 {
		hoursBack = 72
	}

	var allHandles []string
	for _, tier := range []string{"official", "creators", "news"} {
		allHandles = append(allHandles, trackedAccounts[tier]...)
	}
	batches := buildAccountBatches(allHandles, maxHandlesPerBatch)
	startTime := time.Now().UTC().Add(-time.Duration(hoursBack) * time.Hour).Format("2006-01-02T15:04:05Z")

	var wg sync.WaitGroup
	batchResults := make(chan []Tweet, len(batches))
	for _, batch := range batches {
		wg.Add(1)
		go func(handles []string) {
			defer wg.Done()
			tweets, err := s.fetchBatch(ctx, handles, startTime, maxResults)
			if err != nil {
				log.Printf("⚠️ Twitter batch fetch error: %v", err)
				return
			}
			batchResults <- tweets
		}(batch)
	}
	wg.Wait()
	close(batchResults)

	seen := make(map[string]bool)
	var unique []Tweet
	for batch := range batchResults {
		for _, tweet := range batch {
			if seen[tweet.TweetID] {
				continue
			}
			seen[tweet.TweetID] = true
			unique = append(unique, tweet)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Engagement > unique[j].Engagement })
	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique
}

// --- Twitter API v2 response shapes ---

type twitterSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount       int `json:"like_count"`
			RetweetCount    int `json:"retweet_count"`
			ImpressionCount int `json:"impression_count"`
		} `json:"public_metrics"`
		Attachments struct {
			MediaKeys []string `json:"media_keys"`
		} `json:"attachments"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID              string `json:"id"`
			Username        string `json:"username"`
			Name            string `json:"name"`
			ProfileImageURL string `json:"profile_image_url"`
			Verified        bool   `json:"verified"`
		} `json:"users"`
		Media []twitterMedia `json:"media"`
	} `json:"includes"`
}

type twitterMedia struct {
	MediaKey        string `json:"media_key"`
	Type            string `json:"type"`
	PreviewImageURL string `json:"preview_image_url"`
	DurationMS      int    `json:"duration_ms"`
	Variants        []struct {
		ContentType string `json:"content_type"`
		BitRate     int    `json:"bit_rate"`
		URL         string `json:"url"`
	} `json:"variants"`
}

// fetchBatch queries the recent-search endpoint for one batch of handles.
// Batching keeps the query under the API's 512-character limit.
func (s *TwitterScanner) fetchBatch(ctx context.Context, handles []string, startTime string, maxResults int) ([]Tweet, error) {
	fromClauses := make([]string, len(handles))
	for i, h := range handles {
		fromClauses[i] = "from:" + h
	}
	query := "(" + strings.Join(fromClauses, " OR ") + ") has:videos -is:retweet"

	if maxResults > 100 {
		maxResults = 100
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("start_time", startTime)
	params.Set("sort_order", "relevancy")
	params.Set("tweet.fields", "created_at,public_metrics,author_id,attachments,entities")
	params.Set("expansions", "author_id,attachments.media_keys")
	params.Set("media.fields", "type,url,preview_image_url,duration_ms,variants")
	params.Set("user.fields", "username,name,profile_image_url,verified")

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/2/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.bearerToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close response body: %v", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read twitter response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		log.Println("⚠️ Twitter rate limited, skipping this batch")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter API error %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var searchResp twitterSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal twitter response: %w", err)
	}
	return buildTweets(&searchResp), nil
}

func buildTweets(searchResp *twitterSearchResponse) []Tweet {
	users := make(map[string]int)
	for i, u := range searchResp.Includes.Users {
		users[u.ID] = i
	}
	media := make(map[string]*twitterMedia)
	for i := range searchResp.Includes.Media {
		m := &searchResp.Includes.Media[i]
		media[m.MediaKey] = m
	}

	var tweets []Tweet
	for _, t := range searchResp.Data {
		var videoInfo *twitterMedia
		for _, mk := range t.Attachments.MediaKeys {
			if m := media[mk]; m != nil && m.Type == "video" {
				videoInfo = m
				break
			}
		}
		if videoInfo == nil {
			continue
		}

		var username, name, avatar string
		var verified bool
		if idx, ok := users[t.AuthorID]; ok {
			u := searchResp.Includes.Users[idx]
			username, name, avatar, verified = u.Username, u.Name, u.ProfileImageURL, u.Verified
		}

		durationSec := videoInfo.DurationMS / 1000
		engagement := t.PublicMetrics.LikeCount + t.PublicMetrics.RetweetCount
		tweets = append(tweets, Tweet{
			TweetID:          t.ID,
			Title:            cleanTweetText(t.Text),
			FullText:         t.Text,
			URL:              fmt.Sprintf("https://x.com/%s/status/%s", username, t.ID),
			VideoURL:         extractBestVideoURL(videoInfo),
			VideoThumbnail:   videoInfo.PreviewImageURL,
			VideoDuration:    durationSec,
			VideoDurationStr: formatDuration(durationSec),
			Author:           name,
			Username:         username,
			Avatar:           avatar,
			Verified:         verified,
			Tier:             accountTier(username),
			Likes:            t.PublicMetrics.LikeCount,
			Retweets:         t.PublicMetrics.RetweetCount,
			Views:            t.PublicMetrics.ImpressionCount,
			Engagement:       engagement,
			TimeAgo:          formatTweetTime(t.CreatedAt),
			Source:           "twitter_video",
			SourceName:       "@" + username,
			Category:         "video_ready",
		})
	}
	return tweets
}

// buildAccountBatches splits handles into groups small enough to keep the
// search query under Twitter's length limit.
func buildAccountBatches(handles []string, maxPerBatch int) [][]string {
	var batches [][]string
	for len(handles) > maxPerBatch {
		batches = append(batches, handles[:maxPerBatch])
		handles = handles[maxPerBatch:]
	}
	if len(handles) > 0 {
		batches = append(batches, handles)
	}
	return batches
}

// extractBestVideoURL picks the highest-bitrate mp4 variant, falling back
// to whatever variant exists.
func extractBestVideoURL(media *twitterMedia) string {
	if len(media.Variants) == 0 {
		return ""
	}
	best := ""
	bestBitrate := -1
	for _, v := range media.Variants {
		if v.ContentType == "video/mp4" && v.BitRate > bestBitrate {
			best = v.URL
			bestBitrate = v.BitRate
		}
	}
	if best != "" {
		return best
	}
	return media.Variants[0].URL
}

// cleanTweetText turns a tweet body into a usable topic title: URLs and
// leading mentions removed, first line (or two, when the first is short),
// truncated to 120 characters.
func cleanTweetText(text string) string {
	cleaned := strings.TrimSpace(tweetURLPattern.ReplaceAllString(text, ""))
	cleaned = strings.TrimSpace(leadingMentionsExpr.ReplaceAllString(cleaned, ""))
	lines := strings.Split(cleaned, "\n")
	firstLine := strings.TrimSpace(lines[0])
	if len(firstLine) < 30 && len(lines) > 1 {
		firstLine = firstLine + " " + strings.TrimSpace(lines[1])
	}
	if len(firstLine) > 120 {
		firstLine = firstLine[:117] + "..."
	}
	if firstLine == "" {
		if len(text) > 120 {
			return text[:120]
		}
		return text
	}
	return firstLine
}

func accountTier(username string) string {
	lower := strings.ToLower(username)
	for _, h := range trackedAccounts["official"] {
		if strings.ToLower(h) == lower {
			return "official"
		}
	}
	for _, h := range trackedAccounts["creators"] {
		if strings.ToLower(h) == lower {
			return "creator"
		}
	}
	return "news"
}

func formatTweetTime(createdAt string) string {
	if createdAt == "" {
		return "Recent"
	}
	dt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return "Recent"
	}
	delta := time.Since(dt)
	switch {
	case delta >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(delta.Hours()/24))
	case delta >= time.Hour:
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	default:
		minutes := int(delta.Minutes())
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("%dm ago", minutes)
	}
}
