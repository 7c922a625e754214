// In file: internal/video/researcher.go
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// newsChannelBlocklist holds TV news channels that produce coverage *about*
// AI but not usable B-roll or demos.
var newsChannelBlocklist = map[string]bool{
	"cnn": true, "cnbc": true, "cnbc television": true, "fox news": true,
	"fox business": true, "msnbc": true, "abc news": true, "cbs news": true,
	"nbc news": true, "pbs newshour": true,
	"bbc news": true, "bbc": true, "sky news": true, "al jazeera": true,
	"dw news": true, "france 24": true, "reuters": true,
	"associated press": true, "ap": true,
	"bloomberg television": true, "bloomberg": true,
	"bloomberg technology": true, "yahoo finance": true,
	"the wall street journal": true, "wsj": true,
	"the daily show": true, "last week tonight": true, "joe rogan": true,
	// Long-form interviews, not B-roll.
	"lex fridman": true,
}

// Researcher searches for, scores, and hosts B-roll clips. The Serper base
// URL and yt-dlp binary path are fields so tests can substitute them.
type Researcher struct {
	serperAPIKey  string
	serperBaseURL string
	ytdlpPath     string
	httpClient    *http.Client
	storage       *SupabaseStorage
}

func NewResearcher(serperAPIKey string, storage *SupabaseStorage) *Researcher {
	return &Researcher{
		serperAPIKey:  serperAPIKey,
		serperBaseURL: "https://google.serper.dev",
		ytdlpPath:     ytdlpBinary,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		storage:       storage,
	}
}

// SmartSearch runs four query strategies in parallel (product demo,
// tutorial walkthrough, official announcement, Serper demo search), merges
// and deduplicates the hits, drops TV news channels, and returns the
// highest-scoring candidates for B-roll use.
func (r *Researcher) SmartSearch(ctx context.Context, topic string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	coreTopic := extractCoreSubject(topic)

	type searchFn func(context.Context) ([]Result, error)
	strategies := []searchFn{
		func(ctx context.Context) ([]Result, error) { return r.SearchYouTube(ctx, coreTopic+" demo", 4) },
		func(ctx context.Context) ([]Result, error) {
			return r.SearchYouTube(ctx, coreTopic+" tutorial walkthrough", 3)
		},
		func(ctx context.Context) ([]Result, error) {
			return r.SearchYouTube(ctx, coreTopic+" official announcement", 3)
		},
		func(ctx context.Context) ([]Result, error) {
			return r.searchSerperVideos(ctx, coreTopic+" demo tutorial screen recording", 4)
		},
	}

	var wg sync.WaitGroup
	hits := make(chan []Result, len(strategies))
	var ytdlpMissing bool
	var mu sync.Mutex
	for _, strategy := range strategies {
		wg.Add(1)
		go func(fn searchFn) {
			defer wg.Done()
			results, err := fn(ctx)
			if err != nil {
				if err == ErrYTDLPNotFound {
					mu.Lock()
					ytdlpMissing = true
					mu.Unlock()
				}
				log.Printf("⚠️ Video search strategy failed: %v", err)
				return
			}
			hits <- results
		}(strategy)
	}
	wg.Wait()
	close(hits)

	var all []Result
	for batch := range hits {
		all = append(all, batch...)
	}
	if len(all) == 0 && ytdlpMissing {
		return nil, ErrYTDLPNotFound
	}

	unique := dedupeResults(all)

	filtered := make([]Result, 0, len(unique))
	for _, v := range unique {
		if !isNewsChannel(v.Channel) {
			filtered = append(filtered, v)
		}
	}
	// If the blocklist removed everything, fall back to the unfiltered set;
	// scoring still pushes the news clips to the bottom.
	if len(filtered) == 0 {
		filtered = unique
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return brollScore(&filtered[i]) > brollScore(&filtered[j])
	})
	if maxResults > len(filtered) {
		maxResults = len(filtered)
	}
	return filtered[:maxResults], nil
}

// dedupeResults drops repeats by video ID and by the normalized first 40
// characters of the title.
func dedupeResults(all []Result) []Result {
	seenIDs := make(map[string]bool)
	seenTitles := make(map[string]bool)
	var unique []Result
	for _, v := range all {
		titleKey := titleKeyPattern.ReplaceAllString(strings.ToLower(v.Title), "")
		if len(titleKey) > 40 {
			titleKey = titleKey[:40]
		}
		if v.VideoID != "" && seenIDs[v.VideoID] {
			continue
		}
		if seenTitles[titleKey] {
			continue
		}
		seenIDs[v.VideoID] = true
		seenTitles[titleKey] = true
		unique = append(unique, v)
	}
	return unique
}

func isNewsChannel(channel string) bool {
	return newsChannelBlocklist[strings.ToLower(strings.TrimSpace(channel))]
}

// --- Serper video search ---

type serperVideosResponse struct {
	Videos []struct {
		Title        string `json:"title"`
		Link         string `json:"link"`
		Snippet      string `json:"snippet"`
		ImageURL     string `json:"imageUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
		Duration     string `json:"duration"`
		Channel      string `json:"channel"`
		Source       string `json:"source"`
		Date         string `json:"date"`
	} `json:"videos"`
}

func (r *Researcher) searchSerperVideos(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if r.serperAPIKey == "" {
		log.Println("⚠️ SERPER_API_KEY not set, skipping Serper video search")
		return nil, nil
	}
	payload, err := json.Marshal(map[string]interface{}{"q": query, "num": maxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal serper video query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", r.serperBaseURL+"/videos", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", r.serperAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper video search failed: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close response body: %v", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read serper video response: %w", readErr)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper video API error: status %d, body: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var videosResp serperVideosResponse
	if err := json.Unmarshal(body, &videosResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal serper video response: %w", err)
	}

	videos := videosResp.Videos
	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}
	results := make([]Result, 0, len(videos))
	for _, v := range videos {
		thumbnail := v.ImageURL
		if thumbnail == "" {
			thumbnail = v.ThumbnailURL
		}
		channel := v.Channel
		if channel == "" {
			channel = v.Source
		}
		if channel == "" {
			channel = "Unknown"
		}
		title := v.Title
		if title == "" {
			title = "Untitled"
		}
		durationStr := v.Duration
		if durationStr == "" {
			durationStr = "?"
		}
		description := v.Snippet
		if len(description) > 200 {
			description = description[:200]
		}
		results = append(results, Result{
			ID:          uuid.NewString()[:8],
			Source:      "serper",
			Platform:    detectPlatform(v.Link),
			VideoID:     extractVideoID(v.Link),
			Title:       title,
			URL:         v.Link,
			Thumbnail:   thumbnail,
			Duration:    parseDurationString(v.Duration),
			DurationStr: durationStr,
			Channel:     channel,
			UploadDate:  v.Date,
			Description: description,
		})
	}
	return results, nil
}
