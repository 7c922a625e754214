// In file: internal/video/youtube.go
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ytdlpBinary       = "yt-dlp"
	ytSearchTimeout   = 30 * time.Second
	ytDownloadTimeout = 180 * time.Second
)

// ErrYTDLPNotFound is returned when the yt-dlp binary is not on PATH.
var ErrYTDLPNotFound = errors.New("yt-dlp not found on PATH (install with: pip install yt-dlp)")

// ytSearchEntry is one line of yt-dlp's --dump-json output for a flat
// playlist search.
type ytSearchEntry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Thumbnail   string  `json:"thumbnail"`
	Thumbnails  []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	Duration    float64 `json:"duration"`
	Channel     string  `json:"channel"`
	Uploader    string  `json:"uploader"`
	ViewCount   int     `json:"view_count"`
	UploadDate  string  `json:"upload_date"`
	Description string  `json:"description"`
}

// SearchYouTube runs a yt-dlp metadata-only search ("ytsearchN:query") and
// parses the newline-delimited JSON it emits. Lines that fail to parse are
// skipped rather than failing the whole search.
func (r *Researcher) SearchYouTube(ctx context.Context, query string, maxResults int) ([]Result, error) {
	searchURL := fmt.Sprintf("ytsearch%d:%s", maxResults, query)

	ctx, cancel := context.WithTimeout(ctx, ytSearchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.ytdlpPath,
		"--dump-json", "--no-download", "--flat-playlist",
		"--no-warnings", "--quiet", searchURL,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrYTDLPNotFound
		}
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("⚠️ YouTube search timed out for: %s", query)
			return nil, nil
		}
		return nil, fmt.Errorf("yt-dlp search failed: %w (stderr: %s)", err, truncate(stderr.String(), 300))
	}

	var results []Result
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry ytSearchEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		results = append(results, entryToResult(entry))
	}
	return results, nil
}

func entryToResult(entry ytSearchEntry) Result {
	channel := entry.Channel
	if channel == "" {
		channel = entry.Uploader
	}
	if channel == "" {
		channel = "Unknown"
	}
	link := entry.URL
	if link == "" {
		link = "https://www.youtube.com/watch?v=" + entry.ID
	}
	thumbnail := entry.Thumbnail
	if thumbnail == "" && len(entry.Thumbnails) > 0 {
		thumbnail = entry.Thumbnails[len(entry.Thumbnails)-1].URL
	}
	title := entry.Title
	if title == "" {
		title = "Untitled"
	}
	description := entry.Description
	if len(description) > 200 {
		description = description[:200]
	}
	duration := int(entry.Duration)
	return Result{
		ID:          uuid.NewString()[:8],
		Source:      "youtube",
		Platform:    "YouTube",
		VideoID:     entry.ID,
		Title:       title,
		URL:         link,
		Thumbnail:   thumbnail,
		Duration:    duration,
		DurationStr: formatDuration(duration),
		Channel:     channel,
		Views:       entry.ViewCount,
		ViewsStr:    formatViews(entry.ViewCount),
		UploadDate:  entry.UploadDate,
		Description: description,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
