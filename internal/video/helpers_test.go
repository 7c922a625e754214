// In file: internal/video/helpers_test.go
package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationString(t *testing.T) {
	assert.Equal(t, 225, parseDurationString("3:45"))
	assert.Equal(t, 3750, parseDurationString("1:02:30"))
	assert.Equal(t, 42, parseDurationString("42"))
	assert.Equal(t, 0, parseDurationString("?"))
	assert.Equal(t, 0, parseDurationString(""))
	assert.Equal(t, 0, parseDurationString("abc"))
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, "YouTube", detectPlatform("https://www.youtube.com/watch?v=abc12345678"))
	assert.Equal(t, "YouTube", detectPlatform("https://youtu.be/abc12345678"))
	assert.Equal(t, "Twitter/X", detectPlatform("https://x.com/someone/status/1"))
	assert.Equal(t, "TikTok", detectPlatform("https://www.tiktok.com/@u/video/2"))
	assert.Equal(t, "Vimeo", detectPlatform("https://vimeo.com/12345"))
	assert.Equal(t, "Web", detectPlatform("https://example.com/clip.mp4"))
}

func TestExtractVideoID(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", extractVideoID("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.Equal(t, "dQw4w9WgXcQ", extractVideoID("https://youtu.be/dQw4w9WgXcQ"))
	assert.Equal(t, "clip", extractVideoID("https://example.com/videos/clip?x=1"))
}

func TestExtractCoreSubject(t *testing.T) {
	assert.Equal(t, "Anthropic rejected Pentagon", extractCoreSubject("Anthropic just rejected the Pentagon"))
	// Caps at five meaningful words.
	got := extractCoreSubject("OpenAI releases amazing groundbreaking incredible stunning revolutionary model")
	assert.Equal(t, "OpenAI releases amazing groundbreaking incredible", got)
	// All filler falls back to the original text.
	assert.Equal(t, "the of in", extractCoreSubject("the of in"))
}

func TestFormatViewsAndCounts(t *testing.T) {
	assert.Equal(t, "2.5M views", formatViews(2_500_000))
	assert.Equal(t, "1.2K views", formatViews(1_200))
	assert.Equal(t, "42 views", formatViews(42))
	assert.Equal(t, "", formatViews(0))
	assert.Equal(t, "1.5K", formatCount(1_500))
	assert.Equal(t, "7", formatCount(7))
}

func TestBrollScore_PrefersDemosOverNews(t *testing.T) {
	demo := Result{
		Title:       "Agent framework demo: getting started",
		Channel:     "LangChain",
		Duration:    55,
		Description: "A short walkthrough",
	}
	news := Result{
		Title:    "Breaking news: AI panel discussion",
		Channel:  "CNBC Television",
		Duration: 1800,
	}
	assert.Greater(t, brollScore(&demo), brollScore(&news))
	assert.Less(t, brollScore(&news), 0.0)
}

func TestDedupeResults(t *testing.T) {
	results := []Result{
		{VideoID: "abc", Title: "Same Video"},
		{VideoID: "abc", Title: "Different title entirely"},
		{VideoID: "xyz", Title: "same video!!"}, // normalized title collides
		{VideoID: "new", Title: "Fresh content"},
	}
	unique := dedupeResults(results)
	assert.Len(t, unique, 2)
	assert.Equal(t, "abc", unique[0].VideoID)
	assert.Equal(t, "new", unique[1].VideoID)
}

func TestIsNewsChannel(t *testing.T) {
	assert.True(t, isNewsChannel("CNBC Television"))
	assert.True(t, isNewsChannel("  bbc news "))
	assert.False(t, isNewsChannel("Fireship"))
}

func TestMapDownloadError(t *testing.T) {
	assert.Contains(t, mapDownloadError("ERROR: Sign in to confirm you're not a bot"), "bot detection")
	assert.Contains(t, mapDownloadError("This video is not available"), "unavailable or geo-restricted")
	assert.Contains(t, mapDownloadError("File is larger than max-filesize"), "100MB")
	assert.Contains(t, mapDownloadError("something odd"), "Download failed: something odd")
}
