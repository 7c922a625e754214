// In file: internal/video/twitter_test.go
package video

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAccountBatches(t *testing.T) {
	handles := make([]string, 30)
	for i := range handles {
		handles[i] = "h"
	}
	batches := buildAccountBatches(handles, 12)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 12)
	assert.Len(t, batches[1], 12)
	assert.Len(t, batches[2], 6)

	assert.Empty(t, buildAccountBatches(nil, 12))
}

func TestExtractBestVideoURL(t *testing.T) {
	media := &twitterMedia{}
	media.Variants = []struct {
		ContentType string `json:"content_type"`
		BitRate     int    `json:"bit_rate"`
		URL         string `json:"url"`
	}{
		{ContentType: "application/x-mpegURL", URL: "https://v/playlist.m3u8"},
		{ContentType: "video/mp4", BitRate: 832000, URL: "https://v/low.mp4"},
		{ContentType: "video/mp4", BitRate: 2176000, URL: "https://v/high.mp4"},
	}
	assert.Equal(t, "https://v/high.mp4", extractBestVideoURL(media))

	hlsOnly := &twitterMedia{}
	hlsOnly.Variants = media.Variants[:1]
	assert.Equal(t, "https://v/playlist.m3u8", extractBestVideoURL(hlsOnly))

	assert.Equal(t, "", extractBestVideoURL(&twitterMedia{}))
}

func TestCleanTweetText(t *testing.T) {
	got := cleanTweetText("@someone @other Claude can now browse the web https://t.co/abc123")
	assert.Equal(t, "Claude can now browse the web", got)

	// Short first line pulls in the second.
	got = cleanTweetText("Big news!\nOur new model is live today")
	assert.Equal(t, "Big news! Our new model is live today", got)

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	got = cleanTweetText(string(long))
	assert.Len(t, got, 120)
}

func TestAccountTier(t *testing.T) {
	assert.Equal(t, "official", accountTier("anthropicai"))
	assert.Equal(t, "creator", accountTier("swyx"))
	assert.Equal(t, "news", accountTier("unknown_handle"))
}

func TestFetchVideoTweets_NoToken(t *testing.T) {
	s := NewTwitterScanner("")
	assert.Nil(t, s.FetchVideoTweets(context.Background(), 20, 72))
}

func TestFetchVideoTweets_ParsesAndSortsByEngagement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		query := r.URL.Query().Get("query")
		assert.Contains(t, query, "has:videos -is:retweet")
		assert.Contains(t, query, "from:AnthropicAI")
		w.Write([]byte(`{
			"data":[
				{"id":"1","text":"Quiet video tweet","author_id":"u1","created_at":"2026-08-20T10:00:00Z",
				 "public_metrics":{"like_count":10,"retweet_count":2,"impression_count":100},
				 "attachments":{"media_keys":["m1"]}},
				{"id":"2","text":"Photo only tweet","author_id":"u1",
				 "public_metrics":{"like_count":900,"retweet_count":50},
				 "attachments":{"media_keys":["m2"]}},
				{"id":"3","text":"Huge launch video","author_id":"u1","created_at":"2026-08-21T10:00:00Z",
				 "public_metrics":{"like_count":5000,"retweet_count":800,"impression_count":90000},
				 "attachments":{"media_keys":["m3"]}}
			],
			"includes":{
				"users":[{"id":"u1","username":"AnthropicAI","name":"Anthropic","verified":true}],
				"media":[
					{"media_key":"m1","type":"video","duration_ms":45000,
					 "variants":[{"content_type":"video/mp4","bit_rate":1000,"url":"https://v/1.mp4"}]},
					{"media_key":"m2","type":"photo"},
					{"media_key":"m3","type":"video","duration_ms":95000,
					 "variants":[{"content_type":"video/mp4","bit_rate":2000,"url":"https://v/3.mp4"}]}
				]
			}
		}`))
	}))
	defer srv.Close()

	s := NewTwitterScanner("token")
	s.baseURL = srv.URL

	tweets := s.FetchVideoTweets(context.Background(), 20, 72)
	require.Len(t, tweets, 2) // the photo-only tweet is dropped

	assert.Equal(t, "3", tweets[0].TweetID)
	assert.Equal(t, 5800, tweets[0].Engagement)
	assert.Equal(t, "https://v/3.mp4", tweets[0].VideoURL)
	assert.Equal(t, "1:35", tweets[0].VideoDurationStr)
	assert.Equal(t, "official", tweets[0].Tier)
	assert.Equal(t, "https://x.com/AnthropicAI/status/3", tweets[0].URL)
	assert.Equal(t, "video_ready", tweets[0].Category)

	assert.Equal(t, "1", tweets[1].TweetID)
}

func TestFetchVideoTweets_RateLimitedBatchIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewTwitterScanner("token")
	s.baseURL = srv.URL
	assert.Empty(t, s.FetchVideoTweets(context.Background(), 20, 72))
}
