// In file: internal/publish/twitter.go
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	twitterAPIBase  = "https://api.twitter.com"
	tweetCharLimit  = 280
	twitterPlatform = "twitter"
)

// TwitterPublisher posts tweets and threads through the v2 create-tweet
// endpoint with an OAuth2 user-context access token. Thread segments are
// separated by "---" in the content and chained with reply IDs.
type TwitterPublisher struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

var _ Publisher = (*TwitterPublisher)(nil)

// NewTwitterPublisher returns nil when no token is configured.
func NewTwitterPublisher(accessToken string) *TwitterPublisher {
	if accessToken == "" {
		return nil
	}
	return &TwitterPublisher{
		accessToken: accessToken,
		baseURL:     twitterAPIBase,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *TwitterPublisher) Platform() string { return twitterPlatform }

func (p *TwitterPublisher) Publish(ctx context.Context, content string) (string, error) {
	tweets := splitThread(content)
	if len(tweets) == 0 {
		return "", fmt.Errorf("no tweet content to publish")
	}

	var firstURL, prevID string
	for i, text := range tweets {
		id, err := p.createTweet(ctx, clip(text, tweetCharLimit), prevID)
		if err != nil {
			if i == 0 {
				return "", err
			}
			return "", fmt.Errorf("thread broke at tweet %d/%d: %w", i+1, len(tweets), err)
		}
		prevID = id
		if i == 0 {
			firstURL = "https://twitter.com/i/status/" + id
		}
	}
	if len(tweets) > 1 {
		return fmt.Sprintf("%s (thread, %d tweets)", firstURL, len(tweets)), nil
	}
	return firstURL, nil
}

type createTweetRequest struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply,omitempty"`
}

type createTweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (p *TwitterPublisher) createTweet(ctx context.Context, text, inReplyTo string) (string, error) {
	reqBody := createTweetRequest{Text: text}
	if inReplyTo != "" {
		reqBody.Reply = &struct {
			InReplyToTweetID string `json:"in_reply_to_tweet_id"`
		}{InReplyToTweetID: inReplyTo}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	var tweetResp createTweetResponse
	if err := doJSON(p.httpClient, req, &tweetResp); err != nil {
		return "", fmt.Errorf("twitter: %w", err)
	}
	if tweetResp.Data.ID == "" {
		return "", fmt.Errorf("twitter: response carried no tweet ID")
	}
	return tweetResp.Data.ID, nil
}
