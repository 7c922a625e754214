// In file: internal/publish/reddit.go
package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	redditAuthBase  = "https://www.reddit.com"
	redditAPIBase   = "https://oauth.reddit.com"
	redditUserAgent = "aj-content-engine/1.0"
)

// RedditPublisher submits self posts. Content uses the keyed format
// "subreddit: X | title: Y | body: Z"; authentication is the script-app
// password grant followed by one submit call.
type RedditPublisher struct {
	clientID     string
	clientSecret string
	username     string
	password     string
	authBaseURL  string
	apiBaseURL   string
	httpClient   *http.Client
}

var _ Publisher = (*RedditPublisher)(nil)

func NewRedditPublisher(clientID, clientSecret, username, password string) *RedditPublisher {
	if clientID == "" || clientSecret == "" || username == "" || password == "" {
		return nil
	}
	return &RedditPublisher{
		clientID:     clientID,
		clientSecret: clientSecret,
		username:     username,
		password:     password,
		authBaseURL:  redditAuthBase,
		apiBaseURL:   redditAPIBase,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *RedditPublisher) Platform() string { return "reddit" }

func (p *RedditPublisher) Publish(ctx context.Context, content string) (string, error) {
	parts := parseKeyedContent(content)
	subreddit := parts["subreddit"]
	if subreddit == "" {
		subreddit = "test"
	}
	title := parts["title"]
	if title == "" {
		title = "Untitled"
	}
	body := parts["body"]
	if body == "" {
		body = content
	}

	token, err := p.fetchAccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("reddit auth: %w", err)
	}

	form := url.Values{}
	form.Set("sr", subreddit)
	form.Set("kind", "self")
	form.Set("title", title)
	form.Set("text", body)
	form.Set("api_type", "json")

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiBaseURL+"/api/submit", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUserAgent)

	var submitResp struct {
		JSON struct {
			Errors [][]interface{} `json:"errors"`
			Data   struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := doJSON(p.httpClient, req, &submitResp); err != nil {
		return "", fmt.Errorf("reddit submit: %w", err)
	}
	if len(submitResp.JSON.Errors) > 0 {
		return "", fmt.Errorf("reddit submit rejected: %v", submitResp.JSON.Errors[0])
	}
	if submitResp.JSON.Data.URL == "" {
		return "reddit post published", nil
	}
	return submitResp.JSON.Data.URL, nil
}

func (p *RedditPublisher) fetchAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", p.username)
	form.Set("password", p.password)

	req, err := http.NewRequestWithContext(ctx, "POST", p.authBaseURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUserAgent)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := doJSON(p.httpClient, req, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}
	return tokenResp.AccessToken, nil
}
