// In file: internal/publish/linkedin.go
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const linkedinAPIBase = "https://api.linkedin.com"

// LinkedInPublisher posts through the ugcPosts API. The member URN comes
// from the /v2/userinfo endpoint on each publish, so a rotated token never
// posts under a stale identity.
type LinkedInPublisher struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

var _ Publisher = (*LinkedInPublisher)(nil)

func NewLinkedInPublisher(accessToken string) *LinkedInPublisher {
	if accessToken == "" {
		return nil
	}
	return &LinkedInPublisher{
		accessToken: accessToken,
		baseURL:     linkedinAPIBase,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *LinkedInPublisher) Platform() string { return "linkedin" }

func (p *LinkedInPublisher) Publish(ctx context.Context, content string) (string, error) {
	personID, err := p.fetchPersonID(ctx)
	if err != nil {
		return "", fmt.Errorf("linkedin userinfo: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"author":         "urn:li:person:" + personID,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]string{"text": content},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal linkedin post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v2/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin post failed: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close response body: %v", err)
	}
	if readErr != nil {
		return "", fmt.Errorf("failed to read linkedin response: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("linkedin API error: status %d, body: %s", resp.StatusCode, clip(string(body), 300))
	}

	// The post URN arrives in a response header rather than the body.
	postID := resp.Header.Get("x-restli-id")
	if postID == "" {
		return "linkedin post published", nil
	}
	return "https://www.linkedin.com/feed/update/" + postID, nil
}

func (p *LinkedInPublisher) fetchPersonID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/v2/userinfo", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)

	var userInfo struct {
		Sub string `json:"sub"`
	}
	if err := doJSON(p.httpClient, req, &userInfo); err != nil {
		return "", err
	}
	if userInfo.Sub == "" {
		return "", fmt.Errorf("userinfo response carried no member ID")
	}
	return userInfo.Sub, nil
}
