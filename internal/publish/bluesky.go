// In file: internal/publish/bluesky.go
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
	blueskyAPIBase   = "https://bsky.social"
	blueskyCharLimit = 300
)

// BlueskyPublisher posts via the AT Protocol XRPC API: createSession for an
// access JWT, then one createRecord per post. Threads chain reply
// references back to the root post.
type BlueskyPublisher struct {
	handle      string
	appPassword string
	baseURL     string
	httpClient  *http.Client
}

var _ Publisher = (*BlueskyPublisher)(nil)

func NewBlueskyPublisher(handle, appPassword string) *BlueskyPublisher {
	if handle == "" || appPassword == "" {
		return nil
	}
	return &BlueskyPublisher{
		handle:      handle,
		appPassword: appPassword,
		baseURL:     blueskyAPIBase,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *BlueskyPublisher) Platform() string { return "bluesky" }

type blueskySession struct {
	AccessJWT string `json:"accessJwt"`
	DID       string `json:"did"`
}

type blueskyPostRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

func (p *BlueskyPublisher) Publish(ctx context.Context, content string) (string, error) {
	posts := splitThread(content)
	if len(posts) == 0 {
		return "", fmt.Errorf("no post content to publish")
	}

	session, err := p.createSession(ctx)
	if err != nil {
		return "", fmt.Errorf("bluesky login: %w", err)
	}

	var root, parent *blueskyPostRef
	for i, text := range posts {
		ref, err := p.createPost(ctx, session, clip(text, blueskyCharLimit), root, parent)
		if err != nil {
			if i == 0 {
				return "", err
			}
			return "", fmt.Errorf("thread broke at post %d/%d: %w", i+1, len(posts), err)
		}
		if root == nil {
			root = ref
		}
		parent = ref
	}
	if len(posts) > 1 {
		return fmt.Sprintf("%s (thread, %d posts)", root.URI, len(posts)), nil
	}
	return root.URI, nil
}

func (p *BlueskyPublisher) createSession(ctx context.Context) (*blueskySession, error) {
	payload, err := json.Marshal(map[string]string{
		"identifier": p.handle,
		"password":   p.appPassword,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/xrpc/com.atproto.server.createSession", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var session blueskySession
	if err := doJSON(p.httpClient, req, &session); err != nil {
		return nil, err
	}
	if session.AccessJWT == "" || session.DID == "" {
		return nil, fmt.Errorf("createSession response missing credentials")
	}
	return &session, nil
}

func (p *BlueskyPublisher) createPost(ctx context.Context, session *blueskySession, text string, root, parent *blueskyPostRef) (*blueskyPostRef, error) {
	record := map[string]interface{}{
		"$type":     "app.bsky.feed.post",
		"text":      text,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	if parent != nil {
		record["reply"] = map[string]interface{}{
			"root":   root,
			"parent": parent,
		}
	}
	payload, err := json.Marshal(map[string]interface{}{
		"repo":       session.DID,
		"collection": "app.bsky.feed.post",
		"record":     record,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/xrpc/com.atproto.repo.createRecord", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessJWT)
	req.Header.Set("Content-Type", "application/json")

	var ref blueskyPostRef
	if err := doJSON(p.httpClient, req, &ref); err != nil {
		return nil, fmt.Errorf("bluesky: %w", err)
	}
	return &ref, nil
}
