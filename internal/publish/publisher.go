// In file: internal/publish/publisher.go

// Package publish holds one adapter per social platform. Every adapter
// performs a single authenticated post and either returns the resulting
// post URL or surfaces the upstream error verbatim. No retry layer here;
// failed posts stay visible in their publish records.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// Publisher posts one piece of content to one platform.
type Publisher interface {
	// Platform returns the registry key, e.g. "twitter" or "linkedin".
	Platform() string
	// Publish posts the content and returns the post URL (or a short
	// descriptor when the platform API exposes no URL).
	Publish(ctx context.Context, content string) (string, error)
}

// Registry maps platform names to their configured adapters. Platforms with
// missing credentials are simply absent.
type Registry struct {
	publishers map[string]Publisher
}

func NewRegistry() *Registry {
	return &Registry{publishers: make(map[string]Publisher)}
}

// Register adds an adapter; nil adapters (unconfigured platforms) are
// ignored with a log line so startup output shows what is enabled.
func (r *Registry) Register(p Publisher) {
	if p == nil {
		return
	}
	r.publishers[p.Platform()] = p
	log.Printf("✅ Publisher enabled: %s", p.Platform())
}

func (r *Registry) Get(platform string) (Publisher, bool) {
	p, ok := r.publishers[strings.ToLower(platform)]
	return p, ok
}

// Platforms lists the enabled platform names.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	return names
}

// splitThread breaks "---"-separated content into the individual posts of a
// thread, dropping empty segments.
func splitThread(content string) []string {
	var posts []string
	for _, part := range strings.Split(content, "---") {
		if part = strings.TrimSpace(part); part != "" {
			posts = append(posts, part)
		}
	}
	return posts
}

// clip truncates content to a platform's character limit.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// doJSON runs the request and unmarshals a 2xx JSON response into out.
// Non-2xx responses become errors carrying the upstream status and body so
// publish records show the real platform failure.
func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
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
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(body)
		if len(detail) > 300 {
			detail = detail[:300]
		}
		return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, detail)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// parseKeyedContent parses "subreddit: X | title: Y | body: Z" style
// content into a map.
func parseKeyedContent(content string) map[string]string {
	parts := make(map[string]string)
	for _, p := range strings.Split(content, "|") {
		if idx := strings.Index(p, ":"); idx > 0 {
			key := strings.ToLower(strings.TrimSpace(p[:idx]))
			parts[key] = strings.TrimSpace(p[idx+1:])
		}
	}
	return parts
}
