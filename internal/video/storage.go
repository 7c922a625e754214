// In file: internal/video/storage.go
package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var unsafeFilenamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SupabaseStorage uploads clips to a Supabase Storage bucket over its raw
// HTTP API and hands back the public object URL.
type SupabaseStorage struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
	// now is swappable for tests; object paths embed the upload date.
	now func() time.Time
}

// NewSupabaseStorage returns nil when the credentials are missing, which
// downstream code treats as "hosting disabled" rather than an error.
func NewSupabaseStorage(baseURL, apiKey, bucket string) *SupabaseStorage {
	if baseURL == "" || apiKey == "" {
		return nil
	}
	if bucket == "" {
		bucket = "videos"
	}
	return &SupabaseStorage{
		baseURL:    baseURL,
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		now:        time.Now,
	}
}

// Upload stores the file under a date-partitioned, uniquely-prefixed path
// and returns its public URL.
func (s *SupabaseStorage) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	safeName := unsafeFilenamePattern.ReplaceAllString(filename, "_")
	storagePath := fmt.Sprintf("%s/%s_%s",
		s.now().UTC().Format("2006/01/02"),
		uuid.NewString()[:8],
		safeName,
	)

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, storagePath)
	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase upload failed: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close upload response body: %v", err)
	}
	if readErr != nil {
		return "", fmt.Errorf("failed to read upload response: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("supabase upload error: status %d, body: %s", resp.StatusCode, truncate(string(body), 300))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
	log.Printf("✅ Uploaded to Supabase: %s (%.1f MB)", storagePath, float64(len(data))/(1024*1024))
	return publicURL, nil
}
