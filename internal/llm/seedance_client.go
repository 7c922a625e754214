// In file: internal/llm/seedance_client.go
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

const defaultSeedanceBaseURL = "https://dreamina.capcut.com"

type seedanceRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
	Duration       int    `json:"duration"`
	Resolution     string `json:"resolution"`
	AspectRatio    string `json:"aspect_ratio"`
	ReferenceImage string `json:"reference_image,omitempty"`
}

type seedanceResponse struct {
	VideoURL string `json:"video_url"`
	URL      string `json:"url"`
}

// SeedanceClient generates short vertical videos via the Seedance 2.0 API.
// The visual stage uses it for TikTok / YouTube Shorts clips when a key is
// configured; without one the stage simply skips video generation.
type SeedanceClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ VideoClient = (*SeedanceClient)(nil)

func NewSeedanceClient(apiKey, baseURL string) (*SeedanceClient, error) {
	if apiKey == "" {
		return nil, errors.New("seedance API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = defaultSeedanceBaseURL
	}
	return &SeedanceClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// GenerateVideo submits a 10s 9:16 1080p generation job and returns the
// hosted video URL from the provider.
func (c *SeedanceClient) GenerateVideo(ctx context.Context, prompt string, referenceImage []byte) (string, error) {
	reqBody := seedanceRequest{
		Prompt:      prompt,
		Model:       "seedance-2.0",
		Duration:    10,
		Resolution:  "1080p",
		AspectRatio: "9:16",
	}
	if len(referenceImage) > 0 {
		reqBody.ReferenceImage = base64.StdEncoding.EncodeToString(referenceImage)
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal seedance request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/video/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create seedance request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("seedance request failed: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close seedance response body: %v", err)
	}
	if readErr != nil {
		return "", fmt.Errorf("failed to read seedance response: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("seedance API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var seedanceResp seedanceResponse
	if err := json.Unmarshal(body, &seedanceResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal seedance response: %w", err)
	}
	if seedanceResp.VideoURL != "" {
		return seedanceResp.VideoURL, nil
	}
	if seedanceResp.URL != "" {
		return seedanceResp.URL, nil
	}
	return "", errors.New("seedance returned no video URL")
}
