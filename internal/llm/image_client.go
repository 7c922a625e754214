// In file: internal/llm/image_client.go
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

const (
	geminiImageAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	// DefaultImageModel is the Gemini image-output model the visual stage
	// generates platform assets with.
	DefaultImageModel = "gemini-3.1-flash-image-preview"
)

// --- API Data Structures ---
// The image-preview models are only reachable through the raw REST surface
// (responseModalities is not exposed by the generative-ai-go SDK), so this
// client speaks it directly.

type geminiImageRequest struct {
	Contents         []geminiImageContent   `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}
type geminiImageContent struct {
	Parts []geminiImagePart `json:"parts"`
}
type geminiImagePart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}
type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}
type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}
type geminiImageResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiImagePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiImageClient generates images through the Gemini image-preview model.
type GeminiImageClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

var _ ImageClient = (*GeminiImageClient)(nil)

func NewGeminiImageClient(apiKey string) (*GeminiImageClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	return &GeminiImageClient{
		apiKey:     apiKey,
		apiURL:     fmt.Sprintf(geminiImageAPIURL, DefaultImageModel),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// GenerateImage submits a text prompt and returns the first inline image in
// the response.
func (c *GeminiImageClient) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	payload, err := json.Marshal(geminiImageRequest{
		Contents: []geminiImageContent{{
			Parts: []geminiImagePart{{Text: "Generate an image: " + prompt}},
		}},
		GenerationConfig: geminiGenerationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close image response body: %v", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read image response body: %w", readErr)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini image API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var imageResp geminiImageResponse
	if err := json.Unmarshal(body, &imageResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal image response: %w", err)
	}
	if len(imageResp.Candidates) == 0 {
		return nil, errors.New("no image candidates returned from Gemini")
	}
	for _, part := range imageResp.Candidates[0].Content.Parts {
		if part.InlineData == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline image data: %w", err)
		}
		return &ImageResult{Data: data, MIMEType: part.InlineData.MIMEType}, nil
	}
	return nil, errors.New("no image data in Gemini response")
}
