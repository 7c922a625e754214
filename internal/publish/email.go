// In file: internal/publish/email.go
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

const sendgridAPIBase = "https://api.sendgrid.com"

// EmailPublisher sends the newsletter edition through SendGrid's v3 mail
// API. Content uses the keyed format "subject: X | body: Y".
type EmailPublisher struct {
	apiKey     string
	fromEmail  string
	toEmail    string
	baseURL    string
	httpClient *http.Client
}

var _ Publisher = (*EmailPublisher)(nil)

func NewEmailPublisher(apiKey, fromEmail, toEmail string) *EmailPublisher {
	if apiKey == "" || fromEmail == "" || toEmail == "" {
		return nil
	}
	return &EmailPublisher{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		toEmail:    toEmail,
		baseURL:    sendgridAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *EmailPublisher) Platform() string { return "email" }

func (p *EmailPublisher) Publish(ctx context.Context, content string) (string, error) {
	parts := parseKeyedContent(content)
	subject := parts["subject"]
	if subject == "" {
		subject = "AJ Content Engine"
	}
	body := parts["body"]
	if body == "" {
		body = content
	}
	htmlBody := "<div style='font-family:Arial;max-width:600px;margin:auto'>" + body + "</div>"

	payload, err := json.Marshal(map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": p.toEmail}}},
		},
		"from":    map[string]string{"email": p.fromEmail},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/html", "value": htmlBody},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendgrid request failed: %w", err)
	}
	body2, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		log.Printf("Warning: Failed to close response body: %v", err)
	}
	if readErr != nil {
		return "", fmt.Errorf("failed to read sendgrid response: %w", readErr)
	}
	// SendGrid answers 202 with an empty body on success.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid API error: status %d, body: %s", resp.StatusCode, clip(string(body2), 300))
	}
	return "email sent to " + p.toEmail, nil
}
