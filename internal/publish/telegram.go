// In file: internal/publish/telegram.go
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
	telegramAPIBase      = "https://api.telegram.org"
	telegramMessageLimit = 4096
)

// TelegramPublisher posts to a channel through the bot API's sendMessage
// endpoint with Markdown parsing.
type TelegramPublisher struct {
	botToken  string
	channelID string
	baseURL   string

	httpClient *http.Client
}

var _ Publisher = (*TelegramPublisher)(nil)

func NewTelegramPublisher(botToken, channelID string) *TelegramPublisher {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &TelegramPublisher{
		botToken:   botToken,
		channelID:  channelID,
		baseURL:    telegramAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *TelegramPublisher) Platform() string { return "telegram" }

func (p *TelegramPublisher) Publish(ctx context.Context, content string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    p.channelID,
		"text":       clip(content, telegramMessageLimit),
		"parse_mode": "Markdown",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", p.baseURL, p.botToken)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var sendResp struct {
		OK     bool `json:"ok"`
		Result struct {
			MessageID int `json:"message_id"`
		} `json:"result"`
		Description string `json:"description"`
	}
	if err := doJSON(p.httpClient, req, &sendResp); err != nil {
		return "", fmt.Errorf("telegram: %w", err)
	}
	if !sendResp.OK {
		return "", fmt.Errorf("telegram rejected message: %s", sendResp.Description)
	}
	return fmt.Sprintf("telegram message %d", sendResp.Result.MessageID), nil
}
