// In file: internal/store/models.go

// Package store persists campaigns, trending topics, and publish records in
// PostgreSQL.
package store

import (
	"encoding/json"
	"time"
)

// Campaign statuses.
const (
	CampaignStatusRunning   = "running"
	CampaignStatusCompleted = "completed"
	CampaignStatusFailed    = "failed"
)

// Publish record statuses.
const (
	PublishStatusPending   = "pending"
	PublishStatusPublished = "published"
	PublishStatusFailed    = "failed"
)

// Campaign is one full pipeline run: the topic it started from, the
// generated article, the per-platform repurposed pieces, generated media,
// and run metrics.
type Campaign struct {
	ID            string          `json:"id"`
	Topic         string          `json:"topic"`
	Status        string          `json:"status"`
	ResearchBrief string          `json:"research_brief,omitempty"`
	Article       string          `json:"article,omitempty"`
	Repurposed    json.RawMessage `json:"repurposed,omitempty"`
	Media         json.RawMessage `json:"media,omitempty"`
	Metrics       json.RawMessage `json:"metrics,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Topic is a trending feed item kept for topic history and dedupe across
// refreshes.
type Topic struct {
	ID        int       `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Category  string    `json:"category"`
	Score     int       `json:"score"`
	FirstSeen time.Time `json:"first_seen"`
}

// PublishRecord tracks one platform post for a campaign through the async
// publish queue.
type PublishRecord struct {
	ID         int       `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Platform   string    `json:"platform"`
	Status     string    `json:"status"`
	PostURL    string    `json:"post_url,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
