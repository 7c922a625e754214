// In file: internal/store/campaign_repository.go
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CampaignRepositoryInterface interface {
	Create(topic string) (*Campaign, error)
	GetByID(id string) (*Campaign, error)
	List(offset, limit int, status string) ([]*Campaign, int, error)
	UpdateStatus(id, status, lastError string) error
	SetResearchBrief(id, brief string) error
	SetArticle(id, article string) error
	SetRepurposed(id string, repurposed json.RawMessage) error
	SetMedia(id string, media json.RawMessage) error
	SetMetrics(id string, metrics json.RawMessage) error
}

type CampaignRepository struct {
	DB *sql.DB
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

// Create inserts a new campaign in the running state.
func (r *CampaignRepository) Create(topic string) (*Campaign, error) {
	c := &Campaign{
		ID:        uuid.NewString(),
		Topic:     topic,
		Status:    CampaignStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	query := `
		INSERT INTO campaigns (id, topic, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.DB.Exec(query, c.ID, c.Topic, c.Status, c.CreatedAt, c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) GetByID(id string) (*Campaign, error) {
	query := `
		SELECT id, topic, status, research_brief, article, repurposed, media, metrics, last_error, created_at, updated_at
		FROM campaigns WHERE id=$1
	`
	var c Campaign
	var repurposed, media, metrics []byte
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Topic, &c.Status, &c.ResearchBrief, &c.Article,
		&repurposed, &media, &metrics, &c.LastError, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Repurposed = repurposed
	c.Media = media
	c.Metrics = metrics
	return &c, nil
}

func (r *CampaignRepository) List(offset, limit int, status string) ([]*Campaign, int, error) {
	campaigns := []*Campaign{}
	query := `
		SELECT id, topic, status, research_brief, article, repurposed, media, metrics, last_error, created_at, updated_at
		FROM campaigns
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &Campaign{}
		var repurposed, media, metrics []byte
		if err := rows.Scan(
			&c.ID, &c.Topic, &c.Status, &c.ResearchBrief, &c.Article,
			&repurposed, &media, &metrics, &c.LastError, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		c.Repurposed = repurposed
		c.Media = media
		c.Metrics = metrics
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns`
	countArgs := []interface{}{}
	if status != "" {
		countQuery += ` WHERE status=$1`
		countArgs = append(countArgs, status)
	}
	var total int
	if err := r.DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (r *CampaignRepository) UpdateStatus(id, status, lastError string) error {
	query := `UPDATE campaigns SET status=$1, last_error=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, status, lastError, id)
	return err
}

func (r *CampaignRepository) SetResearchBrief(id, brief string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET research_brief=$1, updated_at=NOW() WHERE id=$2`, brief, id)
	return err
}

func (r *CampaignRepository) SetArticle(id, article string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET article=$1, updated_at=NOW() WHERE id=$2`, article, id)
	return err
}

func (r *CampaignRepository) SetRepurposed(id string, repurposed json.RawMessage) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET repurposed=$1, updated_at=NOW() WHERE id=$2`, []byte(repurposed), id)
	return err
}

func (r *CampaignRepository) SetMedia(id string, media json.RawMessage) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET media=$1, updated_at=NOW() WHERE id=$2`, []byte(media), id)
	return err
}

func (r *CampaignRepository) SetMetrics(id string, metrics json.RawMessage) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET metrics=$1, updated_at=NOW() WHERE id=$2`, []byte(metrics), id)
	return err
}
