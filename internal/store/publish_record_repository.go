// In file: internal/store/publish_record_repository.go
package store

import (
	"database/sql"
)

type PublishRecordRepositoryInterface interface {
	Create(campaignID, platform string) (*PublishRecord, error)
	GetByID(id int) (*PublishRecord, error)
	ListByCampaign(campaignID string) ([]*PublishRecord, error)
	MarkPublished(id int, postURL string) error
	MarkFailed(id int, lastError string) error
}

type PublishRecordRepository struct {
	DB *sql.DB
}

var _ PublishRecordRepositoryInterface = (*PublishRecordRepository)(nil)

// Create inserts a pending record for one campaign/platform pair.
func (r *PublishRecordRepository) Create(campaignID, platform string) (*PublishRecord, error) {
	query := `
		INSERT INTO publish_records (campaign_id, platform, status, created_at, updated_at)
		VALUES ($1, $2, 'pending', NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	rec := &PublishRecord{
		CampaignID: campaignID,
		Platform:   platform,
		Status:     PublishStatusPending,
	}
	if err := r.DB.QueryRow(query, campaignID, platform).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PublishRecordRepository) GetByID(id int) (*PublishRecord, error) {
	query := `
		SELECT id, campaign_id, platform, status, post_url, last_error, created_at, updated_at
		FROM publish_records WHERE id=$1
	`
	var rec PublishRecord
	err := r.DB.QueryRow(query, id).Scan(
		&rec.ID, &rec.CampaignID, &rec.Platform, &rec.Status,
		&rec.PostURL, &rec.LastError, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PublishRecordRepository) ListByCampaign(campaignID string) ([]*PublishRecord, error) {
	query := `
		SELECT id, campaign_id, platform, status, post_url, last_error, created_at, updated_at
		FROM publish_records WHERE campaign_id=$1 ORDER BY id
	`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*PublishRecord{}
	for rows.Next() {
		rec := &PublishRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.CampaignID, &rec.Platform, &rec.Status,
			&rec.PostURL, &rec.LastError, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PublishRecordRepository) MarkPublished(id int, postURL string) error {
	query := `UPDATE publish_records SET status='published', post_url=$1, last_error='', updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, postURL, id)
	return err
}

func (r *PublishRecordRepository) MarkFailed(id int, lastError string) error {
	query := `UPDATE publish_records SET status='failed', last_error=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, lastError, id)
	return err
}
