// In file: internal/store/topic_repository.go
package store

import (
	"database/sql"
)

type TopicRepositoryInterface interface {
	Upsert(t *Topic) error
	ListRecent(limit int) ([]*Topic, error)
}

type TopicRepository struct {
	DB *sql.DB
}

var _ TopicRepositoryInterface = (*TopicRepository)(nil)

// Upsert records a feed topic, keeping the original first_seen when the
// same title shows up again and refreshing the score.
func (r *TopicRepository) Upsert(t *Topic) error {
	query := `
		INSERT INTO topics (source, title, url, category, score, first_seen)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (title) DO UPDATE SET score=EXCLUDED.score, category=EXCLUDED.category
	`
	_, err := r.DB.Exec(query, t.Source, t.Title, t.URL, t.Category, t.Score)
	return err
}

func (r *TopicRepository) ListRecent(limit int) ([]*Topic, error) {
	query := `
		SELECT id, source, title, url, category, score, first_seen
		FROM topics ORDER BY first_seen DESC LIMIT $1
	`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []*Topic{}
	for rows.Next() {
		t := &Topic{}
		if err := rows.Scan(&t.ID, &t.Source, &t.Title, &t.URL, &t.Category, &t.Score, &t.FirstSeen); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
