// In file: cmd/engine/handler_test.go
package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aj-automates/content-engine/internal/store"
	"github.com/aj-automates/content-engine/internal/trending"
)

type flakyTopicRepo struct {
	upserts []string
	failOn  string
}

func (f *flakyTopicRepo) Upsert(topic *store.Topic) error {
	f.upserts = append(f.upserts, topic.Title)
	if topic.Title == f.failOn {
		return errors.New("duplicate key")
	}
	return nil
}

func (f *flakyTopicRepo) ListRecent(int) ([]*store.Topic, error) { return nil, nil }

func TestRecordTopics_ContinuesPastFailures(t *testing.T) {
	repo := &flakyTopicRepo{failOn: "second"}
	h := &EngineHandler{topics: repo}

	score := 5
	h.recordTopics([]trending.FeedItem{
		{Title: "first", Score: &score},
		{Title: "second"},
		{Title: "third"},
	})

	// A failed upsert only skips that topic, the rest still land.
	assert.Equal(t, []string{"first", "second", "third"}, repo.upserts)
}
