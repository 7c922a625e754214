// In file: internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aj-automates/content-engine/internal/agents"
)

type fakeRunner struct {
	mu     sync.Mutex
	topics []string
	err    error
	block  chan struct{} // when set, the "slow" topic parks here until closed
}

func (f *fakeRunner) RunFull(_ context.Context, topic string, publish bool) (*agents.PipelineResult, error) {
	if f.block != nil && topic == "slow" {
		<-f.block
	}
	f.mu.Lock()
	f.topics = append(f.topics, topic)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &agents.PipelineResult{Topic: topic, Published: publish, CampaignID: "c1"}, nil
}

func (f *fakeRunner) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.topics...)
}

func TestAddJobs_IDsAndReplacement(t *testing.T) {
	s := New(&fakeRunner{})

	job := s.AddDaily("AI agents replacing traditional SaaS", 9, 0)
	assert.Equal(t, "daily_AI_agents_replacing_", job.ID)
	assert.Equal(t, "daily 9:00", job.Schedule)

	weekly, err := s.AddWeekly("weekly roundup", "Mon", 8, 30)
	require.NoError(t, err)
	assert.Equal(t, "weekly_weekly_roundup", weekly.ID)
	assert.Equal(t, "weekly mon 8:30", weekly.Schedule)

	_, err = s.AddWeekly("bad day", "monday", 8, 0)
	require.Error(t, err)

	// Re-adding with the same ID replaces, not duplicates.
	s.AddDaily("AI agents replacing traditional SaaS", 10, 15)
	require.Len(t, s.Jobs(), 2)
}

func TestJobDue(t *testing.T) {
	s := New(&fakeRunner{})
	daily := s.AddDaily("topic", 9, 0)
	weekly, err := s.AddWeekly("topic two", "mon", 9, 0)
	require.NoError(t, err)

	monday := time.Date(2026, 8, 24, 9, 0, 30, 0, time.UTC) // a Monday
	tuesday := monday.Add(24 * time.Hour)

	assert.True(t, daily.due(monday))
	assert.True(t, daily.due(tuesday))
	assert.False(t, daily.due(monday.Add(time.Minute)))

	assert.True(t, weekly.due(monday))
	assert.False(t, weekly.due(tuesday))
}

func TestRunDue_FiresOncePerMinuteAndSurvivesFailures(t *testing.T) {
	runner := &fakeRunner{err: errors.New("pipeline blew up")}
	s := New(runner)
	s.AddDaily("first", 9, 0)
	s.AddDaily("second", 9, 0)

	at := time.Date(2026, 8, 24, 9, 0, 10, 0, time.UTC)
	s.runDue(at)
	s.running.Wait()

	// Both fired despite one failing.
	assert.ElementsMatch(t, []string{"first", "second"}, runner.seen())

	// Same minute again: nothing fires.
	s.runDue(at.Add(20 * time.Second))
	s.running.Wait()
	assert.Len(t, runner.seen(), 2)

	// Next day at the same time: fires again.
	s.runDue(at.Add(24 * time.Hour))
	s.running.Wait()
	assert.Len(t, runner.seen(), 4)
}

func TestRunDue_LongRunningJobDoesNotBlockOthers(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := New(runner)
	s.AddDaily("slow", 9, 0)
	s.AddDaily("quick", 9, 1)

	at := time.Date(2026, 8, 24, 9, 0, 5, 0, time.UTC)
	s.runDue(at) // "slow" starts and parks on the block channel

	// A minute later, "quick" is due while "slow" is still running. It
	// must fire and complete without waiting.
	s.runDue(at.Add(time.Minute))
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"quick"}, runner.seen())
	}, time.Second, 10*time.Millisecond)

	close(runner.block)
	s.running.Wait()
	assert.ElementsMatch(t, []string{"slow", "quick"}, runner.seen())
}
