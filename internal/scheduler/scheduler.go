// In file: internal/scheduler/scheduler.go

// Package scheduler runs recurring campaigns. Jobs are cron-like (daily or
// weekly at a fixed time) and each firing runs the full pipeline with
// publishing enabled. A failed run is logged and the schedule keeps going.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aj-automates/content-engine/internal/agents"
)

// campaignTimeout bounds one scheduled pipeline run end to end.
const campaignTimeout = 30 * time.Minute

// PipelineRunner is the slice of the crew the scheduler needs.
type PipelineRunner interface {
	RunFull(ctx context.Context, topic string, publish bool) (*agents.PipelineResult, error)
}

// Job is one recurring campaign.
type Job struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Schedule string `json:"schedule"`

	weekday *time.Weekday
	hour    int
	minute  int
	lastRun time.Time
}

// due reports whether the job should fire at t, at minute granularity.
func (j *Job) due(t time.Time) bool {
	if t.Hour() != j.hour || t.Minute() != j.minute {
		return false
	}
	if j.weekday != nil && t.Weekday() != *j.weekday {
		return false
	}
	// Guard against double-firing within the same minute.
	return t.Truncate(time.Minute).After(j.lastRun)
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// Scheduler fires jobs from a one-minute ticker loop.
type Scheduler struct {
	runner PipelineRunner

	mu   sync.Mutex
	jobs []*Job

	now     func() time.Time
	stop    chan struct{}
	running sync.WaitGroup
}

func New(runner PipelineRunner) *Scheduler {
	return &Scheduler{
		runner: runner,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

func jobID(kind, topic string) string {
	name := topic
	if len(name) > 20 {
		name = name[:20]
	}
	return fmt.Sprintf("%s_%s", kind, strings.ReplaceAll(name, " ", "_"))
}

// AddDaily schedules a campaign every day at hour:minute.
func (s *Scheduler) AddDaily(topic string, hour, minute int) *Job {
	job := &Job{
		ID:       jobID("daily", topic),
		Topic:    topic,
		Schedule: fmt.Sprintf("daily %d:%02d", hour, minute),
		hour:     hour,
		minute:   minute,
	}
	s.addJob(job)
	return job
}

// AddWeekly schedules a campaign once a week; day is a three-letter
// weekday ("mon", "tue", ...).
func (s *Scheduler) AddWeekly(topic, day string, hour, minute int) (*Job, error) {
	weekday, ok := weekdays[strings.ToLower(day)]
	if !ok {
		return nil, fmt.Errorf("unknown weekday: %q", day)
	}
	job := &Job{
		ID:       jobID("weekly", topic),
		Topic:    topic,
		Schedule: fmt.Sprintf("weekly %s %d:%02d", strings.ToLower(day), hour, minute),
		weekday:  &weekday,
		hour:     hour,
		minute:   minute,
	}
	s.addJob(job)
	return job, nil
}

// addJob replaces an existing job with the same ID.
func (s *Scheduler) addJob(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.jobs {
		if existing.ID == job.ID {
			s.jobs[i] = job
			return
		}
	}
	s.jobs = append(s.jobs, job)
}

// Jobs returns the current schedule.
func (s *Scheduler) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}

// Start launches the ticker loop in a background goroutine.
func (s *Scheduler) Start() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		log.Printf("🚀 Campaign scheduler started with %d job(s).", len(s.Jobs()))
		for {
			select {
			case <-ticker.C:
				s.runDue(s.now())
			case <-s.stop:
				log.Println("Campaign scheduler stopped.")
				return
			}
		}
	}()
}

// Stop ends the ticker loop and waits for in-flight campaigns to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.running.Wait()
}

// runDue fires every job due at t. Each job runs in its own goroutine so a
// long campaign never delays or skips the others due in the meantime; a
// failure is logged and never stops the schedule.
func (s *Scheduler) runDue(t time.Time) {
	s.mu.Lock()
	var due []*Job
	for _, job := range s.jobs {
		if job.due(t) {
			job.lastRun = t.Truncate(time.Minute)
			due = append(due, job)
		}
	}
	s.mu.Unlock()

	for _, job := range due {
		s.running.Add(1)
		go func(job *Job) {
			defer s.running.Done()
			s.runJob(job)
		}(job)
	}
}

func (s *Scheduler) runJob(job *Job) {
	log.Printf("🚀 Scheduled campaign starting: %s (%s)", job.Topic, job.Schedule)
	ctx, cancel := context.WithTimeout(context.Background(), campaignTimeout)
	defer cancel()
	result, err := s.runner.RunFull(ctx, job.Topic, true)
	if err != nil {
		log.Printf("❌ Scheduled campaign failed: %s - %v", job.Topic, err)
		return
	}
	log.Printf("✅ Scheduled campaign complete: %s (campaign %s, %.1fs)",
		job.Topic, result.CampaignID, result.Metrics.LatencySeconds)
}
