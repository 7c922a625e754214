// In file: internal/analytics/profiler.go

// Package analytics tracks per-platform publishing health in Redis. The
// worker reports every publish outcome; the API and the analytics stage
// read the aggregated profiles back.
package analytics

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlatformProfile aggregates publish reliability metrics for one platform.
type PlatformProfile struct {
	Platform         string    `json:"platform"`
	TotalSuccesses   int64     `json:"total_successes"`
	TotalFailures    int64     `json:"total_failures"`
	ErrorRate        float64   `json:"error_rate"`
	AvgLatencyMS     int64     `json:"avg_latency_ms"`
	LastPublishAt    time.Time `json:"last_publish_at"`
	PostsThisMonth   int64     `json:"posts_this_month"`
	LastErrorMessage string    `json:"last_error,omitempty"`
}

type Profiler struct {
	rdb *redis.Client
}

func NewProfiler(rdb *redis.Client) *Profiler {
	return &Profiler{rdb: rdb}
}

func (p *Profiler) profileKey(platform string) string {
	return fmt.Sprintf("platform_profile:%s", platform)
}

func (p *Profiler) monthlyKey(platform string) string {
	return fmt.Sprintf("platform_posts:%s:%s", platform, time.Now().Format("2006-01"))
}

// GetProfile reads a platform's profile; an unknown platform yields a zero
// profile rather than an error.
func (p *Profiler) GetProfile(ctx context.Context, platform string) (*PlatformProfile, error) {
	data, err := p.rdb.HGetAll(ctx, p.profileKey(platform)).Result()
	if err != nil {
		return nil, err
	}

	profile := &PlatformProfile{Platform: platform}
	profile.TotalSuccesses, _ = strconv.ParseInt(data["total_successes"], 10, 64)
	profile.TotalFailures, _ = strconv.ParseInt(data["total_failures"], 10, 64)
	profile.ErrorRate, _ = strconv.ParseFloat(data["error_rate"], 64)
	profile.AvgLatencyMS, _ = strconv.ParseInt(data["avg_latency_ms"], 10, 64)
	profile.LastPublishAt, _ = time.Parse(time.RFC3339Nano, data["last_publish_at"])
	profile.LastErrorMessage = data["last_error"]
	profile.PostsThisMonth, _ = p.rdb.Get(ctx, p.monthlyKey(platform)).Int64()
	return profile, nil
}

// RecordSuccess updates the profile after a successful publish, folding the
// observed latency into an exponentially-weighted moving average.
func (p *Profiler) RecordSuccess(ctx context.Context, platform string, latency time.Duration) error {
	profile, err := p.GetProfile(ctx, platform)
	if err != nil {
		return err
	}

	profile.TotalSuccesses++
	newAvg := (float64(profile.AvgLatencyMS) * 0.9) + (float64(latency.Milliseconds()) * 0.1)
	if profile.AvgLatencyMS == 0 {
		newAvg = float64(latency.Milliseconds())
	}

	key := p.profileKey(platform)
	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, key, "total_successes", profile.TotalSuccesses)
	pipe.HSet(ctx, key, "avg_latency_ms", int64(newAvg))
	pipe.HSet(ctx, key, "error_rate", errorRate(profile.TotalSuccesses, profile.TotalFailures))
	pipe.HSet(ctx, key, "last_publish_at", time.Now().Format(time.RFC3339Nano))
	pipe.Incr(ctx, p.monthlyKey(platform))
	// Keep monthly counters around long enough to compare two months.
	pipe.Expire(ctx, p.monthlyKey(platform), 62*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record publish success: %w", err)
	}
	return nil
}

// RecordFailure updates the failure counters and keeps the latest error
// message for the dashboard.
func (p *Profiler) RecordFailure(ctx context.Context, platform string, publishErr error) error {
	profile, err := p.GetProfile(ctx, platform)
	if err != nil {
		return err
	}
	profile.TotalFailures++

	errMsg := ""
	if publishErr != nil {
		errMsg = publishErr.Error()
		if len(errMsg) > 500 {
			errMsg = errMsg[:500]
		}
	}

	key := p.profileKey(platform)
	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, key, "total_failures", profile.TotalFailures)
	pipe.HSet(ctx, key, "error_rate", errorRate(profile.TotalSuccesses, profile.TotalFailures))
	pipe.HSet(ctx, key, "last_error", errMsg)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record publish failure: %w", err)
	}
	return nil
}

// Snapshot collects the profiles of every named platform. Platforms whose
// reads fail are logged and skipped.
func (p *Profiler) Snapshot(ctx context.Context, platforms []string) []*PlatformProfile {
	profiles := make([]*PlatformProfile, 0, len(platforms))
	for _, platform := range platforms {
		profile, err := p.GetProfile(ctx, platform)
		if err != nil {
			log.Printf("⚠️ Failed to read profile for %s: %v", platform, err)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

func errorRate(successes, failures int64) float64 {
	total := successes + failures
	if total == 0 {
		return 0
	}
	return float64(failures) / float64(total)
}
