// In file: cmd/worker/main.go

// The worker drains the publish queue: each job is the ID of a pending
// publish_records row. It loads the campaign's repurposed content, posts it
// through the matching platform adapter, and records the outcome in both
// Postgres and the Redis platform profiles.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aj-automates/content-engine/internal/agents"
	"github.com/aj-automates/content-engine/internal/analytics"
	"github.com/aj-automates/content-engine/internal/publish"
	"github.com/aj-automates/content-engine/internal/queue"
	"github.com/aj-automates/content-engine/internal/store"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
)

// publishTimeout bounds one platform post, including token exchanges.
const publishTimeout = 2 * time.Minute

type worker struct {
	campaigns store.CampaignRepositoryInterface
	records   store.PublishRecordRepositoryInterface
	registry  *publish.Registry
	profiler  *analytics.Profiler
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("🚀 Starting publish worker...")

	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	db, err := store.Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Postgres: %v", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
	}

	q, err := queue.Connect(os.Getenv("AMQP_URL"))
	if err != nil {
		log.Fatalf("❌ FATAL: Could not connect to RabbitMQ: %v", err)
	}
	defer q.Close()

	registry := publish.NewRegistry()
	registry.Register(publish.NewTwitterPublisher(os.Getenv("TWITTER_ACCESS_TOKEN")))
	registry.Register(publish.NewLinkedInPublisher(os.Getenv("LINKEDIN_ACCESS_TOKEN")))
	registry.Register(publish.NewBlueskyPublisher(os.Getenv("BLUESKY_HANDLE"), os.Getenv("BLUESKY_APP_PASSWORD")))
	registry.Register(publish.NewRedditPublisher(
		os.Getenv("REDDIT_CLIENT_ID"), os.Getenv("REDDIT_CLIENT_SECRET"),
		os.Getenv("REDDIT_USERNAME"), os.Getenv("REDDIT_PASSWORD")))
	registry.Register(publish.NewTelegramPublisher(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHANNEL_ID")))
	registry.Register(publish.NewEmailPublisher(os.Getenv("SENDGRID_API_KEY"), os.Getenv("EMAIL_FROM"), os.Getenv("EMAIL_TO")))

	w := &worker{
		campaigns: &store.CampaignRepository{DB: db},
		records:   &store.PublishRecordRepository{DB: db},
		registry:  registry,
		profiler:  analytics.NewProfiler(rdb),
	}

	deliveries, err := q.Consume()
	if err != nil {
		log.Fatalf("❌ FATAL: Could not start consuming: %v", err)
	}
	log.Println("👂 Worker is waiting for publish jobs.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				log.Println("Delivery channel closed, shutting down.")
				return
			}
			w.handle(d)
		case <-quit:
			log.Println("👋 Worker exited gracefully.")
			return
		}
	}
}

// handle processes one delivery. The message is acked once the record's
// final status is stored; only infrastructure errors requeue.
func (w *worker) handle(d amqp.Delivery) {
	var job queue.PublishJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Printf("❌ Dropping malformed job: %v", err)
		w.ack(d)
		return
	}

	rec, err := w.records.GetByID(job.PublishRecordID)
	if err != nil {
		log.Printf("⚠️ Failed to load publish record %d, requeueing: %v", job.PublishRecordID, err)
		w.nack(d)
		return
	}
	if rec == nil {
		log.Printf("❌ Dropping job for unknown publish record %d", job.PublishRecordID)
		w.ack(d)
		return
	}
	if rec.Status != store.PublishStatusPending {
		log.Printf("📌 Publish record %d already %s, skipping.", rec.ID, rec.Status)
		w.ack(d)
		return
	}

	if err := w.publish(rec); err != nil {
		log.Printf("❌ Publish to %s failed (record %d): %v", rec.Platform, rec.ID, err)
		if dbErr := w.records.MarkFailed(rec.ID, err.Error()); dbErr != nil {
			log.Printf("⚠️ Failed to store failure for record %d, requeueing: %v", rec.ID, dbErr)
			w.nack(d)
			return
		}
		if err := w.profiler.RecordFailure(context.Background(), rec.Platform, err); err != nil {
			log.Printf("⚠️ Failed to update platform profile: %v", err)
		}
	}
	w.ack(d)
}

// publish posts one record's content and stores the success outcome.
func (w *worker) publish(rec *store.PublishRecord) error {
	campaign, err := w.campaigns.GetByID(rec.CampaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return fmt.Errorf("campaign %s not found", rec.CampaignID)
	}

	var sections map[string]string
	if len(campaign.Repurposed) > 0 {
		if err := json.Unmarshal(campaign.Repurposed, &sections); err != nil {
			return err
		}
	}
	content, ok := agents.PlatformContent(sections, rec.Platform)
	if !ok {
		return fmt.Errorf("no repurposed content for platform %s", rec.Platform)
	}

	publisher, ok := w.registry.Get(rec.Platform)
	if !ok {
		return fmt.Errorf("no publisher configured for platform %s", rec.Platform)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	start := time.Now()
	postURL, err := publisher.Publish(ctx, content)
	if err != nil {
		return err
	}
	latency := time.Since(start)

	if err := w.records.MarkPublished(rec.ID, postURL); err != nil {
		return err
	}
	if err := w.profiler.RecordSuccess(context.Background(), rec.Platform, latency); err != nil {
		log.Printf("⚠️ Failed to update platform profile: %v", err)
	}
	log.Printf("✅ Published to %s (record %d): %s", rec.Platform, rec.ID, postURL)
	return nil
}

func (w *worker) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		log.Printf("⚠️ Failed to ack delivery: %v", err)
	}
}

func (w *worker) nack(d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		log.Printf("⚠️ Failed to nack delivery: %v", err)
	}
}
