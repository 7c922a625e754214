// In file: cmd/engine/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aj-automates/content-engine/internal/agents"
	"github.com/aj-automates/content-engine/internal/analytics"
	"github.com/aj-automates/content-engine/internal/llm"
	"github.com/aj-automates/content-engine/internal/publish"
	"github.com/aj-automates/content-engine/internal/queue"
	"github.com/aj-automates/content-engine/internal/scheduler"
	"github.com/aj-automates/content-engine/internal/store"
	"github.com/aj-automates/content-engine/internal/tools"
	"github.com/aj-automates/content-engine/internal/trending"
	"github.com/aj-automates/content-engine/internal/video"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// main is the entry point for the API server.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting AJ Content Engine | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
	}

	textClient, err := initializeTextClient(cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	var imageClient llm.ImageClient
	if cfg.GeminiAPIKey != "" {
		if imageClient, err = llm.NewGeminiImageClient(cfg.GeminiAPIKey); err != nil {
			log.Fatalf("❌ FATAL: Could not create image client: %v", err)
		}
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set; image generation disabled.")
	}

	var videoClient llm.VideoClient
	if cfg.SeedanceAPIKey != "" {
		if videoClient, err = llm.NewSeedanceClient(cfg.SeedanceAPIKey, cfg.SeedanceBaseURL); err != nil {
			log.Fatalf("❌ FATAL: Could not create video client: %v", err)
		}
	} else {
		log.Println("⚠️ SEEDANCE_API_KEY not set; Shorts video generation disabled.")
	}

	toolManager := initializeToolManager(cfg)

	var campaignRepo store.CampaignRepositoryInterface
	var recordRepo store.PublishRecordRepositoryInterface
	var topicRepo store.TopicRepositoryInterface
	if cfg.DatabaseURL != "" {
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ FATAL: Could not connect to Postgres: %v", err)
		}
		if err := store.InitSchema(db); err != nil {
			log.Fatalf("❌ FATAL: Could not initialize schema: %v", err)
		}
		campaignRepo = &store.CampaignRepository{DB: db}
		recordRepo = &store.PublishRecordRepository{DB: db}
		topicRepo = &store.TopicRepository{DB: db}
		log.Println("✅ Postgres connected.")
	} else {
		log.Println("⚠️ DATABASE_URL not set; campaigns will not be persisted.")
	}

	var jobs queue.Publisher
	if cfg.AMQPURL != "" {
		q, err := queue.Connect(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("❌ FATAL: Could not connect to RabbitMQ: %v", err)
		}
		defer q.Close()
		jobs = q
		log.Println("✅ RabbitMQ connected.")
	} else {
		log.Println("⚠️ AMQP_URL not set; publishing queue disabled.")
	}

	storage := video.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	if storage == nil {
		log.Println("⚠️ Supabase credentials not set; media hosting disabled.")
	}

	// Registered here only to log which platforms are live; the actual
	// posting happens in cmd/worker.
	registry := buildPublisherRegistry(cfg)
	log.Printf("✅ %d publisher platform(s) configured.", len(registry.Platforms()))

	crew := agents.New(agents.Config{
		TextClient:       textClient,
		ImageClient:      imageClient,
		VideoClient:      videoClient,
		ToolManager:      toolManager,
		Campaigns:        campaignRepo,
		Records:          recordRepo,
		Jobs:             jobs,
		Uploader:         uploaderFor(storage),
		Voice:            cfg.BrandVoice,
		EnabledPlatforms: cfg.EnabledPlatforms(),
	})

	fetcher := trending.NewFetcher(cfg.SerperAPIKey)
	rewriter := trending.NewRewriter(textClient)
	trendCache := trending.NewCache(rdb)
	researcher := video.NewResearcher(cfg.SerperAPIKey, storage)
	scanner := video.NewTwitterScanner(cfg.TwitterBearerToken)
	profiler := analytics.NewProfiler(rdb)

	sched := scheduler.New(crew)
	registerScheduledCampaigns(sched, cfg.Schedule)
	sched.Start()
	defer sched.Stop()

	handler := NewEngineHandler(crew, campaignRepo, recordRepo, topicRepo,
		fetcher, rewriter, trendCache, researcher, scanner, profiler, sched, cfg)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()
	apiGroup := engine.Group("/api")
	{
		apiGroup.GET("/health", handler.HandleHealth)
		apiGroup.POST("/campaign/generate", handler.HandleGenerateCampaign)
		apiGroup.POST("/campaign/full", handler.HandleFullCampaign)
		apiGroup.POST("/campaign/research", handler.HandleResearch)
		apiGroup.GET("/campaigns", handler.HandleListCampaigns)
		apiGroup.GET("/campaigns/:id", handler.HandleGetCampaign)
		apiGroup.GET("/trending", handler.HandleTrendingFeed)
		apiGroup.GET("/trending/shorts", handler.HandleTrendingShorts)
		apiGroup.GET("/trending/videos", handler.HandleTrendingVideos)
		apiGroup.GET("/videos/search", handler.HandleVideoSearch)
		apiGroup.POST("/videos/select", handler.HandleVideoSelect)
		apiGroup.GET("/analytics", handler.HandleAnalytics)
		apiGroup.GET("/schedule", handler.HandleSchedule)
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// initializeTextClient prefers Claude and falls back to Gemini when only
// that key is present.
func initializeTextClient(cfg *AppConfig) (llm.TextClient, error) {
	if cfg.AnthropicAPIKey != "" {
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if cfg.GeminiAPIKey != "" {
		log.Println("⚠️ ANTHROPIC_API_KEY not set; falling back to Gemini for text generation.")
		return llm.NewGeminiClient(cfg.GeminiAPIKey, llm.DefaultGeminiModel)
	}
	return nil, errors.New("no text model configured: set ANTHROPIC_API_KEY or GEMINI_API_KEY")
}

// initializeToolManager registers the research agent's tools.
func initializeToolManager(cfg *AppConfig) *tools.ToolManager {
	tm := tools.NewToolManager()
	if cfg.SerperAPIKey != "" {
		searchTool, err := tools.NewSearchTool(cfg.SerperAPIKey)
		if err != nil {
			log.Fatalf("❌ FATAL: Could not create search tool: %v", err)
		}
		tm.Register(searchTool)
	} else {
		log.Println("⚠️ SERPER_API_KEY not set; research agent runs without web search.")
	}
	tm.Register(tools.NewScrapeTool())
	log.Printf("✅ Tool manager initialized with %d tool(s).", tm.ToolCount())
	return tm
}

// buildPublisherRegistry wires every platform adapter that has credentials.
func buildPublisherRegistry(cfg *AppConfig) *publish.Registry {
	registry := publish.NewRegistry()
	registry.Register(publish.NewTwitterPublisher(cfg.TwitterAccessToken))
	registry.Register(publish.NewLinkedInPublisher(cfg.LinkedInToken))
	registry.Register(publish.NewBlueskyPublisher(cfg.BlueskyHandle, cfg.BlueskyAppPassword))
	registry.Register(publish.NewRedditPublisher(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUsername, cfg.RedditPassword))
	registry.Register(publish.NewTelegramPublisher(cfg.TelegramBotToken, cfg.TelegramChannelID))
	registry.Register(publish.NewEmailPublisher(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailTo))
	return registry
}

// uploaderFor avoids handing the crew a typed-nil interface.
func uploaderFor(storage *video.SupabaseStorage) agents.Uploader {
	if storage == nil {
		return nil
	}
	return storage
}

func registerScheduledCampaigns(sched *scheduler.Scheduler, entries []ScheduleEntry) {
	for _, entry := range entries {
		switch entry.Every {
		case "weekly":
			if _, err := sched.AddWeekly(entry.Topic, entry.Day, entry.Hour, entry.Minute); err != nil {
				log.Printf("⚠️ Skipping invalid schedule entry %q: %v", entry.Topic, err)
			}
		case "daily", "":
			sched.AddDaily(entry.Topic, entry.Hour, entry.Minute)
		default:
			log.Printf("⚠️ Skipping schedule entry %q: unknown interval %q", entry.Topic, entry.Every)
		}
	}
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Engine is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
