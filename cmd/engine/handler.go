// In file: cmd/engine/handler.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/aj-automates/content-engine/internal/agents"
	"github.com/aj-automates/content-engine/internal/analytics"
	"github.com/aj-automates/content-engine/internal/api"
	"github.com/aj-automates/content-engine/internal/scheduler"
	"github.com/aj-automates/content-engine/internal/store"
	"github.com/aj-automates/content-engine/internal/trending"
	"github.com/aj-automates/content-engine/internal/video"

	"github.com/gin-gonic/gin"
)

const totalAgents = 6

// EngineHandler holds the dependencies of every HTTP endpoint.
type EngineHandler struct {
	crew       *agents.Crew
	campaigns  store.CampaignRepositoryInterface
	records    store.PublishRecordRepositoryInterface
	topics     store.TopicRepositoryInterface
	fetcher    *trending.Fetcher
	rewriter   *trending.Rewriter
	trendCache *trending.Cache
	researcher *video.Researcher
	scanner    *video.TwitterScanner
	profiler   *analytics.Profiler
	sched      *scheduler.Scheduler
	cfg        *AppConfig
}

func NewEngineHandler(
	crew *agents.Crew,
	campaigns store.CampaignRepositoryInterface,
	records store.PublishRecordRepositoryInterface,
	topics store.TopicRepositoryInterface,
	fetcher *trending.Fetcher,
	rewriter *trending.Rewriter,
	trendCache *trending.Cache,
	researcher *video.Researcher,
	scanner *video.TwitterScanner,
	profiler *analytics.Profiler,
	sched *scheduler.Scheduler,
	cfg *AppConfig,
) *EngineHandler {
	return &EngineHandler{
		crew:       crew,
		campaigns:  campaigns,
		records:    records,
		topics:     topics,
		fetcher:    fetcher,
		rewriter:   rewriter,
		trendCache: trendCache,
		researcher: researcher,
		scanner:    scanner,
		profiler:   profiler,
		sched:      sched,
		cfg:        cfg,
	}
}

// HandleHealth reports service status and which provider keys are present.
func (h *EngineHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"app":     "AJ Content Engine",
		"version": GetBuildInfo().Version,
		"agents":  totalAgents,
		"keys":    h.cfg.HealthKeys(),
	})
}

// HandleGenerateCampaign runs Research -> Write -> Repurpose for a topic.
func (h *EngineHandler) HandleGenerateCampaign(c *gin.Context) {
	var req api.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}
	result, err := h.crew.RunContentOnly(c.Request.Context(), req.Topic)
	if err != nil {
		log.Printf("❌ Campaign generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleFullCampaign runs the complete pipeline, optionally queueing the
// results for publishing.
func (h *EngineHandler) HandleFullCampaign(c *gin.Context) {
	var req api.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}
	result, err := h.crew.RunFull(c.Request.Context(), req.Topic, req.Publish)
	if err != nil {
		log.Printf("❌ Full campaign failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleResearch runs just the research agent.
func (h *EngineHandler) HandleResearch(c *gin.Context) {
	var req api.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}
	result, err := h.crew.RunResearchOnly(c.Request.Context(), req.Topic)
	if err != nil {
		log.Printf("❌ Research failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": result.Topic, "research": result.FinalOutput, "metrics": result.Metrics})
}

// HandleListCampaigns pages through stored campaigns.
func (h *EngineHandler) HandleListCampaigns(c *gin.Context) {
	if h.campaigns == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campaign storage is not configured"})
		return
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	campaigns, total, err := h.campaigns.List((page-1)*limit, limit, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns, "total": total, "page": page})
}

// HandleGetCampaign returns one campaign with its publish records.
func (h *EngineHandler) HandleGetCampaign(c *gin.Context) {
	if h.campaigns == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "campaign storage is not configured"})
		return
	}
	campaign, err := h.campaigns.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if campaign == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}
	var records []*store.PublishRecord
	if h.records != nil {
		if records, err = h.records.ListByCampaign(campaign.ID); err != nil {
			log.Printf("⚠️ Failed to load publish records for %s: %v", campaign.ID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign, "publish_records": records})
}

// HandleTrendingFeed serves the merged AI news feed, cache first.
func (h *EngineHandler) HandleTrendingFeed(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 12)

	var feed *trending.FeedPage
	if c.Query("refresh") != "true" {
		feed = h.trendCache.GetFeed(c.Request.Context(), page, perPage)
	}
	if feed == nil {
		feed = h.fetcher.FetchAll(c.Request.Context(), page, perPage)
		h.trendCache.SetFeed(c.Request.Context(), page, perPage, feed)
		h.recordTopics(feed.Topics)
	}
	c.JSON(http.StatusOK, feed)
}

// recordTopics persists feed items so the analytics agent can suggest from
// topic history. Failures only log.
func (h *EngineHandler) recordTopics(items []trending.FeedItem) {
	if h.topics == nil {
		return
	}
	for _, item := range items {
		score := 0
		if item.Score != nil {
			score = *item.Score
		}
		t := &store.Topic{
			Source:   item.Source,
			Title:    item.Title,
			URL:      item.URL,
			Category: item.Category,
			Score:    score,
		}
		if err := h.topics.Upsert(t); err != nil {
			log.Printf("⚠️ Failed to record topic %q: %v", item.Title, err)
			continue
		}
	}
}

// HandleTrendingShorts rewrites the current feed into Shorts ideas.
func (h *EngineHandler) HandleTrendingShorts(c *gin.Context) {
	ctx := c.Request.Context()
	feed := h.trendCache.GetFeed(ctx, 1, 40)
	if feed == nil {
		feed = h.fetcher.FetchAll(ctx, 1, 40)
		h.trendCache.SetFeed(ctx, 1, 40, feed)
	}

	fingerprint := trending.Fingerprint(feed.Topics)
	ideas := h.trendCache.GetShorts(ctx, fingerprint)
	if ideas == nil {
		ideas = h.rewriter.Rewrite(ctx, feed.Topics, queryInt(c, "max", 12))
		h.trendCache.SetShorts(ctx, fingerprint, ideas)
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas, "total": len(ideas)})
}

// HandleTrendingVideos serves fresh video tweets from the tracked AI
// accounts.
func (h *EngineHandler) HandleTrendingVideos(c *gin.Context) {
	tweets := h.scanner.FetchVideoTweets(c.Request.Context(), queryInt(c, "max", 20), queryInt(c, "hours", 72))
	c.JSON(http.StatusOK, gin.H{"tweets": tweets, "total": len(tweets)})
}

// HandleVideoSearch finds b-roll candidates for a topic.
func (h *EngineHandler) HandleVideoSearch(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic query parameter is required"})
		return
	}
	results, err := h.researcher.SmartSearch(c.Request.Context(), topic, queryInt(c, "max", 12))
	if err != nil {
		if errors.Is(err, video.ErrYTDLPNotFound) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

// HandleVideoSelect downloads the chosen clip and re-hosts it. The result
// always comes back 200; failures are described inside it.
func (h *EngineHandler) HandleVideoSelect(c *gin.Context) {
	var req api.VideoSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	c.JSON(http.StatusOK, h.researcher.SelectAndHost(c.Request.Context(), req.URL))
}

// HandleAnalytics reports per-platform publishing health; with a
// campaign_id it also runs the analytics agent over that campaign.
func (h *EngineHandler) HandleAnalytics(c *gin.Context) {
	ctx := c.Request.Context()
	profiles := h.profiler.Snapshot(ctx, agents.PublishOrder)
	response := gin.H{"profiles": profiles}

	if campaignID := c.Query("campaign_id"); campaignID != "" && h.records != nil {
		records, err := h.records.ListByCampaign(campaignID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response["publish_records"] = records

		report, err := h.crew.AnalyzeCampaign(ctx, analyticsInput(campaignID, records, profiles))
		if err != nil {
			log.Printf("❌ Analytics agent failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response["report"] = report.Output
	}
	c.JSON(http.StatusOK, response)
}

// HandleSchedule lists the recurring campaign jobs.
func (h *EngineHandler) HandleSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.sched.Jobs()})
}

// analyticsInput serializes a campaign's publish records and the platform
// profiles into the analytics agent's prompt payload.
func analyticsInput(campaignID string, records []*store.PublishRecord, profiles []*analytics.PlatformProfile) string {
	payload := map[string]interface{}{
		"campaign_id":       campaignID,
		"publish_records":   records,
		"platform_profiles": profiles,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("campaign %s (no structured data available)", campaignID)
	}
	return string(data)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
