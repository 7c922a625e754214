// In file: internal/video/types.go

// Package video finds, downloads, and hosts B-roll clips for Shorts
// production. Search prefers demos, tutorials, and official product clips
// over TV news coverage; selected clips are pulled with yt-dlp and uploaded
// to Supabase Storage for permanent hosting.
package video

// Result is one candidate video from a search.
type Result struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Platform    string `json:"platform"`
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Duration    int    `json:"duration"`
	DurationStr string `json:"duration_str"`
	Channel     string `json:"channel"`
	Views       int    `json:"views"`
	ViewsStr    string `json:"views_str,omitempty"`
	UploadDate  string `json:"upload_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// HostResult reports the outcome of downloading and re-hosting a clip.
// Status is "success" when the clip is hosted, "downloaded" when the
// download worked but the upload did not, and "error" otherwise.
type HostResult struct {
	Status      string  `json:"status"`
	SupabaseURL string  `json:"supabase_url,omitempty"`
	LocalFile   string  `json:"local_file,omitempty"`
	SizeMB      float64 `json:"size_mb,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Tweet is a tweet from a tracked AI account that carries a native video.
type Tweet struct {
	TweetID          string `json:"tweet_id"`
	Title            string `json:"title"`
	FullText         string `json:"full_text"`
	URL              string `json:"url"`
	VideoURL         string `json:"video_url"`
	VideoThumbnail   string `json:"video_thumbnail,omitempty"`
	VideoDuration    int    `json:"video_duration"`
	VideoDurationStr string `json:"video_duration_str"`
	Author           string `json:"author"`
	Username         string `json:"username"`
	Avatar           string `json:"avatar,omitempty"`
	Verified         bool   `json:"verified"`
	Tier             string `json:"tier"`
	Likes            int    `json:"likes"`
	Retweets         int    `json:"retweets"`
	Views            int    `json:"views"`
	Engagement       int    `json:"engagement"`
	TimeAgo          string `json:"time_ago"`
	Source           string `json:"source"`
	SourceName       string `json:"source_name"`
	Category         string `json:"category"`
}
