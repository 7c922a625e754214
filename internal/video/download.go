// In file: internal/video/download.go
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const maxVideoSizeMB = 100

// downloadedFile is the local artifact from a successful yt-dlp run.
type downloadedFile struct {
	path     string
	filename string
	sizeMB   float64
	tmpDir   string
}

// download pulls a video into a temp directory with yt-dlp: mp4 at 720p or
// below when available, hard size cap, iOS player client to get past
// YouTube's bot detection on server IPs.
func (r *Researcher) download(ctx context.Context, url string) (*downloadedFile, error) {
	tmpDir, err := os.MkdirTemp("", "ajvideo_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	outputTemplate := filepath.Join(tmpDir, "%(title).50s.%(ext)s")

	ctx, cancel := context.WithTimeout(ctx, ytDownloadTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.ytdlpPath,
		"--extractor-args", "youtube:player_client=ios,web",
		"--format", "best[height<=720][ext=mp4]/best[height<=720]/best",
		"--merge-output-format", "mp4",
		"--max-filesize", fmt.Sprintf("%dM", maxVideoSizeMB),
		"--socket-timeout", "30",
		"--no-playlist",
		"--no-warnings",
		"--no-check-certificates",
		"--geo-bypass",
		"--add-header", "Accept-Language:en-US,en;q=0.9",
		"--output", outputTemplate,
		url,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmpDir)
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrYTDLPNotFound
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("video download timed out for: %s", url)
		}
		return nil, &downloadError{detail: truncate(stderr.String(), 800)}
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to list download dir: %w", err)
	}
	var downloaded string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".mp4") || strings.HasSuffix(name, ".webm") ||
			strings.HasSuffix(name, ".mov") || strings.HasSuffix(name, ".mkv") {
			downloaded = filepath.Join(tmpDir, name)
			break
		}
	}
	if downloaded == "" {
		os.RemoveAll(tmpDir)
		return nil, errors.New("no video file found after download")
	}

	info, err := os.Stat(downloaded)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to stat downloaded file: %w", err)
	}
	return &downloadedFile{
		path:     downloaded,
		filename: filepath.Base(downloaded),
		sizeMB:   float64(info.Size()) / (1024 * 1024),
		tmpDir:   tmpDir,
	}, nil
}

// downloadError wraps a failed yt-dlp run's stderr so SelectAndHost can map
// it to a user-facing message.
type downloadError struct {
	detail string
}

func (e *downloadError) Error() string {
	return "yt-dlp download failed: " + e.detail
}

// SelectAndHost downloads the chosen clip and re-hosts it on Supabase
// Storage. Failures surface as descriptive errors in the result rather than
// a Go error: the caller always gets a HostResult it can show the user.
func (r *Researcher) SelectAndHost(ctx context.Context, videoURL string) *HostResult {
	result := &HostResult{Status: "error"}

	dl, err := r.download(ctx, videoURL)
	if err != nil {
		var dlErr *downloadError
		switch {
		case errors.As(err, &dlErr):
			result.Error = mapDownloadError(dlErr.detail)
		case errors.Is(err, ErrYTDLPNotFound):
			result.Error = ErrYTDLPNotFound.Error()
		default:
			result.Error = "Download failed: yt-dlp returned no output. Check server logs."
			log.Printf("❌ Video download error: %v", err)
		}
		return result
	}
	defer os.RemoveAll(dl.tmpDir)

	result.LocalFile = dl.filename
	result.SizeMB = dl.sizeMB

	if r.storage == nil {
		result.Status = "downloaded"
		result.Error = "Upload skipped: Supabase storage is not configured. Video was downloaded successfully."
		return result
	}

	data, err := os.ReadFile(dl.path)
	if err != nil {
		result.Status = "downloaded"
		result.Error = fmt.Sprintf("Failed to read downloaded file: %v", err)
		return result
	}
	publicURL, err := r.storage.Upload(ctx, data, dl.filename, "video/mp4")
	if err != nil {
		log.Printf("❌ Supabase upload error: %v", err)
		result.Status = "downloaded"
		result.Error = "Upload to Supabase failed, check credentials. Video was downloaded successfully."
		return result
	}
	result.Status = "success"
	result.SupabaseURL = publicURL
	return result
}

// mapDownloadError turns raw yt-dlp stderr into a message the dashboard can
// show verbatim.
func mapDownloadError(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(raw, "Sign in") || strings.Contains(lower, "bot"):
		return "YouTube blocked the download (bot detection). Try a different video or a direct MP4 URL."
	case strings.Contains(raw, "This video is not available") || strings.Contains(lower, "unavailable"):
		return "Video is unavailable or geo-restricted in the server's region."
	case strings.Contains(raw, "File is larger") || strings.Contains(lower, "filesize"):
		return fmt.Sprintf("Video exceeds %dMB size limit.", maxVideoSizeMB)
	}
	return "Download failed: " + truncate(raw, 300)
}
