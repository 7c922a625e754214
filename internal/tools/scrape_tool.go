// In file: internal/tools/scrape_tool.go
package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// --- Website Scrape Tool Implementation ---

// scrapeMaxChars caps how much page text is returned to the LLM. Research
// sources can be very long and the agent only needs the substance.
const scrapeMaxChars = 6000

var (
	scriptStyleRegex = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	htmlTagRegex     = regexp.MustCompile(`(?s)<[^>]+>`)
	whitespaceRegex  = regexp.MustCompile(`[ \t]+`)
	blankLinesRegex  = regexp.MustCompile(`\n{3,}`)
)

// ScrapeTool fetches a web page and returns its visible text so the
// research agent can read a source it found via search.
type ScrapeTool struct {
	httpClient *http.Client
}

var _ ToolExecutor = (*ScrapeTool)(nil)

func NewScrapeTool() *ScrapeTool {
	return &ScrapeTool{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Definition describes the tool to the LLM.
func (sc *ScrapeTool) Definition() Tool {
	return NewFunctionTool(
		"scrape_website",
		"Fetches the text content of a web page at the given URL. Use this to read an article or source found via search_web.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"url": {
					Type:        "string",
					Description: "The full http(s) URL of the page to read.",
				},
			},
			Required: []string{"url"},
		},
	)
}

// Execute fetches the page and strips markup down to readable text.
func (sc *ScrapeTool) Execute(arguments string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for scrape tool: %w", err)
	}

	parsed, err := url.Parse(args.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("scrape tool requires a valid http(s) URL, got %q", args.URL)
	}

	req, err := http.NewRequest("GET", args.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create scrape request: %w", err)
	}
	req.Header.Set("User-Agent", "ContentEngine/1.0")

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error: page returned status %d.", resp.StatusCode), nil
	}

	// Read at most 1 MB; anything beyond that is not article text.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	text := ExtractVisibleText(string(body))
	if text == "" {
		return "The page contained no readable text.", nil
	}
	if len(text) > scrapeMaxChars {
		text = text[:scrapeMaxChars] + "\n[truncated]"
	}
	return text, nil
}

// ExtractVisibleText strips scripts, styles, and tags from an HTML document
// and normalizes the remaining whitespace.
func ExtractVisibleText(html string) string {
	text := scriptStyleRegex.ReplaceAllString(html, " ")
	text = htmlTagRegex.ReplaceAllString(text, "\n")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	text = strings.Join(kept, "\n")
	return blankLinesRegex.ReplaceAllString(text, "\n\n")
}
