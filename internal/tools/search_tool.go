// In file: internal/tools/search_tool.go
package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// --- Web Search Tool Implementation ---

const defaultSerperSearchURL = "https://google.serper.dev/search"

// SearchTool lets the research agent query Google via the Serper API.
// To use this tool you need an API key from https://serper.dev
type SearchTool struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// Statically verify that SearchTool implements the ToolExecutor interface.
var _ ToolExecutor = (*SearchTool)(nil)

// NewSearchTool creates a new instance of the SearchTool with a dedicated
// HTTP client and timeout for the external Serper service.
func NewSearchTool(apiKey string) (*SearchTool, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("serper API key cannot be empty")
	}
	return &SearchTool{
		apiKey: apiKey,
		apiURL: defaultSerperSearchURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// Definition describes the tool to the LLM using our type-safe structures.
func (st *SearchTool) Definition() Tool {
	return NewFunctionTool(
		"search_web",
		"Searches the web via Google for current information, news, statistics, and sources on any topic. Returns titles, links, and snippets of the top results.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"query": {
					Type:        "string",
					Description: "The search query, e.g. 'AI agents replacing SaaS statistics 2026'.",
				},
			},
			Required: []string{"query"},
		},
	)
}

// Execute runs the search, parses the response, and formats the results into
// a clean summary for the LLM.
func (st *SearchTool) Execute(arguments string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for search tool: %w", err)
	}
	if args.Query == "" {
		return "", fmt.Errorf("search tool requires a non-empty query")
	}

	payload, err := json.Marshal(map[string]interface{}{"q": args.Query, "num": 8})
	if err != nil {
		return "", fmt.Errorf("failed to marshal search payload: %w", err)
	}

	req, err := http.NewRequest("POST", st.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", st.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := st.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call serper API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error: search API returned status %d. Check the query or API key.", resp.StatusCode), nil
	}

	var apiResp struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Date    string `json:"date"`
		} `json:"organic"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read serper response: %w", err)
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse serper JSON response: %w", err)
	}

	if len(apiResp.Organic) == 0 {
		return "No search results found for the given query.", nil
	}

	var resultBuilder strings.Builder
	resultBuilder.WriteString(fmt.Sprintf("Top %d search results:\n", len(apiResp.Organic)))
	for i, r := range apiResp.Organic {
		resultBuilder.WriteString(fmt.Sprintf("%d. %s\n   %s\n   Source: %s", i+1, r.Title, r.Snippet, r.Link))
		if r.Date != "" {
			resultBuilder.WriteString(fmt.Sprintf(" (%s)", r.Date))
		}
		resultBuilder.WriteString("\n")
	}
	return resultBuilder.String(), nil
}
