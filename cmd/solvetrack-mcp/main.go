package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/solvetrack/models"
)

func main() {
	apiURL := os.Getenv("SOLVETRACK_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SOLVETRACK_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "SOLVETRACK_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"solvetrack",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	addTools(s, newAPIClient(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func addTools(s *server.MCPServer, client *resty.Client) {
	sites := make([]string, len(models.AllSites))
	for i, site := range models.AllSites {
		sites[i] = string(site)
	}

	fetchProfileTool := mcp.NewTool("fetch_profile",
		mcp.WithDescription("Read one coding profile through a headless browser and return its solved-problem count, or the tracked question list for Codolio."),
		mcp.WithString("site",
			mcp.Required(),
			mcp.Description("Site the profile lives on"),
			mcp.Enum(sites...),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Profile page URL on that site"),
		),
		mcp.WithNumber("max_age",
			mcp.Description("Accept a cached result younger than this many milliseconds (default: 0, always fetch)"),
		),
	)
	s.AddTool(fetchProfileTool, handleFetchProfile(client))

	runCheckTool := mcp.NewTool("run_check",
		mcp.WithDescription("Check every stored profile once, update the recorded counts and email each student a report. Takes several minutes."),
	)
	s.AddTool(runCheckTool, handleRunCheck(client))
}

// newAPIClient returns a resty client bound to the solvetrack HTTP API.
// A full run scrapes every profile sequentially, so the timeout is generous.
func newAPIClient(apiURL, apiKey string) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetHeader("X-API-Key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Minute)
}

func handleFetchProfile(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		site, err := request.RequireString("site")
		if err != nil {
			return mcp.NewToolResultError("site is required"), nil
		}
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		resp, err := client.R().
			SetContext(ctx).
			SetBody(models.FetchRequest{Site: site, URL: url, MaxAge: request.GetInt("max_age", 0)}).
			Post("/api/v1/fetch")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		var fetchResp models.FetchResponse
		if err := json.Unmarshal(resp.Body(), &fetchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !fetchResp.Success {
			return mcp.NewToolResultError(errorText(fetchResp.Error, "fetch failed")), nil
		}

		return mcp.NewToolResultText(formatFetch(&fetchResp)), nil
	}
}

func handleRunCheck(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := client.R().SetContext(ctx).Post("/api/v1/run")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		// 409, 401 and 429 come back as an ErrorResponse, anything else as
		// a RunResponse.
		switch resp.StatusCode() {
		case http.StatusConflict, http.StatusUnauthorized, http.StatusTooManyRequests:
			var errResp models.ErrorResponse
			if err := json.Unmarshal(resp.Body(), &errResp); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
			}
			return mcp.NewToolResultError(errorText(errResp.Error, "run rejected")), nil
		}

		var runResp models.RunResponse
		if err := json.Unmarshal(resp.Body(), &runResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if runResp.StatusCode != http.StatusOK {
			return mcp.NewToolResultError("run failed: " + runResp.Body.Error), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%s\nProfiles processed: %d\nEmails sent: %d",
			runResp.Body.Message, runResp.Body.ProfilesProcessed, runResp.Body.EmailsSent)), nil
	}
}

func formatFetch(r *models.FetchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Site: %s\nSource: %s\n", r.Site.DisplayName(), r.URL)
	if r.CacheStatus != "" {
		fmt.Fprintf(&b, "Cache: %s\n", r.CacheStatus)
	}
	b.WriteString("\n")

	if r.Count != nil {
		fmt.Fprintf(&b, "Solved: %d", *r.Count)
	}
	if q := r.Questions; q != nil {
		fmt.Fprintf(&b, "Solved %d of %s tracked questions", q.SolvedCount(), q.TotalQuestions)
		for _, e := range q.Result {
			mark := " "
			if e.Solved() {
				mark = "x"
			}
			fmt.Fprintf(&b, "\n- [%s] %s %s", mark, e.Label, e.URL)
		}
	}
	return b.String()
}

func errorText(detail *models.ErrorDetail, fallback string) string {
	if detail == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", detail.Code, detail.Message)
}
