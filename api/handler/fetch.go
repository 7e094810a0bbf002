package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/solvetrack/cache"
	"github.com/use-agent/solvetrack/models"
)

// Fetcher runs a single site adapter.
type Fetcher interface {
	Count(ctx context.Context, site models.Site, url string) int
	Questions(ctx context.Context, url string) models.QuestionList
}

// Fetch returns a handler for POST /api/v1/fetch.
//
// Orchestration flow:
//  1. Parse & validate request.
//  2. Serve from cache when max_age allows.
//  3. Claim the gate so only one browser runs at a time.
//  4. Run the adapter; adapters never fail, so the response is always 200.
func Fetch(f Fetcher, gate *Gate, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.FetchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		site, err := models.ParseSite(req.Site)
		if err != nil {
			respondError(c, err)
			return
		}

		// ── 2. Cache lookup ────────────────────────────────────────
		key := cache.Key(site, req.URL)
		maxAge := time.Duration(req.MaxAge) * time.Millisecond
		if cc != nil {
			if cached, hit := cc.Get(key, maxAge); hit {
				cached.CacheStatus = "hit"
				cached.TotalMs = time.Since(start).Milliseconds()
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		// ── 3. Gate ────────────────────────────────────────────────
		if !gate.TryAcquire() {
			respondError(c, errBusy)
			return
		}
		defer gate.Release()

		// ── 4. Run adapter ─────────────────────────────────────────
		resp := &models.FetchResponse{Success: true, Site: site, URL: req.URL}
		if site == models.SiteCodolio {
			q := f.Questions(c.Request.Context(), req.URL)
			resp.Questions = &q
		} else {
			n := f.Count(c.Request.Context(), site, req.URL)
			resp.Count = &n
		}

		if cc != nil && req.MaxAge > 0 {
			resp.CacheStatus = "miss"
			if !isFallback(resp) && c.Request.Context().Err() == nil {
				cc.Set(key, resp)
			}
		}
		resp.TotalMs = time.Since(start).Milliseconds()
		c.JSON(http.StatusOK, resp)
	}
}

// isFallback reports whether resp carries the adapter default, which is
// indistinguishable from a failed scrape and must not be cached.
func isFallback(resp *models.FetchResponse) bool {
	if resp.Questions != nil {
		return len(resp.Questions.Result) == 0 && resp.Questions.TotalQuestions == models.EmptyQuestionList().TotalQuestions
	}
	return resp.Count == nil || *resp.Count == 0
}
