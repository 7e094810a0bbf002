package sites

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/solvetrack/models"
)

// Set bundles one adapter per site around shared collaborators.
type Set struct {
	leetCode      LeetCode
	codeStudio    CodeStudio
	geeksForGeeks GeeksForGeeks
	interviewBit  InterviewBit
	codeChef      CodeChef
	codeforces    Codeforces
	codolio       Codolio
}

// NewSet builds every adapter. listWait bounds the explicit wait for the
// Codolio question list.
func NewSet(opener Opener, poller Poller, listWait time.Duration) *Set {
	r := &runner{opener: opener, poller: poller, listWait: listWait}
	return &Set{
		leetCode:      LeetCode{r: r},
		codeStudio:    CodeStudio{r: r},
		geeksForGeeks: GeeksForGeeks{r: r},
		interviewBit:  InterviewBit{r: r},
		codeChef:      CodeChef{r: r},
		codeforces:    Codeforces{r: r},
		codolio:       Codolio{r: r},
	}
}

// Counters returns the counting adapters in models.CountedSites order.
func (s *Set) Counters() []Counter {
	return []Counter{s.leetCode, s.codeStudio, s.geeksForGeeks, s.interviewBit, s.codeChef, s.codeforces}
}

// Count runs the counting adapter for site. Codolio counts its solved
// entries. Unknown sites yield 0.
func (s *Set) Count(ctx context.Context, site models.Site, url string) int {
	switch site {
	case models.SiteLeetCode:
		return s.leetCode.Count(ctx, url)
	case models.SiteCodeStudio:
		return s.codeStudio.Count(ctx, url)
	case models.SiteGeeksForGeeks:
		return s.geeksForGeeks.Count(ctx, url)
	case models.SiteInterviewBit:
		return s.interviewBit.Count(ctx, url)
	case models.SiteCodeChef:
		return s.codeChef.Count(ctx, url)
	case models.SiteCodeforces:
		return s.codeforces.Count(ctx, url)
	case models.SiteCodolio:
		return s.codolio.Questions(ctx, url).SolvedCount()
	default:
		slog.Warn("no adapter for site", "site", site)
		return 0
	}
}

// Questions runs the Codolio adapter.
func (s *Set) Questions(ctx context.Context, url string) models.QuestionList {
	return s.codolio.Questions(ctx, url)
}
