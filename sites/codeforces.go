package sites

import (
	"context"
	"log/slog"
	"strings"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

var codeforcesCounter = matcher("._UserActivityFrame_counterValue")

// Codeforces reads the first activity counter, which is the solved total.
type Codeforces struct{ r *runner }

func (Codeforces) Site() models.Site { return models.SiteCodeforces }

func (a Codeforces) Count(ctx context.Context, url string) int {
	return scrape(ctx, a.r, a.Site(), url, 0, func(ctx context.Context, s *scraper.Session) (int, error) {
		raw, err := pageHTML(ctx, s)
		if err != nil {
			return 0, err
		}
		return parseCodeforces(raw)
	})
}

// parseCodeforces tolerates a missing counter: accounts without activity
// do not render one.
func parseCodeforces(raw string) (int, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return 0, err
	}

	counter := doc.FindMatcher(codeforcesCounter).First()
	if counter.Length() == 0 {
		slog.Warn("codeforces counter element not found")
		return 0, nil
	}
	n, _ := firstInt(strings.TrimSpace(counter.Text()))
	return n, nil
}
