package sites

import (
	"context"
	"regexp"
	"strconv"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

// leetCodeSolvedRe matches the "<solved> / <total> Solved" progress label.
var leetCodeSolvedRe = regexp.MustCompile(`(\d+)\s*/\s*\d+\s*Solved`)

// LeetCode reads the solved counter from the profile's progress ring. The
// text is present on first render so no polling is needed.
type LeetCode struct{ r *runner }

func (LeetCode) Site() models.Site { return models.SiteLeetCode }

func (a LeetCode) Count(ctx context.Context, url string) int {
	return scrape(ctx, a.r, a.Site(), url, 0, func(ctx context.Context, s *scraper.Session) (int, error) {
		raw, err := pageHTML(ctx, s)
		if err != nil {
			return 0, err
		}
		return parseLeetCode(raw)
	})
}

func parseLeetCode(raw string) (int, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return 0, err
	}
	m := leetCodeSolvedRe.FindStringSubmatch(doc.Find("body").Text())
	if m == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, missing("solved count")
	}
	return n, nil
}
