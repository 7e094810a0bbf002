package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

const (
	gfgScoreCard   = ".scoreCard_head__nxXR8"
	gfgSolvedLabel = "Problem Solved"
)

var (
	gfgScoreCards = matcher(gfgScoreCard)
	gfgLabel      = matcher(".scoreCard_head_left--text__KZ2S1")
	gfgScore      = matcher(".scoreCard_head_left--score__oSi_x")
)

// GeeksForGeeks reads the "Problem Solved" score card.
type GeeksForGeeks struct{ r *runner }

func (GeeksForGeeks) Site() models.Site { return models.SiteGeeksForGeeks }

func (a GeeksForGeeks) Count(ctx context.Context, url string) int {
	return scrape(ctx, a.r, a.Site(), url, 0, func(ctx context.Context, s *scraper.Session) (int, error) {
		raw, err := a.r.polledHTML(ctx, s, gfgScoreCard)
		if err != nil {
			return 0, err
		}
		return parseGeeksForGeeks(raw)
	})
}

func parseGeeksForGeeks(raw string) (int, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return 0, err
	}

	var (
		solved  int
		scanErr error
	)
	doc.FindMatcher(gfgScoreCards).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		label := strings.TrimSpace(card.FindMatcher(gfgLabel).Text())
		if label != gfgSolvedLabel {
			return true
		}
		solved, scanErr = parseLeadingInt(card.FindMatcher(gfgScore).Text())
		return false
	})
	return solved, scanErr
}
