package sites

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

const codeStudioContainer = "div.data"

var (
	codeStudioItems  = matcher("div.data div")
	codeStudioCoding = regexp.MustCompile(`Coding\s*\((\d+)\)`)
)

// CodeStudio reads "Coding (<n>)" from the stats panel.
type CodeStudio struct{ r *runner }

func (CodeStudio) Site() models.Site { return models.SiteCodeStudio }

func (a CodeStudio) Count(ctx context.Context, url string) int {
	return scrape(ctx, a.r, a.Site(), url, 0, func(ctx context.Context, s *scraper.Session) (int, error) {
		raw, err := a.r.polledHTML(ctx, s, codeStudioContainer)
		if err != nil {
			return 0, err
		}
		return parseCodeStudio(raw)
	})
}

// parseCodeStudio returns the first "Coding (<n>)" match, or 0.
func parseCodeStudio(raw string) (int, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return 0, err
	}

	count := 0
	doc.FindMatcher(codeStudioItems).EachWithBreak(func(_ int, div *goquery.Selection) bool {
		m := codeStudioCoding.FindStringSubmatch(strings.TrimSpace(div.Text()))
		if m == nil {
			return true
		}
		count, _ = strconv.Atoi(m[1])
		return false
	})
	return count, nil
}
