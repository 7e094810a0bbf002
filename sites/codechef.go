package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

const (
	codeChefSection     = ".rating-data-section.problems-solved"
	codeChefTotalMarker = "Total Problems Solved"
)

var (
	codeChefSections = matcher(codeChefSection)
	codeChefHeadings = matcher("h3")
)

// CodeChef reads the "Total Problems Solved" heading.
type CodeChef struct{ r *runner }

func (CodeChef) Site() models.Site { return models.SiteCodeChef }

func (a CodeChef) Count(ctx context.Context, url string) int {
	return scrape(ctx, a.r, a.Site(), url, 0, func(ctx context.Context, s *scraper.Session) (int, error) {
		raw, err := a.r.polledHTML(ctx, s, codeChefSection)
		if err != nil {
			return 0, err
		}
		return parseCodeChef(raw)
	})
}

func parseCodeChef(raw string) (int, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return 0, err
	}

	section := doc.FindMatcher(codeChefSections).First()
	if section.Length() == 0 {
		return 0, nil
	}

	total := 0
	section.FindMatcher(codeChefHeadings).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := h.Text()
		if !strings.Contains(text, codeChefTotalMarker) {
			return true
		}
		total, _ = firstInt(text)
		return false
	})
	return total, nil
}
