package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

const codolioList = "ul.flex.mt-2.gap-2.flex-col.w-full.pl-4.mb-2"

var (
	codolioTotal  = matcher("#total_questions span.text-5xl")
	codolioItems  = matcher("li.flex.flex-col.round-border")
	codolioLabel  = matcher("span.font-semibold.tracking-wide")
	codolioLink   = matcher(`a[href^="http"]`)
	codolioSolved = matcher("svg.text-green-500")
)

// Codolio reads the aggregated question list: the total question count and
// one entry per listed problem with its solved marker.
type Codolio struct{ r *runner }

func (Codolio) Site() models.Site { return models.SiteCodolio }

// Questions extracts in two stages. The total is read as soon as the page
// settles; the list renders later and is waited for explicitly.
func (a Codolio) Questions(ctx context.Context, url string) models.QuestionList {
	return scrape(ctx, a.r, a.Site(), url, models.EmptyQuestionList(),
		func(ctx context.Context, s *scraper.Session) (models.QuestionList, error) {
			raw, err := pageHTML(ctx, s)
			if err != nil {
				return models.QuestionList{}, err
			}
			total, err := parseCodolioTotal(raw)
			if err != nil {
				return models.QuestionList{}, err
			}

			if err := s.WaitElement(ctx, codolioList, a.r.listWait); err != nil {
				return models.QuestionList{}, models.NewScrapeError(
					models.ErrCodeSelectorNotFound, "question list never appeared", err)
			}

			raw, err = pageHTML(ctx, s)
			if err != nil {
				return models.QuestionList{}, err
			}
			entries, err := parseCodolioEntries(raw)
			if err != nil {
				return models.QuestionList{}, err
			}
			return models.QuestionList{TotalQuestions: total, Result: entries}, nil
		})
}

func parseCodolioTotal(raw string) (string, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return "", err
	}
	node := doc.FindMatcher(codolioTotal).First()
	if node.Length() == 0 {
		return "", missing("total questions")
	}
	return strings.TrimSpace(node.Text()), nil
}

func parseCodolioEntries(raw string) ([]models.ProblemEntry, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return nil, err
	}

	items := doc.FindMatcher(codolioItems)
	entries := make([]models.ProblemEntry, 0, items.Length())
	items.Each(func(_ int, li *goquery.Selection) {
		e := models.ProblemEntry{
			Label: strings.TrimSpace(li.FindMatcher(codolioLabel).First().Text()),
		}
		if e.Label == "" {
			e.Label = models.UnknownLabel
		}
		if href, ok := li.FindMatcher(codolioLink).First().Attr("href"); ok {
			e.URL = href
		}
		if li.FindMatcher(codolioSolved).Length() > 0 {
			e.Status = 1
		}
		entries = append(entries, e)
	})
	return entries, nil
}
