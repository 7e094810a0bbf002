package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

const (
	ibGoal          = ".profile-daily-goal__goal"
	ibProblemsTitle = "Problems"
)

var (
	ibGoals   = matcher(ibGoal)
	ibTitle   = matcher(".profile-daily-goal__goal-title")
	ibDetails = matcher(".profile-daily-goal__goal-details")
	ibIcon    = matcher("div.profile-daily-goal__goal-icon")
)

// InterviewBit reads the "Problems" daily-goal tile.
type InterviewBit struct{ r *runner }

func (InterviewBit) Site() models.Site { return models.SiteInterviewBit }

func (a InterviewBit) Count(ctx context.Context, url string) int {
	return scrape(ctx, a.r, a.Site(), url, 0, func(ctx context.Context, s *scraper.Session) (int, error) {
		raw, err := a.r.polledHTML(ctx, s, ibGoal)
		if err != nil {
			return 0, err
		}
		return parseInterviewBit(raw)
	})
}

// parseInterviewBit drops the icon child from the details block before
// reading it, since the icon carries its own text.
func parseInterviewBit(raw string) (int, error) {
	doc, err := newDocument(raw)
	if err != nil {
		return 0, err
	}

	var (
		solved  int
		scanErr error
	)
	doc.FindMatcher(ibGoals).EachWithBreak(func(_ int, goal *goquery.Selection) bool {
		if strings.TrimSpace(goal.FindMatcher(ibTitle).Text()) != ibProblemsTitle {
			return true
		}
		details := goal.FindMatcher(ibDetails).Clone()
		details.ChildrenMatcher(ibIcon).Remove()
		solved, scanErr = parseLeadingInt(details.Text())
		return false
	})
	return solved, scanErr
}
