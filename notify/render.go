// Package notify delivers per-profile status reports.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/use-agent/solvetrack/models"
)

// Subject is the subject line of every report email.
const Subject = "Your Coding Profile Status - Action Required for Placement Success"

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Notifier delivers one report.
type Notifier interface {
	Notify(ctx context.Context, r models.Report) error
}

// Renderer turns reports into HTML email bodies.
type Renderer struct {
	DailyQuota int
}

type siteRow struct {
	Name  string
	Count int
}

type reportView struct {
	Name       string
	Due        int
	Total      int
	DailyQuota int
	Sites      []siteRow
	Questions  *models.QuestionList
}

// Render executes the report template.
func (rd Renderer) Render(r models.Report) (string, error) {
	view := reportView{
		Name:       r.Name,
		Due:        r.Due,
		Total:      r.Total,
		DailyQuota: rd.DailyQuota,
		Questions:  r.Questions,
	}
	if view.Name == "" {
		view.Name = "Student"
	}
	for _, site := range models.CountedSites {
		view.Sites = append(view.Sites, siteRow{Name: site.DisplayName(), Count: r.Counts[site]})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report for %s: %w", r.Email, err)
	}
	return buf.String(), nil
}
