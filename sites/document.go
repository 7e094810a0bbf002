package sites

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/solvetrack/models"
)

// newDocument parses rendered page markup.
func newDocument(raw string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to parse page HTML", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// matcher compiles a site selector once at package init.
func matcher(selector string) cascadia.Selector {
	return cascadia.MustCompile(selector)
}

func missing(what string) error {
	return models.NewScrapeError(models.ErrCodeExtraction, fmt.Sprintf("%s not found", what), nil)
}
