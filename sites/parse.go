package sites

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/solvetrack/models"
)

var (
	leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)
	digitsRe     = regexp.MustCompile(`\d+`)
)

// parseLeadingInt reads the integer at the start of s, ignoring surrounding
// whitespace and any trailing text. Negative values clamp to 0.
func parseLeadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	m := leadingIntRe.FindString(s)
	if m == "" {
		return 0, models.NewScrapeError(models.ErrCodeExtraction, fmt.Sprintf("no number in %q", s), nil)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, models.NewScrapeError(models.ErrCodeExtraction, fmt.Sprintf("bad number %q", m), err)
	}
	return max(n, 0), nil
}

// firstInt returns the first run of digits in s.
func firstInt(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
