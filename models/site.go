package models

import (
	"fmt"
	"strings"
)

// Site identifies one tracked coding-practice website.
type Site string

const (
	SiteLeetCode      Site = "leetcode"
	SiteCodeStudio    Site = "codestudio"
	SiteGeeksForGeeks Site = "geeksforgeeks"
	SiteInterviewBit  Site = "interviewbit"
	SiteCodeChef      Site = "codechef"
	SiteCodeforces    Site = "codeforces"
	SiteCodolio       Site = "codolio"
)

// AllSites lists every supported site in processing order.
var AllSites = []Site{
	SiteLeetCode,
	SiteCodeStudio,
	SiteGeeksForGeeks,
	SiteInterviewBit,
	SiteCodeChef,
	SiteCodeforces,
	SiteCodolio,
}

// CountedSites are the sites whose solved counts feed the running total.
// Codolio aggregates the others and is reported separately.
var CountedSites = AllSites[:6:6]

var siteNames = map[Site]string{
	SiteLeetCode:      "LeetCode",
	SiteCodeStudio:    "CodeStudio",
	SiteGeeksForGeeks: "GeeksforGeeks",
	SiteInterviewBit:  "InterviewBit",
	SiteCodeChef:      "CodeChef",
	SiteCodeforces:    "Codeforces",
	SiteCodolio:       "Codolio",
}

// DisplayName is the human readable site name used in reports.
func (s Site) DisplayName() string {
	if name, ok := siteNames[s]; ok {
		return name
	}
	return string(s)
}

// ParseSite resolves a site from its identifier, case-insensitively.
func ParseSite(raw string) (Site, error) {
	s := Site(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := siteNames[s]; !ok {
		return "", NewScrapeError(ErrCodeInvalidInput, fmt.Sprintf("unknown site %q", raw), nil)
	}
	return s, nil
}
