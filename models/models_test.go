package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemEntryJSON(t *testing.T) {
	list := QuestionList{
		TotalQuestions: "250",
		Result: []ProblemEntry{
			{Label: "Two Sum", URL: "https://leetcode.com/problems/two-sum", Status: 1},
			{URL: "https://example.com/p", Status: 0},
		},
	}

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"totalQuestions": "250",
		"result": [
			{"Two Sum": "https://leetcode.com/problems/two-sum", "status": 1},
			{"Unknown": "https://example.com/p", "status": 0}
		]
	}`, string(data))

	var back QuestionList
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Two Sum", back.Result[0].Label)
	assert.Equal(t, "Unknown", back.Result[1].Label)
	assert.Equal(t, 1, back.SolvedCount())
}

func TestProblemEntryStatusLabel(t *testing.T) {
	data, err := json.Marshal(ProblemEntry{Label: "status", URL: "https://x", Status: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Unknown": "https://x", "status": 1}`, string(data))

	var back ProblemEntry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ProblemEntry{Label: UnknownLabel, URL: "https://x", Status: 1}, back)
}

func TestEmptyQuestionList(t *testing.T) {
	data, err := json.Marshal(EmptyQuestionList())
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalQuestions":"0","result":[]}`, string(data))
}

func TestParseSite(t *testing.T) {
	s, err := ParseSite(" LeetCode ")
	require.NoError(t, err)
	assert.Equal(t, SiteLeetCode, s)

	_, err = ParseSite("hackerrank")
	var se *ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrCodeInvalidInput, se.Code)
}

func TestCountedSitesExcludeCodolio(t *testing.T) {
	assert.Len(t, CountedSites, 6)
	assert.NotContains(t, CountedSites, SiteCodolio)
}

func TestCountedSitesDoNotAliasAllSites(t *testing.T) {
	grown := append(CountedSites, Site("hackerrank"))

	assert.Len(t, grown, 7)
	assert.Equal(t, SiteCodolio, AllSites[6])
}

func TestScrapeErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewScrapeError(ErrCodeNavigation, "goto failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NAVIGATION_FAILED: goto failed: boom", err.Error())
	assert.Equal(t, &ErrorDetail{Code: ErrCodeNavigation, Message: "goto failed"}, err.ToDetail())
}

func TestRunResponses(t *testing.T) {
	ok := NewRunSuccess(4, 3)
	assert.Equal(t, 200, ok.StatusCode)
	assert.Equal(t, 4, ok.Body.ProfilesProcessed)

	bad := NewRunFailure(errors.New("db down"))
	assert.Equal(t, 500, bad.StatusCode)
	assert.Equal(t, "db down", bad.Body.Error)
}
