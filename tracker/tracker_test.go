package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/use-agent/solvetrack/config"
	"github.com/use-agent/solvetrack/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	profiles  []models.Profile
	listErr   error
	updateErr error
	updates   []models.CountUpdate
}

func (s *fakeStore) List(context.Context) ([]models.Profile, error) { return s.profiles, s.listErr }

func (s *fakeStore) Update(_ context.Context, u models.CountUpdate) error {
	s.updates = append(s.updates, u)
	return s.updateErr
}

type fakeFetcher struct {
	counts    map[string]int // keyed by URL
	questions models.QuestionList
	calls     []models.Site
	panicOn   string
}

func (f *fakeFetcher) Count(_ context.Context, site models.Site, url string) int {
	f.calls = append(f.calls, site)
	if url != "" && url == f.panicOn {
		panic("adapter bug")
	}
	return f.counts[url]
}

func (f *fakeFetcher) Questions(context.Context, string) models.QuestionList {
	f.calls = append(f.calls, models.SiteCodolio)
	return f.questions
}

type fakeNotifier struct {
	failFor map[string]bool
	sent    []models.Report
}

func (n *fakeNotifier) Notify(_ context.Context, r models.Report) error {
	if n.failFor[r.Email] {
		return errors.New("smtp down")
	}
	n.sent = append(n.sent, r)
	return nil
}

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testConfig() config.TrackerConfig {
	return config.TrackerConfig{DailyQuota: 3}
}

func TestOverdue(t *testing.T) {
	tests := []struct {
		name               string
		days, prev, sum    int
		wantDue, wantTotal int
	}{
		{"on track", 2, 100, 106, 0, 106},
		{"behind", 2, 100, 102, 4, 102},
		{"rescrape glitch keeps prev", 1, 100, 90, 3, 100},
		{"ahead never negative", 0, 10, 50, 0, 50},
		{"first check", 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, total := Overdue(tt.days, 3, tt.prev, tt.sum)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestOverdueNeverNegative(t *testing.T) {
	for days := 0; days < 10; days++ {
		for prev := 0; prev < 50; prev += 7 {
			for sum := 0; sum < 80; sum += 9 {
				due, total := Overdue(days, 3, prev, sum)
				assert.GreaterOrEqual(t, due, 0)
				assert.Equal(t, max(0, days*3+prev-max(sum, prev)), due)
				assert.Equal(t, max(sum, prev), total)
			}
		}
	}
}

func TestElapsedDays(t *testing.T) {
	assert.Equal(t, 0, ElapsedDays(nil, now))

	prev := now.Add(-47 * time.Hour)
	assert.Equal(t, 1, ElapsedDays(&prev, now))

	prev = now.Add(-72 * time.Hour)
	assert.Equal(t, 3, ElapsedDays(&prev, now))

	future := now.Add(time.Hour)
	assert.Equal(t, 0, ElapsedDays(&future, now))
}

func TestRun(t *testing.T) {
	prev := now.Add(-48 * time.Hour)
	store := &fakeStore{profiles: []models.Profile{
		{
			Email: "ana@example.com",
			Name:  "Ana",
			URLs: map[models.Site]string{
				models.SiteLeetCode:   "https://leetcode.com/u/ana",
				models.SiteCodeforces: "https://codeforces.com/profile/ana",
				models.SiteCodolio:    "https://codolio.com/profile/ana",
			},
			Counts:     map[models.Site]int{models.SiteLeetCode: 50, models.SiteCodeChef: 4},
			PrevRecord: 60,
			PrevDate:   &prev,
		},
		{Email: "bo@example.com"},
	}}
	fetcher := &fakeFetcher{
		counts: map[string]int{
			"https://leetcode.com/u/ana":         40, // lower than stored 50
			"https://codeforces.com/profile/ana": 8,
		},
		questions: models.QuestionList{TotalQuestions: "250", Result: []models.ProblemEntry{{Label: "A", Status: 1}}},
	}
	notifier := &fakeNotifier{}

	tr := New(store, fetcher, notifier, testConfig(), WithClock(func() time.Time { return now }))
	sum, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.ProfilesProcessed)
	assert.Equal(t, 2, sum.EmailsQueued)
	assert.Equal(t, 2, sum.EmailsSent)

	ana := sum.Reports[0]
	assert.Equal(t, 50, ana.Counts[models.SiteLeetCode], "stored count wins over a lower scrape")
	assert.Equal(t, 4, ana.Counts[models.SiteCodeChef])
	assert.Equal(t, 8, ana.Counts[models.SiteCodeforces])
	assert.Equal(t, 62, ana.Total)
	assert.Equal(t, 4, ana.Due) // 2 days * 3 + 60 - 62
	require.NotNil(t, ana.Questions)
	assert.Equal(t, "250", ana.Questions.TotalQuestions)

	bo := sum.Reports[1]
	assert.Equal(t, "Student", bo.Name)
	assert.Nil(t, bo.Questions)
	assert.Equal(t, 0, bo.Due)

	require.Len(t, store.updates, 2)
	assert.Equal(t, 60, store.updates[0].PrevRecord, "prev_record is persisted as read")
	assert.Equal(t, now, store.updates[0].PrevDate)
	assert.Equal(t, 50, store.updates[0].Counts[models.SiteLeetCode])

	assert.Equal(t, models.CountedSites, fetcher.calls[:6], "sites run in fixed order")
	assert.Equal(t, models.SiteCodolio, fetcher.calls[6])
	assert.Len(t, fetcher.calls, 13)
}

func TestRunContinuesPastFailures(t *testing.T) {
	store := &fakeStore{
		profiles: []models.Profile{
			{Email: "a@example.com", URLs: map[models.Site]string{models.SiteLeetCode: "https://boom"}},
			{Email: "b@example.com"},
			{Email: "c@example.com"},
		},
		updateErr: errors.New("db locked"),
	}
	fetcher := &fakeFetcher{panicOn: "https://boom"}
	notifier := &fakeNotifier{failFor: map[string]bool{"b@example.com": true}}

	sum, err := New(store, fetcher, notifier, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.ProfilesProcessed)
	assert.Equal(t, 2, sum.EmailsQueued, "panicking profile is skipped")
	assert.Equal(t, 1, sum.EmailsSent)
	assert.Equal(t, 1, sum.EmailsFailed)
	assert.Len(t, store.updates, 2, "update failures do not stop the loop")
}

func TestRunListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	resp := New(store, &fakeFetcher{}, &fakeNotifier{}, testConfig()).Handle(context.Background())

	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, resp.Body.Error, "connection refused")
}

func TestHandleSuccess(t *testing.T) {
	store := &fakeStore{profiles: []models.Profile{{Email: "a@example.com"}}}
	resp := New(store, &fakeFetcher{}, &fakeNotifier{}, testConfig()).Handle(context.Background())

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Records updated successfully", resp.Body.Message)
	assert.Equal(t, 1, resp.Body.ProfilesProcessed)
	assert.Equal(t, 1, resp.Body.EmailsSent)
}

func TestDryRun(t *testing.T) {
	store := &fakeStore{profiles: []models.Profile{{Email: "a@example.com"}}}
	notifier := &fakeNotifier{}

	sum, err := New(store, &fakeFetcher{}, notifier, testConfig(), WithDryRun(true)).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, sum.Reports, 1)
	assert.Empty(t, store.updates)
	assert.Empty(t, notifier.sent)
}

func TestNilNotifier(t *testing.T) {
	store := &fakeStore{profiles: []models.Profile{{Email: "a@example.com"}}}
	sum, err := New(store, &fakeFetcher{}, nil, testConfig()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.EmailsQueued)
	assert.Zero(t, sum.EmailsSent)
}

func TestRunThrottlesProfiles(t *testing.T) {
	store := &fakeStore{profiles: []models.Profile{{Email: "a@x.com"}, {Email: "b@x.com"}, {Email: "c@x.com"}}}
	cfg := config.TrackerConfig{DailyQuota: 3, ProfileDelay: 20 * time.Millisecond}

	start := time.Now()
	_, err := New(store, &fakeFetcher{}, nil, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestRunCanceled(t *testing.T) {
	store := &fakeStore{profiles: []models.Profile{{Email: "a@x.com"}, {Email: "b@x.com"}}}
	cfg := config.TrackerConfig{DailyQuota: 3, ProfileDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(store, &fakeFetcher{}, nil, cfg).Run(ctx)
	require.Error(t, err)
}
