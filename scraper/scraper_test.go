package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/solvetrack/config"
	"github.com/use-agent/solvetrack/models"
)

func testManager(d Driver, rec *recordingSleep, getenv func(string) string) *Manager {
	cfg := config.Load()
	return NewManager(d, cfg.Browser, cfg.Scraper, WithSleep(rec.sleep), WithGetenv(getenv))
}

func noEnv(string) string { return "" }

func TestSafeGotoNewPageSucceedsFirstTry(t *testing.T) {
	page := &fakePage{html: "<p>ok</p>"}
	d := &fakeDriver{next: func(int) (*fakeBrowser, error) { return &fakeBrowser{page: page}, nil }}
	rec := &recordingSleep{}

	s, err := testManager(d, rec, noEnv).SafeGotoNewPage(context.Background(), "https://example.com", 3)
	require.NoError(t, err)

	html, err := s.HTML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", html)
	assert.Len(t, d.configs, 1)
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.delays, "only the settle delay")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, d.browsers[0].closed)
}

func TestSafeGotoNewPageExhaustsRetries(t *testing.T) {
	d := &fakeDriver{next: func(int) (*fakeBrowser, error) {
		return &fakeBrowser{page: &fakePage{navErr: errBoom}}, nil
	}}
	rec := &recordingSleep{}

	_, err := testManager(d, rec, noEnv).SafeGotoNewPage(context.Background(), "https://example.com", 3)
	require.Error(t, err)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeNavigation, se.Code)
	assert.ErrorIs(t, err, errBoom)

	assert.Len(t, d.configs, 3, "exactly retries attempts")
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second}, rec.delays)
	for i := 1; i < len(rec.delays); i++ {
		assert.Greater(t, rec.delays[i], rec.delays[i-1])
	}
	for i, b := range d.browsers {
		assert.Equal(t, 1, b.closed, "browser %d must be closed", i)
	}
}

func TestSafeGotoNewPageRecoversWithFreshBrowser(t *testing.T) {
	d := &fakeDriver{next: func(attempt int) (*fakeBrowser, error) {
		if attempt == 1 {
			return nil, errBoom
		}
		return &fakeBrowser{page: &fakePage{}}, nil
	}}
	rec := &recordingSleep{}

	s, err := testManager(d, rec, noEnv).SafeGotoNewPage(context.Background(), "https://example.com", 3)
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, d.configs, 2)
	assert.Equal(t, []time.Duration{3 * time.Second, 2 * time.Second}, rec.delays)
}

func TestSafeGotoNewPageClosesOnPageError(t *testing.T) {
	d := &fakeDriver{next: func(int) (*fakeBrowser, error) {
		return &fakeBrowser{pageErr: errBoom, closeErr: errors.New("already gone")}, nil
	}}
	rec := &recordingSleep{}

	_, err := testManager(d, rec, noEnv).SafeGotoNewPage(context.Background(), "https://example.com", 2)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeBrowserLaunch, se.Code, "close errors never replace the cause")
	for _, b := range d.browsers {
		assert.Equal(t, 1, b.closed)
	}
}

func TestSafeGotoNewPageStopsWhenCanceled(t *testing.T) {
	d := &fakeDriver{next: func(int) (*fakeBrowser, error) { return nil, errBoom }}
	rec := &recordingSleep{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testManager(d, rec, noEnv).SafeGotoNewPage(ctx, "https://example.com", 3)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTimeout, se.Code)
	assert.Len(t, d.configs, 1)
}

func TestSafeGotoNewPageMinimumOneAttempt(t *testing.T) {
	d := &fakeDriver{next: func(int) (*fakeBrowser, error) { return nil, errBoom }}
	_, err := testManager(d, &recordingSleep{}, noEnv).SafeGotoNewPage(context.Background(), "https://example.com", 0)
	require.Error(t, err)
	assert.Len(t, d.configs, 1)
}

func TestSessionConfigFollowsRuntime(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	d := &fakeDriver{next: func(int) (*fakeBrowser, error) { return &fakeBrowser{page: &fakePage{}}, nil }}
	m := testManager(d, &recordingSleep{}, getenv)

	s, err := m.Open(context.Background(), "https://example.com")
	require.NoError(t, err)
	s.Close()

	env["AWS_LAMBDA_FUNCTION_NAME"] = "tracker"
	s, err = m.Open(context.Background(), "https://example.com")
	require.NoError(t, err)
	s.Close()

	require.Len(t, d.configs, 2)
	assert.Equal(t, config.RuntimeLocal, d.configs[0].Runtime)
	assert.Equal(t, config.RuntimeServerless, d.configs[1].Runtime)
	assert.Equal(t, "/opt/chromium", d.configs[1].Bin)
	assert.True(t, d.configs[1].IgnoreHTTPSErrors)
}

func TestRetryStateString(t *testing.T) {
	assert.Equal(t, "attempting", stateAttempting.String())
	assert.Equal(t, "backoff", stateBackoff.String())
	assert.Equal(t, "exhausted", stateExhausted.String())
	assert.Equal(t, "succeeded", stateSucceeded.String())
}
