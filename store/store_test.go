package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/solvetrack/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestUpsertAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	prev := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.Upsert(ctx, models.Profile{
		Email: "b@example.com",
		Name:  "Bea",
		URLs: map[models.Site]string{
			models.SiteLeetCode: "https://leetcode.com/u/bea",
			models.SiteCodolio:  "https://codolio.com/profile/bea",
		},
		Counts:     map[models.Site]int{models.SiteLeetCode: 10},
		PrevRecord: 10,
		PrevDate:   &prev,
	}))
	require.NoError(t, s.Upsert(ctx, models.Profile{Email: "a@example.com"}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b@example.com", got[0].Email, "insertion order")
	assert.Equal(t, "https://leetcode.com/u/bea", got[0].URLs[models.SiteLeetCode])
	assert.Equal(t, "https://codolio.com/profile/bea", got[0].URLs[models.SiteCodolio])
	assert.NotContains(t, got[0].URLs, models.SiteCodeChef)
	assert.Equal(t, 10, got[0].Counts[models.SiteLeetCode])
	assert.Equal(t, 10, got[0].PrevRecord)
	require.NotNil(t, got[0].PrevDate)
	assert.True(t, prev.Equal(*got[0].PrevDate))

	assert.Nil(t, got[1].PrevDate)
	assert.Equal(t, 0, got[1].PrevRecord)
}

func TestUpsertKeepsCounters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Upsert(ctx, models.Profile{
		Email:  "a@example.com",
		Counts: map[models.Site]int{models.SiteCodeforces: 7},
	}))
	require.NoError(t, s.Upsert(ctx, models.Profile{
		Email: "a@example.com",
		Name:  "Ana",
		URLs:  map[models.Site]string{models.SiteCodeforces: "https://codeforces.com/profile/ana"},
	}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].Name)
	assert.Equal(t, 7, got[0].Counts[models.SiteCodeforces])
	assert.Equal(t, "https://codeforces.com/profile/ana", got[0].URLs[models.SiteCodeforces])
}

func TestUpsertRequiresEmail(t *testing.T) {
	err := newTestStore(t).Upsert(context.Background(), models.Profile{Name: "nobody"})
	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeInvalidInput, se.Code)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Upsert(ctx, models.Profile{Email: "a@example.com", PrevRecord: 40}))

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Update(ctx, models.CountUpdate{
		Email: "a@example.com",
		Counts: map[models.Site]int{
			models.SiteLeetCode:   20,
			models.SiteCodeChef:   5,
			models.SiteCodeforces: 3,
		},
		PrevRecord: 40,
		PrevDate:   now,
	}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 20, got[0].Counts[models.SiteLeetCode])
	assert.Equal(t, 5, got[0].Counts[models.SiteCodeChef])
	assert.Equal(t, 0, got[0].Counts[models.SiteInterviewBit])
	assert.Equal(t, 40, got[0].PrevRecord)
	require.NotNil(t, got[0].PrevDate)
	assert.True(t, now.Equal(*got[0].PrevDate))
}

func TestUpdateMissingProfile(t *testing.T) {
	err := newTestStore(t).Update(context.Background(), models.CountUpdate{Email: "ghost@example.com", PrevDate: time.Now()})

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeStore, se.Code)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDriverFor(t *testing.T) {
	d, dsn := driverFor("libsql://db.turso.io", "tok")
	assert.Equal(t, "libsql", d)
	assert.Equal(t, "libsql://db.turso.io?authToken=tok", dsn)

	d, dsn = driverFor("https://db.turso.io", "")
	assert.Equal(t, "libsql", d)
	assert.Equal(t, "https://db.turso.io", dsn)

	d, dsn = driverFor("solvetrack.db", "tok")
	assert.Equal(t, "sqlite", d)
	assert.Equal(t, "solvetrack.db", dsn)

	d, _ = driverFor(":memory:", "")
	assert.Equal(t, "sqlite", d)
}
