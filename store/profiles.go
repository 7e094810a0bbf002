package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/use-agent/solvetrack/models"
)

var (
	urlColumns   = columnList(models.AllSites, urlColumn)
	countColumns = columnList(models.CountedSites, countColumn)

	listQuery = fmt.Sprintf(
		"SELECT email, name, %s, %s, prev_record, prev_date FROM profiles ORDER BY rowid",
		strings.Join(urlColumns, ", "), strings.Join(countColumns, ", "))

	updateQuery = fmt.Sprintf(
		"UPDATE profiles SET %s, prev_record = ?, prev_date = ? WHERE email = ?",
		assignments(countColumns, ""))

	upsertQuery = fmt.Sprintf(
		`INSERT INTO profiles (email, name, %s, %s, prev_record, prev_date)
		VALUES (?, ?, %s)
		ON CONFLICT(email) DO UPDATE SET name = excluded.name, %s`,
		strings.Join(urlColumns, ", "), strings.Join(countColumns, ", "),
		placeholders(len(urlColumns)+len(countColumns)+2),
		assignments(urlColumns, "excluded"))
)

// List returns every profile in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, storeError("list profiles", err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storeError("scan profile", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list profiles", err)
	}
	return out, nil
}

func scanProfile(rows *sql.Rows) (models.Profile, error) {
	var (
		p        models.Profile
		urls     = make([]string, len(urlColumns))
		counts   = make([]int, len(countColumns))
		prevDate sql.NullString
	)

	dest := []any{&p.Email, &p.Name}
	for i := range urls {
		dest = append(dest, &urls[i])
	}
	for i := range counts {
		dest = append(dest, &counts[i])
	}
	dest = append(dest, &p.PrevRecord, &prevDate)

	if err := rows.Scan(dest...); err != nil {
		return p, err
	}

	p.URLs = make(map[models.Site]string, len(urls))
	for i, site := range models.AllSites {
		if urls[i] != "" {
			p.URLs[site] = urls[i]
		}
	}
	p.Counts = make(map[models.Site]int, len(counts))
	for i, site := range models.CountedSites {
		p.Counts[site] = counts[i]
	}

	if prevDate.Valid && prevDate.String != "" {
		t, err := time.Parse(time.RFC3339Nano, prevDate.String)
		if err != nil {
			return p, fmt.Errorf("profile %s: prev_date %q: %w", p.Email, prevDate.String, err)
		}
		p.PrevDate = &t
	}
	return p, nil
}

// Update writes the counters of one profile keyed by email.
func (s *Store) Update(ctx context.Context, u models.CountUpdate) error {
	args := make([]any, 0, len(countColumns)+3)
	for _, site := range models.CountedSites {
		args = append(args, u.Counts[site])
	}
	args = append(args, u.PrevRecord, u.PrevDate.UTC().Format(time.RFC3339Nano), u.Email)

	res, err := s.db.ExecContext(ctx, updateQuery, args...)
	if err != nil {
		return storeError("update profile "+u.Email, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("update profile "+u.Email, err)
	}
	if n == 0 {
		return storeError("update profile "+u.Email, sql.ErrNoRows)
	}
	return nil
}

// Upsert inserts a profile, or refreshes the name and site URLs of an
// existing one. Stored counters are left alone on conflict.
func (s *Store) Upsert(ctx context.Context, p models.Profile) error {
	if strings.TrimSpace(p.Email) == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "profile email is required", nil)
	}

	args := []any{p.Email, p.Name}
	for _, site := range models.AllSites {
		args = append(args, p.URLs[site])
	}
	for _, site := range models.CountedSites {
		args = append(args, p.Counts[site])
	}
	var prevDate any
	if p.PrevDate != nil {
		prevDate = p.PrevDate.UTC().Format(time.RFC3339Nano)
	}
	args = append(args, p.PrevRecord, prevDate)

	if _, err := s.db.ExecContext(ctx, upsertQuery, args...); err != nil {
		return storeError("upsert profile "+p.Email, err)
	}
	return nil
}
