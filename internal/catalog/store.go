package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (c *implCatalog) Begin(ctx context.Context, url string) string {
	id := uuid.NewString()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (id, url, status, startedAt) VALUES (?, ?, ?, ?)
	`, id, url, StatusRunning, unixFromTime(c.now()))
	if err != nil {
		c.logger.Warn(ctx, "Catalog: could not record run start: %v", err)
	}
	return id
}

// Finish uses a fresh context so an interrupted run is still recorded.
func (c *implCatalog) Finish(ctx context.Context, id string, fin Finish) {
	_, err := c.db.ExecContext(context.WithoutCancel(ctx), `
		UPDATE runs SET title = ?, folder = ?, status = ?, degraded = ?, finishedAt = ?
		WHERE id = ?
	`, fin.Title, fin.Folder, fin.Status, strings.Join(fin.Degraded, ","), unixFromTime(c.now()), id)
	if err != nil {
		c.logger.Warn(ctx, "Catalog: could not record run finish: %v", err)
	}
}

// Recent returns the newest runs first.
func (c *implCatalog) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, url, title, folder, status, degraded, startedAt, finishedAt
		FROM runs
		ORDER BY startedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var degraded string
		var startedAt float64
		var finishedAt sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.URL, &r.Title, &r.Folder, &r.Status,
			&degraded, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if degraded != "" {
			r.Degraded = strings.Split(degraded, ",")
		}
		r.StartedAt = timeFromUnix(startedAt)
		if finishedAt.Valid {
			t := timeFromUnix(finishedAt.Float64)
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (c *implCatalog) Close() error {
	return c.db.Close()
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9))
}

type nopCatalog struct{}

func (nopCatalog) Begin(ctx context.Context, url string) string         { return "" }
func (nopCatalog) Finish(ctx context.Context, id string, fin Finish)    {}
func (nopCatalog) Recent(ctx context.Context, limit int) ([]Run, error) { return nil, nil }
func (nopCatalog) Close() error                                         { return nil }
