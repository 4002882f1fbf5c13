package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/digest-flow/internal/logger"
)

func openTestCatalog(t *testing.T) *implCatalog {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "sub", "catalog.sqlite"), logger.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c.(*implCatalog)
}

func TestBeginFinishRecent(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first := c.Begin(ctx, "https://example.com/a")
	c.Finish(ctx, first, Finish{Title: "A", Folder: "videos/A", Status: StatusCompleted, Degraded: []string{"transcription", "summary"}})
	second := c.Begin(ctx, "https://example.com/b")

	runs, err := c.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Recent() len = %d, want 2", len(runs))
	}

	if runs[0].ID != second || runs[0].Status != StatusRunning || runs[0].FinishedAt != nil {
		t.Errorf("Recent()[0] = %+v, want unfinished run %s", runs[0], second)
	}
	got := runs[1]
	if got.ID != first || got.Title != "A" || got.Status != StatusCompleted {
		t.Errorf("Recent()[1] = %+v", got)
	}
	if len(got.Degraded) != 2 || got.Degraded[0] != "transcription" {
		t.Errorf("Degraded = %v, want [transcription summary]", got.Degraded)
	}
	if got.FinishedAt == nil || !got.FinishedAt.After(got.StartedAt) {
		t.Errorf("FinishedAt = %v, StartedAt = %v", got.FinishedAt, got.StartedAt)
	}
}

func TestRecentLimit(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	for range 5 {
		c.Begin(ctx, "u")
	}

	runs, err := c.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("Recent(3) len = %d, want 3", len(runs))
	}
}

func TestFinishAfterCancel(t *testing.T) {
	c := openTestCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	id := c.Begin(ctx, "u")
	cancel()

	c.Finish(ctx, id, Finish{Status: StatusInterrupted})

	runs, err := c.Recent(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Status != StatusInterrupted {
		t.Errorf("Status = %q, want %q", runs[0].Status, StatusInterrupted)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := timeFromUnix(unixFromTime(ts)); !got.Equal(ts) {
		t.Errorf("timeFromUnix() = %v, want %v", got, ts)
	}
}

func TestNop(t *testing.T) {
	c := Nop()
	if id := c.Begin(context.Background(), "u"); id != "" {
		t.Errorf("Begin() = %q, want empty", id)
	}
	runs, err := c.Recent(context.Background(), 5)
	if err != nil || runs != nil {
		t.Errorf("Recent() = %v, %v", runs, err)
	}
}
