package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/digest-flow/internal/app"
	"github.com/nguyentantai21042004/digest-flow/internal/checkpoint"
	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/pipeline"
)

type fakePipeline struct {
	res  pipeline.Result
	err  error
	urls []string
}

func (f *fakePipeline) Process(ctx context.Context, url string) (pipeline.Result, error) {
	f.urls = append(f.urls, url)
	return f.res, f.err
}

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.Videos = filepath.Join(root, "videos")
	cfg.Paths.Downloads = filepath.Join(root, "downloads")
	cfg.Paths.Temp = filepath.Join(root, "temp")
	cfg.Paths.Inbox = filepath.Join(root, "inbox")
	cfg.ASR.Engine = config.EngineNone
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	a, err := app.New(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return &Dependencies{App: a}
}

func execute(t *testing.T, deps *Dependencies, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd(deps)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootRequiresOneURL(t *testing.T) {
	deps := newTestDeps(t)

	tests := []struct {
		name string
		args []string
	}{
		{"none", nil},
		{"two", []string{"https://a", "https://b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, deps, tt.args...); err == nil {
				t.Error("Execute() should reject the argument count")
			}
		})
	}
}

func TestRootProcessesURL(t *testing.T) {
	deps := newTestDeps(t)
	fake := &fakePipeline{res: pipeline.Result{
		Title:     "Talk",
		Folder:    "videos/Talk",
		Outcomes:  []pipeline.Outcome{{Stage: pipeline.StageDownload, Status: pipeline.StatusRan}},
		Completed: true,
	}}
	deps.App.Pipeline = fake

	out, err := execute(t, deps, "https://example.com/v")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(fake.urls) != 1 || fake.urls[0] != "https://example.com/v" {
		t.Errorf("processed %v", fake.urls)
	}
	if !strings.Contains(out, "Processing complete!") {
		t.Errorf("output = %q", out)
	}
}

func TestRootPassesInterruptThrough(t *testing.T) {
	deps := newTestDeps(t)
	deps.App.Pipeline = &fakePipeline{err: fmt.Errorf("transcription: %w", pipeline.ErrInterrupted)}

	_, err := execute(t, deps, "https://example.com/v")
	if !errors.Is(err, pipeline.ErrInterrupted) {
		t.Errorf("Execute() error = %v, want ErrInterrupted", err)
	}
}

func TestListCommand(t *testing.T) {
	deps := newTestDeps(t)
	videos := deps.App.Config.Paths.Videos
	for _, name := range []string{"Done_Talk", "Audio_Only"} {
		if err := os.MkdirAll(filepath.Join(videos, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	deps.App.Store.Save(filepath.Join(videos, "Done_Talk"), checkpoint.Checkpoint{
		URL: "u1", Downloaded: true, SilenceRemoved: true, Transcribed: true, SummaryGenerated: true, Completed: true,
	})
	deps.App.Store.Save(filepath.Join(videos, "Audio_Only"), checkpoint.Checkpoint{
		URL: "u2", Downloaded: true, SilenceRemoved: true, Completed: true, Degraded: []string{"transcription"},
	})

	out, err := execute(t, deps, "list")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Done_Talk ✅", "Audio_Only", "degraded: transcription"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ".catalog") {
		t.Error("list should not show the catalog file")
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, newTestDeps(t), "list", "--history", "5")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No sources found") || !strings.Contains(out, "Recent runs") {
		t.Errorf("output = %q", out)
	}
}

func TestCompressNothingToDo(t *testing.T) {
	out, err := execute(t, newTestDeps(t), "compress", t.TempDir())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No WAV files found") {
		t.Errorf("output = %q", out)
	}
}

func TestDoctorReportsMissingEngine(t *testing.T) {
	out, err := execute(t, newTestDeps(t), "doctor")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Transcription: no engine found") {
		t.Errorf("output = %q", out)
	}
}
