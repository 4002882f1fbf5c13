package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/digest-flow/internal/catalog"
	"github.com/nguyentantai21042004/digest-flow/internal/media"
	"github.com/nguyentantai21042004/digest-flow/internal/pipeline"
)

func TestRunReport(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.RunReport(pipeline.Result{
		URL:    "https://example.com/v",
		Title:  "Talk",
		Folder: "videos/Talk",
		Outcomes: []pipeline.Outcome{
			{Stage: pipeline.StageDownload, Status: pipeline.StatusSkipped},
			{Stage: pipeline.StageTranscription, Status: pipeline.StatusDegraded, Detail: "speech recognition unavailable"},
		},
		Artifacts: pipeline.Artifacts{ProcessedAudio: "videos/Talk/audio/Talk_processed_audio.mp3"},
		Degraded:  []string{"transcription"},
		Completed: true,
		Elapsed:   75 * time.Second,
	})

	out := buf.String()
	for _, want := range []string{
		"Talk",
		"download",
		"degraded (speech recognition unavailable)",
		"Degraded: transcription",
		"Install whisper.cpp",
		"audio/Talk_processed_audio.mp3",
		"Processing complete!",
		"1m15s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RunReport() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("RunReport() wrote color codes to a non-terminal writer")
	}
}

func TestSourceListItem(t *testing.T) {
	tests := []struct {
		name                               string
		completed, transcribed, summarized bool
		want                               string
	}{
		{"summarized", true, true, true, "✅"},
		{"transcript only", true, true, false, "📝"},
		{"audio only", true, false, false, "audio only"},
		{"unfinished", false, false, false, "in progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewFormatter(&buf).SourceListItem("Talk", tt.completed, tt.transcribed, tt.summarized, nil)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("SourceListItem() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestHistoryItem(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 5, 1, 9, 30, 0, 0, time.Local)
	end := start.Add(2 * time.Minute)

	NewFormatter(&buf).HistoryItem(catalog.Run{URL: "u", Status: catalog.StatusCompleted, StartedAt: start, FinishedAt: &end})

	out := buf.String()
	if !strings.Contains(out, "2026-05-01 09:30") || !strings.Contains(out, "completed u") || !strings.Contains(out, "2m00s") {
		t.Errorf("HistoryItem() = %q", out)
	}
}

func TestCompressReport(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).CompressReport(media.CompressReport{Converted: 2, Failed: 1, BytesSaved: 3 * 1024 * 1024})

	out := buf.String()
	if !strings.Contains(out, "Converted 2 file(s), saved 3.0 MiB") || !strings.Contains(out, "1 file(s) failed") {
		t.Errorf("CompressReport() = %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 3*time.Second, "2h00m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
