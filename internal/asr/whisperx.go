package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
	"github.com/nguyentantai21042004/digest-flow/pkg/executor"
	"github.com/shopspring/decimal"
)

// whisperX drives the whisperx CLI. Its timestamps are decimal seconds.
type whisperX struct {
	cfg      config.ASRConfig
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

type whisperXOutput struct {
	Segments []struct {
		Text  string          `json:"text"`
		Start decimal.Decimal `json:"start"`
		End   decimal.Decimal `json:"end"`
	} `json:"segments"`
}

func (w *whisperX) Name() string { return "whisperx" }

func (w *whisperX) Transcribe(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	if !w.executor.LookPath(w.cfg.BinaryPath) {
		return nil, fmt.Errorf("%s: %w", w.cfg.BinaryPath, ErrUnavailable)
	}

	outDir, err := os.MkdirTemp(w.tempDir, "whisperx-")
	if err != nil {
		return nil, fmt.Errorf("create whisperx output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	w.logger.Info(ctx, "Starting whisperx transcription (%s): %s", w.cfg.Model, audioPath)

	args := []string{
		audioPath,
		"--model", w.cfg.Model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--threads", strconv.Itoa(w.cfg.Threads),
	}
	if w.cfg.Language != "" && w.cfg.Language != "auto" {
		args = append(args, "--language", w.cfg.Language)
	}
	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisperx transcribe: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("read whisperx output: %w", err)
	}
	segments, err := parseWhisperXJSON(data)
	if err != nil {
		return nil, err
	}

	w.logger.Info(ctx, "Transcribed %d segments", len(segments))
	return segments, nil
}

func parseWhisperXJSON(data []byte) ([]transcript.Segment, error) {
	var out whisperXOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisperx output: %w", err)
	}

	segments := make([]transcript.Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		segments = append(segments, transcript.Segment{
			Start: s.Start.Round(3).InexactFloat64(),
			End:   s.End.Round(3).InexactFloat64(),
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return segments, nil
}
