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

// whisperCpp drives the whisper.cpp CLI and reads its JSON output
type whisperCpp struct {
	cfg      config.ASRConfig
	executor executor.Executor
	logger   logger.Logger
}

type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (w *whisperCpp) Name() string { return "whisper" }

func (w *whisperCpp) Transcribe(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	if !w.executor.LookPath(w.cfg.BinaryPath) {
		return nil, fmt.Errorf("%s: %w", w.cfg.BinaryPath, ErrUnavailable)
	}

	// whisper.cpp appends .json to the prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	outputPath := outputPrefix + ".json"
	defer os.Remove(outputPath)

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)

	// -oj: JSON output with millisecond offsets
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"--output-file", outputPrefix,
	}
	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	segments, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	w.logger.Info(ctx, "Transcribed %d segments", len(segments))
	return segments, nil
}

func parseWhisperJSON(data []byte) ([]transcript.Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	segments := make([]transcript.Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		segments = append(segments, transcript.Segment{
			Start: decimal.New(t.Offsets.From, -3).InexactFloat64(),
			End:   decimal.New(t.Offsets.To, -3).InexactFloat64(),
			Text:  strings.TrimSpace(t.Text),
		})
	}
	return segments, nil
}
