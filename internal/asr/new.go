package asr

import (
	"context"
	"os"

	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
	"github.com/nguyentantai21042004/digest-flow/pkg/executor"
)

const (
	defaultWhisperBinary  = "whisper-cli"
	defaultWhisperXBinary = "whisperx"
)

// Select picks the engine once at startup. Auto prefers whisper.cpp when its
// binary and model are present, then whisperx, then no engine at all.
func Select(cfg config.ASRConfig, tempDir string, exec executor.Executor, log logger.Logger) Transcriber {
	ctx := context.Background()

	whisper := &whisperCpp{cfg: cfg, executor: exec, logger: log}
	if whisper.cfg.BinaryPath == "" {
		whisper.cfg.BinaryPath = defaultWhisperBinary
	}
	whisperX := &whisperX{cfg: cfg, tempDir: tempDir, executor: exec, logger: log}
	if cfg.Engine != config.EngineWhisperX || whisperX.cfg.BinaryPath == "" {
		whisperX.cfg.BinaryPath = defaultWhisperXBinary
	}

	switch cfg.Engine {
	case config.EngineWhisper:
		return whisper
	case config.EngineWhisperX:
		return whisperX
	case config.EngineNone:
		return Unavailable{}
	}

	if exec.LookPath(whisper.cfg.BinaryPath) && fileExists(cfg.ModelPath) {
		log.Debug(ctx, "Using whisper.cpp (%s)", whisper.cfg.BinaryPath)
		return whisper
	}
	if exec.LookPath(whisperX.cfg.BinaryPath) {
		log.Debug(ctx, "Using whisperx")
		return whisperX
	}
	log.Warn(ctx, "No speech recognition engine found, transcription will be skipped")
	return Unavailable{}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Unavailable is the engine used when nothing is installed
type Unavailable struct{}

func (Unavailable) Name() string { return "none" }

func (Unavailable) Transcribe(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	return nil, ErrUnavailable
}
