package media

import (
	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/pkg/executor"
)

type implDownloader struct {
	cfg      config.DownloadConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewDownloader creates a yt-dlp backed Downloader
func NewDownloader(cfg config.DownloadConfig, exec executor.Executor, log logger.Logger) Downloader {
	return &implDownloader{cfg: cfg, executor: exec, logger: log}
}

type implTranscoder struct {
	cfg      config.AudioConfig
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

// NewTranscoder creates an ffmpeg backed Transcoder. tempDir holds raw PCM
// while encoding.
func NewTranscoder(cfg config.AudioConfig, tempDir string, exec executor.Executor, log logger.Logger) Transcoder {
	return &implTranscoder{cfg: cfg, tempDir: tempDir, executor: exec, logger: log}
}
