package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Silence removal modes
const (
	SilenceModeAuto   = "auto"
	SilenceModePCM    = "pcm"
	SilenceModeFilter = "filter"
	SilenceModeCopy   = "copy"
)

// ASR engines
const (
	EngineAuto     = "auto"
	EngineWhisper  = "whisper"
	EngineWhisperX = "whisperx"
	EngineNone     = "none"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths" toml:"paths"`
	Silence     SilenceConfig     `yaml:"silence" toml:"silence"`
	Audio       AudioConfig       `yaml:"audio" toml:"audio"`
	Download    DownloadConfig    `yaml:"download" toml:"download"`
	ASR         ASRConfig         `yaml:"asr" toml:"asr"`
	Summary     SummaryConfig     `yaml:"summary" toml:"summary"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Performance PerformanceConfig `yaml:"performance" toml:"performance"`
}

type PathsConfig struct {
	Videos    string `yaml:"videos" toml:"videos"`
	Downloads string `yaml:"downloads" toml:"downloads"`
	Temp      string `yaml:"temp" toml:"temp"`
	Inbox     string `yaml:"inbox" toml:"inbox"`
	Catalog   string `yaml:"catalog" toml:"catalog"`
}

type SilenceConfig struct {
	Mode          string  `yaml:"mode" toml:"mode"`
	MinSilenceMs  int     `yaml:"min_silence_ms" toml:"min_silence_ms"`
	ThresholdDB   float64 `yaml:"threshold_db" toml:"threshold_db"`
	KeepSilenceMs int     `yaml:"keep_silence_ms" toml:"keep_silence_ms"`
}

type AudioConfig struct {
	Bitrate      string `yaml:"bitrate" toml:"bitrate"`
	SampleRate   int    `yaml:"sample_rate" toml:"sample_rate"`
	FFmpegBinary string `yaml:"ffmpeg_binary" toml:"ffmpeg_binary"`
}

type DownloadConfig struct {
	Binary       string `yaml:"binary" toml:"binary"`
	AudioFormat  string `yaml:"audio_format" toml:"audio_format"`
	AudioQuality string `yaml:"audio_quality" toml:"audio_quality"`
}

type ASRConfig struct {
	Engine     string `yaml:"engine" toml:"engine"`
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	ModelPath  string `yaml:"model_path" toml:"model_path"`
	Model      string `yaml:"model" toml:"model"`
	Language   string `yaml:"language" toml:"language"`
	Threads    int    `yaml:"threads" toml:"threads"`
}

type SummaryConfig struct {
	HighlightIntervalSeconds float64      `yaml:"highlight_interval_seconds" toml:"highlight_interval_seconds"`
	Docx                     bool         `yaml:"docx" toml:"docx"`
	Gemini                   GeminiConfig `yaml:"gemini" toml:"gemini"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model" toml:"model"`
	APIKeys []string `yaml:"api_keys" toml:"api_keys"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" toml:"max_concurrent"`
}

// Validate rejects values no stage can work with and fills in defaults
func (c *Config) Validate() error {
	switch c.Silence.Mode {
	case "":
		c.Silence.Mode = SilenceModeAuto
	case SilenceModeAuto, SilenceModePCM, SilenceModeFilter, SilenceModeCopy:
	default:
		return fmt.Errorf("silence.mode %q is not one of auto, pcm, filter, copy", c.Silence.Mode)
	}
	switch c.ASR.Engine {
	case "":
		c.ASR.Engine = EngineAuto
	case EngineAuto, EngineWhisper, EngineWhisperX, EngineNone:
	default:
		return fmt.Errorf("asr.engine %q is not one of auto, whisper, whisperx, none", c.ASR.Engine)
	}
	if c.Silence.MinSilenceMs < 0 || c.Silence.KeepSilenceMs < 0 {
		return fmt.Errorf("silence durations must not be negative")
	}
	if c.Silence.ThresholdDB > 0 {
		return fmt.Errorf("silence.threshold_db must be <= 0 (dBFS), got %v", c.Silence.ThresholdDB)
	}
	if c.Summary.HighlightIntervalSeconds < 0 {
		return fmt.Errorf("summary.highlight_interval_seconds must not be negative")
	}

	if c.Paths.Videos == "" {
		c.Paths.Videos = "videos"
	}
	if c.Paths.Downloads == "" {
		c.Paths.Downloads = "downloads"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Catalog == "" {
		c.Paths.Catalog = filepath.Join(c.Paths.Videos, ".catalog.sqlite")
	}
	if c.Silence.MinSilenceMs == 0 {
		c.Silence.MinSilenceMs = 1000
	}
	if c.Silence.ThresholdDB == 0 {
		c.Silence.ThresholdDB = -40
	}
	if c.Silence.KeepSilenceMs == 0 {
		c.Silence.KeepSilenceMs = 200
	}
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = "32k"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = "ffmpeg"
	}
	if c.Download.Binary == "" {
		c.Download.Binary = "yt-dlp"
	}
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = "mp3"
	}
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = "32K"
	}
	if c.ASR.Language == "" {
		c.ASR.Language = "auto"
	}
	if c.ASR.Threads == 0 {
		c.ASR.Threads = 4
	}
	if c.ASR.Model == "" {
		c.ASR.Model = "base"
	}
	if c.Summary.HighlightIntervalSeconds == 0 {
		c.Summary.HighlightIntervalSeconds = 60
	}
	if c.Summary.Gemini.Model == "" {
		c.Summary.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 1
	}

	c.Summary.Gemini.APIKeys = compactKeys(c.Summary.Gemini.APIKeys)
	return nil
}

func compactKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
