package silence

import (
	"context"

	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/pkg/executor"
)

// Select builds the fallback chain for the configured mode once at startup.
// The pass-through copy is always the last tier. In copy mode it is the only
// remover and its output is not treated as degraded.
func Select(cfg *config.Config, exec executor.Executor, codec Codec, log logger.Logger) Remover {
	opts := Options{
		MinSilenceMs:  cfg.Silence.MinSilenceMs,
		ThresholdDB:   cfg.Silence.ThresholdDB,
		KeepSilenceMs: cfg.Silence.KeepSilenceMs,
	}
	ffmpeg := exec.LookPath(cfg.Audio.FFmpegBinary)

	pcm := NewPCMRemover(codec, opts, cfg.Audio.SampleRate, log)
	filter := NewFilterRemover(exec, cfg.Audio.FFmpegBinary, opts, cfg.Audio.Bitrate, cfg.Audio.SampleRate)

	if cfg.Silence.Mode == config.SilenceModeCopy {
		return &CopyRemover{}
	}

	var tiers []Remover
	switch cfg.Silence.Mode {
	case config.SilenceModeFilter:
		tiers = append(tiers, filter)
	case config.SilenceModePCM:
		tiers = append(tiers, pcm, filter)
	default:
		if ffmpeg {
			tiers = append(tiers, pcm, filter)
		} else {
			log.Warn(context.Background(), "%s not found, silence removal will copy audio through", cfg.Audio.FFmpegBinary)
		}
	}
	tiers = append(tiers, &CopyRemover{})

	return NewChain(log, tiers...)
}
