package app

import (
	"context"
	"os"

	"github.com/nguyentantai21042004/digest-flow/internal/asr"
	"github.com/nguyentantai21042004/digest-flow/internal/catalog"
	"github.com/nguyentantai21042004/digest-flow/internal/checkpoint"
	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/media"
	"github.com/nguyentantai21042004/digest-flow/internal/pipeline"
	"github.com/nguyentantai21042004/digest-flow/internal/silence"
	"github.com/nguyentantai21042004/digest-flow/internal/summarizer"
	"github.com/nguyentantai21042004/digest-flow/pkg/executor"
)

// App holds every collaborator, built once from the configuration.
// Capability selection (silence tiers, ASR engine) happens here and nowhere else.
type App struct {
	Config      *config.Config
	Logger      logger.Logger
	Executor    executor.Executor
	Store       checkpoint.Store
	Catalog     catalog.Catalog
	Transcoder  media.Transcoder
	Remover     silence.Remover
	Transcriber asr.Transcriber
	Pipeline    pipeline.Pipeline
}

func New(cfg *config.Config, log logger.Logger) (*App, error) {
	ctx := context.Background()

	for _, dir := range []string{cfg.Paths.Videos, cfg.Paths.Downloads, cfg.Paths.Temp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	exec := executor.New()
	store := checkpoint.New(log)

	cat, err := catalog.Open(cfg.Paths.Catalog, log)
	if err != nil {
		log.Warn(ctx, "Run history disabled: %v", err)
		cat = catalog.Nop()
	}

	transcoder := media.NewTranscoder(cfg.Audio, cfg.Paths.Temp, exec, log)
	remover := silence.Select(cfg, exec, transcoder, log)
	transcriber := asr.Select(cfg.ASR, cfg.Paths.Temp, exec, log)

	log.Debug(ctx, "Silence removal: %s, transcription: %s", remover.Name(), transcriber.Name())

	p := pipeline.New(pipeline.Deps{
		Config:      cfg,
		Store:       store,
		Downloader:  media.NewDownloader(cfg.Download, exec, log),
		Remover:     remover,
		Transcriber: transcriber,
		Summarizer:  summarizer.New(cfg.Summary, log),
		Catalog:     cat,
		Logger:      log,
	})

	return &App{
		Config:      cfg,
		Logger:      log,
		Executor:    exec,
		Store:       store,
		Catalog:     cat,
		Transcoder:  transcoder,
		Remover:     remover,
		Transcriber: transcriber,
		Pipeline:    p,
	}, nil
}

// Close releases the run history database
func (a *App) Close() error {
	return a.Catalog.Close()
}
