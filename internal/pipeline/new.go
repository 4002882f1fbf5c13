package pipeline

import (
	"github.com/nguyentantai21042004/digest-flow/internal/asr"
	"github.com/nguyentantai21042004/digest-flow/internal/catalog"
	"github.com/nguyentantai21042004/digest-flow/internal/checkpoint"
	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/media"
	"github.com/nguyentantai21042004/digest-flow/internal/silence"
	"github.com/nguyentantai21042004/digest-flow/internal/summarizer"
)

// Deps are the collaborators of a Pipeline. Catalog may be nil.
type Deps struct {
	Config      *config.Config
	Store       checkpoint.Store
	Downloader  media.Downloader
	Remover     silence.Remover
	Transcriber asr.Transcriber
	Summarizer  summarizer.Summarizer
	Catalog     catalog.Catalog
	Logger      logger.Logger
}

type implPipeline struct {
	cfg         *config.Config
	store       checkpoint.Store
	downloader  media.Downloader
	remover     silence.Remover
	transcriber asr.Transcriber
	summarizer  summarizer.Summarizer
	catalog     catalog.Catalog
	logger      logger.Logger
}

// New creates a Pipeline
func New(d Deps) Pipeline {
	cat := d.Catalog
	if cat == nil {
		cat = catalog.Nop()
	}
	return &implPipeline{
		cfg:         d.Config,
		store:       d.Store,
		downloader:  d.Downloader,
		remover:     d.Remover,
		transcriber: d.Transcriber,
		summarizer:  d.Summarizer,
		catalog:     cat,
		logger:      d.Logger,
	}
}
