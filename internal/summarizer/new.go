package summarizer

import (
	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
)

type implSummarizer struct {
	interval   float64
	docx       bool
	overviewer Overviewer
	logger     logger.Logger
}

// New creates a Summarizer. A Gemini overviewer is attached when API keys are configured.
func New(cfg config.SummaryConfig, log logger.Logger) Summarizer {
	s := &implSummarizer{
		interval: cfg.HighlightIntervalSeconds,
		docx:     cfg.Docx,
		logger:   log,
	}
	if len(cfg.Gemini.APIKeys) > 0 {
		s.overviewer = NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
	}
	return s
}
