package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/digest-flow/internal/catalog"
	"github.com/nguyentantai21042004/digest-flow/internal/checkpoint"
	"github.com/nguyentantai21042004/digest-flow/internal/source"
	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

// work is the state of one run once the source folder is known
type work struct {
	layout   source.Layout
	cp       checkpoint.Checkpoint
	rawAudio string
	unlock   func()

	segments       []transcript.Segment
	haveTranscript bool
}

// Process orchestrates download, silence removal, transcription and summary.
// Each stage is skipped when its checkpoint flag is set and its artifact is on
// disk. Only a failed download or a disk error stops the run.
func (p *implPipeline) Process(ctx context.Context, url string) (Result, error) {
	startTime := time.Now()
	res := Result{URL: url}
	runID := p.catalog.Begin(ctx, url)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting: %s", url)
	p.logger.Info(ctx, "========================================")

	err := p.run(ctx, url, &res)
	res.Elapsed = time.Since(startTime)

	p.catalog.Finish(ctx, runID, catalog.Finish{
		Title:    res.Title,
		Folder:   res.Folder,
		Status:   runStatus(err),
		Degraded: res.Degraded,
	})

	switch {
	case errors.Is(err, ErrInterrupted):
		p.logger.Warn(ctx, "Interrupted. Progress is saved, run again to resume.")
	case err != nil:
		p.logger.Error(ctx, "Processing failed: %v", err)
	default:
		p.logger.Info(ctx, "========================================")
		p.logger.Info(ctx, "Processing complete: %s", res.Folder)
		if len(res.Degraded) > 0 {
			p.logger.Info(ctx, "Degraded: %v", res.Degraded)
		}
		p.logger.Info(ctx, "Processing time: %s", res.Elapsed.Round(time.Millisecond))
		p.logger.Info(ctx, "========================================")
	}

	return res, err
}

func (p *implPipeline) run(ctx context.Context, url string, res *Result) error {
	w, err := p.download(ctx, url, res)
	if err != nil {
		return err
	}
	defer w.unlock()

	stages := []struct {
		stage Stage
		run   func(context.Context, *work, *Result) error
	}{
		{StageSilenceRemoval, p.removeSilence},
		{StageTranscription, p.transcribe},
		{StageSummary, p.summarize},
	}
	for _, s := range stages {
		if ctx.Err() != nil {
			return interrupted(s.stage)
		}
		err := s.run(ctx, w, res)
		res.Degraded = w.cp.Degraded
		if err != nil {
			return err
		}
	}

	w.cp.Completed = true
	if err := p.commit(ctx, w, StageSummary); err != nil {
		return err
	}
	res.Completed = true
	res.Degraded = w.cp.Degraded
	return nil
}

// commit persists the checkpoint unless the run has been interrupted, so a
// canceled stage is never recorded as done.
func (p *implPipeline) commit(ctx context.Context, w *work, stage Stage) error {
	if ctx.Err() != nil {
		return interrupted(stage)
	}
	p.store.Save(w.layout.Root, w.cp)
	return nil
}

func interrupted(stage Stage) error {
	return fmt.Errorf("%s: %w", stage, ErrInterrupted)
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return catalog.StatusCompleted
	case errors.Is(err, ErrInterrupted):
		return catalog.StatusInterrupted
	default:
		return catalog.StatusFailed
	}
}
