package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/digest-flow/internal/asr"
	"github.com/nguyentantai21042004/digest-flow/internal/source"
	"github.com/nguyentantai21042004/digest-flow/internal/summarizer"
	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

// download resolves the source folder, fetching the audio unless an earlier
// run already stored it. The returned work holds the folder lock.
func (p *implPipeline) download(ctx context.Context, url string, res *Result) (*work, error) {
	if w, ok := p.resume(ctx, url); ok {
		p.fill(res, w)
		res.add(StageDownload, StatusSkipped, "using existing audio")
		p.logger.Info(ctx, "Download already completed (using %s)", w.rawAudio)
		return w, nil
	}

	if err := os.MkdirAll(p.cfg.Paths.Downloads, 0755); err != nil {
		return nil, fmt.Errorf("create downloads dir: %w", err)
	}
	// each run downloads into its own directory until the folder lock is held
	dlDir, err := os.MkdirTemp(p.cfg.Paths.Downloads, "dl-*")
	if err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	defer os.RemoveAll(dlDir)

	p.logger.Info(ctx, "Downloading audio...")
	path, title, err := p.downloader.Download(ctx, url, dlDir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, interrupted(StageDownload)
		}
		res.add(StageDownload, StatusFailed, err.Error())
		return nil, fmt.Errorf("download: %w", err)
	}

	src := source.New(url, title)
	layout := source.NewLayout(p.cfg.Paths.Videos, src)
	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	w := &work{layout: layout, unlock: p.store.Lock(layout.Root)}
	w.cp = p.store.Load(layout.Root)
	w.rawAudio = layout.RawAudio(filepath.Ext(path))

	if err := moveFile(path, w.rawAudio); err != nil {
		w.unlock()
		return nil, fmt.Errorf("store downloaded audio: %w", err)
	}

	hash, err := hashFile(w.rawAudio)
	if err != nil {
		p.logger.Warn(ctx, "Could not fingerprint audio: %v", err)
	}
	if hash == "" || hash != w.cp.AudioHash {
		w.cp.ResetAfterDownload()
	}

	w.cp.URL = url
	w.cp.Title = title
	w.cp.AudioFile = filepath.Base(w.rawAudio)
	w.cp.AudioHash = hash
	w.cp.Downloaded = true

	p.fill(res, w)
	res.add(StageDownload, StatusRan, title)
	p.logger.Info(ctx, "Downloaded: %s", w.rawAudio)

	if err := p.commit(ctx, w, StageDownload); err != nil {
		w.unlock()
		return nil, err
	}
	return w, nil
}

// resume finds a folder from an earlier run of url whose raw audio is still on disk
func (p *implPipeline) resume(ctx context.Context, url string) (*work, bool) {
	name, ok := source.Find(p.cfg.Paths.Videos, url)
	if !ok {
		return nil, false
	}

	layout := source.Layout{Root: filepath.Join(p.cfg.Paths.Videos, name), Name: name}
	unlock := p.store.Lock(layout.Root)
	cp := p.store.Load(layout.Root)

	raw := filepath.Join(layout.AudioDir(), cp.AudioFile)
	if !cp.Downloaded || cp.AudioFile == "" || !source.Exists(raw) {
		unlock()
		return nil, false
	}
	if err := layout.Ensure(); err != nil {
		unlock()
		return nil, false
	}

	w := &work{layout: layout, cp: cp, rawAudio: raw, unlock: unlock}

	// a replaced raw file invalidates everything derived from it
	if cp.AudioHash != "" {
		hash, err := hashFile(raw)
		if err == nil && hash != cp.AudioHash {
			p.logger.Warn(ctx, "Audio changed since last run, reprocessing")
			w.cp.ResetAfterDownload()
			w.cp.AudioHash = hash
		}
	}
	return w, true
}

func (p *implPipeline) fill(res *Result, w *work) {
	res.Title = w.cp.Title
	res.Folder = w.layout.Root
	res.Artifacts.RawAudio = w.rawAudio
	res.Degraded = w.cp.Degraded
}

func (p *implPipeline) removeSilence(ctx context.Context, w *work, res *Result) error {
	out := w.layout.ProcessedAudio()
	if w.cp.SilenceRemoved && source.Exists(out) {
		res.Artifacts.ProcessedAudio = out
		res.add(StageSilenceRemoval, StatusSkipped, "")
		p.logger.Info(ctx, "Silence removal already completed (using existing file)")
		return nil
	}

	p.logger.Info(ctx, "Removing silence from audio...")
	partial := partialName(out)
	r, err := p.remover.Remove(ctx, w.rawAudio, partial)
	if err != nil {
		os.Remove(partial)
		if ctx.Err() != nil {
			return interrupted(StageSilenceRemoval)
		}
		res.add(StageSilenceRemoval, StatusFailed, err.Error())
		return fmt.Errorf("remove silence: %w", err)
	}
	if err := os.Rename(partial, out); err != nil {
		os.Remove(partial)
		return fmt.Errorf("commit processed audio: %w", err)
	}

	w.cp.SilenceRemoved = true
	w.cp.Transcribed = false
	w.cp.SummaryGenerated = false
	w.cp.Completed = false
	res.Artifacts.ProcessedAudio = out

	if r.Degraded {
		w.cp.MarkDegraded(string(StageSilenceRemoval))
		res.add(StageSilenceRemoval, StatusDegraded, "fallback: "+r.Method)
	} else {
		w.cp.ClearDegraded(string(StageSilenceRemoval))
		res.add(StageSilenceRemoval, StatusRan, fmt.Sprintf("%s, %.1f%% removed", r.Method, r.Reduction()))
	}
	p.logger.Info(ctx, "Silence removal saved (%s)", r.Method)

	return p.commit(ctx, w, StageSilenceRemoval)
}

func (p *implPipeline) transcribe(ctx context.Context, w *work, res *Result) error {
	path := w.layout.Transcript()
	if w.cp.Transcribed && source.Exists(path) {
		segments, err := transcript.Load(path)
		if err == nil {
			w.segments = segments
			w.haveTranscript = true
			res.Artifacts.Transcript = path
			res.add(StageTranscription, StatusSkipped, fmt.Sprintf("%d segments", len(segments)))
			p.logger.Info(ctx, "Loaded %d segments from saved transcription", len(segments))
			return nil
		}
		p.logger.Warn(ctx, "Could not load saved transcription, re-transcribing: %v", err)
	}

	p.logger.Info(ctx, "Transcribing audio (%s)...", p.transcriber.Name())
	segments, err := p.transcriber.Transcribe(ctx, w.layout.ProcessedAudio())
	if err != nil {
		if ctx.Err() != nil {
			return interrupted(StageTranscription)
		}
		if errors.Is(err, asr.ErrUnavailable) {
			p.logger.Warn(ctx, "Transcription skipped: no speech recognition engine installed")
		} else {
			p.logger.Warn(ctx, "Transcription failed, continuing without it: %v", err)
		}
		w.cp.Transcribed = false
		w.cp.SummaryGenerated = false
		w.cp.MarkDegraded(string(StageTranscription))
		res.add(StageTranscription, StatusDegraded, err.Error())
		return p.commit(ctx, w, StageTranscription)
	}

	if err := transcript.Save(path, segments); err != nil {
		res.add(StageTranscription, StatusFailed, err.Error())
		return err
	}

	w.segments = segments
	w.haveTranscript = true
	w.cp.Transcribed = true
	w.cp.SummaryGenerated = false
	w.cp.ClearDegraded(string(StageTranscription))
	res.Artifacts.Transcript = path
	res.add(StageTranscription, StatusRan, fmt.Sprintf("%d segments", len(segments)))
	p.logger.Info(ctx, "Transcription auto-saved to: %s", path)

	return p.commit(ctx, w, StageTranscription)
}

func (p *implPipeline) summarize(ctx context.Context, w *work, res *Result) error {
	if !w.haveTranscript {
		// a report from an earlier transcript no longer matches the audio
		for _, stale := range []string{w.layout.Summary(), w.layout.SummaryDocx()} {
			if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
				p.logger.Warn(ctx, "Could not remove stale summary %s: %v", stale, err)
			}
		}
		w.cp.SummaryGenerated = false
		w.cp.MarkDegraded(string(StageSummary))
		res.add(StageSummary, StatusSkipped, "no transcription")
		return nil
	}

	path := w.layout.Summary()
	if w.cp.SummaryGenerated && source.Exists(path) {
		res.Artifacts.Summary = path
		if p.cfg.Summary.Docx && source.Exists(w.layout.SummaryDocx()) {
			res.Artifacts.SummaryDocx = w.layout.SummaryDocx()
		}
		res.add(StageSummary, StatusSkipped, "")
		p.logger.Info(ctx, "Summary already generated (using existing file)")
		return nil
	}

	req := summarizer.Request{
		Title:        w.cp.Title,
		Segments:     w.segments,
		MarkdownPath: path,
	}
	if p.cfg.Summary.Docx {
		req.DocxPath = w.layout.SummaryDocx()
	}

	p.logger.Info(ctx, "Generating summary...")
	out, err := p.summarizer.Write(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return interrupted(StageSummary)
		}
		p.logger.Warn(ctx, "Summary failed, continuing without it: %v", err)
		w.cp.SummaryGenerated = false
		w.cp.MarkDegraded(string(StageSummary))
		res.add(StageSummary, StatusFailed, err.Error())
		return p.commit(ctx, w, StageSummary)
	}

	w.cp.SummaryGenerated = true
	w.cp.ClearDegraded(string(StageSummary))
	for _, feature := range []string{"overview", "docx"} {
		w.cp.ClearDegraded(feature)
	}
	for _, feature := range out.Degraded {
		w.cp.MarkDegraded(feature)
	}
	res.Artifacts.Summary = path
	res.Artifacts.SummaryDocx = out.DocxPath

	switch {
	case out.Placeholder:
		res.add(StageSummary, StatusDegraded, "placeholder report")
	case len(out.Degraded) > 0:
		res.add(StageSummary, StatusDegraded, fmt.Sprintf("%d highlights, without %v", out.Highlights, out.Degraded))
	default:
		res.add(StageSummary, StatusRan, fmt.Sprintf("%d highlights", out.Highlights))
	}
	p.logger.Info(ctx, "Summary auto-saved to: %s", path)

	return p.commit(ctx, w, StageSummary)
}
