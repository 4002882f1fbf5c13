package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Write renders the report and commits it to MarkdownPath. The optional
// overview and docx copy never fail the call; they are reported as degraded.
func (s *implSummarizer) Write(ctx context.Context, req Request) (Output, error) {
	out := Output{}
	doc := Document{
		Title:    req.Title,
		Segments: req.Segments,
		Interval: s.interval,
	}

	valid := len(req.Segments) > 0 && Validate(req.Segments) == nil
	if !valid {
		out.Placeholder = true
		if len(req.Segments) > 0 {
			s.logger.Warn(ctx, "Transcript for %s is malformed, writing placeholder", req.Title)
		}
	} else {
		out.Highlights = len(Group(req.Segments, s.interval))
	}

	if valid && s.overviewer != nil {
		overview, err := s.overviewer.Overview(ctx, req.Title, plainText(req.Segments))
		if err != nil {
			if ctx.Err() != nil {
				return Output{}, ctx.Err()
			}
			s.logger.Warn(ctx, "Overview skipped: %v", err)
			out.Degraded = append(out.Degraded, "overview")
		} else {
			doc.Overview = overview
			out.Overview = overview != ""
		}
	}

	markdown := Render(doc)
	if err := writeFile(req.MarkdownPath, []byte(markdown)); err != nil {
		return Output{}, fmt.Errorf("write summary: %w", err)
	}

	if s.docx && req.DocxPath != "" {
		if err := WriteDocx(req.Title, markdown, req.DocxPath); err != nil {
			s.logger.Warn(ctx, "Docx export skipped: %v", err)
			out.Degraded = append(out.Degraded, "docx")
		} else {
			out.DocxPath = req.DocxPath
		}
	}

	s.logger.Info(ctx, "Summary written: %s (%d highlights)", req.MarkdownPath, out.Highlights)
	return out, nil
}

// writeFile writes through a temp file in the same directory and renames it
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
