package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

// Summarizer renders the highlight report for one source and writes it to disk.
type Summarizer interface {
	Write(ctx context.Context, req Request) (Output, error)
}

// Overviewer produces a short prose overview of a transcript.
type Overviewer interface {
	Overview(ctx context.Context, title, text string) (string, error)
}

// Request describes one report to write. DocxPath is optional.
type Request struct {
	Title        string
	Segments     []transcript.Segment
	MarkdownPath string
	DocxPath     string
}

// Output reports what was written
type Output struct {
	Highlights  int
	Placeholder bool
	Overview    bool
	DocxPath    string
	Degraded    []string
}
