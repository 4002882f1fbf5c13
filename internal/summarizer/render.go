package summarizer

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

const (
	emptyBody   = "No transcription available."
	invalidBody = "Invalid transcription data."
)

// Document is the input to Render
type Document struct {
	Title    string
	Segments []transcript.Segment
	Interval float64
	Overview string
}

// Render builds the markdown report. Empty or malformed input yields a short
// placeholder document instead of an error.
func Render(doc Document) string {
	if len(doc.Segments) == 0 {
		return placeholder(doc.Title, emptyBody)
	}
	if err := Validate(doc.Segments); err != nil {
		return placeholder(doc.Title, invalidBody)
	}

	var b strings.Builder
	last := doc.Segments[len(doc.Segments)-1]

	fmt.Fprintf(&b, "# Video Summary: %s\n\n", doc.Title)
	fmt.Fprintf(&b, "**Total Duration:** %s\n", duration(last.End))
	fmt.Fprintf(&b, "**Total Segments:** %d\n\n", len(doc.Segments))

	if overview := strings.TrimSpace(doc.Overview); overview != "" {
		fmt.Fprintf(&b, "## Overview\n\n%s\n\n", overview)
	}

	b.WriteString("## 🎯 Key Highlights\n\n")
	for _, h := range Group(doc.Segments, doc.Interval) {
		fmt.Fprintf(&b, "### [%s - %s] Highlight %d\n\n", clock(h.Start), clock(h.End), h.Index)
		fmt.Fprintf(&b, "%s\n\n", h.Text)
	}

	b.WriteString("---\n\n")
	b.WriteString("## 📝 Full Transcription\n\n")
	for _, s := range doc.Segments {
		fmt.Fprintf(&b, "**[%s]** %s\n\n", clock(s.Start), s.Text)
	}

	return b.String()
}

func placeholder(title, body string) string {
	return fmt.Sprintf("# Video Summary: %s\n\n%s", title, body)
}

// plainText joins segment texts for prompting
func plainText(segments []transcript.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, fmt.Sprintf("[%s] %s", clock(s.Start), s.Text))
	}
	return strings.Join(lines, "\n")
}
