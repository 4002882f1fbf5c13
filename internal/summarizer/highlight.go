package summarizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

// DefaultInterval is the gap in seconds that closes a highlight window
const DefaultInterval = 60.0

// Highlight is a run of consecutive segments that share a time window.
type Highlight struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Group folds ordered segments into highlights. A new window opens when a
// segment starts more than interval seconds after the end of the last
// segment absorbed into the current window. Highlights are numbered from 1.
func Group(segments []transcript.Segment, interval float64) []Highlight {
	if len(segments) == 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	var (
		out   []Highlight
		texts = []string{segments[0].Text}
		start = segments[0].Start
		end   = segments[0].End
	)
	emit := func() {
		out = append(out, Highlight{
			Index: len(out) + 1,
			Start: start,
			End:   end,
			Text:  strings.Join(texts, " "),
		})
	}

	for _, seg := range segments[1:] {
		if seg.Start-end > interval {
			emit()
			texts = []string{seg.Text}
			start = seg.Start
		} else {
			texts = append(texts, seg.Text)
		}
		end = seg.End
	}
	emit()

	return out
}

// Validate rejects segments whose times cannot be rendered
func Validate(segments []transcript.Segment) error {
	for i, s := range segments {
		switch {
		case math.IsNaN(s.Start) || math.IsNaN(s.End) || math.IsInf(s.Start, 0) || math.IsInf(s.End, 0):
			return fmt.Errorf("segment %d: non-finite time", i)
		case s.Start < 0 || s.End < 0:
			return fmt.Errorf("segment %d: negative time", i)
		case s.Start > s.End:
			return fmt.Errorf("segment %d: start %.3f after end %.3f", i, s.Start, s.End)
		}
	}
	return nil
}

// clock formats seconds as MM:SS. Minutes are not wrapped into hours.
func clock(sec float64) string {
	return fmt.Sprintf("%02d:%02d", int(sec/60), int(math.Mod(sec, 60)))
}

// duration formats seconds as HH:MM:SS
func duration(sec float64) string {
	return fmt.Sprintf("%02d:%02d:%02d", int(sec/3600), int(math.Mod(sec, 3600)/60), int(math.Mod(sec, 60)))
}
