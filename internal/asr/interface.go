package asr

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

// ErrUnavailable means no speech recognition engine is installed
var ErrUnavailable = errors.New("speech recognition unavailable")

// Transcriber turns an audio file into ordered, timed segments
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) ([]transcript.Segment, error)
}
