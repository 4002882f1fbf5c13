package silence

import (
	"context"
	"time"
)

// Remover writes a silence-reduced copy of in to out. It never modifies in.
type Remover interface {
	Name() string
	Remove(ctx context.Context, in, out string) (Result, error)
}

// Codec turns audio files into PCM streams and back
type Codec interface {
	Decode(ctx context.Context, path string, sampleRate int) (AudioStream, error)
	Encode(ctx context.Context, stream AudioStream, path string) error
}

// Result describes what a Remover produced
type Result struct {
	Method         string
	InputDuration  time.Duration // zero when the method cannot measure it
	OutputDuration time.Duration
	// Degraded is set when a fallback tier produced the output.
	Degraded bool
}

// Reduction is the share of input removed, in percent
func (r Result) Reduction() float64 {
	if r.InputDuration <= 0 {
		return 0
	}
	return float64(r.InputDuration-r.OutputDuration) / float64(r.InputDuration) * 100
}
