// Package silence removes silent stretches from a recording.
//
// Detection works on 16-bit mono PCM in millisecond units and mirrors the
// usual split-on-silence approach: a window of MinSilenceMs slides over the
// stream one SeekStepMs at a time and is silent when its RMS level, in dBFS,
// is at or below ThresholdDB. Everything else is kept, padded by KeepSilenceMs.
package silence

import (
	"math"
	"time"
)

// fullScale is the magnitude of the largest int16 sample
const fullScale = 32768.0

// AudioStream is mono 16-bit PCM at a fixed sample rate
type AudioStream struct {
	Samples    []int16
	SampleRate int
}

// Span is a half-open interval [StartMs, EndMs) on a stream's timeline
type Span struct {
	StartMs int
	EndMs   int
}

func (s Span) Len() int { return s.EndMs - s.StartMs }

// DurationMs is the stream length in whole milliseconds
func (a AudioStream) DurationMs() int {
	if a.SampleRate <= 0 {
		return 0
	}
	return int(int64(len(a.Samples)) * 1000 / int64(a.SampleRate))
}

// Duration is the exact stream length
func (a AudioStream) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(len(a.Samples)) * int64(time.Second) / int64(a.SampleRate))
}

// sampleAt maps a millisecond offset to a sample index
func (a AudioStream) sampleAt(ms int) int {
	i := int(int64(ms) * int64(a.SampleRate) / 1000)
	if i > len(a.Samples) {
		return len(a.Samples)
	}
	return i
}

// Slice returns the samples covered by span. The result shares memory with a.
func (a AudioStream) Slice(span Span) []int16 {
	return a.Samples[a.sampleAt(span.StartMs):a.sampleAt(span.EndMs)]
}

// dBFS converts an RMS amplitude to decibels relative to full scale
func dBFS(rms float64) float64 {
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/fullScale)
}
