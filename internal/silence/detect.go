package silence

import "math"

// Options tune detection
type Options struct {
	MinSilenceMs  int
	ThresholdDB   float64
	KeepSilenceMs int
	SeekStepMs    int
}

func (o Options) step() int {
	if o.SeekStepMs <= 0 {
		return 1
	}
	return o.SeekStepMs
}

// energyPrefix returns cumulative sum of squared samples per millisecond frame:
// p[i] is the energy of [0, i) ms.
func energyPrefix(a AudioStream, totalMs int) []float64 {
	p := make([]float64, totalMs+1)
	for ms := 0; ms < totalMs; ms++ {
		var sum float64
		for _, s := range a.Samples[a.sampleAt(ms):a.sampleAt(ms+1)] {
			v := float64(s)
			sum += v * v
		}
		p[ms+1] = p[ms] + sum
	}
	return p
}

// DetectSilence returns the merged silent spans of a
func DetectSilence(a AudioStream, opts Options) []Span {
	total := a.DurationMs()
	minLen := opts.MinSilenceMs
	if minLen <= 0 || total < minLen {
		return nil
	}
	step := opts.step()
	energy := energyPrefix(a, total)

	windowSilent := func(start int) bool {
		from, to := a.sampleAt(start), a.sampleAt(start+minLen)
		if to <= from {
			return true
		}
		rms := math.Sqrt((energy[start+minLen] - energy[start]) / float64(to-from))
		return dBFS(rms) <= opts.ThresholdDB
	}

	lastStart := total - minLen
	starts := make([]int, 0, lastStart/step+2)
	for s := 0; s <= lastStart; s += step {
		starts = append(starts, s)
	}
	// The tail window is always examined even when the step skips over it.
	if lastStart%step != 0 {
		starts = append(starts, lastStart)
	}

	var spans []Span
	for _, s := range starts {
		if !windowSilent(s) {
			continue
		}
		end := s + minLen
		if n := len(spans); n > 0 && s <= spans[n-1].EndMs {
			if end > spans[n-1].EndMs {
				spans[n-1].EndMs = end
			}
			continue
		}
		spans = append(spans, Span{StartMs: s, EndMs: end})
	}
	return spans
}

// DetectNonSilent returns the complement of DetectSilence over the stream
func DetectNonSilent(a AudioStream, opts Options) []Span {
	return complement(DetectSilence(a, opts), a.DurationMs())
}

func complement(silent []Span, total int) []Span {
	var out []Span
	cursor := 0
	for _, s := range silent {
		if s.StartMs > cursor {
			out = append(out, Span{StartMs: cursor, EndMs: s.StartMs})
		}
		if s.EndMs > cursor {
			cursor = s.EndMs
		}
	}
	if cursor < total {
		out = append(out, Span{StartMs: cursor, EndMs: total})
	}
	return out
}

// KeepSpans pads every non-silent span by KeepSilenceMs on both sides,
// clamped to the stream, merging spans the padding makes overlap.
func KeepSpans(a AudioStream, opts Options) []Span {
	return pad(DetectNonSilent(a, opts), opts.KeepSilenceMs, a.DurationMs())
}

func pad(spans []Span, keep, total int) []Span {
	var out []Span
	for _, s := range spans {
		p := Span{StartMs: max(0, s.StartMs-keep), EndMs: min(total, s.EndMs+keep)}
		if n := len(out); n > 0 && p.StartMs <= out[n-1].EndMs {
			if p.EndMs > out[n-1].EndMs {
				out[n-1].EndMs = p.EndMs
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

// Reduce concatenates the keep spans of a in order. When nothing is silent,
// or nothing is audible, a is returned unchanged; the result is never empty
// unless a is.
func Reduce(a AudioStream, opts Options) (AudioStream, []Span) {
	if len(DetectSilence(a, opts)) == 0 {
		return a, nil
	}
	keep := KeepSpans(a, opts)
	if len(keep) == 0 {
		return a, nil
	}

	size := 0
	for _, k := range keep {
		size += len(a.Slice(k))
	}
	if size == 0 {
		return a, nil
	}

	out := make([]int16, 0, size)
	for _, k := range keep {
		out = append(out, a.Slice(k)...)
	}
	return AudioStream{Samples: out, SampleRate: a.SampleRate}, keep
}
