package silence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/pkg/executor"
)

// PCMRemover decodes to PCM, reduces in process and encodes the result
type PCMRemover struct {
	codec      Codec
	opts       Options
	sampleRate int
	logger     logger.Logger
}

// NewPCMRemover creates the amplitude-based tier
func NewPCMRemover(codec Codec, opts Options, sampleRate int, log logger.Logger) *PCMRemover {
	return &PCMRemover{codec: codec, opts: opts, sampleRate: sampleRate, logger: log}
}

func (r *PCMRemover) Name() string { return "pcm" }

func (r *PCMRemover) Remove(ctx context.Context, in, out string) (Result, error) {
	if r.codec == nil {
		return Result{}, errors.New("no audio codec available")
	}
	stream, err := r.codec.Decode(ctx, in, r.sampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", in, err)
	}

	reduced, keep := Reduce(stream, r.opts)
	if keep == nil {
		r.logger.Info(ctx, "No removable silence found, keeping original audio")
	} else {
		r.logger.Debug(ctx, "Keeping %d non-silent spans", len(keep))
	}

	if err := r.codec.Encode(ctx, reduced, out); err != nil {
		return Result{}, fmt.Errorf("encode %s: %w", out, err)
	}
	return Result{
		Method:         r.Name(),
		InputDuration:  stream.Duration(),
		OutputDuration: reduced.Duration(),
	}, nil
}

// FilterRemover approximates PCMRemover with ffmpeg's streaming silenceremove filter
type FilterRemover struct {
	executor   executor.Executor
	binary     string
	opts       Options
	bitrate    string
	sampleRate int
}

// NewFilterRemover creates the filter-based tier
func NewFilterRemover(exec executor.Executor, binary string, opts Options, bitrate string, sampleRate int) *FilterRemover {
	return &FilterRemover{executor: exec, binary: binary, opts: opts, bitrate: bitrate, sampleRate: sampleRate}
}

func (r *FilterRemover) Name() string { return "filter" }

// filterGraph keeps leading audio and drops every later silent run longer
// than MinSilenceMs, leaving KeepSilenceMs of it in place
func (r *FilterRemover) filterGraph() string {
	minSec := float64(r.opts.MinSilenceMs) / 1000
	keepSec := float64(r.opts.KeepSilenceMs) / 1000
	return fmt.Sprintf(
		"silenceremove=start_periods=1:start_duration=%g:start_threshold=%gdB:start_silence=%g:"+
			"stop_periods=-1:stop_duration=%g:stop_threshold=%gdB:stop_silence=%g:detection=peak",
		minSec, r.opts.ThresholdDB, keepSec,
		minSec, r.opts.ThresholdDB, keepSec,
	)
}

func (r *FilterRemover) Remove(ctx context.Context, in, out string) (Result, error) {
	args := []string{
		"-i", in,
		"-af", r.filterGraph(),
		"-acodec", "libmp3lame",
		"-ab", r.bitrate,
		"-ar", fmt.Sprint(r.sampleRate),
		"-y",
		out,
	}
	if _, err := r.executor.Execute(ctx, r.binary, args...); err != nil {
		return Result{}, fmt.Errorf("ffmpeg silenceremove: %w", err)
	}
	return Result{Method: r.Name()}, nil
}

// CopyRemover copies the input through unchanged
type CopyRemover struct{}

func (r *CopyRemover) Name() string { return "copy" }

func (r *CopyRemover) Remove(ctx context.Context, in, out string) (Result, error) {
	if err := copyFile(in, out); err != nil {
		return Result{}, fmt.Errorf("copy audio: %w", err)
	}
	return Result{Method: r.Name()}, nil
}

func copyFile(src, dst string) error {
	s, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer s.Close()

	d, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(d, s); err != nil {
		d.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return d.Close()
}

// Chain tries each tier in order until one succeeds
type Chain struct {
	tiers  []Remover
	logger logger.Logger
}

// NewChain creates a fallback chain
func NewChain(log logger.Logger, tiers ...Remover) *Chain {
	return &Chain{tiers: tiers, logger: log}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.tiers))
	for _, t := range c.tiers {
		names = append(names, t.Name())
	}
	return strings.Join(names, ">")
}

func (c *Chain) Remove(ctx context.Context, in, out string) (Result, error) {
	var errs []error
	for i, tier := range c.tiers {
		res, err := tier.Remove(ctx, in, out)
		if err == nil {
			// a pass-through copy only stands in for removal that could not run
			_, passthrough := tier.(*CopyRemover)
			res.Degraded = i > 0 || passthrough
			return res, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		c.logger.Warn(ctx, "Silence removal via %s failed: %v", tier.Name(), err)
		_ = os.Remove(out)
		errs = append(errs, err)
	}
	return Result{}, fmt.Errorf("all silence removal methods failed: %w", errors.Join(errs...))
}
