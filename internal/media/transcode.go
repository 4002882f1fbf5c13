package media

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"

	"github.com/nguyentantai21042004/digest-flow/internal/silence"
)

// Transcode converts in to a mono MP3 at the given bitrate and sample rate
func (t *implTranscoder) Transcode(ctx context.Context, in, out, bitrate string, sampleRate int) error {
	args := []string{
		"-i", in,
		"-vn",
		"-ac", "1",
		"-acodec", "libmp3lame",
		"-ab", bitrate,
		"-ar", strconv.Itoa(sampleRate),
		"-y",
		out,
	}
	if _, err := t.executor.Execute(ctx, t.cfg.FFmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg transcode: %w", err)
	}
	return nil
}

// Decode reads any ffmpeg-readable file as mono signed 16-bit little-endian PCM
func (t *implTranscoder) Decode(ctx context.Context, path string, sampleRate int) (silence.AudioStream, error) {
	args := []string{
		"-i", path,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-threads", "0",
		"-",
	}
	out, err := t.executor.Execute(ctx, t.cfg.FFmpegBinary, args...)
	if err != nil {
		return silence.AudioStream{}, fmt.Errorf("ffmpeg decode: %w", err)
	}
	return silence.AudioStream{Samples: bytesToSamples([]byte(out)), SampleRate: sampleRate}, nil
}

// Encode writes stream to path as MP3 using the configured bitrate
func (t *implTranscoder) Encode(ctx context.Context, stream silence.AudioStream, path string) error {
	if err := os.MkdirAll(t.tempDir, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	raw, err := os.CreateTemp(t.tempDir, "pcm-*.raw")
	if err != nil {
		return fmt.Errorf("create pcm temp file: %w", err)
	}
	defer os.Remove(raw.Name())

	if _, err := raw.Write(samplesToBytes(stream.Samples)); err != nil {
		raw.Close()
		return fmt.Errorf("write pcm: %w", err)
	}
	if err := raw.Close(); err != nil {
		return fmt.Errorf("close pcm: %w", err)
	}

	args := []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(stream.SampleRate),
		"-ac", "1",
		"-i", raw.Name(),
		"-acodec", "libmp3lame",
		"-ab", t.cfg.Bitrate,
		"-y",
		path,
	}
	if _, err := t.executor.Execute(ctx, t.cfg.FFmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	return nil
}

func bytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return samples
}

func samplesToBytes(samples []int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return b
}
