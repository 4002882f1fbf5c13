package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/digest-flow/internal/logger"
)

// CompressReport summarises a CompressDir run
type CompressReport struct {
	Converted  int
	Failed     int
	BytesSaved int64
}

// CompressDir converts every .wav under root to an MP3 next to it at the
// configured bitrate and deletes the WAV once the MP3 exists.
func CompressDir(ctx context.Context, t Transcoder, root, bitrate string, sampleRate int, log logger.Logger) (CompressReport, error) {
	var wavs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".wav") {
			wavs = append(wavs, path)
		}
		return nil
	})
	if err != nil {
		return CompressReport{}, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(wavs)

	var report CompressReport
	if len(wavs) == 0 {
		log.Info(ctx, "No WAV files found under %s", root)
		return report, nil
	}
	log.Info(ctx, "Found %d WAV file(s) to convert", len(wavs))

	for i, wav := range wavs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		mp3 := strings.TrimSuffix(wav, filepath.Ext(wav)) + ".mp3"
		before, err := os.Stat(wav)
		if err != nil {
			log.Warn(ctx, "[%d/%d] Skipping %s: %v", i+1, len(wavs), wav, err)
			report.Failed++
			continue
		}

		if err := t.Transcode(ctx, wav, mp3, bitrate, sampleRate); err != nil {
			log.Warn(ctx, "[%d/%d] Conversion failed for %s: %v", i+1, len(wavs), wav, err)
			report.Failed++
			continue
		}

		after, err := os.Stat(mp3)
		if err != nil {
			log.Warn(ctx, "[%d/%d] Converted file missing for %s: %v", i+1, len(wavs), wav, err)
			report.Failed++
			continue
		}
		if err := os.Remove(wav); err != nil {
			log.Warn(ctx, "Could not delete %s: %v", wav, err)
		}

		saved := before.Size() - after.Size()
		report.BytesSaved += saved
		report.Converted++
		log.Info(ctx, "[%d/%d] %s: %.1f MB -> %.1f MB", i+1, len(wavs), filepath.Base(wav),
			float64(before.Size())/(1024*1024), float64(after.Size())/(1024*1024))
	}

	return report, nil
}
