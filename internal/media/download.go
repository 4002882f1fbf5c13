package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Download runs yt-dlp and extracts a low bitrate audio track, enough for speech.
// --print after_move:... reports the final title and path once post-processing
// is done, one per line, and implies --quiet.
func (d *implDownloader) Download(ctx context.Context, url, destDir string) (string, string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", "", fmt.Errorf("create download dir: %w", err)
	}

	d.logger.Info(ctx, "Downloading audio from %s", url)

	args := []string{
		"--no-playlist",
		"--no-warnings",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", d.cfg.AudioFormat,
		"--audio-quality", d.cfg.AudioQuality,
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--print", "after_move:title",
		"--print", "after_move:filepath",
		url,
	}

	out, err := d.executor.Execute(ctx, d.cfg.Binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		return "", "", fmt.Errorf("%w: yt-dlp: %v", ErrDownload, err)
	}

	title, path, err := parsePrinted(out)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if _, err := os.Stat(path); err != nil {
		return "", "", fmt.Errorf("%w: audio file not found after download: %s", ErrDownload, path)
	}

	d.logger.Info(ctx, "Downloaded: %s", path)
	return path, title, nil
}

// parsePrinted reads the last title/filepath pair printed by yt-dlp
func parsePrinted(out string) (string, string, error) {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return "", "", fmt.Errorf("unexpected yt-dlp output: %q", out)
	}
	title, path := lines[len(lines)-2], lines[len(lines)-1]
	if title == "NA" {
		title = "video"
	}
	return title, path, nil
}
