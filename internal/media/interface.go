package media

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/digest-flow/internal/silence"
)

// ErrDownload marks a failed download; the run cannot continue without audio
var ErrDownload = errors.New("download failed")

// Downloader fetches the audio track of a URL
type Downloader interface {
	// Download stores the audio under destDir and returns its path and the media title.
	Download(ctx context.Context, url, destDir string) (path string, title string, err error)
}

// Transcoder converts audio files with ffmpeg
type Transcoder interface {
	Transcode(ctx context.Context, in, out, bitrate string, sampleRate int) error
	silence.Codec
}
