package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/silence"
)

// fakeExecutor answers every command with a canned stdout and optionally runs
// a side effect, e.g. creating the file a real tool would write.
type fakeExecutor struct {
	stdout string
	err    error
	effect func(args []string)
	calls  [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.effect != nil {
		f.effect(args)
	}
	return f.stdout, f.err
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func (f *fakeExecutor) LookPath(name string) bool { return true }

func testDownloadConfig() config.DownloadConfig {
	return config.DownloadConfig{Binary: "yt-dlp", AudioFormat: "mp3", AudioQuality: "32K"}
}

func testAudioConfig() config.AudioConfig {
	return config.AudioConfig{Bitrate: "32k", SampleRate: 16000, FFmpegBinary: "ffmpeg"}
}

func TestParsePrinted(t *testing.T) {
	tests := []struct {
		name      string
		out       string
		wantTitle string
		wantPath  string
		wantErr   bool
	}{
		{"title and path", "My Talk\n/tmp/dl/My Talk.mp3\n", "My Talk", "/tmp/dl/My Talk.mp3", false},
		{"leading noise", "[info] x\nT\n/p.mp3", "T", "/p.mp3", false},
		{"missing title", "NA\n/p.mp3", "video", "/p.mp3", false},
		{"too short", "/p.mp3\n", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, path, err := parsePrinted(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePrinted() error = %v, wantErr %v", err, tt.wantErr)
			}
			if title != tt.wantTitle || path != tt.wantPath {
				t.Errorf("parsePrinted() = %q, %q, want %q, %q", title, path, tt.wantTitle, tt.wantPath)
			}
		})
	}
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "Talk.mp3")
	exec := &fakeExecutor{
		stdout: "Talk\n" + audio + "\n",
		effect: func([]string) { _ = os.WriteFile(audio, []byte("mp3"), 0644) },
	}

	d := NewDownloader(testDownloadConfig(), exec, logger.Nop())
	path, title, err := d.Download(context.Background(), "https://example.com/v", dir)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if path != audio || title != "Talk" {
		t.Errorf("Download() = %q, %q", path, title)
	}

	cmd := strings.Join(exec.calls[0], " ")
	for _, want := range []string{"yt-dlp", "-x", "--audio-format mp3", "--audio-quality 32K", "https://example.com/v"} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}
}

func TestDownloadFailureIsErrDownload(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("HTTP Error 404")}
	d := NewDownloader(testDownloadConfig(), exec, logger.Nop())

	_, _, err := d.Download(context.Background(), "https://example.com/gone", t.TempDir())
	if !errors.Is(err, ErrDownload) {
		t.Errorf("Download() error = %v, want ErrDownload", err)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	exec := &fakeExecutor{stdout: "T\n/does/not/exist.mp3\n"}
	d := NewDownloader(testDownloadConfig(), exec, logger.Nop())

	_, _, err := d.Download(context.Background(), "u", t.TempDir())
	if !errors.Is(err, ErrDownload) {
		t.Errorf("Download() error = %v, want ErrDownload", err)
	}
}

func TestSampleBytesRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 1234}
	out := bytesToSamples(samplesToBytes(in))
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestDecode(t *testing.T) {
	exec := &fakeExecutor{stdout: string(samplesToBytes([]int16{5, -5, 7}))}
	tr := NewTranscoder(testAudioConfig(), t.TempDir(), exec, logger.Nop())

	stream, err := tr.Decode(context.Background(), "in.mp3", 16000)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(stream.Samples) != 3 || stream.Samples[1] != -5 || stream.SampleRate != 16000 {
		t.Errorf("Decode() = %+v", stream)
	}
	if !strings.Contains(strings.Join(exec.calls[0], " "), "-f s16le") {
		t.Errorf("decode command = %v", exec.calls[0])
	}
}

func TestEncodeCleansTempFile(t *testing.T) {
	tmp := t.TempDir()
	var rawPath string
	exec := &fakeExecutor{effect: func(args []string) {
		for i, a := range args {
			if a == "-i" {
				rawPath = args[i+1]
			}
		}
	}}
	tr := NewTranscoder(testAudioConfig(), tmp, exec, logger.Nop())

	stream := silence.AudioStream{Samples: []int16{1, 2, 3}, SampleRate: 16000}
	if err := tr.Encode(context.Background(), stream, filepath.Join(tmp, "out.mp3")); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if rawPath == "" {
		t.Fatal("encode command had no input")
	}
	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Errorf("temp pcm %s still exists", rawPath)
	}
}

func TestCompressDir(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "Talk", "audio")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	wav := filepath.Join(sub, "a.wav")
	if err := os.WriteFile(wav, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &fakeExecutor{effect: func(args []string) {
		out := args[len(args)-1]
		_ = os.WriteFile(out, make([]byte, 512), 0644)
	}}
	tr := NewTranscoder(testAudioConfig(), t.TempDir(), exec, logger.Nop())

	report, err := CompressDir(context.Background(), tr, root, "32k", 16000, logger.Nop())
	if err != nil {
		t.Fatalf("CompressDir() error = %v", err)
	}
	if report.Converted != 1 || report.Failed != 0 {
		t.Errorf("report = %+v, want 1 converted", report)
	}
	if report.BytesSaved != 4096-512 {
		t.Errorf("BytesSaved = %d, want %d", report.BytesSaved, 4096-512)
	}
	if _, err := os.Stat(wav); !os.IsNotExist(err) {
		t.Error("wav not deleted after conversion")
	}
	if _, err := os.Stat(filepath.Join(sub, "a.mp3")); err != nil {
		t.Errorf("mp3 missing: %v", err)
	}
}

func TestCompressDirKeepsWavOnFailure(t *testing.T) {
	root := t.TempDir()
	wav := filepath.Join(root, "b.WAV")
	if err := os.WriteFile(wav, []byte("riff"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := NewTranscoder(testAudioConfig(), t.TempDir(), &fakeExecutor{err: errors.New("no lame")}, logger.Nop())
	report, err := CompressDir(context.Background(), tr, root, "32k", 16000, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 {
		t.Errorf("report = %+v, want 1 failure", report)
	}
	if _, err := os.Stat(wav); err != nil {
		t.Error("wav removed after failed conversion")
	}
}
