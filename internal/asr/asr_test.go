package asr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/digest-flow/internal/config"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	"github.com/nguyentantai21042004/digest-flow/internal/transcript"
)

// fakeExecutor writes a canned output file where the engine expects it
type fakeExecutor struct {
	available map[string]bool
	output    string
	err       error
	calls     [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return "", f.err
	}
	for i, a := range args {
		switch a {
		case "--output-file":
			return "", os.WriteFile(args[i+1]+".json", []byte(f.output), 0644)
		case "--output_dir":
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			return "", os.WriteFile(filepath.Join(args[i+1], base+".json"), []byte(f.output), 0644)
		}
	}
	return "", nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func (f *fakeExecutor) LookPath(name string) bool { return f.available[name] }

func TestParseWhisperJSON(t *testing.T) {
	data := []byte(`{"result":{"language":"en"},"transcription":[
		{"offsets":{"from":0,"to":1500},"text":" Hello"},
		{"offsets":{"from":2000,"to":4250},"text":" world "}]}`)

	got, err := parseWhisperJSON(data)
	if err != nil {
		t.Fatalf("parseWhisperJSON() error = %v", err)
	}
	want := []transcript.Segment{{Start: 0, End: 1.5, Text: "Hello"}, {Start: 2, End: 4.25, Text: "world"}}
	if len(got) != len(want) {
		t.Fatalf("parseWhisperJSON() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseWhisperXJSON(t *testing.T) {
	data := []byte(`{"segments":[{"start":0.031,"end":2.5,"text":" Xin chào"},{"start":3.1234,"end":5,"text":"bye"}]}`)

	got, err := parseWhisperXJSON(data)
	if err != nil {
		t.Fatalf("parseWhisperXJSON() error = %v", err)
	}
	want := []transcript.Segment{{Start: 0.031, End: 2.5, Text: "Xin chào"}, {Start: 3.123, End: 5, Text: "bye"}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := parseWhisperJSON([]byte("{")); err == nil {
		t.Error("parseWhisperJSON() should fail on bad JSON")
	}
	if _, err := parseWhisperXJSON([]byte("nope")); err == nil {
		t.Error("parseWhisperXJSON() should fail on bad JSON")
	}
}

func TestWhisperTranscribe(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "talk_processed_audio.mp3")
	exec := &fakeExecutor{
		available: map[string]bool{"whisper-cli": true},
		output:    `{"transcription":[{"offsets":{"from":0,"to":1000},"text":"hi"}]}`,
	}
	w := &whisperCpp{
		cfg:      config.ASRConfig{BinaryPath: "whisper-cli", ModelPath: "m.bin", Language: "auto", Threads: 2},
		executor: exec,
		logger:   logger.Nop(),
	}

	segs, err := w.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(segs) != 1 || segs[0].Text != "hi" || segs[0].End != 1 {
		t.Errorf("Transcribe() = %+v", segs)
	}
	if _, err := os.Stat(filepath.Join(dir, "talk_processed_audio.json")); !os.IsNotExist(err) {
		t.Error("whisper output file should be removed after parsing")
	}
}

func TestWhisperXTranscribe(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		available: map[string]bool{"whisperx": true},
		output:    `{"segments":[{"start":1,"end":2,"text":"a"}]}`,
	}
	w := &whisperX{
		cfg:      config.ASRConfig{BinaryPath: "whisperx", Model: "base", Language: "vi", Threads: 4},
		tempDir:  dir,
		executor: exec,
		logger:   logger.Nop(),
	}

	segs, err := w.Transcribe(context.Background(), filepath.Join(dir, "x.mp3"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(segs) != 1 || segs[0].Start != 1 {
		t.Errorf("Transcribe() = %+v", segs)
	}
	args := strings.Join(exec.calls[0], " ")
	if !strings.Contains(args, "--language vi") {
		t.Errorf("args = %q, want language flag", args)
	}
}

func TestTranscribeMissingBinary(t *testing.T) {
	w := &whisperCpp{
		cfg:      config.ASRConfig{BinaryPath: "whisper-cli"},
		executor: &fakeExecutor{},
		logger:   logger.Nop(),
	}
	_, err := w.Transcribe(context.Background(), "a.mp3")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Transcribe() error = %v, want ErrUnavailable", err)
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	w := &whisperCpp{
		cfg:      config.ASRConfig{BinaryPath: "whisper-cli"},
		executor: &fakeExecutor{available: map[string]bool{"whisper-cli": true}, err: errors.New("exit 1")},
		logger:   logger.Nop(),
	}
	_, err := w.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.mp3"))
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Errorf("Transcribe() error = %v, want command failure", err)
	}
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Transcribe(context.Background(), "a.mp3")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Transcribe() error = %v, want ErrUnavailable", err)
	}
}

func TestSelect(t *testing.T) {
	model := filepath.Join(t.TempDir(), "ggml-base.bin")
	if err := os.WriteFile(model, []byte("m"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		cfg       config.ASRConfig
		available map[string]bool
		want      string
	}{
		{"auto prefers whisper", config.ASRConfig{Engine: config.EngineAuto, ModelPath: model}, map[string]bool{"whisper-cli": true, "whisperx": true}, "whisper"},
		{"auto without model", config.ASRConfig{Engine: config.EngineAuto}, map[string]bool{"whisper-cli": true, "whisperx": true}, "whisperx"},
		{"auto nothing installed", config.ASRConfig{Engine: config.EngineAuto, ModelPath: model}, nil, "none"},
		{"forced whisperx", config.ASRConfig{Engine: config.EngineWhisperX}, nil, "whisperx"},
		{"forced whisper", config.ASRConfig{Engine: config.EngineWhisper}, nil, "whisper"},
		{"none", config.ASRConfig{Engine: config.EngineNone}, map[string]bool{"whisper-cli": true}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.cfg, t.TempDir(), &fakeExecutor{available: tt.available}, logger.Nop())
			if got.Name() != tt.want {
				t.Errorf("Select() = %s, want %s", got.Name(), tt.want)
			}
		})
	}
}
