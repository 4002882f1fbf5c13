package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	in := []Segment{{0, 1.5, "hello"}, {2, 3.25, "xin chào"}}

	if err := Save(path, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Load() len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("segment %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveEmptyWritesList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	if err := Save(path, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("file = %q, want %q", data, "[]\n")
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	if err := os.WriteFile(path, []byte(`[{"start": 1,`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on truncated JSON")
	}
}
