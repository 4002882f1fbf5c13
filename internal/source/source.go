// Package source names a unit of work on disk: the sanitized folder for one
// downloaded recording and the artifact paths inside it.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameBytes   = 200
	checkpointName = ".checkpoint.json"
)

var (
	reInvalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// Source is one recording processed end-to-end
type Source struct {
	URL   string
	Title string
	Name  string // sanitized title, also the folder name
}

// New builds a Source from the downloader's title
func New(url, title string) Source {
	return Source{URL: url, Title: title, Name: SanitizeTitle(title)}
}

// SanitizeTitle turns a free-form title into a folder and file name
func SanitizeTitle(title string) string {
	s := reInvalidChars.ReplaceAllString(title, "")
	s = reWhitespace.ReplaceAllString(s, "_")
	s = strings.Trim(s, ". ")
	if len(s) > maxNameBytes {
		s = s[:maxNameBytes]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	if s == "" {
		return "video"
	}
	return s
}

// Layout resolves artifact paths for one Source folder
type Layout struct {
	Root string // folder of this source
	Name string
}

// NewLayout places src under videosDir
func NewLayout(videosDir string, src Source) Layout {
	return Layout{Root: filepath.Join(videosDir, src.Name), Name: src.Name}
}

func (l Layout) AudioDir() string          { return filepath.Join(l.Root, "audio") }
func (l Layout) TranscriptionsDir() string { return filepath.Join(l.Root, "transcriptions") }
func (l Layout) SummariesDir() string      { return filepath.Join(l.Root, "summaries") }
func (l Layout) CheckpointPath() string    { return filepath.Join(l.Root, checkpointName) }

// RawAudio is where the downloaded artifact lives once moved into the folder
func (l Layout) RawAudio(ext string) string {
	return filepath.Join(l.AudioDir(), l.Name+"_original"+ext)
}

func (l Layout) ProcessedAudio() string {
	return filepath.Join(l.AudioDir(), l.Name+"_processed_audio.mp3")
}

func (l Layout) Transcript() string {
	return filepath.Join(l.TranscriptionsDir(), l.Name+"_transcription.json")
}

func (l Layout) Summary() string {
	return filepath.Join(l.SummariesDir(), l.Name+"_summary.md")
}

func (l Layout) SummaryDocx() string {
	return filepath.Join(l.SummariesDir(), l.Name+"_summary.docx")
}

// Ensure creates the folder and its subfolders
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Root, l.AudioDir(), l.TranscriptionsDir(), l.SummariesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists reports whether path is an existing regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
