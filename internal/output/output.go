package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/nguyentantai21042004/digest-flow/internal/catalog"
	"github.com/nguyentantai21042004/digest-flow/internal/media"
	"github.com/nguyentantai21042004/digest-flow/internal/pipeline"
)

type Formatter struct {
	w  io.Writer
	st styles
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w, st: newStyles(lipgloss.NewRenderer(w))}
}

// RunReport prints the outcome of every stage and where the files are
func (f *Formatter) RunReport(res pipeline.Result) {
	title := res.Title
	if title == "" {
		title = res.URL
	}
	fmt.Fprintf(f.w, "\n%s\n", f.st.title.Render("🎬 "+title))
	fmt.Fprintf(f.w, "%s\n", f.st.divider.Render(strings.Repeat("─", 40)))

	for _, o := range res.Outcomes {
		line := fmt.Sprintf("%s %-16s %s", f.statusIcon(o.Status), o.Stage, o.Status)
		if o.Detail != "" {
			line += f.st.dim.Render(" (" + o.Detail + ")")
		}
		fmt.Fprintf(f.w, "  %s\n", line)
	}

	if len(res.Degraded) > 0 {
		fmt.Fprintf(f.w, "\n%s\n", f.st.warn.Render("⚠️  Degraded: "+strings.Join(res.Degraded, ", ")))
		for _, d := range res.Degraded {
			if hint := degradedHint(d); hint != "" {
				fmt.Fprintf(f.w, "   %s\n", f.st.dim.Render(hint))
			}
		}
	}

	if res.Folder != "" {
		fmt.Fprintf(f.w, "\n📁 %s %s/\n", f.st.label.Render("Folder:"), res.Folder)
		a := res.Artifacts
		for _, path := range []string{a.ProcessedAudio, a.Transcript, a.Summary, a.SummaryDocx} {
			if path == "" {
				continue
			}
			rel, err := filepath.Rel(res.Folder, path)
			if err != nil {
				rel = path
			}
			fmt.Fprintf(f.w, "   ├── %s\n", rel)
		}
	}

	if res.Completed {
		fmt.Fprintf(f.w, "\n%s %s\n", f.st.ok.Render("✅ Processing complete!"), f.st.dim.Render("("+formatDuration(res.Elapsed)+")"))
	}
}

// Interrupted tells the user the run can be resumed
func (f *Formatter) Interrupted() {
	fmt.Fprintf(f.w, "\n%s\n", f.st.warn.Render("⚠️  Process interrupted by user"))
	fmt.Fprintf(f.w, "💾 Progress has been auto-saved. Run the same command again to resume.\n")
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "%s\n", f.st.err.Render("❌ "+msg))
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "%s\n", f.st.ok.Render("✅ "+msg))
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "%s\n", f.st.warn.Render("⚠️  "+msg))
}

func (f *Formatter) SourceListHeader() {
	fmt.Fprintf(f.w, "%s\n\n", f.st.title.Render("📁 Sources:"))
}

// SourceListItem shows one source folder and how far it got
func (f *Formatter) SourceListItem(name string, completed, transcribed, summarized bool, degraded []string) {
	status := f.st.dim.Render(" (in progress)")
	switch {
	case completed && summarized:
		status = " ✅"
	case completed && transcribed:
		status = " 📝"
	case completed:
		status = f.st.warn.Render(" ⚠️  audio only")
	}
	fmt.Fprintf(f.w, "  %s%s\n", name, status)
	if len(degraded) > 0 {
		fmt.Fprintf(f.w, "    %s\n", f.st.dim.Render("degraded: "+strings.Join(degraded, ", ")))
	}
}

func (f *Formatter) HistoryHeader() {
	fmt.Fprintf(f.w, "\n%s\n\n", f.st.title.Render("🕘 Recent runs:"))
}

func (f *Formatter) HistoryItem(r catalog.Run) {
	took := ""
	if r.FinishedAt != nil {
		took = " " + formatDuration(r.FinishedAt.Sub(r.StartedAt))
	}
	name := r.Title
	if name == "" {
		name = r.URL
	}
	fmt.Fprintf(f.w, "  %s %s %s%s\n",
		f.st.dim.Render(r.StartedAt.Format("2006-01-02 15:04")),
		f.runStatus(r.Status),
		name,
		f.st.dim.Render(took))
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  %s %s: %s\n", f.st.ok.Render("✅"), name, detail)
	} else {
		fmt.Fprintf(f.w, "  %s %s: %s\n", f.st.err.Render("❌"), name, detail)
	}
}

func (f *Formatter) CompressReport(r media.CompressReport) {
	if r.Converted == 0 && r.Failed == 0 {
		f.Info("No WAV files found")
		return
	}
	f.Success(fmt.Sprintf("Converted %d file(s), saved %s", r.Converted, formatBytes(r.BytesSaved)))
	if r.Failed > 0 {
		f.Warning(fmt.Sprintf("%d file(s) failed to convert", r.Failed))
	}
}

func (f *Formatter) statusIcon(status string) string {
	switch status {
	case pipeline.StatusRan:
		return f.st.ok.Render("✓")
	case pipeline.StatusSkipped:
		return f.st.dim.Render("↷")
	case pipeline.StatusDegraded:
		return f.st.warn.Render("!")
	default:
		return f.st.err.Render("✗")
	}
}

func (f *Formatter) runStatus(status string) string {
	switch status {
	case catalog.StatusCompleted:
		return f.st.ok.Render(status)
	case catalog.StatusInterrupted, catalog.StatusRunning:
		return f.st.warn.Render(status)
	default:
		return f.st.err.Render(status)
	}
}

func degradedHint(feature string) string {
	switch feature {
	case string(pipeline.StageTranscription):
		return "Install whisper.cpp (set asr.model_path) or whisperx to enable transcription"
	case string(pipeline.StageSilenceRemoval):
		return "Silence removal used a fallback; check that ffmpeg is installed"
	case "overview":
		return "Gemini overview unavailable; check summary.gemini.api_keys"
	default:
		return ""
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
