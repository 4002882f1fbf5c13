package pipeline

import (
	"context"
	"errors"
	"time"
)

// ErrInterrupted is returned when the context is canceled mid-run. The last
// committed checkpoint is left as it was.
var ErrInterrupted = errors.New("pipeline interrupted")

// Stage names, also used as degraded feature names in the checkpoint
type Stage string

const (
	StageDownload       Stage = "download"
	StageSilenceRemoval Stage = "silence_removal"
	StageTranscription  Stage = "transcription"
	StageSummary        Stage = "summary"
)

// Stage outcomes
const (
	StatusRan      = "ran"
	StatusSkipped  = "skipped"
	StatusDegraded = "degraded"
	StatusFailed   = "failed"
)

// Pipeline takes one URL through every stage, resuming from its checkpoint
type Pipeline interface {
	Process(ctx context.Context, url string) (Result, error)
}

// Outcome is what happened to one stage in this run
type Outcome struct {
	Stage  Stage
	Status string
	Detail string
}

// Artifacts are the files of a source folder. Empty when not produced.
type Artifacts struct {
	RawAudio       string
	ProcessedAudio string
	Transcript     string
	Summary        string
	SummaryDocx    string
}

// Result describes a run. It is filled as far as the run got, even on error.
type Result struct {
	URL       string
	Title     string
	Folder    string
	Outcomes  []Outcome
	Artifacts Artifacts
	Degraded  []string
	Completed bool
	Elapsed   time.Duration
}

func (r *Result) add(stage Stage, status, detail string) {
	r.Outcomes = append(r.Outcomes, Outcome{Stage: stage, Status: status, Detail: detail})
}
