package build

import (
	"errors"
	"fmt"
	"time"

	"github.com/Konfuzian/claude-code-meta/internal/linkverify"
	"github.com/Konfuzian/claude-code-meta/internal/metrics"
)

// Outcome is the overall result of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report summarizes one build run.
type Report struct {
	BuildID string
	Start   time.Time
	End     time.Time

	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult

	Documents   int
	Pages       int
	BrokenLinks []linkverify.BrokenLink

	Warnings []string
	Errors   []error
	Outcome  Outcome
}

func newReport(buildID string, start time.Time) *Report {
	return &Report{
		BuildID:        buildID,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// AddWarning records a non-fatal problem.
func (r *Report) AddWarning(msg string) { r.Warnings = append(r.Warnings, msg) }

// RecordStageResult stores the result of a stage and emits it to the recorder.
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.StageResults[stage] = res
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	case StageResultSkipped:
		// No counter for skipped stages.
	}
}

// Finish sets the end time of the report.
func (r *Report) Finish(end time.Time) { r.End = end }

// Duration is the wall time between Start and End.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// DeriveOutcome sets Outcome from the recorded errors and warnings.
func (r *Report) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s documents=%d pages=%d broken_links=%d warnings=%d stages=%d duration=%s outcome=%s",
		r.BuildID, r.Documents, r.Pages, len(r.BrokenLinks), len(r.Warnings), len(r.StageDurations),
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}
