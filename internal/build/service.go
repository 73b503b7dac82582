package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/metrics"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
)

// Status represents the outcome of a build run.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build produced a site.
func (s Status) IsSuccess() bool { return s == StatusSuccess }

// Options tune a single build.
type Options struct {
	// DryRun runs every stage except write_output.
	DryRun bool
	// IncludeDrafts renders documents marked draft.
	IncludeDrafts bool
}

// Request is the input of a build.
type Request struct {
	Config *config.Config
	// OutputDir receives the rendered site. Ignored for dry runs.
	OutputDir string
	Options   Options
}

// Result is the outcome of a build.
type Result struct {
	Status     Status
	Report     *Report
	OutputPath string
	Duration   time.Duration
}

// Service runs builds. It is safe to reuse between builds.
type Service struct {
	recorder metrics.Recorder
	now      func() time.Time
	newID    func() string
}

// NewService creates a service with a noop recorder and the wall clock.
func NewService() *Service {
	return &Service{
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithClock sets the clock used for timings and the copyright year.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Run executes the build pipeline. The returned Result is non-nil whenever
// the request was valid, including failed and canceled builds. Stage failures
// are returned as *StageError wrapping the structured cause.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Config == nil {
		return nil, serrors.ValidationFailed("config", "configuration is required")
	}
	if req.OutputDir == "" && !req.Options.DryRun {
		return nil, serrors.ValidationFailed("output", "output directory is required")
	}

	start := s.now()
	st := &State{
		Request:  req,
		Config:   req.Config,
		Report:   newReport(s.newID(), start),
		Year:     start.Year(),
		recorder: s.recorder,
		now:      s.now,
	}
	ctx = observability.WithBuildID(ctx, st.Report.BuildID)
	observability.InfoContext(ctx, "Build started",
		slog.String("site", req.Config.Title),
		slog.Bool("dry_run", req.Options.DryRun))

	pipeline := NewPipeline().
		Add(StageLoadContent, stageLoadContent).
		Add(StageResolveSidebars, stageResolveSidebars).
		Add(StageRenderPages, stageRenderPages).
		AddIf(req.Config.OnBrokenLinks != config.BrokenLinksIgnore, StageCheckLinks, stageCheckLinks).
		AddIf(!req.Options.DryRun, StageWriteOutput, stageWriteOutput)
	for _, name := range pipeline.Skipped() {
		st.Report.RecordStageResult(name, StageResultSkipped, s.recorder)
	}

	err := RunStages(ctx, st, pipeline.Build())

	report := st.Report
	report.Pages = len(st.Pages)
	report.Finish(s.now())
	report.DeriveOutcome()

	s.recorder.ObserveBuildDuration(report.Duration())
	s.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	s.recorder.SetSiteSize(report.Documents, report.Pages)

	result := &Result{Report: report, Duration: report.Duration()}
	switch {
	case err == nil:
		result.Status = StatusSuccess
		if !req.Options.DryRun {
			result.OutputPath = req.OutputDir
		}
		observability.InfoContext(ctx, "Build completed", slog.String("summary", report.Summary()))
	case report.Outcome == OutcomeCanceled:
		result.Status = StatusCancelled
		observability.WarnContext(ctx, "Build canceled", logfields.Error(err))
	default:
		result.Status = StatusFailed
		observability.ErrorContext(ctx, "Build failed", logfields.Error(err))
	}
	return result, err
}
