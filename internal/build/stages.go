package build

import (
	"context"
	"errors"
	"fmt"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, st *State) error

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names.
const (
	StageLoadContent     StageName = "load_content"
	StageResolveSidebars StageName = "resolve_sidebars"
	StageRenderPages     StageName = "render_pages"
	StageCheckLinks      StageName = "check_links"
	StageWriteOutput     StageName = "write_output"
)

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
	StageResultSkipped  StageResult = "skipped"
)

func NewFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func NewWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func NewCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// classify turns the error returned by a stage into a StageError. Plain
// errors are fatal unless they come from context cancellation.
func classify(stage StageName, err error) *StageError {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewCanceledStageError(stage, err)
	}
	return NewFatalStageError(stage, err)
}

func (k StageErrorKind) result() StageResult {
	switch k {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	default:
		return StageResultFatal
	}
}

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct {
	defs    []StageDef
	skipped []StageName
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{defs: make([]StageDef, 0, 5)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage when cond is true; otherwise the stage is reported as skipped.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		return p.Add(name, fn)
	}
	p.skipped = append(p.skipped, name)
	return p
}

// Build returns the ordered stage definitions.
func (p *Pipeline) Build() []StageDef { return append([]StageDef(nil), p.defs...) }

// Skipped lists the stages left out by AddIf.
func (p *Pipeline) Skipped() []StageName { return append([]StageName(nil), p.skipped...) }
