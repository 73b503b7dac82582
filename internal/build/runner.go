package build

import (
	"context"
	"time"

	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
)

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(def.Name, ctx.Err())
			st.Report.Errors = append(st.Report.Errors, se)
			st.Report.RecordStageResult(def.Name, StageResultCanceled, st.recorder)
			return se
		default:
		}

		stageCtx := observability.WithStage(ctx, string(def.Name))
		observability.DebugContext(stageCtx, "Stage started")

		t0 := st.now()
		err := def.Fn(stageCtx, st)
		dur := st.now().Sub(t0)

		st.Report.StageDurations[def.Name] = dur
		if st.recorder != nil {
			st.recorder.ObserveStageDuration(string(def.Name), dur)
		}

		se := classify(def.Name, err)
		if se == nil {
			st.Report.RecordStageResult(def.Name, StageResultSuccess, st.recorder)
			observability.DebugContext(stageCtx, "Stage completed", logfields.DurationMS(float64(dur)/float64(time.Millisecond)))
			continue
		}

		res := se.Kind.result()
		st.Report.RecordStageResult(def.Name, res, st.recorder)
		if res == StageResultWarning {
			st.Report.AddWarning(se.Error())
			observability.WarnContext(stageCtx, "Stage completed with warnings", logfields.Error(se.Err))
			continue
		}

		st.Report.Errors = append(st.Report.Errors, se)
		return se
	}
	return nil
}
