package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
)

// ErrUnsafeOutputDir is returned when the output directory would contain the
// site sources.
var ErrUnsafeOutputDir = errors.New("output directory contains site sources")

// stageWriteOutput renders into a staging directory next to the output and
// swaps it in once complete, so a failed write keeps the previous site.
func stageWriteOutput(ctx context.Context, st *State) error {
	out, err := filepath.Abs(st.Request.OutputDir)
	if err != nil {
		return NewFatalStageError(StageWriteOutput, serrors.OutputError("resolve output directory", err))
	}
	if err := checkOutputDir(out, st.Config.Dir(), st.Config.DocsDir(), st.Config.StaticPath()); err != nil {
		return NewFatalStageError(StageWriteOutput,
			serrors.OutputError("check output directory", err).WithContext("path", out))
	}

	staging := out + ".staging-" + st.Report.BuildID
	if err := os.RemoveAll(staging); err != nil {
		return NewFatalStageError(StageWriteOutput, serrors.OutputError("clear staging directory", err))
	}
	if err := writeSite(ctx, st, staging); err != nil {
		_ = os.RemoveAll(staging)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return NewCanceledStageError(StageWriteOutput, err)
		}
		return NewFatalStageError(StageWriteOutput, serrors.OutputError("write site", err))
	}

	if err := os.RemoveAll(out); err != nil {
		_ = os.RemoveAll(staging)
		return NewFatalStageError(StageWriteOutput, serrors.OutputError("clean output directory", err))
	}
	if err := os.Rename(staging, out); err != nil {
		return NewFatalStageError(StageWriteOutput, serrors.OutputError("promote staging directory", err))
	}
	observability.InfoContext(ctx, "Site written", logfields.Path(out), logfields.Count(len(st.Pages)))
	return nil
}

// checkOutputDir rejects an output directory equal to or enclosing any of the
// source directories, since it is removed before writing.
func checkOutputDir(out string, sources ...string) error {
	for _, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return err
		}
		if within(out, abs) {
			return fmt.Errorf("%w: %s", ErrUnsafeOutputDir, abs)
		}
	}
	return nil
}

// within reports whether child is parent or lies below it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func writeSite(ctx context.Context, st *State, dir string) error {
	//nolint:gosec // published site directories are world-readable
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := copyTree(ctx, st.Config.StaticPath(), dir); err != nil {
		return fmt.Errorf("copy static files: %w", err)
	}
	for _, p := range st.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, filepath.FromSlash(p.File)), p.HTML); err != nil {
			return fmt.Errorf("write %s: %w", p.File, err)
		}
	}
	return nil
}

func writeFile(target string, data []byte) error {
	//nolint:gosec // published site directories are world-readable
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	//nolint:gosec // published site files are world-readable
	return os.WriteFile(target, data, 0o644)
}

// copyTree copies every regular file below src into dst. A missing src is
// not an error.
func copyTree(ctx context.Context, src, dst string) error {
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		return copyFile(p, filepath.Join(dst, rel))
	})
	if errors.Is(err, fs.ErrNotExist) {
		if _, statErr := os.Stat(src); os.IsNotExist(statErr) {
			return nil
		}
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // paths come from walking the static directory
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	//nolint:gosec // published site directories are world-readable
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst) //nolint:gosec // destination is inside the staging directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
