package build

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/linkverify"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
)

func stageCheckLinks(ctx context.Context, st *State) error {
	routes := linkverify.NewRoutes()
	pages := make([]linkverify.Page, 0, len(st.Pages))
	for _, p := range st.Pages {
		if p.Route {
			routes.Add(p.URL)
		}
		pages = append(pages, linkverify.Page{URL: p.URL, HTML: p.HTML})
	}
	if err := addStaticRoutes(routes, st.Config); err != nil {
		return NewFatalStageError(StageCheckLinks, serrors.OutputError("scan static files", err))
	}

	verifier := linkverify.NewVerifier(st.Config.URL, st.Config.BaseURL, routes)
	broken, err := verifier.VerifyPages(ctx, pages)
	if err != nil {
		return err
	}
	st.Report.BrokenLinks = broken
	if st.recorder != nil {
		st.recorder.SetBrokenLinks(len(broken))
	}
	if len(broken) == 0 {
		observability.DebugContext(ctx, "No broken links", logfields.Count(routes.Len()))
		return nil
	}

	for _, b := range broken {
		observability.WarnContext(ctx, "Broken link",
			logfields.Page(b.Page),
			logfields.Link(b.Href),
			logfields.URL(b.Resolved))
	}
	if st.Config.OnBrokenLinks == config.BrokenLinksThrow {
		return NewFatalStageError(StageCheckLinks, serrors.BrokenLinks(len(broken)))
	}
	warn := serrors.BrokenLinks(len(broken))
	warn.Severity = serrors.SeverityWarning
	return NewWarnStageError(StageCheckLinks, warn)
}

// addStaticRoutes registers every file of the static directory as a route.
// A missing static directory contributes nothing.
func addStaticRoutes(routes *linkverify.Routes, cfg *config.Config) error {
	root := cfg.StaticPath()
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		routes.Add(cfg.BaseURL + filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
