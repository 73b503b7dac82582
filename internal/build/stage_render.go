package build

import (
	"context"
	"strings"

	"github.com/Konfuzian/claude-code-meta/internal/content"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/markdown"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
	"github.com/Konfuzian/claude-code-meta/internal/theme"
)

// NotFoundFile is the output file of the 404 page.
const NotFoundFile = "404.html"

func stageRenderPages(ctx context.Context, st *State) error {
	site := theme.NewSite(st.Config, st.Year, st.SidebarHome)
	renderer := markdown.NewRenderer()

	for _, doc := range st.Catalog.Documents() {
		if err := ctx.Err(); err != nil {
			return NewCanceledStageError(StageRenderPages, err)
		}
		res, err := renderer.Render(doc.Body, docResolver(st.Catalog, site, doc))
		if err != nil {
			return NewFatalStageError(StageRenderPages, serrors.RenderFailed(doc.ID, err))
		}
		sidebar, _ := st.Sidebars.SidebarFor(doc.ID)
		page := site.NewDocPage(theme.DocPageInput{
			Doc:      doc,
			Body:     res.HTML,
			Headings: res.Headings,
			Sidebar:  sidebar,
			Docs:     st.Catalog,
		})
		html, err := site.RenderString(ctx, page)
		if err != nil {
			return NewFatalStageError(StageRenderPages, serrors.RenderFailed(doc.Permalink, err))
		}
		if err := st.AddPage(doc.Permalink, []byte(html)); err != nil {
			return NewFatalStageError(StageRenderPages, err)
		}
	}

	html, err := site.RenderString(ctx, site.HomePage())
	if err != nil {
		return NewFatalStageError(StageRenderPages, serrors.RenderFailed(st.Config.BaseURL, err))
	}
	if err := st.AddPage(st.Config.BaseURL, []byte(html)); err != nil {
		return NewFatalStageError(StageRenderPages, err)
	}

	html, err = site.RenderString(ctx, site.NotFoundPage())
	if err != nil {
		return NewFatalStageError(StageRenderPages, serrors.RenderFailed(NotFoundFile, err))
	}
	st.Pages = append(st.Pages, RenderedPage{
		URL:  st.Config.BaseURL + NotFoundFile,
		File: NotFoundFile,
		HTML: []byte(html),
	})

	observability.InfoContext(ctx, "Pages rendered", logfields.Count(len(st.Pages)))
	return nil
}

// docResolver rewrites link destinations of one document: references to
// other markdown files become their permalinks and absolute site paths get
// the base URL. Anything else is left as written.
func docResolver(catalog *content.Catalog, site *theme.Site, from *content.Document) markdown.Resolver {
	return func(dest string) (string, bool) {
		if markdown.IsDocReference(dest) {
			ref, suffix := markdown.SplitFragment(dest)
			target, ok := catalog.ResolveReference(from, ref)
			if !ok {
				return "", false
			}
			return target.Permalink + suffix, true
		}
		if strings.HasPrefix(dest, "/") {
			return site.URL(dest), true
		}
		return "", false
	}
}
