package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Konfuzian/claude-code-meta/internal/content"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/markdown"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
)

func stageLoadContent(ctx context.Context, st *State) error {
	cfg := st.Config
	discovery := content.NewDiscovery(cfg.DocsDir(), content.Options{
		BaseURL:       cfg.BaseURL,
		RouteBasePath: cfg.Docs.RouteBasePath,
		IncludeDrafts: st.Request.Options.IncludeDrafts,
	})
	catalog, err := discovery.Discover()
	if err != nil {
		if _, ok := serrors.As(err); !ok {
			err = serrors.ContentError(cfg.DocsDir(), err)
		}
		return NewFatalStageError(StageLoadContent, err)
	}
	st.Catalog = catalog
	st.Report.Documents = catalog.Len()

	for _, doc := range catalog.Documents() {
		for _, link := range markdown.ExtractLinks(doc.Body) {
			if link.Kind == markdown.LinkKindReferenceDefinition ||
				!markdown.IsLocal(link.Destination) || !markdown.IsDocReference(link.Destination) {
				continue
			}
			ref, _ := markdown.SplitFragment(link.Destination)
			if _, ok := catalog.ResolveReference(doc, ref); ok {
				continue
			}
			st.Report.AddWarning(fmt.Sprintf("%s:%d: unresolved document reference %s", doc.Source, link.Line, link.Destination))
			observability.WarnContext(ctx, "Unresolved document reference",
				logfields.File(doc.Source),
				slog.Int("line", link.Line),
				logfields.Link(link.Destination))
		}
	}
	return nil
}
