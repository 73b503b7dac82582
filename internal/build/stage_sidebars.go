package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/nav"
	"github.com/Konfuzian/claude-code-meta/internal/observability"
)

// DefaultSidebarID names the sidebar generated when no sidebars file exists.
const DefaultSidebarID = "docsSidebar"

func stageResolveSidebars(ctx context.Context, st *State) error {
	file := st.Config.SidebarFile()
	declared, err := nav.Load(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		observability.WarnContext(ctx, "No sidebars file, using the autogenerated sidebar", logfields.Path(file))
		declared = nav.AutogeneratedSidebars(DefaultSidebarID, st.Catalog)
	case err != nil:
		return NewFatalStageError(StageResolveSidebars,
			serrors.Wrap(err, serrors.CategoryNavigation, serrors.SeverityFatal, "sidebars could not be loaded").
				WithContext("path", file))
	}

	sidebars := declared.Expand(st.Catalog)
	if err := sidebars.Validate(st.Catalog); err != nil {
		return NewFatalStageError(StageResolveSidebars, err)
	}
	if err := checkNavbarSidebars(st.Config, sidebars); err != nil {
		return NewFatalStageError(StageResolveSidebars, err)
	}

	home := make(map[string]string, len(sidebars.IDs()))
	for _, sb := range sidebars.All() {
		first, ok := sb.First()
		if !ok {
			continue
		}
		if doc, ok := st.Catalog.ByID(first); ok {
			home[sb.ID] = doc.Permalink
		}
	}
	st.Sidebars = sidebars
	st.SidebarHome = home

	if unlisted := sidebars.Unlisted(st.Catalog.IDs()); len(unlisted) > 0 {
		observability.DebugContext(ctx, "Documents not referenced by any sidebar", logfields.Count(len(unlisted)))
	}
	return nil
}

func checkNavbarSidebars(cfg *config.Config, sidebars *nav.Sidebars) error {
	for i, item := range cfg.ThemeConfig.Navbar.Items {
		if item.Type != config.NavbarItemDocSidebar {
			continue
		}
		if _, err := sidebars.Get(item.SidebarID); err != nil {
			return serrors.ValidationFailed(
				fmt.Sprintf("themeConfig.navbar.items[%d].sidebarId", i),
				"unknown sidebar "+item.SidebarID)
		}
	}
	return nil
}
