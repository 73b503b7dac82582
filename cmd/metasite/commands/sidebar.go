package commands

import (
	"strings"

	"github.com/Konfuzian/claude-code-meta/internal/build"
	"github.com/Konfuzian/claude-code-meta/internal/config"
	"github.com/Konfuzian/claude-code-meta/internal/content"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/nav"
)

// SidebarCmd groups the sidebar inspection commands.
type SidebarCmd struct {
	Show SidebarShowCmd `cmd:"" help:"Print the expanded navigation tree"`
	Diff SidebarDiffCmd `cmd:"" help:"Compare the document sets of two sidebar declarations"`
}

// SidebarShowCmd prints every sidebar with autogenerated entries expanded.
type SidebarShowCmd struct{}

func (s *SidebarShowCmd) Run(g *Global, root *CLI) error {
	cfg, catalog, err := loadSite(root)
	if err != nil {
		return err
	}
	sidebars, err := loadSidebars(cfg.SidebarFile(), catalog)
	if err != nil {
		return err
	}
	for _, sb := range sidebars.All() {
		g.printf("%s\n", sb.ID)
		printEntries(g, sb.Items, 1, catalog)
	}
	return nil
}

func printEntries(g *Global, items []nav.Entry, depth int, catalog *content.Catalog) {
	indent := strings.Repeat("  ", depth)
	for _, e := range items {
		switch e.Type {
		case nav.EntryDoc:
			label := e.Label
			if doc, ok := catalog.ByID(e.ID); ok && label == "" {
				label = doc.Label()
			}
			g.printf("%s- %s (%s)\n", indent, label, e.ID)
		case nav.EntryLink:
			g.printf("%s- %s <%s>\n", indent, e.Label, e.Href)
		case nav.EntryCategory:
			if e.Link != "" {
				g.printf("%s+ %s (%s)\n", indent, e.Label, e.Link)
			} else {
				g.printf("%s+ %s\n", indent, e.Label)
			}
			printEntries(g, e.Items, depth+1, catalog)
		}
	}
}

// SidebarDiffCmd compares the declared sidebars with another declaration as
// document sets; ordering and grouping are ignored.
type SidebarDiffCmd struct {
	Other         string `arg:"" optional:"" help:"Sidebars file to compare against"`
	Autogenerated bool   `help:"Compare against the sidebar generated from the docs directory"`
}

func (d *SidebarDiffCmd) Run(g *Global, root *CLI) error {
	if (d.Other == "") == !d.Autogenerated {
		return serrors.ValidationFailed("other", "give either a sidebars file or --autogenerated")
	}
	cfg, catalog, err := loadSite(root)
	if err != nil {
		return err
	}
	declared, err := loadSidebars(cfg.SidebarFile(), catalog)
	if err != nil {
		return err
	}

	otherName := d.Other
	var other *nav.Sidebars
	if d.Autogenerated {
		otherName = "autogenerated"
		other = nav.AutogeneratedSidebars(build.DefaultSidebarID, catalog)
	} else if other, err = loadSidebars(d.Other, catalog); err != nil {
		return err
	}

	res := nav.DiffIDs(docIDs(declared), docIDs(other))
	for _, id := range res.OnlyInA {
		g.printf("only in %s: %s\n", cfg.SidebarFile(), id)
	}
	for _, id := range res.OnlyInB {
		g.printf("only in %s: %s\n", otherName, id)
	}
	if !res.Equal() {
		return serrors.New(serrors.CategoryNavigation, serrors.SeverityFatal, "sidebar document sets differ").
			WithContext("only_declared", res.OnlyInA).
			WithContext("only_other", res.OnlyInB)
	}
	g.printf("Document sets are equal (%d documents)\n", len(docIDs(declared)))
	return nil
}

func loadSite(root *CLI) (*config.Config, *content.Catalog, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, catalog, nil
}

// docIDs lists the distinct documents referenced by any sidebar, in order.
func docIDs(s *nav.Sidebars) []string {
	var out []string
	seen := map[string]bool{}
	for _, sb := range s.All() {
		for _, id := range sb.DocIDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
