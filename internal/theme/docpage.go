package theme

import (
	"context"
	"html/template"
	"path"
	"strings"

	"impractical.co/temple"

	"github.com/Konfuzian/claude-code-meta/internal/content"
	"github.com/Konfuzian/claude-code-meta/internal/markdown"
	"github.com/Konfuzian/claude-code-meta/internal/nav"
)

// DocLookup resolves document ids to documents.
type DocLookup interface {
	ByID(id string) (*content.Document, bool)
}

// SidebarItem is one rendered sidebar node.
type SidebarItem struct {
	Label      string
	URL        string
	External   bool
	Active     bool
	IsCategory bool
	Collapsed  bool
	Items      []SidebarItem
}

// Crumb is one breadcrumb. The last crumb is the current page and has no URL.
type Crumb struct {
	Label  string
	URL    string
	Active bool
}

// PageLink is a previous/next pagination target.
type PageLink struct {
	Label string
	URL   string
}

// DocPage renders one content document.
type DocPage struct {
	Layout Layout

	Doc         *content.Document
	Body        template.HTML
	Sidebar     []SidebarItem
	Breadcrumbs []Crumb
	TOC         []markdown.Heading
	EditURL     string
	Prev        *PageLink
	Next        *PageLink
}

func (DocPage) Templates(context.Context) []string {
	return []string{"doc.html.tmpl", "sidebar.html.tmpl"}
}

func (p DocPage) UseComponents(context.Context) []temple.Component {
	return []temple.Component{p.Layout}
}

func (DocPage) Key(context.Context) string { return "doc" }

func (p DocPage) ExecutedTemplate(context.Context) string { return p.Layout.BaseTemplate() }

func (p DocPage) Head() Meta {
	return Meta{Title: p.Doc.Title, Description: p.Doc.Description, Keywords: p.Doc.Fields.Tags}
}

// DocPageInput is everything needed to assemble a doc page.
type DocPageInput struct {
	Doc      *content.Document
	Body     []byte
	Headings []markdown.Heading
	// Sidebar is the sidebar containing the document; nil renders none.
	Sidebar *nav.Sidebar
	Docs    DocLookup
}

// NewDocPage assembles sidebar, breadcrumbs, pagination and the edit link
// for a document.
func (s *Site) NewDocPage(in DocPageInput) DocPage {
	p := DocPage{
		Layout:  s.Layout(),
		Doc:     in.Doc,
		Body:    template.HTML(in.Body), //nolint:gosec // rendered from trusted repository content
		TOC:     tocHeadings(in.Headings),
		EditURL: s.editURL(in.Doc),
	}
	if in.Sidebar == nil {
		return p
	}

	p.Sidebar = s.sidebarItems(in.Sidebar.Items, in.Docs, in.Doc.ID)
	loc, ok := in.Sidebar.Locate(in.Doc.ID)
	if !ok {
		return p
	}
	if s.Config.Docs.BreadcrumbsEnabled() {
		p.Breadcrumbs = breadcrumbs(loc.Leaf, in.Doc, in.Docs)
	}
	p.Prev = pageLink(loc.Prev, in.Docs)
	p.Next = pageLink(loc.Next, in.Docs)
	return p
}

func (s *Site) editURL(d *content.Document) string {
	base := s.Config.Docs.EditURL
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + path.Join(s.Config.Docs.Path, d.Source)
}

func tocHeadings(hs []markdown.Heading) []markdown.Heading {
	var out []markdown.Heading
	for _, h := range hs {
		if (h.Level == 2 || h.Level == 3) && h.ID != "" {
			out = append(out, h)
		}
	}
	return out
}

func leafLabel(id, label string, docs DocLookup) (string, string) {
	d, ok := docs.ByID(id)
	if !ok {
		return label, ""
	}
	if label == "" {
		label = d.Label()
	}
	return label, d.Permalink
}

func (s *Site) sidebarItems(entries []nav.Entry, docs DocLookup, active string) []SidebarItem {
	items := make([]SidebarItem, 0, len(entries))
	for _, e := range entries {
		switch e.Type {
		case nav.EntryDoc:
			label, url := leafLabel(e.ID, e.Label, docs)
			items = append(items, SidebarItem{Label: label, URL: url, Active: e.ID == active})
		case nav.EntryLink:
			external := isExternal(e.Href)
			items = append(items, SidebarItem{Label: e.Label, URL: s.URL(e.Href), External: external})
		case nav.EntryCategory:
			cat := SidebarItem{
				Label:      e.Label,
				IsCategory: true,
				Active:     e.Link != "" && e.Link == active,
				Items:      s.sidebarItems(e.Items, docs, active),
			}
			if e.Link != "" {
				_, cat.URL = leafLabel(e.Link, "", docs)
			}
			cat.Collapsed = e.IsCollapsed() && !cat.Active && !containsActive(cat.Items)
			items = append(items, cat)
		}
	}
	return items
}

func containsActive(items []SidebarItem) bool {
	for _, it := range items {
		if it.Active || containsActive(it.Items) {
			return true
		}
	}
	return false
}

func breadcrumbs(leaf nav.Leaf, doc *content.Document, docs DocLookup) []Crumb {
	var out []Crumb
	for i, cat := range leaf.Trail {
		last := i == len(leaf.Trail)-1
		if last && cat.Link == doc.ID {
			out = append(out, Crumb{Label: cat.Label, Active: true})
			return out
		}
		c := Crumb{Label: cat.Label}
		if cat.Link != "" {
			_, c.URL = leafLabel(cat.Link, "", docs)
		}
		out = append(out, c)
	}
	label := leaf.Label
	if label == "" {
		label = doc.Label()
	}
	return append(out, Crumb{Label: label, Active: true})
}

func pageLink(leaf *nav.Leaf, docs DocLookup) *PageLink {
	if leaf == nil {
		return nil
	}
	label, url := leafLabel(leaf.ID, leaf.Label, docs)
	if url == "" {
		return nil
	}
	return &PageLink{Label: label, URL: url}
}
