package nav

import (
	"path"
	"sort"

	"github.com/Konfuzian/claude-code-meta/internal/content"
)

// Autogenerate builds sidebar entries from the documents under dir. Documents
// and sub-directories are ordered by position, then by name; sub-directories
// become categories whose index document (if any) is the category link.
func Autogenerate(catalog *content.Catalog, dir string) []Entry {
	type item struct {
		pos   *float64
		name  string
		entry Entry
	}
	var items []item

	for _, d := range catalog.InDir(dir) {
		if d.IsIndex && dir != "" {
			// the directory's own index is linked from its parent category
			continue
		}
		items = append(items, item{pos: d.Position, name: path.Base(d.Source), entry: Doc(d.ID)})
	}

	for _, sub := range catalog.SubDirs(dir) {
		children := Autogenerate(catalog, sub)
		cat := Entry{Type: EntryCategory, Label: content.TitleFromSlug(path.Base(sub)), Items: children}
		var pos *float64
		if meta, ok := catalog.Category(sub); ok {
			if meta.Label != "" {
				cat.Label = meta.Label
			}
			cat.Collapsed = meta.Collapsed
			pos = meta.Position
		}
		if idx := indexDoc(catalog, sub); idx != nil {
			cat.Link = idx.ID
			if pos == nil {
				pos = idx.Position
			}
		}
		if len(cat.Items) == 0 && cat.Link == "" {
			continue
		}
		items = append(items, item{pos: pos, name: path.Base(sub), entry: cat})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.pos != nil && b.pos != nil && *a.pos != *b.pos:
			return *a.pos < *b.pos
		case a.pos != nil && b.pos == nil:
			return true
		case a.pos == nil && b.pos != nil:
			return false
		}
		return a.name < b.name
	})

	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = it.entry
	}
	return out
}

func indexDoc(catalog *content.Catalog, dir string) *content.Document {
	for _, d := range catalog.InDir(dir) {
		if d.IsIndex {
			return d
		}
	}
	return nil
}

// Expand returns a copy of the declaration with autogenerated entries replaced
// by the documents they cover.
func (s *Sidebars) Expand(catalog *content.Catalog) *Sidebars {
	out := NewSidebars()
	for _, sb := range s.All() {
		out.add(&Sidebar{ID: sb.ID, Items: expandEntries(sb.Items, catalog)})
	}
	return out
}

func expandEntries(items []Entry, catalog *content.Catalog) []Entry {
	var out []Entry
	for _, e := range items {
		switch e.Type {
		case EntryAutogenerated:
			out = append(out, Autogenerate(catalog, e.DirName)...)
		case EntryCategory:
			e.Items = expandEntries(e.Items, catalog)
			out = append(out, e)
		default:
			out = append(out, e)
		}
	}
	return out
}

// AutogeneratedSidebars returns a declaration with a single sidebar covering
// the whole catalog.
func AutogeneratedSidebars(id string, catalog *content.Catalog) *Sidebars {
	return NewSidebars(&Sidebar{ID: id, Items: Autogenerate(catalog, "")})
}
