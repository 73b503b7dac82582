package nav

import (
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
)

// Catalog is the view of the content set the navigation tree is checked against.
type Catalog interface {
	Has(id string) bool
}

// Leaf is a document reachable from a sidebar, in reading order.
type Leaf struct {
	ID string
	// Label is the explicit sidebar label, empty when the document label applies.
	Label string
	// Trail lists the categories enclosing the leaf, outermost first.
	Trail []*Entry
}

// Leaves flattens the sidebar in reading order. A category link document
// appears before the category's items.
func (s *Sidebar) Leaves() []Leaf {
	var out []Leaf
	var walk func(items []Entry, trail []*Entry)
	walk = func(items []Entry, trail []*Entry) {
		for i := range items {
			e := &items[i]
			switch e.Type {
			case EntryDoc:
				out = append(out, Leaf{ID: e.ID, Label: e.Label, Trail: trail})
			case EntryCategory:
				inner := append(append([]*Entry(nil), trail...), e)
				if e.Link != "" {
					out = append(out, Leaf{ID: e.Link, Trail: inner})
				}
				walk(e.Items, inner)
			}
		}
	}
	walk(s.Items, nil)
	return out
}

// DocIDs returns every document id referenced by the sidebar, in order.
func (s *Sidebar) DocIDs() []string {
	leaves := s.Leaves()
	ids := make([]string, len(leaves))
	for i, l := range leaves {
		ids[i] = l.ID
	}
	return ids
}

// First returns the first document of the sidebar.
func (s *Sidebar) First() (string, bool) {
	leaves := s.Leaves()
	if len(leaves) == 0 {
		return "", false
	}
	return leaves[0].ID, true
}

// Location places a document within a sidebar.
type Location struct {
	Leaf Leaf
	Prev *Leaf
	Next *Leaf
}

// Locate finds the first occurrence of id in the sidebar.
func (s *Sidebar) Locate(id string) (Location, bool) {
	leaves := s.Leaves()
	for i := range leaves {
		if leaves[i].ID != id {
			continue
		}
		loc := Location{Leaf: leaves[i]}
		if i > 0 {
			loc.Prev = &leaves[i-1]
		}
		if i+1 < len(leaves) {
			loc.Next = &leaves[i+1]
		}
		return loc, true
	}
	return Location{}, false
}

// Contains reports whether the sidebar references id.
func (s *Sidebar) Contains(id string) bool {
	_, ok := s.Locate(id)
	return ok
}

// Validate checks every document reference against the catalog. All missing
// ids are reported together; empty categories are rejected.
func (s *Sidebar) Validate(catalog Catalog) error {
	var missing []string
	seen := map[string]bool{}
	var emptyCategory string

	var walk func(items []Entry)
	walk = func(items []Entry) {
		for _, e := range items {
			switch e.Type {
			case EntryDoc:
				if !catalog.Has(e.ID) && !seen[e.ID] {
					seen[e.ID] = true
					missing = append(missing, e.ID)
				}
			case EntryCategory:
				if e.Link != "" && !catalog.Has(e.Link) && !seen[e.Link] {
					seen[e.Link] = true
					missing = append(missing, e.Link)
				}
				if len(e.Items) == 0 && e.Link == "" && emptyCategory == "" {
					emptyCategory = e.Label
				}
				walk(e.Items)
			}
		}
	}
	walk(s.Items)

	if len(missing) > 0 {
		return serrors.MissingDocuments(s.ID, missing)
	}
	if emptyCategory != "" {
		return serrors.ValidationFailed("sidebar "+s.ID, "category "+emptyCategory+" has no items")
	}
	return nil
}

// Validate checks every sidebar and returns the first failure.
func (s *Sidebars) Validate(catalog Catalog) error {
	for _, sb := range s.All() {
		if err := sb.Validate(catalog); err != nil {
			return err
		}
	}
	return nil
}

// SidebarFor returns the first sidebar containing the document.
func (s *Sidebars) SidebarFor(id string) (*Sidebar, bool) {
	for _, sb := range s.All() {
		if sb.Contains(id) {
			return sb, true
		}
	}
	return nil, false
}

// Unlisted returns the catalog ids no sidebar references, in the given order.
func (s *Sidebars) Unlisted(ids []string) []string {
	listed := map[string]bool{}
	for _, sb := range s.All() {
		for _, id := range sb.DocIDs() {
			listed[id] = true
		}
	}
	var out []string
	for _, id := range ids {
		if !listed[id] {
			out = append(out, id)
		}
	}
	return out
}
