// Package nav models the sidebar navigation tree: an ordered, nested list of
// document ids grouped into labelled categories.
package nav

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntryType identifies the kind of a sidebar entry.
type EntryType string

const (
	EntryDoc           EntryType = "doc"
	EntryCategory      EntryType = "category"
	EntryLink          EntryType = "link"
	EntryAutogenerated EntryType = "autogenerated"
)

// Entry is one node of a sidebar. A bare string in YAML is a doc entry.
type Entry struct {
	Type EntryType

	// ID is the document id of a doc entry.
	ID string
	// Label overrides the document label (doc) or names the category/link.
	Label string
	// Href is the target of a link entry.
	Href string
	// Items are the children of a category.
	Items []Entry
	// Collapsed is the initial state of a category; nil means collapsed.
	Collapsed *bool
	// Link is the id of a document the category label itself links to.
	Link string
	// DirName is the docs directory an autogenerated entry expands.
	DirName string
}

// Doc returns a doc leaf.
func Doc(id string) Entry { return Entry{Type: EntryDoc, ID: id} }

// Category returns a category with the given children.
func Category(label string, items ...Entry) Entry {
	return Entry{Type: EntryCategory, Label: label, Items: items}
}

// IsCollapsed reports the effective collapsed state of a category.
func (e Entry) IsCollapsed() bool { return e.Collapsed == nil || *e.Collapsed }

// Sidebar is a named navigation tree.
type Sidebar struct {
	ID    string
	Items []Entry
}

// Sidebars is the full declaration of a sidebars file, in declaration order.
type Sidebars struct {
	order []string
	byID  map[string]*Sidebar
}

// ErrUnknownSidebar is returned when a sidebar id is not declared.
var ErrUnknownSidebar = errors.New("unknown sidebar")

// NewSidebars builds a declaration from sidebars in order.
func NewSidebars(sidebars ...*Sidebar) *Sidebars {
	s := &Sidebars{byID: map[string]*Sidebar{}}
	for _, sb := range sidebars {
		s.add(sb)
	}
	return s
}

func (s *Sidebars) add(sb *Sidebar) {
	if _, ok := s.byID[sb.ID]; !ok {
		s.order = append(s.order, sb.ID)
	}
	s.byID[sb.ID] = sb
}

// IDs returns the sidebar ids in declaration order.
func (s *Sidebars) IDs() []string { return append([]string(nil), s.order...) }

// All returns the sidebars in declaration order.
func (s *Sidebars) All() []*Sidebar {
	out := make([]*Sidebar, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Get returns the sidebar with the given id.
func (s *Sidebars) Get(id string) (*Sidebar, error) {
	sb, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSidebar, id)
	}
	return sb, nil
}

// Load reads a sidebars YAML file.
func Load(path string) (*Sidebars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sidebars: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a sidebars document: a mapping of sidebar id to entry list.
func Parse(data []byte) (*Sidebars, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sidebars: %w", err)
	}
	s := NewSidebars()
	if len(doc.Content) == 0 {
		return s, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode sidebars: line %d: expected a mapping of sidebar ids", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		id := root.Content[i].Value
		var items []Entry
		if err := root.Content[i+1].Decode(&items); err != nil {
			return nil, fmt.Errorf("decode sidebar %q: %w", id, err)
		}
		s.add(&Sidebar{ID: id, Items: items})
	}
	return s, nil
}

// Marshal encodes the declaration back to YAML, preserving sidebar order.
func (s *Sidebars) Marshal() ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, sb := range s.All() {
		var items yaml.Node
		list := sb.Items
		if list == nil {
			list = []Entry{}
		}
		if err := items.Encode(list); err != nil {
			return nil, fmt.Errorf("encode sidebar %q: %w", sb.ID, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: sb.ID},
			&items,
		)
	}
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode sidebars: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// entryYAML is the mapping form of an entry.
type entryYAML struct {
	Type      EntryType `yaml:"type"`
	ID        string    `yaml:"id,omitempty"`
	Label     string    `yaml:"label,omitempty"`
	Href      string    `yaml:"href,omitempty"`
	Items     []Entry   `yaml:"items,omitempty"`
	Collapsed *bool     `yaml:"collapsed,omitempty"`
	Link      *linkYAML `yaml:"link,omitempty"`
	DirName   string    `yaml:"dirName,omitempty"`
}

type linkYAML struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
}

// UnmarshalYAML accepts a bare doc id or a typed mapping.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if strings.TrimSpace(node.Value) == "" {
			return fmt.Errorf("line %d: empty document id", node.Line)
		}
		*e = Doc(node.Value)
		return nil
	}

	var raw entryYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Type == "" {
		raw.Type = EntryDoc
	}
	*e = Entry{
		Type:      raw.Type,
		ID:        raw.ID,
		Label:     raw.Label,
		Href:      raw.Href,
		Items:     raw.Items,
		Collapsed: raw.Collapsed,
		DirName:   raw.DirName,
	}
	if raw.Link != nil {
		if raw.Link.Type != "" && raw.Link.Type != string(EntryDoc) {
			return fmt.Errorf("line %d: unsupported category link type %q", node.Line, raw.Link.Type)
		}
		e.Link = raw.Link.ID
	}

	switch e.Type {
	case EntryDoc:
		if e.ID == "" {
			return fmt.Errorf("line %d: doc entry needs an id", node.Line)
		}
	case EntryCategory:
		if e.Label == "" {
			return fmt.Errorf("line %d: category needs a label", node.Line)
		}
	case EntryLink:
		if e.Label == "" || e.Href == "" {
			return fmt.Errorf("line %d: link entry needs label and href", node.Line)
		}
	case EntryAutogenerated:
		e.DirName = strings.Trim(e.DirName, "/")
		if e.DirName == "." {
			e.DirName = ""
		}
	default:
		return fmt.Errorf("line %d: unsupported sidebar entry type %q", node.Line, e.Type)
	}
	return nil
}

// MarshalYAML writes plain doc entries as bare ids.
func (e Entry) MarshalYAML() (any, error) {
	if e.Type == EntryDoc && e.Label == "" {
		return e.ID, nil
	}
	raw := entryYAML{
		Type:      e.Type,
		ID:        e.ID,
		Label:     e.Label,
		Href:      e.Href,
		Items:     e.Items,
		Collapsed: e.Collapsed,
		DirName:   e.DirName,
	}
	if e.Link != "" {
		raw.Link = &linkYAML{Type: string(EntryDoc), ID: e.Link}
	}
	return raw, nil
}
