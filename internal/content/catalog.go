package content

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Catalog is the immutable set of documents of one build.
type Catalog struct {
	docs        []*Document
	byID        map[string]*Document
	bySource    map[string]*Document
	byPermalink map[string]*Document
	categories  map[string]CategoryMeta
}

// NewCatalog indexes docs. Duplicate ids or permalinks are errors.
func NewCatalog(docs []*Document, categories map[string]CategoryMeta) (*Catalog, error) {
	c := &Catalog{
		docs:        append([]*Document(nil), docs...),
		byID:        make(map[string]*Document, len(docs)),
		bySource:    make(map[string]*Document, len(docs)),
		byPermalink: make(map[string]*Document, len(docs)),
		categories:  categories,
	}
	if c.categories == nil {
		c.categories = map[string]CategoryMeta{}
	}
	sort.Slice(c.docs, func(i, j int) bool { return c.docs[i].ID < c.docs[j].ID })

	for _, d := range c.docs {
		if prev, ok := c.byID[d.ID]; ok {
			return nil, fmt.Errorf("%w: %q (%s, %s)", ErrDuplicateID, d.ID, prev.Source, d.Source)
		}
		key := routeKey(d.Permalink)
		if prev, ok := c.byPermalink[key]; ok {
			return nil, fmt.Errorf("%w: %q (%s, %s)", ErrDuplicatePermalink, d.Permalink, prev.Source, d.Source)
		}
		c.byID[d.ID] = d
		c.bySource[d.Source] = d
		c.byPermalink[key] = d
	}
	return c, nil
}

// Len returns the number of documents.
func (c *Catalog) Len() int { return len(c.docs) }

// Documents returns documents sorted by id.
func (c *Catalog) Documents() []*Document { return c.docs }

// IDs returns every document id, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.docs))
	for i, d := range c.docs {
		ids[i] = d.ID
	}
	return ids
}

// Has reports whether a document with id exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// ByID looks up a document by id.
func (c *Catalog) ByID(id string) (*Document, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// BySource looks up a document by its slash-separated docs-relative path.
func (c *Catalog) BySource(source string) (*Document, bool) {
	d, ok := c.bySource[path.Clean(source)]
	return d, ok
}

// ByPermalink looks up a document by URL; a trailing slash is not significant.
func (c *Catalog) ByPermalink(url string) (*Document, bool) {
	d, ok := c.byPermalink[routeKey(url)]
	return d, ok
}

// ResolveReference resolves a relative markdown file reference written in
// from (such as "../features/hooks.md") to the referenced document.
func (c *Catalog) ResolveReference(from *Document, ref string) (*Document, bool) {
	if strings.HasPrefix(ref, "/") {
		return nil, false
	}
	return c.BySource(path.Join(from.Dir, ref))
}

// Category returns the _category_ metadata of a docs directory.
func (c *Catalog) Category(dir string) (CategoryMeta, bool) {
	m, ok := c.categories[dir]
	return m, ok
}

// InDir returns the documents whose directory is exactly dir, sorted by id.
func (c *Catalog) InDir(dir string) []*Document {
	var out []*Document
	for _, d := range c.docs {
		if d.Dir == dir {
			out = append(out, d)
		}
	}
	return out
}

// SubDirs returns the immediate sub-directories of dir that contain documents.
func (c *Catalog) SubDirs(dir string) []string {
	seen := map[string]bool{}
	var out []string
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	for _, d := range c.docs {
		if d.Dir == dir || !strings.HasPrefix(d.Dir+"/", prefix) {
			continue
		}
		rest := strings.TrimPrefix(d.Dir, prefix)
		child := prefix + strings.SplitN(rest, "/", 2)[0]
		if !seen[child] {
			seen[child] = true
			out = append(out, child)
		}
	}
	sort.Strings(out)
	return out
}

func routeKey(url string) string {
	if url == "/" {
		return url
	}
	return strings.TrimSuffix(url, "/")
}
