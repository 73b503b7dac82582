package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Konfuzian/claude-code-meta/internal/frontmatter"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
)

// Options controls how documents are routed.
type Options struct {
	BaseURL       string // normalized, starts and ends with '/'
	RouteBasePath string // without slashes, e.g. "docs"
	IncludeDrafts bool
}

// CategoryMeta is the optional _category_.yaml of a docs sub-directory.
type CategoryMeta struct {
	Label     string   `yaml:"label"`
	Position  *float64 `yaml:"position"`
	Collapsed *bool    `yaml:"collapsed"`
}

var categoryFiles = []string{"_category_.yaml", "_category_.yml", "_category_.json"}

// Discovery walks a docs directory and builds a Catalog.
type Discovery struct {
	root string
	opts Options
}

// NewDiscovery creates a discovery rooted at the docs directory.
func NewDiscovery(root string, opts Options) *Discovery {
	if opts.BaseURL == "" {
		opts.BaseURL = "/"
	}
	return &Discovery{root: root, opts: opts}
}

// Discover reads every markdown document under the root.
func (d *Discovery) Discover() (*Catalog, error) {
	info, err := os.Stat(d.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDocsDirNotFound, d.root)
	}

	var docs []*Document
	categories := map[string]CategoryMeta{}

	err = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := entry.Name()
		if entry.IsDir() {
			if p != d.root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			rel, relErr := d.rel(p)
			if relErr != nil {
				return relErr
			}
			meta, ok, metaErr := readCategoryMeta(p)
			if metaErr != nil {
				return metaErr
			}
			if ok {
				categories[rel] = meta
			}
			return nil
		}

		if !isMarkdownFile(name) || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return nil
		}

		rel, relErr := d.rel(p)
		if relErr != nil {
			return relErr
		}
		doc, loadErr := d.load(p, rel)
		if loadErr != nil {
			return loadErr
		}
		if doc.Fields.Draft && !d.opts.IncludeDrafts {
			slog.Debug("Skipping draft document", logfields.File(rel))
			return nil
		}
		slog.Debug("Discovered document", logfields.DocID(doc.ID), logfields.File(rel))
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("%w: %s: %w", ErrDocsDirWalkFailed, d.root, err)
		}
		return nil, err
	}

	catalog, err := NewCatalog(docs, categories)
	if err != nil {
		return nil, err
	}
	slog.Info("Content documents discovered", logfields.Path(d.root), logfields.Count(catalog.Len()))
	return catalog, nil
}

// rel returns the slash-separated path of p relative to the root ("" for the root).
func (d *Discovery) rel(p string) (string, error) {
	rel, err := filepath.Rel(d.root, p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDocsDirWalkFailed, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// load reads and parses one document.
func (d *Discovery) load(p, rel string) (*Document, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, rel, err)
	}
	fields, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	last := name
	if fields.ID != "" {
		last = fields.ID
	}
	id := path.Join(dir, last)
	index := isIndexName(name, dir)

	return &Document{
		ID:           id,
		Source:       rel,
		Path:         p,
		Dir:          dir,
		Title:        resolveTitle(fields, body, id),
		SidebarLabel: fields.SidebarLabel,
		Description:  fields.Description,
		Position:     fields.SidebarPosition,
		Permalink:    permalink(d.opts.BaseURL, d.opts.RouteBasePath, dir, last, fields.Slug, index),
		IsIndex:      index,
		Fields:       fields,
		Body:         body,
	}, nil
}

func readCategoryMeta(dir string) (CategoryMeta, bool, error) {
	for _, name := range categoryFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return CategoryMeta{}, false, fmt.Errorf("%w: %s: %w", ErrInvalidCategory, dir, err)
		}
		var meta CategoryMeta
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return CategoryMeta{}, false, fmt.Errorf("%w: %s: %w", ErrInvalidCategory, filepath.Join(dir, name), err)
		}
		return meta, true, nil
	}
	return CategoryMeta{}, false, nil
}

// isMarkdownFile checks if a file is a markdown document.
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".mdx" || ext == ".markdown"
}
