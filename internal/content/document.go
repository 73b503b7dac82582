// Package content discovers the markdown documents that make up the site and
// resolves their ids, titles and permalinks.
package content

import (
	"bytes"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Konfuzian/claude-code-meta/internal/frontmatter"
)

// Document is one content document, rendered to exactly one page.
type Document struct {
	// ID is the directory-relative path without extension, with the last
	// segment replaced by the front matter id when set ("whats-new/index").
	ID string
	// Source is the slash-separated path relative to the docs directory.
	Source string
	// Path is the file system path the document was read from.
	Path string
	// Dir is the slash-separated parent directory ("" for the root).
	Dir string

	Title        string
	SidebarLabel string
	Description  string
	Position     *float64
	Permalink    string
	IsIndex      bool

	Fields frontmatter.Fields
	Body   []byte
}

// Label is the text used for the document in sidebars and pagination.
func (d *Document) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

var titleCaser = cases.Title(language.English)

// TitleFromSlug turns a path segment such as "first-session" into "First Session".
func TitleFromSlug(slug string) string {
	slug = strings.TrimSuffix(slug, path.Ext(slug))
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	return titleCaser.String(strings.Join(words, " "))
}

// isIndexName reports whether a file base name (without extension) makes the
// document the index page of its directory.
func isIndexName(name, dir string) bool {
	lower := strings.ToLower(name)
	if lower == "index" || lower == "readme" {
		return true
	}
	return dir != "" && lower == strings.ToLower(path.Base(dir))
}

// firstHeading returns the text of the first level-one ATX heading in body.
func firstHeading(body []byte) string {
	inFence := false
	for _, line := range bytes.Split(body, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~")) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("# ")) {
			return strings.TrimSpace(strings.TrimRight(string(trimmed[2:]), "#"))
		}
	}
	return ""
}

// resolveTitle applies the title precedence: front matter, first heading, file name.
func resolveTitle(f frontmatter.Fields, body []byte, id string) string {
	if f.Title != "" {
		return f.Title
	}
	if h := firstHeading(body); h != "" {
		return h
	}
	base := path.Base(id)
	if isIndexName(base, path.Dir(id)) && path.Dir(id) != "." {
		base = path.Base(path.Dir(id))
	}
	return TitleFromSlug(base)
}

// permalink computes the URL of a document under baseURL/routeBase.
func permalink(baseURL, routeBase, dir, name string, slug string, isIndex bool) string {
	root := strings.TrimSuffix(baseURL, "/")
	if routeBase != "" {
		root += "/" + routeBase
	}

	switch {
	case strings.HasPrefix(slug, "/"):
		return root + cleanURLPath(slug)
	case slug != "":
		return root + cleanURLPath("/"+path.Join(dir, slug))
	case isIndex:
		if dir == "" {
			return root + "/"
		}
		return root + "/" + dir + "/"
	default:
		return root + "/" + path.Join(dir, name)
	}
}

// cleanURLPath cleans p while keeping a meaningful trailing slash.
func cleanURLPath(p string) string {
	trailing := strings.HasSuffix(p, "/") && p != "/"
	c := path.Clean(p)
	if trailing {
		c += "/"
	}
	return c
}
