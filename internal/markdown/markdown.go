// Package markdown renders content document bodies to HTML with goldmark and
// rewrites local link destinations through a caller supplied resolver.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Resolver maps a local link destination (no scheme, not fragment-only) to
// the URL it should point to. Returning false keeps the destination as is.
type Resolver func(dest string) (string, bool)

// Heading is a section heading of a rendered body.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Result is the output of Render.
type Result struct {
	HTML     []byte
	Headings []Heading
}

// Renderer converts markdown bodies (front matter already removed) to HTML.
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

var resolverKey = parser.NewContextKey()

// NewRenderer returns a renderer with GitHub flavoured markdown and
// generated heading ids.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(linkTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Render converts body to HTML. resolve may be nil.
func (r *Renderer) Render(body []byte, resolve Resolver) (Result, error) {
	ctx := parser.NewContext()
	if resolve != nil {
		ctx.Set(resolverKey, resolve)
	}
	root := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, root); err != nil {
		return Result{}, fmt.Errorf("render markdown: %w", err)
	}
	return Result{HTML: buf.Bytes(), Headings: collectHeadings(root, body)}, nil
}

// linkTransformer rewrites link and image destinations before rendering.
type linkTransformer struct{}

func (linkTransformer) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	resolve, ok := pc.Get(resolverKey).(Resolver)
	if !ok || resolve == nil {
		return
	}
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			node.Destination = rewrite(node.Destination, resolve)
		case *gmast.Image:
			node.Destination = rewrite(node.Destination, resolve)
		}
		return gmast.WalkContinue, nil
	})
}

func rewrite(dest []byte, resolve Resolver) []byte {
	d := string(dest)
	if !IsLocal(d) {
		return dest
	}
	if out, ok := resolve(d); ok {
		return []byte(out)
	}
	return dest
}

// IsLocal reports whether a link destination points inside the site: it has
// no scheme, is not protocol-relative and is not a bare fragment.
func IsLocal(dest string) bool {
	switch {
	case dest == "", strings.HasPrefix(dest, "#"), strings.HasPrefix(dest, "//"):
		return false
	case hasScheme(dest):
		return false
	}
	return true
}

func hasScheme(dest string) bool {
	for i, c := range dest {
		switch {
		case c == ':':
			return i > 0
		case c == '/' || c == '?' || c == '#':
			return false
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && ((c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return false
}

// IsDocReference reports whether a local destination names a markdown
// source file (".md" or ".mdx"), ignoring any query or fragment.
func IsDocReference(dest string) bool {
	p, _ := SplitFragment(dest)
	return strings.HasSuffix(p, ".md") || strings.HasSuffix(p, ".mdx")
}

// SplitFragment separates the path of a destination from its "?query#fragment" suffix.
func SplitFragment(dest string) (string, string) {
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		return dest[:i], dest[i:]
	}
	return dest, ""
}

func collectHeadings(root gmast.Node, source []byte) []Heading {
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !entering || !ok {
			return gmast.WalkContinue, nil
		}
		heading := Heading{Level: h.Level, Text: nodeText(h, source)}
		if v, ok := h.AttributeString("id"); ok {
			if id, ok := v.([]byte); ok {
				heading.ID = string(id)
			}
		}
		out = append(out, heading)
		return gmast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
