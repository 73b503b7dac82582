package markdown

import (
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
	// Line is the 1-based source line the link starts on, 0 when unknown.
	Line int
}

var analyzer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExtractLinks parses a markdown body and lists its link-like constructs.
//
// This is an analysis API; destinations are reported as written.
func ExtractLinks(body []byte) []Link {
	ctx := parser.NewContext()
	root := analyzer.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	lines := newLineIndex(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: lines.of(node)})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: lines.of(node)})
		case *gmast.Link:
			// reference-style links arrive here already resolved
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: lines.of(node)})
		}
		return gmast.WalkContinue, nil
	})

	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

type lineIndex []int

func newLineIndex(body []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range body {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// of returns the line of the first text segment below n.
func (l lineIndex) of(n gmast.Node) int {
	start := -1
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if t, ok := c.(*gmast.Text); ok && entering {
			start = t.Segment.Start
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	if start < 0 {
		return 0
	}
	return sort.Search(len(l), func(i int) bool { return l[i] > start })
}
