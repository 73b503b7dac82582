package markdown

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, src string, resolve Resolver) (*goquery.Document, Result) {
	t.Helper()
	res, err := NewRenderer().Render([]byte(src), resolve)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(res.HTML)))
	require.NoError(t, err)
	return doc, res
}

func TestRender_GFMAndHeadingIDs(t *testing.T) {
	src := "# Installation\n\n## Install with npm\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~\n"
	doc, res := render(t, src, nil)

	assert.Equal(t, 1, doc.Find("table").Length())
	assert.Equal(t, 1, doc.Find("del").Length())
	id, ok := doc.Find("h2").Attr("id")
	require.True(t, ok)
	assert.Equal(t, "install-with-npm", id)

	require.Len(t, res.Headings, 2)
	assert.Equal(t, Heading{Level: 1, ID: "installation", Text: "Installation"}, res.Headings[0])
	assert.Equal(t, Heading{Level: 2, ID: "install-with-npm", Text: "Install with npm"}, res.Headings[1])
}

func TestRender_RewritesLocalLinksThroughResolver(t *testing.T) {
	resolve := func(dest string) (string, bool) {
		p, frag := SplitFragment(dest)
		if p == "./installation.md" {
			return "/claude-code-meta/docs/getting-started/installation" + frag, true
		}
		return "", false
	}
	src := "[install](./installation.md#npm) [missing](./nope.md) [ext](https://example.com/a.md) [top](#top)"
	doc, _ := render(t, src, resolve)

	var hrefs []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		h, _ := s.Attr("href")
		hrefs = append(hrefs, h)
	})
	assert.Equal(t, []string{
		"/claude-code-meta/docs/getting-started/installation#npm",
		"./nope.md",
		"https://example.com/a.md",
		"#top",
	}, hrefs)
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	doc, _ := render(t, "<details><summary>More</summary>\n\nbody\n\n</details>\n", nil)
	assert.Equal(t, "More", doc.Find("details summary").Text())
}

func TestIsLocal(t *testing.T) {
	cases := map[string]bool{
		"./a.md":              true,
		"../b/c.mdx":          true,
		"intro":               true,
		"/docs/intro":         true,
		"img/logo.svg":        true,
		"":                    false,
		"#anchor":             false,
		"//cdn.example.com/x": false,
		"https://example.com": false,
		"mailto:a@b.c":        false,
	}
	for dest, want := range cases {
		assert.Equal(t, want, IsLocal(dest), dest)
	}
}

func TestIsDocReference(t *testing.T) {
	assert.True(t, IsDocReference("./a.md"))
	assert.True(t, IsDocReference("../b.mdx#section"))
	assert.True(t, IsDocReference("c.md?x=1"))
	assert.False(t, IsDocReference("/docs/intro"))
	assert.False(t, IsDocReference("notes.markdown.txt"))
}
