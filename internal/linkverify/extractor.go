// Package linkverify finds broken internal links in rendered pages.
package linkverify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path as written
	Text      string // Link text
	Tag       string // HTML tag
	Attribute string // Attribute containing the link
}

// linkSelectors lists the elements and attributes that navigate to another page.
var linkSelectors = []struct{ tag, attr string }{
	{"a", "href"},
	{"area", "href"},
}

// ExtractLinks lists the navigational links of an HTML document in document order.
func ExtractLinks(html []byte) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var sel []string
	for _, s := range linkSelectors {
		sel = append(sel, s.tag+"["+s.attr+"]")
	}

	var links []Link
	doc.Find(strings.Join(sel, ", ")).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		attr := "href"
		val, _ := s.Attr(attr)
		links = append(links, Link{
			URL:       strings.TrimSpace(val),
			Text:      strings.TrimSpace(s.Text()),
			Tag:       tag,
			Attribute: attr,
		})
	})
	return links, nil
}
