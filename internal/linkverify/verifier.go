package linkverify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Konfuzian/claude-code-meta/internal/logfields"
)

// Page is a rendered page to verify.
type Page struct {
	// URL is the path the page is served at, including the base URL.
	URL  string
	HTML []byte
}

// BrokenLink is an internal link that resolves to no route.
type BrokenLink struct {
	Page     string
	Href     string
	Resolved string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s", b.Page, b.Href)
}

// Verifier checks internal links against the routes of a build.
type Verifier struct {
	baseURL string
	host    string
	routes  *Routes
}

// NewVerifier returns a verifier for a site served at siteURL+baseURL.
// siteURL may be empty; absolute links to its host are treated as internal.
func NewVerifier(siteURL, baseURL string, routes *Routes) *Verifier {
	v := &Verifier{baseURL: baseURL, routes: routes}
	if u, err := url.Parse(siteURL); err == nil {
		v.host = u.Host
	}
	return v
}

// VerifyPages checks every page and returns all broken links, in page order.
func (v *Verifier) VerifyPages(ctx context.Context, pages []Page) ([]BrokenLink, error) {
	var broken []BrokenLink
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		found, err := v.VerifyPage(p)
		if err != nil {
			return broken, err
		}
		broken = append(broken, found...)
	}
	return broken, nil
}

// VerifyPage checks the links of one page.
func (v *Verifier) VerifyPage(p Page) ([]BrokenLink, error) {
	links, err := ExtractLinks(p.HTML)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", p.URL, err)
	}
	base, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("page url %q: %w", p.URL, err)
	}

	var broken []BrokenLink
	for _, l := range links {
		target, internal := v.resolve(base, l.URL)
		if !internal {
			continue
		}
		if v.underBase(target) && v.routes.Has(target) {
			continue
		}
		slog.Debug("Broken internal link", logfields.Page(p.URL), logfields.Link(l.URL), logfields.Path(target))
		broken = append(broken, BrokenLink{Page: p.URL, Href: l.URL, Resolved: target})
	}
	return broken, nil
}

// resolve returns the path an internal link points to; the second result is
// false for links that are not checked.
func (v *Verifier) resolve(page *url.URL, href string) (string, bool) {
	switch {
	case href == "", strings.HasPrefix(href, "#"):
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		// unparseable hrefs cannot be served either
		return href, true
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if ref.Host != "" && ref.Host != v.host {
		return "", false
	}
	return page.ResolveReference(ref).Path, true
}

func (v *Verifier) underBase(p string) bool {
	return strings.HasPrefix(p, v.baseURL) || p+"/" == v.baseURL
}
