// Package theme renders site pages with impractical.co/temple.
//
// A page is a temple component that names the template to execute; components
// list the template files they need and may pull in other components. Parsed
// template sets are cached per page key by the embedded temple.CachedSite, so
// every doc page shares one set.
package theme

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"impractical.co/temple"

	"github.com/Konfuzian/claude-code-meta/internal/config"
)

//go:embed templates/*.html.tmpl
var embedded embed.FS

// ErrRenderFailed is returned when a page could not be rendered.
var ErrRenderFailed = errors.New("render failed")

// Page is a renderable page.
type Page interface {
	temple.Page

	// Head returns the head metadata of the page.
	Head() Meta
}

// Meta is the head metadata of a page.
type Meta struct {
	Title       string
	Description string
	Keywords    []string
}

// Site carries the configuration shared by every page of a build.
type Site struct {
	*temple.CachedSite

	Config *config.Config
	// Year replaces the copyright year token.
	Year int
	// SidebarHome maps sidebar ids to the permalink of their first document.
	SidebarHome map[string]string
}

// NewSite returns a site using the built-in templates.
func NewSite(cfg *config.Config, year int, sidebarHome map[string]string) *Site {
	return NewSiteFS(cfg, year, sidebarHome, templateFS())
}

// NewSiteFS returns a site reading templates from fsys.
func NewSiteFS(cfg *config.Config, year int, sidebarHome map[string]string, fsys fs.FS) *Site {
	return &Site{
		CachedSite:  temple.NewCachedSite(fsys),
		Config:      cfg,
		Year:        year,
		SidebarHome: sidebarHome,
	}
}

func templateFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// FuncMap is available to every template of the site.
func (s *Site) FuncMap(context.Context) template.FuncMap {
	return template.FuncMap{
		"url":  s.URL,
		"link": s.LinkURL,
		"join": strings.Join,
	}
}

// FullTitle is the document title: "<page> | <site>", or the site title alone.
func (s *Site) FullTitle(m Meta) string {
	if m.Title == "" || m.Title == s.Config.Title {
		return s.Config.Title
	}
	return m.Title + " | " + s.Config.Title
}

// Layout returns the frame every page of the site is rendered in.
func (s *Site) Layout() Layout {
	l := Layout{}
	for _, css := range s.Config.ThemeConfig.CustomCSS {
		l.Stylesheets = append(l.Stylesheets, s.URL(css))
	}
	return l
}

// HomePage returns the landing page framed by the site layout.
func (s *Site) HomePage() HomePage {
	h := NewHomePage(s.Config)
	h.Layout = s.Layout()
	return h
}

// NotFoundPage returns the 404 page framed by the site layout.
func (s *Site) NotFoundPage() NotFoundPage {
	return NotFoundPage{Layout: s.Layout()}
}

type attemptKey struct{}

// renderAttempt records whether temple fell back to the server error page
// and the errors it logged on the way.
type renderAttempt struct {
	mu     sync.Mutex
	failed bool
	errs   []string
}

func (a *renderAttempt) fail() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failed = true
}

func (a *renderAttempt) record(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, msg)
}

func (a *renderAttempt) err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.failed {
		return nil
	}
	if len(a.errs) == 0 {
		return ErrRenderFailed
	}
	return fmt.Errorf("%w: %s", ErrRenderFailed, strings.Join(a.errs, "; "))
}

// ServerErrorPage is rendered by temple when a page fails. Reaching it marks
// the current render as failed.
func (s *Site) ServerErrorPage(ctx context.Context) temple.Page {
	if a, ok := ctx.Value(attemptKey{}).(*renderAttempt); ok {
		a.fail()
	}
	return errorPage{}
}

// Render executes page into out. Nothing is written when rendering fails.
func (s *Site) Render(ctx context.Context, out io.Writer, page Page) error {
	attempt := &renderAttempt{}
	ctx = context.WithValue(ctx, attemptKey{}, attempt)
	ctx = temple.LoggingContext(ctx, slog.New(&captureHandler{next: slog.Default().Handler(), attempt: attempt}))

	var buf bytes.Buffer
	temple.Render(ctx, &buf, s, page)
	if err := attempt.err(); err != nil {
		return fmt.Errorf("render %T: %w", page, err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %T: %w", page, err)
	}
	return nil
}

// RenderString renders page to a string.
func (s *Site) RenderString(ctx context.Context, page Page) (string, error) {
	var b strings.Builder
	if err := s.Render(ctx, &b, page); err != nil {
		return "", err
	}
	return b.String(), nil
}

// URL prefixes an internal path with the base URL. External URLs, fragments
// and paths already under the base URL are returned unchanged.
func (s *Site) URL(p string) string {
	base := s.Config.BaseURL
	switch {
	case strings.HasPrefix(p, "#"), isExternal(p):
		return p
	case strings.HasPrefix(p, base):
		return p
	case p+"/" == base:
		return base
	}
	return base + strings.TrimPrefix(p, "/")
}

// LinkURL returns the target of a link item.
func (s *Site) LinkURL(l config.LinkItem) string {
	if l.IsExternal() {
		return l.Href
	}
	return s.URL(l.To)
}

// AbsoluteURL joins the site URL with the base-prefixed path.
func (s *Site) AbsoluteURL(p string) string {
	if isExternal(p) {
		return p
	}
	return s.Config.URL + s.URL(p)
}

func isExternal(p string) bool {
	return strings.Contains(p, "://") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "mailto:")
}

// captureHandler collects error records temple logs during a render and
// passes every record on to next.
type captureHandler struct {
	next    slog.Handler
	attempt *renderAttempt
	attrs   []slog.Attr
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelError || h.next.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		parts := []string{r.Message}
		for _, a := range h.attrs {
			parts = append(parts, a.String())
		}
		r.Attrs(func(a slog.Attr) bool {
			parts = append(parts, a.String())
			return true
		})
		h.attempt.record(strings.Join(parts, " "))
	}
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		next:    h.next.WithAttrs(attrs),
		attempt: h.attempt,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{next: h.next.WithGroup(name), attempt: h.attempt, attrs: h.attrs}
}

// errorPage replaces a page that failed to render. Its output is discarded.
type errorPage struct{}

func (errorPage) Templates(context.Context) []string { return []string{"error.html.tmpl"} }

func (errorPage) Key(context.Context) string { return "error" }

func (errorPage) ExecutedTemplate(context.Context) string { return "error" }
