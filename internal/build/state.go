package build

import (
	"path"
	"strings"
	"time"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	"github.com/Konfuzian/claude-code-meta/internal/content"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/metrics"
	"github.com/Konfuzian/claude-code-meta/internal/nav"
)

// RenderedPage is one page held in memory between rendering and writing.
type RenderedPage struct {
	// URL is the absolute path the page is served at, including the base URL.
	URL string
	// File is the output-relative file the page is written to.
	File string
	HTML []byte
	// Route reports whether links may target the page.
	Route bool
}

// State carries data between stages of one build.
type State struct {
	Request Request
	Config  *config.Config
	Report  *Report
	Year    int

	Catalog     *content.Catalog
	Sidebars    *nav.Sidebars
	SidebarHome map[string]string
	Pages       []RenderedPage

	recorder metrics.Recorder
	now      func() time.Time
}

// AddPage stores a rendered page served at url. Two pages writing the same
// output file are rejected.
func (st *State) AddPage(url string, html []byte) error {
	file := outputFile(st.Config.BaseURL, url)
	for _, p := range st.Pages {
		if p.File == file {
			return serrors.New(serrors.CategoryRender, serrors.SeverityFatal, "duplicate page output").
				WithContext("file", file).
				WithContext("url", url).
				WithContext("previous_url", p.URL)
		}
	}
	st.Pages = append(st.Pages, RenderedPage{
		URL:   url,
		File:  file,
		HTML:  html,
		Route: true,
	})
	return nil
}

// outputFile maps a page URL to "<route>/index.html" below the output directory.
func outputFile(baseURL, url string) string {
	rel := strings.Trim(strings.TrimPrefix(url, baseURL), "/")
	if rel == "" {
		return "index.html"
	}
	return path.Join(rel, "index.html")
}
