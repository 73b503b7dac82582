package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
)

const siteYAML = `title: claude-code-meta
tagline: Community resource for Claude Code features, best practices, and ecosystem tools
url: https://konfuzian.github.io/
baseUrl: claude-code-meta
onBrokenLinks: THROW
docs:
  editUrl: https://github.com/Konfuzian/claude-code-meta/tree/main/
  breadcrumbs: true
themeConfig:
  navbar:
    items:
      - type: docSidebar
        sidebarId: docsSidebar
        label: Docs
      - to: /docs/ecosystem/overview
        label: Ecosystem
      - href: https://github.com/Konfuzian/claude-code-meta
        label: GitHub
        position: Right
  footer:
    style: dark
    links:
      - title: Documentation
        items:
          - label: Getting Started
            to: /docs/intro
    copyright: "Copyright © {year} claude-code-meta."
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_AppliesNormalizationAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "site.yaml", siteYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude-code-meta", cfg.Title)
	assert.Equal(t, "Community resource for Claude Code features, best practices, and ecosystem tools", cfg.Tagline)
	assert.Equal(t, "https://konfuzian.github.io", cfg.URL)
	assert.Equal(t, "/claude-code-meta/", cfg.BaseURL)
	assert.Equal(t, BrokenLinksThrow, cfg.OnBrokenLinks)
	assert.Equal(t, "docs", cfg.Docs.Path)
	assert.Equal(t, "docs", cfg.Docs.RouteBasePath)
	assert.Equal(t, "sidebars.yaml", cfg.Docs.SidebarPath)
	assert.True(t, cfg.Docs.BreadcrumbsEnabled())
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.Equal(t, []string{"en"}, cfg.I18n.Locales)
	assert.Equal(t, "claude-code-meta", cfg.ThemeConfig.Navbar.Title)
	assert.Equal(t, "left", cfg.ThemeConfig.Navbar.Items[0].Position)
	assert.Equal(t, "right", cfg.ThemeConfig.Navbar.Items[2].Position)
	assert.Equal(t, []string{"css/custom.css"}, cfg.ThemeConfig.CustomCSS)
	assert.Equal(t, filepath.Join(dir, "docs"), cfg.DocsDir())
	assert.Equal(t, filepath.Join(dir, "sidebars.yaml"), cfg.SidebarFile())
	assert.Equal(t, filepath.Join(dir, "static"), cfg.StaticPath())
}

func TestLoad_ExpandsEnvironmentFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "SITE_TITLE_FOR_TEST=From Env\n")
	path := writeFile(t, dir, "site.yaml", "title: ${SITE_TITLE_FOR_TEST}\nurl: https://example.com\n")
	t.Cleanup(func() { _ = os.Unsetenv("SITE_TITLE_FOR_TEST") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "site.yaml", "title: [oops\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{Title: "t", URL: "https://example.com"}
	}
	cases := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"missing title", func(c *Config) { c.Title = " " }, "title"},
		{"relative url", func(c *Config) { c.URL = "example.com" }, "url"},
		{"url with path", func(c *Config) { c.URL = "https://example.com/docs" }, "url"},
		{"bad policy", func(c *Config) { c.OnBrokenLinks = "explode" }, "onBrokenLinks"},
		{"docs at site root", func(c *Config) { c.Docs.RouteBasePath = "/" }, "docs.routeBasePath"},
		{"docs at site root with slashes", func(c *Config) { c.Docs.RouteBasePath = " // " }, "docs.routeBasePath"},
		{"navbar no target", func(c *Config) {
			c.ThemeConfig.Navbar.Items = []NavbarItem{{Label: "x"}}
		}, "themeConfig.navbar.items[0]"},
		{"navbar sidebar without id", func(c *Config) {
			c.ThemeConfig.Navbar.Items = []NavbarItem{{Type: NavbarItemDocSidebar, Label: "Docs"}}
		}, "themeConfig.navbar.items[0]"},
		{"footer both targets", func(c *Config) {
			c.ThemeConfig.Footer.Links = []FooterColumn{{Title: "a", Items: []LinkItem{{Label: "x", To: "/a", Href: "https://b"}}}}
		}, "themeConfig.footer.links[0].items[0]"},
		{"footer relative to", func(c *Config) {
			c.ThemeConfig.Footer.Links = []FooterColumn{{Title: "a", Items: []LinkItem{{Label: "x", To: "docs/a"}}}}
		}, "themeConfig.footer.links[0].items[0]"},
		{"homepage button without target", func(c *Config) {
			c.Homepage = &HomepageConfig{Buttons: []LinkItem{{Label: "Go"}}}
		}, "homepage.buttons[0]"},
		{"homepage feature without title", func(c *Config) {
			c.Homepage = &HomepageConfig{Features: []FeatureItem{{Icon: "img/a.svg"}}}
		}, "homepage.features[0]"},
		{"homepage quick link without label", func(c *Config) {
			c.Homepage = &HomepageConfig{QuickLinks: []QuickLinkSection{{Category: "A", Items: []LinkItem{{To: "/docs/a"}}}}}
		}, "homepage.quickLinks[0].items[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			err := Prepare(c)
			require.Error(t, err)
			se, ok := serrors.As(err)
			require.True(t, ok)
			assert.Equal(t, serrors.CategoryValidation, se.Category)
			assert.Equal(t, tc.field, se.Context["field"])
		})
	}

	require.NoError(t, Prepare(base()))
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "/", NormalizeBaseURL(""))
	assert.Equal(t, "/", NormalizeBaseURL("/"))
	assert.Equal(t, "/a/", NormalizeBaseURL("a"))
	assert.Equal(t, "/a/b/", NormalizeBaseURL("/a/b"))
}

func TestNormalizeBrokenLinkPolicy(t *testing.T) {
	assert.Equal(t, BrokenLinksThrow, NormalizeBrokenLinkPolicy(" Throw "))
	assert.Equal(t, BrokenLinksWarn, NormalizeBrokenLinkPolicy("log"))
	assert.Equal(t, BrokenLinksIgnore, NormalizeBrokenLinkPolicy("ignore"))
	assert.Empty(t, NormalizeBrokenLinkPolicy("nope"))
}

func TestCopyrightFor(t *testing.T) {
	f := FooterConfig{Copyright: "Copyright © {year} site."}
	assert.Equal(t, "Copyright © 2026 site.", f.CopyrightFor(2026))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")

	require.NoError(t, Init(path, false, "My Docs"))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Docs", cfg.Title)
	assert.Equal(t, NavbarItemDocSidebar, cfg.ThemeConfig.Navbar.Items[0].Type)

	require.NotNil(t, cfg.Homepage)
	assert.Equal(t, []LinkItem{{Label: "Get Started", To: "/docs/intro"}}, cfg.Homepage.Buttons)
	assert.NotNil(t, cfg.Homepage.Features)
	assert.Empty(t, cfg.Homepage.Features)

	require.Error(t, Init(path, false, "Again"))
	require.NoError(t, Init(path, true, "Again"))
}

func TestParse_HomepageListsDistinguishAbsentFromEmpty(t *testing.T) {
	cfg, err := Parse([]byte("title: t\nurl: https://example.com\nhomepage:\n  features: []\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Homepage)
	assert.NotNil(t, cfg.Homepage.Features)
	assert.Nil(t, cfg.Homepage.QuickLinks)

	cfg, err = Parse([]byte("title: t\nurl: https://example.com\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Homepage)
}
