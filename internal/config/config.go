package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
)

// Config is the site configuration read from site.yaml.
type Config struct {
	Title            string           `yaml:"title"`
	Tagline          string           `yaml:"tagline"`
	Favicon          string           `yaml:"favicon,omitempty"`
	URL              string           `yaml:"url"`
	BaseURL          string           `yaml:"baseUrl"`
	OrganizationName string           `yaml:"organizationName,omitempty"`
	ProjectName      string           `yaml:"projectName,omitempty"`
	OnBrokenLinks    BrokenLinkPolicy `yaml:"onBrokenLinks"`
	I18n             I18nConfig       `yaml:"i18n"`
	Docs             DocsConfig       `yaml:"docs"`
	StaticDir        string           `yaml:"staticDir,omitempty"`
	ThemeConfig      ThemeConfig      `yaml:"themeConfig"`
	Homepage         *HomepageConfig  `yaml:"homepage,omitempty"`

	// dir is the directory site.yaml was loaded from; relative paths resolve against it.
	dir string
}

// I18nConfig lists the site locales. Only the default locale is rendered.
type I18nConfig struct {
	DefaultLocale string   `yaml:"defaultLocale"`
	Locales       []string `yaml:"locales"`
}

// DocsConfig controls where content documents live and how they are routed.
type DocsConfig struct {
	Path          string `yaml:"path"`
	RouteBasePath string `yaml:"routeBasePath"`
	SidebarPath   string `yaml:"sidebarPath"`
	EditURL       string `yaml:"editUrl,omitempty"`
	Breadcrumbs   *bool  `yaml:"breadcrumbs,omitempty"`
}

// ThemeConfig holds presentational options.
type ThemeConfig struct {
	Image     string          `yaml:"image,omitempty"`
	ColorMode ColorModeConfig `yaml:"colorMode"`
	Navbar    NavbarConfig    `yaml:"navbar"`
	Footer    FooterConfig    `yaml:"footer"`
	Prism     PrismConfig     `yaml:"prism"`

	// CustomCSS lists stylesheets linked from every page.
	CustomCSS []string `yaml:"customCss,omitempty"`
}

type ColorModeConfig struct {
	RespectPrefersColorScheme bool `yaml:"respectPrefersColorScheme"`
}

type NavbarConfig struct {
	Title string       `yaml:"title"`
	Logo  *LogoConfig  `yaml:"logo,omitempty"`
	Items []NavbarItem `yaml:"items"`
}

type LogoConfig struct {
	Alt string `yaml:"alt"`
	Src string `yaml:"src"`
}

// NavbarItemType distinguishes plain links from sidebar entry points.
type NavbarItemType string

const (
	NavbarItemLink       NavbarItemType = ""
	NavbarItemDocSidebar NavbarItemType = "docSidebar"
)

// NavbarItem is either a link (to/href) or a docSidebar entry that links to
// the first document of the named sidebar.
type NavbarItem struct {
	Type      NavbarItemType `yaml:"type,omitempty"`
	SidebarID string         `yaml:"sidebarId,omitempty"`
	Label     string         `yaml:"label"`
	To        string         `yaml:"to,omitempty"`
	Href      string         `yaml:"href,omitempty"`
	Position  string         `yaml:"position,omitempty"`
}

// LinkItem is a (label, target) pair. Exactly one of To (internal path,
// base URL prepended at render time) or Href (external URL) is set.
type LinkItem struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
}

// IsExternal reports whether the item points outside the site.
func (l LinkItem) IsExternal() bool { return l.Href != "" }

type FooterConfig struct {
	Style     string         `yaml:"style"`
	Links     []FooterColumn `yaml:"links"`
	Copyright string         `yaml:"copyright"`
}

type FooterColumn struct {
	Title string     `yaml:"title"`
	Items []LinkItem `yaml:"items"`
}

type PrismConfig struct {
	Theme               string   `yaml:"theme"`
	DarkTheme           string   `yaml:"darkTheme"`
	AdditionalLanguages []string `yaml:"additionalLanguages"`
}

// BreadcrumbsEnabled reports the effective breadcrumbs setting (default on).
func (d DocsConfig) BreadcrumbsEnabled() bool {
	return d.Breadcrumbs == nil || *d.Breadcrumbs
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string {
	if c.dir == "" {
		return "."
	}
	return c.dir
}

// SetDir overrides the resolution directory.
func (c *Config) SetDir(dir string) { c.dir = dir }

// Resolve joins a configured path with the config directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// DocsDir is the content directory.
func (c *Config) DocsDir() string { return c.Resolve(c.Docs.Path) }

// SidebarFile is the path of the navigation tree declaration.
func (c *Config) SidebarFile() string { return c.Resolve(c.Docs.SidebarPath) }

// StaticPath is the directory copied verbatim into the output.
func (c *Config) StaticPath() string { return c.Resolve(c.StaticDir) }

// Load reads, normalizes, defaults and validates a site configuration file.
// A .env file next to the config is loaded first; ${VAR} references in the
// YAML are expanded from the environment.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	dir := filepath.Dir(configPath)
	if err := loadEnvFiles(dir); err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}
	cfg.dir = dir

	if err := Prepare(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes site.yaml content without normalizing or validating it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal site config: %w", err)
	}
	return &cfg, nil
}

// Prepare runs normalization, default application and validation in order.
func Prepare(cfg *Config) error {
	if _, err := NormalizeConfig(cfg); err != nil {
		return err
	}
	if err := applyDefaults(cfg); err != nil {
		return err
	}
	return ValidateConfig(cfg)
}
