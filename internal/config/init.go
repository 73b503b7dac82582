package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YearToken is replaced with the build year in the footer copyright.
const YearToken = "{year}"

// CopyrightFor returns the footer copyright line for the given year.
func (f FooterConfig) CopyrightFor(year int) string {
	return strings.ReplaceAll(f.Copyright, YearToken, strconv.Itoa(year))
}

// Starter returns a minimal valid configuration for a new site.
func Starter(title string) *Config {
	if title == "" {
		title = "Documentation"
	}
	breadcrumbs := true
	return &Config{
		Title:         title,
		Tagline:       "Documentation site",
		URL:           "https://example.com",
		BaseURL:       "/",
		OnBrokenLinks: BrokenLinksThrow,
		I18n:          I18nConfig{DefaultLocale: "en", Locales: []string{"en"}},
		Docs: DocsConfig{
			Path:          "docs",
			RouteBasePath: "docs",
			SidebarPath:   "sidebars.yaml",
			Breadcrumbs:   &breadcrumbs,
		},
		StaticDir: "static",
		ThemeConfig: ThemeConfig{
			Navbar: NavbarConfig{
				Title: title,
				Items: []NavbarItem{{Type: NavbarItemDocSidebar, SidebarID: "docsSidebar", Label: "Docs", Position: "left"}},
			},
			Footer: FooterConfig{
				Style:     "dark",
				Copyright: "Copyright © " + YearToken + " " + title + ".",
			},
		},
		Homepage: &HomepageConfig{
			Buttons:    []LinkItem{{Label: "Get Started", To: "/docs/intro"}},
			Features:   []FeatureItem{},
			QuickLinks: []QuickLinkSection{},
		},
	}
}

// Init writes a starter configuration to configPath. Existing files are only
// replaced when force is set.
func Init(configPath string, force bool, title string) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := Marshal(Starter(title))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal encodes a configuration as site.yaml content.
func Marshal(cfg *Config) ([]byte, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
