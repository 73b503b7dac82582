package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles top-level site defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/"
	}
	if cfg.OnBrokenLinks == "" {
		cfg.OnBrokenLinks = BrokenLinksThrow
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "static"
	}
	if cfg.I18n.DefaultLocale == "" {
		cfg.I18n.DefaultLocale = "en"
	}
	if len(cfg.I18n.Locales) == 0 {
		cfg.I18n.Locales = []string{cfg.I18n.DefaultLocale}
	}
	return nil
}

// DocsDefaultApplier handles content directory and routing defaults.
type DocsDefaultApplier struct{}

func (DocsDefaultApplier) Domain() string { return "docs" }

func (DocsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Docs.Path == "" {
		cfg.Docs.Path = "docs"
	}
	if cfg.Docs.RouteBasePath == "" {
		cfg.Docs.RouteBasePath = "docs"
	}
	if cfg.Docs.SidebarPath == "" {
		cfg.Docs.SidebarPath = "sidebars.yaml"
	}
	return nil
}

// ThemeDefaultApplier handles navbar, footer and code highlighting defaults.
type ThemeDefaultApplier struct{}

func (ThemeDefaultApplier) Domain() string { return "theme" }

func (ThemeDefaultApplier) ApplyDefaults(cfg *Config) error {
	tc := &cfg.ThemeConfig
	if tc.Navbar.Title == "" {
		tc.Navbar.Title = cfg.Title
	}
	for i := range tc.Navbar.Items {
		if tc.Navbar.Items[i].Position == "" {
			tc.Navbar.Items[i].Position = "left"
		}
	}
	if tc.Footer.Style == "" {
		tc.Footer.Style = "light"
	}
	if tc.Prism.Theme == "" {
		tc.Prism.Theme = "github"
	}
	if tc.CustomCSS == nil {
		tc.CustomCSS = []string{"css/custom.css"}
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	SiteDefaultApplier{},
	DocsDefaultApplier{},
	ThemeDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
