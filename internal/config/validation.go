package config

import (
	"fmt"
	"net/url"
	"strings"

	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
)

// ValidateConfig validates the complete configuration and returns the first problem found.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateNavbar(); err != nil {
		return err
	}
	if err := cv.validateFooter(); err != nil {
		return err
	}
	return cv.validateHomepage()
}

func (cv *configurationValidator) validateSite() error {
	c := cv.config
	if strings.TrimSpace(c.Title) == "" {
		return serrors.ValidationFailed("title", "site title is required")
	}
	if c.URL == "" {
		return serrors.ValidationFailed("url", "site url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return serrors.ValidationFailed("url", fmt.Sprintf("must be an absolute URL, got %q", c.URL))
	}
	if u.Path != "" && u.Path != "/" {
		return serrors.ValidationFailed("url", "must not contain a path; use baseUrl")
	}
	if NormalizeBrokenLinkPolicy(string(c.OnBrokenLinks)) == "" {
		return serrors.ValidationFailed("onBrokenLinks", fmt.Sprintf("unsupported policy %q (throw, warn, ignore)", c.OnBrokenLinks))
	}
	if !containsString(c.I18n.Locales, c.I18n.DefaultLocale) {
		return serrors.ValidationFailed("i18n.locales", "must include the default locale")
	}
	return nil
}

func (cv *configurationValidator) validateNavbar() error {
	for i, item := range cv.config.ThemeConfig.Navbar.Items {
		field := fmt.Sprintf("themeConfig.navbar.items[%d]", i)
		if item.Label == "" {
			return serrors.ValidationFailed(field, "label is required")
		}
		switch item.Type {
		case NavbarItemDocSidebar:
			if item.SidebarID == "" {
				return serrors.ValidationFailed(field, "docSidebar item needs sidebarId")
			}
		case NavbarItemLink:
			if err := validateTarget(field, item.To, item.Href); err != nil {
				return err
			}
		default:
			return serrors.ValidationFailed(field, fmt.Sprintf("unsupported item type %q", item.Type))
		}
		if item.Position != "left" && item.Position != "right" {
			return serrors.ValidationFailed(field, fmt.Sprintf("position must be left or right, got %q", item.Position))
		}
	}
	return nil
}

func (cv *configurationValidator) validateFooter() error {
	for i, col := range cv.config.ThemeConfig.Footer.Links {
		for j, item := range col.Items {
			field := fmt.Sprintf("themeConfig.footer.links[%d].items[%d]", i, j)
			if item.Label == "" {
				return serrors.ValidationFailed(field, "label is required")
			}
			if err := validateTarget(field, item.To, item.Href); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateTarget enforces the LinkItem contract: exactly one of to/href, with
// to being a site path and href an absolute URL.
func validateTarget(field, to, href string) error {
	switch {
	case to == "" && href == "":
		return serrors.ValidationFailed(field, "one of to or href is required")
	case to != "" && href != "":
		return serrors.ValidationFailed(field, "to and href are mutually exclusive")
	case to != "" && !strings.HasPrefix(to, "/"):
		return serrors.ValidationFailed(field, fmt.Sprintf("to must be a site path starting with '/', got %q", to))
	case href != "":
		u, err := url.Parse(href)
		if err != nil || u.Scheme == "" {
			return serrors.ValidationFailed(field, fmt.Sprintf("href must be an absolute URL, got %q", href))
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
