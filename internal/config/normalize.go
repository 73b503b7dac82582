package config

import (
	"errors"
	"fmt"
	"strings"

	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
)

// BrokenLinkPolicy decides what a broken internal link does to a build.
type BrokenLinkPolicy string

const (
	BrokenLinksThrow  BrokenLinkPolicy = "throw"
	BrokenLinksWarn   BrokenLinkPolicy = "warn"
	BrokenLinksIgnore BrokenLinkPolicy = "ignore"
)

// NormalizeBrokenLinkPolicy returns the canonical policy or "" when unknown.
// "log" is accepted as an alias of warn.
func NormalizeBrokenLinkPolicy(raw string) BrokenLinkPolicy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "throw":
		return BrokenLinksThrow
	case "warn", "log":
		return BrokenLinksWarn
	case "ignore":
		return BrokenLinksIgnore
	default:
		return ""
	}
}

// NormalizationResult captures adjustments made during normalization.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerations and path-shaped fields in place,
// before defaults are applied.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, errors.New("config nil")
	}
	res := &NormalizationResult{}

	if strings.TrimSpace(string(c.OnBrokenLinks)) != "" {
		p := NormalizeBrokenLinkPolicy(string(c.OnBrokenLinks))
		switch {
		case p == "":
			// left as-is so validation reports it
		case p != c.OnBrokenLinks:
			res.Warnings = append(res.Warnings, warnChanged("onBrokenLinks", c.OnBrokenLinks, p))
			c.OnBrokenLinks = p
		}
	}

	if c.BaseURL != "" {
		if b := NormalizeBaseURL(c.BaseURL); b != c.BaseURL {
			res.Warnings = append(res.Warnings, warnChanged("baseUrl", c.BaseURL, b))
			c.BaseURL = b
		}
	}
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if raw := strings.TrimSpace(c.Docs.RouteBasePath); raw != "" {
		c.Docs.RouteBasePath = strings.Trim(raw, "/")
		if c.Docs.RouteBasePath == "" {
			return nil, serrors.ValidationFailed("docs.routeBasePath", "docs cannot be served at the site root; the homepage owns it")
		}
	}

	for i := range c.ThemeConfig.Navbar.Items {
		item := &c.ThemeConfig.Navbar.Items[i]
		item.Position = strings.ToLower(strings.TrimSpace(item.Position))
	}
	return res, nil
}

// NormalizeBaseURL ensures the base URL starts and ends with a slash.
func NormalizeBaseURL(raw string) string {
	s := strings.Trim(strings.TrimSpace(raw), "/")
	if s == "" {
		return "/"
	}
	return "/" + s + "/"
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}
