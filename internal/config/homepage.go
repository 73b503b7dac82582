package config

import (
	"fmt"

	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
)

// HomepageConfig overrides the landing page sections. A list left out of
// site.yaml keeps the built-in default; an empty list renders no items.
type HomepageConfig struct {
	Buttons    []LinkItem         `yaml:"buttons"`
	Features   []FeatureItem      `yaml:"features"`
	QuickLinks []QuickLinkSection `yaml:"quickLinks"`
}

// FeatureItem is one column of the homepage feature grid.
type FeatureItem struct {
	Title string `yaml:"title"`
	// Icon is a site path of the illustration, such as "img/undraw_docusaurus_tree.svg".
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

// QuickLinkSection is one category of the homepage page index.
type QuickLinkSection struct {
	Category string     `yaml:"category"`
	Items    []LinkItem `yaml:"items"`
}

func (cv *configurationValidator) validateHomepage() error {
	h := cv.config.Homepage
	if h == nil {
		return nil
	}
	for i, b := range h.Buttons {
		field := fmt.Sprintf("homepage.buttons[%d]", i)
		if b.Label == "" {
			return serrors.ValidationFailed(field, "label is required")
		}
		if err := validateTarget(field, b.To, b.Href); err != nil {
			return err
		}
	}
	for i, f := range h.Features {
		if f.Title == "" {
			return serrors.ValidationFailed(fmt.Sprintf("homepage.features[%d]", i), "title is required")
		}
	}
	for i, s := range h.QuickLinks {
		if s.Category == "" {
			return serrors.ValidationFailed(fmt.Sprintf("homepage.quickLinks[%d]", i), "category is required")
		}
		for j, item := range s.Items {
			field := fmt.Sprintf("homepage.quickLinks[%d].items[%d]", i, j)
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
