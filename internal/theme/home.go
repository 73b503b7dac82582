package theme

import (
	"context"

	"impractical.co/temple"

	"github.com/Konfuzian/claude-code-meta/internal/config"
)

type (
	FeatureItem      = config.FeatureItem
	QuickLinkSection = config.QuickLinkSection
)

// DefaultFeatures is the homepage feature grid.
var DefaultFeatures = []FeatureItem{
	{
		Title:       "Features & Commands",
		Icon:        "img/undraw_docusaurus_mountain.svg",
		Description: "Complete documentation of Claude Code CLI commands, MCP integrations, IDE extensions, hooks, and custom skills.",
	},
	{
		Title:       "Best Practices",
		Icon:        "img/undraw_docusaurus_tree.svg",
		Description: "Workflow tips, context management strategies, security best practices, and test-driven development with AI.",
	},
	{
		Title:       "Ecosystem Tools",
		Icon:        "img/undraw_docusaurus_react.svg",
		Description: "Curated agent orchestrators, safety tools, skills frameworks, and community resources to enhance your workflow.",
	},
}

// DefaultQuickLinks is the homepage "All Pages" index.
var DefaultQuickLinks = []QuickLinkSection{
	{Category: "Getting Started", Items: []config.LinkItem{
		{Label: "Installation", To: "/docs/getting-started/installation"},
		{Label: "First Session", To: "/docs/getting-started/first-session"},
		{Label: "Configuration", To: "/docs/getting-started/configuration"},
	}},
	{Category: "Features", Items: []config.LinkItem{
		{Label: "CLI Commands", To: "/docs/features/cli-commands"},
		{Label: "MCP Integrations", To: "/docs/features/mcp-integrations"},
		{Label: "IDE Integrations", To: "/docs/features/ide-integrations"},
		{Label: "Hooks", To: "/docs/features/hooks"},
		{Label: "Skills", To: "/docs/features/skills"},
		{Label: "GitHub Integration", To: "/docs/features/github-integration"},
	}},
	{Category: "Best Practices", Items: []config.LinkItem{
		{Label: "Workflow Tips", To: "/docs/best-practices/workflow-tips"},
		{Label: "Context Management", To: "/docs/best-practices/context-management"},
		{Label: "Security", To: "/docs/best-practices/security"},
		{Label: "TDD with Claude", To: "/docs/best-practices/tdd-with-claude"},
	}},
	{Category: "Ecosystem", Items: []config.LinkItem{
		{Label: "Overview", To: "/docs/ecosystem/overview"},
		{Label: "Agent Orchestrators", To: "/docs/ecosystem/agent-orchestrators"},
		{Label: "Safety Tools", To: "/docs/ecosystem/safety-tools"},
		{Label: "Skills Frameworks", To: "/docs/ecosystem/skills-frameworks"},
		{Label: "Awesome Resources", To: "/docs/ecosystem/awesome-resources"},
	}},
}

// DefaultHeroButtons are the calls to action below the tagline.
var DefaultHeroButtons = []config.LinkItem{
	{Label: "Get Started", To: "/docs/intro"},
	{Label: "Explore Ecosystem", To: "/docs/ecosystem/overview"},
}

// Hero is the homepage banner.
type Hero struct {
	Title   string
	Tagline string
	Buttons []config.LinkItem
}

func (Hero) Templates(context.Context) []string { return []string{"hero.html.tmpl"} }

// FeatureGrid renders one column per item, in order.
type FeatureGrid []FeatureItem

func (FeatureGrid) Templates(context.Context) []string { return []string{"features.html.tmpl"} }

// QuickLinks renders one block per section, in order.
type QuickLinks []QuickLinkSection

func (QuickLinks) Templates(context.Context) []string { return []string{"quicklinks.html.tmpl"} }

// HomePage is the site landing page.
type HomePage struct {
	Layout     Layout
	Hero       Hero
	Features   FeatureGrid
	QuickLinks QuickLinks
}

// NewHomePage builds the landing page from the site title and tagline. Lists
// configured under homepage replace the defaults.
func NewHomePage(cfg *config.Config) HomePage {
	h := HomePage{
		Hero:       Hero{Title: cfg.Title, Tagline: cfg.Tagline, Buttons: DefaultHeroButtons},
		Features:   DefaultFeatures,
		QuickLinks: DefaultQuickLinks,
	}
	if hc := cfg.Homepage; hc != nil {
		if hc.Buttons != nil {
			h.Hero.Buttons = hc.Buttons
		}
		if hc.Features != nil {
			h.Features = hc.Features
		}
		if hc.QuickLinks != nil {
			h.QuickLinks = hc.QuickLinks
		}
	}
	return h
}

func (HomePage) Templates(context.Context) []string { return []string{"home.html.tmpl"} }

func (h HomePage) UseComponents(context.Context) []temple.Component {
	return []temple.Component{h.Layout, h.Hero, h.Features, h.QuickLinks}
}

func (HomePage) Key(context.Context) string { return "home" }

func (h HomePage) ExecutedTemplate(context.Context) string { return h.Layout.BaseTemplate() }

func (h HomePage) Head() Meta {
	return Meta{Title: "Home", Description: h.Hero.Tagline}
}

// NotFoundPage is emitted as 404.html.
type NotFoundPage struct {
	Layout Layout
}

func (NotFoundPage) Templates(context.Context) []string { return []string{"404.html.tmpl"} }

func (p NotFoundPage) UseComponents(context.Context) []temple.Component {
	return []temple.Component{p.Layout}
}

func (NotFoundPage) Key(context.Context) string { return "404" }

func (p NotFoundPage) ExecutedTemplate(context.Context) string { return p.Layout.BaseTemplate() }

func (NotFoundPage) Head() Meta { return Meta{Title: "Page Not Found"} }
