package theme

import (
	"context"

	"impractical.co/temple"

	"github.com/Konfuzian/claude-code-meta/internal/config"
)

// Layout is the frame shared by every page: head, navbar and footer.
type Layout struct {
	// Stylesheets are linked from the head, in order.
	Stylesheets []string
}

func (Layout) Templates(context.Context) []string {
	return []string{"layout.html.tmpl", "navbar.html.tmpl", "footer.html.tmpl"}
}

// BaseTemplate is the template pages execute.
func (Layout) BaseTemplate() string { return "layout" }

func (l Layout) LinkCSS(context.Context) []temple.CSSLink {
	links := make([]temple.CSSLink, 0, len(l.Stylesheets))
	for _, href := range l.Stylesheets {
		links = append(links, temple.CSSLink{Href: href, Rel: "stylesheet", Type: "text/css"})
	}
	return links
}

// NavLink is a resolved link.
type NavLink struct {
	Label    string
	URL      string
	External bool
}

// Navbar is the view of the configured navbar.
type Navbar struct {
	Title   string
	HomeURL string
	Logo    *config.LogoConfig
	Left    []NavLink
	Right   []NavLink
}

// Navbar resolves navbar items. A docSidebar item links to the first
// document of its sidebar.
func (s *Site) Navbar() Navbar {
	cfg := s.Config.ThemeConfig.Navbar
	n := Navbar{Title: cfg.Title, HomeURL: s.URL("/")}
	if cfg.Logo != nil {
		n.Logo = &config.LogoConfig{Alt: cfg.Logo.Alt, Src: s.URL(cfg.Logo.Src)}
	}
	for _, item := range cfg.Items {
		var link NavLink
		switch item.Type {
		case config.NavbarItemDocSidebar:
			link = NavLink{Label: item.Label, URL: s.SidebarHome[item.SidebarID]}
		default:
			li := config.LinkItem{Label: item.Label, To: item.To, Href: item.Href}
			link = NavLink{Label: item.Label, URL: s.LinkURL(li), External: li.IsExternal()}
		}
		if item.Position == "right" {
			n.Right = append(n.Right, link)
		} else {
			n.Left = append(n.Left, link)
		}
	}
	return n
}

// FooterColumn is one titled column of footer links.
type FooterColumn struct {
	Title string
	Links []NavLink
}

// Footer is the view of the configured footer.
type Footer struct {
	Style     string
	Columns   []FooterColumn
	Copyright string
}

// Footer resolves footer columns and the copyright line for the site year.
func (s *Site) Footer() Footer {
	cfg := s.Config.ThemeConfig.Footer
	f := Footer{Style: cfg.Style, Copyright: cfg.CopyrightFor(s.Year)}
	for _, col := range cfg.Links {
		c := FooterColumn{Title: col.Title}
		for _, item := range col.Items {
			c.Links = append(c.Links, NavLink{Label: item.Label, URL: s.LinkURL(item), External: item.IsExternal()})
		}
		f.Columns = append(f.Columns, c)
	}
	return f
}
