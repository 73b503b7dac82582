// Package commands implements the metasite subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	"github.com/Konfuzian/claude-code-meta/internal/content"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/nav"
)

// Global is passed to every command's Run method.
type Global struct {
	// Out receives user-facing command output.
	Out io.Writer
}

func (g *Global) printf(format string, args ...any) {
	out := g.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, format, args...)
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file" default:"site.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the static site"`
	Check   CheckCmd   `cmd:"" help:"Validate content, sidebars and links without writing output"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site locally and rebuild on change"`
	Init    InitCmd    `cmd:"" help:"Write a starter site.yaml and sidebars.yaml"`
	Sidebar SidebarCmd `cmd:"" help:"Inspect and compare sidebar declarations"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// loadCatalog discovers the content documents of a site, drafts excluded.
func loadCatalog(cfg *config.Config) (*content.Catalog, error) {
	catalog, err := content.NewDiscovery(cfg.DocsDir(), content.Options{
		BaseURL:       cfg.BaseURL,
		RouteBasePath: cfg.Docs.RouteBasePath,
	}).Discover()
	if err != nil {
		if _, ok := serrors.As(err); !ok {
			err = serrors.ContentError(cfg.DocsDir(), err)
		}
		return nil, err
	}
	return catalog, nil
}

// loadSidebars reads a sidebars file and expands its autogenerated entries.
func loadSidebars(path string, catalog *content.Catalog) (*nav.Sidebars, error) {
	declared, err := nav.Load(path)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryNavigation, serrors.SeverityFatal, "sidebars could not be loaded").
			WithContext("path", path)
	}
	return declared.Expand(catalog), nil
}
