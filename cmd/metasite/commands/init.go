package commands

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Konfuzian/claude-code-meta/internal/build"
	"github.com/Konfuzian/claude-code-meta/internal/config"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/nav"
)

const starterDoc = `---
sidebar_position: 1
---
# Introduction

Welcome to your new documentation site. Add markdown files under docs/ and
run metasite sidebar diff --autogenerated to see which ones the sidebar lists.
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite existing site.yaml and sidebars.yaml"`
	Title string `help:"Site title" default:"Documentation"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	g.printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force, i.Title); err != nil {
		return serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "configuration could not be written").
			WithContext("path", root.Config)
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.DocsDir()); errors.Is(err, fs.ErrNotExist) {
		intro := filepath.Join(cfg.DocsDir(), "intro.md")
		g.printf("Writing starter document to %s\n", intro)
		if err := writeFile(intro, []byte(starterDoc)); err != nil {
			return serrors.OutputError("write starter document", err)
		}
	}

	sidebarFile := cfg.SidebarFile()
	if _, err := os.Stat(sidebarFile); err == nil && !i.Force {
		g.printf("Keeping existing %s\n", sidebarFile)
		return nil
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	data, err := nav.AutogeneratedSidebars(build.DefaultSidebarID, catalog).Marshal()
	if err != nil {
		return serrors.InternalError("encode sidebars", err)
	}
	g.printf("Writing sidebars for %d documents to %s\n", catalog.Len(), sidebarFile)
	if err := writeFile(sidebarFile, data); err != nil {
		return serrors.OutputError("write sidebars", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	//nolint:gosec // site sources are meant to be shared
	return os.WriteFile(path, data, 0o644)
}
