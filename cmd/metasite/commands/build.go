package commands

import (
	"github.com/Konfuzian/claude-code-meta/internal/build"
	"github.com/Konfuzian/claude-code-meta/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory, relative to the site configuration" default:"build"`
	Drafts bool   `help:"Include documents marked draft"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := build.NewService().Run(ctx, build.Request{
		Config:    cfg,
		OutputDir: cfg.Resolve(b.Output),
		Options:   build.Options{IncludeDrafts: b.Drafts},
	})
	if err != nil {
		return err
	}
	g.printf("Built %d pages from %d documents into %s\n", res.Report.Pages, res.Report.Documents, res.OutputPath)
	return nil
}

// CheckCmd implements the 'check' command: a build that writes nothing.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := build.NewService().Run(ctx, build.Request{Config: cfg, Options: build.Options{DryRun: true}})
	if err != nil {
		return err
	}
	g.printf("OK: %d documents, %d pages, %d broken links (%s)\n",
		res.Report.Documents, res.Report.Pages, len(res.Report.BrokenLinks), res.Report.Outcome)
	return nil
}
