package commands

import (
	"github.com/Konfuzian/claude-code-meta/internal/preview"
)

// ServeCmd builds the site, serves it and rebuilds when sources change.
type ServeCmd struct {
	Port   int    `short:"p" help:"HTTP port" default:"3000"`
	Output string `short:"o" help:"Output directory (defaults to a temporary directory)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	srv, err := preview.New(preview.Options{
		ConfigPath: root.Config,
		OutputDir:  s.Output,
		Port:       s.Port,
	})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return srv.Run(ctx)
}
