package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Konfuzian/claude-code-meta/cmd/metasite/commands"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("metasite"),
		kong.Description("Build the claude-code-meta documentation site from site.yaml, sidebars.yaml and markdown content."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	global := &commands.Global{Out: os.Stdout}
	if err := kctx.Run(global, cli); err != nil {
		serrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
