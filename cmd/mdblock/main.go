package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdblock/cmd/mdblock/commands"
	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
	"git.home.luguber.info/inful/mdblock/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal()

	parser, err := kong.New(cli,
		kong.Name("mdblock"),
		kong.Description("Block-level markdown tokenizer."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err != nil {
		ferrors.NewCLIErrorAdapter(false, global.Logger).HandleError(ferrors.InternalError("invalid command line definition").WithCause(err).Build())
		return
	}

	ctx, err := parser.Parse(nil)
	if err == nil {
		err = ctx.Run()
	}
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
