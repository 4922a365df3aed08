// Command httpmsg sends a single HTTP request and prints the response.
//
//	httpmsg [--config FILE] [--base URL] [-H K=V]... <get|post|put|patch|delete> URI [BODY]
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
)

func main() {
	cli := &CLI{}
	cliCtx := kong.Parse(cli,
		kong.Name("httpmsg"),
		kong.Description("Send an HTTP request and print the status line and content."),
		kong.UsageOnError(),
	)
	cliCtx.FatalIfErrorf(cliCtx.Error)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out := output{
		w:      os.Stdout,
		in:     os.Stdin,
		errW:   os.Stderr,
		pretty: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	err := cli.run(ctx, out)
	cliCtx.FatalIfErrorf(err)
}
