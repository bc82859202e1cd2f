package main

import (
	"fmt"
	"os"

	"github.com/postwright/postwright/internal/signals"
	"github.com/postwright/postwright/internal/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "pw"
	app.Usage = "Generate on-brand Instagram content from the terminal"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
	}
	app.Commands = []*cli.Command{
		accountCommand,
		analyzeCommand,
		captionCommand,
		hashtagsCommand,
		ideasCommand,
		loginCommand,
		logoutCommand,
		personaCommand,
		registerCommand,
		usageCommand,
		whoamiCommand,
	}
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
