// Command pgmodeler reverse engineers a database catalog into a
// portable model: it lists and inspects catalog objects, imports them
// in dependency order and renders them back to SQL through schema
// templates.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cmd := &cli.Command{
		Name:  "pgmodeler",
		Usage: "Reverse engineer database catalogs into models",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			countCommand(),
			attribsCommand(),
			importCommand(),
			renderCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the logger for a command invocation.
func newLogger(cmd *cli.Command) *zap.SugaredLogger {
	if cmd.Bool("debug") {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger.Sugar()
		}
	}

	return zap.NewNop().Sugar()
}
