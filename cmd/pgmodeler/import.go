package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tasprorepo/pgmodeler"
	"github.com/tasprorepo/pgmodeler/importer"
	"github.com/tasprorepo/pgmodeler/model"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import the whole catalog into a model",
		Flags: append(connectionFlags(),
			&cli.StringSliceFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "restrict user objects to these schemas",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "object filter expression",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "model file to write (XML)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output events as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose output",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "stop on first failed object",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "concurrent catalog fetches",
			},
		),
		Action: runImport,
	}
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	// Flag > config for every import setting.
	schemas := cmd.StringSlice("schema")
	if len(schemas) == 0 && cfg != nil {
		schemas = cfg.Import.Schemas
	}

	filterSource := cmd.String("filter")
	if filterSource == "" && cfg != nil {
		filterSource = cfg.Import.Filter
	}

	out := cmd.String("out")
	if out == "" && cfg != nil {
		out = cfg.Import.Out
	}

	filter, err := pgmodeler.CompileFilter(filterSource)
	if err != nil {
		return err
	}

	db, cat, err := openCatalog(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m := model.NewModel(cmd.String("dbname"))
	builder := model.NewBuilder(m)

	formatHandler, err := newImportHandler(cmd)
	if err != nil {
		return err
	}

	opts := []importer.Option{
		importer.WithCatalog(cat),
		importer.WithHandler(importer.NewMultiHandler(builder, formatHandler)),
		importer.WithLogger(newLogger(cmd)),
		importer.WithFilter(filter),
		importer.WithSchemas(schemas...),
	}

	if cmd.Bool("fail-fast") {
		opts = append(opts, importer.WithMaxFailures(1))
	}

	if jobs := cmd.Int("jobs"); jobs > 0 {
		opts = append(opts, importer.WithConcurrency(int(jobs)))
	}

	result, runErr := importer.New(opts...).Run(ctx)
	if runErr != nil && !errors.Is(runErr, importer.ErrMaxFailures) {
		return runErr
	}

	if summarizer, ok := formatHandler.(importer.Summarizer); ok {
		_ = summarizer.Summary(result)
	}

	// Write whatever was imported, even on a partial run.
	if out != "" && m.Len() > 0 {
		if err := writeModel(m, out); err != nil {
			return err
		}

		fmt.Printf("wrote %s (%d objects)\n", out, m.Len())
	}

	if runErr != nil || !result.Ok() {
		return cli.Exit("", 1)
	}

	return nil
}

// newImportHandler selects the event handler from output flags.
func newImportHandler(cmd *cli.Command) (importer.Handler, error) {
	switch {
	case cmd.Bool("json"):
		return importer.NewFormatHandler(importer.NewFormatter("json", os.Stdout), os.Stderr), nil
	case cmd.Bool("verbose"):
		return importer.NewFormatHandler(importer.NewFormatter("verbose", os.Stdout), os.Stderr), nil
	default:
		tuiHandler := importer.NewTUIHandler(os.Stdout, os.Stderr)
		if err := tuiHandler.Start(); err != nil {
			return nil, fmt.Errorf("starting TUI: %w", err)
		}

		return tuiHandler, nil
	}
}

func writeModel(m *model.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := m.WriteXML(f); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
