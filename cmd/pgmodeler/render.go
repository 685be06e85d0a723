package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/urfave/cli/v3"

	"github.com/tasprorepo/pgmodeler"
	"github.com/tasprorepo/pgmodeler/importer"
	"github.com/tasprorepo/pgmodeler/model"
	"github.com/tasprorepo/pgmodeler/schemalang"
)

// Render command errors.
var (
	ErrNoTemplateDir     = errors.New("no template directory (use --templates or .pgmodeler.yaml)")
	ErrNoSchemaTemplates = errors.New("no .sch templates found")
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render a model to SQL through schema templates, from a saved model file or a live import",
		Flags: append(connectionFlags(),
			&cli.StringFlag{
				Name:    "templates",
				Aliases: []string{"t"},
				Usage:   "directory holding <type>.sch templates",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "model file to render (default: import from the database)",
			},
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
				Usage:   "SQL file to write (default: stdout)",
			},
		),
		Action: runRender,
	}
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	templateDir := cmd.String("templates")
	if templateDir == "" && cfg != nil {
		templateDir = cfg.Import.Templates
	}

	if templateDir == "" {
		return ErrNoTemplateDir
	}

	set, err := loadTemplateSet(templateDir)
	if err != nil {
		return err
	}

	var m *model.Model

	if path := cmd.String("model"); path != "" {
		m, err = readModel(path)
	} else {
		m, err = importModel(ctx, cmd, cfg)
	}

	if err != nil {
		return err
	}

	sql, err := m.SQL(set)
	if err != nil {
		return err
	}

	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, []byte(sql), 0o644); err != nil { //nolint:gosec // G306: generated SQL is not sensitive
			return err
		}

		fmt.Printf("wrote %s\n", out)

		return nil
	}

	fmt.Print(sql)

	return nil
}

// readModel loads a model file written by the import command.
func readModel(path string) (*model.Model, error) {
	f, err := os.Open(path) //nolint:gosec // G304: model path from user input is expected
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	m, err := model.ReadXML(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return m, nil
}

// importModel builds a model from a live database import.
func importModel(ctx context.Context, cmd *cli.Command, cfg *pgmodeler.Config) (*model.Model, error) {
	schemas := cmd.StringSlice("schema")
	if len(schemas) == 0 && cfg != nil {
		schemas = cfg.Import.Schemas
	}

	filterSource := cmd.String("filter")
	if filterSource == "" && cfg != nil {
		filterSource = cfg.Import.Filter
	}

	filter, err := pgmodeler.CompileFilter(filterSource)
	if err != nil {
		return nil, err
	}

	db, cat, err := openCatalog(cmd, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	m := model.NewModel(cmd.String("dbname"))

	result, err := importer.New(
		importer.WithCatalog(cat),
		importer.WithHandler(model.NewBuilder(m)),
		importer.WithLogger(newLogger(cmd)),
		importer.WithFilter(filter),
		importer.WithSchemas(schemas...),
	).Run(ctx)
	if err != nil {
		return nil, err
	}

	if !result.Ok() {
		for _, event := range result.Failed {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", event.ID(), event.Error)
		}

		return nil, cli.Exit("", 1)
	}

	return m, nil
}

// loadTemplateSet walks a directory tree for <type>.sch files,
// respecting .gitignore, and parses them into a template set.
func loadTemplateSet(root string) (*schemalang.Set, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{"sch"}

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var (
		wg    sync.WaitGroup
		files []string
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			files = append(files, f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}

	set := schemalang.NewSet()

	for _, path := range files {
		typ, err := pgmodeler.ParseObjectType(strings.TrimSuffix(filepath.Base(path), ".sch"))
		if err != nil {
			continue
		}

		data, err := os.ReadFile(path) //nolint:gosec // G304: template path from user input is expected
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		tmpl, err := schemalang.Parse(path, string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		set.Add(typ, tmpl)
	}

	if len(set.Types()) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSchemaTemplates, root)
	}

	return set, nil
}
