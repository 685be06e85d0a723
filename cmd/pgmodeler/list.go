package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tasprorepo/pgmodeler"
)

// ErrNoObjectType is returned when a command needs an object type
// argument.
var ErrNoObjectType = errors.New("no object type given (e.g. table, view, role)")

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List catalog objects of a type",
		ArgsUsage: "<type>",
		Flags: append(connectionFlags(),
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "restrict to one schema",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "object filter expression",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output as JSON",
			},
		),
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().First() == "" {
		return ErrNoObjectType
	}

	typ, err := pgmodeler.ParseObjectType(cmd.Args().First())
	if err != nil {
		return err
	}

	filter, err := pgmodeler.CompileFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	db, cat, err := openCatalog(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	refs, err := cat.ListObjects(ctx, typ, cmd.String("schema"))
	if err != nil {
		return err
	}

	matched := make([]pgmodeler.ObjectRef, 0, len(refs))

	for _, ref := range refs {
		ok, err := filter.Match(ref)
		if err != nil {
			return err
		}

		if ok {
			matched = append(matched, ref)
		}
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(matched)
	}

	for _, ref := range matched {
		name := ref.Name
		if ref.Schema != "" {
			name = ref.Schema + "." + name
		}

		fmt.Printf("%-12s %s\n", ref.OID, name)
	}

	return nil
}
