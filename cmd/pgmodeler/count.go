package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tasprorepo/pgmodeler"
)

func countCommand() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Count catalog objects, per type or for one type",
		ArgsUsage: "[type]",
		Flags: append(connectionFlags(),
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "restrict to one schema",
			},
		),
		Action: runCount,
	}
}

func runCount(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	db, cat, err := openCatalog(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	schema := cmd.String("schema")

	if arg := cmd.Args().First(); arg != "" {
		typ, err := pgmodeler.ParseObjectType(arg)
		if err != nil {
			return err
		}

		count, err := cat.ObjectCount(ctx, typ, schema)
		if err != nil {
			return err
		}

		fmt.Println(count)

		return nil
	}

	total := 0

	for _, typ := range pgmodeler.ImportOrder() {
		if !cat.HasType(typ) {
			continue
		}

		count, err := cat.ObjectCount(ctx, typ, schema)
		if err != nil {
			return err
		}

		total += count
		fmt.Printf("%-12s %d\n", typ, count)
	}

	fmt.Printf("%-12s %d\n", "total", total)

	return nil
}
