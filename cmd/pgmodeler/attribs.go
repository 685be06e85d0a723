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

// ErrNoObjectName is returned when the attribs command is missing its
// object name argument.
var ErrNoObjectName = errors.New("no object name given")

func attribsCommand() *cli.Command {
	return &cli.Command{
		Name:      "attribs",
		Usage:     "Show the catalog attributes of one object",
		ArgsUsage: "<type> <name>",
		Flags: append(connectionFlags(),
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "schema of the object",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "parent table (for columns)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output as JSON",
			},
		),
		Action: runAttribs,
	}
}

func runAttribs(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().First() == "" {
		return ErrNoObjectType
	}

	typ, err := pgmodeler.ParseObjectType(cmd.Args().First())
	if err != nil {
		return err
	}

	name := cmd.Args().Get(1)
	if name == "" {
		return ErrNoObjectName
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

	extra := pgmodeler.AttribMap{}
	if schema := cmd.String("schema"); schema != "" {
		extra[pgmodeler.AttrSchema] = schema
	}

	if table := cmd.String("table"); table != "" {
		extra["table"] = table
	}

	attribs, err := cat.Attributes(ctx, typ, name, extra)
	if err != nil {
		return err
	}

	// Roles, tablespaces and databases keep comments in the shared
	// description catalog.
	shared := typ == pgmodeler.ObjectTypeRole ||
		typ == pgmodeler.ObjectTypeTablespace ||
		typ == pgmodeler.ObjectTypeDatabase

	if oid := attribs[pgmodeler.AttrOID]; oid != "" && attribs[pgmodeler.AttrComment] == "" {
		comment, err := cat.Comment(ctx, oid, shared)
		if err != nil {
			return err
		}

		if comment != "" {
			attribs = attribs.Merge(pgmodeler.AttribMap{pgmodeler.AttrComment: comment})
		}
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(attribs)
	}

	for _, key := range attribs.Keys() {
		fmt.Printf("%-24s %s\n", key, attribs[key])
	}

	return nil
}
