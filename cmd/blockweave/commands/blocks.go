package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/blockweave/blockweave"
)

// Block resolves a block by name outside the render pipeline, the way a
// view template would request one directly.
func Block(args []string) error {
	fs := flag.NewFlagSet("block", flag.ContinueOnError)
	multi := fs.Bool("multi", false, "collect every definition across the corpus")
	items := fs.Bool("items", false, "print each definition separately")
	langFlag := fs.String("lang", "", "active language (BCP 47, empty = default)")
	field := fs.String("field", "", "limit the search to one field")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("usage: blockweave block <name> [-multi] [-items] [-lang xx] [-field f]")
	}
	name := rest[0]

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	lang, err := activeLanguage(*langFlag, e)
	if err != nil {
		return err
	}

	opts := blockweave.ResolveOptions{Multi: *multi, Lang: lang}
	if *field != "" {
		opts.Fields = []string{*field}
	}

	ctx := context.Background()
	if *items {
		list, err := e.engine.GetBlockItems(ctx, name, opts)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println(faintStyle.Render("(no definition)"))
			return nil
		}
		fmt.Println(strings.Join(list, "\n---\n"))
		return nil
	}

	var value string
	if *multi {
		value, err = e.engine.GetMultiBlock(ctx, name, opts)
	} else {
		value, err = e.engine.GetBlock(ctx, name, opts)
	}
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}
