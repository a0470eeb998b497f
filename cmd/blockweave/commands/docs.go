package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// Put sets one document field value, creating the document if needed.
func Put(args []string) error {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	lang := fs.String("lang", "", "language key (empty = unlocalized)")
	file := fs.String("file", "", "read the value from a file instead of the argument")
	hidden := fs.Bool("hidden", false, "create the document unpublished")
	restricted := fs.Bool("restricted", false, "create the document non-viewable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: blockweave put <doc> <field> [value] [-lang xx] [-file path]")
	}
	docID, field := rest[0], rest[1]

	var value string
	switch {
	case *file != "":
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", *file, err)
		}
		value = string(data)
	case len(rest) > 2:
		value = rest[2]
	default:
		return fmt.Errorf("value required (inline or via -file)")
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	if err := e.store.CreateDocument(ctx, docID, !*hidden, !*restricted); err != nil {
		return err
	}

	// Run the pre-save uniqueness check so colliding single-value blocks
	// are converted before they land in the corpus.
	value, changed, warnings, err := e.engine.BeforeSave(ctx, docID, nil, value)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Println(WarningLine(w.String()))
	}
	if changed {
		fmt.Println(faintStyle.Render("saved with converted markers"))
	}

	return e.store.SetField(ctx, docID, field, *lang, value)
}

// Get prints one document field value.
func Get(args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	lang := fs.String("lang", "", "language key (empty = unlocalized)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: blockweave get <doc> <field> [-lang xx]")
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	value, err := e.store.GetField(context.Background(), rest[0], rest[1], *lang)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}
