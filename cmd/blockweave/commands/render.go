package commands

import (
	"context"
	"flag"
	"fmt"

	"golang.org/x/text/language"

	"github.com/blockweave/blockweave"
)

// Render runs the full format pipeline over one document field and prints
// the result.
func Render(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	langFlag := fs.String("lang", "", "active language (BCP 47, empty = default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: blockweave render <doc> <field> [-lang xx]")
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	doc, err := e.store.Document(ctx, rest[0])
	if err != nil {
		return err
	}

	lang, err := activeLanguage(*langFlag, e)
	if err != nil {
		return err
	}

	text, err := doc.FieldValue(rest[1], lang)
	if err != nil {
		return err
	}

	scope := blockweave.NewRenderScope(lang)
	fmt.Println(e.engine.FormatDocumentText(ctx, scope, text))
	return nil
}

func activeLanguage(flagValue string, e *env) (language.Tag, error) {
	if flagValue == "" {
		return e.cfg.Language(), nil
	}
	tag, err := language.Parse(flagValue)
	if err != nil {
		return language.Tag{}, fmt.Errorf("invalid language %q: %w", flagValue, err)
	}
	return tag, nil
}
