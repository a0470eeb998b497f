package commands

import (
	"context"
	"flag"
	"fmt"
)

// Check runs the pre-save uniqueness validation over a stored field value
// without saving. With -write the converted text is persisted, which is
// what the save path would have done.
func Check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	lang := fs.String("lang", "", "language key of the stored value")
	write := fs.Bool("write", false, "persist the converted text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: blockweave check <doc> <field> [-lang xx] [-write]")
	}
	docID, field := rest[0], rest[1]

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	text, err := e.store.GetField(ctx, docID, field, *lang)
	if err != nil {
		return err
	}

	out, changed, warnings, err := e.engine.BeforeSave(ctx, docID, nil, text)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Println(WarningLine(w.String()))
	}
	if !changed {
		fmt.Println(okStyle.Render("no colliding block names"))
		return nil
	}
	if *write {
		if err := e.store.SetField(ctx, docID, field, *lang, out); err != nil {
			return err
		}
		fmt.Println("converted markers persisted")
		return nil
	}
	fmt.Println(faintStyle.Render("re-run with -write to persist the conversion"))
	return nil
}
