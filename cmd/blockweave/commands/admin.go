package commands

import (
	"context"
	"fmt"
	"strings"
)

// Init creates or migrates the corpus database.
func Init(args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.store.Migrate(); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("corpus ready:") + " " + e.cfg.DatabasePath)
	return nil
}

// Enable turns block handling on for a field.
func Enable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("field required: blockweave enable <field>")
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.store.EnableField(context.Background(), args[0], e.cfg.Capability); err != nil {
		return err
	}
	fmt.Printf("enabled %s for %s\n", e.cfg.Capability, args[0])
	return nil
}

// Disable turns block handling off for a field.
func Disable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("field required: blockweave disable <field>")
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.store.DisableField(context.Background(), args[0], e.cfg.Capability); err != nil {
		return err
	}
	fmt.Printf("disabled %s for %s\n", e.cfg.Capability, args[0])
	return nil
}

// Uninstall refuses to proceed while any field still depends on block
// handling, and names the dependent fields so the operator can disable
// them first.
func Uninstall(args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	fields, err := e.store.FieldsWithCapability(context.Background(), e.cfg.Capability)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return fmt.Errorf("cannot uninstall: fields still depend on %s: %s",
			e.cfg.Capability, strings.Join(fields, ", "))
	}
	fmt.Println(okStyle.Render("no dependent fields, safe to uninstall"))
	return nil
}
