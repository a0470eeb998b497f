package commands

import (
	"fmt"

	"github.com/blockweave/blockweave/internal/config"
)

// Config handles configuration management commands
func Config(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("command required: get, set, list")
	}

	switch args[0] {
	case "get":
		return configGet(args[1:])
	case "set":
		return configSet(args[1:])
	case "list":
		return configList()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func configGet(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("key required: blockweave config get <key>")
	}

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return err
	}

	switch args[0] {
	case "start_word":
		fmt.Println(cfg.Grammar.StartWord)
	case "stop_word":
		fmt.Println(cfg.Grammar.StopWord)
	case "show_word":
		fmt.Println(cfg.Grammar.ShowWord)
	case "split_char":
		fmt.Println(cfg.Grammar.SplitChar)
	case "default_language":
		fmt.Println(cfg.DefaultLanguage)
	case "capability":
		fmt.Println(cfg.Capability)
	case "database_path":
		fmt.Println(cfg.DatabasePath)
	case "overrides_dir":
		fmt.Println(cfg.OverridesDir)
	default:
		return fmt.Errorf("unknown key: %s", args[0])
	}
	return nil
}

func configSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: blockweave config set <key> <value>")
	}
	key, value := args[0], args[1]

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return err
	}

	switch key {
	case "start_word":
		cfg.Grammar.StartWord = value
	case "stop_word":
		cfg.Grammar.StopWord = value
	case "show_word":
		cfg.Grammar.ShowWord = value
	case "split_char":
		cfg.Grammar.SplitChar = value
	case "default_language":
		cfg.DefaultLanguage = value
	case "capability":
		cfg.Capability = value
	case "database_path":
		cfg.DatabasePath = value
	case "overrides_dir":
		cfg.OverridesDir = value
	default:
		return fmt.Errorf("unknown key: %s", key)
	}

	// SaveConfig validates, so a grammar change that would make markers
	// ambiguous is rejected here rather than surfacing at render time.
	if err := config.SaveConfig(cfg, configPath()); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func configList() error {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return err
	}

	fmt.Printf("start_word       = %s\n", cfg.Grammar.StartWord)
	fmt.Printf("stop_word        = %s\n", cfg.Grammar.StopWord)
	fmt.Printf("show_word        = %s\n", cfg.Grammar.ShowWord)
	fmt.Printf("split_char       = %s\n", cfg.Grammar.SplitChar)
	fmt.Printf("default_language = %s\n", cfg.DefaultLanguage)
	fmt.Printf("capability       = %s\n", cfg.Capability)
	fmt.Printf("database_path    = %s\n", cfg.DatabasePath)
	fmt.Printf("overrides_dir    = %s\n", cfg.OverridesDir)
	return nil
}
