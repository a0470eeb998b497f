// Package commands implements the blockweave CLI subcommands.
package commands

import (
	"log"
	"os"

	"github.com/blockweave/blockweave"
	"github.com/blockweave/blockweave/internal/config"
	"github.com/blockweave/blockweave/internal/override"
	"github.com/blockweave/blockweave/internal/store"
)

// env bundles the loaded configuration, the corpus store and a ready
// engine for one command invocation.
type env struct {
	cfg    *config.Config
	store  *store.Store
	engine *blockweave.Engine
}

// configPath honors the BLOCKWEAVE_CONFIG environment variable.
func configPath() string {
	return os.Getenv("BLOCKWEAVE_CONFIG")
}

// setup loads config, opens the corpus and builds the engine.
func setup() (*env, error) {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	var rendererOpts []override.RendererOption
	if cfg.MinifyOverrides {
		rendererOpts = append(rendererOpts, override.WithMinify())
	}

	engine, err := blockweave.New(
		blockweave.WithGrammar(cfg.BlockGrammar()),
		blockweave.WithStore(st),
		blockweave.WithOverrideRenderer(override.New(cfg.OverridesDir, rendererOpts...)),
		blockweave.WithDefaultLanguage(cfg.Language()),
		blockweave.WithCapability(cfg.Capability),
		blockweave.WithLogger(log.New(os.Stderr, "", log.LstdFlags)),
	)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &env{cfg: cfg, store: st, engine: engine}, nil
}

func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}
