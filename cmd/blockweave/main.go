package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/blockweave/blockweave/cmd/blockweave/commands"
)

// Version information (can be overridden at build time with -ldflags)
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "init":
		err = commands.Init(args)
	case "enable":
		err = commands.Enable(args)
	case "disable":
		err = commands.Disable(args)
	case "uninstall":
		err = commands.Uninstall(args)
	case "put":
		err = commands.Put(args)
	case "get":
		err = commands.Get(args)
	case "render":
		err = commands.Render(args)
	case "block":
		err = commands.Block(args)
	case "check":
		err = commands.Check(args)
	case "config":
		err = commands.Config(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, commands.ErrorLine(err))
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("blockweave version %s\n", version)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				fmt.Printf("  commit: %s\n", setting.Value)
			}
		}
	}
}

func printUsage() {
	fmt.Println(`blockweave - reusable text blocks over a document corpus

Usage:
  blockweave <command> [arguments]

Corpus:
  init                             create or migrate the corpus database
  put <doc> <field> [flags]        set a document field value
  get <doc> <field> [flags]        print a document field value

Rendering:
  render <doc> <field> [flags]     run the format pipeline over a field
  block <name> [flags]             resolve a block by name

Authoring:
  check <doc> <field> [flags]      pre-save uniqueness check (use -write to persist)

Administration:
  enable <field>                   enable block handling on a field
  disable <field>                  disable block handling on a field
  uninstall                        verify no field still depends on block handling
  config get|set|list              manage blockweave.yaml

  version                          print version
  help                             print this help`)
}
