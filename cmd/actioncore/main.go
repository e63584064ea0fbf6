// Actioncore is the declarative action-dispatch core of a markup
// component framework, with a console playground for loaded documents.
// Usage: actioncore [--version] [--plain] [--script <file>] [--trace] <doc_directory>
package main

import (
	"fmt"
	"os"

	"github.com/nathoo/actioncore/cli"
	"github.com/nathoo/actioncore/loader"
	"github.com/nathoo/actioncore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var docDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("actioncore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if docDir == "" {
				docDir = args[i]
			}
		}
	}

	if docDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: actioncore [--version] [--plain] [--script <file>] [--trace] <doc_directory>\n")
		os.Exit(1)
	}

	// Load and compile the Lua document declarations.
	doc, err := loader.Load(docDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
		os.Exit(1)
	}

	// Script playback forces the plain CLI.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		c := cli.New(doc)
		c.In = f
		c.EchoInput = true
		c.Console.Trace = trace
		c.Run()
		return
	}

	if plain {
		c := cli.New(doc)
		c.Console.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
