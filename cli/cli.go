// Package cli provides terminal I/O and the console command processor
// for exercising a loaded document against the dispatch engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/actioncore/markup"
)

// CLI runs the console over a terminal or a script.
type CLI struct {
	Console   *Console
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI over doc reading stdin and writing stdout.
func New(doc *markup.Document) *CLI {
	return &CLI{
		Console: NewConsole(doc),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the loop: prompt → input → exec → output.
func (c *CLI) Run() {
	title := c.Console.Doc.Title
	if title == "" {
		title = "untitled document"
	}
	c.printLine(fmt.Sprintf("%s — %d element(s). Type /help for commands.",
		title, c.Console.Doc.Len()))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		out, quit := c.Console.Exec(input)
		for _, line := range out {
			c.printLine(line)
		}
		if quit {
			return
		}
	}
}

func (c *CLI) print(s string) {
	fmt.Fprint(c.Out, s)
}

func (c *CLI) printLine(s string) {
	fmt.Fprintln(c.Out, s)
}
