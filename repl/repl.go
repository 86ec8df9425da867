package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/lmorg/readline"

	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/program"
	"github.com/h-merrill/minnow/text"
)

// Start runs the interactive loop: each line is compiled and run against
// the same Program, so declarations persist from line to line.
func Start(p *program.Program, out io.Writer) {
	rline := readline.NewInstance()
	for {
		rline.SetPrompt(text.PROMPT)
		line, err := rline.Readline()
		if err != nil {
			fmt.Fprintln(out, text.ERROR, err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}

		val, evalErr := p.Eval(line)
		if evalErr != nil {
			fmt.Fprintln(out, text.ERROR+evalErr.Error())
			continue
		}
		if val != nil {
			if _, isVoid := val.(*object.Void); !isVoid {
				fmt.Fprintln(out, val.Inspect())
			}
		}
	}
}
