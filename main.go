//
// Minnow: an embeddable interpreter for a small statically-typed
// curly-brace scripting language.
//
// Acknowledgments
//
// The interpreter owes its general architecture to the long line of
// tree-walking evaluators descended from Thorsten Ball's Writing An
// Interpreter In Go (https://interpreterbook.com/), though the language
// itself is of a very different temperament.
//

package main

import (
	"fmt"
	"os"

	"github.com/h-merrill/minnow/database"
	"github.com/h-merrill/minnow/program"
	"github.com/h-merrill/minnow/repl"
	"github.com/h-merrill/minnow/stdlib"
	"github.com/h-merrill/minnow/text"
)

func main() {
	fmt.Print(text.Logo())

	if len(os.Args) > 1 {
		runFile(os.Args[1])
		return
	}

	p := newProgram("REPL input", "")
	repl.Start(p, os.Stdout)
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(text.ERROR, err)
		os.Exit(1)
	}
	p := newProgram(path, string(source))
	if err := p.Compile(); err != nil {
		fmt.Println(p.Render(err))
		os.Exit(1)
	}
	if err := p.Run(); err != nil {
		fmt.Println(p.Render(err))
		os.Exit(1)
	}
}

func newProgram(path, source string) *program.Program {
	p := program.New(path, source)
	if err := stdlib.Register(p); err != nil {
		fmt.Println(text.ERROR, err)
		os.Exit(1)
	}
	if err := database.Register(p); err != nil {
		fmt.Println(text.ERROR, err)
		os.Exit(1)
	}
	return p
}
