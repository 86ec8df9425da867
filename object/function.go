package object

import (
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

// Function is either an External (a host adapter, below) or the ast
// package's InternalFunction, whose body is Language AST.
type Function interface {
	Arity() int
}

// External adapts a host procedure into a Language-callable entity. Invoke
// takes evaluated arguments and returns the lifted result; a void host
// function returns *Void.
type External struct {
	Name       string
	ParamTypes []string // declared types, or nil when the adapter checks itself
	Fn         func(args []Object, tok token.Token) (Object, *report.Error)
}

func (e *External) Arity() int { return len(e.ParamTypes) }

func (e *External) Invoke(args []Object, tok token.Token) (Object, *report.Error) {
	return e.Fn(args, tok)
}
