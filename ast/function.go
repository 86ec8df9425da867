package ast

import (
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/signature"
	"github.com/h-merrill/minnow/token"
)

// InternalFunction is a function whose body is Language AST. ReturnType is
// "void" for value-less functions. Env is the scope the function was
// declared in; call frames hang off it. For a method, Members lists the
// owning struct's member names so that the call protocol can bind and
// write back receiver state.
type InternalFunction struct {
	Token      token.Token
	Name       string
	Sig        signature.NamedSignature
	ReturnType string
	Body       *Block
	Env        *object.Scope
	Members    []string // non-nil only for methods
}

func (fn *InternalFunction) Arity() int { return len(fn.Sig) }

// Bound is a method closed over its receiver; it exists so that a method
// body can call its siblings bare.
type Bound struct {
	Fn   *InternalFunction
	Recv *object.Struct
}

func (b *Bound) Arity() int { return b.Fn.Arity() }

func (fn *InternalFunction) bindArgs(rt *object.Scope, args []object.Object, tok token.Token) *report.Error {
	if len(args) != len(fn.Sig) {
		return report.New(report.TypeError, tok,
			"function '%s' wants %d argument(s), got %d", fn.Name, len(fn.Sig), len(args))
	}
	for i, arg := range args {
		if arg.TypeName() != fn.Sig[i].VarType {
			return report.New(report.TypeError, tok,
				"argument %d of '%s' wants <%s>, got %s",
				i+1, fn.Name, fn.Sig[i].VarType, object.EmphType(arg))
		}
		rt.Declare(fn.Sig[i].VarName, arg.Copy())
	}
	return nil
}

func (fn *InternalFunction) checkReturn(val object.Object, sig Signal, tok token.Token) (object.Object, *report.Error) {
	if sig != SigReturn {
		if fn.ReturnType != "void" {
			return nil, report.New(report.TypeError, tok,
				"function '%s' must return a value of type <%s>", fn.Name, fn.ReturnType)
		}
		return &object.Void{}, nil
	}
	if val.TypeName() != fn.ReturnType {
		return nil, report.New(report.TypeError, tok,
			"function '%s' returns <%s>, not %s", fn.Name, fn.ReturnType, object.EmphType(val))
	}
	return val, nil
}

// Call runs a plain function: fresh frame over the declaration scope,
// positional arguments type-checked into the parameter slots, the body's
// ReturnSignal consumed here.
func (fn *InternalFunction) Call(args []object.Object, tok token.Token) (object.Object, *report.Error) {
	rt := fn.Body.Scope.Instantiate(fn.Env)
	if err := fn.bindArgs(rt, args, tok); err != nil {
		return nil, err
	}
	val, sig, err := fn.Body.RunIn(rt)
	if err != nil {
		return nil, err
	}
	return fn.checkReturn(val, sig, tok)
}

// CallMethod runs a method against a receiver:
//
//  1. the receiver's members are bound as variables in the frame,
//  2. positional arguments go into the parameter slots,
//  3. the body runs, its ReturnSignal is the call's result,
//  4. the member variables are written back into the receiver.
//
// Sibling methods are visible in the frame, bound to the same receiver.
func (fn *InternalFunction) CallMethod(recv *object.Struct, args []object.Object, tok token.Token) (object.Object, *report.Error) {
	rt := fn.Body.Scope.Instantiate(fn.Env)
	rt.Functions = make(map[string]object.Function, len(recv.Methods))
	for name, m := range recv.Methods {
		if sibling, ok := m.(*InternalFunction); ok {
			rt.Functions[name] = &Bound{Fn: sibling, Recv: recv}
		}
	}
	for _, name := range fn.Members {
		rt.Declare(name, recv.Members[name].Copy())
	}
	if err := fn.bindArgs(rt, args, tok); err != nil {
		return nil, err
	}
	val, sig, err := fn.Body.RunIn(rt)
	if err != nil {
		return nil, err
	}
	for _, name := range fn.Members {
		if v, ok := rt.Variables[name]; ok {
			recv.Members[name] = v
		}
	}
	return fn.checkReturn(val, sig, tok)
}

// Apply dispatches any Function value with already-evaluated arguments.
// It is the one entry point shared by the call operands and the host API.
func Apply(fn object.Function, args []object.Object, tok token.Token) (object.Object, *report.Error) {
	switch fn := fn.(type) {
	case *InternalFunction:
		return fn.Call(args, tok)
	case *Bound:
		return fn.Fn.CallMethod(fn.Recv, args, tok)
	case *object.External:
		return fn.Invoke(args, tok)
	}
	return nil, report.New(report.RuntimeError, tok, "uncallable function value")
}
