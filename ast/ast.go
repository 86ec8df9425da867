package ast

// The AST nodes are the execution units: every Statement runs itself,
// every Operand evaluates itself. Non-local control flow travels as typed
// signals in Run's return value, never on the error channel and never as
// panics: Return and Break raise a signal which the enclosing call site or
// loop consumes, and everything in between just propagates it.

import (
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

type Signal int

const (
	SigNone Signal = iota
	SigReturn
	SigBreak
)

type Statement interface {
	GetToken() token.Token
	Run(sc *object.Scope) (object.Object, Signal, *report.Error)
}

// Block is a braced statement list. The Scope field is the parse-time
// scope, which carries the block's type and function tables; each
// execution instantiates a fresh runtime scope from it so that variables
// are destroyed on every exit path.
type Block struct {
	Token      token.Token
	Scope      *object.Scope
	Statements []Statement
}

func (b *Block) GetToken() token.Token { return b.Token }

func (b *Block) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	rt := b.Scope.Instantiate(sc)
	return b.RunIn(rt)
}

// RunIn executes the statements against an already-built runtime scope;
// function calls use it after binding parameters.
func (b *Block) RunIn(rt *object.Scope) (object.Object, Signal, *report.Error) {
	for _, stmt := range b.Statements {
		val, sig, err := stmt.Run(rt)
		if err != nil {
			return nil, SigNone, err
		}
		if sig != SigNone {
			return val, sig, nil
		}
	}
	return nil, SigNone, nil
}

// VariableDecl declares into the current scope, from the initializer if
// there is one and from the type's zero value otherwise.
type VariableDecl struct {
	Token    token.Token
	TypeName string
	Name     string
	Init     *Expression
}

func (vd *VariableDecl) GetToken() token.Token { return vd.Token }

func (vd *VariableDecl) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	if vd.Init == nil {
		zero, ok := sc.FindType(vd.TypeName)
		if !ok {
			return nil, SigNone, report.New(report.NameError, vd.Token,
				"unknown type '%s'", vd.TypeName)
		}
		sc.Declare(vd.Name, zero.Copy())
		return nil, SigNone, nil
	}
	val, err := vd.Init.Evaluate(sc)
	if err != nil {
		return nil, SigNone, err
	}
	if val.TypeName() != vd.TypeName {
		return nil, SigNone, report.New(report.TypeError, vd.Token,
			"cannot initialize variable '%s' of type <%s> with %s",
			vd.Name, vd.TypeName, object.EmphType(val))
	}
	sc.Declare(vd.Name, val.Copy())
	return nil, SigNone, nil
}

type ExpressionStatement struct {
	Token      token.Token
	Expression *Expression
}

func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

func (es *ExpressionStatement) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	_, err := es.Expression.Evaluate(sc)
	return nil, SigNone, err
}

type Return struct {
	Token      token.Token
	Expression *Expression // nil for a bare return
}

func (r *Return) GetToken() token.Token { return r.Token }

func (r *Return) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	if r.Expression == nil {
		return &object.Void{}, SigReturn, nil
	}
	val, err := r.Expression.Evaluate(sc)
	if err != nil {
		return nil, SigNone, err
	}
	return val, SigReturn, nil
}

type Break struct {
	Token token.Token
}

func (b *Break) GetToken() token.Token { return b.Token }

func (b *Break) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	return nil, SigBreak, nil
}

// IfElseChain holds parallel condition and body lists; a trailing else
// makes the bodies one longer than the conditions.
type IfElseChain struct {
	Token      token.Token
	Conditions []*Expression
	Bodies     []Statement
}

func (ie *IfElseChain) GetToken() token.Token { return ie.Token }

func (ie *IfElseChain) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	for i, cond := range ie.Conditions {
		val, err := cond.Evaluate(sc)
		if err != nil {
			return nil, SigNone, err
		}
		b, ok := val.(*object.Bool)
		if !ok {
			return nil, SigNone, report.New(report.TypeError, cond.Token,
				"condition wants <bool>, got %s", object.EmphType(val))
		}
		if b.Value {
			return ie.Bodies[i].Run(sc)
		}
	}
	if len(ie.Bodies) == len(ie.Conditions)+1 {
		return ie.Bodies[len(ie.Bodies)-1].Run(sc)
	}
	return nil, SigNone, nil
}

// For owns an internal scope for its loop-local variables; the body runs
// under it. Break ends the loop normally, Return propagates.
type For struct {
	Token     token.Token
	Scope     *object.Scope // parse-time scope of the loop header
	Init      Statement     // declaration or expression statement, may be nil
	Condition *Expression
	Step      *Expression
	Body      Statement
}

func (f *For) GetToken() token.Token { return f.Token }

func (f *For) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	rt := f.Scope.Instantiate(sc)
	if f.Init != nil {
		if _, _, err := f.Init.Run(rt); err != nil {
			return nil, SigNone, err
		}
	}
	for {
		val, err := f.Condition.Evaluate(rt)
		if err != nil {
			return nil, SigNone, err
		}
		b, ok := val.(*object.Bool)
		if !ok {
			return nil, SigNone, report.New(report.TypeError, f.Condition.Token,
				"loop condition wants <bool>, got %s", object.EmphType(val))
		}
		if !b.Value {
			return nil, SigNone, nil
		}
		ret, sig, err := f.Body.Run(rt)
		if err != nil {
			return nil, SigNone, err
		}
		if sig == SigBreak {
			return nil, SigNone, nil
		}
		if sig == SigReturn {
			return ret, SigReturn, nil
		}
		if f.Step != nil {
			if _, err := f.Step.Evaluate(rt); err != nil {
				return nil, SigNone, err
			}
		}
	}
}

type While struct {
	Token     token.Token
	Condition *Expression
	Body      Statement
}

func (w *While) GetToken() token.Token { return w.Token }

func (w *While) Run(sc *object.Scope) (object.Object, Signal, *report.Error) {
	for {
		val, err := w.Condition.Evaluate(sc)
		if err != nil {
			return nil, SigNone, err
		}
		b, ok := val.(*object.Bool)
		if !ok {
			return nil, SigNone, report.New(report.TypeError, w.Condition.Token,
				"loop condition wants <bool>, got %s", object.EmphType(val))
		}
		if !b.Value {
			return nil, SigNone, nil
		}
		ret, sig, err := w.Body.Run(sc)
		if err != nil {
			return nil, SigNone, err
		}
		if sig == SigBreak {
			return nil, SigNone, nil
		}
		if sig == SigReturn {
			return ret, SigReturn, nil
		}
	}
}
