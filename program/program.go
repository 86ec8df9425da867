package program

// The host-facing surface: bind values and types to a Program, compile
// its source, run it, then index it by name to read variables and call
// functions the script declared.

import (
	"reflect"

	"github.com/h-merrill/minnow/ast"
	"github.com/h-merrill/minnow/binder"
	"github.com/h-merrill/minnow/lexer"
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/parser"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

type Program struct {
	Source   string
	FilePath string

	root *object.Scope
	reg  *binder.Registry
	main *ast.Block
}

// New sets up an empty Program around its source text; bind the host
// surface, then Compile, then Run.
func New(filePath, source string) *Program {
	return &Program{
		Source:   source,
		FilePath: filePath,
		root:     object.NewRootScope(),
		reg:      binder.NewRegistry(),
	}
}

// Compile is the pure entry point for hosts with nothing to bind.
func Compile(filePath, source string) (*Program, error) {
	p := New(filePath, source)
	if err := p.Compile(); err != nil {
		return nil, err
	}
	return p, nil
}

// Bind installs a free host function under the given name.
func (p *Program) Bind(name string, fn any) error {
	ext, err := p.reg.Func(name, fn)
	if err != nil {
		return err
	}
	p.root.Functions[name] = ext
	return nil
}

// BindType registers a host type and returns the builder for its
// constructors, members, and methods. Call before Compile.
func (p *Program) BindType(name string, zero any) *binder.TypeBinder {
	tb := p.reg.Type(name, zero)
	p.root.Types[name] = tb.Prototype()
	return tb
}

// Compile turns the source into the executable representation. It fails
// fast with a single error carrying a location.
func (p *Program) Compile() error {
	main, err := parser.Parse(p.FilePath, p.Source, p.root)
	if err != nil {
		return err
	}
	p.main = main
	return nil
}

// Run executes the top-level statements on the caller's goroutine. A
// top-level return ends the run quietly.
func (p *Program) Run() error {
	if p.main == nil {
		if err := p.Compile(); err != nil {
			return err
		}
	}
	if _, _, err := p.main.RunIn(p.root); err != nil {
		return err
	}
	return nil
}

// Eval compiles and runs one more chunk against the Program's root scope;
// the REPL is built on this.
func (p *Program) Eval(chunk string) (object.Object, error) {
	tokens := lexer.Tokenize("REPL input", chunk)
	block, err := parser.New(tokens, p.root).ParseProgram()
	if err != nil {
		return nil, err
	}
	val, _, rErr := block.RunIn(p.root)
	if rErr != nil {
		return nil, rErr
	}
	return val, nil
}

// Render formats an error from this Program against its source.
func (p *Program) Render(err error) string {
	if rep, ok := report.As(err); ok {
		return rep.Render(p.Source)
	}
	return err.Error()
}

// Handle is what indexing a Program by name yields: a variable slot, a
// member of one, or a callable.
type Handle struct {
	prog *Program
	obj  object.Object // live object in its slot
	fn   object.Function
	err  error
}

func (p *Program) Get(name string) Handle {
	if v, ok := p.root.GetVariable(name); ok {
		return Handle{prog: p, obj: v}
	}
	if fn, ok := p.root.FindFunction(name); ok {
		return Handle{prog: p, fn: fn}
	}
	return Handle{prog: p, err: report.New(report.NameError, token.Token{},
		"'%s' is not declared", name)}
}

func (h Handle) Err() error { return h.err }

// Value returns the live Object; mutating an aggregate through it is
// by-reference access into the variable slot.
func (h Handle) Value() (object.Object, error) {
	return h.value()
}

// Member resolves a member or method of the handle's aggregate.
func (h Handle) Member(name string) Handle {
	if h.err != nil {
		return h
	}
	switch recv := h.obj.(type) {
	case *object.Struct:
		if fn, ok := recv.Methods[name]; ok {
			if internal, ok := fn.(*ast.InternalFunction); ok {
				return Handle{prog: h.prog, fn: &ast.Bound{Fn: internal, Recv: recv}}
			}
		}
		if member, ok := recv.Members[name]; ok {
			return Handle{prog: h.prog, obj: member}
		}
		return Handle{prog: h.prog, err: report.New(report.TypeError, token.Token{},
			"type %s has no member '%s'", object.EmphType(recv), name)}
	case *object.Host:
		if method, ok := recv.Binding.Methods[name]; ok {
			bound := recv
			ext := &object.External{
				Name:       name,
				ParamTypes: method.ParamTypes,
				Fn: func(args []object.Object, tok token.Token) (object.Object, *report.Error) {
					return method.Invoke(append([]object.Object{bound}, args...), tok)
				},
			}
			return Handle{prog: h.prog, fn: ext}
		}
		member, rErr := recv.Member(name, token.Token{})
		if rErr != nil {
			return Handle{prog: h.prog, err: rErr}
		}
		return Handle{prog: h.prog, obj: member}
	}
	return Handle{prog: h.prog, err: report.New(report.TypeError, token.Token{},
		"handle has no members")}
}

// Call invokes the handle's function with host arguments. Arguments are
// lifted into Objects; for script functions and methods they are then
// explicitly converted to the declared parameter types.
func (h Handle) Call(hostArgs ...any) Handle {
	if h.err != nil {
		return h
	}
	if h.fn == nil {
		return Handle{prog: h.prog, err: report.New(report.TypeError, token.Token{},
			"handle is not callable")}
	}
	args := make([]object.Object, len(hostArgs))
	for i, a := range hostArgs {
		obj, err := h.prog.reg.Lift(a)
		if err != nil {
			return Handle{prog: h.prog, err: err}
		}
		args[i] = obj
	}
	switch fn := h.fn.(type) {
	case *ast.InternalFunction:
		args = convertArgs(args, fn.Sig.Types())
	case *ast.Bound:
		args = convertArgs(args, fn.Fn.Sig.Types())
	}
	val, rErr := ast.Apply(h.fn, args, token.Token{})
	if rErr != nil {
		return Handle{prog: h.prog, err: rErr}
	}
	return Handle{prog: h.prog, obj: val}
}

func convertArgs(args []object.Object, want []string) []object.Object {
	if len(args) != len(want) {
		return args // arity errors are reported by the call itself
	}
	for i := range args {
		if converted, ok := object.Convert(args[i], want[i]); ok {
			args[i] = converted
		}
	}
	return args
}

func (h Handle) value() (object.Object, error) {
	if h.err != nil {
		return nil, h.err
	}
	if h.obj == nil {
		return nil, report.New(report.TypeError, token.Token{}, "handle is not a value")
	}
	return h.obj, nil
}

func (h Handle) AsInt() (int64, error) {
	if _, err := h.value(); err != nil {
		return 0, err
	}
	if v, ok := h.obj.(*object.Int); ok {
		return v.Value, nil
	}
	return 0, report.New(report.TypeError, token.Token{},
		"cannot convert %s to int", object.EmphType(h.obj))
}

func (h Handle) AsFloat() (float64, error) {
	if _, err := h.value(); err != nil {
		return 0, err
	}
	switch v := h.obj.(type) {
	case *object.Float:
		return v.Value, nil
	case *object.Int:
		return float64(v.Value), nil
	}
	return 0, report.New(report.TypeError, token.Token{},
		"cannot convert %s to float", object.EmphType(h.obj))
}

func (h Handle) AsString() (string, error) {
	if _, err := h.value(); err != nil {
		return "", err
	}
	if v, ok := h.obj.(*object.String); ok {
		return v.Value, nil
	}
	return "", report.New(report.TypeError, token.Token{},
		"cannot convert %s to string", object.EmphType(h.obj))
}

func (h Handle) AsBool() (bool, error) {
	if _, err := h.value(); err != nil {
		return false, err
	}
	if v, ok := h.obj.(*object.Bool); ok {
		return v.Value, nil
	}
	return false, report.New(report.TypeError, token.Token{},
		"cannot convert %s to bool", object.EmphType(h.obj))
}

// As extracts the handle's value as a host type; for a bound host
// aggregate, asking for the pointer type gives a reference into the
// variable slot.
func As[T any](h Handle) (T, error) {
	var zero T
	if _, err := h.value(); err != nil {
		return zero, err
	}
	if host, ok := h.obj.(*object.Host); ok {
		if ptr, ok := host.Value.(T); ok {
			return ptr, nil
		}
	}
	val, err := h.prog.reg.Lower(h.obj, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	return val.Interface().(T), nil
}
