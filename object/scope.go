package object

// A Scope is a lexical binding record: types, variables, and functions,
// with parent-chained lookup. Declarations write only the current scope;
// assignment resolves to the innermost existing slot in the chain.
type Scope struct {
	Types     map[string]Object
	Variables map[string]Object
	Functions map[string]Function
	Parent    *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		Types:     make(map[string]Object),
		Variables: make(map[string]Object),
		Functions: make(map[string]Function),
		Parent:    parent,
	}
}

// NewRootScope seeds the primitive type zero values.
func NewRootScope() *Scope {
	sc := NewScope(nil)
	for _, name := range PrimitiveNames {
		zero, _ := PrimitiveZero(name)
		sc.Types[name] = zero
	}
	return sc
}

func (sc *Scope) FindType(name string) (Object, bool) {
	if t, ok := sc.Types[name]; ok {
		return t, true
	}
	if sc.Parent != nil {
		return sc.Parent.FindType(name)
	}
	return nil, false
}

// GetVariable returns the live object in the innermost binding; callers
// that need a value rather than an alias must Copy it.
func (sc *Scope) GetVariable(name string) (Object, bool) {
	if v, ok := sc.Variables[name]; ok {
		return v, true
	}
	if sc.Parent != nil {
		return sc.Parent.GetVariable(name)
	}
	return nil, false
}

// UpdateVariable writes the innermost existing slot, never shadowing.
func (sc *Scope) UpdateVariable(name string, val Object) bool {
	if _, ok := sc.Variables[name]; ok {
		sc.Variables[name] = val
		return true
	}
	if sc.Parent != nil {
		return sc.Parent.UpdateVariable(name, val)
	}
	return false
}

func (sc *Scope) FindFunction(name string) (Function, bool) {
	if f, ok := sc.Functions[name]; ok {
		return f, true
	}
	if sc.Parent != nil {
		return sc.Parent.FindFunction(name)
	}
	return nil, false
}

// Declare writes the current scope, shadowing any ancestor binding.
func (sc *Scope) Declare(name string, val Object) {
	sc.Variables[name] = val
}

// Instantiate makes the runtime counterpart of a parse-time scope: fresh
// variable slots, shared type and function tables, and whatever parent the
// current execution provides. Each block execution and each function call
// gets its own instance, which is what makes calls reentrant.
func (sc *Scope) Instantiate(parent *Scope) *Scope {
	return &Scope{
		Types:     sc.Types,
		Variables: make(map[string]Object),
		Functions: sc.Functions,
		Parent:    parent,
	}
}
