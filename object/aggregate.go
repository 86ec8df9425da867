package object

import (
	"strings"

	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

// Struct is a script-declared aggregate: named members in declaration
// order plus a method table. The method table belongs to the declared type
// and is shared between copies; a method resolves bare member names
// against whichever receiver it is dispatched on, so copying a struct
// needs no rebinding step.
type Struct struct {
	Name    string
	Fields  []string
	Members map[string]Object
	Methods map[string]Function
}

func (s *Struct) TypeName() string { return s.Name }

func (s *Struct) Copy() Object {
	members := make(map[string]Object, len(s.Members))
	for name, member := range s.Members {
		members[name] = member.Copy()
	}
	return &Struct{Name: s.Name, Fields: s.Fields, Members: members, Methods: s.Methods}
}

func (s *Struct) Inspect() string {
	elements := []string{}
	for _, name := range s.Fields {
		elements = append(elements, name+" = "+s.Members[name].Inspect())
	}
	return s.Name + "(" + strings.Join(elements, ", ") + ")"
}

func (s *Struct) Member(name string, tok token.Token) (Object, *report.Error) {
	member, ok := s.Members[name]
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"type %s has no member '%s'", EmphType(s), name)
	}
	return member, nil
}

func (s *Struct) SetMember(name string, val Object, tok token.Token) *report.Error {
	member, ok := s.Members[name]
	if !ok {
		return report.New(report.TypeError, tok,
			"type %s has no member '%s'", EmphType(s), name)
	}
	if member.TypeName() != val.TypeName() {
		return report.New(report.TypeError, tok,
			"cannot assign %s to member '%s' of type %s",
			EmphType(val), name, EmphType(member))
	}
	s.Members[name] = val.Copy()
	return nil
}

// FieldAccessor reads or writes one field of a host datum.
type FieldAccessor struct {
	Get func(recv any) Object
	Set func(recv any, val Object) *report.Error
}

// HostType is the binding table for one host-registered type: zero and
// copy constructors for the datum itself, script-callable constructor
// overloads keyed by their argument type names, field accessors, methods,
// and optional index operators.
type HostType struct {
	Name    string
	Zero    func() any
	CopyVal func(any) any
	Ctors   map[string]*External
	Fields  map[string]*FieldAccessor
	Methods map[string]*External
	GetIdx  func(recv any, index Object, tok token.Token) (Object, *report.Error)
	SetIdx  func(recv any, index Object, val Object, tok token.Token) *report.Error
}

// CtorKey is how constructor overloads are stored: the comma-joined tuple
// of parameter type names.
func CtorKey(typeNames []string) string {
	return strings.Join(typeNames, ",")
}

// Host is a host aggregate: an opaque host datum plus its type's binding
// table. Value is always a pointer to the host type, so that field writes
// and mutating methods reach the datum held in the variable slot.
type Host struct {
	Binding *HostType
	Value   any
}

func (h *Host) TypeName() string { return h.Binding.Name }

func (h *Host) Copy() Object {
	return &Host{Binding: h.Binding, Value: h.Binding.CopyVal(h.Value)}
}

func (h *Host) Inspect() string {
	return h.Binding.Name
}

func (h *Host) Member(name string, tok token.Token) (Object, *report.Error) {
	accessor, ok := h.Binding.Fields[name]
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"type %s has no member '%s'", EmphType(h), name)
	}
	return accessor.Get(h.Value), nil
}

func (h *Host) SetMember(name string, val Object, tok token.Token) *report.Error {
	accessor, ok := h.Binding.Fields[name]
	if !ok {
		return report.New(report.TypeError, tok,
			"type %s has no member '%s'", EmphType(h), name)
	}
	return accessor.Set(h.Value, val)
}

func (h *Host) Index(index Object, tok token.Token) (Object, *report.Error) {
	if h.Binding.GetIdx == nil {
		return nil, report.New(report.TypeError, tok,
			"type %s does not have operator '[]'", EmphType(h))
	}
	return h.Binding.GetIdx(h.Value, index, tok)
}

func (h *Host) SetIndex(index, val Object, tok token.Token) *report.Error {
	if h.Binding.SetIdx == nil {
		return report.New(report.TypeError, tok,
			"type %s does not have operator '[]'", EmphType(h))
	}
	return h.Binding.SetIdx(h.Value, index, val, tok)
}

// Construct dispatches a constructor call on the tuple of argument type
// names. With no arguments and no registered nullary overload the zero
// value is used, matching declaration-without-initializer.
func (t *HostType) Construct(args []Object, tok token.Token) (Object, *report.Error) {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.TypeName()
	}
	if ctor, ok := t.Ctors[CtorKey(names)]; ok {
		return ctor.Invoke(args, tok)
	}
	// No exact overload; retry allowing numeric conversions at the host
	// boundary. The match must be unambiguous.
	var found *External
	var converted []Object
	for _, ctor := range t.Ctors {
		if len(ctor.ParamTypes) != len(args) {
			continue
		}
		c := make([]Object, len(args))
		ok := true
		for i, a := range args {
			v, convOk := Convert(a, ctor.ParamTypes[i])
			if !convOk {
				ok = false
				break
			}
			c[i] = v
		}
		if !ok {
			continue
		}
		if found != nil {
			return nil, report.New(report.TypeError, tok,
				"ambiguous constructor call %s(%s)", t.Name, CtorKey(names))
		}
		found = ctor
		converted = c
	}
	if found == nil {
		if len(args) == 0 {
			return &Host{Binding: t, Value: t.Zero()}, nil
		}
		return nil, report.New(report.TypeError, tok,
			"no constructor %s(%s)", t.Name, CtorKey(names))
	}
	return found.Invoke(converted, tok)
}
