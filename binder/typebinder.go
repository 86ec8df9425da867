package binder

// TypeBinder is the builder a host gets back from Program.BindType: it
// chains constructor overloads, field accessors, methods, and an index
// operator onto the registered type's binding table.

import (
	"fmt"
	"reflect"

	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

type TypeBinder struct {
	reg *Registry
	ht  *object.HostType
	t   reflect.Type // the bare struct type, not a pointer
	err error        // first builder mistake, surfaced by Err
}

// Type registers a host type under a Language type name; zero supplies
// the type itself (e.g. Vec3{}).
func (r *Registry) Type(name string, zero any) *TypeBinder {
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	ht := &object.HostType{
		Name:    name,
		Ctors:   make(map[string]*object.External),
		Fields:  make(map[string]*object.FieldAccessor),
		Methods: make(map[string]*object.External),
	}
	ht.Zero = func() any { return reflect.New(t).Interface() }
	ht.CopyVal = func(v any) any {
		fresh := reflect.New(t)
		fresh.Elem().Set(reflect.ValueOf(v).Elem())
		return fresh.Interface()
	}
	r.byType[t] = ht
	r.byName[name] = ht
	return &TypeBinder{reg: r, ht: ht, t: t}
}

// Prototype is the zero Object that goes into the root scope's type
// table.
func (tb *TypeBinder) Prototype() *object.Host {
	return &object.Host{Binding: tb.ht, Value: tb.ht.Zero()}
}

func (tb *TypeBinder) Err() error { return tb.err }

func (tb *TypeBinder) fail(format string, args ...any) *TypeBinder {
	if tb.err == nil {
		tb.err = fmt.Errorf(format, args...)
	}
	return tb
}

// Ctor registers a constructor overload, keyed by the tuple of its
// parameter type names. fn must return the bound type.
func (tb *TypeBinder) Ctor(fn any) *TypeBinder {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return tb.fail("ctor of '%s' is not a function", tb.ht.Name)
	}
	names := make([]string, fnType.NumIn())
	for i := range names {
		tn, ok := tb.reg.TypeName(fnType.In(i))
		if !ok {
			return tb.fail("ctor of '%s': parameter %d has unbound type %v",
				tb.ht.Name, i+1, fnType.In(i))
		}
		names[i] = tn
	}
	ext, err := tb.reg.Func(tb.ht.Name, fn)
	if err != nil {
		return tb.fail("%v", err)
	}
	tb.ht.Ctors[object.CtorKey(names)] = ext
	return tb
}

// Field binds a script member name to a Go struct field.
func (tb *TypeBinder) Field(name, goField string) *TypeBinder {
	field, ok := tb.t.FieldByName(goField)
	if !ok {
		return tb.fail("type '%s' has no field %s", tb.ht.Name, goField)
	}
	reg := tb.reg
	index := field.Index
	tb.ht.Fields[name] = &object.FieldAccessor{
		Get: func(recv any) object.Object {
			obj, err := reg.Lift(reflect.ValueOf(recv).Elem().FieldByIndex(index).Interface())
			if err != nil {
				return &object.Void{}
			}
			return obj
		},
		Set: func(recv any, val object.Object) *report.Error {
			slot := reflect.ValueOf(recv).Elem().FieldByIndex(index)
			v, err := reg.Lower(val, slot.Type())
			if err != nil {
				return report.New(report.TypeError, token.Token{},
					"member '%s' of '%s': %v", name, tb.ht.Name, err)
			}
			slot.Set(v)
			return nil
		},
	}
	return tb
}

// Method binds a host function whose first parameter is the receiver
// (*T or T).
func (tb *TypeBinder) Method(name string, fn any) *TypeBinder {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func || fnType.NumIn() == 0 {
		return tb.fail("method '%s' of '%s' wants a receiver parameter", name, tb.ht.Name)
	}
	recvType := fnType.In(0)
	if recvType != tb.t && !(recvType.Kind() == reflect.Ptr && recvType.Elem() == tb.t) {
		return tb.fail("method '%s' of '%s': first parameter is not the receiver",
			name, tb.ht.Name)
	}
	ext, err := tb.reg.Func(name, fn)
	if err != nil {
		return tb.fail("%v", err)
	}
	tb.ht.Methods[name] = ext
	return tb
}

// Index binds the '[]' operator: get is func(recv, index) (value, error),
// set is func(recv, index, value) error. Errors surface as RangeError.
func (tb *TypeBinder) Index(get, set any) *TypeBinder {
	reg := tb.reg
	if get != nil {
		getVal := reflect.ValueOf(get)
		getType := getVal.Type()
		if getType.Kind() != reflect.Func || getType.NumIn() != 2 {
			return tb.fail("index getter of '%s' wants (receiver, index)", tb.ht.Name)
		}
		tb.ht.GetIdx = func(recv any, index object.Object, tok token.Token) (object.Object, *report.Error) {
			in, rErr := lowerIndexArgs(reg, getType, recv, index, nil, tok)
			if rErr != nil {
				return nil, rErr
			}
			return liftIndexResults(reg, getVal.Call(in), tok)
		}
	}
	if set != nil {
		setVal := reflect.ValueOf(set)
		setType := setVal.Type()
		if setType.Kind() != reflect.Func || setType.NumIn() != 3 {
			return tb.fail("index setter of '%s' wants (receiver, index, value)", tb.ht.Name)
		}
		tb.ht.SetIdx = func(recv any, index object.Object, val object.Object, tok token.Token) *report.Error {
			in, rErr := lowerIndexArgs(reg, setType, recv, index, val, tok)
			if rErr != nil {
				return rErr
			}
			_, err := liftIndexResults(reg, setVal.Call(in), tok)
			return err
		}
	}
	return tb
}

func lowerIndexArgs(reg *Registry, fnType reflect.Type, recv any, index, val object.Object,
	tok token.Token) ([]reflect.Value, *report.Error) {
	in := []reflect.Value{reflect.ValueOf(recv)}
	idx, err := reg.Lower(index, fnType.In(1))
	if err != nil {
		return nil, report.New(report.TypeError, tok, "index: %v", err)
	}
	in = append(in, idx)
	if val != nil {
		v, err := reg.Lower(val, fnType.In(2))
		if err != nil {
			return nil, report.New(report.TypeError, tok, "index assignment: %v", err)
		}
		in = append(in, v)
	}
	return in, nil
}

func liftIndexResults(reg *Registry, out []reflect.Value, tok token.Token) (object.Object, *report.Error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, report.New(report.RangeError, tok, "%v", out[n-1].Interface())
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return &object.Void{}, nil
	}
	obj, err := reg.Lift(out[0].Interface())
	if err != nil {
		return nil, report.New(report.RuntimeError, tok, "%v", err)
	}
	return obj, nil
}
