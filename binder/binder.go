package binder

// The binding layer erases static host type information and restores it
// on call. Where the original design keyed everything on compile-time
// templates, here a Registry keyed on reflect.Type does the same job: it
// lifts Go values into Objects, lowers Objects back into the types a host
// procedure wants, and builds the External adapters and per-type binding
// tables the evaluator dispatches on.

import (
	"fmt"
	"reflect"

	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

type Registry struct {
	byType map[reflect.Type]*object.HostType
	byName map[string]*object.HostType
}

func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*object.HostType),
		byName: make(map[string]*object.HostType),
	}
}

var objectType = reflect.TypeOf((*object.Object)(nil)).Elem()
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeName maps a host type to its Language type name.
func (r *Registry) TypeName(t reflect.Type) (string, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return "bool", true
	case reflect.String:
		return "string", true
	case reflect.Int:
		return "int", true
	case reflect.Int8:
		return "i8", true
	case reflect.Int16:
		return "i16", true
	case reflect.Int32:
		return "i32", true
	case reflect.Int64:
		return "i64", true
	case reflect.Uint8:
		return "u8", true
	case reflect.Uint16:
		return "u16", true
	case reflect.Uint32:
		return "u32", true
	case reflect.Uint64:
		return "u64", true
	case reflect.Float32:
		return "float", true
	case reflect.Float64:
		return "double", true
	}
	if ht, ok := r.byType[t]; ok {
		return ht.Name, true
	}
	if t.Kind() == reflect.Ptr {
		if ht, ok := r.byType[t.Elem()]; ok {
			return ht.Name, true
		}
	}
	if t == objectType {
		return "*", true
	}
	return "", false
}

// Lift turns a host value into an Object.
func (r *Registry) Lift(v any) (object.Object, error) {
	if v == nil {
		return &object.Void{}, nil
	}
	if obj, ok := v.(object.Object); ok {
		return obj, nil
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Bool:
		return &object.Bool{Value: val.Bool()}, nil
	case reflect.String:
		return &object.String{Value: val.String()}, nil
	case reflect.Int:
		return &object.Int{Kind: object.IntDefault, Value: val.Int()}, nil
	case reflect.Int8:
		return &object.Int{Kind: object.I8, Value: val.Int()}, nil
	case reflect.Int16:
		return &object.Int{Kind: object.I16, Value: val.Int()}, nil
	case reflect.Int32:
		return &object.Int{Kind: object.I32, Value: val.Int()}, nil
	case reflect.Int64:
		return &object.Int{Kind: object.I64, Value: val.Int()}, nil
	case reflect.Uint8:
		return &object.Int{Kind: object.U8, Value: int64(val.Uint())}, nil
	case reflect.Uint16:
		return &object.Int{Kind: object.U16, Value: int64(val.Uint())}, nil
	case reflect.Uint32:
		return &object.Int{Kind: object.U32, Value: int64(val.Uint())}, nil
	case reflect.Uint64:
		return &object.Int{Kind: object.U64, Value: int64(val.Uint())}, nil
	case reflect.Float32:
		return &object.Float{Kind: object.F32, Value: val.Float()}, nil
	case reflect.Float64:
		return &object.Float{Kind: object.F64, Value: val.Float()}, nil
	}
	if ht, ok := r.byType[val.Type()]; ok {
		// Host aggregates are held by pointer so that member writes
		// reach the datum in the variable slot.
		ptr := reflect.New(val.Type())
		ptr.Elem().Set(val)
		return &object.Host{Binding: ht, Value: ptr.Interface()}, nil
	}
	if val.Kind() == reflect.Ptr {
		if ht, ok := r.byType[val.Type().Elem()]; ok {
			return &object.Host{Binding: ht, Value: v}, nil
		}
	}
	return nil, fmt.Errorf("cannot lift host type %v", val.Type())
}

// Lower converts an Object into the host type a call site wants, performing
// numeric conversions at the host boundary.
func (r *Registry) Lower(obj object.Object, want reflect.Type) (reflect.Value, error) {
	if want == objectType {
		return reflect.ValueOf(obj), nil
	}
	switch want.Kind() {
	case reflect.Bool:
		if b, ok := obj.(*object.Bool); ok {
			return reflect.ValueOf(b.Value), nil
		}
	case reflect.String:
		if s, ok := obj.(*object.String); ok {
			return reflect.ValueOf(s.Value), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch v := obj.(type) {
		case *object.Int:
			return reflect.ValueOf(v.Value).Convert(want), nil
		case *object.Float:
			return reflect.ValueOf(int64(v.Value)).Convert(want), nil
		case *object.Char:
			return reflect.ValueOf(int64(v.Value)).Convert(want), nil
		}
	case reflect.Float32, reflect.Float64:
		switch v := obj.(type) {
		case *object.Float:
			return reflect.ValueOf(v.Value).Convert(want), nil
		case *object.Int:
			return reflect.ValueOf(float64(v.Value)).Convert(want), nil
		}
	case reflect.Ptr:
		if host, ok := obj.(*object.Host); ok {
			val := reflect.ValueOf(host.Value)
			if val.Type() == want {
				return val, nil
			}
		}
	case reflect.Struct:
		if host, ok := obj.(*object.Host); ok {
			val := reflect.ValueOf(host.Value)
			if val.Kind() == reflect.Ptr && val.Type().Elem() == want {
				return val.Elem(), nil
			}
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to host type %v",
		object.EmphType(obj), want)
}

// Func wraps an arbitrary host function as an External. The adapter
// extracts each argument to the host-typed value the function expects,
// calls it, and lifts any return back into an Object. A trailing error
// return propagates as a runtime error.
func (r *Registry) Func(name string, fn any) (*object.External, error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("bind: '%s' is not a function", name)
	}
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("bind: '%s' is variadic", name)
	}
	paramTypes := make([]string, fnType.NumIn())
	for i := range paramTypes {
		tn, ok := r.TypeName(fnType.In(i))
		if !ok {
			return nil, fmt.Errorf("bind: parameter %d of '%s' has unbound type %v",
				i+1, name, fnType.In(i))
		}
		paramTypes[i] = tn
	}
	ext := &object.External{
		Name:       name,
		ParamTypes: paramTypes,
		Fn: func(args []object.Object, tok token.Token) (object.Object, *report.Error) {
			if len(args) != fnType.NumIn() {
				return nil, report.New(report.TypeError, tok,
					"function '%s' wants %d argument(s), got %d", name, fnType.NumIn(), len(args))
			}
			in := make([]reflect.Value, len(args))
			for i, arg := range args {
				v, err := r.Lower(arg, fnType.In(i))
				if err != nil {
					return nil, report.New(report.TypeError, tok,
						"argument %d of '%s': %v", i+1, name, err)
				}
				in[i] = v
			}
			return r.liftResults(fnVal.Call(in), tok)
		},
	}
	return ext, nil
}

func (r *Registry) liftResults(out []reflect.Value, tok token.Token) (object.Object, *report.Error) {
	// Strip a trailing error return first.
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, report.New(report.RuntimeError, tok, "%v", out[n-1].Interface())
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return &object.Void{}, nil
	case 1:
		obj, err := r.Lift(out[0].Interface())
		if err != nil {
			return nil, report.New(report.RuntimeError, tok, "%v", err)
		}
		return obj, nil
	}
	return nil, report.New(report.RuntimeError, tok, "host function returns more than one value")
}
