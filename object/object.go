package object

import (
	"strconv"

	"github.com/h-merrill/minnow/text"
)

// An Object is one Language value. The concrete types divide into
// primitives (this file) and script-declared aggregates and host
// aggregates (aggregate.go). Functions (function.go) are not Objects; they
// live in the scopes' function tables and the aggregates' method tables.
//
// Copy must deep-copy: handing out a variable's value never aliases the
// variable's slot. Aggregate method tables are immutable and shared.
type Object interface {
	TypeName() string
	Copy() Object
	Inspect() string
}

type IntKind int

const (
	IntDefault IntKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

var intNames = map[IntKind]string{
	IntDefault: "int", I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
}

type FloatKind int

const (
	F32 FloatKind = iota
	F64
)

type Void struct{}

func (v *Void) TypeName() string { return "void" }
func (v *Void) Copy() Object     { return &Void{} }
func (v *Void) Inspect() string  { return "void" }

type Bool struct {
	Value bool
}

func (b *Bool) TypeName() string { return "bool" }
func (b *Bool) Copy() Object     { return &Bool{Value: b.Value} }
func (b *Bool) Inspect() string  { return strconv.FormatBool(b.Value) }

type Char struct {
	Value rune
}

func (c *Char) TypeName() string { return "char" }
func (c *Char) Copy() Object     { return &Char{Value: c.Value} }
func (c *Char) Inspect() string  { return "'" + string(c.Value) + "'" }

// Int carries every integer width; Kind records the host type identity and
// Value holds the sign-extended bit pattern.
type Int struct {
	Kind  IntKind
	Value int64
}

func (i *Int) TypeName() string { return intNames[i.Kind] }
func (i *Int) Copy() Object     { return &Int{Kind: i.Kind, Value: i.Value} }
func (i *Int) Inspect() string {
	if i.Kind == U8 || i.Kind == U16 || i.Kind == U32 || i.Kind == U64 {
		return strconv.FormatUint(uint64(i.Value), 10)
	}
	return strconv.FormatInt(i.Value, 10)
}

type Float struct {
	Kind  FloatKind
	Value float64
}

func (f *Float) TypeName() string {
	if f.Kind == F32 {
		return "float"
	}
	return "double"
}
func (f *Float) Copy() Object { return &Float{Kind: f.Kind, Value: f.Value} }
func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

type String struct {
	Value string
}

func (s *String) TypeName() string { return "string" }
func (s *String) Copy() Object     { return &String{Value: s.Value} }
func (s *String) Inspect() string  { return text.ToEscapedText(s.Value) }

// truncate folds an arithmetic result back into the width of its kind.
func truncate(kind IntKind, v int64) int64 {
	switch kind {
	case I8:
		return int64(int8(v))
	case I16:
		return int64(int16(v))
	case I32:
		return int64(int32(v))
	case U8:
		return int64(uint8(v))
	case U16:
		return int64(uint16(v))
	case U32:
		return int64(uint32(v))
	default:
		return v
	}
}

func IsNumeric(o Object) bool {
	switch o.(type) {
	case *Int, *Float:
		return true
	}
	return false
}

// Convert produces a value of the named primitive type from a numeric or
// char source. It is used at host boundaries (argument lifting,
// constructor overload fallback) and by the binary operators in ops.go,
// which coerce a numeric right operand to the left operand's kind;
// assignment and declaration never convert.
func Convert(val Object, typeName string) (Object, bool) {
	if val.TypeName() == typeName {
		return val, true
	}
	zero, ok := PrimitiveZero(typeName)
	if !ok {
		return nil, false
	}
	switch target := zero.(type) {
	case *Int:
		switch v := val.(type) {
		case *Int:
			return &Int{Kind: target.Kind, Value: truncate(target.Kind, v.Value)}, true
		case *Float:
			return &Int{Kind: target.Kind, Value: truncate(target.Kind, int64(v.Value))}, true
		case *Char:
			return &Int{Kind: target.Kind, Value: truncate(target.Kind, int64(v.Value))}, true
		}
	case *Float:
		switch v := val.(type) {
		case *Int:
			f := &Float{Kind: target.Kind, Value: float64(v.Value)}
			if target.Kind == F32 {
				f.Value = float64(float32(f.Value))
			}
			return f, true
		case *Float:
			f := &Float{Kind: target.Kind, Value: v.Value}
			if target.Kind == F32 {
				f.Value = float64(float32(f.Value))
			}
			return f, true
		}
	case *Char:
		if v, ok := val.(*Int); ok {
			return &Char{Value: rune(v.Value)}, true
		}
	}
	return nil, false
}

// PrimitiveZero returns the zero value of a primitive type by its
// canonical name. The root scope's type table is seeded from these.
func PrimitiveZero(name string) (Object, bool) {
	switch name {
	case "void":
		return &Void{}, true
	case "bool":
		return &Bool{}, true
	case "char":
		return &Char{}, true
	case "int":
		return &Int{Kind: IntDefault}, true
	case "i8":
		return &Int{Kind: I8}, true
	case "i16":
		return &Int{Kind: I16}, true
	case "i32":
		return &Int{Kind: I32}, true
	case "i64":
		return &Int{Kind: I64}, true
	case "u8":
		return &Int{Kind: U8}, true
	case "u16":
		return &Int{Kind: U16}, true
	case "u32":
		return &Int{Kind: U32}, true
	case "u64":
		return &Int{Kind: U64}, true
	case "float":
		return &Float{Kind: F32}, true
	case "double":
		return &Float{Kind: F64}, true
	case "string":
		return &String{}, true
	}
	return nil, false
}

// PrimitiveNames lists the canonical primitive type names in seeding order.
var PrimitiveNames = []string{
	"void", "bool", "char", "int",
	"i8", "i16", "i32", "i64",
	"u8", "u16", "u32", "u64",
	"float", "double", "string",
}

func EmphType(o Object) string {
	return "<" + o.TypeName() + ">"
}

func EmphValue(o Object) string {
	if o.TypeName() == "string" {
		return text.Cyan(o.Inspect())
	}
	return text.Emph(o.Inspect())
}

// DescribeParams renders an argument list's types for diagnostics.
func DescribeParams(params []Object) string {
	s := ""
	for k, v := range params {
		s = s + "<" + v.TypeName() + ">"
		if k < len(params)-1 {
			s = s + ", "
		}
	}
	return "'" + s + "'"
}
