package object

import (
	"testing"

	"github.com/h-merrill/minnow/token"
)

func TestArithmeticDispatch(t *testing.T) {
	tok := token.Token{}

	sum, err := Add(&Int{Value: 2}, &Int{Value: 3}, tok)
	if err != nil {
		t.Fatal(err)
	}
	if sum.(*Int).Value != 5 {
		t.Fatalf("2 + 3 = %s", sum.Inspect())
	}

	// A numeric right operand is coerced to the left's kind.
	sum, err = Add(&Int{Value: 32}, &Float{Kind: F32, Value: 32}, tok)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TypeName() != "int" || sum.(*Int).Value != 64 {
		t.Fatalf("int + float = %s %s", sum.TypeName(), sum.Inspect())
	}

	cat, err := Add(&String{Value: "foo"}, &String{Value: "bar"}, tok)
	if err != nil {
		t.Fatal(err)
	}
	if cat.(*String).Value != "foobar" {
		t.Fatalf("string + string = %s", cat.Inspect())
	}

	if _, err := Add(&String{Value: "foo"}, &Int{Value: 1}, tok); err == nil {
		t.Fatal("string + int should not be allowed")
	}

	if _, err := Div(&Int{Value: 1}, &Int{Value: 0}, tok); err == nil {
		t.Fatal("integer division by zero should fail")
	}
}

func TestIntegerWidths(t *testing.T) {
	tok := token.Token{}
	sum, err := Add(&Int{Kind: U8, Value: 250}, &Int{Kind: U8, Value: 10}, tok)
	if err != nil {
		t.Fatal(err)
	}
	if sum.(*Int).Value != 4 {
		t.Fatalf("u8 arithmetic should wrap, got %d", sum.(*Int).Value)
	}
	if sum.TypeName() != "u8" {
		t.Fatalf("result carries the left kind, got %s", sum.TypeName())
	}
}

func TestCompareAndEquals(t *testing.T) {
	tok := token.Token{}
	lt, err := Compare("<", &String{Value: "abc"}, &String{Value: "abd"}, tok)
	if err != nil {
		t.Fatal(err)
	}
	if !lt.(*Bool).Value {
		t.Fatal(`"abc" < "abd" should hold`)
	}

	eq, err := Equals(&Float{Kind: F64, Value: 1.5}, &Float{Kind: F64, Value: 1.5}, tok)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatal("1.5 == 1.5 should hold")
	}
}

func TestStructCopyIsDeep(t *testing.T) {
	proto := &Struct{
		Name:    "Pair",
		Fields:  []string{"a", "b"},
		Members: map[string]Object{"a": &Int{Value: 1}, "b": &Int{Value: 2}},
		Methods: map[string]Function{},
	}
	clone := proto.Copy().(*Struct)
	clone.Members["a"] = &Int{Value: 99}
	if proto.Members["a"].(*Int).Value != 1 {
		t.Fatal("copying a struct must not alias its members")
	}
}

func TestScopeChain(t *testing.T) {
	root := NewRootScope()
	if _, ok := root.FindType("i32"); !ok {
		t.Fatal("root scope should be seeded with the primitive types")
	}

	root.Declare("x", &Int{Value: 1})
	inner := NewScope(root)

	if v, ok := inner.GetVariable("x"); !ok || v.(*Int).Value != 1 {
		t.Fatal("lookup should walk the parent chain")
	}
	if !inner.UpdateVariable("x", &Int{Value: 2}) {
		t.Fatal("update should find the ancestor slot")
	}
	if v, _ := root.GetVariable("x"); v.(*Int).Value != 2 {
		t.Fatal("update should write the ancestor slot, not shadow it")
	}

	inner.Declare("x", &Int{Value: 10})
	if v, _ := inner.GetVariable("x"); v.(*Int).Value != 10 {
		t.Fatal("declaration should shadow")
	}
	if v, _ := root.GetVariable("x"); v.(*Int).Value != 2 {
		t.Fatal("shadowing should leave the ancestor alone")
	}
}

func TestConvert(t *testing.T) {
	v, ok := Convert(&Int{Value: 4}, "float")
	if !ok || v.(*Float).Value != 4 || v.TypeName() != "float" {
		t.Fatalf("int -> float conversion failed: %v", v)
	}
	if _, ok := Convert(&Int{Value: 4}, "string"); ok {
		t.Fatal("int -> string should not convert")
	}
	v, ok = Convert(&Int{Value: 300}, "u8")
	if !ok || v.(*Int).Value != 44 {
		t.Fatalf("narrowing should truncate, got %v", v)
	}
}
