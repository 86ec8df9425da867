package binder

import (
	"fmt"
	"testing"

	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

func TestLiftPrimitives(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		in       any
		typeName string
	}{
		{true, "bool"},
		{"hi", "string"},
		{42, "int"},
		{int8(1), "i8"},
		{uint16(1), "u16"},
		{int64(1), "i64"},
		{float32(1.5), "float"},
		{1.5, "double"},
	}
	for _, tt := range tests {
		obj, err := r.Lift(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if obj.TypeName() != tt.typeName {
			t.Fatalf("Lift(%v) has type %s, want %s", tt.in, obj.TypeName(), tt.typeName)
		}
	}
	if _, err := r.Lift(struct{ X int }{}); err == nil {
		t.Fatal("lifting an unregistered type should fail")
	}
}

func TestFuncAdapter(t *testing.T) {
	r := NewRegistry()
	called := ""
	ext, err := r.Func("greet", func(name string, n int) string {
		called = fmt.Sprintf("%s/%d", name, n)
		return "hello " + name
	})
	if err != nil {
		t.Fatal(err)
	}
	out, rErr := ext.Invoke([]object.Object{
		&object.String{Value: "ada"}, &object.Int{Value: 3}}, token.Token{})
	if rErr != nil {
		t.Fatal(rErr)
	}
	if called != "ada/3" {
		t.Fatalf("host saw %q", called)
	}
	if out.(*object.String).Value != "hello ada" {
		t.Fatalf("lifted result %s", out.Inspect())
	}
}

func TestFuncAdapterErrorReturn(t *testing.T) {
	r := NewRegistry()
	ext, err := r.Func("boom", func() (int, error) {
		return 0, fmt.Errorf("kaboom")
	})
	if err != nil {
		t.Fatal(err)
	}
	_, rErr := ext.Invoke(nil, token.Token{})
	if rErr == nil || rErr.Kind != report.RuntimeError {
		t.Fatalf("want a runtime error, got %v", rErr)
	}
}

type point struct {
	X, Y float32
}

func TestTypeBinderCtorDispatch(t *testing.T) {
	r := NewRegistry()
	tb := r.Type("Point", point{}).
		Ctor(func(v float32) point { return point{X: v, Y: v} }).
		Ctor(func(x, y float32) point { return point{X: x, Y: y} }).
		Field("x", "X").
		Field("y", "Y")
	if tb.Err() != nil {
		t.Fatal(tb.Err())
	}
	ht := tb.Prototype().Binding

	// Exact overload.
	obj, rErr := ht.Construct([]object.Object{
		&object.Float{Kind: object.F32, Value: 1},
		&object.Float{Kind: object.F32, Value: 2}}, token.Token{})
	if rErr != nil {
		t.Fatal(rErr)
	}
	p := obj.(*object.Host).Value.(*point)
	if p.X != 1 || p.Y != 2 {
		t.Fatalf("Point(1, 2) = %v", p)
	}

	// Overload chosen through boundary conversion: an int argument
	// matches the single-float constructor.
	obj, rErr = ht.Construct([]object.Object{&object.Int{Value: 4}}, token.Token{})
	if rErr != nil {
		t.Fatal(rErr)
	}
	p = obj.(*object.Host).Value.(*point)
	if p.X != 4 || p.Y != 4 {
		t.Fatalf("Point(4) = %v", p)
	}

	// No overload at all.
	if _, rErr := ht.Construct([]object.Object{&object.String{Value: "x"}}, token.Token{}); rErr == nil {
		t.Fatal("Point(string) has no overload and should fail")
	}
}

func TestFieldAccessors(t *testing.T) {
	r := NewRegistry()
	tb := r.Type("Point", point{}).Field("x", "X")
	if tb.Err() != nil {
		t.Fatal(tb.Err())
	}
	host := tb.Prototype()

	if err := host.SetMember("x", &object.Float{Kind: object.F32, Value: 7}, token.Token{}); err != nil {
		t.Fatal(err)
	}
	got, err := host.Member("x", token.Token{})
	if err != nil {
		t.Fatal(err)
	}
	if got.(*object.Float).Value != 7 {
		t.Fatalf("x = %s", got.Inspect())
	}
	if host.Value.(*point).X != 7 {
		t.Fatal("the write should reach the host datum")
	}
}

func TestHostCopySemantics(t *testing.T) {
	r := NewRegistry()
	tb := r.Type("Point", point{}).Field("x", "X")
	host := tb.Prototype()
	host.Value.(*point).X = 1

	clone := host.Copy().(*object.Host)
	clone.Value.(*point).X = 99
	if host.Value.(*point).X != 1 {
		t.Fatal("copying a host aggregate must not alias the datum")
	}
}
