package program_test

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/program"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/stdlib"
)

func TestHelloWorld(t *testing.T) {
	var buf bytes.Buffer
	p := program.New("test", `prints("Hello World!");`)
	if err := p.Bind("prints", func(s string) { fmt.Fprintf(&buf, "%s\n", s) }); err != nil {
		t.Fatal(err)
	}
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello World!\n" {
		t.Fatalf("got %q", buf.String())
	}
}

const fibonacciSource = `
int fibonacci_impl(int a, int b, int n){
	if(n <= 0)
		return a;
	else
		return fibonacci_impl(b, a + b, n - 1);
}

int fibonacci(int n){
	return fibonacci_impl(0, 1, n);
}
`

func TestFibonacci(t *testing.T) {
	p := program.New("test", fibonacciSource)
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	want := []int64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}
	for n := 0; n < 10; n++ {
		got, err := p.Get("fibonacci").Call(n).AsInt()
		if err != nil {
			t.Fatal(err)
		}
		if got != want[n] {
			t.Fatalf("fibonacci(%d) = %d, want %d", n, got, want[n])
		}
	}
}

const numberStructSource = `
struct Number {
	void set(int n){
		number = n;
	}
	int get(){
		return number;
	}
	void add(float n){
		number = number + n;
	}
	int number;
};

Number x;
x.set(10);
`

func TestStructMethods(t *testing.T) {
	p := program.New("test", numberStructSource)
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}

	got, err := p.Get("x").Member("get").Call().AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Fatalf("x.get() = %d, want 10", got)
	}

	if err := p.Get("x").Member("set").Call(32).Err(); err != nil {
		t.Fatal(err)
	}
	current, err := p.Get("x").Member("get").Call().AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Get("x").Member("add").Call(current).Err(); err != nil {
		t.Fatal(err)
	}
	got, err = p.Get("x").Member("get").Call().AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if got != 64 {
		t.Fatalf("x.get() = %d, want 64", got)
	}
}

type vec3 struct {
	X, Y, Z float32
}

func bindVec3(p *program.Program) error {
	tb := p.BindType("Vec3", vec3{}).
		Ctor(func(s string) vec3 {
			v, _ := strconv.ParseFloat(s, 32)
			f := float32(v)
			return vec3{X: f, Y: f, Z: f}
		}).
		Ctor(func(v float32) vec3 {
			return vec3{X: v, Y: v, Z: v}
		}).
		Ctor(func(x, y, z float32) vec3 {
			return vec3{X: x, Y: y, Z: z}
		}).
		Field("x", "X").
		Field("y", "Y").
		Field("z", "Z")
	return tb.Err()
}

func TestConstructorOverloads(t *testing.T) {
	source := `
Vec3 a = Vec3("5");
Vec3 b = Vec3(4);
Vec3 c = Vec3(1, 2, 3);
`
	p := program.New("test", source)
	if err := bindVec3(p); err != nil {
		t.Fatal(err)
	}
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}

	read := func(name string) [3]float64 {
		var out [3]float64
		for i, member := range []string{"x", "y", "z"} {
			v, err := p.Get(name).Member(member).Value()
			if err != nil {
				t.Fatal(err)
			}
			out[i] = v.(*object.Float).Value
		}
		return out
	}

	if got := read("a"); got != [3]float64{5, 5, 5} {
		t.Fatalf(`Vec3("5") = %v`, got)
	}
	if got := read("b"); got != [3]float64{4, 4, 4} {
		t.Fatalf("Vec3(4) = %v", got)
	}
	if got := read("c"); got != [3]float64{1, 2, 3} {
		t.Fatalf("Vec3(1,2,3) = %v", got)
	}
}

func TestIndexAndAssign(t *testing.T) {
	source := `
vector v = vector(1);
v[0] = 10;
`
	p := program.New("test", source)
	if err := stdlib.Register(p); err != nil {
		t.Fatal(err)
	}
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}

	v, err := program.As[*stdlib.Vector](p.Get("v"))
	if err != nil {
		t.Fatal(err)
	}
	if v.Data[0] != 10 {
		t.Fatalf("v[0] = %d, want 10", v.Data[0])
	}

	_, err = p.Eval("v[1];")
	if err == nil {
		t.Fatal("v[1] should be out of range")
	}
	rep, ok := report.As(err)
	if !ok || rep.Kind != report.RangeError {
		t.Fatalf("want RangeError, got %v", err)
	}
}

func TestLoopBreak(t *testing.T) {
	source := `
int s = 0;
for(int i = 0; i < 10; ++i){
	if(i == 5)
		break;
	s = s + i;
}
`
	p := program.New("test", source)
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	got, err := p.Get("s").AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Fatalf("s = %d, want 10", got)
	}
}

func TestListPushBack(t *testing.T) {
	source := fibonacciSource + `
list xs;
for(int i = 0; i < 5; i++)
	xs.push_back(fibonacci(i));
`
	p := program.New("test", source)
	if err := stdlib.Register(p); err != nil {
		t.Fatal(err)
	}
	if err := p.Compile(); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}

	for i := 5; i < 10; i++ {
		fib := p.Get("fibonacci").Call(i)
		if err := fib.Err(); err != nil {
			t.Fatal(err)
		}
		if err := p.Get("xs").Member("push_back").Call(mustValue(t, fib)).Err(); err != nil {
			t.Fatal(err)
		}
	}

	want := []int64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}
	for i := range want {
		got, err := p.Eval(fmt.Sprintf("return xs[%d];", i))
		if err != nil {
			t.Fatal(err)
		}
		if got.(*object.Int).Value != want[i] {
			t.Fatalf("xs[%d] = %s, want %d", i, got.Inspect(), want[i])
		}
	}
}

func mustValue(t *testing.T, h program.Handle) object.Object {
	t.Helper()
	v, err := h.Value()
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
		{"20 / 2 / 5", 2},
		{"2 * 3 + 4 * 5", 26},
		{"-3 + 5", 2},
	}
	for _, tt := range tests {
		p := program.New("test", "int r = "+tt.expr+";")
		if err := p.Compile(); err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		if err := p.Run(); err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		got, err := p.Get("r").AsInt()
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Fatalf("%s = %d, want %d", tt.expr, got, tt.want)
		}
	}

	// Relational binds tighter than equality, looser than additive.
	p := program.New("test", "bool b = 1 + 1 == 2; bool c = 2 < 1 + 2;")
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b", "c"} {
		got, err := p.Get(name).AsBool()
		if err != nil {
			t.Fatal(err)
		}
		if !got {
			t.Fatalf("%s should be true", name)
		}
	}
}

func TestScopeShadowingAndAssignment(t *testing.T) {
	source := `
int x = 1;
int y = 1;
{
	x = 2;
	int y = 5;
	y = 6;
}
`
	p := program.New("test", source)
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	x, _ := p.Get("x").AsInt()
	if x != 2 {
		t.Fatalf("assignment from the inner scope should reach the outer slot, x = %d", x)
	}
	y, _ := p.Get("y").AsInt()
	if y != 1 {
		t.Fatalf("the inner declaration should shadow, not overwrite, y = %d", y)
	}
}

func TestAggregateCopyIndependence(t *testing.T) {
	source := numberStructSource + `
Number y = x;
y.set(99);
`
	p := program.New("test", source)
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	xVal, err := p.Get("x").Member("get").Call().AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if xVal != 10 {
		t.Fatalf("mutating the copy mutated the original: x.number = %d", xVal)
	}
	yVal, err := p.Get("y").Member("get").Call().AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if yVal != 99 {
		t.Fatalf("y.number = %d, want 99", yVal)
	}
}

func TestRunTwiceIsDeterministic(t *testing.T) {
	run := func() string {
		var buf bytes.Buffer
		p := program.New("test", `
int n = 0;
while(n < 3){
	log("tick");
	n = n + 1;
}
log("done");
`)
		if err := p.Bind("log", func(s string) { fmt.Fprintln(&buf, s) }); err != nil {
			t.Fatal(err)
		}
		if err := p.Run(); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}
	if first, second := run(), run(); first != second {
		t.Fatalf("two fresh runs diverged:\n%q\n%q", first, second)
	}
}

func TestWhileLoop(t *testing.T) {
	source := `
int n = 1;
while(n < 100)
	n = n * 2;
`
	p := program.New("test", source)
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	n, _ := p.Get("n").AsInt()
	if n != 128 {
		t.Fatalf("n = %d, want 128", n)
	}
}

func TestCompoundAssignmentAndIncrement(t *testing.T) {
	source := `
int a = 10;
a += 5;
a -= 3;
a *= 4;
a /= 2;
int pre = ++a;
int post = a++;
`
	p := program.New("test", source)
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	a, _ := p.Get("a").AsInt()
	pre, _ := p.Get("pre").AsInt()
	post, _ := p.Get("post").AsInt()
	if a != 26 || pre != 25 || post != 25 {
		t.Fatalf("a = %d, pre = %d, post = %d", a, pre, post)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   report.Kind
	}{
		{"int a = 1 / 0;", report.RuntimeError},
		{`int a = 1; a = "s";`, report.TypeError},
		{"int f(int n){ return n; } int a = f(1, 2);", report.TypeError},
		{`string s = "a"; int a = 2; bool b = s < a;`, report.TypeError},
	}
	for _, tt := range tests {
		p := program.New("test", tt.source)
		err := p.Run()
		if err == nil {
			t.Fatalf("%q should fail", tt.source)
		}
		rep, ok := report.As(err)
		if !ok || rep.Kind != tt.kind {
			t.Fatalf("%q: want %v, got %v", tt.source, tt.kind, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   report.Kind
	}{
		{"int ;", report.ParseError},
		{"y = 5;", report.NameError},
		{"Foo f;", report.NameError},
		{"int x = 5", report.ParseError},
		{"int x = (5;", report.ParseError},
		{"struct S { int a; }", report.ParseError}, // missing trailing semicolon
	}
	for _, tt := range tests {
		p := program.New("test", tt.source)
		err := p.Compile()
		if err == nil {
			t.Fatalf("%q should not compile", tt.source)
		}
		rep, ok := report.As(err)
		if !ok || rep.Kind != tt.kind {
			t.Fatalf("%q: want %v, got %v", tt.source, tt.kind, err)
		}
	}
}

func TestReturnTypeChecking(t *testing.T) {
	p := program.New("test", `
int broken(int n){
	if(n > 0)
		return n;
}
int a = broken(0);
`)
	err := p.Run()
	rep, ok := report.As(err)
	if !ok || rep.Kind != report.TypeError {
		t.Fatalf("a non-returning body of a non-void function is a type error, got %v", err)
	}
}

func TestDiagnosticRendering(t *testing.T) {
	p := program.New("demo.mnw", "int x = 5;\nx = y;\n")
	err := p.Compile()
	if err == nil {
		t.Fatal("expected a compile error")
	}
	rendered := p.Render(err)
	want := "demo.mnw:2:4:\nx = y;\n    ~"
	if rendered[:len(want)] != want {
		t.Fatalf("rendered diagnostic:\n%s", rendered)
	}
}
