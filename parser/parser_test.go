package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/h-merrill/minnow/ast"
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
)

func parseSource(t *testing.T, source string) (*ast.Block, *report.Error) {
	t.Helper()
	return Parse("dummy source", source, object.NewRootScope())
}

func TestStatementShapes(t *testing.T) {
	block, err := parseSource(t, `
int x = 5;
x = x + 1;
if (x < 10) { x = 0; } else x = 1;
for (int i = 0; i < 3; i++) x = x + i;
while (x < 100) x = x * 2;
{ int y = 1; }
return x;
`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"*ast.VariableDecl", "*ast.ExpressionStatement", "*ast.IfElseChain",
		"*ast.For", "*ast.While", "*ast.Block", "*ast.Return",
	}
	if len(block.Statements) != len(want) {
		t.Fatalf("got %d statements, want %d", len(block.Statements), len(want))
	}
	for i, stmt := range block.Statements {
		if got := fmt.Sprintf("%T", stmt); got != want[i] {
			t.Fatalf("statement %d is %s, want %s", i, got, want[i])
		}
	}
}

func TestTypeResolutionOpensDeclarations(t *testing.T) {
	// 'Number' is only a declaration opener once the struct is in scope.
	if _, err := parseSource(t, "Number x;"); err == nil {
		t.Fatal("using a struct type before its declaration should fail")
	}
	block, err := parseSource(t, "struct Number { int n; }; Number x;")
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Statements) != 1 {
		t.Fatalf("the struct declaration is parse-time only; got %d statements",
			len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.VariableDecl); !ok {
		t.Fatal("expected a variable declaration")
	}
}

func TestStructRegistersPrototype(t *testing.T) {
	root := object.NewRootScope()
	_, err := Parse("dummy source", `
struct Number {
	void set(int n){ number = n; }
	int number;
};
`, root)
	if err != nil {
		t.Fatal(err)
	}
	proto, ok := root.FindType("Number")
	if !ok {
		t.Fatal("struct type not registered")
	}
	s := proto.(*object.Struct)
	if len(s.Fields) != 1 || s.Fields[0] != "number" {
		t.Fatalf("fields = %v", s.Fields)
	}
	if _, ok := s.Methods["set"]; !ok {
		t.Fatal("method not registered")
	}
	fn := s.Methods["set"].(*ast.InternalFunction)
	if len(fn.Members) != 1 || fn.Members[0] != "number" {
		t.Fatalf("method member binding = %v", fn.Members)
	}
}

func TestMethodsMayUseLaterMembers(t *testing.T) {
	// 'number' is declared after the methods that use it, as in the
	// canonical Number struct.
	if _, err := parseSource(t, `
struct Number {
	int get(){ return number; }
	int number;
};
`); err != nil {
		t.Fatal(err)
	}
}

func TestFunctionsRegisterBeforeBodies(t *testing.T) {
	root := object.NewRootScope()
	_, err := Parse("dummy source", `
int spin(int n){
	if (n == 0)
		return 0;
	return spin(n - 1);
}
`, root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root.FindFunction("spin"); !ok {
		t.Fatal("function not registered")
	}
}

func TestExpectedSetErrors(t *testing.T) {
	_, err := parseSource(t, "int x 5;")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if err.Kind != report.ParseError {
		t.Fatalf("want ParseError, got %v", err.Kind)
	}
	if !strings.Contains(err.Message, "expected") {
		t.Fatalf("error should carry the expected set: %q", err.Message)
	}
}

func TestFailFast(t *testing.T) {
	// The first bad token is reported; there is no recovery.
	_, err := parseSource(t, "int x = @; int y = 1;")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if err.Token.Line != 1 {
		t.Fatalf("error anchored at line %d", err.Token.Line)
	}
}

func TestDuplicateParameterNames(t *testing.T) {
	_, err := parseSource(t, "int f(int a, int a){ return a; }")
	if err == nil {
		t.Fatal("duplicate parameter names should fail")
	}
}
