package lexer

import (
	"strings"
	"testing"

	"github.com/h-merrill/minnow/token"
)

func TestNextToken(t *testing.T) {
	input := `int x = 5;
x += 2;
if (x <= 7) { x++; }
float f = 1.5f;
string s = "a\nb";
char c = 'q';
v[0] = 10; // trailing comment
a.b(1, 2) != 3;`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{token.IDENT, "int", 1},
		{token.IDENT, "x", 1},
		{token.ASSIGN, "=", 1},
		{token.NUMBER, "5", 1},
		{token.SEMICOLON, ";", 1},
		{token.IDENT, "x", 2},
		{token.PLUS_ASSIGN, "+=", 2},
		{token.NUMBER, "2", 2},
		{token.SEMICOLON, ";", 2},
		{token.IDENT, "if", 3},
		{token.LPAREN, "(", 3},
		{token.IDENT, "x", 3},
		{token.LT_EQ, "<=", 3},
		{token.NUMBER, "7", 3},
		{token.RPAREN, ")", 3},
		{token.LBRACE, "{", 3},
		{token.IDENT, "x", 3},
		{token.INCREMENT, "++", 3},
		{token.SEMICOLON, ";", 3},
		{token.RBRACE, "}", 3},
		{token.IDENT, "float", 4},
		{token.IDENT, "f", 4},
		{token.ASSIGN, "=", 4},
		{token.NUMBER, "1.5f", 4},
		{token.SEMICOLON, ";", 4},
		{token.IDENT, "string", 5},
		{token.IDENT, "s", 5},
		{token.ASSIGN, "=", 5},
		{token.STRING, "a\nb", 5},
		{token.SEMICOLON, ";", 5},
		{token.IDENT, "char", 6},
		{token.IDENT, "c", 6},
		{token.ASSIGN, "=", 6},
		{token.CHAR, "q", 6},
		{token.SEMICOLON, ";", 6},
		{token.IDENT, "v", 7},
		{token.LBRACK, "[", 7},
		{token.NUMBER, "0", 7},
		{token.RBRACK, "]", 7},
		{token.ASSIGN, "=", 7},
		{token.NUMBER, "10", 7},
		{token.SEMICOLON, ";", 7},
		{token.IDENT, "a", 8},
		{token.DOT, ".", 8},
		{token.IDENT, "b", 8},
		{token.LPAREN, "(", 8},
		{token.NUMBER, "1", 8},
		{token.COMMA, ",", 8},
		{token.NUMBER, "2", 8},
		{token.RPAREN, ")", 8},
		{token.NOT_EQ, "!=", 8},
		{token.NUMBER, "3", 8},
		{token.SEMICOLON, ";", 8},
		{token.EOF, "", 8},
	}

	l := New("dummy source", input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, token.Describe(tt.expectedType), token.Describe(tok.Type))
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}

		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong. expected=%d, got=%d",
				i, tt.expectedLine, tok.Line)
		}
	}
}

func TestNumberTyping(t *testing.T) {
	tests := []struct {
		input   string
		value   float64
		isFloat bool
		isF32   bool
	}{
		{"123", 123, false, false},
		{"1.5", 1.5, true, false},
		{"1.5f", 1.5, true, true},
		{"40f", 40, false, true},
	}
	for _, tt := range tests {
		tok := New("dummy source", tt.input).NextToken()
		if tok.Type != token.NUMBER {
			t.Fatalf("%q did not lex as a number", tt.input)
		}
		if tok.Value != tt.value || tok.IsFloat != tt.isFloat || tok.IsF32 != tt.isF32 {
			t.Fatalf("%q lexed as (%v, %v, %v)", tt.input, tok.Value, tok.IsFloat, tok.IsF32)
		}
	}
}

// Every token's location span reproduces its lexeme from the source.
func TestTokenSpansMatchSource(t *testing.T) {
	input := "int x = 5;\nwhile (x <= 40) { x += 2; }\nbool ok = x != 44;"
	lines := strings.Split(input, "\n")
	for i, tok := range Tokenize("dummy source", input) {
		if tok.Type == token.EOF {
			continue
		}
		line := lines[tok.Line-1]
		if tok.Column+tok.Length > len(line) {
			t.Fatalf("tokens[%d] %q: span %d+%d overruns line %q",
				i, tok.Literal, tok.Column, tok.Length, line)
		}
		if got := line[tok.Column : tok.Column+tok.Length]; got != tok.Literal {
			t.Fatalf("tokens[%d]: span reads %q, lexeme is %q", i, got, tok.Literal)
		}
	}
}

func TestIllegalRune(t *testing.T) {
	l := New("dummy source", "int x = 5 @")
	var tok token.Token
	for tok.Type != token.ILLEGAL && tok.Type != token.EOF {
		tok = l.NextToken()
	}
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected an invalid token for '@'")
	}
	if tok.Length != 1 {
		t.Fatalf("invalid token should have length 1, got %d", tok.Length)
	}
}
