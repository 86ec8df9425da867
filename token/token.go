package token

import "strings"

// TokenType is a bitmask, so that a parser-supplied "expected set" can be
// the union of several types.
type TokenType uint64

const (
	NUMBER TokenType = 1 << iota
	IDENT
	STRING
	CHAR
	PLUS
	MINUS
	STAR
	SLASH
	INCREMENT
	DECREMENT
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	ASSIGN
	EQ
	NOT_EQ
	LT
	LT_EQ
	GT
	GT_EQ
	BANG
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACK
	RBRACK
	SEMICOLON
	DOT
	COMMA
	ILLEGAL
	EOF
)

var names = map[TokenType]string{
	NUMBER: "number", IDENT: "identifier", STRING: "string", CHAR: "char",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/",
	INCREMENT: "++", DECREMENT: "--",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	ASSIGN: "=", EQ: "==", NOT_EQ: "!=",
	LT: "<", LT_EQ: "<=", GT: ">", GT_EQ: ">=", BANG: "!",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACK: "[", RBRACK: "]",
	SEMICOLON: ";", DOT: ".", COMMA: ",",
	ILLEGAL: "invalid", EOF: "EOF",
}

// Describe spells out every type in the mask, for "expected x|y|z" messages.
func Describe(t TokenType) string {
	parts := []string{}
	for bit := TokenType(1); bit <= EOF; bit <<= 1 {
		if t&bit != 0 {
			parts = append(parts, names[bit])
		}
	}
	return strings.Join(parts, "|")
}

// Location identifies a span of source text for diagnostics.
type Location struct {
	Source string // filepath, or "REPL input"
	Line   int    // 1-based
	Column int    // 0-based column of the first character of the span
	Length int
}

type Token struct {
	Type    TokenType
	Literal string
	Value   float64 // set when Type is NUMBER
	IsFloat bool    // the literal had a '.' in it
	IsF32   bool    // the literal had an 'f' suffix
	Location
}

// Keywords are ordinary identifiers as far as the lexer is concerned; the
// parser gives them meaning by looking at the literal.
var keywords = map[string]bool{
	"struct": true, "if": true, "else": true, "for": true,
	"while": true, "return": true, "break": true,
}

func IsKeyword(literal string) bool {
	return keywords[literal]
}
