package lexer

import (
	"strconv"
	"strings"

	"github.com/h-merrill/minnow/token"
)

type Lexer struct {
	reader strings.Reader
	input  string
	ch     rune // current rune under examination
	line   int  // the line number
	char   int  // the character number within the line
	tstart int  // the value of char at the start of a token
	tline  int  // the value of line at the start of a token
	source string
}

func New(source, input string) *Lexer {
	r := *strings.NewReader(input)
	l := &Lexer{
		reader: r,
		input:  input,
		line:   1,
		char:   -1,
		source: source,
	}
	l.readChar()
	return l
}

// Tokenize drains the lexer. The last token is always EOF.
func Tokenize(source, input string) []token.Token {
	l := New(source, input)
	tokens := []token.Token{}
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	l.tstart = l.char
	l.tline = l.line

	var tok token.Token

	switch l.ch {
	case 0:
		tok = l.newToken(token.EOF, "")
		return tok
	case '+':
		switch l.peekChar() {
		case '+':
			l.readChar()
			tok = l.newToken(token.INCREMENT, "++")
		case '=':
			l.readChar()
			tok = l.newToken(token.PLUS_ASSIGN, "+=")
		default:
			tok = l.newToken(token.PLUS, "+")
		}
	case '-':
		switch l.peekChar() {
		case '-':
			l.readChar()
			tok = l.newToken(token.DECREMENT, "--")
		case '=':
			l.readChar()
			tok = l.newToken(token.MINUS_ASSIGN, "-=")
		default:
			tok = l.newToken(token.MINUS, "-")
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.STAR_ASSIGN, "*=")
		} else {
			tok = l.newToken(token.STAR, "*")
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.SLASH_ASSIGN, "/=")
		} else {
			tok = l.newToken(token.SLASH, "/")
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.EQ, "==")
		} else {
			tok = l.newToken(token.ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.NOT_EQ, "!=")
		} else {
			tok = l.newToken(token.BANG, "!")
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.LT_EQ, "<=")
		} else {
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.GT_EQ, ">=")
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '[':
		tok = l.newToken(token.LBRACK, "[")
	case ']':
		tok = l.newToken(token.RBRACK, "]")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '.':
		tok = l.newToken(token.DOT, ".")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '"':
		s, ok := l.readString()
		tok = l.newToken(token.STRING, s)
		if !ok {
			tok.Type = token.ILLEGAL
		}
		return l.located(tok)
	case '\'':
		s, ok := l.readCharLiteral()
		tok = l.newToken(token.CHAR, s)
		if !ok {
			tok.Type = token.ILLEGAL
		}
		return l.located(tok)
	default:
		if isDigit(l.ch) {
			return l.located(l.readNumber())
		}
		if isLetter(l.ch) {
			return l.located(l.newToken(token.IDENT, l.readIdentifier()))
		}
		tok = l.newToken(token.ILLEGAL, string(l.ch))
	}
	l.readChar()
	return l.located(tok)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readChar() {
	l.char++
	if l.ch == '\n' {
		l.line++
		l.char = 0
	}
	if l.reader.Len() == 0 {
		l.ch = 0
	} else {
		l.ch, _, _ = l.reader.ReadRune()
	}
}

func (l *Lexer) peekChar() rune {
	if l.reader.Len() == 0 {
		return 0
	}
	ru, _, _ := l.reader.ReadRune()
	l.reader.UnreadRune()
	return ru
}

// readNumber scans a digit run with an optional single '.' and an optional
// 'f' suffix. The suffix (or a '.') makes the literal a float at typing
// time; an 'f' suffix narrows it to float.
func (l *Lexer) readNumber() token.Token {
	numString := ""
	sawDot := false
	for isDigit(l.ch) || (l.ch == '.' && !sawDot && isDigit(l.peekChar())) {
		if l.ch == '.' {
			sawDot = true
		}
		numString = numString + string(l.ch)
		l.readChar()
	}
	sawF := false
	if l.ch == 'f' {
		sawF = true
		l.readChar()
	}
	tok := l.newToken(token.NUMBER, numString)
	if sawF {
		tok.Literal = numString + "f"
	}
	value, err := strconv.ParseFloat(numString, 64)
	if err != nil {
		tok.Type = token.ILLEGAL
		return tok
	}
	tok.Value = value
	tok.IsFloat = sawDot
	tok.IsF32 = sawF
	return tok
}

var escapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r', 'b': '\b', 'v': '\v', 'f': '\f',
	'a': '\a', '"': '"', '\'': '\'', '\\': '\\',
}

func (l *Lexer) readString() (string, bool) {
	result := ""
	for {
		l.readChar()
		if l.ch == '"' {
			l.readChar()
			return result, true
		}
		if l.ch == 0 || l.ch == '\n' {
			return result, false
		}
		if l.ch == '\\' {
			l.readChar()
			esc, ok := escapes[l.ch]
			if !ok {
				return result, false
			}
			result = result + string(esc)
			continue
		}
		result = result + string(l.ch)
	}
}

func (l *Lexer) readCharLiteral() (string, bool) {
	l.readChar()
	if l.ch == 0 || l.ch == '\n' {
		return "", false
	}
	ch := l.ch
	if l.ch == '\\' {
		l.readChar()
		esc, ok := escapes[l.ch]
		if !ok {
			return "", false
		}
		ch = esc
	}
	l.readChar()
	if l.ch != '\'' {
		return string(ch), false
	}
	l.readChar()
	return string(ch), true
}

func (l *Lexer) readIdentifier() string {
	result := ""
	for isLetter(l.ch) || isDigit(l.ch) {
		result = result + string(l.ch)
		l.readChar()
	}
	return result
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) newToken(tokenType token.TokenType, st string) token.Token {
	return token.Token{Type: tokenType, Literal: st,
		Location: token.Location{Source: l.source, Line: l.tline, Column: l.tstart, Length: 1}}
}

// located fixes up the span length once the whole token has been read.
func (l *Lexer) located(tok token.Token) token.Token {
	length := l.char - l.tstart
	if l.line != l.tline || length < 1 {
		length = len(tok.Literal)
		if length < 1 {
			length = 1
		}
	}
	tok.Length = length
	return tok
}
