package parser

// A recursive-descent parser with one token of lookahead. The parser
// carries a current Scope and a stack of enclosing scopes; declarations
// are registered into the current scope as they are read, which is what
// lets the leading identifier of a statement decide between "declaration"
// (it names a type discovered so far) and "expression" (it doesn't).

import (
	"github.com/h-merrill/minnow/ast"
	"github.com/h-merrill/minnow/lexer"
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/signature"
	"github.com/h-merrill/minnow/stack"
	"github.com/h-merrill/minnow/token"
)

type Parser struct {
	tokens    []token.Token
	pos       int
	scope     *object.Scope
	enclosing *stack.Stack[*object.Scope]
}

// New wants the token stream and the root scope, already seeded with the
// primitive zero values and whatever the host has bound.
func New(tokens []token.Token, root *object.Scope) *Parser {
	return &Parser{tokens: tokens, scope: root, enclosing: stack.NewStack[*object.Scope]()}
}

// Parse wires a source string straight through the lexer and parser.
func Parse(source, input string, root *object.Scope) (*ast.Block, *report.Error) {
	p := New(lexer.Tokenize(source, input), root)
	return p.ParseProgram()
}

func (p *Parser) ParseProgram() (*ast.Block, *report.Error) {
	block := &ast.Block{Token: p.peek(), Scope: p.scope}
	for p.peek().Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	return block, nil
}

func (p *Parser) pushScope(sc *object.Scope) {
	p.enclosing.Push(p.scope)
	p.scope = sc
}

func (p *Parser) popScope() {
	sc, _ := p.enclosing.Pop()
	p.scope = sc
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // the EOF token
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) putback() {
	if p.pos > 0 {
		p.pos--
	}
}

func (p *Parser) match(expected token.TokenType) (token.Token, bool) {
	if p.peek().Type&expected != 0 {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) mustMatch(expected token.TokenType) (token.Token, *report.Error) {
	tok := p.peek()
	if tok.Type&expected == 0 {
		return tok, report.New(report.ParseError, tok,
			"expected %s, found %s", token.Describe(expected), describe(tok))
	}
	return p.advance(), nil
}

func describe(tok token.Token) string {
	if tok.Type == token.IDENT || tok.Type == token.NUMBER {
		return "'" + tok.Literal + "'"
	}
	return "'" + token.Describe(tok.Type) + "'"
}

func (p *Parser) parseStatement() (ast.Statement, *report.Error) {
	tok := p.peek()
	switch tok.Type {
	case token.SEMICOLON:
		p.advance()
		return nil, nil
	case token.LBRACE:
		return p.parseBlock(object.NewScope(p.scope))
	case token.IDENT:
		switch tok.Literal {
		case "if":
			return p.parseIfElseChain()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "return":
			return p.parseReturn()
		case "break":
			p.advance()
			if _, err := p.mustMatch(token.SEMICOLON); err != nil {
				return nil, err
			}
			return &ast.Break{Token: tok}, nil
		case "struct":
			return nil, p.parseStructDecl()
		}
		if _, isType := p.scope.FindType(tok.Literal); isType {
			switch p.peekAt(1).Type {
			case token.IDENT:
				return p.parseDeclaration()
			case token.LPAREN: // a bare constructor call
				return p.parseExpressionStatement()
			default:
				return nil, report.New(report.ParseError, p.peekAt(1),
					"expected a name after type '%s'", tok.Literal)
			}
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock reads '{' statements '}' into the given scope.
func (p *Parser) parseBlock(sc *object.Scope) (*ast.Block, *report.Error) {
	lbrace, err := p.mustMatch(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Token: lbrace, Scope: sc}
	p.pushScope(sc)
	defer p.popScope()
	for {
		if p.peek().Type == token.RBRACE {
			p.advance()
			return block, nil
		}
		if p.peek().Type == token.EOF {
			return nil, report.New(report.ParseError, p.peek(), "expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
}

// parseBody reads either a braced block or a single statement, for the
// bodies of if/for/while.
func (p *Parser) parseBody(parent *object.Scope) (ast.Statement, *report.Error) {
	if p.peek().Type == token.LBRACE {
		return p.parseBlock(object.NewScope(parent))
	}
	p.pushScope(parent)
	defer p.popScope()
	return p.parseStatement()
}

func (p *Parser) parseExpressionStatement() (ast.Statement, *report.Error) {
	tok := p.peek()
	expr, err := p.buildExpression(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	if _, err := p.mustMatch(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}, nil
}

func (p *Parser) parseReturn() (ast.Statement, *report.Error) {
	tok := p.advance()
	if p.peek().Type == token.SEMICOLON {
		p.advance()
		return &ast.Return{Token: tok}, nil
	}
	expr, err := p.buildExpression(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	if _, err := p.mustMatch(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Return{Token: tok, Expression: expr}, nil
}

func (p *Parser) parseIfElseChain() (ast.Statement, *report.Error) {
	tok := p.advance()
	chain := &ast.IfElseChain{Token: tok}
	for {
		if _, err := p.mustMatch(token.LPAREN); err != nil {
			return nil, err
		}
		cond, err := p.buildExpression(token.RPAREN)
		if err != nil {
			return nil, err
		}
		if _, err := p.mustMatch(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBody(p.scope)
		if err != nil {
			return nil, err
		}
		chain.Conditions = append(chain.Conditions, cond)
		chain.Bodies = append(chain.Bodies, body)

		if p.peek().Type != token.IDENT || p.peek().Literal != "else" {
			return chain, nil
		}
		p.advance()
		if p.peek().Type == token.IDENT && p.peek().Literal == "if" {
			p.advance()
			continue
		}
		body, err = p.parseBody(p.scope)
		if err != nil {
			return nil, err
		}
		chain.Bodies = append(chain.Bodies, body)
		return chain, nil
	}
}

func (p *Parser) parseFor() (ast.Statement, *report.Error) {
	tok := p.advance()
	if _, err := p.mustMatch(token.LPAREN); err != nil {
		return nil, err
	}
	forScope := object.NewScope(p.scope)
	p.pushScope(forScope)
	defer p.popScope()

	var initStmt ast.Statement
	var err *report.Error
	if p.peek().Type == token.SEMICOLON {
		p.advance()
	} else {
		leading := p.peek()
		if _, isType := p.scope.FindType(leading.Literal); leading.Type == token.IDENT &&
			isType && p.peekAt(1).Type == token.IDENT {
			initStmt, err = p.parseVariableDecl()
		} else {
			initStmt, err = p.parseExpressionStatement()
		}
		if err != nil {
			return nil, err
		}
	}

	cond, err := p.buildExpression(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	if _, err := p.mustMatch(token.SEMICOLON); err != nil {
		return nil, err
	}

	var step *ast.Expression
	if p.peek().Type != token.RPAREN {
		step, err = p.buildExpression(token.RPAREN)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.mustMatch(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBody(forScope)
	if err != nil {
		return nil, err
	}
	return &ast.For{Token: tok, Scope: forScope, Init: initStmt,
		Condition: cond, Step: step, Body: body}, nil
}

func (p *Parser) parseWhile() (ast.Statement, *report.Error) {
	tok := p.advance()
	if _, err := p.mustMatch(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.buildExpression(token.RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.mustMatch(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBody(p.scope)
	if err != nil {
		return nil, err
	}
	return &ast.While{Token: tok, Condition: cond, Body: body}, nil
}

// parseDeclaration handles statements opening with a type name: either a
// variable declaration or a function declaration, told apart by the token
// after the declared name.
func (p *Parser) parseDeclaration() (ast.Statement, *report.Error) {
	if p.peekAt(2).Type == token.LPAREN {
		return nil, p.parseFunctionDecl()
	}
	return p.parseVariableDecl()
}

func (p *Parser) parseVariableDecl() (ast.Statement, *report.Error) {
	typeTok := p.advance()
	zero, ok := p.scope.FindType(typeTok.Literal)
	if !ok {
		return nil, report.New(report.ParseError, typeTok, "unknown type '%s'", typeTok.Literal)
	}
	nameTok, err := p.mustMatch(token.IDENT)
	if err != nil {
		return nil, err
	}
	if token.IsKeyword(nameTok.Literal) {
		return nil, report.New(report.ParseError, nameTok,
			"'%s' cannot be used as a variable name", nameTok.Literal)
	}
	decl := &ast.VariableDecl{Token: typeTok, TypeName: typeTok.Literal, Name: nameTok.Literal}

	// Registered now so the rest of the parse can resolve the name.
	p.scope.Declare(nameTok.Literal, zero.Copy())

	if _, ok := p.match(token.ASSIGN); ok {
		init, err := p.buildExpression(token.SEMICOLON)
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.mustMatch(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseFunctionDecl registers the function before parsing its body, which
// is what makes recursion work.
func (p *Parser) parseFunctionDecl() *report.Error {
	retTok := p.advance()
	nameTok := p.advance()
	if _, err := p.mustMatch(token.LPAREN); err != nil {
		return err
	}

	fnScope := object.NewScope(p.scope)
	sig := signature.NamedSignature{}
	for p.peek().Type != token.RPAREN {
		paramType, err := p.mustMatch(token.IDENT)
		if err != nil {
			return err
		}
		zero, ok := p.scope.FindType(paramType.Literal)
		if !ok {
			return report.New(report.ParseError, paramType, "unknown type '%s'", paramType.Literal)
		}
		paramName, err := p.mustMatch(token.IDENT)
		if err != nil {
			return err
		}
		if sig.NameSet().Contains(paramName.Literal) {
			return report.New(report.ParseError, paramName,
				"duplicate parameter name '%s'", paramName.Literal)
		}
		sig = append(sig, signature.NameTypePair{VarName: paramName.Literal, VarType: paramType.Literal})
		fnScope.Declare(paramName.Literal, zero.Copy())
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.mustMatch(token.RPAREN); err != nil {
		return err
	}

	fn := &ast.InternalFunction{
		Token:      nameTok,
		Name:       nameTok.Literal,
		Sig:        sig,
		ReturnType: retTok.Literal,
		Env:        p.scope,
	}
	p.scope.Functions[nameTok.Literal] = fn

	body, err := p.parseBlock(fnScope)
	if err != nil {
		return err
	}
	fn.Body = body
	return nil
}

// parseStructDecl reads 'struct Name { members and methods };'. The member
// variable declarations are pre-scanned and seeded into the struct's scope
// first, so that a method body may use a member declared after it.
func (p *Parser) parseStructDecl() *report.Error {
	p.advance() // the struct keyword
	nameTok, err := p.mustMatch(token.IDENT)
	if err != nil {
		return err
	}
	if _, err := p.mustMatch(token.LBRACE); err != nil {
		return err
	}

	structScope := object.NewScope(p.scope)
	if err := p.prescanMembers(structScope); err != nil {
		return err
	}

	fields := []string{}
	members := make(map[string]object.Object)
	methods := make(map[string]object.Function)
	internals := []*ast.InternalFunction{}

	p.pushScope(structScope)
	for p.peek().Type != token.RBRACE {
		if p.peek().Type == token.EOF {
			p.popScope()
			return report.New(report.ParseError, p.peek(), "expected '}'")
		}
		leading := p.peek()
		zero, isType := structScope.FindType(leading.Literal)
		if leading.Type != token.IDENT || !isType || p.peekAt(1).Type != token.IDENT {
			p.popScope()
			return report.New(report.ParseError, leading,
				"expected a member or method declaration")
		}
		if p.peekAt(2).Type == token.LPAREN {
			if err := p.parseFunctionDecl(); err != nil {
				p.popScope()
				return err
			}
			continue
		}
		p.advance()
		memberTok := p.advance()
		if _, ok := members[memberTok.Literal]; ok {
			p.popScope()
			return report.New(report.ParseError, memberTok,
				"duplicate member name '%s'", memberTok.Literal)
		}
		if _, err := p.mustMatch(token.SEMICOLON); err != nil {
			p.popScope()
			return err
		}
		fields = append(fields, memberTok.Literal)
		members[memberTok.Literal] = zero.Copy()
	}
	p.advance() // the closing brace
	p.popScope()
	if _, err := p.mustMatch(token.SEMICOLON); err != nil {
		return err
	}

	for name, fn := range structScope.Functions {
		internal, ok := fn.(*ast.InternalFunction)
		if !ok {
			continue
		}
		methods[name] = internal
		internals = append(internals, internal)
	}
	for _, fn := range internals {
		fn.Members = fields
	}

	p.scope.Types[nameTok.Literal] = &object.Struct{
		Name: nameTok.Literal, Fields: fields, Members: members, Methods: methods}
	return nil
}

// prescanMembers walks the struct body without consuming it, declaring a
// zero for each 'Type name ;' pair found at member depth.
func (p *Parser) prescanMembers(structScope *object.Scope) *report.Error {
	depth := 1
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				return nil
			}
		case token.IDENT:
			if depth != 1 {
				continue
			}
			zero, isType := structScope.FindType(p.tokens[i].Literal)
			if !isType {
				continue
			}
			if p.peekTokenAt(i+1) == token.IDENT && p.peekTokenAt(i+2) == token.SEMICOLON {
				structScope.Declare(p.tokens[i+1].Literal, zero.Copy())
				i += 2
			}
		}
	}
	return report.New(report.ParseError, p.peek(), "expected '}'")
}

func (p *Parser) peekTokenAt(i int) token.TokenType {
	if i >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[i].Type
}
