package parser

// Expression parsing: tokens are converted into operand nodes and pushed
// into a flat list until a terminator is seen at depth zero. Parentheses
// are not stored; instead each operand's precedence is lifted by the
// bracket depth it sits at, which is what makes the later collapse
// respect grouping. Square brackets are sub-parsed into an index operand
// on the spot.

import (
	"github.com/h-merrill/minnow/ast"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

const exprTerminators = token.SEMICOLON | token.COMMA | token.RPAREN |
	token.RBRACK | token.RBRACE | token.EOF

// buildExpression reads operands until one of the stop types appears at
// depth zero, leaving the terminator unconsumed, then collapses the list.
func (p *Parser) buildExpression(stop token.TokenType) (*ast.Expression, *report.Error) {
	expr := &ast.Expression{Token: p.peek()}
	depth := 0
	var prev token.Token

	push := func(op ast.Operand) {
		op.SetPrecedence(op.Precedence() + depth*ast.LiftStep)
		expr.Operands = append(expr.Operands, op)
	}

	for {
		tok := p.peek()
		if tok.Type&(stop|exprTerminators) != 0 && depth == 0 {
			if tok.Type&stop == 0 {
				return nil, report.New(report.ParseError, tok,
					"expected %s, found %s", token.Describe(stop), describe(tok))
			}
			break
		}

		switch tok.Type {
		case token.LPAREN:
			p.advance()
			depth++
		case token.RPAREN:
			p.advance()
			depth--
		case token.NUMBER:
			p.advance()
			push(ast.NewNumberLiteral(tok, numberObject(tok)))
		case token.STRING:
			p.advance()
			push(ast.NewStringLiteral(tok))
		case token.CHAR:
			p.advance()
			push(ast.NewCharLiteral(tok, firstRune(tok.Literal)))
		case token.IDENT:
			if err := p.pushIdentOperand(tok, prev, push, &expr.Operands); err != nil {
				return nil, err
			}
		case token.PLUS, token.STAR, token.SLASH:
			p.advance()
			push(ast.NewBinaryOp(tok, binaryPrec(tok.Type)))
		case token.MINUS:
			p.advance()
			if isOperandEnd(prev) {
				push(ast.NewBinaryOp(tok, ast.PrecAdditive))
			} else {
				push(ast.NewPrefixOp(tok))
			}
		case token.LT, token.LT_EQ, token.GT, token.GT_EQ:
			p.advance()
			push(ast.NewBinaryOp(tok, ast.PrecRelational))
		case token.EQ, token.NOT_EQ:
			p.advance()
			push(ast.NewBinaryOp(tok, ast.PrecEquality))
		case token.BANG:
			p.advance()
			push(ast.NewPrefixOp(tok))
		case token.INCREMENT, token.DECREMENT:
			p.advance()
			if isOperandEnd(prev) {
				push(ast.NewPostfixOp(tok))
			} else {
				push(ast.NewPrefixOp(tok))
			}
		case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
			token.STAR_ASSIGN, token.SLASH_ASSIGN:
			p.advance()
			push(ast.NewAssignOp(tok))
		case token.DOT:
			p.advance()
			push(ast.NewMemberAccessOp(tok))
		case token.LBRACK:
			p.advance()
			if len(expr.Operands) == 0 {
				return nil, report.New(report.ParseError, tok, "'[' is missing its operand")
			}
			target := expr.Operands[len(expr.Operands)-1]
			expr.Operands = expr.Operands[:len(expr.Operands)-1]
			index, err := p.buildExpression(token.RBRACK)
			if err != nil {
				return nil, err
			}
			if _, err := p.mustMatch(token.RBRACK); err != nil {
				return nil, err
			}
			ix := ast.NewIndexOp(tok, target, index)
			ix.SetPrecedence(target.Precedence())
			expr.Operands = append(expr.Operands, ix)
			tok.Type = token.RBRACK // so that a following ++/-- reads as postfix
		default:
			return nil, report.New(report.ParseError, tok, "unexpected %s", describe(tok))
		}
		prev = tok
	}

	if err := expr.Collapse(); err != nil {
		return nil, err
	}
	return expr, nil
}

// pushIdentOperand sorts an identifier into boolean literal, member name,
// method call, constructor call, function call, or plain variable.
func (p *Parser) pushIdentOperand(tok, prev token.Token, push func(ast.Operand),
	operands *[]ast.Operand) *report.Error {
	p.advance()

	if tok.Literal == "true" || tok.Literal == "false" {
		push(ast.NewBoolLiteral(tok, tok.Literal == "true"))
		return nil
	}

	if prev.Type == token.DOT {
		if p.peek().Type != token.LPAREN {
			push(&ast.MemberOp{Token: tok, Name: tok.Literal})
			return nil
		}
		// A method call: take back the access operand and its receiver.
		if len(*operands) < 2 {
			return report.New(report.ParseError, tok, "method call is missing its receiver")
		}
		recv := (*operands)[len(*operands)-2]
		if _, isMember := recv.(*ast.MemberOp); isMember {
			return report.New(report.ParseError, tok,
				"chained method receivers are not supported")
		}
		*operands = (*operands)[:len(*operands)-2]
		args, err := p.parseCallArgs()
		if err != nil {
			return err
		}
		push(ast.NewMemberFunctionCall(tok, recv, tok.Literal, args))
		return nil
	}

	if p.peek().Type == token.LPAREN {
		if _, isType := p.scope.FindType(tok.Literal); isType {
			args, err := p.parseCallArgs()
			if err != nil {
				return err
			}
			push(ast.NewConstructorCall(tok, tok.Literal, args))
			return nil
		}
		if _, ok := p.scope.FindFunction(tok.Literal); !ok {
			return report.New(report.NameError, tok, "function '%s' is not declared", tok.Literal)
		}
		args, err := p.parseCallArgs()
		if err != nil {
			return err
		}
		push(ast.NewFunctionCall(tok, tok.Literal, args))
		return nil
	}

	if _, ok := p.scope.GetVariable(tok.Literal); !ok {
		if _, isType := p.scope.FindType(tok.Literal); isType {
			return report.New(report.ParseError, tok,
				"expected '(' after type '%s'", tok.Literal)
		}
		return report.New(report.NameError, tok, "variable '%s' is not declared", tok.Literal)
	}
	push(ast.NewVariableOp(tok))
	return nil
}

// parseCallArgs reads '(' expr, expr, ... ')'.
func (p *Parser) parseCallArgs() ([]*ast.Expression, *report.Error) {
	if _, err := p.mustMatch(token.LPAREN); err != nil {
		return nil, err
	}
	args := []*ast.Expression{}
	if p.peek().Type == token.RPAREN {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.buildExpression(token.COMMA | token.RPAREN)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if _, ok := p.match(token.COMMA); ok {
			continue
		}
		if _, err := p.mustMatch(token.RPAREN); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func binaryPrec(t token.TokenType) int {
	if t == token.STAR || t == token.SLASH {
		return ast.PrecMultiplicative
	}
	return ast.PrecAdditive
}

// isOperandEnd says whether the previous token could end an operand, which
// is how '-' and '++'/'--' are told apart as prefix or infix/postfix.
func isOperandEnd(prev token.Token) bool {
	switch prev.Type {
	case token.NUMBER, token.IDENT, token.STRING, token.CHAR,
		token.RPAREN, token.RBRACK:
		return true
	}
	return false
}
