package ast

// An Expression starts life as the flat ordered list of operands the
// parser read, then collapses itself into a tree: every operand carries a
// precedence (lifted by bracket depth at parse time), and from the highest
// precedence down each operand absorbs its neighbours and tells the list
// which indices to drop. One operand is left; that is the root.

import (
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

const (
	PrecAssign = iota
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
	PrecPrefix
	PrecPostfix
	PrecAccess
	PrecLeaf

	// LiftStep is what one level of parenthesis nesting adds to an
	// operand's precedence; it exceeds PrecLeaf so lifted levels never
	// interleave with unlifted ones.
	LiftStep = 10
)

type Operand interface {
	GetToken() token.Token
	Precedence() int
	SetPrecedence(int)
	Collapse(operands []Operand, index int) ([]int, *report.Error)
	Evaluate(sc *object.Scope) (object.Object, *report.Error)
}

// An assignable operand can hand out the live object it names, and store
// into it. Assignment targets, ++/-- operands, and method-call receivers
// must be assignable.
type assignable interface {
	Operand
	Original(sc *object.Scope) (object.Object, *report.Error)
	AssignTo(sc *object.Scope, val object.Object) (object.Object, *report.Error)
}

type Expression struct {
	Token    token.Token
	Operands []Operand
}

// Collapse runs the precedence passes. The assignment level scans right
// to left so that the family associates rightward; every other level
// breaks ties left to right.
func (e *Expression) Collapse() *report.Error {
	highest := 0
	for _, op := range e.Operands {
		if op.Precedence() > highest {
			highest = op.Precedence()
		}
	}
	for prec := highest; prec >= 0; prec-- {
		if prec%LiftStep == PrecAssign {
			for i := len(e.Operands) - 1; i >= 0; i-- {
				if e.Operands[i].Precedence() != prec {
					continue
				}
				if err := e.collapseAt(&i); err != nil {
					return err
				}
			}
			continue
		}
		for i := 0; i < len(e.Operands); i++ {
			if e.Operands[i].Precedence() != prec {
				continue
			}
			if err := e.collapseAt(&i); err != nil {
				return err
			}
		}
	}
	if len(e.Operands) != 1 {
		return report.New(report.ParseError, e.Token, "malformed expression")
	}
	return nil
}

func (e *Expression) collapseAt(i *int) *report.Error {
	removed, err := e.Operands[*i].Collapse(e.Operands, *i)
	if err != nil {
		return err
	}
	// Delete from the right so earlier indices stay valid.
	for j := len(removed) - 1; j >= 0; j-- {
		idx := removed[j]
		e.Operands = append(e.Operands[:idx], e.Operands[idx+1:]...)
		if idx <= *i {
			*i--
		}
	}
	return nil
}

func (e *Expression) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	if len(e.Operands) == 0 {
		return &object.Void{}, nil
	}
	return e.Operands[0].Evaluate(sc)
}

// leaf carries the shared precedence bookkeeping for operands that absorb
// nothing.
type leaf struct {
	prec int
}

func (l *leaf) Precedence() int     { return l.prec }
func (l *leaf) SetPrecedence(p int) { l.prec = p }
func (l *leaf) Collapse([]Operand, int) ([]int, *report.Error) {
	return nil, nil
}

func newLeaf() leaf { return leaf{prec: PrecLeaf} }

type NumberLiteral struct {
	leaf
	Token token.Token
	Value object.Object
}

func NewNumberLiteral(tok token.Token, value object.Object) *NumberLiteral {
	return &NumberLiteral{leaf: newLeaf(), Token: tok, Value: value}
}

func (n *NumberLiteral) GetToken() token.Token { return n.Token }
func (n *NumberLiteral) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	return n.Value.Copy(), nil
}

type StringLiteral struct {
	leaf
	Token token.Token
	Value string
}

func NewStringLiteral(tok token.Token) *StringLiteral {
	return &StringLiteral{leaf: newLeaf(), Token: tok, Value: tok.Literal}
}

func (s *StringLiteral) GetToken() token.Token { return s.Token }
func (s *StringLiteral) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	return &object.String{Value: s.Value}, nil
}

type CharLiteral struct {
	leaf
	Token token.Token
	Value rune
}

func NewCharLiteral(tok token.Token, value rune) *CharLiteral {
	return &CharLiteral{leaf: newLeaf(), Token: tok, Value: value}
}

func (c *CharLiteral) GetToken() token.Token { return c.Token }
func (c *CharLiteral) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	return &object.Char{Value: c.Value}, nil
}

type BoolLiteral struct {
	leaf
	Token token.Token
	Value bool
}

func NewBoolLiteral(tok token.Token, value bool) *BoolLiteral {
	return &BoolLiteral{leaf: newLeaf(), Token: tok, Value: value}
}

func (b *BoolLiteral) GetToken() token.Token { return b.Token }
func (b *BoolLiteral) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	return &object.Bool{Value: b.Value}, nil
}

// VariableOp evaluates to a copy of the bound object; Original hands out
// the binding itself for assignment and dispatch.
type VariableOp struct {
	leaf
	Token token.Token
	Name  string
}

func NewVariableOp(tok token.Token) *VariableOp {
	return &VariableOp{leaf: newLeaf(), Token: tok, Name: tok.Literal}
}

func (v *VariableOp) GetToken() token.Token { return v.Token }

func (v *VariableOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	val, ok := sc.GetVariable(v.Name)
	if !ok {
		return nil, report.New(report.NameError, v.Token, "variable '%s' is not declared", v.Name)
	}
	return val.Copy(), nil
}

func (v *VariableOp) Original(sc *object.Scope) (object.Object, *report.Error) {
	val, ok := sc.GetVariable(v.Name)
	if !ok {
		return nil, report.New(report.NameError, v.Token, "variable '%s' is not declared", v.Name)
	}
	return val, nil
}

func (v *VariableOp) AssignTo(sc *object.Scope, val object.Object) (object.Object, *report.Error) {
	current, ok := sc.GetVariable(v.Name)
	if !ok {
		return nil, report.New(report.NameError, v.Token, "variable '%s' is not declared", v.Name)
	}
	if current.TypeName() != val.TypeName() {
		return nil, report.New(report.TypeError, v.Token,
			"cannot assign %s to variable '%s' of type %s",
			object.EmphType(val), v.Name, object.EmphType(current))
	}
	stored := val.Copy()
	sc.UpdateVariable(v.Name, stored)
	return stored, nil
}

// MemberOp is the identifier to the right of a dot. It only ever exists
// to be absorbed by a MemberAccessOp.
type MemberOp struct {
	Token token.Token
	Name  string
}

func (m *MemberOp) GetToken() token.Token { return m.Token }
func (m *MemberOp) Precedence() int       { return PrecLeaf }
func (m *MemberOp) SetPrecedence(int)     {}
func (m *MemberOp) Collapse([]Operand, int) ([]int, *report.Error) {
	return nil, nil
}
func (m *MemberOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	return nil, report.New(report.ParseError, m.Token, "member name used as a value")
}

type MemberAccessOp struct {
	Token  token.Token
	prec   int
	Target Operand
	Member string
}

func NewMemberAccessOp(tok token.Token) *MemberAccessOp {
	return &MemberAccessOp{Token: tok, prec: PrecAccess}
}

func (ma *MemberAccessOp) GetToken() token.Token { return ma.Token }
func (ma *MemberAccessOp) Precedence() int       { return ma.prec }
func (ma *MemberAccessOp) SetPrecedence(p int)   { ma.prec = p }

func (ma *MemberAccessOp) Collapse(operands []Operand, index int) ([]int, *report.Error) {
	if index == 0 || index+1 >= len(operands) {
		return nil, report.New(report.ParseError, ma.Token, "'.' is missing an operand")
	}
	member, ok := operands[index+1].(*MemberOp)
	if !ok {
		return nil, report.New(report.ParseError, operands[index+1].GetToken(),
			"expected a member name after '.'")
	}
	ma.Target = operands[index-1]
	ma.Member = member.Name
	return []int{index - 1, index + 1}, nil
}

func (ma *MemberAccessOp) receiver(sc *object.Scope) (object.Object, *report.Error) {
	if target, ok := ma.Target.(assignable); ok {
		return target.Original(sc)
	}
	return ma.Target.Evaluate(sc)
}

func (ma *MemberAccessOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	recv, err := ma.receiver(sc)
	if err != nil {
		return nil, err
	}
	val, err := memberOf(recv, ma.Member, ma.Token)
	if err != nil {
		return nil, err
	}
	return val.Copy(), nil
}

func (ma *MemberAccessOp) Original(sc *object.Scope) (object.Object, *report.Error) {
	recv, err := ma.receiver(sc)
	if err != nil {
		return nil, err
	}
	return memberOf(recv, ma.Member, ma.Token)
}

func (ma *MemberAccessOp) AssignTo(sc *object.Scope, val object.Object) (object.Object, *report.Error) {
	recv, err := ma.receiver(sc)
	if err != nil {
		return nil, err
	}
	switch recv := recv.(type) {
	case *object.Struct:
		if err := recv.SetMember(ma.Member, val, ma.Token); err != nil {
			return nil, err
		}
		return recv.Members[ma.Member], nil
	case *object.Host:
		if err := recv.SetMember(ma.Member, val, ma.Token); err != nil {
			return nil, err
		}
		return val, nil
	}
	return nil, report.New(report.TypeError, ma.Token,
		"type %s has no members", object.EmphType(recv))
}

func memberOf(recv object.Object, name string, tok token.Token) (object.Object, *report.Error) {
	switch recv := recv.(type) {
	case *object.Struct:
		return recv.Member(name, tok)
	case *object.Host:
		return recv.Member(name, tok)
	}
	return nil, report.New(report.TypeError, tok,
		"type %s has no members", object.EmphType(recv))
}

// IndexOp wraps an already-parsed target: the parser sub-parses the
// bracketed expression rather than depth-lifting it into the flat list.
type IndexOp struct {
	leaf
	Token  token.Token
	Target Operand
	Index  *Expression
}

func NewIndexOp(tok token.Token, target Operand, index *Expression) *IndexOp {
	return &IndexOp{leaf: newLeaf(), Token: tok, Target: target, Index: index}
}

func (ix *IndexOp) GetToken() token.Token { return ix.Token }

func (ix *IndexOp) receiver(sc *object.Scope) (object.Object, *report.Error) {
	if target, ok := ix.Target.(assignable); ok {
		return target.Original(sc)
	}
	return ix.Target.Evaluate(sc)
}

func (ix *IndexOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	recv, err := ix.receiver(sc)
	if err != nil {
		return nil, err
	}
	host, ok := recv.(*object.Host)
	if !ok {
		return nil, report.New(report.TypeError, ix.Token,
			"type %s does not have operator '[]'", object.EmphType(recv))
	}
	index, err := ix.Index.Evaluate(sc)
	if err != nil {
		return nil, err
	}
	return host.Index(index, ix.Token)
}

func (ix *IndexOp) Original(sc *object.Scope) (object.Object, *report.Error) {
	return ix.Evaluate(sc)
}

func (ix *IndexOp) AssignTo(sc *object.Scope, val object.Object) (object.Object, *report.Error) {
	recv, err := ix.receiver(sc)
	if err != nil {
		return nil, err
	}
	host, ok := recv.(*object.Host)
	if !ok {
		return nil, report.New(report.TypeError, ix.Token,
			"type %s does not have operator '[]'", object.EmphType(recv))
	}
	index, err := ix.Index.Evaluate(sc)
	if err != nil {
		return nil, err
	}
	if err := host.SetIndex(index, val, ix.Token); err != nil {
		return nil, err
	}
	return val, nil
}

// FunctionCall looks its function up in the scope chain at evaluation
// time and applies it to the evaluated arguments.
type FunctionCall struct {
	leaf
	Token token.Token
	Name  string
	Args  []*Expression
}

func NewFunctionCall(tok token.Token, name string, args []*Expression) *FunctionCall {
	return &FunctionCall{leaf: newLeaf(), Token: tok, Name: name, Args: args}
}

func (fc *FunctionCall) GetToken() token.Token { return fc.Token }

func (fc *FunctionCall) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	fn, ok := sc.FindFunction(fc.Name)
	if !ok {
		return nil, report.New(report.NameError, fc.Token, "function '%s' is not declared", fc.Name)
	}
	args, err := evalArgs(sc, fc.Args, fc.Token)
	if err != nil {
		return nil, err
	}
	return Apply(fn, args, fc.Token)
}

// MemberFunctionCall dispatches on the receiver's method table.
type MemberFunctionCall struct {
	leaf
	Token  token.Token
	Target Operand
	Name   string
	Args   []*Expression
}

func NewMemberFunctionCall(tok token.Token, target Operand, name string, args []*Expression) *MemberFunctionCall {
	return &MemberFunctionCall{leaf: newLeaf(), Token: tok, Target: target, Name: name, Args: args}
}

func (mc *MemberFunctionCall) GetToken() token.Token { return mc.Token }

func (mc *MemberFunctionCall) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	target, ok := mc.Target.(assignable)
	if !ok {
		return nil, report.New(report.TypeError, mc.Token,
			"method call wants a variable as its receiver")
	}
	recv, err := target.Original(sc)
	if err != nil {
		return nil, err
	}
	args, err := evalArgs(sc, mc.Args, mc.Token)
	if err != nil {
		return nil, err
	}
	switch recv := recv.(type) {
	case *object.Struct:
		fn, ok := recv.Methods[mc.Name]
		if !ok {
			return nil, report.New(report.TypeError, mc.Token,
				"type %s has no method '%s'", object.EmphType(recv), mc.Name)
		}
		method, ok := fn.(*InternalFunction)
		if !ok {
			return nil, report.New(report.RuntimeError, mc.Token, "uncallable method value")
		}
		return method.CallMethod(recv, args, mc.Token)
	case *object.Host:
		method, ok := recv.Binding.Methods[mc.Name]
		if !ok {
			return nil, report.New(report.TypeError, mc.Token,
				"type %s has no method '%s'", object.EmphType(recv), mc.Name)
		}
		return method.Invoke(append([]object.Object{recv}, args...), mc.Token)
	}
	return nil, report.New(report.TypeError, mc.Token,
		"type %s has no methods", object.EmphType(recv))
}

// ConstructorCall either copies the type's zero object (no arguments) or
// dispatches on the host type's constructor overloads.
type ConstructorCall struct {
	leaf
	Token    token.Token
	TypeName string
	Args     []*Expression
}

func NewConstructorCall(tok token.Token, typeName string, args []*Expression) *ConstructorCall {
	return &ConstructorCall{leaf: newLeaf(), Token: tok, TypeName: typeName, Args: args}
}

func (cc *ConstructorCall) GetToken() token.Token { return cc.Token }

func (cc *ConstructorCall) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	zero, ok := sc.FindType(cc.TypeName)
	if !ok {
		return nil, report.New(report.NameError, cc.Token, "unknown type '%s'", cc.TypeName)
	}
	args, err := evalArgs(sc, cc.Args, cc.Token)
	if err != nil {
		return nil, err
	}
	if host, ok := zero.(*object.Host); ok {
		return host.Binding.Construct(args, cc.Token)
	}
	if len(args) == 0 {
		return zero.Copy(), nil
	}
	return nil, report.New(report.TypeError, cc.Token,
		"type <%s> has no constructors", cc.TypeName)
}

func evalArgs(sc *object.Scope, exprs []*Expression, tok token.Token) ([]object.Object, *report.Error) {
	args := make([]object.Object, 0, len(exprs))
	for _, expr := range exprs {
		val, err := expr.Evaluate(sc)
		if err != nil {
			return nil, err
		}
		if _, isVoid := val.(*object.Void); isVoid {
			return nil, report.New(report.TypeError, tok,
				"void cannot be passed as an argument")
		}
		args = append(args, val)
	}
	return args, nil
}

// BinaryOp covers the arithmetic, relational, and equality operators; one
// node per operator, distinguished by its lexeme.
type BinaryOp struct {
	Token token.Token
	Op    string
	prec  int
	Left  Operand
	Right Operand
}

func NewBinaryOp(tok token.Token, prec int) *BinaryOp {
	return &BinaryOp{Token: tok, Op: tok.Literal, prec: prec}
}

func (b *BinaryOp) GetToken() token.Token { return b.Token }
func (b *BinaryOp) Precedence() int       { return b.prec }
func (b *BinaryOp) SetPrecedence(p int)   { b.prec = p }

func (b *BinaryOp) Collapse(operands []Operand, index int) ([]int, *report.Error) {
	if index == 0 {
		return nil, report.New(report.ParseError, b.Token, "'%s' is missing its left operand", b.Op)
	}
	if index+1 >= len(operands) {
		return nil, report.New(report.ParseError, b.Token, "'%s' is missing its right operand", b.Op)
	}
	b.Left = operands[index-1]
	b.Right = operands[index+1]
	return []int{index - 1, index + 1}, nil
}

func (b *BinaryOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	left, err := b.Left.Evaluate(sc)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.Evaluate(sc)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case "+":
		return object.Add(left, right, b.Token)
	case "-":
		return object.Sub(left, right, b.Token)
	case "*":
		return object.Mul(left, right, b.Token)
	case "/":
		return object.Div(left, right, b.Token)
	case "<", "<=", ">", ">=":
		return object.Compare(b.Op, left, right, b.Token)
	case "==":
		eq, err := object.Equals(left, right, b.Token)
		if err != nil {
			return nil, err
		}
		return &object.Bool{Value: eq}, nil
	case "!=":
		eq, err := object.Equals(left, right, b.Token)
		if err != nil {
			return nil, err
		}
		return &object.Bool{Value: !eq}, nil
	}
	return nil, report.New(report.ParseError, b.Token, "unknown operator '%s'", b.Op)
}

// PrefixOp is unary minus, logical not, and pre-increment/decrement.
type PrefixOp struct {
	Token   token.Token
	Op      string
	prec    int
	Operand Operand
}

func NewPrefixOp(tok token.Token) *PrefixOp {
	return &PrefixOp{Token: tok, Op: tok.Literal, prec: PrecPrefix}
}

func (p *PrefixOp) GetToken() token.Token { return p.Token }
func (p *PrefixOp) Precedence() int       { return p.prec }
func (p *PrefixOp) SetPrecedence(pr int)  { p.prec = pr }

func (p *PrefixOp) Collapse(operands []Operand, index int) ([]int, *report.Error) {
	if index+1 >= len(operands) {
		return nil, report.New(report.ParseError, p.Token, "'%s' is missing its operand", p.Op)
	}
	p.Operand = operands[index+1]
	return []int{index + 1}, nil
}

func (p *PrefixOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	switch p.Op {
	case "-":
		val, err := p.Operand.Evaluate(sc)
		if err != nil {
			return nil, err
		}
		return object.Negate(val, p.Token)
	case "!":
		val, err := p.Operand.Evaluate(sc)
		if err != nil {
			return nil, err
		}
		return object.Not(val, p.Token)
	case "++", "--":
		target, ok := p.Operand.(assignable)
		if !ok {
			return nil, report.New(report.TypeError, p.Token,
				"'%s' wants a variable as its operand", p.Op)
		}
		orig, err := target.Original(sc)
		if err != nil {
			return nil, err
		}
		delta := int64(1)
		if p.Op == "--" {
			delta = -1
		}
		next, err := object.Increment(orig, delta, p.Token)
		if err != nil {
			return nil, err
		}
		return target.AssignTo(sc, next)
	}
	return nil, report.New(report.ParseError, p.Token, "unknown operator '%s'", p.Op)
}

// PostfixOp is post-increment/decrement: the operand's old value is the
// result.
type PostfixOp struct {
	Token   token.Token
	Op      string
	prec    int
	Operand Operand
}

func NewPostfixOp(tok token.Token) *PostfixOp {
	return &PostfixOp{Token: tok, Op: tok.Literal, prec: PrecPostfix}
}

func (p *PostfixOp) GetToken() token.Token { return p.Token }
func (p *PostfixOp) Precedence() int       { return p.prec }
func (p *PostfixOp) SetPrecedence(pr int)  { p.prec = pr }

func (p *PostfixOp) Collapse(operands []Operand, index int) ([]int, *report.Error) {
	if index == 0 {
		return nil, report.New(report.ParseError, p.Token, "'%s' is missing its operand", p.Op)
	}
	p.Operand = operands[index-1]
	return []int{index - 1}, nil
}

func (p *PostfixOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	target, ok := p.Operand.(assignable)
	if !ok {
		return nil, report.New(report.TypeError, p.Token,
			"'%s' wants a variable as its operand", p.Op)
	}
	orig, err := target.Original(sc)
	if err != nil {
		return nil, err
	}
	old := orig.Copy()
	delta := int64(1)
	if p.Op == "--" {
		delta = -1
	}
	next, err := object.Increment(orig, delta, p.Token)
	if err != nil {
		return nil, err
	}
	if _, err := target.AssignTo(sc, next); err != nil {
		return nil, err
	}
	return old, nil
}

// AssignOp is the assignment family. The compound forms evaluate the
// target once, combine, and store.
type AssignOp struct {
	Token  token.Token
	Op     string
	prec   int
	Target assignable
	Value  Operand
}

func NewAssignOp(tok token.Token) *AssignOp {
	return &AssignOp{Token: tok, Op: tok.Literal, prec: PrecAssign}
}

func (a *AssignOp) GetToken() token.Token { return a.Token }
func (a *AssignOp) Precedence() int       { return a.prec }
func (a *AssignOp) SetPrecedence(p int)   { a.prec = p }

func (a *AssignOp) Collapse(operands []Operand, index int) ([]int, *report.Error) {
	if index == 0 {
		return nil, report.New(report.ParseError, a.Token, "'%s' is missing its left operand", a.Op)
	}
	if index+1 >= len(operands) {
		return nil, report.New(report.ParseError, a.Token, "'%s' is missing its right operand", a.Op)
	}
	target, ok := operands[index-1].(assignable)
	if !ok {
		return nil, report.New(report.ParseError, operands[index-1].GetToken(),
			"cannot assign to this expression")
	}
	a.Target = target
	a.Value = operands[index+1]
	return []int{index - 1, index + 1}, nil
}

func (a *AssignOp) Evaluate(sc *object.Scope) (object.Object, *report.Error) {
	val, err := a.Value.Evaluate(sc)
	if err != nil {
		return nil, err
	}
	if a.Op == "=" {
		return a.Target.AssignTo(sc, val)
	}
	orig, err := a.Target.Original(sc)
	if err != nil {
		return nil, err
	}
	var combined object.Object
	var opErr *report.Error
	switch a.Op {
	case "+=":
		combined, opErr = object.Add(orig, val, a.Token)
	case "-=":
		combined, opErr = object.Sub(orig, val, a.Token)
	case "*=":
		combined, opErr = object.Mul(orig, val, a.Token)
	case "/=":
		combined, opErr = object.Div(orig, val, a.Token)
	default:
		return nil, report.New(report.ParseError, a.Token, "unknown operator '%s'", a.Op)
	}
	if opErr != nil {
		return nil, opErr
	}
	return a.Target.AssignTo(sc, combined)
}
