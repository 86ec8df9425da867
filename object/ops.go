package object

// Operator dispatch over primitives. Numeric operators dispatch on the
// host type identity of the left operand; a numeric right operand of a
// different kind is coerced to the left's kind first, so arithmetic always
// happens at one width and the result carries the left operand's type.

import (
	"github.com/h-merrill/minnow/report"
	"github.com/h-merrill/minnow/token"
)

func coerceRight(l, r Object) (Object, bool) {
	if l.TypeName() == r.TypeName() {
		return r, true
	}
	if IsNumeric(l) && IsNumeric(r) {
		return Convert(r, l.TypeName())
	}
	return nil, false
}

func Add(l, r Object, tok token.Token) (Object, *report.Error) {
	if ls, ok := l.(*String); ok {
		if rs, ok := r.(*String); ok {
			return &String{Value: ls.Value + rs.Value}, nil
		}
		return nil, report.New(report.TypeError, tok,
			"cannot add %s to %s", EmphType(r), EmphType(l))
	}
	rc, ok := coerceRight(l, r)
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"cannot add %s to %s", EmphType(r), EmphType(l))
	}
	switch lv := l.(type) {
	case *Int:
		return &Int{Kind: lv.Kind, Value: truncate(lv.Kind, lv.Value+rc.(*Int).Value)}, nil
	case *Float:
		return narrowed(lv.Kind, lv.Value+rc.(*Float).Value), nil
	}
	return nil, report.New(report.TypeError, tok,
		"type %s does not have operator '+'", EmphType(l))
}

func Sub(l, r Object, tok token.Token) (Object, *report.Error) {
	rc, ok := coerceRight(l, r)
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"cannot subtract %s from %s", EmphType(r), EmphType(l))
	}
	switch lv := l.(type) {
	case *Int:
		return &Int{Kind: lv.Kind, Value: truncate(lv.Kind, lv.Value-rc.(*Int).Value)}, nil
	case *Float:
		return narrowed(lv.Kind, lv.Value-rc.(*Float).Value), nil
	}
	return nil, report.New(report.TypeError, tok,
		"type %s does not have operator '-'", EmphType(l))
}

func Mul(l, r Object, tok token.Token) (Object, *report.Error) {
	rc, ok := coerceRight(l, r)
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"cannot multiply %s by %s", EmphType(l), EmphType(r))
	}
	switch lv := l.(type) {
	case *Int:
		return &Int{Kind: lv.Kind, Value: truncate(lv.Kind, lv.Value*rc.(*Int).Value)}, nil
	case *Float:
		return narrowed(lv.Kind, lv.Value*rc.(*Float).Value), nil
	}
	return nil, report.New(report.TypeError, tok,
		"type %s does not have operator '*'", EmphType(l))
}

func Div(l, r Object, tok token.Token) (Object, *report.Error) {
	rc, ok := coerceRight(l, r)
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"cannot divide %s by %s", EmphType(l), EmphType(r))
	}
	switch lv := l.(type) {
	case *Int:
		if rc.(*Int).Value == 0 {
			return nil, report.New(report.RuntimeError, tok, "division by zero")
		}
		return &Int{Kind: lv.Kind, Value: truncate(lv.Kind, lv.Value/rc.(*Int).Value)}, nil
	case *Float:
		return narrowed(lv.Kind, lv.Value/rc.(*Float).Value), nil
	}
	return nil, report.New(report.TypeError, tok,
		"type %s does not have operator '/'", EmphType(l))
}

func narrowed(kind FloatKind, v float64) *Float {
	if kind == F32 {
		v = float64(float32(v))
	}
	return &Float{Kind: kind, Value: v}
}

// Compare handles < <= > >=, which apply to numeric primitives and to
// strings.
func Compare(op string, l, r Object, tok token.Token) (Object, *report.Error) {
	if ls, ok := l.(*String); ok {
		if rs, ok := r.(*String); ok {
			return compared(op, ls.Value < rs.Value, ls.Value == rs.Value), nil
		}
		return nil, report.New(report.TypeError, tok,
			"cannot compare %s with %s", EmphType(l), EmphType(r))
	}
	rc, ok := coerceRight(l, r)
	if !ok {
		return nil, report.New(report.TypeError, tok,
			"cannot compare %s with %s", EmphType(l), EmphType(r))
	}
	switch lv := l.(type) {
	case *Int:
		rv := rc.(*Int)
		return compared(op, lv.Value < rv.Value, lv.Value == rv.Value), nil
	case *Float:
		rv := rc.(*Float)
		return compared(op, lv.Value < rv.Value, lv.Value == rv.Value), nil
	}
	return nil, report.New(report.TypeError, tok,
		"cannot compare %s with %s", EmphType(l), EmphType(r))
}

func compared(op string, less, equal bool) *Bool {
	switch op {
	case "<":
		return &Bool{Value: less}
	case "<=":
		return &Bool{Value: less || equal}
	case ">":
		return &Bool{Value: !less && !equal}
	default:
		return &Bool{Value: !less}
	}
}

// Equals applies to any same-typed primitives; aggregates compare
// member-wise.
func Equals(l, r Object, tok token.Token) (bool, *report.Error) {
	if l.TypeName() != r.TypeName() {
		if IsNumeric(l) && IsNumeric(r) {
			rc, _ := Convert(r, l.TypeName())
			return Equals(l, rc, tok)
		}
		return false, report.New(report.TypeError, tok,
			"cannot compare %s with %s", EmphType(l), EmphType(r))
	}
	switch lv := l.(type) {
	case *Void:
		return true, nil
	case *Bool:
		return lv.Value == r.(*Bool).Value, nil
	case *Char:
		return lv.Value == r.(*Char).Value, nil
	case *Int:
		return lv.Value == r.(*Int).Value, nil
	case *Float:
		return lv.Value == r.(*Float).Value, nil
	case *String:
		return lv.Value == r.(*String).Value, nil
	case *Struct:
		rv := r.(*Struct)
		for _, name := range lv.Fields {
			eq, err := Equals(lv.Members[name], rv.Members[name], tok)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	return false, report.New(report.TypeError, tok,
		"type %s does not have operator '=='", EmphType(l))
}

// Increment adds delta (±1) to a numeric object in place of its slot,
// returning the new value.
func Increment(o Object, delta int64, tok token.Token) (Object, *report.Error) {
	switch v := o.(type) {
	case *Int:
		return &Int{Kind: v.Kind, Value: truncate(v.Kind, v.Value+delta)}, nil
	case *Float:
		return narrowed(v.Kind, v.Value+float64(delta)), nil
	}
	op := "++"
	if delta < 0 {
		op = "--"
	}
	return nil, report.New(report.TypeError, tok,
		"type %s does not have operator '%s'", EmphType(o), op)
}

// Negate implements unary minus.
func Negate(o Object, tok token.Token) (Object, *report.Error) {
	switch v := o.(type) {
	case *Int:
		return &Int{Kind: v.Kind, Value: truncate(v.Kind, -v.Value)}, nil
	case *Float:
		return narrowed(v.Kind, -v.Value), nil
	}
	return nil, report.New(report.TypeError, tok,
		"type %s does not have operator unary '-'", EmphType(o))
}

// Not implements logical '!'.
func Not(o Object, tok token.Token) (Object, *report.Error) {
	if b, ok := o.(*Bool); ok {
		return &Bool{Value: !b.Value}, nil
	}
	return nil, report.New(report.TypeError, tok,
		"operator '!' wants <bool>, got %s", EmphType(o))
}
