package parser

import (
	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/token"
)

// numberObject types a number literal: a plain digit run is an int, a '.'
// makes it a double, and an 'f' suffix narrows it to float.
func numberObject(tok token.Token) object.Object {
	switch {
	case tok.IsF32:
		return &object.Float{Kind: object.F32, Value: float64(float32(tok.Value))}
	case tok.IsFloat:
		return &object.Float{Kind: object.F64, Value: tok.Value}
	default:
		return &object.Int{Kind: object.IntDefault, Value: int64(tok.Value)}
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
