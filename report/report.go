package report

import (
	"fmt"

	"github.com/h-merrill/minnow/text"
	"github.com/h-merrill/minnow/token"
)

type Kind int

const (
	ParseError Kind = iota
	TypeError
	NameError
	RangeError
	RuntimeError
)

var kindNames = map[Kind]string{
	ParseError:   "parse error",
	TypeError:    "type error",
	NameError:    "name error",
	RangeError:   "range error",
	RuntimeError: "runtime error",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Error is the one error object that surfaces to the host: a kind, a
// message, and the token it is anchored to.
type Error struct {
	Kind    Kind
	Message string
	Token   token.Token
}

func New(kind Kind, tok token.Token, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Token: tok}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message + text.DescribePos(e.Token)
}

// Render formats the error against its source text, with the offending
// span underlined.
func (e *Error) Render(source string) string {
	return text.Underline(e.Token.Location, source) + "\n" + e.Kind.String() + ": " + e.Message
}

// As returns err as a *Error when it is one, for hosts that want the kind.
// Wrapped errors are not unwrapped.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
