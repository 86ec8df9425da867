package stdlib

// The standard host surface: the print family, password hashing, and the
// list and vector host types. Everything here goes through the same
// binding layer an embedding host would use; nothing is special-cased in
// the evaluator.

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
	"src.elv.sh/pkg/persistent/vector"

	"github.com/h-merrill/minnow/object"
	"github.com/h-merrill/minnow/program"
)

// Out is where the print family writes; a host may point it elsewhere.
var Out io.Writer = os.Stdout

func Register(p *program.Program) error {
	binds := []struct {
		name string
		fn   any
	}{
		{"prints", func(s string) { fmt.Fprintln(Out, s) }},
		{"printi", func(n int) { fmt.Fprintln(Out, n) }},
		{"printd", func(d float64) { fmt.Fprintln(Out, d) }},
		{"printsi", func(s string, n int) { fmt.Fprintln(Out, s, n) }},
		{"hash", hashPassword},
		{"hashmatch", hashMatch},
	}
	for _, b := range binds {
		if err := p.Bind(b.name, b.fn); err != nil {
			return err
		}
	}
	if err := registerList(p); err != nil {
		return err
	}
	return registerVector(p)
}

func hashPassword(s string) (string, error) {
	result, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	return string(result), err
}

func hashMatch(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// List is a growable sequence of Language values on a persistent vector;
// the value in the slot is replaced on every write, so copies of a list
// never see each other's mutations.
type List struct {
	v vector.Vector
}

func registerList(p *program.Program) error {
	tb := p.BindType("list", List{}).
		Ctor(func() List { return List{v: vector.Empty} }).
		Method("push_back", func(l *List, item object.Object) {
			if l.v == nil {
				l.v = vector.Empty
			}
			l.v = l.v.Conj(item)
		}).
		Method("size", func(l *List) int {
			if l.v == nil {
				return 0
			}
			return l.v.Len()
		}).
		Index(
			func(l *List, i int) (object.Object, error) {
				if l.v == nil || i < 0 || i >= l.v.Len() {
					return nil, rangeError(listLen(l), i)
				}
				el, _ := l.v.Index(i)
				return el.(object.Object), nil
			},
			func(l *List, i int, val object.Object) error {
				if l.v == nil || i < 0 || i >= l.v.Len() {
					return rangeError(listLen(l), i)
				}
				l.v = l.v.Assoc(i, val)
				return nil
			},
		)
	return tb.Err()
}

func listLen(l *List) int {
	if l.v == nil {
		return 0
	}
	return l.v.Len()
}

// Vector is a fixed-size int buffer with a checked index operator.
type Vector struct {
	N    int
	Data []int64
}

func registerVector(p *program.Program) error {
	tb := p.BindType("vector", Vector{}).
		Ctor(func(n int) Vector {
			return Vector{N: n, Data: make([]int64, n)}
		}).
		Method("size", func(v *Vector) int { return v.N }).
		Index(
			func(v *Vector, i int) (int64, error) {
				if i < 0 || i >= v.N {
					return 0, rangeError(v.N, i)
				}
				return v.Data[i], nil
			},
			func(v *Vector, i int, val int64) error {
				if i < 0 || i >= v.N {
					return rangeError(v.N, i)
				}
				v.Data[i] = val
				return nil
			},
		)
	return tb.Err()
}

func rangeError(n, i int) error {
	return fmt.Errorf("index out of range (range: [0, %d), index: %d)", n, i)
}
