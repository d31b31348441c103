package shape

import (
	"fmt"
	"reflect"
)

// Kind identifies a composite shape.
type Kind int

const (
	// KindIterator describes a lazily consumed sequence (validator.Iterator)
	KindIterator Kind = iota + 1

	// KindIterable describes any sequence: iterables, iterators, slices, arrays, strings and maps
	KindIterable

	// KindCallable describes a function or validator.Caller
	KindCallable

	// KindOptional describes "X or absent"
	KindOptional

	// KindUnion describes "any of X, Y, ..."
	KindUnion
)

var kindNames = map[Kind]string{
	KindIterator: "iterator",
	KindIterable: "iterable",
	KindCallable: "callable",
	KindOptional: "optional",
	KindUnion:    "union",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Expr is a composite shape. Args holds the child shapes; for callables the
// last argument is the return shape and the others are parameter shapes.
type Expr struct {
	Kind Kind
	Args []any

	// OpenParams marks a callable whose parameters are not described; Args
	// then holds only the return shape.
	OpenParams bool
}

func (e *Expr) String() string {
	return fmt.Sprintf("%s%v", e.Kind, e.Args)
}

type sentinel struct {
	name string
}

func (s *sentinel) String() string { return s.name }

var (
	// Anything matches every value.
	Anything any = &sentinel{name: "anything"}

	// Absent matches only absent values; untyped nil means the same.
	Absent any = &sentinel{name: "absent"}
)

// Of returns the type shape for T.
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Types returns a type-set shape accepting any of the given types.
func Types(types ...reflect.Type) []reflect.Type {
	return types
}

// IteratorOf describes an iterator, optionally with an element shape.
func IteratorOf(elem ...any) *Expr {
	return &Expr{Kind: KindIterator, Args: elem}
}

// IterableOf describes an iterable, optionally with an element shape.
func IterableOf(elem ...any) *Expr {
	return &Expr{Kind: KindIterable, Args: elem}
}

// Callable describes any callable.
func Callable() *Expr {
	return &Expr{Kind: KindCallable}
}

// Func describes a callable taking exactly the given parameter shapes and
// returning ret.
func Func(params []any, ret any) *Expr {
	args := make([]any, 0, len(params)+1)
	args = append(args, params...)
	return &Expr{Kind: KindCallable, Args: append(args, ret)}
}

// FuncReturning describes a callable with unchecked parameters returning ret.
func FuncReturning(ret any) *Expr {
	return &Expr{Kind: KindCallable, Args: []any{ret}, OpenParams: true}
}

// Optional describes s or an absent value.
func Optional(s any) *Expr {
	return &Expr{Kind: KindOptional, Args: []any{s}}
}

// Union describes a value matching any of members.
func Union(members ...any) *Expr {
	return &Expr{Kind: KindUnion, Args: members}
}
