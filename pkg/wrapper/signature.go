package wrapper

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ag-ui/go-contracts/internal/utils"
	"github.com/ag-ui/go-contracts/pkg/core"
)

// ErrInvalidSignature is returned when a signature does not describe the
// function it is paired with.
var ErrInvalidSignature = errors.New("signature does not match function")

// ParamKind distinguishes ordinary parameters from variadic ones.
type ParamKind int

const (
	// Positional is an ordinary parameter, bound by position or by name
	Positional ParamKind = iota

	// VariadicPositional collects surplus positional arguments; it is the Go variadic parameter
	VariadicPositional

	// VariadicKeyword collects unmatched keyword arguments into a map[string]T parameter
	VariadicKeyword
)

func (k ParamKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case VariadicPositional:
		return "variadic"
	case VariadicKeyword:
		return "keyword"
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// Param describes one physical parameter of a wrapped function.
type Param struct {
	Name string
	Kind ParamKind

	// Shape is the expected shape; it is only used when Annotated is set
	Shape     any
	Annotated bool

	Default    any
	HasDefault bool
}

// Arg declares an annotated positional parameter.
func Arg(name string, shape any) Param {
	return Param{Name: name, Kind: Positional, Shape: shape, Annotated: true}
}

// Untyped declares a positional parameter without a shape.
func Untyped(name string) Param {
	return Param{Name: name, Kind: Positional}
}

// VarArgs declares an annotated variadic parameter. Each item is checked
// against shape.
func VarArgs(name string, shape any) Param {
	return Param{Name: name, Kind: VariadicPositional, Shape: shape, Annotated: true}
}

// UntypedVarArgs declares a variadic parameter without a shape.
func UntypedVarArgs(name string) Param {
	return Param{Name: name, Kind: VariadicPositional}
}

// Kwargs declares the parameter that receives unmatched keyword arguments.
// Keyword parameters cannot be annotated.
func Kwargs(name string) Param {
	return Param{Name: name, Kind: VariadicKeyword}
}

// WithDefault returns a copy of p that binds value when the argument is
// omitted from a dynamic call.
func (p Param) WithDefault(value any) Param {
	p.Default = value
	p.HasDefault = true
	return p
}

// Signature describes a wrapped function: its parameters in physical order
// (after the receiver, if any), its return shape and its receiver type.
type Signature struct {
	Params []Param

	Return          any
	ReturnAnnotated bool

	// Receiver is the expected receiver type for method expressions such
	// as (*T).Method, whose first physical parameter is the receiver
	Receiver reflect.Type
}

// Sig builds a signature from parameters.
func Sig(params ...Param) Signature {
	return Signature{Params: params}
}

// Returns sets the return shape.
func (s Signature) Returns(shape any) Signature {
	s.Return = shape
	s.ReturnAnnotated = true
	return s
}

// WithReceiver declares that the first physical parameter is a receiver of
// type t.
func (s Signature) WithReceiver(t reflect.Type) Signature {
	s.Receiver = t
	return s
}

// SignatureOf derives an unannotated signature from a function's type.
// Parameters are named arg0, arg1 and so on; a variadic parameter is named
// args.
func SignatureOf(fn any) (Signature, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: %T is not a function", ErrInvalidSignature, fn)
	}
	ft := rv.Type()
	params := make([]Param, ft.NumIn())
	for i := range params {
		params[i] = Untyped(fmt.Sprintf("arg%d", i))
	}
	if ft.IsVariadic() {
		params[len(params)-1] = UntypedVarArgs("args")
	}
	return Sig(params...), nil
}

// offset is the index of the first described parameter in the function type.
func (s Signature) offset() int {
	if s.Receiver != nil {
		return 1
	}
	return 0
}

// check verifies that s describes a function of type ft.
func (s Signature) check(ft reflect.Type) error {
	off := s.offset()
	if ft.NumIn() != off+len(s.Params) {
		return fmt.Errorf("%w: %s takes %d parameters, signature declares %d", ErrInvalidSignature, ft, ft.NumIn(), off+len(s.Params))
	}
	if s.Receiver != nil && !s.Receiver.AssignableTo(ft.In(0)) {
		return fmt.Errorf("%w: receiver %s cannot be passed as %s", ErrInvalidSignature, s.Receiver, ft.In(0))
	}

	seen := make(map[string]bool, len(s.Params))
	keywords := 0
	for i, p := range s.Params {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter %d has no name", ErrInvalidSignature, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidSignature, p.Name)
		}
		seen[p.Name] = true

		physical := ft.In(off + i)
		switch p.Kind {
		case VariadicPositional:
			if i != len(s.Params)-1 || !ft.IsVariadic() {
				return fmt.Errorf("%w: variadic parameter %q must be the last parameter of a variadic function", ErrInvalidSignature, p.Name)
			}
		case VariadicKeyword:
			if p.Annotated {
				return core.ShapeError("keyword parameter %s cannot be annotated", p.Name)
			}
			if physical.Kind() != reflect.Map || physical.Key().Kind() != reflect.String {
				return fmt.Errorf("%w: keyword parameter %q must be a map with string keys, got %s", ErrInvalidSignature, p.Name, physical)
			}
			keywords++
		case Positional:
			if i == len(s.Params)-1 && ft.IsVariadic() {
				return fmt.Errorf("%w: parameter %q of variadic function must be declared with VarArgs", ErrInvalidSignature, p.Name)
			}
		default:
			return fmt.Errorf("%w: parameter %q has unknown kind %s", ErrInvalidSignature, p.Name, p.Kind)
		}
		if p.HasDefault && p.Kind != Positional {
			return fmt.Errorf("%w: %s parameter %q cannot have a default", ErrInvalidSignature, p.Kind, p.Name)
		}
	}
	if keywords > 1 {
		return fmt.Errorf("%w: more than one keyword parameter", ErrInvalidSignature)
	}
	if s.ReturnAnnotated && utils.ValueResults(ft) > 1 {
		return core.ShapeError("return shape given for %s, which has %d results", ft, utils.ValueResults(ft))
	}
	return nil
}

func (s Signature) variadic() (Param, bool) {
	if n := len(s.Params); n > 0 && s.Params[n-1].Kind == VariadicPositional {
		return s.Params[n-1], true
	}
	return Param{}, false
}

func (s Signature) keyword() (int, bool) {
	for i, p := range s.Params {
		if p.Kind == VariadicKeyword {
			return i, true
		}
	}
	return -1, false
}
