package shape

import (
	"reflect"

	"github.com/ag-ui/go-contracts/pkg/core"
	"github.com/ag-ui/go-contracts/pkg/settings"
	"github.com/ag-ui/go-contracts/pkg/validator"
)

// Options control how type shapes compile.
type Options struct {
	// CheckSubclasses lets a type shape accept implementations of interface types
	CheckSubclasses bool

	// Coerce lets a type shape convert mismatched values
	Coerce bool
}

// DefaultOptions returns the options for the built-in settings.
func DefaultOptions() Options {
	return FromSettings(settings.Default())
}

// FromSettings derives compile options from a settings snapshot.
func FromSettings(s settings.Settings) Options {
	return Options{
		CheckSubclasses: !s.IgnoreSubclasses,
		Coerce:          s.Coerce,
	}
}

func (o Options) typeOptions() []validator.TypeOption {
	return []validator.TypeOption{
		validator.WithSubclasses(o.CheckSubclasses),
		validator.WithCoercion(o.Coerce),
	}
}

// Compile turns a shape description into a validator tree. Errors are
// *core.ContractError values matching core.ErrUnsupportedShape.
func Compile(s any, opts Options) (validator.Validator, error) {
	switch x := s.(type) {
	case nil:
		return validator.None(), nil
	case *sentinel:
		if x == Absent {
			return validator.None(), nil
		}
		return validator.Any(), nil
	case bool:
		if x {
			return validator.Truthy(), nil
		}
		return validator.Falsy(), nil
	case validator.Validator:
		return x, nil
	case *Expr:
		if x == nil {
			return nil, core.ShapeError("nil expression")
		}
		return compileExpr(x, opts)
	case Expr:
		return compileExpr(&x, opts)
	case reflect.Type:
		return validator.TypeSet([]reflect.Type{x}, opts.typeOptions()...), nil
	case []reflect.Type:
		if len(x) == 0 {
			return nil, core.ShapeError("empty type set")
		}
		for _, t := range x {
			if t == nil {
				return nil, core.ShapeError("nil type in type set")
			}
		}
		return validator.TypeSet(x, opts.typeOptions()...), nil
	}

	if reflect.ValueOf(s).Kind() == reflect.Func {
		v, err := validator.Predicate(s)
		if err != nil {
			return nil, core.ShapeError("%s", err.Error()).WithCause(err)
		}
		return v, nil
	}
	return validator.Any(), nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(s any, opts Options) validator.Validator {
	v, err := Compile(s, opts)
	if err != nil {
		panic(err)
	}
	return v
}

func compileExpr(e *Expr, opts Options) (validator.Validator, error) {
	switch e.Kind {
	case KindIterator, KindIterable:
		if len(e.Args) > 1 {
			return nil, core.ShapeError("%s takes at most one element shape, got %d", e.Kind, len(e.Args))
		}
		var child validator.Validator
		if len(e.Args) == 1 {
			var err error
			if child, err = Compile(e.Args[0], opts); err != nil {
				return nil, err
			}
		}
		if e.Kind == KindIterator {
			return validator.IteratorOf(child), nil
		}
		return validator.IterableOf(child), nil

	case KindCallable:
		return compileCallable(e, opts)

	case KindOptional:
		if len(e.Args) != 1 {
			return nil, core.ShapeError("optional takes exactly one shape, got %d", len(e.Args))
		}
		child, err := Compile(e.Args[0], opts)
		if err != nil {
			return nil, err
		}
		return validator.OptionalOf(child), nil

	case KindUnion:
		if len(e.Args) == 0 {
			return nil, core.ShapeError("union takes at least one shape")
		}
		if len(e.Args) == 2 {
			for i, member := range e.Args {
				if isAbsent(member) && !isAbsent(e.Args[1-i]) {
					return compileExpr(Optional(e.Args[1-i]), opts)
				}
			}
		}
		// general unions are not checked
		return validator.Any(), nil
	}
	return nil, core.ShapeError("unknown shape kind %s", e.Kind)
}

func compileCallable(e *Expr, opts Options) (validator.Validator, error) {
	if len(e.Args) == 0 {
		if e.OpenParams {
			return nil, core.ShapeError("callable with open parameters needs a return shape")
		}
		return validator.CallableOf(nil, nil), nil
	}
	if e.OpenParams && len(e.Args) != 1 {
		return nil, core.ShapeError("callable with open parameters takes only a return shape, got %d shapes", len(e.Args))
	}

	ret, err := Compile(e.Args[len(e.Args)-1], opts)
	if err != nil {
		return nil, err
	}
	if e.OpenParams {
		return validator.CallableOf(nil, ret), nil
	}

	params := make([]validator.Validator, len(e.Args)-1)
	for i, p := range e.Args[:len(e.Args)-1] {
		if params[i], err = Compile(p, opts); err != nil {
			return nil, err
		}
	}
	return validator.CallableOf(params, ret), nil
}

func isAbsent(s any) bool {
	return s == nil || s == Absent
}
