package validator

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ag-ui/go-contracts/internal/utils"
)

var (
	boolType    = reflect.TypeOf(false)
	outcomeType = reflect.TypeOf(Outcome{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// ErrBadPredicate is returned by Predicate for functions that cannot serve
// as predicates.
var ErrBadPredicate = errors.New("invalid predicate function")

// PredicateFunc is a predicate over any value; it skips reflection.
type PredicateFunc func(value any) bool

type predicate struct {
	fn    reflect.Value
	takes reflect.Type // nil for zero-argument predicates
	name  string
}

// Predicate returns a validator backed by a user function. fn takes zero or
// one argument and returns bool, error, Outcome or (bool, error). A returned
// error's message becomes the diagnostic; a plain false reports
// "predicate returned false".
func Predicate(fn any) (Validator, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrBadPredicate, fn)
	}
	ft := rv.Type()
	if ft.NumIn() > 1 || ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %s must take zero or one argument", ErrBadPredicate, ft)
	}
	if !validPredicateResults(ft) {
		return nil, fmt.Errorf("%w: %s must return bool, error, Outcome or (bool, error)", ErrBadPredicate, ft)
	}
	p := &predicate{fn: rv, name: utils.ShortName(utils.FuncName(rv))}
	if utils.IsAnonymous(p.name) {
		p.name = ""
	}
	if ft.NumIn() == 1 {
		p.takes = ft.In(0)
	}
	return p, nil
}

// MustPredicate is like Predicate but panics on an invalid function.
func MustPredicate(fn any) Validator {
	v, err := Predicate(fn)
	if err != nil {
		panic(err)
	}
	return v
}

func validPredicateResults(ft reflect.Type) bool {
	switch ft.NumOut() {
	case 1:
		out := ft.Out(0)
		return out == boolType || out == errorType || out == outcomeType
	case 2:
		return ft.Out(0) == boolType && ft.Out(1) == errorType
	}
	return false
}

func (p *predicate) Check(value any) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = FailWith("%v", r)
		}
	}()

	var in []reflect.Value
	if p.takes != nil {
		arg, err := utils.Assign(value, p.takes)
		if err != nil {
			return FailWith("predicate %s cannot accept %s", p.name, typeName(value))
		}
		in = []reflect.Value{arg}
	}

	results := p.fn.Call(in)
	switch r := results[0].Interface().(type) {
	case Outcome:
		return r
	case bool:
		if len(results) == 2 {
			if err, _ := results[1].Interface().(error); err != nil {
				return predicateFailure(err)
			}
		}
		if !r {
			return FailWith("predicate returned false")
		}
		return Pass()
	case error:
		return predicateFailure(r)
	}
	// nil error
	return Pass()
}

// predicateFailure uses the error text as the diagnostic, or the generic
// message when there is none.
func predicateFailure(err error) Outcome {
	if msg := err.Error(); msg != "" {
		return FailWith("%s", msg)
	}
	return FailWith("predicate returned false")
}

func (p *predicate) Describe() string {
	if p.name == "" {
		return "a value accepted by the predicate"
	}
	return "satisfies " + p.name
}

func (f PredicateFunc) Check(value any) Outcome {
	if f(value) {
		return Pass()
	}
	return FailWith("predicate returned false")
}

func (f PredicateFunc) Describe() string {
	return "a value accepted by the predicate"
}
