package validator

import (
	"reflect"

	"github.com/ag-ui/go-contracts/internal/utils"
)

type anyValidator struct{}

// Any returns a validator that accepts every value unchanged.
func Any() Validator {
	return anyValidator{}
}

func (anyValidator) Check(any) Outcome { return Pass() }
func (anyValidator) Describe() string  { return "anything" }

type noneValidator struct{}

// None returns a validator that accepts only absent values.
func None() Validator {
	return noneValidator{}
}

func (noneValidator) Check(value any) Outcome { return Result(IsAbsent(value)) }
func (noneValidator) Describe() string        { return "absent" }

type truthValidator struct {
	want bool
}

// Truthy returns a validator that accepts values that test true.
func Truthy() Validator {
	return truthValidator{want: true}
}

// Falsy returns a validator that accepts values that test false.
func Falsy() Validator {
	return truthValidator{want: false}
}

func (v truthValidator) Check(value any) Outcome {
	return Result(IsTruthy(value) == v.want)
}

func (v truthValidator) Describe() string {
	if v.want {
		return "a truthy value"
	}
	return "a falsy value"
}

// IsAbsent reports whether value is nil, or a nil pointer, map, func,
// channel or interface. Nil slices are empty, not absent.
func IsAbsent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// Truther lets a type decide its own truth value.
type Truther interface {
	Truth() bool
}

// IsTruthy reports the truth value of value: absent values, false, zero
// numbers and empty strings, slices, arrays, maps and channels are false;
// everything else is true.
func IsTruthy(value any) bool {
	if IsAbsent(value) {
		return false
	}
	if t, ok := value.(Truther); ok {
		return t.Truth()
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() > 0
	}
	return true
}

// typeName is shared by the proxies for diagnostics.
var typeName = utils.TypeName
