package utils

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeName describes the runtime type of v for diagnostics.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// IsNillable reports whether values of kind k can be nil.
func IsNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}

// Assign converts v into a value usable as a parameter of type t.
func Assign(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if IsNillable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s value", t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		if t.Kind() == reflect.Interface && rv.Type() != t {
			out := reflect.New(t).Elem()
			out.Set(rv)
			return out, nil
		}
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s value", rv.Type(), t)
}

// Interfaces converts reflect values back into plain values.
func Interfaces(values []reflect.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if v.IsValid() && v.CanInterface() {
			out[i] = v.Interface()
		}
	}
	return out
}

// ReturnsError reports whether the last result of fnType is an error.
func ReturnsError(fnType reflect.Type) bool {
	n := fnType.NumOut()
	return n > 0 && fnType.Out(n-1) == errorType
}

// ResultIndex returns the position of the value result of fnType, ignoring a
// trailing error, or -1 when the function has no value result.
func ResultIndex(fnType reflect.Type) int {
	n := fnType.NumOut()
	if ReturnsError(fnType) {
		n--
	}
	if n == 0 {
		return -1
	}
	return 0
}

// ValueResults counts the results of fnType that are not a trailing error.
func ValueResults(fnType reflect.Type) int {
	n := fnType.NumOut()
	if ReturnsError(fnType) {
		n--
	}
	return n
}

// CallError extracts the trailing error result of a call, if any.
func CallError(fnType reflect.Type, out []reflect.Value) error {
	if !ReturnsError(fnType) || len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.IsNil() {
		return nil
	}
	return last.Interface().(error)
}

// Fail reports err from inside a function built with reflect.MakeFunc.
// Functions with a trailing error result return zero values and err;
// functions without one panic with err.
func Fail(fnType reflect.Type, err error) []reflect.Value {
	if !ReturnsError(fnType) {
		panic(err)
	}
	out := make([]reflect.Value, fnType.NumOut())
	for i := range out {
		out[i] = reflect.Zero(fnType.Out(i))
	}
	ev := reflect.New(errorType).Elem()
	ev.Set(reflect.ValueOf(err))
	out[len(out)-1] = ev
	return out
}

// FuncName returns the fully qualified name of a function value.
func FuncName(fn reflect.Value) string {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return ""
	}
	if f := runtimeFunc(fn.Pointer()); f != "" {
		return f
	}
	return fn.Type().String()
}
