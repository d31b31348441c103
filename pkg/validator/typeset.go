package validator

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// TypeOption configures a type-set validator.
type TypeOption func(*typeSet)

// WithSubclasses accepts values whose type is assignable to a listed type
// (interface implementations) instead of requiring an exact match.
func WithSubclasses(enabled bool) TypeOption {
	return func(v *typeSet) {
		v.subclasses = enabled
	}
}

// WithCoercion converts a failing value into the first listed type that
// offers a value-preserving conversion for it.
func WithCoercion(enabled bool) TypeOption {
	return func(v *typeSet) {
		v.coerce = enabled
	}
}

type typeSet struct {
	types      []reflect.Type
	subclasses bool
	coerce     bool
}

// TypeSet returns a validator that accepts values whose dynamic type is one
// of types. Subclass matching is enabled by default. It panics if types is
// empty or contains nil.
func TypeSet(types []reflect.Type, opts ...TypeOption) Validator {
	if len(types) == 0 {
		panic("validator: TypeSet requires at least one type")
	}
	for _, t := range types {
		if t == nil {
			panic("validator: TypeSet with nil type")
		}
	}
	v := &typeSet{
		types:      append([]reflect.Type(nil), types...),
		subclasses: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Types returns the accepted types.
func (v *typeSet) Types() []reflect.Type {
	return append([]reflect.Type(nil), v.types...)
}

func (v *typeSet) Check(value any) Outcome {
	if v.matches(value) {
		return Pass()
	}
	if v.coerce && value != nil {
		for _, t := range v.types {
			if converted, ok := coerce(reflect.ValueOf(value), t); ok {
				return Replace(converted.Interface())
			}
		}
	}
	return Fail()
}

func (v *typeSet) matches(value any) bool {
	if value == nil {
		return false
	}
	vt := reflect.TypeOf(value)
	for _, t := range v.types {
		if vt == t {
			return true
		}
		if v.subclasses && vt.AssignableTo(t) {
			return true
		}
	}
	return false
}

func (v *typeSet) Describe() string {
	names := make([]string, len(v.types))
	for i, t := range v.types {
		names[i] = t.String()
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

type int64Converter interface {
	Int64() (int64, error)
}

type float64Converter interface {
	Float64() (float64, error)
}

// coerce converts src into target when the target offers a recognized,
// value-preserving conversion for it. A panicking String or Error method
// means no conversion.
func coerce(src reflect.Value, target reflect.Type) (out reflect.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = reflect.Value{}, false
		}
	}()

	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := toInt64(src)
		if !ok || reflect.Zero(target).OverflowInt(i) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(i).Convert(target), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := toInt64(src)
		if !ok || i < 0 || reflect.Zero(target).OverflowUint(uint64(i)) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(uint64(i)).Convert(target), true

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat64(src)
		if !ok || reflect.Zero(target).OverflowFloat(f) {
			return reflect.Value{}, false
		}
		converted := reflect.ValueOf(f).Convert(target)
		if converted.Float() != f && !math.IsNaN(f) {
			return reflect.Value{}, false
		}
		return converted, true

	case reflect.String:
		s, ok := toString(src)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(s).Convert(target), true
	}
	return reflect.Value{}, false
}

func toInt64(src reflect.Value) (int64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return src.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := src.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := src.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case reflect.Complex64, reflect.Complex128:
		return 0, false
	}
	if c, ok := src.Interface().(int64Converter); ok {
		i, err := c.Int64()
		return i, err == nil
	}
	return 0, false
}

// toFloat64 fails for integers that float64 cannot represent exactly.
func toFloat64(src reflect.Value) (float64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := src.Int()
		f := float64(i)
		if f >= math.MaxInt64 || int64(f) != i {
			return 0, false
		}
		return f, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := src.Uint()
		f := float64(u)
		if f >= math.MaxUint64 || uint64(f) != u {
			return 0, false
		}
		return f, true
	case reflect.Float32, reflect.Float64:
		return src.Float(), true
	case reflect.Complex64, reflect.Complex128:
		return 0, false
	}
	if c, ok := src.Interface().(float64Converter); ok {
		f, err := c.Float64()
		return f, err == nil
	}
	return 0, false
}

func toString(src reflect.Value) (string, bool) {
	if IsAbsent(src.Interface()) {
		return "", false
	}
	switch x := src.Interface().(type) {
	case fmt.Stringer:
		return x.String(), true
	case error:
		return x.Error(), true
	case []byte:
		return string(x), true
	}
	switch src.Kind() {
	case reflect.String:
		return src.String(), true
	case reflect.Bool:
		return strconv.FormatBool(src.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(src.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(src.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(src.Float(), 'g', -1, 64), true
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(src.Complex(), 'g', -1, 128), true
	}
	return "", false
}
