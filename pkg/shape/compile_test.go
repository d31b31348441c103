package shape_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui/go-contracts/internal/testutil"
	"github.com/ag-ui/go-contracts/pkg/core"
	"github.com/ag-ui/go-contracts/pkg/settings"
	"github.com/ag-ui/go-contracts/pkg/shape"
	"github.com/ag-ui/go-contracts/pkg/validator"
)

func positive(n int) bool { return n > 0 }

func TestCompile_Describe(t *testing.T) {
	intT := shape.Of[int]()
	tests := []struct {
		name  string
		shape any
		want  string
	}{
		{"nil", nil, "absent"},
		{"absent", shape.Absent, "absent"},
		{"anything", shape.Anything, "anything"},
		{"true", true, "a truthy value"},
		{"false", false, "a falsy value"},
		{"type", intT, "int"},
		{"type set", shape.Types(intT, shape.Of[string]()), "int or string"},
		{"interface type", shape.Of[fmt.Stringer](), "fmt.Stringer"},
		{"predicate", positive, "satisfies positive"},
		{"iterator", shape.IteratorOf(), "iterator"},
		{"iterator of", shape.IteratorOf(intT), "iterator of int"},
		{"iterable of", shape.IterableOf(intT), "iterable of int"},
		{"expr value", *shape.IterableOf(intT), "iterable of int"},
		{"callable", shape.Callable(), "callable"},
		{"func", shape.Func([]any{intT, nil}, intT), "callable(int, absent) -> int"},
		{"func without params", shape.Func(nil, intT), "callable() -> int"},
		{"func returning", shape.FuncReturning(intT), "callable -> int"},
		{"optional", shape.Optional(intT), "int or absent"},
		{"union with absent", shape.Union(intT, nil), "int or absent"},
		{"union with absent first", shape.Union(shape.Absent, intT), "int or absent"},
		{"general union", shape.Union(intT, shape.Of[string]()), "anything"},
		{"nested", shape.IteratorOf(shape.Optional(shape.IterableOf(intT))), "iterator of iterable of int or absent"},
		{"unknown value", 42, "anything"},
		{"unknown string", "int", "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := shape.Compile(tt.shape, shape.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Describe())
		})
	}
}

func TestCompile_ValidatorPassthrough(t *testing.T) {
	v := validator.Truthy()
	got, err := shape.Compile(v, shape.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, v, got)

	pf := validator.PredicateFunc(func(any) bool { return true })
	got, err = shape.Compile(pf, shape.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, validator.Test(got, nil))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape any
	}{
		{"empty type set", []reflect.Type{}},
		{"nil in type set", []reflect.Type{nil}},
		{"bad predicate", func(a, b int) bool { return true }},
		{"iterator arity", shape.IteratorOf(1, 2)},
		{"optional arity", &shape.Expr{Kind: shape.KindOptional}},
		{"empty union", shape.Union()},
		{"unknown kind", &shape.Expr{Kind: shape.Kind(99)}},
		{"open params without return", &shape.Expr{Kind: shape.KindCallable, OpenParams: true}},
		{"open params with params", &shape.Expr{Kind: shape.KindCallable, OpenParams: true, Args: []any{1, 2}}},
		{"nested error", shape.Optional([]reflect.Type{})},
		{"nested in func", shape.Func([]any{[]reflect.Type{}}, nil)},
		{"nil expression", (*shape.Expr)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shape.Compile(tt.shape, shape.DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrUnsupportedShape)
			assert.False(t, errors.Is(err, core.ErrContractViolation))
		})
	}

	assert.Panics(t, func() { shape.MustCompile(shape.Union(), shape.DefaultOptions()) })
}

type myErr struct{}

func (myErr) Error() string { return "mine" }

func TestCompile_Options(t *testing.T) {
	errShape := shape.Of[error]()

	loose, err := shape.Compile(errShape, shape.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, validator.Test(loose, myErr{}))

	s := settings.Default()
	s.IgnoreSubclasses = true
	strict, err := shape.Compile(errShape, shape.FromSettings(s))
	require.NoError(t, err)
	assert.False(t, validator.Test(strict, myErr{}))

	s = settings.Default()
	s.Coerce = true
	coercing, err := shape.Compile(shape.Of[int](), shape.FromSettings(s))
	require.NoError(t, err)
	out := coercing.Check(3.0)
	replaced, ok := out.Replacement()
	require.True(t, ok)
	assert.Equal(t, 3, replaced)

	assert.Equal(t, shape.Options{CheckSubclasses: true}, shape.DefaultOptions())
}

func TestCompile_Semantics(t *testing.T) {
	opts := shape.DefaultOptions()
	ctx := core.ArgumentContext("f", "x")

	optionalInts := shape.MustCompile(shape.Optional(shape.Of[int]()), opts)
	assert.True(t, validator.Test(optionalInts, nil))
	assert.True(t, validator.Test(optionalInts, 1))
	assert.False(t, validator.Test(optionalInts, "1"))

	cb := shape.MustCompile(shape.Func([]any{shape.Of[int]()}, shape.Of[string]()), opts)
	v, err := validator.Validate(cb, func(n int) (string, error) { return fmt.Sprint(n), nil }, ctx)
	require.NoError(t, err)
	s, err := v.(func(int) (string, error))(7)
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	openCb := shape.MustCompile(shape.FuncReturning(shape.Of[string]()), opts)
	assert.True(t, validator.Test(openCb, func(a, b, c int) string { return "" }))

	pred := shape.MustCompile(positive, opts)
	assert.True(t, validator.Test(pred, 1))
	assert.False(t, validator.Test(pred, -1))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "iterator", shape.KindIterator.String())
	assert.Equal(t, "union", shape.KindUnion.String())
	assert.Equal(t, "kind(99)", shape.Kind(99).String())
	assert.Equal(t, "anything", fmt.Sprint(shape.Anything))
	assert.Equal(t, reflect.TypeOf(0), shape.Of[int]())
}

func TestCompile_ReturnsConformingValues(t *testing.T) {
	ctx := core.ArgumentContext("f", "x")
	opts := shape.DefaultOptions()

	for _, sample := range testutil.Samples() {
		t.Run(sample.Name, func(t *testing.T) {
			shapes := []any{shape.Anything}
			if validator.IsAbsent(sample.Value) {
				shapes = append(shapes, shape.Absent)
			}
			if sample.Value != nil {
				shapes = append(shapes, reflect.TypeOf(sample.Value))
			}

			for _, s := range shapes {
				v, err := shape.Compile(s, opts)
				require.NoError(t, err)

				out, err := validator.Validate(v, sample.Value, ctx)
				require.NoError(t, err, v.Describe())
				assert.Equal(t, sample.Value, out, v.Describe())
			}
		})
	}
}
