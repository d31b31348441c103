package wrapper_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui/go-contracts/pkg/core"
	"github.com/ag-ui/go-contracts/pkg/wrapper"
)

func createTestFunc(t *testing.T, name, doc string) *wrapper.Func {
	t.Helper()
	f, err := wrapper.New(func(x int) int { return x },
		wrapper.Sig(wrapper.Arg("x", intShape)).Returns(intShape),
		defaults(), wrapper.WithName(name), wrapper.WithDoc(doc))
	require.NoError(t, err)
	return f
}

func TestRegistry_Register(t *testing.T) {
	reg := wrapper.NewRegistry()
	assert.Equal(t, 0, reg.Count())

	require.NoError(t, reg.Register(createTestFunc(t, "one", "")))
	assert.Equal(t, 1, reg.Count())

	err := reg.Register(createTestFunc(t, "one", ""))
	assert.ErrorContains(t, err, `function "one" already registered`)

	assert.Error(t, reg.Register(nil))

	reg.AddValidator(func(f *wrapper.Func) error {
		if f.Doc() == "" {
			return errors.New("documentation required")
		}
		return nil
	})
	err = reg.Register(createTestFunc(t, "two", ""))
	assert.ErrorContains(t, err, "documentation required")
	require.NoError(t, reg.Register(createTestFunc(t, "two", "doubles nothing")))
}

func TestRegistry_Lookup(t *testing.T) {
	reg := wrapper.NewRegistry()
	for _, name := range []string{"parse_int", "parse_float", "format"} {
		require.NoError(t, reg.Register(createTestFunc(t, name, "handles "+name)))
	}

	f, err := reg.Get("format")
	require.NoError(t, err)
	assert.Equal(t, "format", f.Name())

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, wrapper.ErrNotRegistered)

	names := func(funcs []*wrapper.Func) []string {
		out := make([]string, len(funcs))
		for i, f := range funcs {
			out[i] = f.Name()
		}
		return out
	}
	assert.Equal(t, []string{"format", "parse_float", "parse_int"}, names(reg.List(nil)))
	assert.Equal(t, []string{"parse_float", "parse_int"}, names(reg.List(&wrapper.Filter{Name: "parse*"})))
	assert.Equal(t, []string{"format"}, names(reg.List(&wrapper.Filter{Name: "format"})))
	assert.Equal(t, []string{"parse_float"}, names(reg.List(&wrapper.Filter{Keywords: []string{"FLOAT"}})))

	require.NoError(t, reg.Unregister("format"))
	assert.ErrorIs(t, reg.Unregister("format"), wrapper.ErrNotRegistered)

	reg.Clear()
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_Call(t *testing.T) {
	reg := wrapper.NewRegistry()
	require.NoError(t, reg.Register(createTestFunc(t, "id", "")))

	got, err := reg.Call("id", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	_, err = reg.Call("id", "4")
	assert.ErrorIs(t, err, core.ErrArgumentViolation)

	_, err = reg.Call("nope")
	assert.ErrorIs(t, err, wrapper.ErrNotRegistered)
}

func TestRegistry_Prepare(t *testing.T) {
	reg := wrapper.NewRegistry()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, reg.Register(createTestFunc(t, name, "")))
	}
	require.NoError(t, reg.Prepare(context.Background()))

	broken, err := wrapper.New(func(x int) {}, wrapper.Sig(wrapper.Arg("x", []reflect.Type{})), defaults(), wrapper.WithName("broken"))
	require.NoError(t, err)
	require.NoError(t, reg.Register(broken))

	err = reg.Prepare(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedShape)
	assert.ErrorContains(t, err, `function "broken" failed to prepare`)

	t.Run("cancelled", func(t *testing.T) {
		reg := wrapper.NewRegistry()
		require.NoError(t, reg.Register(createTestFunc(t, "x", "")))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, reg.Prepare(ctx), context.Canceled)
	})
}
