package validator

import (
	"errors"
	"io"
	"reflect"

	"github.com/ag-ui/go-contracts/internal/utils"
	"github.com/ag-ui/go-contracts/pkg/core"
)

// Iterator is a pull-based sequence. Next returns io.EOF once the sequence
// is exhausted. Iterators are single-consumer.
type Iterator interface {
	Next() (any, error)
}

// Iterable produces a fresh Iterator on every call to Iter.
type Iterable interface {
	Iter() Iterator
}

// IteratorFunc adapts a pull function to Iterator.
type IteratorFunc func() (any, error)

// Next implements Iterator.
func (f IteratorFunc) Next() (any, error) {
	return f()
}

// IterableFunc adapts an iterator factory to Iterable.
type IterableFunc func() Iterator

// Iter implements Iterable.
func (f IterableFunc) Iter() Iterator {
	return f()
}

// FromSlice returns an iterator over items.
func FromSlice[T any](items []T) Iterator {
	i := 0
	return IteratorFunc(func() (any, error) {
		if i >= len(items) {
			return nil, io.EOF
		}
		item := items[i]
		i++
		return item, nil
	})
}

// Collect drains it. It returns the items pulled before the first error
// other than io.EOF, together with that error.
func Collect(it Iterator) ([]any, error) {
	var items []any
	for {
		item, err := it.Next()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

type iteratorOf struct {
	child Validator
}

// IteratorOf returns a validator that accepts Iterator values. With a
// non-nil child, the validated value is a proxy that checks every item
// against child when it is pulled.
func IteratorOf(child Validator) Validator {
	return &iteratorOf{child: child}
}

func (v *iteratorOf) Check(value any) Outcome {
	return v.CheckContext(value, core.ValidationContext{})
}

func (v *iteratorOf) CheckContext(value any, ctx core.ValidationContext) Outcome {
	it, ok := value.(Iterator)
	if !ok || IsAbsent(value) {
		return FailWith("? must be an iterator")
	}
	if v.child == nil {
		return Pass()
	}
	return Replace(newIteratorProxy(it, v.child, v.Describe(), ctx))
}

func (v *iteratorOf) Describe() string {
	if v.child == nil {
		return "iterator"
	}
	return "iterator of " + v.child.Describe()
}

type iterableOf struct {
	child Validator
}

// IterableOf returns a validator that accepts Iterable and Iterator values,
// slices, arrays, strings and maps. With a non-nil child, Iterable and
// Iterator values are replaced by proxies that check items on demand, while
// slices and arrays are checked up front and copied with any replacements
// applied. Strings are checked rune by rune and maps key by key.
func IterableOf(child Validator) Validator {
	return &iterableOf{child: child}
}

func (v *iterableOf) Check(value any) Outcome {
	return v.CheckContext(value, core.ValidationContext{})
}

func (v *iterableOf) CheckContext(value any, ctx core.ValidationContext) Outcome {
	if IsAbsent(value) {
		return FailWith("? must be an iterable")
	}

	switch x := value.(type) {
	case Iterable:
		if v.child == nil {
			return Pass()
		}
		return Replace(&iterableProxy{src: x, child: v.child, describe: v.Describe(), ctx: ctx})
	case Iterator:
		if v.child == nil {
			return Pass()
		}
		return Replace(newIteratorProxy(x, v.child, v.Describe(), ctx))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if v.child == nil {
			return Pass()
		}
		return v.checkSequence(rv, ctx)
	case reflect.String:
		if v.child == nil {
			return Pass()
		}
		i := 0
		for _, r := range rv.String() {
			i++
			if _, err := Validate(v.child, r, ctx); err != nil {
				return itemFailure(v.Describe(), i, r)
			}
		}
		return Pass()
	case reflect.Map:
		if v.child == nil {
			return Pass()
		}
		iter := rv.MapRange()
		i := 0
		for iter.Next() {
			i++
			key := iter.Key().Interface()
			if _, err := Validate(v.child, key, ctx); err != nil {
				return itemFailure(v.Describe(), i, key)
			}
		}
		return Pass()
	}
	return FailWith("? must be an iterable")
}

func (v *iterableOf) checkSequence(rv reflect.Value, ctx core.ValidationContext) Outcome {
	var out reflect.Value
	if rv.Kind() == reflect.Array {
		out = reflect.New(rv.Type()).Elem()
	} else {
		out = reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	}
	elemType := rv.Type().Elem()

	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		validated, err := Validate(v.child, item, ctx)
		if err != nil {
			return itemFailure(v.Describe(), i+1, item)
		}
		ev, err := utils.Assign(validated, elemType)
		if err != nil {
			return FailWith("? %s item: %s", utils.Ordinal(i+1), err)
		}
		out.Index(i).Set(ev)
	}
	return Replace(out.Interface())
}

func (v *iterableOf) Describe() string {
	if v.child == nil {
		return "iterable"
	}
	return "iterable of " + v.child.Describe()
}

func itemFailure(describe string, index int, item any) Outcome {
	return FailWith("? must be an %s but the %s item is %s", describe, utils.Ordinal(index), typeName(item))
}

// iteratorProxy checks items as they are pulled. The first failure is
// sticky: later pulls return the same error without touching the source.
type iteratorProxy struct {
	src      Iterator
	child    Validator
	describe string
	ctx      core.ValidationContext
	pulled   int
	err      error
}

func newIteratorProxy(src Iterator, child Validator, describe string, ctx core.ValidationContext) *iteratorProxy {
	return &iteratorProxy{src: src, child: child, describe: describe, ctx: ctx}
}

// Next implements Iterator.
func (p *iteratorProxy) Next() (any, error) {
	if p.err != nil {
		return nil, p.err
	}
	item, err := p.src.Next()
	if err != nil {
		return nil, err
	}
	p.pulled++

	validated, verr := Validate(p.child, item, p.ctx)
	if verr != nil {
		p.err = core.NewViolation(p.ctx, p.describe, typeName(item), itemFailure(p.describe, p.pulled, item).Message()).
			WithCause(verr)
		return nil, p.err
	}
	return validated, nil
}

// Unwrap returns the proxied iterator.
func (p *iteratorProxy) Unwrap() Iterator {
	return p.src
}

type iterableProxy struct {
	src      Iterable
	child    Validator
	describe string
	ctx      core.ValidationContext
}

// Iter implements Iterable; each call yields a new validating iterator.
func (p *iterableProxy) Iter() Iterator {
	return newIteratorProxy(p.src.Iter(), p.child, p.describe, p.ctx)
}

// Unwrap returns the proxied iterable.
func (p *iterableProxy) Unwrap() Iterable {
	return p.src
}
