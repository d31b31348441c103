package testutil

import (
	"errors"
	"io"
	"sync/atomic"
)

// CountingIterator yields Items in order and counts every pull of the
// underlying sequence. It satisfies validator.Iterator.
type CountingIterator struct {
	Items []any

	// Err, when set, is returned once Items are exhausted instead of io.EOF
	Err error

	pulls atomic.Int64
	pos   int
}

// NewCountingIterator returns an iterator over items.
func NewCountingIterator(items ...any) *CountingIterator {
	return &CountingIterator{Items: items}
}

// Next returns the next item or io.EOF.
func (c *CountingIterator) Next() (any, error) {
	c.pulls.Add(1)
	if c.pos >= len(c.Items) {
		if c.Err != nil {
			return nil, c.Err
		}
		return nil, io.EOF
	}
	item := c.Items[c.pos]
	c.pos++
	return item, nil
}

// Pulls reports how many times Next was called.
func (c *CountingIterator) Pulls() int {
	return int(c.pulls.Load())
}

// ErrCaller is returned by FixedCaller when Fail is set.
var ErrCaller = errors.New("caller failed")

// FixedCaller is a dynamic callable with a declared arity. It records the
// arguments of its last call and returns Result.
type FixedCaller struct {
	N      int
	Result any
	Fail   bool
	Last   []any
	Calls  int
}

// Call records args and returns Result.
func (c *FixedCaller) Call(args ...any) (any, error) {
	c.Calls++
	c.Last = args
	if c.Fail {
		return nil, ErrCaller
	}
	return c.Result, nil
}

// Arity returns N.
func (c *FixedCaller) Arity() int {
	return c.N
}

// OpaqueCaller is a dynamic callable that does not expose its arity.
type OpaqueCaller struct {
	Calls int
}

// Call counts the call and echoes the first argument.
func (c *OpaqueCaller) Call(args ...any) (any, error) {
	c.Calls++
	if len(args) == 0 {
		return nil, nil
	}
	return args[0], nil
}

// Sample is a named value used by table-driven tests.
type Sample struct {
	Name  string
	Value any
}

// Stringer is a fmt.Stringer fixture.
type Stringer string

func (s Stringer) String() string { return string(s) }

// Samples returns one value of each kind the validators distinguish.
func Samples() []Sample {
	var nilPtr *int
	var nilMap map[string]int
	n := 7
	return []Sample{
		{Name: "nil", Value: nil},
		{Name: "nil pointer", Value: nilPtr},
		{Name: "nil map", Value: nilMap},
		{Name: "int", Value: 42},
		{Name: "zero int", Value: 0},
		{Name: "float", Value: 1.5},
		{Name: "string", Value: "hello"},
		{Name: "empty string", Value: ""},
		{Name: "bool", Value: true},
		{Name: "slice", Value: []int{1, 2}},
		{Name: "empty slice", Value: []int{}},
		{Name: "map", Value: map[string]int{"a": 1}},
		{Name: "pointer", Value: &n},
		{Name: "stringer", Value: Stringer("s")},
	}
}
