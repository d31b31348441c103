// Package shape describes the expected shape of values and compiles those
// descriptions into validator trees.
//
// A shape is one of:
//   - nil or Absent: the value must be absent
//   - Anything: no check
//   - true or false: the value must be truthy or falsy
//   - a validator.Validator, used as is
//   - a reflect.Type or []reflect.Type: the dynamic type must be listed
//   - an *Expr built with IteratorOf, IterableOf, Callable, Func,
//     FuncReturning, Optional or Union
//   - a predicate function of zero or one argument
//
// Anything else compiles to a validator that accepts every value. Unions
// other than "X or absent" are not checked.
//
// Example usage:
//
//	v, err := shape.Compile(shape.IteratorOf(shape.Of[int]()), shape.DefaultOptions())
package shape
