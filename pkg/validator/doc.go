// Package validator implements the checkers behind runtime contracts.
//
// Every checker implements Validator. A check produces an Outcome: a plain
// pass or fail, a failure carrying a diagnostic, or a pass carrying a
// replacement value that the caller must use instead of the original.
// Replacements are how lazy values are checked: an iterator is replaced by
// a proxy that validates each item as it is pulled, and a callback is
// replaced by a function of the same type that validates its arguments and
// result on every invocation.
//
// Leaf validators:
//   - Any, None, Truthy, Falsy
//   - TypeSet for runtime type membership, with optional coercion
//   - Predicate for user functions
//
// Composite validators:
//   - IteratorOf, IterableOf for sequences
//   - CallableOf for functions and Callers
//   - OptionalOf for "X or absent"
//
// Example usage:
//
//	ints := validator.IteratorOf(validator.TypeSet([]reflect.Type{reflect.TypeOf(0)}))
//	v, err := validator.Validate(ints, validator.FromSlice([]any{1, "2"}), core.ArgumentContext("sum", "xs"))
//	it := v.(validator.Iterator)
//	it.Next() // 1, nil
//	it.Next() // nil, [ARGUMENT_VIOLATION]: function "sum": xs must be an iterator of int but the 2nd item is string
package validator
