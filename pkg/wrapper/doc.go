// Package wrapper checks function calls against declared contracts.
//
// A contract is a Signature: one Param per physical parameter of the
// function, each optionally annotated with a shape (see package shape),
// plus an optional return shape and receiver type. Wrapping pairs a
// function with its signature:
//
//	add := wrapper.Must(func(x, y int) int { return x + y },
//		wrapper.Sig(wrapper.Arg("x", shape.Of[int]()), wrapper.Arg("y", shape.Of[int]())).
//			Returns(shape.Of[int]()),
//		wrapper.WithName("add"))
//
//	_, err := add.Call(2, "3")
//	// [ARGUMENT_VIOLATION]: function "add": y: expected int, got string
//
// # Dynamic and typed calls
//
// Call and CallKw take arguments as values, bind them to parameters (by
// position, by keyword, from defaults, with surplus positionals going to
// the VarArgs parameter and unmatched keywords to the Kwargs parameter),
// check them and call through. Interface and As return a function of the
// original type that checks every call; violations come back through a
// trailing error result, or as a panic with *core.ContractError when the
// function has none.
//
// # Lifecycle
//
// Settings are resolved and shapes compiled once, on first use or on
// Prepare, and then shared read-only by every call. When the resolved
// settings disable contracts, calls go straight to the function.
//
// # Registry
//
// A Registry holds named wrappers and can prepare them all at startup:
//
//	registry := wrapper.NewRegistry()
//	_ = registry.Register(add)
//	if err := registry.Prepare(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// NewCollector exposes the call counters of a registry's wrappers as
// Prometheus metrics:
//
//	prometheus.MustRegister(wrapper.NewCollector(registry, "myapp"))
package wrapper
