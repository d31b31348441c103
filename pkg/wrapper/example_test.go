package wrapper_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/ag-ui/go-contracts/pkg/core"
	"github.com/ag-ui/go-contracts/pkg/settings"
	"github.com/ag-ui/go-contracts/pkg/shape"
	"github.com/ag-ui/go-contracts/pkg/validator"
	"github.com/ag-ui/go-contracts/pkg/wrapper"
)

func Example() {
	add := wrapper.Must(
		func(x, y int) int { return x + y },
		wrapper.Sig(wrapper.Arg("x", shape.Of[int]()), wrapper.Arg("y", shape.Of[int]())).Returns(shape.Of[int]()),
		wrapper.WithName("add"),
		wrapper.WithSettings(settings.Default()),
	)

	sum, err := add.Call(2, 3)
	fmt.Println(sum, err)

	_, err = add.Call(2, "3")
	fmt.Println(err)

	var ce *core.ContractError
	if errors.As(err, &ce) {
		fmt.Println(ce.Param)
	}
	// Output:
	// 5 <nil>
	// [ARGUMENT_VIOLATION]: function "add": y: expected int, got string
	// y
}

func ExampleAs() {
	greet := wrapper.Must(
		func(name string) (string, error) { return "hello " + name, nil },
		wrapper.Sig(wrapper.Arg("name", func(s string) error {
			if s == "" {
				return errors.New("? must not be empty")
			}
			return nil
		})),
		wrapper.WithName("greet"),
		wrapper.WithSettings(settings.Default()),
	)

	fn, _ := wrapper.As[func(string) (string, error)](greet)
	fmt.Println(fn("gopher"))
	_, err := fn("")
	fmt.Println(err)
	// Output:
	// hello gopher <nil>
	// [ARGUMENT_VIOLATION]: function "greet": name must not be empty
}

func ExampleFunc_CallKw() {
	scale := wrapper.Must(
		func(x, factor int) int { return x * factor },
		wrapper.Sig(wrapper.Arg("x", shape.Of[int]()), wrapper.Arg("factor", shape.Of[int]()).WithDefault(10)),
		wrapper.WithSettings(settings.Default()),
	)

	a, _ := scale.CallKw([]any{4}, nil)
	b, _ := scale.CallKw(nil, map[string]any{"x": 4, "factor": 2})
	fmt.Println(a, b)
	// Output: 40 8
}

func Example_iterator() {
	total := wrapper.Must(
		func(xs validator.Iterator) (int, error) {
			sum := 0
			for {
				item, err := xs.Next()
				if errors.Is(err, io.EOF) {
					return sum, nil
				}
				if err != nil {
					return sum, err
				}
				sum += item.(int)
			}
		},
		wrapper.Sig(wrapper.Arg("xs", shape.IteratorOf(shape.Of[int]()))),
		wrapper.WithName("total"),
		wrapper.WithSettings(settings.Default()),
	)

	fmt.Println(total.Call(validator.FromSlice([]int{1, 2, 3})))
	_, err := total.Call(validator.FromSlice([]any{1, 2.5}))
	var ce *core.ContractError
	errors.As(err, &ce)
	fmt.Println(ce.Message())
	// Output:
	// 6 <nil>
	// xs must be an iterator of int but the 2nd item is float64
}
