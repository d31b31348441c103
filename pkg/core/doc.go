// Package core provides the shared vocabulary of the contracts module.
//
// It defines the ValidationContext passed to every check and the error
// taxonomy produced when a check fails. Other packages build on these
// types; core itself has no dependencies beyond the standard library.
//
// Every failed check is reported as a *ContractError. Its Type tells the
// caller what went wrong:
//   - shape: a shape description could not be compiled (wrap time only)
//   - argument: an argument failed its validator
//   - return: the result failed the return validator
//   - receiver: a method was called on a receiver of the wrong type
//   - arity: a validated callback was invoked with the wrong argument count
//   - binding: call arguments did not fit the declared parameters
//
// Example usage:
//
//	import "github.com/ag-ui/go-contracts/pkg/core"
//
//	_, err := add.Call(2, "3")
//	if errors.Is(err, core.ErrArgumentViolation) {
//		var ce *core.ContractError
//		errors.As(err, &ce)
//		fmt.Println(ce.Param) // y
//	}
package core
