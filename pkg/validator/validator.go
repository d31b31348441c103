package validator

import (
	"fmt"

	"github.com/ag-ui/go-contracts/internal/utils"
	"github.com/ag-ui/go-contracts/pkg/core"
)

// Validator checks a single value against a compiled shape.
// Validators are immutable after construction and safe for concurrent use.
type Validator interface {
	// Check tests value and reports whether it passed, optionally with a
	// replacement value or a custom diagnostic.
	Check(value any) Outcome

	// Describe returns a short label of the expected shape ("int or string").
	Describe() string
}

// Contextual is implemented by validators whose replacements report
// violations later, such as proxies that check items on demand. Validate
// prefers CheckContext over Check so those proxies know which function and
// parameter they belong to.
type Contextual interface {
	CheckContext(value any, ctx core.ValidationContext) Outcome
}

// Outcome is the result of a single check.
type Outcome struct {
	valid       bool
	replaced    bool
	replacement any
	message     string
}

// Pass returns a passing outcome that keeps the checked value.
func Pass() Outcome {
	return Outcome{valid: true}
}

// Replace returns a passing outcome that substitutes v for the checked value.
func Replace(v any) Outcome {
	return Outcome{valid: true, replaced: true, replacement: v}
}

// Fail returns a failing outcome with the default diagnostic.
func Fail() Outcome {
	return Outcome{}
}

// FailWith returns a failing outcome with a custom diagnostic. A '?' in the
// message is replaced by the parameter label when the error is rendered.
func FailWith(format string, args ...any) Outcome {
	return Outcome{message: fmt.Sprintf(format, args...)}
}

// Result converts a boolean into an outcome.
func Result(ok bool) Outcome {
	if ok {
		return Pass()
	}
	return Fail()
}

// Valid reports whether the check passed.
func (o Outcome) Valid() bool {
	return o.valid
}

// Replacement returns the substitute value, if the validator supplied one.
func (o Outcome) Replacement() (any, bool) {
	return o.replacement, o.replaced
}

// Message returns the custom diagnostic of a failing outcome, if any.
func (o Outcome) Message() string {
	return o.message
}

// Test reports whether value passes v, discarding diagnostics and
// replacements. It never panics.
func Test(v Validator, value any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return v.Check(value).Valid()
}

// Validate checks value and returns it, or the validator's replacement for
// it. On failure it returns a *core.ContractError built from ctx, the
// validator's description and the observed type.
func Validate(v Validator, value any, ctx core.ValidationContext) (any, error) {
	out := check(v, value, ctx)
	if !out.Valid() {
		return nil, core.NewViolation(ctx, v.Describe(), utils.TypeName(value), out.Message())
	}
	if r, ok := out.Replacement(); ok {
		return r, nil
	}
	return value, nil
}

func check(v Validator, value any, ctx core.ValidationContext) Outcome {
	if c, ok := v.(Contextual); ok {
		return c.CheckContext(value, ctx)
	}
	return v.Check(value)
}
