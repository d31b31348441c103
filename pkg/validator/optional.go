package validator

import "github.com/ag-ui/go-contracts/pkg/core"

type optionalOf struct {
	child Validator
}

// OptionalOf accepts absent values and anything child accepts. Replacements
// produced by child are passed through.
func OptionalOf(child Validator) Validator {
	if child == nil {
		panic("validator: OptionalOf requires a child validator")
	}
	return &optionalOf{child: child}
}

func (v *optionalOf) Check(value any) Outcome {
	return v.CheckContext(value, core.ValidationContext{})
}

func (v *optionalOf) CheckContext(value any, ctx core.ValidationContext) Outcome {
	if IsAbsent(value) {
		return Pass()
	}
	return check(v.child, value, ctx)
}

func (v *optionalOf) Describe() string {
	return v.child.Describe() + " or absent"
}

// Child returns the wrapped validator.
func (v *optionalOf) Child() Validator {
	return v.child
}
