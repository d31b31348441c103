package core

// ReturnLabel is the parameter label used when checking a function result.
const ReturnLabel = "return value"

// ValidationContext identifies the value being checked for diagnostics.
// It is created for a single argument or result check and then discarded.
type ValidationContext struct {
	// Function is the name of the wrapped function
	Function string

	// Param labels the value inside the function ("x", "items on *args", "return value")
	Param string

	// Type is the violation category reported on failure; zero means argument
	Type ErrorType
}

// ArgumentContext returns the context for checking an ordinary argument.
func ArgumentContext(function, param string) ValidationContext {
	return ValidationContext{Function: function, Param: param, Type: ErrorTypeArgument}
}

// ReturnContext returns the context for checking a function result.
func ReturnContext(function string) ValidationContext {
	return ValidationContext{Function: function, Param: ReturnLabel, Type: ErrorTypeReturn}
}

// Nested derives a context for a value reached through the current one,
// such as an argument passed to a validated callback.
func (c ValidationContext) Nested(param string, errType ErrorType) ValidationContext {
	return ValidationContext{Function: c.Function, Param: param, Type: errType}
}

func (c ValidationContext) violationType() ErrorType {
	if c.Type == "" {
		return ErrorTypeArgument
	}
	return c.Type
}
