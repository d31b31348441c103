package validator

import (
	"fmt"
	"reflect"

	"github.com/ag-ui/go-contracts/internal/utils"
	"github.com/ag-ui/go-contracts/pkg/core"
)

// Caller is a callable invoked with dynamic arguments.
type Caller interface {
	Call(args ...any) (any, error)
}

// Arity is implemented by callables whose parameter count is known without
// calling them. Go functions always expose it through reflection; a Caller
// that does not implement Arity is accepted without argument checks.
type Arity interface {
	Arity() int
}

type callableOf struct {
	params []Validator
	ret    Validator
}

// CallableOf returns a validator that accepts functions and Callers. When
// params is non-nil the callable must take exactly len(params) arguments
// (a variadic parameter counts as one) and the validated value is a proxy
// of the same type that checks each argument and, when ret is non-nil, the
// first non-error result.
func CallableOf(params []Validator, ret Validator) Validator {
	v := &callableOf{ret: ret}
	if params != nil {
		v.params = append([]Validator{}, params...)
	}
	return v
}

func (v *callableOf) Check(value any) Outcome {
	return v.CheckContext(value, core.ValidationContext{})
}

func (v *callableOf) CheckContext(value any, ctx core.ValidationContext) Outcome {
	if IsAbsent(value) {
		return FailWith("? must be a callable")
	}
	if v.params == nil && v.ret == nil {
		if !isCallable(value) {
			return FailWith("? must be a callable")
		}
		return Pass()
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Func {
		if v.params != nil && rv.Type().NumIn() != len(v.params) {
			return v.arityFailure(rv.Type().NumIn())
		}
		p := &funcProxy{fn: rv, params: v.params, ret: v.ret, ctx: ctx, label: calleeLabel(ctx)}
		return Replace(reflect.MakeFunc(rv.Type(), p.call).Interface())
	}

	caller, ok := value.(Caller)
	if !ok {
		return FailWith("? must be a callable")
	}
	a, ok := value.(Arity)
	if !ok {
		// arity unknown: the call proceeds unchecked
		return Pass()
	}
	if v.params != nil && a.Arity() != len(v.params) {
		return v.arityFailure(a.Arity())
	}
	return Replace(&callerProxy{src: caller, arity: a.Arity(), params: v.params, ret: v.ret, ctx: ctx, label: calleeLabel(ctx)})
}

func (v *callableOf) arityFailure(got int) Outcome {
	return FailWith("? expected %d argument%s but got %d", len(v.params), utils.Plural(len(v.params)), got)
}

func (v *callableOf) Describe() string {
	text := "callable"
	if v.params != nil {
		text += "("
		for i, p := range v.params {
			if i > 0 {
				text += ", "
			}
			text += p.Describe()
		}
		text += ")"
	}
	if v.ret != nil {
		text += " -> " + v.ret.Describe()
	}
	return text
}

func isCallable(value any) bool {
	if _, ok := value.(Caller); ok {
		return true
	}
	return reflect.ValueOf(value).Kind() == reflect.Func
}

func calleeLabel(ctx core.ValidationContext) string {
	if ctx.Param == "" {
		return "callable"
	}
	return ctx.Param
}

func argumentContext(ctx core.ValidationContext, label string, index int) core.ValidationContext {
	return ctx.Nested(fmt.Sprintf("%s argument of %s", utils.Ordinal(index+1), label), core.ErrorTypeArgument)
}

func returnContext(ctx core.ValidationContext, label string) core.ValidationContext {
	return ctx.Nested(core.ReturnLabel+" of "+label, core.ErrorTypeReturn)
}

func arityError(ctx core.ValidationContext, label string, want, got int) error {
	return core.NewContractError(core.ErrorTypeArity, ctx.Function, label).
		WithDetail("? expected %d argument%s but got %d", want, utils.Plural(want), got)
}

// funcProxy is the body of a reflect.MakeFunc proxy around a Go function.
type funcProxy struct {
	fn     reflect.Value
	params []Validator
	ret    Validator
	ctx    core.ValidationContext
	label  string
}

func (p *funcProxy) call(in []reflect.Value) []reflect.Value {
	ft := p.fn.Type()
	fixed := ft.NumIn()
	args := in
	if ft.IsVariadic() {
		fixed--
		rest := in[fixed]
		args = make([]reflect.Value, 0, fixed+rest.Len())
		args = append(args, in[:fixed]...)
		for i := 0; i < rest.Len(); i++ {
			args = append(args, rest.Index(i))
		}
	}

	if p.params != nil {
		if len(args) != len(p.params) {
			return utils.Fail(ft, arityError(p.ctx, p.label, len(p.params), len(args)))
		}
		for i, arg := range args {
			validated, err := Validate(p.params[i], arg.Interface(), argumentContext(p.ctx, p.label, i))
			if err != nil {
				return utils.Fail(ft, err)
			}
			target := ft.In(min(i, ft.NumIn()-1))
			if i >= fixed && ft.IsVariadic() {
				target = target.Elem()
			}
			nv, err := utils.Assign(validated, target)
			if err != nil {
				return utils.Fail(ft, core.NewViolation(argumentContext(p.ctx, p.label, i), p.params[i].Describe(), typeName(validated), err.Error()))
			}
			args[i] = nv
		}
	}

	var out []reflect.Value
	if ft.IsVariadic() {
		rest := reflect.MakeSlice(ft.In(fixed), len(args)-fixed, len(args)-fixed)
		for i := fixed; i < len(args); i++ {
			rest.Index(i - fixed).Set(args[i])
		}
		out = p.fn.CallSlice(append(args[:fixed:fixed], rest))
	} else {
		out = p.fn.Call(args)
	}

	if p.ret == nil || utils.CallError(ft, out) != nil {
		return out
	}
	idx := utils.ResultIndex(ft)
	var result any
	if idx >= 0 {
		result = out[idx].Interface()
	}
	validated, err := Validate(p.ret, result, returnContext(p.ctx, p.label))
	if err != nil {
		return utils.Fail(ft, err)
	}
	if idx >= 0 {
		nv, err := utils.Assign(validated, ft.Out(idx))
		if err != nil {
			return utils.Fail(ft, core.NewViolation(returnContext(p.ctx, p.label), p.ret.Describe(), typeName(validated), err.Error()))
		}
		out[idx] = nv
	}
	return out
}

// callerProxy validates the arguments and result of a Caller with known arity.
type callerProxy struct {
	src    Caller
	arity  int
	params []Validator
	ret    Validator
	ctx    core.ValidationContext
	label  string
}

// Call implements Caller.
func (p *callerProxy) Call(args ...any) (any, error) {
	if p.params != nil {
		if len(args) != len(p.params) {
			return nil, arityError(p.ctx, p.label, len(p.params), len(args))
		}
		validated := make([]any, len(args))
		for i, arg := range args {
			v, err := Validate(p.params[i], arg, argumentContext(p.ctx, p.label, i))
			if err != nil {
				return nil, err
			}
			validated[i] = v
		}
		args = validated
	}

	result, err := p.src.Call(args...)
	if err != nil || p.ret == nil {
		return result, err
	}
	return Validate(p.ret, result, returnContext(p.ctx, p.label))
}

// Arity implements Arity.
func (p *callerProxy) Arity() int {
	return p.arity
}
