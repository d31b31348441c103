package wrapper

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ag-ui/go-contracts/internal/utils"
	"github.com/ag-ui/go-contracts/pkg/core"
	"github.com/ag-ui/go-contracts/pkg/settings"
	"github.com/ag-ui/go-contracts/pkg/shape"
	"github.com/ag-ui/go-contracts/pkg/validator"
)

// Stats counts the calls made through a wrapper.
type Stats struct {
	Calls      int64
	Violations int64
	Bypassed   int64
}

// state is shared by a wrapper and the copies returned by Bind. Everything
// except the counters is written once, inside once.
type state struct {
	once     sync.Once
	settings settings.Settings
	params   []validator.Validator
	ret      validator.Validator
	err      error

	calls      atomic.Int64
	violations atomic.Int64
	bypassed   atomic.Int64
}

// Func is a function wrapped with a contract. It starts unbound; the first
// call, Prepare or Interface resolves its settings and compiles its shapes,
// and the result (or the compile error) is kept for every later call.
// Shapes are compiled whether or not contracts are enabled.
type Func struct {
	fn        reflect.Value
	sig       Signature
	cfg       config
	name      string
	qualified string
	id        uuid.UUID
	logger    logrus.FieldLogger
	state     *state

	recv  any
	bound bool
}

// New wraps fn, a function matching sig. Shapes are not compiled until the
// wrapper is first used.
func New(fn any, sig Signature, opts ...Option) (*Func, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrInvalidSignature, fn)
	}

	cfg := config{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &Func{
		fn:        rv,
		sig:       sig,
		cfg:       cfg,
		name:      cfg.name,
		qualified: utils.FuncName(rv),
		id:        uuid.New(),
		state:     &state{},
	}
	if f.name == "" {
		f.name = utils.ShortName(f.qualified)
	}
	f.logger = cfg.logger.WithFields(logrus.Fields{
		"function":   f.name,
		"wrapper_id": f.id.String(),
	})

	if err := sig.check(rv.Type()); err != nil {
		return nil, f.attribute(err, "")
	}
	return f, nil
}

// Wrap wraps fn and prepares it immediately, so shape errors surface here
// even when the resolved settings disable contracts.
func Wrap(fn any, sig Signature, opts ...Option) (*Func, error) {
	f, err := New(fn, sig, opts...)
	if err != nil {
		return nil, err
	}
	if err := f.Prepare(); err != nil {
		return nil, err
	}
	return f, nil
}

// Must is like Wrap but panics on error.
func Must(fn any, sig Signature, opts ...Option) *Func {
	f, err := Wrap(fn, sig, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// As returns the typed checked function of f, which must have type F.
func As[F any](f *Func) (F, error) {
	var zero F
	if err := f.Prepare(); err != nil {
		return zero, err
	}
	fn, ok := f.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("%w: %s is not %s", ErrInvalidSignature, f.typedType(), reflect.TypeOf((*F)(nil)).Elem())
	}
	return fn, nil
}

// Prepare resolves settings and compiles the contract. It is safe to call
// more than once; every call returns the first result.
func (f *Func) Prepare() error {
	f.state.once.Do(f.compile)
	return f.state.err
}

func (f *Func) compile() {
	st := f.state
	s, err := f.resolveSettings()
	if err != nil {
		st.err = err
		return
	}
	st.settings = s

	opts := shape.FromSettings(s)
	st.params = make([]validator.Validator, len(f.sig.Params))
	for i, p := range f.sig.Params {
		if !p.Annotated {
			continue
		}
		v, err := shape.Compile(p.Shape, opts)
		if err != nil {
			st.err = f.attribute(err, p.Name)
			return
		}
		st.params[i] = v
	}
	if f.sig.ReturnAnnotated {
		v, err := shape.Compile(f.sig.Return, opts)
		if err != nil {
			st.err = f.attribute(err, core.ReturnLabel)
			return
		}
		st.ret = v
	}

	if !s.Enabled {
		f.logger.Debug("contracts disabled; calls go straight through")
		return
	}
	f.logger.WithField("scope", f.cfg.scope).Debug("contract compiled")
}

func (f *Func) resolveSettings() (settings.Settings, error) {
	if f.cfg.snapshot != nil {
		return *f.cfg.snapshot, nil
	}
	src := f.cfg.source
	if src == nil {
		src = settings.Global()
	}
	return src.Resolve(f.cfg.scope, f.cfg.overrides)
}

// attribute names the function, and the parameter when given, on contract
// errors produced outside a call.
func (f *Func) attribute(err error, param string) error {
	var ce *core.ContractError
	if !errors.As(err, &ce) {
		return err
	}
	out := *ce
	out.Function = f.name
	if param != "" && out.Param == "" {
		out.Param = param
	}
	return &out
}

// Call invokes the function with positional arguments. It returns the
// function's result (nil when it has none, []any when it has several) and
// either the function's own error or a *core.ContractError.
func (f *Func) Call(args ...any) (any, error) {
	return f.CallKw(args, nil)
}

// CallKw invokes the function with positional and keyword arguments.
// Keywords bind parameters by name; unmatched keywords go to the Kwargs
// parameter. Omitted parameters take their defaults.
func (f *Func) CallKw(args []any, kwargs map[string]any) (any, error) {
	if err := f.Prepare(); err != nil {
		return nil, err
	}
	if f.bound {
		args = append([]any{f.recv}, args...)
	}

	b, err := f.sig.Bind(args, kwargs)
	if err != nil {
		return nil, f.attribute(err, "")
	}
	out, err := f.invoke(b)
	if err != nil {
		return nil, err
	}

	ft := f.fn.Type()
	callErr := utils.CallError(ft, out)
	values := out[:utils.ValueResults(ft)]
	switch len(values) {
	case 0:
		return nil, callErr
	case 1:
		return values[0].Interface(), callErr
	}
	return utils.Interfaces(values), callErr
}

// Interface returns a function with the wrapped function's type (minus the
// receiver for bound wrappers) that checks the contract on every call.
// Violations are returned through a trailing error result when the function
// has one and panic otherwise. When contracts are disabled the original
// function is returned.
func (f *Func) Interface() any {
	if err := f.Prepare(); err == nil && !f.state.settings.Enabled && !f.bound {
		return f.fn.Interface()
	}
	return reflect.MakeFunc(f.typedType(), f.typedCall).Interface()
}

func (f *Func) typedType() reflect.Type {
	ft := f.fn.Type()
	if !f.bound {
		return ft
	}
	in := make([]reflect.Type, ft.NumIn()-1)
	for i := range in {
		in[i] = ft.In(i + 1)
	}
	out := make([]reflect.Type, ft.NumOut())
	for i := range out {
		out[i] = ft.Out(i)
	}
	return reflect.FuncOf(in, out, ft.IsVariadic())
}

func (f *Func) typedCall(in []reflect.Value) []reflect.Value {
	ft := f.fn.Type()
	if err := f.Prepare(); err != nil {
		return utils.Fail(ft, err)
	}
	if f.bound {
		recv, err := utils.Assign(f.recv, ft.In(0))
		if err != nil {
			return utils.Fail(ft, f.attribute(bindError("receiver", "?: %s", err), ""))
		}
		in = append([]reflect.Value{recv}, in...)
	}

	if !f.state.settings.Enabled {
		f.state.calls.Add(1)
		f.state.bypassed.Add(1)
		return callFunc(f.fn, in)
	}

	out, err := f.invoke(f.sig.bindPhysical(in))
	if err != nil {
		return utils.Fail(ft, err)
	}
	return out
}

// invoke checks the bound arguments, calls the function and checks its
// result.
func (f *Func) invoke(b *BoundArguments) ([]reflect.Value, error) {
	st := f.state
	st.calls.Add(1)
	enabled := st.settings.Enabled

	if enabled {
		if err := f.checkArguments(b); err != nil {
			return nil, f.violation(err)
		}
	} else {
		st.bypassed.Add(1)
	}

	ft := f.fn.Type()
	in, err := b.physical(ft)
	if err != nil {
		return nil, f.attribute(err, "")
	}
	out := callFunc(f.fn, in)

	if enabled {
		if err := f.checkResult(out); err != nil {
			return nil, f.violation(err)
		}
	}
	return out, nil
}

func callFunc(fn reflect.Value, in []reflect.Value) []reflect.Value {
	if fn.Type().IsVariadic() {
		return fn.CallSlice(in)
	}
	return fn.Call(in)
}

func (f *Func) checkArguments(b *BoundArguments) error {
	s := f.state.settings
	if s.MatchArgs {
		for i, p := range f.sig.Params {
			v := f.state.params[i]
			if v == nil {
				continue
			}
			switch p.Kind {
			case VariadicPositional:
				if !s.MatchVarargs {
					continue
				}
				items, _ := b.Values[i].([]any)
				ctx := core.ArgumentContext(f.name, varargsLabel(p.Name))
				for j, item := range items {
					validated, err := validator.Validate(v, item, ctx)
					if err != nil {
						return err
					}
					items[j] = validated
				}
			case Positional:
				validated, err := validator.Validate(v, b.Values[i], core.ArgumentContext(f.name, p.Name))
				if err != nil {
					return err
				}
				b.Values[i] = validated
			}
		}
	}

	if f.sig.Receiver != nil && s.MatchSelf && !f.receiverMatches(b.Receiver) {
		e := core.NewContractError(core.ErrorTypeReceiver, f.name, "receiver")
		e.Expected = "instance of " + f.sig.Receiver.String()
		e.Observed = utils.TypeName(b.Receiver)
		return e
	}
	return nil
}

func (f *Func) receiverMatches(recv any) bool {
	if recv == nil {
		return false
	}
	t := reflect.TypeOf(recv)
	if t == f.sig.Receiver {
		return true
	}
	return !f.state.settings.IgnoreSubclasses && t.AssignableTo(f.sig.Receiver)
}

func (f *Func) checkResult(out []reflect.Value) error {
	st := f.state
	ft := f.fn.Type()
	if !st.settings.MatchReturn || st.ret == nil || utils.CallError(ft, out) != nil {
		return nil
	}

	ctx := core.ReturnContext(f.name)
	idx := utils.ResultIndex(ft)
	var result any
	if idx >= 0 {
		result = out[idx].Interface()
	}
	validated, err := validator.Validate(st.ret, result, ctx)
	if err != nil {
		return err
	}
	if idx >= 0 {
		v, err := utils.Assign(validated, ft.Out(idx))
		if err != nil {
			return core.NewViolation(ctx, st.ret.Describe(), utils.TypeName(validated), "?: "+err.Error())
		}
		out[idx] = v
	}
	return nil
}

func (f *Func) violation(err error) error {
	f.state.violations.Add(1)
	entry := f.logger.WithError(err)
	var ce *core.ContractError
	if errors.As(err, &ce) {
		entry = entry.WithField("param", ce.Param)
	}
	entry.Debug("contract violated")
	return err
}

// Bind returns a wrapper for the method bound to recv. The receiver is
// checked on every call when match_self is set.
func (f *Func) Bind(recv any) (*Func, error) {
	if f.sig.Receiver == nil {
		return nil, fmt.Errorf("%w: %s has no receiver", ErrInvalidSignature, f.name)
	}
	bound := *f
	bound.recv = recv
	bound.bound = true
	return &bound, nil
}

// Name returns the name used in diagnostics.
func (f *Func) Name() string { return f.name }

// QualifiedName returns the package-qualified name of the wrapped function.
func (f *Func) QualifiedName() string { return f.qualified }

// Doc returns the documentation set with WithDoc.
func (f *Func) Doc() string { return f.cfg.doc }

// Signature returns the signature the wrapper was built with.
func (f *Func) Signature() Signature { return f.sig }

// ID identifies the wrapper in logs. Bound copies share it.
func (f *Func) ID() string { return f.id.String() }

// Unwrap returns the wrapped function.
func (f *Func) Unwrap() any { return f.fn.Interface() }

// Settings returns the resolved settings snapshot. It prepares the wrapper
// first; the zero value is returned if settings could not be resolved.
func (f *Func) Settings() settings.Settings {
	_ = f.Prepare()
	return f.state.settings
}

// Stats returns the wrapper's call counters.
func (f *Func) Stats() Stats {
	return Stats{
		Calls:      f.state.calls.Load(),
		Violations: f.state.violations.Load(),
		Bypassed:   f.state.bypassed.Load(),
	}
}
