package wrapper

import (
	"reflect"
	"sort"

	"github.com/ag-ui/go-contracts/internal/utils"
	"github.com/ag-ui/go-contracts/pkg/core"
)

// BoundArguments maps the arguments of one call onto a signature's
// parameters. Values holds one entry per parameter: the argument for a
// positional parameter, the items ([]any) for a variadic parameter and the
// collected keywords for a keyword parameter.
type BoundArguments struct {
	Receiver    any
	HasReceiver bool
	Values      []any

	// Defaulted marks positional parameters filled from their default
	Defaulted []bool

	sig Signature
}

// Get returns the bound value of the named parameter.
func (b *BoundArguments) Get(name string) (any, bool) {
	for i, p := range b.sig.Params {
		if p.Name == name {
			return b.Values[i], true
		}
	}
	return nil, false
}

func bindError(param, format string, args ...any) *core.ContractError {
	return core.NewContractError(core.ErrorTypeBinding, "", param).WithDetail(format, args...)
}

// Bind maps positional and keyword arguments onto the signature and applies
// defaults. When the signature has a receiver, args[0] is the receiver.
func (s Signature) Bind(args []any, kwargs map[string]any) (*BoundArguments, error) {
	n := len(s.Params)
	b := &BoundArguments{
		Values:    make([]any, n),
		Defaulted: make([]bool, n),
		sig:       s,
	}

	if s.Receiver != nil {
		if len(args) == 0 {
			return nil, bindError("receiver", "missing receiver")
		}
		b.Receiver, b.HasReceiver = args[0], true
		args = args[1:]
	}

	filled := make([]bool, n)
	variadic := -1
	if _, ok := s.variadic(); ok {
		variadic = n - 1
	}
	items := []any{}

	pos := 0
	for _, arg := range args {
		for pos < n && s.Params[pos].Kind != Positional {
			pos++
		}
		if pos < n {
			b.Values[pos] = arg
			filled[pos] = true
			pos++
			continue
		}
		if variadic < 0 {
			return nil, bindError("", "too many positional arguments: takes %d, got %d", s.positionalCount(), len(args))
		}
		items = append(items, arg)
	}

	keywordIndex, hasKeywords := s.keyword()
	extra := make(map[string]any)
	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		idx := s.positionalIndex(name)
		switch {
		case idx >= 0 && filled[idx]:
			return nil, bindError(name, "multiple values for argument ?")
		case idx >= 0:
			b.Values[idx] = kwargs[name]
			filled[idx] = true
		case hasKeywords:
			extra[name] = kwargs[name]
		default:
			return nil, bindError(name, "unexpected keyword argument ?")
		}
	}

	for i, p := range s.Params {
		if p.Kind != Positional || filled[i] {
			continue
		}
		if !p.HasDefault {
			return nil, bindError(p.Name, "missing argument ?")
		}
		b.Values[i] = p.Default
		b.Defaulted[i] = true
	}
	if variadic >= 0 {
		b.Values[variadic] = items
	}
	if hasKeywords {
		b.Values[keywordIndex] = extra
	}
	return b, nil
}

func (s Signature) positionalIndex(name string) int {
	for i, p := range s.Params {
		if p.Kind == Positional && p.Name == name {
			return i
		}
	}
	return -1
}

func (s Signature) positionalCount() int {
	count := 0
	for _, p := range s.Params {
		if p.Kind == Positional {
			count++
		}
	}
	return count
}

// bindPhysical captures the arguments of a typed call.
func (s Signature) bindPhysical(in []reflect.Value) *BoundArguments {
	n := len(s.Params)
	b := &BoundArguments{
		Values:    make([]any, n),
		Defaulted: make([]bool, n),
		sig:       s,
	}
	off := s.offset()
	if off == 1 {
		b.Receiver, b.HasReceiver = in[0].Interface(), true
	}
	for i, p := range s.Params {
		v := in[off+i]
		if p.Kind == VariadicPositional {
			items := make([]any, v.Len())
			for j := range items {
				items[j] = v.Index(j).Interface()
			}
			b.Values[i] = items
			continue
		}
		b.Values[i] = v.Interface()
	}
	return b
}

// physical converts bound values into call arguments for ft.
func (b *BoundArguments) physical(ft reflect.Type) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, ft.NumIn())
	off := b.sig.offset()
	if off == 1 {
		v, err := utils.Assign(b.Receiver, ft.In(0))
		if err != nil {
			return nil, bindError("receiver", "?: %s", err)
		}
		in = append(in, v)
	}

	for i, p := range b.sig.Params {
		t := ft.In(off + i)
		switch p.Kind {
		case VariadicPositional:
			items, _ := b.Values[i].([]any)
			slice := reflect.MakeSlice(t, len(items), len(items))
			for j, item := range items {
				v, err := utils.Assign(item, t.Elem())
				if err != nil {
					return nil, bindError(varargsLabel(p.Name), "?: %s", err)
				}
				slice.Index(j).Set(v)
			}
			in = append(in, slice)
		case VariadicKeyword:
			v, err := assignMap(b.Values[i], t)
			if err != nil {
				return nil, bindError(p.Name, "?: %s", err)
			}
			in = append(in, v)
		default:
			v, err := utils.Assign(b.Values[i], t)
			if err != nil {
				return nil, bindError(p.Name, "?: %s", err)
			}
			in = append(in, v)
		}
	}
	return in, nil
}

func assignMap(value any, t reflect.Type) (reflect.Value, error) {
	if v, err := utils.Assign(value, t); err == nil {
		return v, nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return utils.Assign(value, t)
	}
	out := reflect.MakeMapWithSize(t, len(m))
	for k, item := range m {
		v, err := utils.Assign(item, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), v)
	}
	return out, nil
}

func varargsLabel(name string) string {
	return "items on *" + name
}
