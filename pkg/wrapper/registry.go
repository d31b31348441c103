package wrapper

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrNotRegistered is returned for names the registry does not know.
var ErrNotRegistered = errors.New("function not registered")

// Registry manages a named collection of wrapped functions.
// It provides thread-safe registration, lookup and bulk preparation.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*Func

	// validators for custom registration rules
	validators []RegistryValidator
}

// RegistryValidator is a function that validates wrappers during registration.
type RegistryValidator func(f *Func) error

// Filter selects wrappers in List.
type Filter struct {
	// Name matches the wrapper name exactly, or as a substring when it contains '*'
	Name string

	// Keywords must all appear in the name or documentation (case-insensitive)
	Keywords []string
}

// NewRegistry creates a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs:      make(map[string]*Func),
		validators: []RegistryValidator{},
	}
}

// Register adds a wrapper under its name.
// It returns an error if a wrapper with the same name already exists.
func (r *Registry) Register(f *Func) error {
	if f == nil {
		return fmt.Errorf("wrapper cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, validate := range r.validators {
		if err := validate(f); err != nil {
			return fmt.Errorf("custom validation failed: %w", err)
		}
	}

	if existing, exists := r.funcs[f.Name()]; exists {
		return fmt.Errorf("function %q already registered (ID: %s)", f.Name(), existing.ID())
	}
	r.funcs[f.Name()] = f
	return nil
}

// Unregister removes a wrapper.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; !exists {
		return fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	delete(r.funcs, name)
	return nil
}

// Get retrieves a wrapper by name.
func (r *Registry) Get(name string) (*Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.funcs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return f, nil
}

// List returns the wrappers matching filter, sorted by name.
// A nil filter matches every wrapper.
func (r *Registry) List(filter *Filter) []*Func {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*Func
	for _, f := range r.funcs {
		if filter == nil || matchesFilter(f, filter) {
			results = append(results, f)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name() < results[j].Name()
	})
	return results
}

// Count returns the number of registered wrappers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}

// Clear removes all wrappers from the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs = make(map[string]*Func)
}

// AddValidator adds a custom validation function that will be run
// during registration.
func (r *Registry) AddValidator(validate RegistryValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators = append(r.validators, validate)
}

// Call invokes the named wrapper with positional arguments.
func (r *Registry) Call(name string, args ...any) (any, error) {
	f, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return f.Call(args...)
}

// Prepare compiles every registered wrapper concurrently and returns the
// first error, so bad shapes are reported at startup instead of on the
// first call.
func (r *Registry) Prepare(ctx context.Context) error {
	funcs := r.List(nil)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, f := range funcs {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f.Prepare(); err != nil {
				return fmt.Errorf("function %q failed to prepare: %w", f.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// matchesFilter checks if a wrapper matches the given filter criteria.
func matchesFilter(f *Func, filter *Filter) bool {
	if filter.Name != "" {
		if strings.Contains(filter.Name, "*") {
			pattern := strings.ReplaceAll(filter.Name, "*", "")
			if !strings.Contains(f.Name(), pattern) {
				return false
			}
		} else if f.Name() != filter.Name {
			return false
		}
	}

	if len(filter.Keywords) > 0 {
		searchText := strings.ToLower(f.Name() + " " + f.Doc())
		for _, keyword := range filter.Keywords {
			if !strings.Contains(searchText, strings.ToLower(keyword)) {
				return false
			}
		}
	}
	return true
}
