package settings

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/sirupsen/logrus"
)

// Source holds the global and per-scope settings layers. A snapshot is
// resolved by merging, in increasing precedence, the built-in defaults, the
// global layer, the scope's layer and call-site overrides.
type Source struct {
	mu     sync.RWMutex
	global map[string]bool
	scopes map[string]map[string]bool
	logger logrus.FieldLogger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithLogger sets the logger used for settings changes.
func WithLogger(logger logrus.FieldLogger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates an empty settings source.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		global: make(map[string]bool),
		scopes: make(map[string]map[string]bool),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSource = NewSource()

// Global returns the process-wide settings source.
func Global() *Source {
	return defaultSource
}

// Set sets a global setting.
func (s *Source) Set(key string, value any) error {
	if err := checkSetting(key, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.global[key] = value.(bool)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"key": key, "value": value}).Debug("global setting changed")
	return nil
}

// SetScoped sets a setting for a single scope.
func (s *Source) SetScoped(scope, key string, value any) error {
	if err := checkSetting(key, value); err != nil {
		return err
	}

	s.mu.Lock()
	layer, ok := s.scopes[scope]
	if !ok {
		layer = make(map[string]bool)
		s.scopes[scope] = layer
	}
	layer[key] = value.(bool)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"scope": scope, "key": key, "value": value}).Debug("scoped setting changed")
	return nil
}

// Unset removes a global setting so lower layers apply again.
func (s *Source) Unset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.global, key)
}

// UnsetScoped removes a setting from a scope.
func (s *Source) UnsetScoped(scope, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layer, ok := s.scopes[scope]; ok {
		delete(layer, key)
		if len(layer) == 0 {
			delete(s.scopes, scope)
		}
	}
}

// Scopes lists the scopes that carry at least one setting.
func (s *Source) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.scopes))
	for name := range s.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the snapshot for scope with overrides applied on top.
// An empty scope selects no scope layer.
func (s *Source) Resolve(scope string, overrides Overrides) (Settings, error) {
	if err := overrides.Validate(); err != nil {
		return Settings{}, err
	}

	doc, err := json.Marshal(Default())
	if err != nil {
		return Settings{}, fmt.Errorf("failed to encode default settings: %w", err)
	}

	s.mu.RLock()
	layers := []map[string]any{copyLayer(s.global), copyLayer(s.scopes[scope])}
	s.mu.RUnlock()
	layers = append(layers, overrides)

	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if doc, err = mergeLayer(doc, layer); err != nil {
			return Settings{}, err
		}
	}

	var resolved Settings
	if err := json.Unmarshal(doc, &resolved); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"scope": scope, "settings": resolved}).Debug("settings resolved")
	return resolved, nil
}

// MustResolve is like Resolve but panics on invalid overrides.
func (s *Source) MustResolve(scope string, overrides Overrides) Settings {
	resolved, err := s.Resolve(scope, overrides)
	if err != nil {
		panic(err)
	}
	return resolved
}

func copyLayer(layer map[string]bool) map[string]any {
	out := make(map[string]any, len(layer))
	for k, v := range layer {
		out[k] = v
	}
	return out
}

func mergeLayer(doc []byte, layer map[string]any) ([]byte, error) {
	patch, err := json.Marshal(layer)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings layer: %w", err)
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to merge settings layer: %w", err)
	}
	return merged, nil
}
