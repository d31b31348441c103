package wrapper

import (
	"github.com/sirupsen/logrus"

	"github.com/ag-ui/go-contracts/pkg/settings"
)

type config struct {
	name      string
	doc       string
	snapshot  *settings.Settings
	source    *settings.Source
	scope     string
	overrides settings.Overrides
	logger    logrus.FieldLogger
}

// Option configures a wrapper.
type Option func(*config)

// WithSettings fixes the settings snapshot, bypassing every settings source.
func WithSettings(s settings.Settings) Option {
	return func(c *config) {
		c.snapshot = &s
	}
}

// WithSource resolves settings from src for scope, with overrides taking
// precedence over every layer. Without it the process-wide source is used
// with no scope.
func WithSource(src *settings.Source, scope string, overrides settings.Overrides) Option {
	return func(c *config) {
		c.source = src
		c.scope = scope
		c.overrides = overrides
	}
}

// WithName sets the name used in diagnostics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithDoc attaches documentation to the wrapper.
func WithDoc(doc string) Option {
	return func(c *config) {
		c.doc = doc
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
