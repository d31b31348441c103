package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ag-ui/go-contracts/pkg/core"
)

// EnvPrefix prefixes every settings environment variable.
const EnvPrefix = "CONTRACTS_"

var dotenvLoaded sync.Once

// envLayer mirrors Settings with optional fields so unset variables leave
// lower layers in effect.
type envLayer struct {
	Enabled          *bool `env:"ENABLED"`
	IgnoreSubclasses *bool `env:"IGNORE_SUBCLASSES"`
	MatchSelf        *bool `env:"MATCH_SELF"`
	MatchArgs        *bool `env:"MATCH_ARGS"`
	MatchVarargs     *bool `env:"MATCH_VARARGS"`
	MatchDefaults    *bool `env:"MATCH_DEFAULTS"`
	MatchReturn      *bool `env:"MATCH_RETURN"`
	Coerce           *bool `env:"COERCE"`
}

func (l envLayer) values() map[string]*bool {
	return map[string]*bool{
		KeyEnabled:          l.Enabled,
		KeyIgnoreSubclasses: l.IgnoreSubclasses,
		KeyMatchSelf:        l.MatchSelf,
		KeyMatchArgs:        l.MatchArgs,
		KeyMatchVarargs:     l.MatchVarargs,
		KeyMatchDefaults:    l.MatchDefaults,
		KeyMatchReturn:      l.MatchReturn,
		KeyCoerce:           l.Coerce,
	}
}

// LoadEnv sets the global layer of src from CONTRACTS_* environment
// variables. A .env file in the working directory is loaded once per
// process; it never overrides variables that are already set.
func LoadEnv(src *Source) error {
	dotenvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	var layer envLayer
	if err := env.ParseWithOptions(&layer, env.Options{Prefix: EnvPrefix}); err != nil {
		return &core.ConfigError{Field: EnvPrefix + "*", Err: fmt.Errorf("%w: %v", ErrInvalidSetting, err)}
	}

	loaded := 0
	for key, value := range layer.values() {
		if value == nil {
			continue
		}
		if err := src.Set(key, *value); err != nil {
			return err
		}
		loaded++
	}

	src.logger.WithField("count", loaded).Debug("settings loaded from environment")
	return nil
}

// File is the YAML layout of a settings file:
//
//	global:
//	  coerce: true
//	scopes:
//	  billing:
//	    match_return: false
type File struct {
	Global map[string]any            `yaml:"global"`
	Scopes map[string]map[string]any `yaml:"scopes"`
}

// LoadYAML reads a settings file into src. The file is validated as a
// whole before any layer is changed.
func LoadYAML(src *Source, r io.Reader) error {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return &core.ConfigError{Field: "yaml", Err: fmt.Errorf("failed to decode settings file: %w", err)}
	}

	if err := Overrides(f.Global).Validate(); err != nil {
		return err
	}
	for scope, layer := range f.Scopes {
		if err := Overrides(layer).Validate(); err != nil {
			var cfgErr *core.ConfigError
			if errors.As(err, &cfgErr) {
				cfgErr.Field = scope + "." + cfgErr.Field
			}
			return err
		}
	}

	for key, value := range f.Global {
		if err := src.Set(key, value); err != nil {
			return err
		}
	}
	for scope, layer := range f.Scopes {
		for key, value := range layer {
			if err := src.SetScoped(scope, key, value); err != nil {
				return err
			}
		}
	}

	src.logger.WithFields(logrus.Fields{"global": len(f.Global), "scopes": len(f.Scopes)}).Debug("settings loaded from file")
	return nil
}

// LoadFile opens path and loads it with LoadYAML.
func LoadFile(src *Source, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &core.ConfigError{Field: "file", Value: path, Err: err}
	}
	defer f.Close()
	return LoadYAML(src, f)
}
