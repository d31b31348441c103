package settings

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ag-ui/go-contracts/pkg/core"
)

// Setting keys, as used in overrides, YAML files and JSON layers.
const (
	KeyEnabled          = "enabled"
	KeyIgnoreSubclasses = "ignore_subclasses"
	KeyMatchSelf        = "match_self"
	KeyMatchArgs        = "match_args"
	KeyMatchVarargs     = "match_varargs"
	KeyMatchDefaults    = "match_defaults"
	KeyMatchReturn      = "match_return"
	KeyCoerce           = "coerce"
)

var keys = []string{
	KeyEnabled,
	KeyIgnoreSubclasses,
	KeyMatchSelf,
	KeyMatchArgs,
	KeyMatchVarargs,
	KeyMatchDefaults,
	KeyMatchReturn,
	KeyCoerce,
}

// Errors reported for bad setting layers. Both are wrapped in a
// *core.ConfigError naming the offending key.
var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("setting value must be a bool")
)

// Settings is a resolved snapshot of the flags that gate contract checks.
// Snapshots are plain values; changing a Source never affects one already
// resolved.
type Settings struct {
	// Enabled turns all checking on or off; when off wrapped functions are called directly
	Enabled bool `json:"enabled" yaml:"enabled"`

	// IgnoreSubclasses makes type shapes require an exact type match
	IgnoreSubclasses bool `json:"ignore_subclasses" yaml:"ignore_subclasses"`

	// MatchSelf checks the receiver of wrapped methods
	MatchSelf bool `json:"match_self" yaml:"match_self"`

	// MatchArgs checks arguments
	MatchArgs bool `json:"match_args" yaml:"match_args"`

	// MatchVarargs checks each item of a variadic parameter
	MatchVarargs bool `json:"match_varargs" yaml:"match_varargs"`

	// MatchDefaults is reserved; default values are never checked
	MatchDefaults bool `json:"match_defaults" yaml:"match_defaults"`

	// MatchReturn checks results
	MatchReturn bool `json:"match_return" yaml:"match_return"`

	// Coerce lets type shapes convert mismatched values
	Coerce bool `json:"coerce" yaml:"coerce"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Enabled:      true,
		MatchSelf:    true,
		MatchArgs:    true,
		MatchVarargs: true,
		MatchReturn:  true,
	}
}

// Keys lists every setting key in declaration order.
func Keys() []string {
	return append([]string(nil), keys...)
}

// Get returns the value of a setting by key.
func (s Settings) Get(key string) (bool, error) {
	switch key {
	case KeyEnabled:
		return s.Enabled, nil
	case KeyIgnoreSubclasses:
		return s.IgnoreSubclasses, nil
	case KeyMatchSelf:
		return s.MatchSelf, nil
	case KeyMatchArgs:
		return s.MatchArgs, nil
	case KeyMatchVarargs:
		return s.MatchVarargs, nil
	case KeyMatchDefaults:
		return s.MatchDefaults, nil
	case KeyMatchReturn:
		return s.MatchReturn, nil
	case KeyCoerce:
		return s.Coerce, nil
	}
	return false, &core.ConfigError{Field: key, Err: ErrUnknownSetting}
}

// Overrides is a partial settings layer keyed by setting name. Values must
// be bools.
type Overrides map[string]any

// Validate checks every key and value of the layer.
func (o Overrides) Validate() error {
	for key, value := range o {
		if err := checkSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}

func checkSetting(key string, value any) error {
	if !slices.Contains(keys, key) {
		return &core.ConfigError{Field: key, Value: value, Err: ErrUnknownSetting}
	}
	if _, ok := value.(bool); !ok {
		return &core.ConfigError{Field: key, Value: value, Err: fmt.Errorf("%w, got %T", ErrInvalidSetting, value)}
	}
	return nil
}

// EnvVar returns the environment variable that sets key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ParseAssignment parses a "key=value" override such as "coerce=true".
func ParseAssignment(s string) (string, bool, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", false, &core.ConfigError{Field: s, Err: fmt.Errorf("%w: expected key=value", ErrInvalidSetting)}
	}
	key = strings.TrimSpace(key)
	if !slices.Contains(keys, key) {
		return "", false, &core.ConfigError{Field: key, Value: raw, Err: ErrUnknownSetting}
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return "", false, &core.ConfigError{Field: key, Value: raw, Err: fmt.Errorf("%w: %v", ErrInvalidSetting, err)}
	}
	return key, value, nil
}
