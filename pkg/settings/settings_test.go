package settings_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ag-ui/go-contracts/pkg/core"
	"github.com/ag-ui/go-contracts/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := settings.Default()
	assert.True(t, s.Enabled)
	assert.False(t, s.IgnoreSubclasses)
	assert.True(t, s.MatchSelf)
	assert.True(t, s.MatchArgs)
	assert.True(t, s.MatchVarargs)
	assert.False(t, s.MatchDefaults)
	assert.True(t, s.MatchReturn)
	assert.False(t, s.Coerce)

	for _, key := range settings.Keys() {
		_, err := s.Get(key)
		assert.NoError(t, err, key)
	}
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, settings.ErrUnknownSetting)
}

func TestSource_Precedence(t *testing.T) {
	src := settings.NewSource()
	require.NoError(t, src.Set(settings.KeyMatchReturn, false))
	require.NoError(t, src.Set(settings.KeyCoerce, true))
	require.NoError(t, src.SetScoped("billing", settings.KeyMatchReturn, true))
	require.NoError(t, src.SetScoped("billing", settings.KeyMatchArgs, false))

	tests := []struct {
		name      string
		scope     string
		overrides settings.Overrides
		check     func(t *testing.T, s settings.Settings)
	}{
		{
			name: "global over default",
			check: func(t *testing.T, s settings.Settings) {
				assert.False(t, s.MatchReturn)
				assert.True(t, s.Coerce)
				assert.True(t, s.MatchArgs)
			},
		},
		{
			name:  "scope over global",
			scope: "billing",
			check: func(t *testing.T, s settings.Settings) {
				assert.True(t, s.MatchReturn)
				assert.False(t, s.MatchArgs)
				assert.True(t, s.Coerce, "unset scope keys fall back to global")
			},
		},
		{
			name:      "call site over scope",
			scope:     "billing",
			overrides: settings.Overrides{settings.KeyMatchArgs: true, settings.KeyEnabled: false},
			check: func(t *testing.T, s settings.Settings) {
				assert.True(t, s.MatchArgs)
				assert.False(t, s.Enabled)
			},
		},
		{
			name:  "unknown scope",
			scope: "other",
			check: func(t *testing.T, s settings.Settings) {
				assert.False(t, s.MatchReturn)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := src.Resolve(tt.scope, tt.overrides)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestSource_Unset(t *testing.T) {
	src := settings.NewSource()
	require.NoError(t, src.Set(settings.KeyEnabled, false))
	require.NoError(t, src.SetScoped("a", settings.KeyEnabled, true))
	assert.Equal(t, []string{"a"}, src.Scopes())

	src.UnsetScoped("a", settings.KeyEnabled)
	assert.Empty(t, src.Scopes())
	assert.False(t, src.MustResolve("a", nil).Enabled)

	src.Unset(settings.KeyEnabled)
	assert.Equal(t, settings.Default(), src.MustResolve("a", nil))
}

func TestSource_Errors(t *testing.T) {
	src := settings.NewSource()

	err := src.Set("match_everything", true)
	assert.ErrorIs(t, err, settings.ErrUnknownSetting)
	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "match_everything", cfgErr.Field)

	assert.ErrorIs(t, src.SetScoped("s", settings.KeyEnabled, "yes"), settings.ErrInvalidSetting)

	_, err = src.Resolve("", settings.Overrides{settings.KeyEnabled: 1})
	assert.ErrorIs(t, err, settings.ErrInvalidSetting)

	assert.Panics(t, func() { src.MustResolve("", settings.Overrides{"bogus": true}) })
}

func TestSource_SnapshotIsolation(t *testing.T) {
	src := settings.NewSource()
	before := src.MustResolve("", nil)
	require.NoError(t, src.Set(settings.KeyEnabled, false))
	assert.True(t, before.Enabled)
	assert.False(t, src.MustResolve("", nil).Enabled)
}

func TestSource_Concurrent(t *testing.T) {
	src := settings.NewSource()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = src.SetScoped("s", settings.KeyCoerce, i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_, err := src.Resolve("s", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CONTRACTS_MATCH_RETURN", "false")
	t.Setenv("CONTRACTS_COERCE", "true")

	src := settings.NewSource()
	require.NoError(t, settings.LoadEnv(src))

	s := src.MustResolve("", nil)
	assert.False(t, s.MatchReturn)
	assert.True(t, s.Coerce)
	assert.True(t, s.Enabled, "unset variables keep the default")
}

func TestLoadEnv_Invalid(t *testing.T) {
	t.Setenv("CONTRACTS_ENABLED", "sometimes")

	err := settings.LoadEnv(settings.NewSource())
	assert.ErrorIs(t, err, settings.ErrInvalidSetting)
}

func TestLoadYAML(t *testing.T) {
	const file = `
global:
  ignore_subclasses: true
scopes:
  billing:
    match_return: false
  reports:
    enabled: false
`
	src := settings.NewSource()
	require.NoError(t, settings.LoadYAML(src, strings.NewReader(file)))
	assert.Equal(t, []string{"billing", "reports"}, src.Scopes())

	billing := src.MustResolve("billing", nil)
	assert.True(t, billing.IgnoreSubclasses)
	assert.False(t, billing.MatchReturn)
	assert.False(t, src.MustResolve("reports", nil).Enabled)

	t.Run("empty file", func(t *testing.T) {
		assert.NoError(t, settings.LoadYAML(settings.NewSource(), strings.NewReader("")))
	})

	t.Run("rejected as a whole", func(t *testing.T) {
		src := settings.NewSource()
		err := settings.LoadYAML(src, strings.NewReader("global:\n  enabled: false\nscopes:\n  s:\n    coerce: 1\n"))
		assert.ErrorIs(t, err, settings.ErrInvalidSetting)
		var cfgErr *core.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "s.coerce", cfgErr.Field)
		assert.True(t, src.MustResolve("", nil).Enabled, "nothing applied")
	})

	t.Run("malformed", func(t *testing.T) {
		err := settings.LoadYAML(settings.NewSource(), strings.NewReader("global: [\n"))
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, settings.LoadFile(settings.NewSource(), "does-not-exist.yaml"))
	})
}

func TestParseAssignment(t *testing.T) {
	key, value, err := settings.ParseAssignment("coerce = true")
	require.NoError(t, err)
	assert.Equal(t, settings.KeyCoerce, key)
	assert.True(t, value)

	_, _, err = settings.ParseAssignment("coerce")
	assert.ErrorIs(t, err, settings.ErrInvalidSetting)
	_, _, err = settings.ParseAssignment("coerce=maybe")
	assert.ErrorIs(t, err, settings.ErrInvalidSetting)
	_, _, err = settings.ParseAssignment("strict=true")
	assert.ErrorIs(t, err, settings.ErrUnknownSetting)

	assert.Equal(t, "CONTRACTS_MATCH_VARARGS", settings.EnvVar(settings.KeyMatchVarargs))
}
