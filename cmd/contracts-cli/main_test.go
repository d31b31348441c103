package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ag-ui/go-contracts/pkg/settings"
)

func TestRun_Keys(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"keys"}, &out))
	assert.Contains(t, out.String(), "match_return")
	assert.Contains(t, out.String(), "CONTRACTS_MATCH_RETURN")
}

func TestRun_Settings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scopes:\n  billing:\n    match_return: false\n"), 0o600))

	var out bytes.Buffer
	err := run([]string{"settings", "-env=false", "-config", path, "-scope", "billing", "-set", "coerce=true"}, &out)
	require.NoError(t, err)

	var got settings.Settings
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	want := settings.Default()
	want.MatchReturn = false
	want.Coerce = true
	assert.Equal(t, want, got)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"deploy"}, &out))
	assert.Error(t, run([]string{"settings", "-env=false", "-set", "bogus=true"}, &out))
	assert.Error(t, run([]string{"settings", "-env=false", "-config", "missing.yaml"}, &out))

	out.Reset()
	require.NoError(t, run(nil, &out))
	assert.Contains(t, out.String(), "Available Commands")
}
