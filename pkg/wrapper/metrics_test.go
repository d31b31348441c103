package wrapper_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui/go-contracts/pkg/settings"
	"github.com/ag-ui/go-contracts/pkg/wrapper"
)

func TestCollector(t *testing.T) {
	reg := wrapper.NewRegistry()
	collector := wrapper.NewCollector(reg, "")

	promReg := prometheus.NewPedanticRegistry()
	require.NoError(t, promReg.Register(collector))
	assert.Equal(t, 0, testutil.CollectAndCount(collector))

	checked := createTestFunc(t, "checked", "")
	require.NoError(t, reg.Register(checked))

	off := settings.Default()
	off.Enabled = false
	skipped := wrapper.Must(func(x int) int { return x },
		wrapper.Sig(wrapper.Arg("x", intShape)),
		wrapper.WithSettings(off), wrapper.WithName("skipped"))
	require.NoError(t, reg.Register(skipped))

	_, err := reg.Call("checked", 1)
	require.NoError(t, err)
	_, err = reg.Call("checked", "one")
	require.Error(t, err)
	_, err = reg.Call("skipped", 2)
	require.NoError(t, err)

	assert.Equal(t, 6, testutil.CollectAndCount(collector))

	expected := `
# HELP contracts_calls_total Total number of calls made through a wrapped function
# TYPE contracts_calls_total counter
contracts_calls_total{function="checked"} 2
contracts_calls_total{function="skipped"} 1
# HELP contracts_violations_total Total number of contract violations raised by a wrapped function
# TYPE contracts_violations_total counter
contracts_violations_total{function="checked"} 1
contracts_violations_total{function="skipped"} 0
`
	err = testutil.GatherAndCompare(promReg, strings.NewReader(expected),
		"contracts_calls_total", "contracts_violations_total")
	assert.NoError(t, err)
}

func TestCollector_Namespace(t *testing.T) {
	reg := wrapper.NewRegistry()
	require.NoError(t, reg.Register(createTestFunc(t, "one", "")))

	collector := wrapper.NewCollector(reg, "app")
	expected := `
# HELP app_contracts_bypassed_total Total number of calls that skipped checking because contracts were disabled
# TYPE app_contracts_bypassed_total counter
app_contracts_bypassed_total{function="one"} 0
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected), "app_contracts_bypassed_total")
	assert.NoError(t, err)
}
