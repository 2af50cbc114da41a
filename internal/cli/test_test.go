package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommandPass(t *testing.T) {
	stdout, _, err := execute(t, "test", "testdata/scenarios/cart.yaml")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "test_pass", []byte(stdout))
}

func TestTestCommandFail(t *testing.T) {
	defs, err := filepath.Abs(defsDir)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wrong.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: wrong_count
defs: `+defs+`
flow:
  - dispatch: cart.clear
assertions:
  - type: trace_count
    action: Cart.clear
    count: 2
`), 0o644))

	stdout, _, err := execute(t, "--format", "json", "test", "testdata/scenarios/cart.yaml", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 scenario(s) failed")

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 2)
	assert.True(t, resp.Data.Scenarios[0].Pass)
	assert.False(t, resp.Data.Scenarios[1].Pass)
	require.Len(t, resp.Data.Scenarios[1].Errors, 1)
	assert.Contains(t, resp.Data.Scenarios[1].Errors[0], "2 occurrences of Cart.clear")
}

func TestTestCommandInvalidScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	stdout, _, err := execute(t, "test", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "invalid scenario")
}

func TestDefinitionsLoader(t *testing.T) {
	defs, err := definitionsLoader(defsDir)
	require.NoError(t, err)
	assert.Len(t, defs.Defs, 2)
	assert.Len(t, defs.Selectors, 1)

	_, err = definitionsLoader(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestDefinitionsLoaderRejectsInvalidSelectors(t *testing.T) {
	dir := writeDefs(t, `
package test

selector: cart: summary: fields: {
	total: "cart..total"
}
`)

	_, err := definitionsLoader(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 validation error(s)")
	assert.Contains(t, err.Error(), "E122")
}
