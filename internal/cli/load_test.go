package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidFile(t *testing.T) {
	dbPath := tempDB(t)
	path := writeScenarioFile(t, twoScenarios)

	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	out, err := execute(t, NewLoadCommand(rootOpts), path)
	require.NoError(t, err)
	assert.Contains(t, out, `Loaded "orders": 2 scenarios`)

	// The stored set is visible to status
	out, err = execute(t, NewStatusCommand(rootOpts))
	require.NoError(t, err)
	assert.Contains(t, out, "Scenarios: 2")
	assert.Contains(t, out, "Cursor:    0")
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeScenarioFile(t, "name: broken\nscenarios: []\n")

	rootOpts := &RootOptions{Format: "text", Database: tempDB(t)}
	out, err := execute(t, NewLoadCommand(rootOpts), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "scenario file rejected")
}

func TestLoadMissingFile(t *testing.T) {
	rootOpts := &RootOptions{Format: "text", Database: tempDB(t)}
	_, err := execute(t, NewLoadCommand(rootOpts), "/nonexistent/scenarios.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestLoadLeavesResultsAlone(t *testing.T) {
	dbPath := tempDB(t)
	srv := okServer(t)

	loadScenarios(t, dbPath, twoScenarios)
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	_, err := execute(t, NewRunCommand(rootOpts), "--url", srv.URL)
	require.NoError(t, err)

	// Reloading scenarios must not discard accumulated results
	loadScenarios(t, dbPath, threeScenarios)
	out, err := execute(t, NewSummaryCommand(rootOpts))
	require.NoError(t, err)
	assert.Contains(t, out, "Total:        2")
}
