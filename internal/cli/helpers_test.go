package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// writeScenarioFile writes a scenario YAML document into a temp dir and
// returns its path.
func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs a command with args and returns its combined output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

const twoScenarios = `
name: orders
scenarios:
  - description: create order
    input:
      amount: 1
    expected_status: 200
  - description: create second order
    input:
      amount: 2
    expected_status: 200
`

const threeScenarios = `
name: orders
scenarios:
  - description: first
    input: {amount: 1}
    expected_status: 200
  - description: second
    input: {amount: 2}
    expected_status: 200
  - description: third
    input: {amount: 3}
    expected_status: 200
`

// okServer returns 200 with a small JSON body for every request.
func okServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// loadScenarios stores a scenario file through the load command.
func loadScenarios(t *testing.T, dbPath, content string) {
	t.Helper()
	path := writeScenarioFile(t, content)
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	_, err := execute(t, NewLoadCommand(rootOpts), path)
	require.NoError(t, err)
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "scenic.db")
}
