package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/digital"
)

const testBaud = 9600

const testSession = `name: bench
channels:
  - label: rx
    bit: 0
    baud: 9600
  - label: tx
    bit: 1
    baud: 9600
`

// writeBenchCapture writes a capture with "AT" back to back on bit 0 and
// "O", "K" 10 ms apart on bit 1.
func writeBenchCapture(t *testing.T, dir string) string {
	t.Helper()
	rx := digital.GenerateUART(testBaud, 10.0/testBaud, 'A', 'T')
	tx := digital.GenerateUART(testBaud, 0.01, 'O', 'K')
	c, err := digital.Compose(rx, tx)
	require.NoError(t, err)

	path := filepath.Join(dir, "bench.xml")
	require.NoError(t, capture.SaveFile(path, c))
	return path
}

func writeSessionFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bench.yaml")
	writeText(t, path, testSession)
	return path
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData unmarshals the data field of a JSON CLIResponse into v.
func decodeData(t *testing.T, out string, v interface{}) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
