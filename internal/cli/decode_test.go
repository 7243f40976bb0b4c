package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSingleChannel(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, path, "--bit", "0", "--label", "rx", "--db", filepath.Join(dir, "none.db"))
	require.NoError(t, err)

	assert.Contains(t, out, "rx: bit 0 @ 9600 baud, 2 frames, 1 messages, 0 dropped")
	assert.Contains(t, out, "Protocol\n")
	assert.Contains(t, out, "  0.001042|          |rx        |41 54")
	assert.Contains(t, out, "|AT              |")
}

func TestDecodeSessionJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)
	sess := writeSessionFile(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, path, "--session", sess, "--db", filepath.Join(dir, "none.db"))
	require.NoError(t, err)

	var result DecodeResult
	decodeData(t, out, &result)

	assert.Equal(t, "bench", result.Session)
	require.Len(t, result.Channels, 2)
	assert.Equal(t, 1, result.Channels[0].Messages)
	assert.Equal(t, 2, result.Channels[1].Messages)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, "rx", result.Entries[0].Label)
	assert.Equal(t, "41 54", result.Entries[0].Hex)
	assert.Equal(t, "AT", result.Entries[0].ASCII)
	assert.InDelta(t, 1.0/960, result.Entries[0].Start, 1e-12)
	assert.InDelta(t, 19.5/testBaud, result.Entries[0].Duration, 1e-12)
	assert.Equal(t, "O", result.Entries[1].ASCII)
	assert.Equal(t, "K", result.Entries[2].ASCII)
	assert.Empty(t, result.Entries[0].Rows)
}

func TestDecodeDump(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, path, "--bit", "0", "--dump", "--bytes-per-line", "1", "--db", filepath.Join(dir, "none.db"))
	require.NoError(t, err)

	var result DecodeResult
	decodeData(t, out, &result)
	require.Len(t, result.Entries, 1)
	require.Len(t, result.Entries[0].Rows, 2)
	assert.Equal(t, "00", result.Entries[0].Rows[0].Address)
	assert.Equal(t, "41", result.Entries[0].Rows[0].Hex)
	assert.Equal(t, "01", result.Entries[0].Rows[1].Address)
	assert.Equal(t, "T", result.Entries[0].Rows[1].ASCII)
}

func TestDecodeTxtExport(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)
	sess := writeSessionFile(t, dir)
	txt := filepath.Join(dir, "bench.txt")

	cmd := NewDecodeCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, path, "--session", sess, "--txt", txt, "--db", filepath.Join(dir, "none.db"))
	require.NoError(t, err)

	var result DecodeResult
	decodeData(t, out, &result)
	assert.Equal(t, txt, result.Export)

	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Protocol", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "  0.010000|  0.008958|tx        |4F"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "  0.020000|  0.010000|tx        |4B"), lines[3])
}

func TestDecodeSessionConflictsWithBit(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)
	sess := writeSessionFile(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, path, "--session", sess, "--bit", "1")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeInvalidArgs)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDecodeMissingCapture(t *testing.T) {
	dir := t.TempDir()

	cmd := NewDecodeCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, filepath.Join(dir, "nope.xml"), "--db", filepath.Join(dir, "none.db"))
	require.Error(t, err)
	assert.Contains(t, out, `"status":"error"`)
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestDecodeInvalidBit(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, path, "--bit", "32", "--db", filepath.Join(dir, "none.db"))
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeInvalidArgs)
}

func TestDecodeWindow(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)
	sess := writeSessionFile(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, path, "--session", sess, "--from", "0.005", "--to", "0.02", "--db", filepath.Join(dir, "none.db"))
	require.NoError(t, err)

	var result DecodeResult
	decodeData(t, out, &result)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "O", result.Entries[0].ASCII)
	assert.Equal(t, "K", result.Entries[1].ASCII)
	assert.Equal(t, 1, result.Channels[0].Messages)
}

func TestDecodeWindowErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeBenchCapture(t, dir)

	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, path, "--from", "2", "--to", "1")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeInvalidArgs)

	cmd = NewDecodeCommand(&RootOptions{Format: "text"})
	_, err = execute(cmd, path, "--from", "1")
	require.Error(t, err)
}
