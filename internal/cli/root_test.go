package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lostar", cmd.Use)
	assert.Contains(t, cmd.Long, "logic-state recorder")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"decode", "state", "generate", "import", "list", "ticks"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	generateCmd, _, err := cmd.Find([]string{"generate"})
	require.NoError(t, err)

	outputFlag := generateCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestDecodeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	decodeCmd, _, err := cmd.Find([]string{"decode"})
	require.NoError(t, err)

	for _, name := range []string{"session", "bit", "baud", "label", "invert", "db", "txt", "bytes-per-line", "dump"} {
		assert.NotNil(t, decodeCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestRootInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	_, err := execute(cmd, "--format", "xml", "ticks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootMissingConfigUsesDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "missing.toml")

	cmd := NewRootCommand()
	out, err := execute(cmd, "--config", cfgPath, "ticks", "--min", "0", "--max", "500", "--pixels", "500")
	require.NoError(t, err)
	assert.Equal(t, "0\n100\n200\n300\n400\n500\n", out)
}

func TestRootBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "lostar.toml")
	writeText(t, cfgPath, "log_level = \"loud\"\n")

	cmd := NewRootCommand()
	_, err := execute(cmd, "--config", cfgPath, "ticks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
