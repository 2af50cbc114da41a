package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "statebind", cmd.Use)
	assert.Contains(t, cmd.Long, "action journal")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "resolve", "dispatch", "log", "test"}

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

func TestResolveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	resolveCmd, _, err := cmd.Find([]string{"resolve"})
	require.NoError(t, err)

	stateFlag := resolveCmd.Flags().Lookup("state")
	require.NotNil(t, stateFlag)
	assert.Equal(t, "", stateFlag.DefValue)
}

func TestDispatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	dispatchCmd, _, err := cmd.Find([]string{"dispatch"})
	require.NoError(t, err)

	argsFlag := dispatchCmd.Flags().Lookup("args")
	require.NotNil(t, argsFlag)
	assert.Equal(t, "[]", argsFlag.DefValue)

	dbFlag := dispatchCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db falls back to journal.path, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestLogCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	logCmd, _, err := cmd.Find([]string{"log"})
	require.NoError(t, err)

	for _, name := range []string{"db", "session", "type"} {
		assert.NotNil(t, logCmd.Flags().Lookup(name), "flag --%s", name)
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := execute(t, "--format", "invalid", "validate", defsDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatFromConfig(t *testing.T) {
	isolateConfig(t)
	t.Setenv("STATEBIND_OUTPUT_FORMAT", "json")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate", defsDir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), `"status":"ok"`)
}

func TestMissingExplicitConfig(t *testing.T) {
	_, _, err := execute(t, "--config", "/nonexistent/statebind.toml", "validate", defsDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRootOptionsJournalPath(t *testing.T) {
	opts := &RootOptions{}
	opts.Config.Journal.Path = "/var/lib/statebind/journal.db"

	assert.Equal(t, "/tmp/j.db", opts.journalPath("/tmp/j.db"))
	assert.Equal(t, "/var/lib/statebind/journal.db", opts.journalPath(""))
}

func TestRootOptionsLoggerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := &RootOptions{}
	opts.Config.Log.Level = "warn"

	logger := opts.Logger(buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	opts.Verbose = true
	opts.Logger(buf).Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}
