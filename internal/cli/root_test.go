package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "infospace", cmd.Use)
	assert.Contains(t, cmd.Long, "triple")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"add", "node", "list", "neighbors", "select", "flatten", "clear", "space", "watch", "scenario"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestSpaceSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"new", "current"} {
		subCmd, _, err := cmd.Find([]string{"space", name})
		require.NoError(t, err)
		assert.Equal(t, name, subCmd.Name())
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
	assert.Equal(t, "infospace.yaml", configFlag.DefValue)

	for _, name := range []string{"data-dir", "space", "backend", "match", "duplicate-policy"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue, "%s overrides config only when set", name)
	}
}

func TestGuestSpaceFlag(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"add", "node", "list", "neighbors", "select", "flatten", "clear", "watch"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.NotNil(t, subCmd.Flags().Lookup("in-space"), "%s should accept --in-space", name)
	}
}

func TestNeighborsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	nCmd, _, err := cmd.Find([]string{"neighbors"})
	require.NoError(t, err)

	tableFlag := nCmd.Flags().Lookup("table")
	require.NotNil(t, tableFlag)
	assert.Equal(t, "t", tableFlag.Shorthand)

	for _, name := range []string{"except-decorated", "not", "with", "triple-ids"} {
		assert.NotNil(t, nCmd.Flags().Lookup(name), name)
	}
}

func TestScenarioCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sCmd, _, err := cmd.Find([]string{"scenario"})
	require.NoError(t, err)

	updateFlag := sCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	require.NotNil(t, sCmd.Flags().Lookup("golden-dir"))
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "triple store")
	assert.Contains(t, cmd.Long, "spaces")
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "list", "--data-dir", t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}
