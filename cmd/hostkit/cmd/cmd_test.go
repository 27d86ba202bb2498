package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("HOSTKIT_SCRIPTS_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestRunCommand_Welcome(t *testing.T) {
	out := execute(t, "run", "welcome", "--player", "Steve", "--objective", "coins", "--ticks", "20")

	assert.Contains(t, out, "[    0] chat: 0:00 Aviso: welcome: Steve\n")
	assert.Contains(t, out, "[    0] actionbar Steve: Steve has 10 coins\n")
	assert.Contains(t, out, "[   20] actionbar Steve: Steve has 10 coins\n")
	assert.Contains(t, out, "result: 10 (")
}

func TestScriptsListCommand(t *testing.T) {
	out := execute(t, "scripts", "list")

	for _, name := range []string{"armor", "countdown", "welcome"} {
		assert.Contains(t, out, name)
	}
	assert.True(t, strings.HasPrefix(out, "NAME"))
}

func TestSlotsCommand(t *testing.T) {
	out := execute(t, "slots")
	assert.Contains(t, out, "chestplate")
	assert.Contains(t, out, "Mainhand")
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Equal(t, "hostkit v"+version+"\n", out)
}
