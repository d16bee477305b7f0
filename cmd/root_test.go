package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs rootCmd with args and fresh flag values, returning
// everything written to the command's output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("ITINGEN_CACHE_DIR", t.TempDir())
	t.Setenv("ITINGEN_OFFLINE", "true")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "version flag",
			args: []string{"--version"},
		},
		{
			name: "help flag",
			args: []string{"--help"},
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	out, err := executeCommand(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"generate", "timeline", "show", "import", "list", "cache", "healthcheck"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCommand_VerboseFlag(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand(t, "--verbose", "cache", "stats", "--cache-dir", dir)
	require.NoError(t, err)
	assert.True(t, verbose)
}

func TestFlagValue(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("no-banners", false, "")
	fs.Bool("force", false, "")
	fs.String("format", "pdf", "")
	require.NoError(t, fs.Parse([]string{"--no-banners", "--force", "--format", "md"}))

	assert.Equal(t, false, flagValue(fs.Lookup("no-banners")))
	assert.Equal(t, true, flagValue(fs.Lookup("force")))
	assert.Equal(t, "md", flagValue(fs.Lookup("format")))
}
