package root

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/quickswitch/internal/config"
	"github.com/Paintersrp/quickswitch/internal/state"
)

func TestRootWiresSubcommands(t *testing.T) {
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	s, err := state.NewState("")
	require.NoError(t, err)

	cmd, err := NewCmdRoot(s)
	require.NoError(t, err)

	for _, name := range []string{"open", "day", "tabs", "bookmark", "peek", "settings"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
	require.NotNil(t, cmd.Flags().Lookup("date"))
	require.NotNil(t, cmd.Flags().Lookup("print"))
}

func TestVaultFlagOverridesConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	vaultDir := filepath.Join(home, "elsewhere")
	require.NoError(t, os.MkdirAll(vaultDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vaultDir, "a.md"), []byte("# A"), 0o644))

	s, err := state.NewState("")
	require.NoError(t, err)

	cmd, err := NewCmdRoot(s)
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--vault", vaultDir, "--no-color", "peek", "--raw", "a.md"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "# A", strings.TrimSpace(out.String()))
	require.Equal(t, vaultDir, s.Vault)

	// The override is not written back to the settings file.
	saved, err := config.Load(home)
	require.NoError(t, err)
	require.Empty(t, saved.VaultDir)
}
