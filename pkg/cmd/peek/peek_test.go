package peek

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/state"
)

func newState(t *testing.T) *state.State {
	t.Helper()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	vaultDir := filepath.Join(home, "vault")
	require.NoError(t, os.MkdirAll(vaultDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vaultDir, "a.md"), []byte("# Alpha\n\nSome **bold** text.\n"), 0o644))

	s, err := state.NewState(vaultDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func execute(t *testing.T, s *state.State, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmdPeek(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPeekRaw(t *testing.T) {
	s := newState(t)

	out, err := execute(t, s, "--raw", "a.md")
	require.NoError(t, err)
	require.Equal(t, "# Alpha\n\nSome **bold** text.\n", out)
}

func TestPeekActiveTab(t *testing.T) {
	s := newState(t)

	_, err := execute(t, s)
	require.Error(t, err)

	_, err = s.Session.OpenFile("a.md", palette.OpenTarget{NewTab: true})
	require.NoError(t, err)

	out, err := execute(t, s, "-r")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# Alpha"))
}

func TestRenderMarkdown(t *testing.T) {
	out, err := render("# Alpha\n\nSome **bold** text.\n", 80, termenv.Ascii)
	require.NoError(t, err)
	require.Contains(t, out, "Alpha")
	require.Contains(t, out, "bold")
}
