package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/quickswitch/internal/pathutil"
	"github.com/Paintersrp/quickswitch/internal/state"
)

// ResolveVaultPath turns a command line path into a vault relative one.
// Relative arguments are taken relative to the vault, not the working
// directory, unless they start with "./" or "../".
func ResolveVaultPath(s *state.State, arg string) (string, error) {
	if s == nil || s.Config == nil {
		return "", fmt.Errorf("state configuration is not initialized")
	}
	vaultDir := filepath.Clean(s.Config.VaultDir)
	if s.Config.VaultDir == "" {
		return "", fmt.Errorf("vault directory is not configured")
	}
	if arg == "" {
		return "", fmt.Errorf("a path argument is required")
	}

	var resolved string
	switch {
	case filepath.IsAbs(arg):
		resolved = filepath.Clean(arg)
	case isCwdRelative(arg):
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", err
		}
		resolved = abs
	default:
		resolved = filepath.Join(vaultDir, arg)
	}

	rel, err := pathutil.VaultRelative(vaultDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q is outside the vault %q", arg, vaultDir)
	}
	if rel == "" || rel == "." {
		return "", fmt.Errorf("path %q names the vault itself", arg)
	}
	return rel, nil
}

func isCwdRelative(arg string) bool {
	slashed := filepath.ToSlash(arg)
	return slashed == "." || slashed == ".." ||
		strings.HasPrefix(slashed, "./") || strings.HasPrefix(slashed, "../")
}
