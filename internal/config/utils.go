package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/quickswitch/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists creates the settings file with defaults when it is
// missing and reports a ConfigInitError when the vault is not configured.
func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.home = homeDir
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	cfg, err := Load(homeDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return cfg.RequireVault()
}

// RequireVault reports a ConfigInitError unless vault_dir points at an
// existing directory.
func (cfg *Config) RequireVault() error {
	if strings.TrimSpace(cfg.VaultDir) == "" {
		return &ConfigInitError{
			msg: fmt.Sprintf(
				"required config variable %q is not set. Run `qs settings set vault_dir <path>`",
				"vault_dir",
			),
		}
	}

	info, err := os.Stat(cfg.VaultDir)
	if err != nil {
		return &ConfigInitError{msg: fmt.Sprintf("vault %s is not accessible: %v", cfg.VaultDir, err)}
	}
	if !info.IsDir() {
		return &ConfigInitError{msg: fmt.Sprintf("vault %s is not a directory", cfg.VaultDir)}
	}

	return nil
}
