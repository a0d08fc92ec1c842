package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/Paintersrp/quickswitch/internal/bookmarks"
	"github.com/Paintersrp/quickswitch/internal/config"
	"github.com/Paintersrp/quickswitch/internal/constants"
	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
	"github.com/Paintersrp/quickswitch/internal/vault"
	"github.com/Paintersrp/quickswitch/internal/watcher"
	"github.com/Paintersrp/quickswitch/internal/workspace"
)

type State struct {
	Config    *config.Config
	Home      string
	Vault     string
	Bookmarks *bookmarks.Manager
	Session   *workspace.Session
	Watcher   *watcher.VaultWatcher
	Index     IndexService

	files  *vault.Index
	opened bool
}

// IndexService exposes the vault index statistics used by the status line.
type IndexService interface {
	QueueUpdate(string)
	Stats() vault.Stats
	Close() error
}

// NewState loads the settings record. The vault itself is only touched by
// Open, so settings commands work before a vault is configured.
func NewState(vaultOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	s := &State{
		Config:    cfg,
		Home:      home,
		Vault:     cfg.VaultDir,
		Bookmarks: bookmarks.NewManager(cfg),
	}
	if err := s.UseVault(vaultOverride); err != nil {
		return nil, err
	}
	return s, nil
}

// UseVault points this run at dir without saving it to the settings file.
// An empty dir keeps the configured vault.
func (s *State) UseVault(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if s.opened {
		return fmt.Errorf("vault already opened at %s", s.Vault)
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return fmt.Errorf("invalid vault path: %w", err)
	}
	if abs, err := filepath.Abs(expanded); err == nil {
		expanded = abs
	}

	s.Config.VaultDir = expanded
	s.Vault = expanded
	viper.Set("vault_dir", expanded)
	return nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(filepath.Join(home, constants.ConfigDir))
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	_ = viper.ReadInConfig()

	var initErr *config.ConfigInitError
	if err := config.EnsureConfigExists(home); err != nil && !errors.As(err, &initErr) {
		return nil, err
	}

	return config.Load(home)
}

// Open indexes the vault, starts the watcher and restores the tab session.
// It is safe to call more than once.
func (s *State) Open() error {
	if s.opened {
		return nil
	}
	if err := s.Config.RequireVault(); err != nil {
		return err
	}

	session, err := workspace.Open(filepath.Join(s.Home, constants.ConfigDir, constants.SessionDir))
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	idx := vault.NewIndex(s.Config.VaultDir, vault.Config{})
	if err := idx.Rebuild(); err != nil {
		return fmt.Errorf("failed to index vault: %w", err)
	}

	if _, err := session.Reconcile(idx.Exists); err != nil {
		return fmt.Errorf("failed to reconcile session: %w", err)
	}

	w, err := watcher.New(s.Config.VaultDir)
	if err != nil {
		_ = idx.Close()
		return fmt.Errorf("failed to create vault watcher: %w", err)
	}
	w.OnChange(idx.QueueUpdate)
	w.OnClose(func() { _ = idx.Close() })

	s.Session = session
	s.files = idx
	s.Index = idx
	s.Watcher = w
	s.opened = true
	return nil
}

// Files returns the vault index. Open must have succeeded.
func (s *State) Files() *vault.Index {
	return s.files
}

// LaunchEditor opens the vault relative path rel in the configured editor.
func (s *State) LaunchEditor(rel string) error {
	abs, err := pathutil.Resolve(s.Config.VaultDir, rel)
	if err != nil {
		return err
	}
	return workspace.Launch(abs)
}

// NewPalette wires a palette controller to the open vault.
func (s *State) NewPalette(opts ...palette.Option) (*palette.Controller, error) {
	if err := s.Open(); err != nil {
		return nil, err
	}

	base := []palette.Option{
		palette.WithBookmarks(s.Bookmarks.Store()),
		palette.WithHistory(s.Config),
	}
	return palette.New(s.Session, s.files, append(base, opts...)...), nil
}

// Close releases resources associated with the state, including the vault
// watcher and the index.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, vault.ErrClosed) {
			errs = append(errs, err)
		}
		s.Index = nil
	}
	s.opened = false

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
