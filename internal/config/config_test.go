package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/quickswitch/internal/config"
	"github.com/Paintersrp/quickswitch/internal/palette"
)

func writeConfig(t *testing.T, home string, cfgData map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(cfgData)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadAcceptsSupportedEditors(t *testing.T) {
	editors := []string{"nvim", "vim", "nano", "code", "custom"}

	for _, editor := range editors {
		editor := editor
		t.Run(editor, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, map[string]any{
				"vault_dir": filepath.Join(home, "vault"),
				"editor":    editor,
			})

			cfg, err := config.Load(home)
			if err != nil {
				t.Fatalf("expected load to succeed for editor %q: %v", editor, err)
			}

			if cfg.Editor != editor {
				t.Fatalf("expected editor %q, got %q", editor, cfg.Editor)
			}
		})
	}
}

func TestLoadRejectsUnsupportedEditor(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"vault_dir": filepath.Join(home, "vault"),
		"editor":    "unsupported",
	})

	_, err := config.Load(home)
	if err == nil {
		t.Fatal("expected load to fail for unsupported editor")
	}

	if !strings.Contains(err.Error(), "invalid editor") {
		t.Fatalf("expected invalid editor error, got %v", err)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"vault_dir": "~/vault",
		"palette": map[string]any{
			"show_path": false,
		},
	})
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.VaultDir != filepath.Join(home, "vault") {
		t.Fatalf("expected vault_dir to expand to home, got %q", cfg.VaultDir)
	}
	if cfg.Palette.ShowPath {
		t.Fatal("expected show_path to be overridden")
	}
	if !cfg.Palette.ShowTags {
		t.Fatal("expected show_tags to keep its default")
	}
	if cfg.Palette.SortOrder != "recency" {
		t.Fatalf("expected default sort order, got %q", cfg.Palette.SortOrder)
	}
	if !slices.Equal(cfg.Palette.ExcludedFolders, []string{"attachments", "Attachments"}) {
		t.Fatalf("unexpected excluded folders %#v", cfg.Palette.ExcludedFolders)
	}
	if cfg.DailyNotes.Format != "YYYY-MM-DD" {
		t.Fatalf("unexpected daily format %q", cfg.DailyNotes.Format)
	}
}

func TestLoadRejectsAllSectionsDisabled(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"palette": map[string]any{
			"sections": map[string]any{
				"search":      false,
				"tabs":        false,
				"bookmarks":   false,
				"daily_notes": false,
			},
		},
	})

	if _, err := config.Load(home); err == nil {
		t.Fatal("expected load to fail with every section disabled")
	}
}

func TestPaletteSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Palette.SortOrder = "opening-order"
	cfg.Palette.Sections.Search = false
	cfg.DailyNotes.Folder = "Journal"

	s := cfg.PaletteSettings()
	if s.SortOrder != palette.SortOpeningOrder {
		t.Fatalf("unexpected sort order %q", s.SortOrder)
	}
	if s.Sections.Search || !s.Sections.Tabs {
		t.Fatalf("unexpected section flags %+v", s.Sections)
	}
	if s.DailyFolder != "Journal" || s.SearchLimit != 50 {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestSaveRecentlyClosedPersists(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var store palette.HistoryStore = config.Default()
	entries := []palette.ClosedTab{}
	for _, p := range []string{"a.md", "b.md", "c.md", "d.md", "e.md", "f.md"} {
		entries = append(entries, palette.ClosedTab{Path: p, Title: strings.TrimSuffix(p, ".md"), Extension: "md"})
	}

	if err := store.SaveRecentlyClosed(entries); err != nil {
		t.Fatalf("SaveRecentlyClosed returned error: %v", err)
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}

	got := reloaded.RecentlyClosed()
	if len(got) != 5 {
		t.Fatalf("expected 5 persisted entries, got %d", len(got))
	}
	if got[0].Path != "a.md" || got[4].Path != "e.md" {
		t.Fatalf("unexpected entries %#v", got)
	}
	if len(reloaded.Closed) != 5 {
		t.Fatalf("expected the record to hold 5 entries, got %d", len(reloaded.Closed))
	}
}

func TestGetAndSet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Default()

	if err := cfg.Set("palette.excluded_folders", "assets, archive ,"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got, _ := cfg.Get("palette.excluded_folders"); got != "assets,archive" {
		t.Fatalf("unexpected excluded folders %q", got)
	}

	if err := cfg.Set("palette.show_tags", "false"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if cfg.Palette.ShowTags {
		t.Fatal("expected show_tags to be false")
	}

	if err := cfg.Set("palette.sort_order", "alphabetical"); err == nil {
		t.Fatal("expected invalid sort order to be rejected")
	}
	if cfg.Palette.SortOrder != "recency" {
		t.Fatalf("expected rejected value to leave record untouched, got %q", cfg.Palette.SortOrder)
	}

	if err := cfg.Set("palette.show_tags", "maybe"); err == nil {
		t.Fatal("expected invalid bool to be rejected")
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if reloaded.Palette.ShowTags {
		t.Fatal("expected persisted show_tags to be false")
	}
	if !slices.Contains(config.Keys(), "daily_notes.template") {
		t.Fatalf("expected daily_notes.template in keys: %v", config.Keys())
	}
}

func TestEnsureConfigExists(t *testing.T) {
	home := t.TempDir()

	err := config.EnsureConfigExists(home)
	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError without a vault, got %v", err)
	}

	if _, err := os.Stat(config.GetConfigPath(home)); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}

	vault := filepath.Join(home, "vault")
	if err := os.MkdirAll(vault, 0o755); err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}
	writeConfig(t, home, map[string]any{"vault_dir": vault})

	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("expected configured vault to pass, got %v", err)
	}
}

func TestChoices(t *testing.T) {
	if got := config.Choices("editor"); !slices.Contains(got, "nvim") || !slices.Contains(got, "custom") {
		t.Fatalf("unexpected editor choices: %v", got)
	}
	if got := config.Choices("palette.sort_order"); !slices.Equal(got, []string{"recency", "opening-order"}) {
		t.Fatalf("unexpected sort order choices: %v", got)
	}
	if got := config.Choices("palette.show_tags"); !slices.Equal(got, []string{"true", "false"}) {
		t.Fatalf("unexpected bool choices: %v", got)
	}
	if got := config.Choices("daily_notes.folder"); got != nil {
		t.Fatalf("expected free text for folder, got %v", got)
	}
}
