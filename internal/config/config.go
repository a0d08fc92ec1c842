package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/quickswitch/internal/constants"
	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

type SectionsConfig struct {
	Search     bool `yaml:"search"      json:"search"`
	Tabs       bool `yaml:"tabs"        json:"tabs"`
	Bookmarks  bool `yaml:"bookmarks"   json:"bookmarks"`
	DailyNotes bool `yaml:"daily_notes" json:"daily_notes"`
}

type PaletteConfig struct {
	ExcludedFolders    []string       `yaml:"excluded_folders"       json:"excluded_folders"`
	ShowTags           bool           `yaml:"show_tags"              json:"show_tags"`
	ShowPath           bool           `yaml:"show_path"              json:"show_path"`
	SortOrder          string         `yaml:"sort_order"             json:"sort_order"`
	AlwaysOpenInNewTab bool           `yaml:"always_open_in_new_tab" json:"always_open_in_new_tab"`
	Sections           SectionsConfig `yaml:"sections"               json:"sections"`
}

type DailyNotesConfig struct {
	Format   string `yaml:"format"   json:"format"`
	Folder   string `yaml:"folder"   json:"folder"`
	Template string `yaml:"template" json:"template"`
}

type Bookmark struct {
	Path  string `yaml:"path"  json:"path"`
	Title string `yaml:"title" json:"title"`
}

type BookmarksConfig struct {
	Enabled bool       `yaml:"enabled" json:"enabled"`
	Items   []Bookmark `yaml:"items"   json:"items"`
}

// Config is the whole settings record stored in settings.yaml.
type Config struct {
	VaultDir       string              `yaml:"vault_dir"       json:"vault_dir"`
	Editor         string              `yaml:"editor"          json:"editor"`
	NvimArgs       string              `yaml:"nvim_args"       json:"nvim_args"`
	Palette        PaletteConfig       `yaml:"palette"         json:"palette"`
	DailyNotes     DailyNotesConfig    `yaml:"daily_notes"     json:"daily_notes"`
	Bookmarks      BookmarksConfig     `yaml:"bookmarks"       json:"bookmarks"`
	Closed         []palette.ClosedTab `yaml:"recently_closed" json:"recently_closed"`

	home string `yaml:"-"`
}

var validEditorNames = []string{"nvim", "vim", "nano", "code", "vscode", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}

	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s.",
		editor,
		validEditorList(),
	)
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	if len(quoted) == 0 {
		return ""
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// Default returns the settings a fresh install starts with.
func Default() *Config {
	return &Config{
		Editor: "nvim",
		Palette: PaletteConfig{
			ExcludedFolders: []string{"attachments", "Attachments"},
			ShowTags:        true,
			ShowPath:        true,
			SortOrder:       string(palette.SortRecency),
			Sections: SectionsConfig{
				Search:     true,
				Tabs:       true,
				Bookmarks:  true,
				DailyNotes: true,
			},
		},
		DailyNotes: DailyNotesConfig{
			Format: constants.DefaultDailyFormat,
		},
		Bookmarks: BookmarksConfig{
			Enabled: true,
			Items:   []Bookmark{},
		},
		Closed: []palette.ClosedTab{},
	}
}

// Load reads the settings file under home. Missing keys keep their default
// values.
func Load(home string) (*Config, error) {
	data, err := os.ReadFile(GetConfigPath(home))
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", GetConfigPath(home), err)
		}
	}
	cfg.home = home

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.VaultDir != "" {
		expanded, err := homedir.Expand(cfg.VaultDir)
		if err != nil {
			return fmt.Errorf("failed to expand vault_dir: %w", err)
		}
		cfg.VaultDir = pathutil.NormalizePath(expanded)
	}
	if cfg.Palette.SortOrder == "" {
		cfg.Palette.SortOrder = string(palette.SortRecency)
	}
	if cfg.DailyNotes.Format == "" {
		cfg.DailyNotes.Format = constants.DefaultDailyFormat
	}
	if cfg.Bookmarks.Items == nil {
		cfg.Bookmarks.Items = []Bookmark{}
	}
	if cfg.Closed == nil {
		cfg.Closed = []palette.ClosedTab{}
	}
	if len(cfg.Closed) > constants.RecentlyClosedLimit {
		cfg.Closed = cfg.Closed[:constants.RecentlyClosedLimit]
	}
	return nil
}

// Validate checks values that cannot be fixed up silently.
func (cfg *Config) Validate() error {
	if cfg.Editor != "" {
		if err := ValidateEditor(cfg.Editor); err != nil {
			return err
		}
	}

	switch palette.SortOrder(cfg.Palette.SortOrder) {
	case palette.SortRecency, palette.SortOpeningOrder:
	default:
		return fmt.Errorf(
			"invalid sort order: %q. Please choose from '%s' or '%s'.",
			cfg.Palette.SortOrder,
			palette.SortRecency,
			palette.SortOpeningOrder,
		)
	}

	if !cfg.sectionFlags().Any() {
		return fmt.Errorf("at least one palette section must stay enabled")
	}

	return nil
}

func (cfg *Config) sectionFlags() palette.SectionFlags {
	s := cfg.Palette.Sections
	return palette.SectionFlags{
		Search:     s.Search,
		Tabs:       s.Tabs,
		Bookmarks:  s.Bookmarks,
		DailyNotes: s.DailyNotes,
	}
}

// PaletteSettings projects the record onto the controller's settings.
func (cfg *Config) PaletteSettings() palette.Settings {
	s := palette.DefaultSettings()
	s.ExcludedFolders = slices.Clone(cfg.Palette.ExcludedFolders)
	s.ShowTags = cfg.Palette.ShowTags
	s.ShowPath = cfg.Palette.ShowPath
	s.SortOrder = palette.SortOrder(cfg.Palette.SortOrder)
	s.AlwaysOpenInNewTab = cfg.Palette.AlwaysOpenInNewTab
	s.Sections = cfg.sectionFlags()
	s.DailyFormat = cfg.DailyNotes.Format
	s.DailyFolder = cfg.DailyNotes.Folder
	s.DailyTemplate = cfg.DailyNotes.Template
	return s
}

// RecentlyClosed implements palette.HistoryStore.
func (cfg *Config) RecentlyClosed() []palette.ClosedTab {
	return slices.Clone(cfg.Closed)
}

func (cfg *Config) SaveRecentlyClosed(entries []palette.ClosedTab) error {
	if len(entries) > constants.RecentlyClosedLimit {
		entries = entries[:constants.RecentlyClosedLimit]
	}
	cfg.Closed = slices.Clone(entries)
	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	home := cfg.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return GetConfigPath(home)
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

func (cfg *Config) ChangeEditor(editor string) error {
	if err := ValidateEditor(editor); err != nil {
		return err
	}

	cfg.Editor = editor
	return cfg.Save()
}

func (cfg *Config) syncViper() {
	viper.Set("vault_dir", cfg.VaultDir)
	viper.Set("editor", cfg.Editor)
	viper.Set("nvim_args", cfg.NvimArgs)
	viper.Set("palette", cfg.Palette)
	viper.Set("daily_notes", cfg.DailyNotes)
	viper.Set("bookmarks_enabled", cfg.Bookmarks.Enabled)
}
